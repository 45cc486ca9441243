// Package config provides configuration management for the application.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Catalog sources.
const (
	CatalogSourceFile     = "file"
	CatalogSourceS3       = "s3"
	CatalogSourcePostgres = "postgres"
)

// placeholderAPIKey is the value shipped in the sample .env file.
const placeholderAPIKey = "your_openai_api_key_here"

// Config holds all configuration values for the application.
type Config struct {
	// Narrative API
	OpenAIAPIKey           string
	OpenAIBaseURL          string
	OpenAIModel            string
	NarrativeTimeout       time.Duration
	NarrativeRatePerMinute int

	// Catalog
	CatalogSource string
	CatalogPath   string
	CatalogS3Key  string

	// AWS
	AWSRegion string
	S3Bucket  string

	// Database
	DBHost     string
	DBPort     int
	DBName     string
	DBUser     string
	DBPassword string

	// Connection pool
	DBMaxConns        int
	DBMinConns        int
	DBConnMaxLifetime time.Duration
	DBConnMaxIdleTime time.Duration

	// RecordRecommendations stores every served recommendation in Postgres.
	RecordRecommendations bool

	// Cache
	RedisURL string
	CacheTTL time.Duration

	// SES
	SESSenderEmail string

	// Application
	Port     string
	Stage    string
	LogLevel string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	_ = godotenv.Load()

	cfg := &Config{
		// Narrative API
		OpenAIAPIKey:           getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:          strings.TrimRight(getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"), "/"),
		OpenAIModel:            getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
		NarrativeTimeout:       getEnvDuration("NARRATIVE_TIMEOUT", 30*time.Second),
		NarrativeRatePerMinute: getEnvInt("NARRATIVE_RATE_PER_MINUTE", 60),

		// Catalog
		CatalogSource: strings.ToLower(getEnv("CATALOG_SOURCE", CatalogSourceFile)),
		CatalogPath:   getEnv("CATALOG_PATH", "insurance_products.csv"),
		CatalogS3Key:  getEnv("CATALOG_S3_KEY", "catalog/insurance_products.csv"),

		// AWS
		AWSRegion: getEnv("AWS_REGION", "ap-south-1"),
		S3Bucket:  getEnv("S3_BUCKET", ""),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnvInt("DB_PORT", 5432),
		DBName:     getEnv("DB_NAME", "insurance_catalog"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),

		DBMaxConns:        getEnvInt("DB_MAX_CONNS", 10),
		DBMinConns:        getEnvInt("DB_MIN_CONNS", 2),
		DBConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", time.Hour),
		DBConnMaxIdleTime: getEnvDuration("DB_CONN_MAX_IDLE_TIME", 30*time.Minute),

		RecordRecommendations: getEnvBool("RECORD_RECOMMENDATIONS", false),

		// Cache
		RedisURL: getEnv("REDIS_URL", ""),
		CacheTTL: getEnvDuration("CACHE_TTL", 24*time.Hour),

		// SES
		SESSenderEmail: getEnv("SES_SENDER_EMAIL", ""),

		// Application
		Port:     getEnv("PORT", "8080"),
		Stage:    getEnv("STAGE", "dev"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	return cfg, nil
}

// HasUsableAPIKey reports whether the narrative API key can be used.
// Blank, whitespace-only and the sample placeholder all count as "no key".
func (c *Config) HasUsableAPIKey() bool {
	return UsableAPIKey(c.OpenAIAPIKey)
}

// UsableAPIKey applies the credential rule to a raw key.
func UsableAPIKey(key string) bool {
	key = strings.TrimSpace(key)
	return key != "" && key != placeholderAPIKey
}

// DatabaseURL returns the PostgreSQL connection string.
func (c *Config) DatabaseURL() string {
	sslMode := "require" // Use SSL for RDS
	if c.DBHost == "localhost" || c.DBHost == "127.0.0.1" {
		sslMode = "disable" // Disable SSL for local development
	}
	return "postgres://" + c.DBUser + ":" + c.DBPassword + "@" + c.DBHost + ":" + strconv.Itoa(c.DBPort) + "/" + c.DBName + "?sslmode=" + sslMode
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an environment variable as int or returns a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration retrieves an environment variable as a duration ("30s", "24h")
// or returns a default value.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvBool retrieves an environment variable as a boolean or returns a default value.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
