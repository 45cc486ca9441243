//go:build ignore
// +build ignore

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"insurance-recommendation-engine/internal/config"
	"insurance-recommendation-engine/internal/services/database"
	"insurance-recommendation-engine/internal/services/narrative"
	s3service "insurance-recommendation-engine/internal/services/s3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("❌ Failed to load config: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("🔍 Testing service connections...")
	fmt.Println()

	fmt.Println("1️⃣  Checking Environment Variables:")
	checkEnvVar("CATALOG_SOURCE")
	checkEnvVar("AWS_REGION")
	checkEnvVar("S3_BUCKET")
	checkEnvVar("DB_HOST")
	checkEnvVar("REDIS_URL")
	checkEnvVar("SES_SENDER_EMAIL")
	checkEnvVar("OPENAI_API_KEY")
	fmt.Println()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fmt.Println("2️⃣  Testing Database Connection:")
	testDatabase(ctx, cfg)
	fmt.Println()

	fmt.Println("3️⃣  Testing S3 Catalog Object:")
	testS3(ctx, cfg)
	fmt.Println()

	fmt.Println("4️⃣  Testing Narrative Service:")
	testNarrative(ctx, cfg)
	fmt.Println()

	fmt.Println("✅ Connection tests complete!")
}

func checkEnvVar(name string) {
	value := os.Getenv(name)
	if value == "" {
		fmt.Printf("   ❌ %s: NOT SET\n", name)
		return
	}

	masked := value
	if len(value) > 12 && (name == "OPENAI_API_KEY" || name == "REDIS_URL") {
		masked = value[:8] + "..." + value[len(value)-4:]
	}
	fmt.Printf("   ✅ %s: %s\n", name, masked)
}

func testDatabase(ctx context.Context, cfg *config.Config) {
	db, err := database.New(ctx, cfg)
	if err != nil {
		fmt.Printf("   ❌ Database connection failed: %v\n", err)
		return
	}
	defer db.Close()

	fmt.Println("   ✅ Database connection successful!")

	n, err := database.NewProductRepository(db).Count(ctx)
	if err != nil {
		fmt.Printf("   ⚠️  insurance_products not readable: %v\n", err)
		return
	}
	fmt.Printf("   📊 Catalog rows: %d\n", n)
}

func testS3(ctx context.Context, cfg *config.Config) {
	svc, err := s3service.NewService(ctx, cfg)
	if err != nil {
		fmt.Printf("   ❌ %v\n", err)
		return
	}

	exists, err := svc.FileExists(ctx, cfg.CatalogS3Key)
	switch {
	case err != nil:
		fmt.Printf("   ❌ S3 request failed: %v\n", err)
	case exists:
		fmt.Printf("   ✅ s3://%s/%s found\n", svc.Bucket(), cfg.CatalogS3Key)
	default:
		fmt.Printf("   ⚠️  s3://%s/%s does not exist\n", svc.Bucket(), cfg.CatalogS3Key)
	}
}

func testNarrative(ctx context.Context, cfg *config.Config) {
	narrator, closeNarrator := narrative.NewFromConfig(ctx, cfg)
	defer closeNarrator()

	if narrator.Mode() == narrative.ModeFallback {
		fmt.Println("   ⚠️  No usable API key, fallback narrative will be used")
		return
	}

	if narrator.TestConnection(ctx) {
		fmt.Printf("   ✅ %s reachable\n", cfg.OpenAIBaseURL)
	} else {
		fmt.Printf("   ❌ %s unreachable, fallback narrative will be used\n", cfg.OpenAIBaseURL)
	}
}
