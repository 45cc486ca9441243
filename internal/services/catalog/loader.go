package catalog

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"insurance-recommendation-engine/internal/config"
	"insurance-recommendation-engine/internal/models"
	"insurance-recommendation-engine/internal/utils"
)

// Source yields the raw catalog rows.
type Source interface {
	Name() string
	Products(ctx context.Context) ([]*models.Product, error)
}

// Downloader fetches an object by key, e.g. the S3 service.
type Downloader interface {
	DownloadFile(ctx context.Context, key string) ([]byte, error)
}

// Lister lists stored catalog rows, e.g. the Postgres product repository.
type Lister interface {
	ListAll(ctx context.Context) ([]*models.Product, error)
}

// FileSource reads a catalog CSV from the local filesystem.
type FileSource struct {
	Path string
}

func (s FileSource) Name() string { return config.CatalogSourceFile }

func (s FileSource) Products(_ context.Context) ([]*models.Product, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", s.Path, err)
	}
	return utils.NewCSVParser().ParseProducts(string(data))
}

// S3Source reads a catalog CSV object.
type S3Source struct {
	Client Downloader
	Key    string
}

func (s S3Source) Name() string { return config.CatalogSourceS3 }

func (s S3Source) Products(ctx context.Context) ([]*models.Product, error) {
	data, err := s.Client.DownloadFile(ctx, s.Key)
	if err != nil {
		return nil, err
	}
	return utils.NewCSVParser().ParseProducts(string(data))
}

// PostgresSource reads the catalog table.
type PostgresSource struct {
	Repo Lister
}

func (s PostgresSource) Name() string { return config.CatalogSourcePostgres }

func (s PostgresSource) Products(ctx context.Context) ([]*models.Product, error) {
	return s.Repo.ListAll(ctx)
}

// Load reads every row from src and builds the catalog.
// Any malformed row fails the whole load.
func Load(ctx context.Context, src Source) (*Catalog, error) {
	start := time.Now()

	products, err := src.Products(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog from %s: %w", src.Name(), err)
	}

	c, err := New(products)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog from %s: %w", src.Name(), err)
	}

	utils.Logger.Info("Catalog loaded",
		zap.String("source", src.Name()),
		zap.Int("rows", c.Len()),
		zap.Int64("max_premium", c.stats.MaxPremium),
		zap.Int64("max_coverage", c.stats.MaxCoverage),
		zap.Int("max_co_pay", c.stats.MaxCoPay),
		zap.Duration("duration", time.Since(start)),
	)

	return c, nil
}

// LoadFile loads a catalog CSV from disk.
func LoadFile(path string) (*Catalog, error) {
	return Load(context.Background(), FileSource{Path: path})
}

// FromCSV builds a catalog from CSV content.
func FromCSV(content string) (*Catalog, error) {
	products, err := utils.NewCSVParser().ParseProducts(content)
	if err != nil {
		return nil, err
	}
	return New(products)
}
