package catalog

import (
	"context"
	"fmt"

	"insurance-recommendation-engine/internal/config"
	"insurance-recommendation-engine/internal/services/database"
	s3service "insurance-recommendation-engine/internal/services/s3"
)

// OpenFromConfig loads the catalog from the source named by CATALOG_SOURCE.
// Connections opened for loading are closed before it returns.
func OpenFromConfig(ctx context.Context, cfg *config.Config) (*Catalog, error) {
	switch cfg.CatalogSource {
	case config.CatalogSourceFile, "":
		return Load(ctx, FileSource{Path: cfg.CatalogPath})

	case config.CatalogSourceS3:
		svc, err := s3service.NewService(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create S3 service: %w", err)
		}
		return Load(ctx, S3Source{Client: svc, Key: cfg.CatalogS3Key})

	case config.CatalogSourcePostgres:
		db, err := database.New(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()
		return Load(ctx, PostgresSource{Repo: database.NewProductRepository(db)})

	default:
		return nil, fmt.Errorf("unknown catalog source %q", cfg.CatalogSource)
	}
}
