// Package main loads a catalog CSV into Postgres and, optionally, S3.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"insurance-recommendation-engine/internal/config"
	"insurance-recommendation-engine/internal/services/database"
	s3service "insurance-recommendation-engine/internal/services/s3"
	"insurance-recommendation-engine/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	path := flag.String("file", cfg.CatalogPath, "catalog CSV to load")
	upload := flag.Bool("upload", false, "also upload the CSV to S3_BUCKET under CATALOG_S3_KEY")
	skipDB := flag.Bool("skip-db", false, "do not write to Postgres")
	appendOnly := flag.Bool("append", false, "keep products that are not in the file")
	flag.Parse()

	if err := utils.InitLogger(cfg.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer utils.Sync()
	logger := utils.Logger

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	content, err := os.ReadFile(*path)
	if err != nil {
		logger.Fatal("Failed to read catalog", zap.String("path", *path), zap.Error(err))
	}

	products, err := utils.NewCSVParser().ParseProducts(string(content))
	if err != nil {
		logger.Fatal("Catalog is malformed", zap.String("path", *path), zap.Error(err))
	}
	logger.Info("Parsed catalog", zap.String("path", *path), zap.Int("products", len(products)))

	if !*skipDB {
		db, err := database.New(ctx, cfg)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		repo := database.NewProductRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			logger.Fatal("Failed to create schema", zap.Error(err))
		}

		var written, removed int
		if *appendOnly {
			written, err = repo.BulkUpsert(ctx, products)
		} else {
			written, removed, err = repo.ReplaceCatalog(ctx, products)
		}
		if err != nil {
			logger.Fatal("Failed to store catalog", zap.Error(err))
		}

		total, err := repo.Count(ctx)
		if err != nil {
			logger.Warn("Failed to count catalog rows", zap.Error(err))
		}
		logger.Info("Catalog stored in Postgres",
			zap.Int("upserted", written),
			zap.Int("removed", removed),
			zap.Int("total", total),
		)
	}

	if *upload {
		svc, err := s3service.NewService(ctx, cfg)
		if err != nil {
			logger.Fatal("Failed to create S3 service", zap.Error(err))
		}
		if err := svc.UploadFile(ctx, cfg.CatalogS3Key, content, "text/csv"); err != nil {
			logger.Fatal("Failed to upload catalog", zap.Error(err))
		}
		logger.Info("Catalog uploaded to S3",
			zap.String("bucket", svc.Bucket()),
			zap.String("key", cfg.CatalogS3Key),
		)
	}
}
