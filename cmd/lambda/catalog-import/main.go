// Catalog import Lambda entry point, triggered by S3 puts of catalog CSVs.
package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"insurance-recommendation-engine/internal/config"
	"insurance-recommendation-engine/internal/handlers"
	"insurance-recommendation-engine/internal/services/database"
	"insurance-recommendation-engine/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	_ = utils.InitLogger(cfg.LogLevel)
	defer utils.Sync()

	ctx := context.Background()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		panic("Failed to load AWS config: " + err.Error())
	}

	db, err := database.New(ctx, cfg)
	if err != nil {
		panic("Failed to connect to database: " + err.Error())
	}
	defer db.Close()

	handler := handlers.NewCatalogImportHandler(s3.NewFromConfig(awsCfg), database.NewProductRepository(db))

	lambda.Start(handler.Handle)
}
