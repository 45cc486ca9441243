// Health Check Lambda entry point
package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"

	"insurance-recommendation-engine/internal/config"
	"insurance-recommendation-engine/internal/handlers"
	"insurance-recommendation-engine/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	_ = utils.InitLogger(cfg.LogLevel)
	defer utils.Sync()

	api, cleanup, err := handlers.Bootstrap(context.Background(), cfg, "lambda")
	if err != nil {
		panic("Failed to create handler: " + err.Error())
	}
	defer cleanup()

	lambda.Start(handlers.NewLambdaHandler(api).Health)
}
