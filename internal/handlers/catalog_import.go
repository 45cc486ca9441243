package handlers

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"insurance-recommendation-engine/internal/models"
	s3service "insurance-recommendation-engine/internal/services/s3"
	"insurance-recommendation-engine/internal/utils"
)

// ProductStore persists an imported catalog. ReplaceCatalog makes the given
// products the whole catalog.
type ProductStore interface {
	EnsureSchema(ctx context.Context) error
	ReplaceCatalog(ctx context.Context, products []*models.Product) (written, removed int, err error)
}

// CatalogImportHandler loads catalog CSVs dropped into S3 into Postgres.
type CatalogImportHandler struct {
	objects s3service.ObjectAPI
	store   ProductStore
}

// NewCatalogImportHandler creates a new catalog import handler.
func NewCatalogImportHandler(objects s3service.ObjectAPI, store ProductStore) *CatalogImportHandler {
	return &CatalogImportHandler{objects: objects, store: store}
}

// CatalogImportResult is the result of importing one catalog file.
type CatalogImportResult struct {
	Message  string   `json:"message"`
	Bucket   string   `json:"bucket,omitempty"`
	Key      string   `json:"key,omitempty"`
	Rows     int      `json:"rows"`
	Upserted int      `json:"upserted"`
	Removed  int      `json:"removed"`
	Errors   []string `json:"errors,omitempty"`
}

// maxReportedErrors bounds the row errors echoed back in a result.
const maxReportedErrors = 10

// Handle processes the first record of an S3 put event.
// A malformed catalog is reported in the result and nothing is written.
func (h *CatalogImportHandler) Handle(ctx context.Context, s3Event events.S3Event) (CatalogImportResult, error) {
	logger := utils.GetLogger()

	if len(s3Event.Records) == 0 {
		return CatalogImportResult{Message: "No records to process"}, nil
	}

	record := s3Event.Records[0]
	bucket := record.S3.Bucket.Name
	key, err := url.QueryUnescape(record.S3.Object.Key)
	if err != nil {
		return CatalogImportResult{}, fmt.Errorf("failed to decode S3 key: %w", err)
	}

	if !strings.HasSuffix(strings.ToLower(key), ".csv") {
		return CatalogImportResult{Message: "Skipped non-CSV object", Bucket: bucket, Key: key}, nil
	}

	logger.Info("Importing catalog file",
		utils.String("bucket", bucket),
		utils.String("key", key))

	content, err := s3service.NewWithClient(h.objects, bucket).DownloadFile(ctx, key)
	if err != nil {
		return CatalogImportResult{}, err
	}

	rejected := func(rows int, errs []string) (CatalogImportResult, error) {
		logger.Warn("Rejected catalog file",
			utils.String("key", key),
			utils.Int("rows", rows),
			utils.String("first_error", errs[0]))
		return CatalogImportResult{
			Message: "Catalog rejected",
			Bucket:  bucket,
			Key:     key,
			Rows:    rows,
			Errors:  errs,
		}, nil
	}

	report, _ := utils.ValidateCSVStructure(string(content))
	if !report.Valid {
		return rejected(report.RowCount, structureErrors(report))
	}

	products, err := utils.NewCSVParser().ParseProducts(string(content))
	if err != nil {
		return rejected(report.RowCount, importErrors(err))
	}

	if err := h.store.EnsureSchema(ctx); err != nil {
		return CatalogImportResult{}, err
	}

	written, removed, err := h.store.ReplaceCatalog(ctx, products)
	if err != nil {
		logger.Error("Failed to store catalog", utils.Error(err))
		return CatalogImportResult{}, fmt.Errorf("failed to store catalog: %w", err)
	}

	logger.Info("Imported catalog",
		utils.String("key", key),
		utils.Int("upserted", written),
		utils.Int("removed", removed))

	return CatalogImportResult{
		Message:  "Catalog imported successfully",
		Bucket:   bucket,
		Key:      key,
		Rows:     report.RowCount,
		Upserted: written,
		Removed:  removed,
	}, nil
}

// structureErrors describes why a file failed the structural check.
func structureErrors(report *utils.CSVValidationResult) []string {
	errs := append([]string{}, report.Errors...)
	if len(report.MissingColumns) > 0 {
		errs = append(errs, fmt.Sprintf("%v: %s", utils.ErrMissingColumns, strings.Join(report.MissingColumns, ", ")))
	}
	if report.RowCount == 0 && len(report.Errors) == 0 {
		errs = append(errs, utils.ErrNoDataRows.Error())
	}
	if len(errs) > maxReportedErrors {
		errs = errs[:maxReportedErrors]
	}
	return errs
}

// importErrors splits a joined parse error into at most maxReportedErrors lines.
func importErrors(err error) []string {
	msgs := strings.Split(err.Error(), "\n")
	if len(msgs) > maxReportedErrors {
		msgs = msgs[:maxReportedErrors]
	}
	return msgs
}
