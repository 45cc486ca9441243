package handlers

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insurance-recommendation-engine/internal/config"
	"insurance-recommendation-engine/internal/services/narrative"
)

func TestBootstrap_FileCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.csv")
	require.NoError(t, os.WriteFile(path, []byte(importCSV), 0o644))

	api, cleanup, err := Bootstrap(context.Background(), &config.Config{
		CatalogSource: config.CatalogSourceFile,
		CatalogPath:   path,
		OpenAIAPIKey:  "your_openai_api_key_here",
		Stage:         "test",
	}, "test")
	require.NoError(t, err)
	defer cleanup()

	report, status := api.Health(context.Background())
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 2, report.CatalogProducts)
	assert.Equal(t, narrative.ModeFallback, report.NarrativeMode)
	assert.Equal(t, "test", report.Stage)
	assert.Nil(t, api.mailer)
	assert.Nil(t, api.db)
}

func TestBootstrap_MissingCatalog(t *testing.T) {
	_, _, err := Bootstrap(context.Background(), &config.Config{
		CatalogSource: config.CatalogSourceFile,
		CatalogPath:   filepath.Join(t.TempDir(), "absent.csv"),
	}, "test")
	assert.ErrorContains(t, err, "failed to load catalog")
}
