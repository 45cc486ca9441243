package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"insurance-recommendation-engine/internal/config"
	"insurance-recommendation-engine/internal/metrics"
	"insurance-recommendation-engine/internal/services/advisor"
	"insurance-recommendation-engine/internal/services/catalog"
	"insurance-recommendation-engine/internal/services/database"
	"insurance-recommendation-engine/internal/services/narrative"
	"insurance-recommendation-engine/internal/services/recommender"
	"insurance-recommendation-engine/internal/services/ses"
	"insurance-recommendation-engine/internal/utils"
)

// Bootstrap wires an API from configuration. Only the catalog is required;
// the recommendation log and email delivery are attached when configured and
// reachable. The returned func releases every connection Bootstrap opened.
func Bootstrap(ctx context.Context, cfg *config.Config, surface string) (*API, func(), error) {
	cat, err := catalog.OpenFromConfig(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	metrics.CatalogProducts.Set(float64(cat.Len()))

	narrator, closeNarrator := narrative.NewFromConfig(ctx, cfg)
	closers := []func(){closeNarrator}

	advisorOpts := []advisor.Option{advisor.WithSurface(surface)}
	apiOpts := []APIOption{WithStage(cfg.Stage)}

	if cfg.RecordRecommendations {
		if db, repo, err := openRecommendationLog(ctx, cfg); err != nil {
			utils.Logger.Warn("Recommendation log unavailable, continuing without it", zap.Error(err))
		} else {
			advisorOpts = append(advisorOpts, advisor.WithRecorder(repo))
			apiOpts = append(apiOpts, WithDatabase(db))
			closers = append(closers, db.Close)
		}
	}

	if cfg.SESSenderEmail != "" {
		mailer, err := ses.NewService(ctx, cfg)
		if err != nil {
			utils.Logger.Warn("Email delivery unavailable", zap.Error(err))
		} else {
			apiOpts = append(apiOpts, WithMailer(mailer))
		}
	}

	adv := advisor.New(recommender.NewEngine(cat), narrator, advisorOpts...)

	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	return NewAPI(adv, apiOpts...), cleanup, nil
}

func openRecommendationLog(ctx context.Context, cfg *config.Config) (*database.DB, *database.RecommendationRepository, error) {
	db, err := database.New(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	repo := database.NewRecommendationRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}

	return db, repo, nil
}
