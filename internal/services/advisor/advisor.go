// Package advisor runs the full advice flow for one query: understanding,
// ranking, per-product explanations, narrative and comparison.
package advisor

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"insurance-recommendation-engine/internal/metrics"
	"insurance-recommendation-engine/internal/models"
	"insurance-recommendation-engine/internal/services/narrative"
	"insurance-recommendation-engine/internal/services/recommender"
	"insurance-recommendation-engine/internal/utils"
)

// Narrator produces narrative text and reports which path it is on.
type Narrator interface {
	narrative.Agent
	Mode() string
}

// Recorder persists served advice.
type Recorder interface {
	Record(ctx context.Context, advice *models.Advice) error
}

// Advisor combines the ranking engine with a narrator.
type Advisor struct {
	engine   *recommender.Engine
	narrator Narrator
	recorder Recorder
	surface  string
}

// Option configures an Advisor.
type Option func(*Advisor)

// WithRecorder stores every served advice. Recording errors are logged only.
func WithRecorder(r Recorder) Option {
	return func(a *Advisor) { a.recorder = r }
}

// WithSurface labels metrics with the serving surface (http, lambda, cli).
func WithSurface(surface string) Option {
	return func(a *Advisor) { a.surface = surface }
}

// New creates an advisor.
func New(engine *recommender.Engine, narrator Narrator, opts ...Option) *Advisor {
	a := &Advisor{
		engine:   engine,
		narrator: narrator,
		surface:  "library",
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Engine returns the ranking engine.
func (a *Advisor) Engine() *recommender.Engine {
	return a.engine
}

// NarrativeMode reports whether narrative text currently comes from the external service.
func (a *Advisor) NarrativeMode() string {
	return a.narrator.Mode()
}

// Advise answers a query with up to topN explained recommendations.
func (a *Advisor) Advise(ctx context.Context, query string, topN int) (*models.Advice, error) {
	start := time.Now()

	if err := models.ValidateTopN(topN); err != nil {
		metrics.RecommendationsServed.WithLabelValues(a.surface, "invalid").Inc()
		return nil, err
	}

	understanding := a.narrator.EnhanceQueryUnderstanding(ctx, query)

	profile := a.engine.ParseUserQuery(query)
	recs := a.engine.Recommend(profile, topN)

	explanation := a.narrator.GeneratePersonalizedExplanation(ctx, recs, query)

	advised := make([]models.AdvisedProduct, len(recs))
	for i := range recs {
		advised[i] = models.AdvisedProduct{
			Recommendation: recs[i],
			Explanation:    a.engine.ExplainRecommendation(&recs[i], profile),
			MatchPercent:   recs[i].MatchPercent(),
		}
	}

	var comparison string
	if len(recs) >= 2 {
		comparison = a.narrator.GenerateComparativeAnalysis(ctx, recs)
	}

	advice := &models.Advice{
		RequestID:       uuid.NewString(),
		Query:           query,
		TopN:            topN,
		Profile:         profile,
		Understanding:   understanding,
		Recommendations: advised,
		Explanation:     explanation,
		Comparison:      comparison,
		Summary:         Summarize(recs),
		NarrativeMode:   a.narrator.Mode(),
	}
	advice.ProcessingTime = time.Since(start)

	if a.recorder != nil {
		if err := a.recorder.Record(ctx, advice); err != nil {
			utils.Logger.Warn("Failed to record advice",
				zap.String("request_id", advice.RequestID),
				zap.Error(err),
			)
		}
	}

	outcome := "matched"
	if len(recs) == 0 {
		outcome = "empty"
	}
	metrics.RecommendationsServed.WithLabelValues(a.surface, outcome).Inc()
	metrics.RecommendationResults.Observe(float64(len(recs)))
	metrics.RecommendationDuration.WithLabelValues(advice.NarrativeMode).Observe(advice.ProcessingTime.Seconds())

	utils.Logger.Info("Recommendation served",
		zap.String("request_id", advice.RequestID),
		zap.Int("query_length", len(query)),
		zap.Int("top_n", topN),
		zap.Int("returned", len(recs)),
		zap.String("narrative_mode", advice.NarrativeMode),
		zap.Duration("processing_time", advice.ProcessingTime),
	)

	return advice, nil
}

// Explain scores one catalog product against a query and justifies it.
func (a *Advisor) Explain(query, productID string) (*models.AdvisedProduct, error) {
	product, err := a.engine.Catalog().Get(productID)
	if err != nil {
		return nil, err
	}

	profile := a.engine.ParseUserQuery(query)
	rec := models.NewRecommendation(product, recommender.Score(product, profile, a.engine.Catalog().Stats()))

	return &models.AdvisedProduct{
		Recommendation: rec,
		Explanation:    a.engine.ExplainRecommendation(&rec, profile),
		MatchPercent:   rec.MatchPercent(),
	}, nil
}

// Summarize aggregates a result list. It returns nil for an empty list.
func Summarize(recs []models.Recommendation) *models.ResultSummary {
	if len(recs) == 0 {
		return nil
	}

	s := &models.ResultSummary{
		Count:      len(recs),
		MinPremium: recs[0].MonthlyPremium,
		MaxPremium: recs[0].MonthlyPremium,
	}

	var total int64
	for _, r := range recs {
		s.MinPremium = min(s.MinPremium, r.MonthlyPremium)
		s.MaxPremium = max(s.MaxPremium, r.MonthlyPremium)
		total += r.Coverage
	}

	s.AverageCoverage = float64(total) / float64(len(recs))
	s.AverageDisplay = utils.FormatINR(s.AverageCoverage)

	return s
}
