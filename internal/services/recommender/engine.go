// Package recommender ranks catalog products against free-text queries.
//
// Every operation is a pure function of its inputs and the immutable catalog,
// so one Engine can serve concurrent requests without locking.
package recommender

import (
	"sort"

	"insurance-recommendation-engine/internal/models"
	"insurance-recommendation-engine/internal/services/catalog"
)

// Engine scores and ranks the products of one catalog.
type Engine struct {
	catalog *catalog.Catalog
}

// NewEngine creates an engine over a loaded catalog.
func NewEngine(c *catalog.Catalog) *Engine {
	return &Engine{catalog: c}
}

// Catalog returns the catalog the engine ranks.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// ParseUserQuery extracts the preference profile of a query.
func (e *Engine) ParseUserQuery(query string) *models.Profile {
	return ParseUserQuery(query)
}

// GetRecommendations returns up to topN products ranked by descending relevance.
// An empty slice means no product admits the parsed age.
func (e *Engine) GetRecommendations(query string, topN int) ([]models.Recommendation, error) {
	if err := models.ValidateTopN(topN); err != nil {
		return nil, err
	}
	return e.Recommend(ParseUserQuery(query), topN), nil
}

// Recommend ranks the catalog for an already parsed profile.
// Ties keep catalog order.
func (e *Engine) Recommend(profile *models.Profile, topN int) []models.Recommendation {
	eligible := e.catalog.FilterByAge(profile.Age)
	if len(eligible) == 0 || topN <= 0 {
		return []models.Recommendation{}
	}

	stats := e.catalog.Stats()
	scored := make([]models.Recommendation, len(eligible))
	for i, p := range eligible {
		scored[i] = models.NewRecommendation(p, Score(p, profile, stats))
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].RelevanceScore > scored[j].RelevanceScore
	})

	if len(scored) > topN {
		scored = scored[:topN]
	}
	return scored
}

// ExplainRecommendation justifies a result for the profile that produced it.
func (e *Engine) ExplainRecommendation(rec *models.Recommendation, profile *models.Profile) string {
	return ExplainRecommendation(rec, profile)
}
