// Package models defines the data structures for the insurance recommendation engine.
package models

import (
	"time"
)

// DefaultTopN is the result count used when a caller does not choose one.
const DefaultTopN = 3

// Recommendation is a scored catalog product returned to callers.
type Recommendation struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Type            ProductType `json:"type"`
	Coverage        int64       `json:"coverage"`
	MonthlyPremium  int64       `json:"monthly_premium"`
	CriticalIllness bool        `json:"critical_illness"`
	Maternity       bool        `json:"maternity"`
	Accident        bool        `json:"accident"`
	CoPay           int         `json:"co_pay"`
	RelevanceScore  float64     `json:"relevance_score"`
	AgeRange        string      `json:"age_range"`
}

// NewRecommendation builds a result record from a product and its score.
func NewRecommendation(p *Product, score float64) Recommendation {
	return Recommendation{
		ID:              p.ID,
		Name:            p.Name,
		Type:            p.Type,
		Coverage:        p.Coverage,
		MonthlyPremium:  p.MonthlyPremium,
		CriticalIllness: p.CriticalIllness,
		Maternity:       p.Maternity,
		Accident:        p.Accident,
		CoPay:           p.CoPay,
		RelevanceScore:  score,
		AgeRange:        p.AgeRange(),
	}
}

// ValueRatio returns coverage divided by monthly premium.
func (r *Recommendation) ValueRatio() float64 {
	return float64(r.Coverage) / float64(r.MonthlyPremium)
}

// MatchPercent converts the unbounded relevance score to the 0-100 display value.
func (r *Recommendation) MatchPercent() int {
	pct := int(r.RelevanceScore / 10 * 100)
	if pct > 100 {
		pct = 100
	}
	return pct
}

// QueryUnderstanding is the narrative summary of what was detected in a query.
type QueryUnderstanding struct {
	Summary string `json:"summary"`
}

// AdvisedProduct is a recommendation with its per-product justification.
type AdvisedProduct struct {
	Recommendation
	Explanation  string `json:"explanation"`
	MatchPercent int    `json:"match_percent"`
}

// ResultSummary aggregates a recommendation list for display.
type ResultSummary struct {
	Count           int     `json:"count"`
	MinPremium      int64   `json:"min_premium"`
	MaxPremium      int64   `json:"max_premium"`
	AverageCoverage float64 `json:"average_coverage"`
	AverageDisplay  string  `json:"average_coverage_display"`
}

// Advice is the complete response for one query.
type Advice struct {
	RequestID       string             `json:"request_id"`
	Query           string             `json:"query"`
	TopN            int                `json:"top_n"`
	Profile         *Profile           `json:"profile"`
	Understanding   QueryUnderstanding `json:"understanding"`
	Recommendations []AdvisedProduct   `json:"recommendations"`
	Explanation     string             `json:"explanation"`
	Comparison      string             `json:"comparison,omitempty"`
	Summary         *ResultSummary     `json:"summary,omitempty"`
	NarrativeMode   string             `json:"narrative_mode"`
	ProcessingTime  time.Duration      `json:"processing_time_ns"`
}

// RecommendationLogEntry is one served recommendation as stored in the audit log.
type RecommendationLogEntry struct {
	ID             int64     `json:"id" db:"id"`
	RequestID      string    `json:"request_id" db:"request_id"`
	Query          string    `json:"query" db:"query"`
	Rank           int       `json:"rank" db:"rank"`
	ProductID      string    `json:"product_id" db:"product_id"`
	RelevanceScore float64   `json:"relevance_score" db:"relevance_score"`
	NarrativeMode  string    `json:"narrative_mode" db:"narrative_mode"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
