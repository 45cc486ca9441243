package recommender

import (
	"strings"

	"insurance-recommendation-engine/internal/models"
	"insurance-recommendation-engine/internal/services/catalog"
)

// Score weights.
const (
	weightHealthType    = 3.0
	weightAccident      = 2.0
	weightCritical      = 2.0
	weightMaternity     = 2.0
	weightProfession    = 4.0
	weightLifeSituation = 3.5
	weightAgeBand       = 2.5
	weightLowPremium    = 2.0
	weightHighCoverage  = 1.5
	weightCoPay         = 0.5
)

// Score computes the additive relevance of a product for a profile.
// Premium, coverage and co-pay terms are normalized against catalog-wide maxima.
// The result is non-negative and has no upper bound.
func Score(p *models.Product, profile *models.Profile, stats catalog.Stats) float64 {
	score := 0.0
	name := strings.ToLower(p.Name)

	if profile.WantsHealth && p.Type == models.ProductTypeHealth {
		score += weightHealthType
	}
	if profile.WantsAccident && p.Accident {
		score += weightAccident
	}
	if profile.WantsCritical && p.CriticalIllness {
		score += weightCritical
	}
	if profile.WantsMaternity && p.Maternity {
		score += weightMaternity
	}

	// Name bonuses count once per rule no matter how many keywords hit.
	if profile.Profession != "" && containsAny(name, professionNameKeywords[profile.Profession]) {
		score += weightProfession
	}
	if profile.LifeSituation != "" && containsAny(name, lifeSituationNameKeywords[profile.LifeSituation]) {
		score += weightLifeSituation
	}
	if age, ok := profile.KnownAge(); ok && containsAny(name, ageKeywords(age)) {
		score += weightAgeBand
	}

	if profile.WantsLowPremium && stats.MaxPremium > 0 {
		score += float64(stats.MaxPremium-p.MonthlyPremium) / float64(stats.MaxPremium) * weightLowPremium
	}
	if profile.WantsHighCoverage && stats.MaxCoverage > 0 {
		score += float64(p.Coverage) / float64(stats.MaxCoverage) * weightHighCoverage
	}

	// A catalog where every co-pay is zero contributes nothing here.
	if stats.MaxCoPay > 0 {
		score += float64(stats.MaxCoPay-p.CoPay) / float64(stats.MaxCoPay) * weightCoPay
	}

	return score
}
