package recommender

import (
	"strings"

	"insurance-recommendation-engine/internal/models"
)

const genericExplanation = "Suitable option based on your profile and requirements"

// reasonTier is one candidate sentence of a reason group.
type reasonTier struct {
	applies func(rec *models.Recommendation, p *models.Profile) bool
	text    string
}

// reasonGroup yields at most one sentence: the first tier that applies.
type reasonGroup []reasonTier

// explanationGroups are evaluated in order; each contributes zero or one sentence.
var explanationGroups = []reasonGroup{
	{{func(r *models.Recommendation, p *models.Profile) bool {
		return p.WantsHealth && r.Type == models.ProductTypeHealth
	}, "🏥 Perfectly matches your health insurance requirement"}},

	{{func(r *models.Recommendation, p *models.Profile) bool {
		return p.WantsAccident && r.Accident
	}, "🚨 Provides comprehensive accident coverage as requested"}},

	{{func(r *models.Recommendation, p *models.Profile) bool {
		return p.WantsCritical && r.CriticalIllness
	}, "❤️ Includes critical illness protection for serious conditions"}},

	{{func(r *models.Recommendation, p *models.Profile) bool {
		return p.WantsMaternity && r.Maternity
	}, "👶 Offers maternity benefits for family planning"}},

	// Premium tier, only when the query asked for a low premium.
	{
		{func(r *models.Recommendation, p *models.Profile) bool {
			return p.WantsLowPremium && r.MonthlyPremium <= 1000
		}, "💰 Very affordable premium that fits your budget"},
		{func(r *models.Recommendation, p *models.Profile) bool {
			return p.WantsLowPremium && r.MonthlyPremium <= 1500
		}, "💵 Reasonably priced with good value for money"},
	},

	// Coverage tier, only when the query asked for high coverage.
	{
		{func(r *models.Recommendation, p *models.Profile) bool {
			return p.WantsHighCoverage && r.Coverage >= 2000000
		}, "🛡️ Excellent high coverage amount for comprehensive protection"},
		{func(r *models.Recommendation, p *models.Profile) bool {
			return p.WantsHighCoverage && r.Coverage >= 1000000
		}, "📈 Good coverage amount for substantial protection"},
	},

	// Co-pay tier, always evaluated.
	{
		{func(r *models.Recommendation, _ *models.Profile) bool {
			return r.CoPay <= 10
		}, "💳 Very low co-pay means minimal out-of-pocket expenses"},
		{func(r *models.Recommendation, _ *models.Profile) bool {
			return r.CoPay <= 20
		}, "💸 Reasonable co-pay percentage for cost sharing"},
	},

	// Age notes. Age 25 can satisfy both the first and third tier; the first wins.
	{
		{func(r *models.Recommendation, p *models.Profile) bool {
			age, ok := p.KnownAge()
			return ok && age <= 25 && r.MonthlyPremium <= 700
		}, "🎓 Great option for young adults with student-friendly pricing"},
		{func(r *models.Recommendation, p *models.Profile) bool {
			age, ok := p.KnownAge()
			return ok && age >= 50 && r.CriticalIllness
		}, "👴 Excellent choice for seniors with critical illness coverage"},
		{func(r *models.Recommendation, p *models.Profile) bool {
			age, ok := p.KnownAge()
			return ok && age >= 25 && age <= 40 && r.Maternity
		}, "👨‍👩‍👧‍👦 Perfect for young families with maternity benefits"},
	},

	// Product name hints.
	{
		{nameContains("family"), "👪 Specially designed for family coverage needs"},
		{nameContains("senior"), "👵 Tailored specifically for senior citizen requirements"},
		{nameContains("student"), "📚 Designed specifically for students and young professionals"},
	},

	// Value ratio tier.
	{
		{valueAbove(2500), "⭐ Outstanding value - maximum coverage for every rupee spent"},
		{valueAbove(2000), "👍 Excellent value proposition with great coverage-to-premium ratio"},
		{valueAbove(1500), "✅ Good balance between premium cost and coverage benefits"},
	},
}

func nameContains(keyword string) func(*models.Recommendation, *models.Profile) bool {
	return func(r *models.Recommendation, _ *models.Profile) bool {
		return strings.Contains(strings.ToLower(r.Name), keyword)
	}
}

func valueAbove(threshold float64) func(*models.Recommendation, *models.Profile) bool {
	return func(r *models.Recommendation, _ *models.Profile) bool {
		return r.MonthlyPremium > 0 && r.ValueRatio() > threshold
	}
}

// ExplainRecommendation justifies one result for the profile that produced it.
// Sentences are joined with ". "; when nothing applies a generic sentence is returned.
func ExplainRecommendation(rec *models.Recommendation, profile *models.Profile) string {
	var reasons []string

	for _, group := range explanationGroups {
		for _, tier := range group {
			if tier.applies(rec, profile) {
				reasons = append(reasons, tier.text)
				break
			}
		}
	}

	if len(reasons) == 0 {
		return genericExplanation
	}
	return strings.Join(reasons, ". ")
}
