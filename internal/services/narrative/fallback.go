package narrative

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"insurance-recommendation-engine/internal/models"
	"insurance-recommendation-engine/internal/utils"
)

const (
	placeholderUnderstanding = "Basic analysis of insurance requirements"
	noResultsExplanation     = "I couldn't find suitable insurance products for your requirements. Please try adjusting your criteria."
)

var ageRegexp = regexp.MustCompile(`\b(\d{1,2})\b`)

// needRule names an insurance need and the query keywords that signal it.
type needRule struct {
	label    string
	keywords []string
}

// The fallback summary uses its own keyword sets, narrower than the parser's.
var (
	fallbackNeeds = []needRule{
		{"Health Insurance", []string{"health", "medical"}},
		{"Accident Coverage", []string{"accident", "injury"}},
		{"Critical Illness", []string{"critical", "cancer", "heart"}},
		{"Maternity Benefits", []string{"maternity", "pregnancy"}},
	}

	femaleKeywords       = []string{"female", "woman", "girl"}
	maleKeywords         = []string{"male", "man", "boy"}
	marriedKeywords      = []string{"married", "wife", "husband"}
	singleKeywords       = []string{"unmarried", "single"}
	budgetKeywords       = []string{"low premium", "cheap", "affordable"}
	highCoverageKeywords = []string{"high coverage", "comprehensive"}
	criticalKeywords     = []string{"critical", "cancer"}
	maternityKeywords    = []string{"maternity", "pregnancy"}
)

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// Fallback is the deterministic, local narrative generator.
// It is stateless and safe for concurrent use.
type Fallback struct{}

// NewFallback creates a deterministic narrative generator.
func NewFallback() *Fallback {
	return &Fallback{}
}

// EnhanceQueryUnderstanding summarizes what was detected in the query, one line per attribute.
func (f *Fallback) EnhanceQueryUnderstanding(_ context.Context, query string) models.QueryUnderstanding {
	lower := strings.ToLower(query)
	var lines []string

	if m := ageRegexp.FindStringSubmatch(query); m != nil {
		lines = append(lines, fmt.Sprintf("Detected age: %s years", m[1]))
	}

	switch {
	case containsAny(lower, femaleKeywords):
		lines = append(lines, "Gender: Female")
	case containsAny(lower, maleKeywords):
		lines = append(lines, "Gender: Male")
	}

	switch {
	case containsAny(lower, marriedKeywords):
		lines = append(lines, "Marital Status: Married")
	case containsAny(lower, singleKeywords):
		lines = append(lines, "Marital Status: Single")
	}

	var needs []string
	for _, n := range fallbackNeeds {
		if containsAny(lower, n.keywords) {
			needs = append(needs, n.label)
		}
	}
	if len(needs) > 0 {
		lines = append(lines, "Insurance Needs: "+strings.Join(needs, ", "))
	}

	if containsAny(lower, budgetKeywords) {
		lines = append(lines, "Budget Preference: Low Premium")
	}
	if containsAny(lower, highCoverageKeywords) {
		lines = append(lines, "Coverage Preference: High Coverage")
	}

	if len(lines) == 0 {
		return models.QueryUnderstanding{Summary: placeholderUnderstanding}
	}
	return models.QueryUnderstanding{Summary: strings.Join(lines, "\n")}
}

// GeneratePersonalizedExplanation describes a whole result set in a few sentences.
func (f *Fallback) GeneratePersonalizedExplanation(_ context.Context, recs []models.Recommendation, query string) string {
	if len(recs) == 0 {
		return noResultsExplanation
	}

	lower := strings.ToLower(query)
	parts := []string{
		fmt.Sprintf("Based on your requirements, I've found %d suitable insurance products for you.", len(recs)),
	}

	if containsAny(lower, budgetKeywords) {
		parts = append(parts, "I've prioritized products with competitive premium rates to match your budget preferences.")
	}

	if containsAny(lower, criticalKeywords) {
		if n := countRecs(recs, func(r *models.Recommendation) bool { return r.CriticalIllness }); n > 0 {
			parts = append(parts, fmt.Sprintf("%d of the recommended products include critical illness coverage as requested.", n))
		}
	}

	if containsAny(lower, maternityKeywords) {
		if n := countRecs(recs, func(r *models.Recommendation) bool { return r.Maternity }); n > 0 {
			parts = append(parts, fmt.Sprintf("%d products include maternity benefits for your family planning needs.", n))
		}
	}

	minPremium, maxPremium := recs[0].MonthlyPremium, recs[0].MonthlyPremium
	minCoverage, maxCoverage := recs[0].Coverage, recs[0].Coverage
	for _, r := range recs[1:] {
		minPremium = min(minPremium, r.MonthlyPremium)
		maxPremium = max(maxPremium, r.MonthlyPremium)
		minCoverage = min(minCoverage, r.Coverage)
		maxCoverage = max(maxCoverage, r.Coverage)
	}

	parts = append(parts,
		fmt.Sprintf("The recommended plans range from ₹%d to ₹%d per month.", minPremium, maxPremium),
		fmt.Sprintf("Coverage amounts range from %s to %s.", utils.FormatRupees(minCoverage), utils.FormatRupees(maxCoverage)),
	)

	if len(recs) > 1 {
		best := 0
		for i := range recs {
			if costPerCover(&recs[i]) < costPerCover(&recs[best]) {
				best = i
			}
		}
		parts = append(parts, fmt.Sprintf("'%s' offers the best value for money in terms of coverage per rupee spent.", recs[best].Name))
	}

	return strings.Join(parts, " ")
}

// GenerateComparativeAnalysis compares premium, coverage, value and co-pay.
// It returns an empty string for fewer than two results.
func (f *Fallback) GenerateComparativeAnalysis(_ context.Context, recs []models.Recommendation) string {
	if len(recs) < 2 {
		return ""
	}

	byPremium := sortedCopy(recs, func(a, b *models.Recommendation) bool { return a.MonthlyPremium < b.MonthlyPremium })
	cheapest, priciest := byPremium[0], byPremium[len(byPremium)-1]

	byCoverage := sortedCopy(recs, func(a, b *models.Recommendation) bool { return a.Coverage > b.Coverage })
	highest, lowest := byCoverage[0], byCoverage[len(byCoverage)-1]

	byValue := sortedCopy(recs, func(a, b *models.Recommendation) bool { return a.ValueRatio() > b.ValueRatio() })
	bestValue := byValue[0]

	byCoPay := sortedCopy(recs, func(a, b *models.Recommendation) bool { return a.CoPay < b.CoPay })
	lowestCoPay := byCoPay[0]

	paragraphs := []string{
		fmt.Sprintf("**Premium Comparison:** '%s' has the lowest premium at ₹%d/month, while '%s' is the highest at ₹%d/month.",
			cheapest.Name, cheapest.MonthlyPremium, priciest.Name, priciest.MonthlyPremium),
		fmt.Sprintf("**Coverage Comparison:** '%s' offers the highest coverage at %s, while '%s' provides %s.",
			highest.Name, utils.FormatRupees(highest.Coverage), lowest.Name, utils.FormatRupees(lowest.Coverage)),
		fmt.Sprintf("**Best Value:** '%s' offers the best value with %.0f rupees of coverage per rupee of premium.",
			bestValue.Name, bestValue.ValueRatio()),
		fmt.Sprintf("**Co-pay:** '%s' has the lowest co-pay at %d%%.", lowestCoPay.Name, lowestCoPay.CoPay),
	}

	return strings.Join(paragraphs, "\n\n")
}

func countRecs(recs []models.Recommendation, pred func(r *models.Recommendation) bool) int {
	n := 0
	for i := range recs {
		if pred(&recs[i]) {
			n++
		}
	}
	return n
}

func costPerCover(r *models.Recommendation) float64 {
	return float64(r.MonthlyPremium) / float64(r.Coverage)
}

// sortedCopy stably sorts a copy of recs; equal elements keep result order.
func sortedCopy(recs []models.Recommendation, less func(a, b *models.Recommendation) bool) []models.Recommendation {
	out := make([]models.Recommendation, len(recs))
	copy(out, recs)
	sort.SliceStable(out, func(i, j int) bool { return less(&out[i], &out[j]) })
	return out
}
