package narrative

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"insurance-recommendation-engine/internal/models"
)

func studentShield() models.Recommendation {
	return models.Recommendation{ID: "P001", Name: "Student Health Shield", Type: models.ProductTypeHealth,
		Coverage: 500000, MonthlyPremium: 650, Accident: true, CoPay: 10, RelevanceScore: 10.8, AgeRange: "18-30"}
}

func familyFloater() models.Recommendation {
	return models.Recommendation{ID: "P003", Name: "Family Floater Plus", Type: models.ProductTypeHealth,
		Coverage: 2000000, MonthlyPremium: 1800, CriticalIllness: true, Maternity: true, CoPay: 20, RelevanceScore: 7.1, AgeRange: "25-60"}
}

func TestFallback_EnhanceQueryUnderstanding(t *testing.T) {
	f := NewFallback()
	got := f.EnhanceQueryUnderstanding(context.Background(),
		"I'm a 30 year old married woman looking for affordable health insurance with maternity and critical illness cover, comprehensive")

	want := strings.Join([]string{
		"Detected age: 30 years",
		"Gender: Female",
		"Marital Status: Married",
		"Insurance Needs: Health Insurance, Critical Illness, Maternity Benefits",
		"Budget Preference: Low Premium",
		"Coverage Preference: High Coverage",
	}, "\n")
	assert.Equal(t, want, got.Summary)
}

func TestFallback_EnhanceQueryUnderstanding_Placeholder(t *testing.T) {
	f := NewFallback()

	for _, q := range []string{"", "hello there", "hospital stay cover", "budget plan"} {
		assert.Equal(t, placeholderUnderstanding, f.EnhanceQueryUnderstanding(context.Background(), q).Summary, q)
	}
}

func TestFallback_EnhanceQueryUnderstanding_AgeIsLiteral(t *testing.T) {
	f := NewFallback()

	assert.Equal(t, "Detected age: 07 years", f.EnhanceQueryUnderstanding(context.Background(), "kid aged 07").Summary)
}

func TestFallback_GeneratePersonalizedExplanation(t *testing.T) {
	f := NewFallback()
	recs := []models.Recommendation{studentShield(), familyFloater()}

	got := f.GeneratePersonalizedExplanation(context.Background(), recs, "affordable plan with critical illness and maternity")

	want := strings.Join([]string{
		"Based on your requirements, I've found 2 suitable insurance products for you.",
		"I've prioritized products with competitive premium rates to match your budget preferences.",
		"1 of the recommended products include critical illness coverage as requested.",
		"1 products include maternity benefits for your family planning needs.",
		"The recommended plans range from ₹650 to ₹1800 per month.",
		"Coverage amounts range from ₹500,000 to ₹2,000,000.",
		"'Family Floater Plus' offers the best value for money in terms of coverage per rupee spent.",
	}, " ")
	assert.Equal(t, want, got)
}

func TestFallback_GeneratePersonalizedExplanation_SingleResult(t *testing.T) {
	f := NewFallback()

	got := f.GeneratePersonalizedExplanation(context.Background(), []models.Recommendation{studentShield()}, "cancer cover")

	// No critical-illness product in the set, so no critical sentence; one result, so no best value.
	assert.Equal(t, "Based on your requirements, I've found 1 suitable insurance products for you. "+
		"The recommended plans range from ₹650 to ₹650 per month. "+
		"Coverage amounts range from ₹500,000 to ₹500,000.", got)
}

func TestFallback_GeneratePersonalizedExplanation_Empty(t *testing.T) {
	f := NewFallback()

	assert.Equal(t, noResultsExplanation, f.GeneratePersonalizedExplanation(context.Background(), nil, "anything"))
}

func TestFallback_GenerateComparativeAnalysis_TwoResults(t *testing.T) {
	f := NewFallback()

	got := f.GenerateComparativeAnalysis(context.Background(), []models.Recommendation{studentShield(), familyFloater()})

	paragraphs := strings.Split(got, "\n\n")
	assert.Equal(t, []string{
		"**Premium Comparison:** 'Student Health Shield' has the lowest premium at ₹650/month, while 'Family Floater Plus' is the highest at ₹1800/month.",
		"**Coverage Comparison:** 'Family Floater Plus' offers the highest coverage at ₹2,000,000, while 'Student Health Shield' provides ₹500,000.",
		"**Best Value:** 'Family Floater Plus' offers the best value with 1111 rupees of coverage per rupee of premium.",
		"**Co-pay:** 'Student Health Shield' has the lowest co-pay at 10%.",
	}, paragraphs)
}

func TestFallback_GenerateComparativeAnalysis_FewerThanTwo(t *testing.T) {
	f := NewFallback()

	assert.Empty(t, f.GenerateComparativeAnalysis(context.Background(), nil))
	assert.Empty(t, f.GenerateComparativeAnalysis(context.Background(), []models.Recommendation{studentShield()}))
}

func TestFallback_GenerateComparativeAnalysis_TiesKeepResultOrder(t *testing.T) {
	f := NewFallback()
	a := studentShield()
	b := studentShield()
	b.Name = "Twin Plan"

	got := f.GenerateComparativeAnalysis(context.Background(), []models.Recommendation{a, b})

	assert.Contains(t, got, "'Student Health Shield' has the lowest premium at ₹650/month, while 'Twin Plan' is the highest")
	assert.Contains(t, got, "'Student Health Shield' offers the highest coverage at ₹500,000, while 'Twin Plan' provides")
	assert.Contains(t, got, "**Co-pay:** 'Student Health Shield'")
}
