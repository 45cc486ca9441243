package recommender

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insurance-recommendation-engine/internal/models"
)

func ids(recs []models.Recommendation) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.ID)
	}
	return out
}

func TestGetRecommendations_CollegeStudent(t *testing.T) {
	engine := NewEngine(testCatalog(t))

	recs, err := engine.GetRecommendations("22-year-old college student looking for affordable health insurance with accident coverage", 3)
	require.NoError(t, err)

	assert.Equal(t, []string{"P001", "P004", "P002"}, ids(recs))
	assert.Equal(t, "18-30", recs[0].AgeRange)
	assert.True(t, recs[0].Accident)
	assert.InDelta(t, 10.791667, recs[0].RelevanceScore, 1e-5)
}

func TestGetRecommendations_NoEligibleProducts(t *testing.T) {
	engine := NewEngine(testCatalog(t))

	recs, err := engine.GetRecommendations("5 year old child needs health cover", 3)
	require.NoError(t, err)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}

func TestGetRecommendations_RejectsNonPositiveTopN(t *testing.T) {
	engine := NewEngine(testCatalog(t))

	for _, n := range []int{0, -1} {
		recs, err := engine.GetRecommendations("health", n)
		assert.ErrorIs(t, err, models.ErrInvalidTopN)
		assert.Nil(t, recs)
	}
}

func TestGetRecommendations_TopNLargerThanEligible(t *testing.T) {
	engine := NewEngine(testCatalog(t))

	recs, err := engine.GetRecommendations("health plan", 100)
	require.NoError(t, err)
	assert.Len(t, recs, 6)
}

func TestGetRecommendations_TiesKeepCatalogOrder(t *testing.T) {
	engine := NewEngine(testCatalog(t))

	recs, err := engine.GetRecommendations("hello there", 6)
	require.NoError(t, err)

	// Only the co-pay term applies; P001 and P002 tie and keep catalog order.
	assert.Equal(t, []string{"P006", "P004", "P001", "P002", "P003", "P005"}, ids(recs))
}

func TestGetRecommendations_SortedAndBounded(t *testing.T) {
	engine := NewEngine(testCatalog(t))
	queries := []string{
		"I'm 24, software developer, want comprehensive tech professional health plan with critical illness",
		"35-year-old Uber driver needs accident coverage with vehicle-specific benefits and low premium",
		"Senior citizen, 68, with diabetes needs health insurance for pre-existing conditions",
		"New mother, 26, wants maternity support with newborn care and family coverage",
		"",
	}

	for _, q := range queries {
		for _, n := range []int{1, 2, 3, 5} {
			recs, err := engine.GetRecommendations(q, n)
			require.NoError(t, err)
			assert.LessOrEqual(t, len(recs), n)
			for i := 1; i < len(recs); i++ {
				assert.GreaterOrEqual(t, recs[i-1].RelevanceScore, recs[i].RelevanceScore, q)
			}
		}
	}
}

func TestGetRecommendations_Idempotent(t *testing.T) {
	engine := NewEngine(testCatalog(t))
	q := "New mother, 26, wants maternity support with newborn care and family coverage"

	first, err := engine.GetRecommendations(q, 5)
	require.NoError(t, err)
	second, err := engine.GetRecommendations(q, 5)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestGetRecommendations_SeniorOnlySeesSeniorBand(t *testing.T) {
	engine := NewEngine(testCatalog(t))

	recs, err := engine.GetRecommendations("Senior citizen, 68, with diabetes needs health insurance", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"P005"}, ids(recs))
}

func TestEngine_ParseAndExplain(t *testing.T) {
	engine := NewEngine(testCatalog(t))
	q := "22-year-old college student looking for affordable health insurance with accident coverage"

	recs, err := engine.GetRecommendations(q, 1)
	require.NoError(t, err)
	require.Len(t, recs, 1)

	profile := engine.ParseUserQuery(q)
	assert.Contains(t, engine.ExplainRecommendation(&recs[0], profile), "student-friendly pricing")
	assert.Equal(t, 6, engine.Catalog().Len())
}
