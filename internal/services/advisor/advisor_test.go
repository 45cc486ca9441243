package advisor

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insurance-recommendation-engine/internal/metrics"
	"insurance-recommendation-engine/internal/models"
	"insurance-recommendation-engine/internal/services/catalog"
	"insurance-recommendation-engine/internal/services/narrative"
	"insurance-recommendation-engine/internal/services/recommender"
)

func newTestAdvisor(t *testing.T, opts ...Option) *Advisor {
	t.Helper()

	c, err := catalog.New([]*models.Product{
		{ID: "P001", Name: "Student Health Shield", Type: models.ProductTypeHealth, Coverage: 500000, MonthlyPremium: 650, Accident: true, CoPay: 10, AgeMin: 18, AgeMax: 30},
		{ID: "P002", Name: "Generic Health Plan", Type: models.ProductTypeHealth, Coverage: 500000, MonthlyPremium: 1200, CoPay: 10, AgeMin: 18, AgeMax: 30},
		{ID: "P003", Name: "Family Floater Plus", Type: models.ProductTypeHealth, Coverage: 2000000, MonthlyPremium: 1800, CriticalIllness: true, Maternity: true, CoPay: 20, AgeMin: 25, AgeMax: 60},
		{ID: "P004", Name: "Tech Professional Secure", Type: models.ProductTypeHealth, Coverage: 3000000, MonthlyPremium: 1100, CriticalIllness: true, CoPay: 5, AgeMin: 21, AgeMax: 45},
		{ID: "P005", Name: "Senior Care Gold", Type: models.ProductTypeHealth, Coverage: 1500000, MonthlyPremium: 2400, CriticalIllness: true, CoPay: 30, AgeMin: 60, AgeMax: 80},
	})
	require.NoError(t, err)

	return New(recommender.NewEngine(c), narrative.NewNarrator(nil), opts...)
}

type recordingRecorder struct {
	advices []*models.Advice
	err     error
}

func (r *recordingRecorder) Record(_ context.Context, advice *models.Advice) error {
	r.advices = append(r.advices, advice)
	return r.err
}

func TestAdvise_CollegeStudent(t *testing.T) {
	rec := &recordingRecorder{}
	a := newTestAdvisor(t, WithRecorder(rec), WithSurface("test"))

	advice, err := a.Advise(context.Background(), "22-year-old college student looking for affordable health insurance with accident coverage", 3)
	require.NoError(t, err)

	_, err = uuid.Parse(advice.RequestID)
	assert.NoError(t, err)
	assert.Equal(t, 3, advice.TopN)
	assert.Equal(t, narrative.ModeFallback, advice.NarrativeMode)
	require.NotNil(t, advice.Profile)
	assert.Equal(t, models.ProfessionStudent, advice.Profile.Profession)

	require.Len(t, advice.Recommendations, 3)
	top := advice.Recommendations[0]
	assert.Equal(t, "P001", top.ID)
	assert.Equal(t, 100, top.MatchPercent)
	assert.Contains(t, top.Explanation, "student-friendly pricing")

	assert.Contains(t, advice.Understanding.Summary, "Detected age: 22 years")
	assert.Contains(t, advice.Explanation, "I've found 3 suitable insurance products")
	assert.Contains(t, advice.Comparison, "**Premium Comparison:**")

	require.NotNil(t, advice.Summary)
	assert.Equal(t, 3, advice.Summary.Count)
	assert.Equal(t, int64(650), advice.Summary.MinPremium)
	assert.Equal(t, int64(1200), advice.Summary.MaxPremium)

	require.Len(t, rec.advices, 1)
	assert.Equal(t, advice.RequestID, rec.advices[0].RequestID)
}

func TestAdvise_NoEligibleProducts(t *testing.T) {
	a := newTestAdvisor(t)

	advice, err := a.Advise(context.Background(), "my 5 year old needs cover", 3)
	require.NoError(t, err)

	assert.Empty(t, advice.Recommendations)
	assert.Contains(t, advice.Explanation, "I couldn't find suitable insurance products")
	assert.Empty(t, advice.Comparison)
	assert.Nil(t, advice.Summary)
}

func TestAdvise_SingleResultHasNoComparison(t *testing.T) {
	a := newTestAdvisor(t)

	advice, err := a.Advise(context.Background(), "Senior citizen, 68, needs health insurance", 3)
	require.NoError(t, err)

	require.Len(t, advice.Recommendations, 1)
	assert.Empty(t, advice.Comparison)
}

func TestAdvise_InvalidTopN(t *testing.T) {
	a := newTestAdvisor(t)

	_, err := a.Advise(context.Background(), "health", 0)
	assert.ErrorIs(t, err, models.ErrInvalidTopN)
}

func TestAdvise_CountsOutcomes(t *testing.T) {
	a := newTestAdvisor(t, WithSurface("outcome-test"))
	ctx := context.Background()

	_, _ = a.Advise(ctx, "health", 0)
	_, _ = a.Advise(ctx, "health", 1)
	_, _ = a.Advise(ctx, "my 5 year old", 1)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RecommendationsServed.WithLabelValues("outcome-test", "invalid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RecommendationsServed.WithLabelValues("outcome-test", "matched")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RecommendationsServed.WithLabelValues("outcome-test", "empty")))
}

func TestAdvise_RecorderErrorIsNotFatal(t *testing.T) {
	a := newTestAdvisor(t, WithRecorder(&recordingRecorder{err: errors.New("db down")}))

	advice, err := a.Advise(context.Background(), "health", 2)
	require.NoError(t, err)
	assert.Len(t, advice.Recommendations, 2)
}

func TestExplain(t *testing.T) {
	a := newTestAdvisor(t)

	got, err := a.Explain("22-year-old college student looking for affordable health insurance with accident coverage", "P001")
	require.NoError(t, err)
	assert.Equal(t, "P001", got.ID)
	assert.InDelta(t, 10.791667, got.RelevanceScore, 1e-5)
	assert.Contains(t, got.Explanation, "Designed specifically for students")

	_, err = a.Explain("anything", "P999")
	assert.ErrorIs(t, err, models.ErrProductNotFound)
}

func TestSummarize(t *testing.T) {
	assert.Nil(t, Summarize(nil))

	s := Summarize([]models.Recommendation{
		{MonthlyPremium: 900, Coverage: 500000},
		{MonthlyPremium: 1500, Coverage: 1500000},
	})
	require.NotNil(t, s)
	assert.Equal(t, 2, s.Count)
	assert.Equal(t, int64(900), s.MinPremium)
	assert.Equal(t, int64(1500), s.MaxPremium)
	assert.Equal(t, 1000000.0, s.AverageCoverage)
	assert.Equal(t, "₹10.0 L", s.AverageDisplay)
}
