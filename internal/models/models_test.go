package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProduct() *Product {
	return &Product{
		ID:             "P001",
		Name:           "Young Professional Health",
		Type:           ProductTypeHealth,
		Coverage:       1000000,
		MonthlyPremium: 900,
		CoPay:          10,
		AgeMin:         21,
		AgeMax:         45,
	}
}

func TestValidateProduct(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *Product)
		wantErr error
	}{
		{"valid", func(p *Product) {}, nil},
		{"empty id", func(p *Product) { p.ID = " " }, ErrEmptyProductID},
		{"empty name", func(p *Product) { p.Name = "" }, ErrEmptyProductName},
		{"zero coverage", func(p *Product) { p.Coverage = 0 }, ErrInvalidCoverage},
		{"negative premium", func(p *Product) { p.MonthlyPremium = -5 }, ErrInvalidPremium},
		{"co-pay above 100", func(p *Product) { p.CoPay = 101 }, ErrInvalidCoPay},
		{"zero co-pay allowed", func(p *Product) { p.CoPay = 0 }, nil},
		{"inverted age band", func(p *Product) { p.AgeMin = 50 }, ErrInvalidAgeRange},
		{"single-age band", func(p *Product) { p.AgeMin, p.AgeMax = 30, 30 }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProduct()
			tt.mutate(p)
			err := ValidateProduct(p)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateTopN(t *testing.T) {
	assert.NoError(t, ValidateTopN(1))
	assert.ErrorIs(t, ValidateTopN(0), ErrInvalidTopN)
	assert.ErrorIs(t, ValidateTopN(-3), ErrInvalidTopN)
}

func TestParseFlag(t *testing.T) {
	assert.True(t, ParseFlag("Yes"))
	assert.False(t, ParseFlag("yes"))
	assert.False(t, ParseFlag("No"))
	assert.False(t, ParseFlag(""))
	assert.Equal(t, "Yes", FlagLiteral(true))
	assert.Equal(t, "No", FlagLiteral(false))
}

func TestProduct_AdmitsAge(t *testing.T) {
	p := validProduct()
	assert.True(t, p.AdmitsAge(21))
	assert.True(t, p.AdmitsAge(45))
	assert.False(t, p.AdmitsAge(20))
	assert.False(t, p.AdmitsAge(46))
	assert.Equal(t, "21-45", p.AgeRange())
}

func TestNewRecommendation(t *testing.T) {
	rec := NewRecommendation(validProduct(), 7.25)

	assert.Equal(t, "P001", rec.ID)
	assert.Equal(t, 7.25, rec.RelevanceScore)
	assert.Equal(t, "21-45", rec.AgeRange)
	assert.InDelta(t, 1111.11, rec.ValueRatio(), 0.01)
}

func TestRecommendation_MatchPercent(t *testing.T) {
	tests := []struct {
		score float64
		want  int
	}{
		{0, 0},
		{5.55, 55},
		{9.99, 99},
		{10, 100},
		{14.2, 100},
	}

	for _, tt := range tests {
		rec := Recommendation{RelevanceScore: tt.score}
		assert.Equal(t, tt.want, rec.MatchPercent(), "score %v", tt.score)
	}
}

func TestProfile_KnownAge(t *testing.T) {
	var p Profile
	_, ok := p.KnownAge()
	assert.False(t, ok)

	zero := 0
	p.Age = &zero
	_, ok = p.KnownAge()
	assert.False(t, ok, "age zero is treated as unknown")

	age := 28
	p.Age = &age
	got, ok := p.KnownAge()
	require.True(t, ok)
	assert.Equal(t, 28, got)
}

func TestProfession_IsValid(t *testing.T) {
	for _, p := range ValidProfessions() {
		assert.True(t, p.IsValid())
	}
	assert.False(t, Profession("astronaut").IsValid())
	assert.Equal(t, ProfessionStudent, ValidProfessions()[0])
}
