package recommender

import (
	"regexp"
	"strconv"
	"strings"

	"insurance-recommendation-engine/internal/models"
)

// ageRegexp takes the first standalone one- or two-digit number as the age.
// It does not look at context, so "₹50 budget, age 30" parses as 50.
// Digits and word boundaries are ASCII: "é25" yields 25 and "२५" yields nothing.
var ageRegexp = regexp.MustCompile(`\b(\d{1,2})\b`)

// ParseUserQuery extracts a preference profile from free text.
// Unrecognized input never fails; it leaves the corresponding fields unset.
func ParseUserQuery(query string) *models.Profile {
	lower := strings.ToLower(query)

	profile := &models.Profile{
		Age:               parseAge(query),
		WantsHealth:       containsAny(lower, healthKeywords),
		WantsAccident:     containsAny(lower, accidentKeywords),
		WantsCritical:     containsAny(lower, criticalKeywords),
		WantsMaternity:    containsAny(lower, maternityKeywords),
		WantsLowPremium:   containsAny(lower, lowPremiumKeywords),
		WantsHighCoverage: containsAny(lower, highCoverageKeywords),
		OriginalQuery:     query,
	}

	profile.Gender, _ = firstMatch(lower, genderRules)
	profile.MaritalStatus, _ = firstMatch(lower, maritalRules)
	profile.Profession, _ = firstMatch(lower, professionRules)
	profile.LifeSituation, _ = firstMatch(lower, lifeSituationRules)

	return profile
}

// parseAge runs on the original-cased text.
func parseAge(query string) *int {
	m := ageRegexp.FindStringSubmatch(query)
	if m == nil {
		return nil
	}
	age, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return &age
}
