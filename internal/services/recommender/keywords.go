package recommender

import (
	"math"
	"strings"

	"insurance-recommendation-engine/internal/models"
)

// keywordRule maps a keyword set to the value it signals.
// Rule lists are evaluated in slice order and the first hit wins,
// so the order of every list below is part of the behavior.
type keywordRule[T any] struct {
	value    T
	keywords []string
}

// firstMatch returns the value of the first rule with a keyword contained in text.
func firstMatch[T any](text string, rules []keywordRule[T]) (T, bool) {
	for _, r := range rules {
		if containsAny(text, r.keywords) {
			return r.value, true
		}
	}
	var zero T
	return zero, false
}

// containsAny reports whether any keyword is a substring of text.
func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// Query keyword sets.
var (
	genderRules = []keywordRule[models.Gender]{
		{models.GenderFemale, []string{"female", "woman", "girl"}},
		{models.GenderMale, []string{"male", "man", "boy"}},
	}

	maritalRules = []keywordRule[models.MaritalStatus]{
		{models.MaritalStatusMarried, []string{"married", "wife", "husband"}},
		{models.MaritalStatusSingle, []string{"unmarried", "single"}},
	}

	healthKeywords       = []string{"health", "medical", "hospital"}
	accidentKeywords     = []string{"accident", "injury"}
	criticalKeywords     = []string{"critical", "cancer", "heart", "stroke"}
	maternityKeywords    = []string{"maternity", "pregnancy", "childbirth"}
	lowPremiumKeywords   = []string{"low premium", "cheap", "affordable", "budget"}
	highCoverageKeywords = []string{"high coverage", "maximum coverage", "comprehensive"}

	professionRules = []keywordRule[models.Profession]{
		{models.ProfessionStudent, []string{"student", "college", "university", "intern"}},
		{models.ProfessionTech, []string{"software", "developer", "engineer", "tech", "it", "programmer", "data scientist"}},
		{models.ProfessionFinance, []string{"banker", "financial", "investment", "stock broker", "insurance agent"}},
		{models.ProfessionMedical, []string{"doctor", "nurse", "medical professional", "healthcare"}},
		{models.ProfessionTransport, []string{"driver", "taxi", "uber", "ola", "delivery", "truck driver"}},
		{models.ProfessionDefense, []string{"army", "navy", "airforce", "military", "soldier", "police"}},
		{models.ProfessionSports, []string{"athlete", "sports", "player", "fitness"}},
		{models.ProfessionSenior, []string{"senior citizen", "retired", "elderly", "old age"}},
	}

	lifeSituationRules = []keywordRule[models.LifeSituation]{
		{models.LifeSituationSingleParent, []string{"single mother", "single father", "divorced", "widow"}},
		{models.LifeSituationFamily, []string{"family", "spouse", "children"}},
		{models.LifeSituationPreExisting, []string{"diabetes", "hypertension", "heart disease", "kidney"}},
	}
)

// Product-name keyword sets used by the scorer.
var (
	professionNameKeywords = map[models.Profession][]string{
		models.ProfessionStudent:   {"student", "college", "teen", "youth", "graduate"},
		models.ProfessionTech:      {"tech", "software", "data", "cyber", "cloud", "devops", "startup"},
		models.ProfessionFinance:   {"bank", "financial", "investment", "stock", "insurance", "corporate"},
		models.ProfessionMedical:   {"doctor", "medical"},
		models.ProfessionTransport: {"driver", "taxi", "uber", "delivery", "truck", "bike"},
		models.ProfessionDefense:   {"army", "navy", "airforce", "military", "soldier", "police", "defense"},
		models.ProfessionSports:    {"sports", "athlete"},
		models.ProfessionSenior:    {"senior", "retirement", "elder"},
	}

	lifeSituationNameKeywords = map[models.LifeSituation][]string{
		models.LifeSituationSingleParent: {"single", "mother", "father", "divorcee", "widow"},
		models.LifeSituationFamily:       {"family", "multi"},
		models.LifeSituationPreExisting:  {"diabetes", "hypertension", "heart", "kidney", "cancer"},
	}
)

// ageBand is an inclusive upper age bound with the product-name keywords it favors.
type ageBand struct {
	min, max int
	keywords []string
}

// ageBands has no entry for 51-59; those ages get no name bonus.
var ageBands = []ageBand{
	{min: 0, max: 19, keywords: []string{"teen", "youth", "student"}},
	{min: 20, max: 30, keywords: []string{"young", "career", "graduate", "newjobee"}},
	{min: 31, max: 50, keywords: []string{"professional", "executive", "middle"}},
	{min: 60, max: math.MaxInt, keywords: []string{"senior", "retirement", "elder"}},
}

// ageKeywords returns the product-name keywords for an age, or nil.
func ageKeywords(age int) []string {
	for _, b := range ageBands {
		if age >= b.min && age <= b.max {
			return b.keywords
		}
	}
	return nil
}
