// Package models defines the data structures for the insurance recommendation engine.
package models

// Gender is the gender tag detected in a query.
type Gender string

const (
	GenderFemale Gender = "female"
	GenderMale   Gender = "male"
)

// MaritalStatus is the marital status tag detected in a query.
type MaritalStatus string

const (
	MaritalStatusMarried MaritalStatus = "married"
	MaritalStatusSingle  MaritalStatus = "single"
)

// Profession is one of a closed set of profession categories.
type Profession string

const (
	ProfessionStudent   Profession = "student"
	ProfessionTech      Profession = "tech"
	ProfessionFinance   Profession = "finance"
	ProfessionMedical   Profession = "medical"
	ProfessionTransport Profession = "transport"
	ProfessionDefense   Profession = "defense"
	ProfessionSports    Profession = "sports"
	ProfessionSenior    Profession = "senior"
)

// ValidProfessions returns all profession categories in detection precedence order.
func ValidProfessions() []Profession {
	return []Profession{
		ProfessionStudent,
		ProfessionTech,
		ProfessionFinance,
		ProfessionMedical,
		ProfessionTransport,
		ProfessionDefense,
		ProfessionSports,
		ProfessionSenior,
	}
}

// IsValid checks if the profession belongs to the closed set.
func (p Profession) IsValid() bool {
	for _, valid := range ValidProfessions() {
		if p == valid {
			return true
		}
	}
	return false
}

// LifeSituation is one of a closed set of life-situation categories.
type LifeSituation string

const (
	LifeSituationSingleParent LifeSituation = "single_parent"
	LifeSituationFamily       LifeSituation = "family"
	LifeSituationPreExisting  LifeSituation = "pre_existing"
)

// Profile is the structured preference profile extracted from a free-text query.
// It is created per request and never persisted.
type Profile struct {
	Age               *int          `json:"age"`
	Gender            Gender        `json:"gender,omitempty"`
	MaritalStatus     MaritalStatus `json:"marital_status,omitempty"`
	WantsHealth       bool          `json:"wants_health"`
	WantsAccident     bool          `json:"wants_accident"`
	WantsCritical     bool          `json:"wants_critical"`
	WantsMaternity    bool          `json:"wants_maternity"`
	WantsLowPremium   bool          `json:"wants_low_premium"`
	WantsHighCoverage bool          `json:"wants_high_coverage"`
	Profession        Profession    `json:"profession,omitempty"`
	LifeSituation     LifeSituation `json:"life_situation,omitempty"`
	OriginalQuery     string        `json:"original_query"`
}

// KnownAge returns the parsed age for age-conditional rules.
// An age of zero counts as unknown here, although eligibility filtering still applies it.
func (p *Profile) KnownAge() (int, bool) {
	if p.Age == nil || *p.Age == 0 {
		return 0, false
	}
	return *p.Age, true
}
