// Package models defines the data structures for the insurance recommendation engine.
package models

import "fmt"

// ProductType represents the category of an insurance product.
type ProductType string

const (
	ProductTypeHealth ProductType = "Health"
)

// Product represents a single row of the insurance catalog.
type Product struct {
	ID              string      `json:"id" db:"id"`
	Name            string      `json:"name" db:"name"`
	Type            ProductType `json:"type" db:"type"`
	Coverage        int64       `json:"coverage" db:"coverage"`
	MonthlyPremium  int64       `json:"monthly_premium" db:"monthly_premium"`
	CriticalIllness bool        `json:"critical_illness" db:"critical_illness"`
	Maternity       bool        `json:"maternity" db:"maternity"`
	Accident        bool        `json:"accident" db:"accident"`
	CoPay           int         `json:"co_pay" db:"co_pay"`
	AgeMin          int         `json:"age_min" db:"age_min"`
	AgeMax          int         `json:"age_max" db:"age_max"`
}

// AdmitsAge reports whether age falls inside the product's inclusive age band.
func (p *Product) AdmitsAge(age int) bool {
	return p.AgeMin <= age && age <= p.AgeMax
}

// AgeRange returns the "age_min-age_max" display string.
func (p *Product) AgeRange() string {
	return fmt.Sprintf("%d-%d", p.AgeMin, p.AgeMax)
}

// ProductSummary is a lightweight view for listings.
type ProductSummary struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Type           ProductType `json:"type"`
	Coverage       int64       `json:"coverage"`
	MonthlyPremium int64       `json:"monthly_premium"`
	AgeRange       string      `json:"age_range"`
}

// ToSummary converts a Product to ProductSummary.
func (p *Product) ToSummary() ProductSummary {
	return ProductSummary{
		ID:             p.ID,
		Name:           p.Name,
		Type:           p.Type,
		Coverage:       p.Coverage,
		MonthlyPremium: p.MonthlyPremium,
		AgeRange:       p.AgeRange(),
	}
}
