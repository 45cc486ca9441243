// Package models defines the data structures for the insurance recommendation engine.
package models

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors
var (
	ErrEmptyProductID   = errors.New("product id cannot be empty")
	ErrEmptyProductName = errors.New("product name cannot be empty")
	ErrInvalidCoverage  = errors.New("coverage must be positive")
	ErrInvalidPremium   = errors.New("monthly premium must be positive")
	ErrInvalidCoPay     = errors.New("co-pay must be between 0 and 100")
	ErrInvalidAgeRange  = errors.New("age_min must not exceed age_max")
	ErrInvalidTopN      = errors.New("top_n must be a positive integer")
	ErrProductNotFound  = errors.New("product not found")
)

// flagYes is the only catalog literal that marks a coverage flag as present.
const (
	flagYes = "Yes"
	flagNo  = "No"
)

// ParseFlag converts a catalog "Yes"/"No" literal to a boolean.
// Only the exact literal "Yes" is true; "yes", "Y", "true" and blanks are false.
func ParseFlag(value string) bool {
	return value == flagYes
}

// FlagLiteral converts a boolean back to the catalog literal.
func FlagLiteral(b bool) string {
	if b {
		return flagYes
	}
	return flagNo
}

// ValidateProduct validates a catalog row after ingestion.
func ValidateProduct(p *Product) error {
	if strings.TrimSpace(p.ID) == "" {
		return ErrEmptyProductID
	}

	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyProductName
	}

	if p.Coverage <= 0 {
		return ErrInvalidCoverage
	}

	if p.MonthlyPremium <= 0 {
		return ErrInvalidPremium
	}

	if p.CoPay < 0 || p.CoPay > 100 {
		return ErrInvalidCoPay
	}

	if p.AgeMin > p.AgeMax {
		return fmt.Errorf("%w (%d > %d)", ErrInvalidAgeRange, p.AgeMin, p.AgeMax)
	}

	return nil
}

// ValidateTopN checks the requested result count.
func ValidateTopN(topN int) error {
	if topN <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidTopN, topN)
	}
	return nil
}
