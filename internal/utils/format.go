package utils

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var amountPrinter = message.NewPrinter(language.English)

// FormatAmount renders n with comma thousands grouping, e.g. 1500000 -> "1,500,000".
func FormatAmount(n int64) string {
	return amountPrinter.Sprintf("%d", n)
}

// FormatRupees renders n as a grouped rupee amount, e.g. "₹1,500".
func FormatRupees(n int64) string {
	return "₹" + FormatAmount(n)
}

// FormatINR renders an amount using crore and lakh units where they apply.
//
//	>= 1,00,00,000 -> "₹1.5 Cr"
//	>= 1,00,000    -> "₹5.0 L"
//	otherwise      -> "₹75,000"
func FormatINR(amount float64) string {
	switch {
	case amount >= 1e7:
		return fmt.Sprintf("₹%.1f Cr", amount/1e7)
	case amount >= 1e5:
		return fmt.Sprintf("₹%.1f L", amount/1e5)
	default:
		return "₹" + amountPrinter.Sprintf("%d", int64(amount))
	}
}
