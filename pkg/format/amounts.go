// Package format renders amounts, percentages and ratios for display.
package format

import (
	"fmt"
	"math"
	"strings"

	"github.com/oscarandresgarntor/billionaires-tax-ca/pkg/constants"
)

// Billions returns an amount in billions with a dollar sign, thousands separators
// and a "B" suffix (e.g., "-$1,234.57B").
func Billions(amount float64) string {
	formatted := groupThousands(math.Abs(amount), 2)
	if amount < 0 {
		return "-$" + formatted + "B"
	}
	return "$" + formatted + "B"
}

// Millions converts an amount in billions to millions for display (e.g., "$150.0M").
func Millions(amountBillions float64) string {
	m := amountBillions * constants.MillionsPerBillion
	formatted := groupThousands(math.Abs(m), 1)
	if m < 0 {
		return "-$" + formatted + "M"
	}
	return "$" + formatted + "M"
}

// Percent renders a fraction as a percentage with the given decimals (0.05 -> "5.0%").
func Percent(fraction float64, decimals int) string {
	return fmt.Sprintf("%.*f%%", decimals, fraction*constants.PercentageMultiplier)
}

// Ratio renders a benefit-cost style ratio, spelling out an unbounded value.
func Ratio(r float64) string {
	switch {
	case math.IsInf(r, 1):
		return "∞"
	case math.IsInf(r, -1):
		return "-∞"
	case math.IsNaN(r):
		return "n/a"
	}
	return fmt.Sprintf("%.2fx", r)
}

// Count renders a headcount with thousands separators and no decimals.
func Count(n float64) string {
	s := groupThousands(math.Abs(n), 0)
	if n < 0 && s != "0" {
		return "-" + s
	}
	return s
}

func groupThousands(value float64, decimals int) string {
	formatted := fmt.Sprintf("%.*f", decimals, value)
	intPart, decPart, hasDec := strings.Cut(formatted, ".")

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	if !hasDec {
		return intPart
	}
	return intPart + "." + decPart
}
