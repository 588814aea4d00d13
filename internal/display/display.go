// Package display formats calculation results for the result card.
package display

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/scrapvalue/internal/pricing"
)

const (
	// Placeholder is shown in every result field when there is no valid result.
	Placeholder = "-"

	currencySymbol = "$"
	weightUnit     = "lbs"
	priceUnit      = "/lb"
	decimalPlaces  = 2
)

// Fields holds the four strings written to the result card.
type Fields struct {
	MetalType string `json:"metal_type"`
	Weight    string `json:"weight"`
	Price     string `json:"price"`
	Total     string `json:"total"`
}

// Empty returns fields cleared to the placeholder.
func Empty() Fields {
	return Fields{
		MetalType: Placeholder,
		Weight:    Placeholder,
		Price:     Placeholder,
		Total:     Placeholder,
	}
}

// FromResult formats every field of a calculation result.
func FromResult(r pricing.Result) Fields {
	return Fields{
		MetalType: MetalLabel(r.Metal),
		Weight:    Weight(r.Weight),
		Price:     Price(r.PricePerLb),
		Total:     Total(r.Total),
	}
}

// IsEmpty reports whether all fields hold the placeholder.
func (f Fields) IsEmpty() bool {
	return f == Empty()
}

// MetalLabel upper-cases the first letter of the metal identifier.
func MetalLabel(m pricing.Metal) string {
	s := string(m)
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	b.WriteRune(unicode.ToUpper(r))
	b.WriteString(s[size:])
	return b.String()
}

// Weight renders "10.00 lbs".
func Weight(w decimal.Decimal) string {
	return w.StringFixed(decimalPlaces) + " " + weightUnit
}

// Price renders "$3.50/lb".
func Price(p decimal.Decimal) string {
	return Money(p) + priceUnit
}

// Total renders "$35.00".
func Total(t decimal.Decimal) string {
	return Money(t)
}

// Money renders an amount with the currency symbol and two decimals.
// Halves round away from zero, so 1.875 becomes "$1.88".
func Money(v decimal.Decimal) string {
	return currencySymbol + v.StringFixed(decimalPlaces)
}
