// Package money holds the two-decimal amounts used for prices and totals.
package money

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

const Places = 2

var (
	Zero = decimal.Zero
	// MaxPrice is the largest unit price a line item accepts
	MaxPrice = decimal.RequireFromString("999999.99")
)

// Parse reads an amount typed by a user. Thousands separators and
// surrounding spaces are ignored and the result is rounded to two places.
func Parse(text string) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", text, err)
	}

	return d.Round(Places), nil
}

// Clamp bounds d to [lo, hi]
func Clamp(d, lo, hi decimal.Decimal) decimal.Decimal {
	if d.LessThan(lo) {
		return lo
	}
	if d.GreaterThan(hi) {
		return hi
	}
	return d
}

// Format renders d as 1,234.56
func Format(d decimal.Decimal) string {
	fixed := d.StringFixed(Places)

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}

	whole, frac, _ := strings.Cut(fixed, ".")
	units := decimal.RequireFromString(whole).IntPart()

	return sign + humanize.Comma(units) + "." + frac
}
