// Package money reads the free-text prices sellers type into listings.
package money

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// RupeeSymbol prefixes rental prices.
const RupeeSymbol = "₹"

var amountRe = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)

// MaxAmount is the largest value a NUMERIC(12,2) price column holds.
var MaxAmount = decimal.RequireFromString("9999999999.99")

// ParseAmount extracts the first number from a display price such as
// "₹1,500/day" or "40 per kg". Thousands separators are ignored. The result is
// invalid when no number is present or the number does not fit MaxAmount;
// the display text stays authoritative either way.
func ParseAmount(price string) decimal.NullDecimal {
	match := amountRe.FindString(price)
	if match == "" {
		return decimal.NullDecimal{}
	}
	value, err := decimal.NewFromString(strings.ReplaceAll(match, ",", ""))
	if err != nil {
		return decimal.NullDecimal{}
	}
	value = value.Round(2)
	if value.GreaterThan(MaxAmount) {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(value)
}

// EnsureRupeePrefix prepends ₹ unless the price already carries it anywhere.
func EnsureRupeePrefix(price string) string {
	trimmed := strings.TrimSpace(price)
	if strings.Contains(trimmed, RupeeSymbol) {
		return trimmed
	}
	return RupeeSymbol + trimmed
}
