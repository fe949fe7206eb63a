// Package money formats store prices. The storefront only sells in rupees.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

const RupeeSymbol = "₹"

// FormatINR renders an amount the way en-IN locales do: at most two fraction
// digits, trailing zeros dropped, and lakh grouping (1,23,456.5).
func FormatINR(amount decimal.Decimal) string {
	return RupeeSymbol + FormatNumber(amount)
}

// FormatNumber is FormatINR without the currency symbol.
func FormatNumber(amount decimal.Decimal) string {
	rounded := amount.Round(2)
	negative := rounded.IsNegative()
	raw := rounded.Abs().String()

	whole, frac, _ := strings.Cut(raw, ".")
	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	b.WriteString(groupIndian(whole))
	if frac != "" {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}

// groupIndian inserts separators after the last three digits and then every two.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return strings.Join(append(groups, tail), ",")
}
