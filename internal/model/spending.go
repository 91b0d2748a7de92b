package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CategoryTotal is the amount spent in one category over a period.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
}

// MonthlyTotal summarizes one calendar month of spending.
type MonthlyTotal struct {
	ByCategory map[string]decimal.Decimal
	Month      string // YYYY-MM
	Total      decimal.Decimal
}

// FormatAmount renders an amount as whole dong with thousands separators,
// e.g. "1,250,000 VND".
func FormatAmount(amount decimal.Decimal) string {
	digits := amount.Abs().Round(0).StringFixed(0)

	var b strings.Builder
	if amount.Round(0).IsNegative() {
		b.WriteByte('-')
	}
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteString(" VND")
	return b.String()
}
