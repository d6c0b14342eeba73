package domain

import "github.com/shopspring/decimal"

func init() {
	// Amounts travel as JSON numbers, the frontends do arithmetic on them.
	decimal.MarshalJSONWithoutQuotes = true
}

// Sum adds up amounts
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// Percent returns part/whole*100 rounded to two places, zero when whole is zero
func Percent(part, whole decimal.Decimal) float64 {
	if whole.IsZero() {
		return 0
	}
	f, _ := part.Div(whole).Mul(decimal.NewFromInt(100)).Round(2).Float64()
	return f
}
