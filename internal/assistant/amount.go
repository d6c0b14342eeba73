package assistant

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// amountToken matches one money token: 50k, 1tr5, 1.5tr, 50.000d, 200000
var amountToken = regexp.MustCompile(`^(\d+(?:[.,]\d+)*)(k|ng|nghin|ngan|tr|trieu|cu|m|ty|d|vnd|dong)?(\d)?$`)

var unitScale = map[string]int64{
	"k":     1_000,
	"ng":    1_000,
	"nghin": 1_000,
	"ngan":  1_000,
	"tr":    1_000_000,
	"trieu": 1_000_000,
	"cu":    1_000_000,
	"m":     1_000_000,
	"ty":    1_000_000_000,
	"d":     1,
	"vnd":   1,
	"dong":  1,
}

// amountSpan is a parsed amount and the token range it occupies
type amountSpan struct {
	Value      decimal.Decimal
	Start, End int // [Start, End) over the token slice
	hasUnit    bool
}

// findAmount scans folded tokens for money amounts. Amounts with a unit win over bare
// numbers; among equals the last one is used.
func findAmount(folded []string) (amountSpan, bool) {
	var best amountSpan
	found := false
	for i := 0; i < len(folded); i++ {
		m := amountToken.FindStringSubmatch(folded[i])
		if m == nil {
			continue
		}
		span := amountSpan{Start: i, End: i + 1}
		unit := m[2]
		if unit == "" && i+1 < len(folded) {
			if _, ok := unitScale[folded[i+1]]; ok {
				unit = folded[i+1]
				span.End = i + 2
			}
		}
		value, ok := parseNumber(m[1])
		if !ok {
			continue
		}
		if unit != "" {
			value = value.Mul(decimal.NewFromInt(unitScale[unit]))
			span.hasUnit = true
		}
		// 1tr5 is 1.5 million
		if m[3] != "" && unitScale[unit] > 1 {
			frac, _ := decimal.NewFromString("0." + m[3])
			value = value.Add(frac.Mul(decimal.NewFromInt(unitScale[unit])))
		}
		if !value.IsPositive() {
			continue
		}
		span.Value = value.Round(0)
		if !found || span.hasUnit || !best.hasUnit {
			best = span
			found = true
		}
		i = span.End - 1
	}
	return best, found
}

// ParseAmount reads a free-form amount such as "50k", "1,5 triệu" or "50.000đ"
func ParseAmount(s string) (decimal.Decimal, bool) {
	_, folded := words(s)
	span, ok := findAmount(folded)
	if !ok || span.Start != 0 || span.End != len(folded) {
		return decimal.Zero, false
	}
	return span.Value, true
}

// parseNumber reads digits with separators. A single separator followed by one or two
// digits is a decimal point (1.5tr); otherwise separators group thousands (50.000).
func parseNumber(s string) (decimal.Decimal, bool) {
	groups := strings.FieldsFunc(s, func(r rune) bool { return r == '.' || r == ',' })
	if len(groups) == 2 && len(groups[1]) < 3 {
		d, err := decimal.NewFromString(groups[0] + "." + groups[1])
		return d, err == nil
	}
	for _, g := range groups[1:] {
		if len(g) != 3 {
			return decimal.Zero, false
		}
	}
	d, err := decimal.NewFromString(strings.Join(groups, ""))
	return d, err == nil
}
