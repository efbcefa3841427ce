package pricing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Round2 rounds to cents, half away from zero. Prices are never negative,
// so this is round-half-up.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// discountedUnit applies pct percent off base and rounds the unit price.
func discountedUnit(base, pct decimal.Decimal) decimal.Decimal {
	if pct.GreaterThan(hundred) {
		pct = hundred
	}
	factor := decimal.NewFromInt(1).Sub(pct.Div(hundred))
	return Round2(base.Mul(factor))
}
