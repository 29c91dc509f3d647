package products

import "github.com/shopspring/decimal"

// EffectiveUnitPriceCents applies the product discount to the list price,
// rounding half away from zero to whole cents. Discounts outside [0, 100]
// are clamped.
func EffectiveUnitPriceCents(priceCents int64, discountPercent int) int64 {
	if discountPercent <= 0 {
		return priceCents
	}
	if discountPercent >= 100 {
		return 0
	}

	price := decimal.NewFromInt(priceCents)
	factor := decimal.NewFromInt(int64(100 - discountPercent)).Div(decimal.NewFromInt(100))
	return price.Mul(factor).Round(0).IntPart()
}
