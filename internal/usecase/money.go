package usecase

import (
	"github.com/shopspring/decimal"

	"github.com/Victor-armando18/pricing-scheme/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// reconcile recalcula desconto em valor e percentagem a partir do preço de
// tabela e do preço final: discount_amount = plr - rate e
// discount_percentage = discount_amount * 100 / plr (0 quando plr é 0).
func reconcile(row *domain.LineItem) {
	plr := decimal.NewFromFloat(row.PriceListRate)
	amount := plr.Sub(decimal.NewFromFloat(row.Rate))
	row.DiscountAmount = amount.InexactFloat64()
	if plr.IsZero() {
		row.DiscountPercentage = 0
		return
	}
	row.DiscountPercentage = amount.Mul(hundred).Div(plr).Round(6).InexactFloat64()
}

// percentOf devolve value * pct / 100.
func percentOf(value, pct float64) float64 {
	return decimal.NewFromFloat(value).Mul(decimal.NewFromFloat(pct)).Div(hundred).InexactFloat64()
}

func subtract(a, b float64) float64 {
	return decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b)).InexactFloat64()
}

func multiply(a, b float64) float64 {
	return decimal.NewFromFloat(a).Mul(decimal.NewFromFloat(b)).InexactFloat64()
}
