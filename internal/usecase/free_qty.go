package usecase

import (
	"github.com/shopspring/decimal"

	"github.com/Victor-armando18/pricing-scheme/internal/domain"
)

// FreeItemQty calcula a quantidade gratuita de uma regra de produto para a
// quantidade (stock ou peso) indicada.
func FreeItemQty(d domain.RuleDetail, qty float64) float64 {
	if d.FreeQtyType == domain.FreeQtyPercentage {
		// qty × free_qty / 100, arredondado por defeito a uma casa decimal
		v := decimal.NewFromFloat(qty).Mul(decimal.NewFromFloat(d.FreeQty)).Div(decimal.NewFromInt(10)).Floor()
		return v.Div(decimal.NewFromInt(10)).InexactFloat64()
	}
	if !d.IsRecursive {
		return d.FreeQty
	}

	tq := decimal.NewFromFloat(qty).Sub(decimal.NewFromFloat(d.ApplyRecursionOver))
	if !tq.IsPositive() || d.RecurseFor <= 0 {
		return 0
	}
	free := d.FreeQty
	if free == 0 {
		free = 1
	}
	q := tq.Mul(decimal.NewFromFloat(free)).Div(decimal.NewFromFloat(d.RecurseFor))
	if d.RoundFreeQty {
		q = q.Floor()
	}
	return q.InexactFloat64()
}
