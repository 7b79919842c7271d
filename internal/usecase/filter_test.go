package usecase

import (
	"testing"

	"github.com/Victor-armando18/pricing-scheme/internal/domain"
)

func TestFilterForQtyAmount(t *testing.T) {
	bounded := domain.QtyAmountRange{MinQty: 10, MaxQty: 20, MinAmt: 0, MaxAmt: 1000}
	tests := []struct {
		name   string
		qty    float64
		amount float64
		r      domain.QtyAmountRange
		want   bool
	}{
		{"dentro dos limites", 15, 500, bounded, true},
		{"acima da quantidade máxima", 25, 500, bounded, false},
		{"limite inferior inclusivo", 10, 0, bounded, true},
		{"limite superior inclusivo", 20, 1000, bounded, true},
		{"abaixo da quantidade mínima", 9.99, 500, bounded, false},
		{"montante acima do máximo", 15, 1000.01, bounded, false},
		{"máximo zero é ilimitado", 1e9, 1e9, domain.QtyAmountRange{MinQty: 1, MinAmt: 1}, true},
		{"montante abaixo do mínimo", 5, 50, domain.QtyAmountRange{MinAmt: 100}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FilterForQtyAmount(tt.qty, tt.amount, tt.r); got != tt.want {
				t.Errorf("FilterForQtyAmount(%v, %v) = %v, esperado %v", tt.qty, tt.amount, got, tt.want)
			}
		})
	}
}

func TestMixedConditionTotals(t *testing.T) {
	tx := &domain.Transaction{Items: []domain.LineItem{
		{Name: "a", ItemCode: "WATER-1L", Qty: 10, StockQty: 10, PriceListRate: 100, Amount: 900, TotalWeight: 10},
		{Name: "b", ItemCode: "WATER-5L", Qty: 4, StockQty: 4, Amount: 1200, TotalWeight: 20},
		{Name: "c", ItemCode: "WATER-1L", Qty: 3, StockQty: 3, IsFreeItem: true},
		{Name: "d", ItemCode: "WATER-5L", Qty: 2, StockQty: 2, Amount: 600, PricingScheme: "OTHER"},
		{Name: "e", ItemCode: "COLA", Qty: 8, StockQty: 8, Amount: 800},
		{Name: "f", ItemCode: "WATER-1L", Qty: 1, StockQty: 1, Amount: 100, PricingScheme: "PRLE-W"},
	}}
	rule := domain.PricingRule{Name: "PRLE-W", ApplyOn: domain.ApplyOnItemCode, Items: []string{"WATER-1L", "WATER-5L"}}

	t.Run("ignora gratuitas e linhas de outros esquemas", func(t *testing.T) {
		qty, amount := MixedConditionTotals(tx, rule, nil, "")
		assertFloat(t, "qty", qty, 14)
		assertFloat(t, "amount", amount, 1000+1200)
	})

	t.Run("inclui as linhas do esquema em validação", func(t *testing.T) {
		qty, amount := MixedConditionTotals(tx, rule, nil, "PRLE-W")
		assertFloat(t, "qty", qty, 15)
		assertFloat(t, "amount", amount, 2300)
	})

	t.Run("por peso", func(t *testing.T) {
		byWeight := rule
		byWeight.QtyBasedOn = domain.QtyBasedOnWeight
		qty, _ := MixedConditionTotals(tx, byWeight, nil, "")
		assertFloat(t, "qty", qty, 30)
	})

	t.Run("regra sem valores de âmbito", func(t *testing.T) {
		qty, amount := MixedConditionTotals(tx, domain.PricingRule{ApplyOn: domain.ApplyOnItemCode}, nil, "")
		if qty != 0 || amount != 0 {
			t.Errorf("esperado 0/0, obtido %v/%v", qty, amount)
		}
	})
}

func TestPreferCurrency(t *testing.T) {
	aoa := domain.PricingRule{Name: "aoa", Currency: "AOA"}
	usd := domain.PricingRule{Name: "usd", Currency: "USD"}
	none := domain.PricingRule{Name: "none"}

	t.Run("mantém apenas a moeda da transação", func(t *testing.T) {
		got := PreferCurrency([]domain.PricingRule{usd, aoa, none}, "AOA")
		if len(got) != 1 || got[0].Name != "aoa" {
			t.Errorf("esperado [aoa], obtido %v", got)
		}
	})

	t.Run("sem correspondência mantém todas", func(t *testing.T) {
		got := PreferCurrency([]domain.PricingRule{usd, none}, "EUR")
		if len(got) != 2 {
			t.Errorf("esperado 2 regras, obtido %d", len(got))
		}
	})

	t.Run("uma só regra não é filtrada", func(t *testing.T) {
		got := PreferCurrency([]domain.PricingRule{usd}, "AOA")
		if len(got) != 1 {
			t.Errorf("esperado 1 regra, obtido %d", len(got))
		}
	})
}
