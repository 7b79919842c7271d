package usecase

import (
	"context"
	"slices"
	"testing"

	"github.com/Victor-armando18/pricing-scheme/internal/domain"
)

func TestAutoApply(t *testing.T) {
	ctx := context.Background()

	t.Run("carimba linhas e reconcilia descontos", func(t *testing.T) {
		e := newTestEngine([]domain.RuleConfig{groupDiscountRule(), crispsRule()})
		tx := sampleOrder()

		stamped, err := e.AutoApply(ctx, tx)
		if err != nil {
			t.Fatalf("AutoApply falhou: %v", err)
		}
		if !slices.Equal(stamped, []string{"row-1", "row-2"}) {
			t.Errorf("linhas carimbadas: esperado [row-1 row-2], obtido %v", stamped)
		}

		cola := tx.Items[0]
		if cola.PricingScheme != "PRLE-GRP" {
			t.Errorf("row-1 deveria ter PRLE-GRP, obtido %q", cola.PricingScheme)
		}
		assertFloat(t, "row-1 rate", cola.Rate, 90)
		assertFloat(t, "row-1 discount_amount", cola.DiscountAmount, 10)
		assertFloat(t, "row-1 discount_percentage", cola.DiscountPercentage, 10)

		juice := tx.Items[1]
		assertFloat(t, "row-2 rate", juice.Rate, 170)
		assertFloat(t, "row-2 discount_percentage", juice.DiscountPercentage, 15)

		if tx.Items[2].PricingScheme != "" {
			t.Error("regras de produto não são auto-aplicadas")
		}
	})

	t.Run("linhas com skip são respeitadas", func(t *testing.T) {
		e := newTestEngine([]domain.RuleConfig{groupDiscountRule()})
		tx := sampleOrder()
		tx.Items[0].SkipAutoApplyScheme = true

		stamped, err := e.AutoApply(ctx, tx)
		if err != nil {
			t.Fatalf("AutoApply falhou: %v", err)
		}
		if !slices.Equal(stamped, []string{"row-2"}) {
			t.Errorf("esperado [row-2], obtido %v", stamped)
		}
		assertFloat(t, "row-1 rate", tx.Items[0].Rate, 100)
	})
}

func TestAutoApplyOrder(t *testing.T) {
	res := domain.NewEvaluationResult()
	putRule(res, domain.RuleDetail{
		PricingRule:            "generic",
		Priority:               4,
		RateOrDiscount:         domain.DiscountPercentage,
		PriceOrProductDiscount: domain.PriceDiscount,
		DiscountPercentage:     10,
		AutoApplyScheme:        true,
		ApplicableItems:        []string{"row-1"},
	})
	putRule(res, domain.RuleDetail{
		PricingRule:            "customer",
		Priority:               1,
		RateOrDiscount:         domain.DiscountPercentage,
		PriceOrProductDiscount: domain.PriceDiscount,
		DiscountPercentage:     20,
		AutoApplyScheme:        true,
		ApplicableItems:        []string{"row-1"},
	})

	tests := []struct {
		name   string
		order  AutoApplyOrder
		scheme string
		rate   float64
	}{
		{"por prioridade", OrderByPriority, "customer", 80},
		{"por inserção", OrderByInsertion, "generic", 90},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(nil, WithAutoApplyOrder(tt.order))
			tx := sampleOrder()
			e.autoApplyWith(tx, res)
			if tx.Items[0].PricingScheme != tt.scheme {
				t.Errorf("esperado %s, obtido %s", tt.scheme, tx.Items[0].PricingScheme)
			}
			assertFloat(t, "rate", tx.Items[0].Rate, tt.rate)
		})
	}
}

func TestApplyPriceScheme(t *testing.T) {
	t.Run("preço por artigo", func(t *testing.T) {
		row := &domain.LineItem{ItemCode: "COLA", PriceListRate: 100, Rate: 100}
		applyPriceScheme(row, domain.RuleDetail{
			RateOrDiscount: domain.Rate,
			Rate:           80,
			ItemWiseRates:  map[string]float64{"COLA": 75},
		})
		assertFloat(t, "rate", row.Rate, 75)
		assertFloat(t, "discount_amount", row.DiscountAmount, 25)
		assertFloat(t, "discount_percentage", row.DiscountPercentage, 25)
	})

	t.Run("preço por artigo a zero usa o da regra", func(t *testing.T) {
		row := &domain.LineItem{ItemCode: "COLA", PriceListRate: 100, Rate: 100}
		applyPriceScheme(row, domain.RuleDetail{
			RateOrDiscount: domain.Rate,
			Rate:           80,
			ItemWiseRates:  map[string]float64{"COLA": 0},
		})
		assertFloat(t, "rate", row.Rate, 80)
	})

	t.Run("desconto por artigo a zero passa ao grupo", func(t *testing.T) {
		row := &domain.LineItem{ItemCode: "ORANGE", ItemGroup: "Juices", PriceListRate: 200, Rate: 200}
		applyPriceScheme(row, domain.RuleDetail{
			RateOrDiscount:         domain.DiscountPercentage,
			DiscountPercentage:     10,
			ItemWiseDiscounts:      map[string]float64{"ORANGE": 0},
			ItemGroupWiseDiscounts: map[string]float64{"Juices": 15},
		})
		assertFloat(t, "discount_percentage", row.DiscountPercentage, 15)
		assertFloat(t, "rate", row.Rate, 170)
	})

	t.Run("preço por peso", func(t *testing.T) {
		row := &domain.LineItem{ItemCode: "SUGAR", PriceListRate: 30, Rate: 30, WeightPerUnit: 2.5}
		applyPriceScheme(row, domain.RuleDetail{RateOrDiscount: domain.Rate, Rate: 10, RateBasedOn: domain.RateBasedOnWeight})
		assertFloat(t, "rate", row.Rate, 25)
		assertFloat(t, "discount_amount", row.DiscountAmount, 5)
	})

	t.Run("desconto em valor", func(t *testing.T) {
		row := &domain.LineItem{ItemCode: "COLA", PriceListRate: 80, Rate: 80}
		applyPriceScheme(row, domain.RuleDetail{RateOrDiscount: domain.DiscountAmount, DiscountAmount: 20})
		assertFloat(t, "rate", row.Rate, 60)
		assertFloat(t, "discount_percentage", row.DiscountPercentage, 25)
	})

	t.Run("preço de tabela zero", func(t *testing.T) {
		row := &domain.LineItem{ItemCode: "SAMPLE"}
		applyPriceScheme(row, domain.RuleDetail{RateOrDiscount: domain.DiscountPercentage, DiscountPercentage: 10})
		assertFloat(t, "discount_percentage", row.DiscountPercentage, 0)
		assertFloat(t, "rate", row.Rate, 0)
	})
}
