package engine_test

import (
	"context"
	"slices"
	"testing"

	"github.com/Victor-armando18/pricing-scheme/pkg/engine"
)

func loadSamplePack(t *testing.T) engine.RuleRepository {
	t.Helper()
	pack, err := engine.LoadRulePack("../../data/rules/v1_rules.yaml")
	if err != nil {
		t.Fatalf("LoadRulePack falhou: %v", err)
	}
	return engine.NewRuleRepository(pack)
}

func waterOrder() *engine.Transaction {
	tx := &engine.Transaction{
		Name:          "SO-0100",
		Doctype:       "Sales Order",
		Customer:      "CUST-9",
		CustomerGroup: "Wholesale",
		Territory:     "Benguela",
		Currency:      "AOA",
		Items: []engine.LineItem{
			{Name: "row-1", ItemCode: "WATER-1L", Qty: 15, PriceListRate: 100, Rate: 100},
			{Name: "row-2", ItemCode: "WATER-5L", Qty: 10, PriceListRate: 400, Rate: 400},
		},
	}
	tx.CalculateTotals()
	return tx
}

func TestMixedConditionsWithSamplePack(t *testing.T) {
	ctx := context.Background()
	svc := engine.New(loadSamplePack(t), engine.NewConditionEvaluator())

	t.Run("quantidades somadas entre artigos", func(t *testing.T) {
		res, err := svc.Evaluate(ctx, waterOrder())
		if err != nil {
			t.Fatalf("Evaluate falhou: %v", err)
		}
		d, ok := res.Rules["PRLE-0002"]
		if !ok {
			t.Fatal("PRLE-0002 deveria aplicar-se com 25 unidades no total")
		}
		if !slices.Equal(d.ApplicableItems, []string{"row-1", "row-2"}) {
			t.Errorf("applicable_items: %v", d.ApplicableItems)
		}
		if d.Priority != 2 {
			t.Errorf("prioridade esperada 2 (grupo de clientes), obtida %d", d.Priority)
		}
	})

	t.Run("auto-apply com preços por artigo", func(t *testing.T) {
		tx := waterOrder()
		stamped, err := svc.AutoApply(ctx, tx)
		if err != nil {
			t.Fatalf("AutoApply falhou: %v", err)
		}
		if len(stamped) != 2 {
			t.Fatalf("esperado 2 linhas carimbadas, obtido %v", stamped)
		}
		if tx.Items[0].Rate != 80 || tx.Items[1].Rate != 350 {
			t.Errorf("preços esperados 80/350, obtidos %v/%v", tx.Items[0].Rate, tx.Items[1].Rate)
		}
		if !engine.IsSchemeApplied(tx) {
			t.Error("a transação deveria ter esquemas aplicados")
		}
	})

	t.Run("grupo de clientes fora da hierarquia", func(t *testing.T) {
		tx := waterOrder()
		tx.CustomerGroup = "Individual"
		res, err := svc.Evaluate(ctx, tx)
		if err != nil {
			t.Fatalf("Evaluate falhou: %v", err)
		}
		if _, ok := res.Rules["PRLE-0002"]; ok {
			t.Error("PRLE-0002 é exclusiva do grupo Wholesale")
		}
	})
}

func TestFreeItemQty(t *testing.T) {
	d := engine.RuleDetail{IsRecursive: true, FreeQty: 1, ApplyRecursionOver: 10, RecurseFor: 5, RoundFreeQty: true}
	if got := engine.FreeItemQty(d, 25); got != 3 {
		t.Errorf("FreeItemQty = %v, esperado 3", got)
	}
}
