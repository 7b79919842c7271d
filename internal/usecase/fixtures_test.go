package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/Victor-armando18/pricing-scheme/internal/domain"
	"github.com/Victor-armando18/pricing-scheme/internal/infrastructure"
)

func testTrees() map[string][]domain.TreeNode {
	return map[string][]domain.TreeNode{
		domain.TerritoryTree: {{
			Name: "All Territories",
			Children: []domain.TreeNode{
				{Name: "Angola", Children: []domain.TreeNode{{Name: "Luanda"}, {Name: "Benguela"}}},
				{Name: "Portugal"},
			},
		}},
		domain.CustomerGroupTree: {{
			Name: "All Customer Groups",
			Children: []domain.TreeNode{
				{Name: "Commercial", Children: []domain.TreeNode{{Name: "Wholesale"}}},
				{Name: "Individual"},
			},
		}},
		domain.ItemGroupTree: {{
			Name: "All Item Groups",
			Children: []domain.TreeNode{
				{Name: "Beverages", Children: []domain.TreeNode{{Name: "Soft Drinks"}, {Name: "Juices"}}},
				{Name: "Snacks"},
			},
		}},
	}
}

func newTestRepo(rules ...domain.RuleConfig) *infrastructure.FileRuleRepository {
	return infrastructure.NewFileRuleRepository(&domain.RulePackDefinition{Version: "test", Rules: rules, Trees: testTrees()})
}

func newTestEngine(rules []domain.RuleConfig, opts ...Option) *EngineService {
	return NewEngineService(newTestRepo(rules...), infrastructure.NewJsonLogicExecutor(), opts...)
}

// groupDiscountRule dá 10% aos grupos de bebidas e 15% aos sumos.
func groupDiscountRule() domain.RuleConfig {
	return domain.RuleConfig{
		PricingRule: domain.PricingRule{
			Name:                      "PRLE-GRP",
			Title:                     "Beverages 10%",
			ApplyOn:                   domain.ApplyOnItemGroup,
			Items:                     []string{"Beverages"},
			Selling:                   true,
			RateOrDiscount:            domain.DiscountPercentage,
			PriceOrProductDiscount:    domain.PriceDiscount,
			DiscountPercentage:        10,
			MinQty:                    5,
			AutoApplyScheme:           true,
			AllowSkipping:             true,
			HasItemGroupWiseDiscounts: true,
		},
		Tables: domain.RuleTables{
			ItemGroupWiseDiscounts: []domain.GroupDiscount{{ItemGroup: "Juices", DiscountPercentage: 15}},
		},
	}
}

func crispsRule() domain.RuleConfig {
	return domain.RuleConfig{
		PricingRule: domain.PricingRule{
			Name:                   "PRLE-FREE",
			Title:                  "1 free per 5 beyond 10",
			ApplyOn:                domain.ApplyOnBrand,
			Items:                  []string{"Crunchy"},
			Selling:                true,
			PriceOrProductDiscount: domain.ProductDiscount,
			FreeQty:                1,
			IsRecursive:            true,
			ApplyRecursionOver:     10,
			RecurseFor:             5,
			RoundFreeQty:           true,
			FreeItemUOM:            "Nos",
			HasMultipleFreeItems:   true,
		},
		Tables: domain.RuleTables{
			FreeItems: []domain.FreeItem{{ItemCode: "CRISPS-S", ItemName: "Crisps small"}},
		},
	}
}

func sampleOrder() *domain.Transaction {
	tx := &domain.Transaction{
		Name:          "SO-0001",
		Doctype:       domain.DocTypeSalesOrder,
		Customer:      "CUST-1",
		CustomerGroup: "Wholesale",
		Territory:     "Luanda",
		Currency:      "AOA",
		Company:       "ACME",
		Items: []domain.LineItem{
			{Name: "row-1", ItemCode: "COLA", ItemGroup: "Soft Drinks", Qty: 12, PriceListRate: 100, Rate: 100},
			{Name: "row-2", ItemCode: "ORANGE", ItemGroup: "Juices", Qty: 5, PriceListRate: 200, Rate: 200},
			{Name: "row-3", ItemCode: "CHIPS", ItemGroup: "Snacks", Brand: "Crunchy", Qty: 3, PriceListRate: 50, Rate: 50},
		},
	}
	tx.CalculateTotals()
	return tx
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.SchemeEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, event domain.SchemeEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func assertFloat(t *testing.T, name string, got, want float64) {
	t.Helper()
	if diff := got - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("%s: esperado %v, obtido %v", name, want, got)
	}
}
