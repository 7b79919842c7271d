package usecase

import (
	"testing"

	"github.com/Victor-armando18/pricing-scheme/internal/domain"
)

func TestDerivePriority(t *testing.T) {
	tests := []struct {
		name string
		rule domain.PricingRule
		want int
	}{
		{"cliente", domain.PricingRule{Customer: "C1", CustomerGroup: "G", Territory: "T"}, 1},
		{"grupo de clientes", domain.PricingRule{CustomerGroup: "G", Territory: "T"}, 2},
		{"território", domain.PricingRule{Territory: "T"}, 3},
		{"genérica", domain.PricingRule{}, 4},
		{"explícita", domain.PricingRule{Customer: "C1", Priority: 7}, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DerivePriority(tt.rule); got != tt.want {
				t.Errorf("DerivePriority() = %d, esperado %d", got, tt.want)
			}
		})
	}
}

func TestSortByPriority(t *testing.T) {
	rules := []domain.PricingRule{
		{Name: "generic-a"},
		{Name: "territory", Territory: "Luanda"},
		{Name: "customer", Customer: "C1"},
		{Name: "generic-b"},
		{Name: "group", CustomerGroup: "Wholesale"},
	}

	got := SortByPriority(rules)
	want := []string{"customer", "group", "territory", "generic-a", "generic-b"}
	if len(got) != len(want) {
		t.Fatalf("esperado %d regras, obtido %d", len(want), len(got))
	}
	for i, name := range want {
		if got[i].Name != name {
			t.Errorf("posição %d: esperado %s, obtido %s", i, name, got[i].Name)
		}
	}
	if rules[0].Name != "generic-a" {
		t.Error("SortByPriority não deve alterar a lista original")
	}
}
