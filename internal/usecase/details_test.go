package usecase

import (
	"context"
	"slices"
	"testing"

	"github.com/Victor-armando18/pricing-scheme/internal/domain"
)

func TestGetChild(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()

	tests := []struct {
		name string
		node string
		want []string
	}{
		{"grupo com descendentes", "Beverages", []string{"Beverages", "Soft Drinks", "Juices"}},
		{"folha", "Juices", []string{"Juices"}},
		{"desconhecido", "Frozen", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GetChild(ctx, repo, domain.ItemGroupTree, tt.node)
			if err != nil {
				t.Fatalf("GetChild falhou: %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("esperado %v, obtido %v", tt.want, got)
			}
		})
	}
}

func TestPropagateGroupDiscounts(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()

	t.Run("grupo pai reescreve o filho listado depois", func(t *testing.T) {
		rows := []domain.GroupDiscount{
			{ItemGroup: "Beverages", DiscountPercentage: 10},
			{ItemGroup: "Juices", DiscountPercentage: 15},
		}
		got, err := PropagateGroupDiscounts(ctx, repo, rows)
		if err != nil {
			t.Fatalf("PropagateGroupDiscounts falhou: %v", err)
		}
		want := map[string]float64{"Beverages": 10, "Soft Drinks": 10, "Juices": 10}
		for k, v := range want {
			if got[k] != v {
				t.Errorf("%s: esperado %v, obtido %v", k, v, got[k])
			}
		}

		again, err := PropagateGroupDiscounts(ctx, repo, rows)
		if err != nil {
			t.Fatalf("PropagateGroupDiscounts falhou: %v", err)
		}
		for k, v := range got {
			if again[k] != v {
				t.Errorf("resultado não é estável para %s: %v != %v", k, again[k], v)
			}
		}
	})

	t.Run("último grupo da tabela prevalece", func(t *testing.T) {
		rows := []domain.GroupDiscount{
			{ItemGroup: "Juices", DiscountPercentage: 15},
			{ItemGroup: "Beverages", DiscountPercentage: 10},
		}
		got, err := PropagateGroupDiscounts(ctx, repo, rows)
		if err != nil {
			t.Fatalf("PropagateGroupDiscounts falhou: %v", err)
		}
		if got["Juices"] != 10 {
			t.Errorf("Juices esperado 10, obtido %v", got["Juices"])
		}
	})

	t.Run("grupos sem parentesco mantêm o seu valor", func(t *testing.T) {
		rows := []domain.GroupDiscount{
			{ItemGroup: "Juices", DiscountPercentage: 15},
			{ItemGroup: "Snacks", DiscountPercentage: 5},
		}
		got, err := PropagateGroupDiscounts(ctx, repo, rows)
		if err != nil {
			t.Fatalf("PropagateGroupDiscounts falhou: %v", err)
		}
		if got["Juices"] != 15 || got["Snacks"] != 5 {
			t.Errorf("valores inesperados: %v", got)
		}
		if _, ok := got["Soft Drinks"]; ok {
			t.Errorf("Soft Drinks não deveria ter desconto: %v", got)
		}
	})

	t.Run("tabela vazia", func(t *testing.T) {
		got, err := PropagateGroupDiscounts(ctx, repo, nil)
		if err != nil {
			t.Fatalf("PropagateGroupDiscounts falhou: %v", err)
		}
		if got == nil || len(got) != 0 {
			t.Errorf("esperado mapa vazio, obtido %v", got)
		}
	})
}
