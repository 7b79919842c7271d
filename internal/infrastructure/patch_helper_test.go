package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/Victor-armando18/pricing-scheme/internal/domain"
)

func sampleTransaction() domain.Transaction {
	return domain.Transaction{
		Name:     "SO-0001",
		Doctype:  domain.DocTypeSalesOrder,
		Customer: "CUST-1",
		Items: []domain.LineItem{
			{Name: "row-1", ItemCode: "COLA", Qty: 12, PriceListRate: 100, Rate: 100},
		},
	}
}

func TestApplyTransactionPatch(t *testing.T) {
	t.Run("altera a quantidade", func(t *testing.T) {
		original := sampleTransaction()
		patch := []byte(`[{"op": "replace", "path": "/items/0/qty", "value": 20}]`)

		updated, err := ApplyTransactionPatch(original, patch)
		if err != nil {
			t.Fatalf("ApplyTransactionPatch falhou: %v", err)
		}
		if updated.Items[0].Qty != 20 {
			t.Errorf("qty esperada 20, obtida %v", updated.Items[0].Qty)
		}
		if original.Items[0].Qty != 12 {
			t.Error("a transação original não deve ser alterada")
		}
	})

	t.Run("patch inválido", func(t *testing.T) {
		if _, err := ApplyTransactionPatch(sampleTransaction(), []byte(`{"op": "replace"}`)); err == nil {
			t.Error("esperado erro de descodificação")
		}
	})

	t.Run("caminho inexistente", func(t *testing.T) {
		patch := []byte(`[{"op": "replace", "path": "/items/5/qty", "value": 1}]`)
		if _, err := ApplyTransactionPatch(sampleTransaction(), patch); err == nil {
			t.Error("esperado erro ao aplicar")
		}
	})
}

func TestMergeDelta(t *testing.T) {
	before := sampleTransaction()
	after := sampleTransaction()
	after.PricingScheme = "PRLE-TRX"

	delta, err := MergeDelta(before, after)
	if err != nil {
		t.Fatalf("MergeDelta falhou: %v", err)
	}
	var got map[string]interface{}
	if err := json.Unmarshal(delta, &got); err != nil {
		t.Fatalf("delta inválido: %v", err)
	}
	if got["pricing_scheme"] != "PRLE-TRX" {
		t.Errorf("delta deveria conter pricing_scheme, obtido %s", delta)
	}
	if _, ok := got["customer"]; ok {
		t.Errorf("campos inalterados não entram no delta: %s", delta)
	}
}

func TestMemoryTransactionStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryTransactionStore()

	if _, err := store.LoadTransaction(ctx, "SO-0001"); !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Fatalf("esperado ErrTransactionNotFound, obtido %v", err)
	}

	tx := sampleTransaction()
	if err := store.SaveTransaction(ctx, &tx); err != nil {
		t.Fatalf("SaveTransaction falhou: %v", err)
	}
	tx.Items[0].Qty = 99

	loaded, err := store.LoadTransaction(ctx, "SO-0001")
	if err != nil {
		t.Fatalf("LoadTransaction falhou: %v", err)
	}
	if loaded.Items[0].Qty != 12 {
		t.Errorf("o estado gravado não deve partilhar memória com o chamador: qty %v", loaded.Items[0].Qty)
	}
}

func TestMemorySaveGuard(t *testing.T) {
	ctx := context.Background()
	g := NewMemorySaveGuard()

	if ok, _ := g.Acquire(ctx, "SO-0001", 0); !ok {
		t.Fatal("primeira aquisição deveria ter sucesso")
	}
	if ok, _ := g.Acquire(ctx, "SO-0001", 0); ok {
		t.Error("a mesma revisão não pode ser adquirida duas vezes")
	}
	if ok, _ := g.Acquire(ctx, "SO-0001", 1); !ok {
		t.Error("outra revisão é independente")
	}
	if err := g.Release(ctx, "SO-0001", 0); err != nil {
		t.Fatal(err)
	}
	if ok, _ := g.Acquire(ctx, "SO-0001", 0); !ok {
		t.Error("revisão libertada pode ser adquirida de novo")
	}
	if got := GuardKey("SO-0001", 3); got != "pricing-scheme:save:SO-0001:3" {
		t.Errorf("chave inesperada: %s", got)
	}
}
