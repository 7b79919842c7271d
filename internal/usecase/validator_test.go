package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/Victor-armando18/pricing-scheme/internal/domain"
)

// stampedOrder devolve a encomenda de exemplo já com PRLE-GRP aplicado.
func stampedOrder(t *testing.T, e *EngineService) *domain.Transaction {
	t.Helper()
	tx := sampleOrder()
	if _, err := e.AutoApply(context.Background(), tx); err != nil {
		t.Fatalf("AutoApply falhou: %v", err)
	}
	tx.CalculateTotals()
	return tx
}

func TestValidate(t *testing.T) {
	ctx := context.Background()

	t.Run("esquema válido", func(t *testing.T) {
		e := newTestEngine([]domain.RuleConfig{groupDiscountRule()})
		tx := stampedOrder(t, e)
		if err := e.Validate(ctx, tx, nil); err != nil {
			t.Errorf("não era esperado erro: %v", err)
		}
	})

	t.Run("campo congelado alterado", func(t *testing.T) {
		e := newTestEngine([]domain.RuleConfig{groupDiscountRule()})
		before := stampedOrder(t, e)
		after := stampedOrder(t, e)
		after.Items[0].Rate = 85

		err := e.Validate(ctx, after, before)
		if !errors.Is(err, domain.ErrFrozenField) {
			t.Fatalf("esperado ErrFrozenField, obtido %v", err)
		}
		var v *domain.SchemeViolation
		if !errors.As(err, &v) {
			t.Fatalf("esperado SchemeViolation, obtido %T", err)
		}
		if v.Row != 1 || v.Field != "rate" {
			t.Errorf("violação inesperada: %+v", v)
		}
	})

	t.Run("linha nova com esquema não é comparada", func(t *testing.T) {
		e := newTestEngine([]domain.RuleConfig{groupDiscountRule()})
		before := sampleOrder()
		after := stampedOrder(t, e)
		if err := e.Validate(ctx, after, before); err != nil {
			t.Errorf("esquema aplicado agora pode alterar o preço: %v", err)
		}
	})

	t.Run("território deixou de ser elegível", func(t *testing.T) {
		rule := groupDiscountRule()
		rule.Territory = "Angola"
		e := newTestEngine([]domain.RuleConfig{rule})
		tx := stampedOrder(t, e)
		tx.Territory = "Portugal"

		err := e.Validate(ctx, tx, nil)
		if !errors.Is(err, domain.ErrSchemeNotApplicable) {
			t.Fatalf("esperado ErrSchemeNotApplicable, obtido %v", err)
		}
	})

	t.Run("quantidade abaixo do mínimo", func(t *testing.T) {
		e := newTestEngine([]domain.RuleConfig{groupDiscountRule()})
		tx := stampedOrder(t, e)
		tx.Items[1].Qty = 2
		tx.Items[1].StockQty = 2
		tx.CalculateTotals()

		var v *domain.SchemeViolation
		if err := e.Validate(ctx, tx, nil); !errors.As(err, &v) || v.Row != 2 {
			t.Fatalf("esperada violação na linha 2, obtido %v", err)
		}
	})

	t.Run("regra removida do repositório", func(t *testing.T) {
		e := newTestEngine([]domain.RuleConfig{groupDiscountRule()})
		tx := sampleOrder()
		tx.Items[0].PricingScheme = "PRLE-GONE"
		if err := e.Validate(ctx, tx, nil); !errors.Is(err, domain.ErrSchemeNotApplicable) {
			t.Errorf("esperado ErrSchemeNotApplicable, obtido %v", err)
		}
	})

	t.Run("linhas gratuitas são normalizadas", func(t *testing.T) {
		e := newTestEngine(nil)
		tx := sampleOrder()
		tx.Items = append(tx.Items, domain.LineItem{Name: "free-1", ItemCode: "CRISPS-S", Qty: 1, Rate: 12, IsFreeItem: true})

		if err := e.Validate(ctx, tx, nil); err != nil {
			t.Fatalf("Validate falhou: %v", err)
		}
		free := tx.Items[3]
		assertFloat(t, "rate", free.Rate, 0)
		assertFloat(t, "discount_percentage", free.DiscountPercentage, 100)
	})

	t.Run("esquema da transação fora dos limites", func(t *testing.T) {
		trx := domain.RuleConfig{PricingRule: domain.PricingRule{
			Name:           "PRLE-TRX",
			Title:          "5% over 1000",
			ApplyOn:        domain.ApplyOnTransaction,
			Selling:        true,
			RateOrDiscount: domain.DiscountPercentage,
			MinAmt:         5000,
		}}
		e := newTestEngine([]domain.RuleConfig{trx})
		tx := sampleOrder()
		tx.PricingScheme = "PRLE-TRX"

		var v *domain.SchemeViolation
		if err := e.Validate(ctx, tx, nil); !errors.As(err, &v) || v.Row != 0 {
			t.Fatalf("esperada violação ao nível da transação, obtido %v", err)
		}
	})
}
