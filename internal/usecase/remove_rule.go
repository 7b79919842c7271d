package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Victor-armando18/pricing-scheme/internal/domain"
	"github.com/Victor-armando18/pricing-scheme/internal/infrastructure"
	"github.com/Victor-armando18/pricing-scheme/internal/logging"
)

// RemoveRule retira o esquema da transação gravada e grava-a de novo.
// Para regras de linha, as linhas gratuitas do esquema são removidas e as
// restantes voltam ao preço de tabela com skip_auto_apply_scheme ativo.
func (e *EngineService) RemoveRule(ctx context.Context, transaction, rule string) error {
	if e.store == nil {
		return ErrNoStore
	}
	tx, err := e.store.LoadTransaction(ctx, transaction)
	if err != nil {
		return fmt.Errorf("load %s: %w", transaction, err)
	}
	before, err := infrastructure.CloneTransaction(*tx)
	if err != nil {
		return fmt.Errorf("clone %s: %w", transaction, err)
	}
	pr, err := e.repo.LoadRule(ctx, rule)
	if err != nil {
		return fmt.Errorf("load rule %s: %w", rule, err)
	}

	lines := ClearScheme(tx, *pr)
	logging.Info("scheme removed",
		zap.String("transaction", tx.Name),
		zap.String("rule", rule),
		zap.Strings("lines", lines))

	event := domain.SchemeEvent{Type: domain.SchemeRemoved, Transaction: tx.Name, Rule: rule, Lines: lines}
	return e.saveWith(ctx, tx, &before, []domain.SchemeEvent{event})
}

// ClearScheme retira a regra do documento em memória e devolve as linhas limpas.
func ClearScheme(tx *domain.Transaction, rule domain.PricingRule) []string {
	if rule.ApplyOn == domain.ApplyOnTransaction {
		tx.ApplyDiscountOn = ""
		tx.DiscountAmount = 0
		tx.AdditionalDiscountPercentage = 0
		tx.PricingScheme = ""
		return nil
	}

	var cleared []string
	items := make([]domain.LineItem, 0, len(tx.Items))
	for _, row := range tx.Items {
		if row.PricingScheme == rule.Name {
			if row.IsFreeItem {
				continue
			}
			row.SkipAutoApplyScheme = true
			row.PricingScheme = ""
			row.DiscountPercentage = 0
			row.DiscountAmount = 0
			row.MarginType = ""
			row.MarginRateOrAmount = 0
			row.Rate = row.PriceListRate
			cleared = append(cleared, row.Name)
		}
		row.Idx = len(items) + 1
		items = append(items, row)
	}
	tx.Items = items
	return cleared
}
