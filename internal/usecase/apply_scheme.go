package usecase

import (
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Victor-armando18/pricing-scheme/internal/domain"
	"github.com/Victor-armando18/pricing-scheme/internal/logging"
)

// freeQtyTolerance é a diferença máxima aceite entre a quantidade gratuita
// escolhida e a calculada.
const freeQtyTolerance = 0.1

// ApplyScheme aplica manualmente um esquema às linhas escolhidas (ou à
// transação, para regras de âmbito Transaction). Só altera o documento em
// memória; a gravação fica a cargo de Save.
func (e *EngineService) ApplyScheme(ctx context.Context, tx *domain.Transaction, req domain.ApplySchemeRequest) error {
	if !tx.IsDraft() {
		return domain.ErrNotDraft
	}
	rule, err := e.repo.LoadRule(ctx, req.Rule)
	if err != nil {
		return fmt.Errorf("load rule %s: %w", req.Rule, err)
	}

	ev := e.newEvaluation(ctx, tx)
	d, err := ev.ruleDetails(nil, *rule)
	if err != nil {
		return err
	}

	rows := make([]*domain.LineItem, 0, len(req.Lines))
	for _, name := range req.Lines {
		row := tx.FindItem(name)
		if row == nil {
			return fmt.Errorf("line %s not found in %s", name, tx.Name)
		}
		rows = append(rows, row)
	}

	qty, amount := selectedQtyAmount(tx, *rule, rows)
	if !FilterForQtyAmount(qty, amount, rule.Range()) {
		return fmt.Errorf("%w: %s: qty %.2f / amount %.2f out of range", domain.ErrSchemeNotApplicable, rule.Name, qty, amount)
	}

	switch {
	case rule.ApplyOn == domain.ApplyOnTransaction:
		applyTransactionDiscount(tx, *rule)
	case rule.PriceOrProductDiscount == domain.ProductDiscount:
		if err := addFreeItems(tx, *rule, d, rows, qty, req.FreeItems); err != nil {
			return err
		}
	default:
		for _, row := range rows {
			row.PricingScheme = rule.Name
			applyPriceScheme(row, d)
		}
	}

	logging.Info("scheme applied",
		zap.String("transaction", tx.Name),
		zap.String("rule", rule.Name),
		zap.Strings("lines", req.Lines))
	return nil
}

// selectedQtyAmount soma as linhas escolhidas; regras de transação usam os totais do documento.
func selectedQtyAmount(tx *domain.Transaction, rule domain.PricingRule, rows []*domain.LineItem) (qty, amount float64) {
	weight := rule.EffectiveQtyBasedOn() != domain.QtyBasedOnStock
	if rule.ApplyOn == domain.ApplyOnTransaction {
		if weight {
			return tx.TotalNetWeight, tx.NetTotal
		}
		return tx.TotalQty, tx.NetTotal
	}
	for _, row := range rows {
		if weight {
			qty += row.TotalWeight
		} else {
			qty += row.StockQty
		}
		amount += row.NetAmount
	}
	return qty, amount
}

func applyTransactionDiscount(tx *domain.Transaction, rule domain.PricingRule) {
	if rule.RateOrDiscount == domain.Rate {
		return
	}
	tx.PricingScheme = rule.Name
	tx.ApplyDiscountOn = rule.ApplyDiscountOn
	if rule.RateOrDiscount == domain.DiscountPercentage {
		tx.AdditionalDiscountPercentage = rule.DiscountPercentage
		return
	}
	tx.DiscountAmount = rule.DiscountAmount
}

func addFreeItems(tx *domain.Transaction, rule domain.PricingRule, d domain.RuleDetail, rows []*domain.LineItem, qty float64, selected []domain.FreeItemSelection) error {
	expected := FreeItemQty(d, qty)
	var chosen float64
	for _, f := range selected {
		if rule.EffectiveQtyBasedOn() == domain.QtyBasedOnStock {
			chosen += f.Qty
		} else {
			chosen += f.Qty * f.UnitWeight
		}
	}
	if math.Abs(chosen-expected) >= freeQtyTolerance {
		return fmt.Errorf("%w: select exactly %.2f free items, selected %.2f", domain.ErrFreeQtyMismatch, expected, chosen)
	}

	for _, row := range rows {
		row.PricingScheme = rule.Name
	}
	for _, f := range selected {
		if f.Qty <= 0 {
			continue
		}
		line := domain.LineItem{
			Name:               uuid.NewString(),
			Idx:                len(tx.Items) + 1,
			ItemCode:           f.ItemCode,
			Qty:                f.Qty,
			WeightPerUnit:      f.UnitWeight,
			DiscountPercentage: 100,
			IsFreeItem:         true,
			PricingScheme:      rule.Name,
			UOM:                rule.FreeItemUOM,
		}
		if i := slices.IndexFunc(d.FreeItems, func(fi domain.FreeItem) bool { return fi.ItemCode == f.ItemCode }); i >= 0 {
			line.ItemName = d.FreeItems[i].ItemName
			if line.UOM == "" {
				line.UOM = d.FreeItems[i].UOM
			}
		}
		tx.Items = append(tx.Items, line)
	}
	return nil
}
