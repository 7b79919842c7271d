package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Victor-armando18/pricing-scheme/internal/domain"
	"github.com/Victor-armando18/pricing-scheme/internal/logging"
)

// Validate confirma que cada esquema aplicado continua válido para o estado
// atual da transação. before é o estado gravado anteriormente (pode ser nil);
// linhas que já tinham o mesmo esquema não podem alterar os campos protegidos.
// Linhas gratuitas são normalizadas para preço 0 e desconto de 100%.
func (e *EngineService) Validate(ctx context.Context, tx *domain.Transaction, before *domain.Transaction) error {
	ev := e.newEvaluation(ctx, tx)

	var stockQty float64
	for i := range tx.Items {
		row := &tx.Items[i]
		stockQty += row.StockQty
		if row.IsFreeItem {
			row.Rate = 0
			row.DiscountPercentage = 100
			continue
		}
		if row.PricingScheme == "" {
			continue
		}

		if before != nil {
			if old := before.FindItem(row.Name); old != nil && old.PricingScheme == row.PricingScheme {
				changed := e.differ.Changed(old.ProtectedValues(), row.ProtectedValues(), domain.ProtectedFields)
				if len(changed) > 0 {
					return ev.reject(domain.NewFrozenFieldViolation(row.Idx, row.PricingScheme, changed[0]))
				}
			}
		}

		rule, err := e.repo.LoadRule(ctx, row.PricingScheme)
		if err != nil {
			if errors.Is(err, domain.ErrRuleNotFound) {
				return ev.reject(domain.NewSchemeViolation(row.Idx, row.PricingScheme, "", "pricing rule no longer exists"))
			}
			return err
		}
		if err := ev.validateLine(row, *rule); err != nil {
			return err
		}
	}

	if tx.PricingScheme != "" {
		rule, err := e.repo.LoadRule(ctx, tx.PricingScheme)
		if err != nil {
			if errors.Is(err, domain.ErrRuleNotFound) {
				return ev.reject(domain.NewSchemeViolation(0, tx.PricingScheme, "", "pricing rule no longer exists"))
			}
			return err
		}
		if ok, _ := ev.conditionHolds(*rule); !ok {
			return ev.reject(domain.NewSchemeViolation(0, rule.Name, rule.Title, "condition is not met"))
		}
		qty := stockQty
		if rule.EffectiveQtyBasedOn() != domain.QtyBasedOnStock {
			qty = tx.TotalNetWeight
		}
		if !FilterForQtyAmount(qty, tx.NetTotal, rule.Range()) {
			return ev.reject(domain.NewSchemeViolation(0, rule.Name, rule.Title,
				fmt.Sprintf("qty %.2f / amount %.2f out of range", qty, tx.NetTotal)))
		}
	}
	return nil
}

func (ev *evaluation) validateLine(row *domain.LineItem, rule domain.PricingRule) error {
	if rule.Territory != "" {
		ok, err := ev.inHierarchy(domain.TerritoryTree, rule.Territory, ev.tx.Territory)
		if err != nil {
			return err
		}
		if !ok {
			return ev.reject(domain.NewSchemeViolation(row.Idx, rule.Name, rule.Title,
				fmt.Sprintf("territory %q is outside %q", ev.tx.Territory, rule.Territory)))
		}
	}
	if rule.CustomerGroup != "" {
		ok, err := ev.inHierarchy(domain.CustomerGroupTree, rule.CustomerGroup, ev.tx.CustomerGroup)
		if err != nil {
			return err
		}
		if !ok {
			return ev.reject(domain.NewSchemeViolation(row.Idx, rule.Name, rule.Title,
				fmt.Sprintf("customer group %q is outside %q", ev.tx.CustomerGroup, rule.CustomerGroup)))
		}
	}
	if ok, _ := ev.conditionHolds(rule); !ok {
		return ev.reject(domain.NewSchemeViolation(row.Idx, rule.Name, rule.Title, "condition is not met"))
	}

	// o montante de uma linha já carimbada inclui o desconto da própria regra
	qty, amount := lineQtyAmount(ev.tx, rule, row, rule.Name)
	if !rule.MixedConditions {
		amount = grossAmount(row)
	}
	if !FilterForQtyAmount(qty, amount, rule.Range()) {
		return ev.reject(domain.NewSchemeViolation(row.Idx, rule.Name, rule.Title,
			fmt.Sprintf("qty %.2f / amount %.2f out of range", qty, amount)))
	}
	return nil
}

func (ev *evaluation) reject(v *domain.SchemeViolation) error {
	ev.step(domain.PhaseValidate, v.Rule, "reject", v.Reason)
	logging.Info("scheme rejected",
		zap.String("transaction", ev.tx.Name),
		zap.Int("row", v.Row),
		zap.String("rule", v.Rule),
		zap.String("reason", v.Reason))
	return v
}
