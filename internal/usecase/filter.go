package usecase

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/Victor-armando18/pricing-scheme/internal/domain"
	"github.com/Victor-armando18/pricing-scheme/internal/logging"
)

// FilterForQtyAmount indica se qty e amount estão dentro dos limites
// inclusivos da regra. Um máximo 0 é tratado como ilimitado.
func FilterForQtyAmount(qty, amount float64, r domain.QtyAmountRange) bool {
	if qty < r.MinQty || (r.MaxQty != 0 && qty > r.MaxQty) {
		return false
	}
	if amount < r.MinAmt || (r.MaxAmt != 0 && amount > r.MaxAmt) {
		return false
	}
	return true
}

// MixedConditionTotals soma quantidade e montante de todas as linhas abrangidas
// pela regra. Linhas gratuitas ficam de fora, tal como linhas com outro esquema
// que não validateFor. fallback fornece o valor de âmbito a linhas sem ele.
func MixedConditionTotals(tx *domain.Transaction, rule domain.PricingRule, fallback *domain.LineItem, validateFor string) (qty, amount float64) {
	if len(rule.Items) == 0 {
		return 0, 0
	}
	field := rule.ScopeField()
	for _, row := range tx.Items {
		if row.IsFreeItem {
			continue
		}
		if row.PricingScheme != "" && row.PricingScheme != validateFor {
			continue
		}
		value := row.ScopeValue(field)
		if value == "" && fallback != nil {
			value = fallback.ScopeValue(field)
		}
		if !slices.Contains(rule.Items, value) {
			continue
		}

		amt := grossAmount(&row)
		if rule.EffectiveQtyBasedOn() == domain.QtyBasedOnStock {
			qty += row.StockQty
		} else {
			qty += row.TotalWeight
		}
		amount += amt
	}
	return qty, amount
}

// grossAmount devolve o montante da linha antes de qualquer desconto.
func grossAmount(row *domain.LineItem) float64 {
	if row.PriceListRate != 0 {
		return row.PriceListRate * row.Qty
	}
	return row.Amount
}

// lineQtyAmount devolve os valores comparados com os limites da regra para a linha.
func lineQtyAmount(tx *domain.Transaction, rule domain.PricingRule, line *domain.LineItem, validateFor string) (float64, float64) {
	if rule.MixedConditions {
		return MixedConditionTotals(tx, rule, line, validateFor)
	}
	qty := line.StockQty
	if rule.EffectiveQtyBasedOn() == domain.QtyBasedOnWeight {
		qty = line.TotalWeight
	}
	return qty, line.NetAmount
}

// PreferCurrency mantém apenas as regras na moeda da transação quando há mais
// de uma e pelo menos uma coincide.
func PreferCurrency(rules []domain.PricingRule, currency string) []domain.PricingRule {
	if len(rules) < 2 {
		return rules
	}
	var matching []domain.PricingRule
	for _, r := range rules {
		if r.Currency == currency {
			matching = append(matching, r)
		}
	}
	if len(matching) == 0 {
		return rules
	}
	return matching
}

// rank aplica, por esta ordem, os filtros de condição, de âmbito, de limites e
// de moeda, e ordena os sobreviventes por prioridade.
func (ev *evaluation) rank(candidates []domain.PricingRule, line *domain.LineItem) ([]domain.PricingRule, error) {
	rules := ev.filterByCondition(candidates)
	rules, err := ev.filterByScope(rules)
	if err != nil {
		return nil, err
	}

	inRange := make([]domain.PricingRule, 0, len(rules))
	for _, r := range rules {
		qty, amount := lineQtyAmount(ev.tx, r, line, "")
		if !FilterForQtyAmount(qty, amount, r.Range()) {
			ev.step(domain.PhaseRange, r.Name, "exclude", fmt.Sprintf("qty %.2f / amount %.2f out of range", qty, amount))
			continue
		}
		inRange = append(inRange, r)
	}

	survivors := PreferCurrency(inRange, ev.tx.Currency)
	if len(survivors) < len(inRange) {
		ev.step(domain.PhaseCurrency, "", "filter", fmt.Sprintf("kept %d of %d rules in %s", len(survivors), len(inRange), ev.tx.Currency))
	}

	for i := range survivors {
		survivors[i].Priority = DerivePriority(survivors[i])
	}
	return SortByPriority(survivors), nil
}

// filterByCondition descarta as regras cuja condição é falsa. Um erro na
// avaliação exclui apenas essa regra.
func (ev *evaluation) filterByCondition(rules []domain.PricingRule) []domain.PricingRule {
	out := make([]domain.PricingRule, 0, len(rules))
	for _, r := range rules {
		if r.Condition == "" {
			out = append(out, r)
			continue
		}
		ok, err := ev.conditionHolds(r)
		if err != nil {
			logging.Warn("condition evaluation failed",
				zap.String("rule", r.Name),
				zap.String("transaction", ev.tx.Name),
				zap.Error(err))
			ev.step(domain.PhaseCondition, r.Name, "exclude", err.Error())
			continue
		}
		if !ok {
			ev.step(domain.PhaseCondition, r.Name, "exclude", "condition is false")
			continue
		}
		out = append(out, r)
	}
	return out
}

func (ev *evaluation) conditionHolds(r domain.PricingRule) (bool, error) {
	if r.Condition == "" {
		return true, nil
	}
	if ev.e.conditions == nil {
		return false, fmt.Errorf("%w: no condition evaluator", domain.ErrConditionFailed)
	}
	ok, err := ev.e.conditions.Evaluate(ev.ctx, r.Condition, ev.docFields())
	if err != nil && !errors.Is(err, domain.ErrConditionFailed) {
		err = fmt.Errorf("%w: %v", domain.ErrConditionFailed, err)
	}
	return ok, err
}

// filterByScope aplica os predicados de contexto: tipo de transação, empresa,
// cliente, grupo de clientes, território e período de validade.
func (ev *evaluation) filterByScope(rules []domain.PricingRule) ([]domain.PricingRule, error) {
	out := make([]domain.PricingRule, 0, len(rules))
	for _, r := range rules {
		reason, err := ev.scopeMismatch(r)
		if err != nil {
			return nil, err
		}
		if reason != "" {
			ev.step(domain.PhaseScope, r.Name, "exclude", reason)
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (ev *evaluation) scopeMismatch(r domain.PricingRule) (string, error) {
	tx := ev.tx
	if r.Disabled {
		return "rule is disabled", nil
	}
	if r.Selling || r.Buying {
		switch tx.TransactionType() {
		case domain.Selling:
			if !r.Selling {
				return "rule does not apply to selling", nil
			}
		case domain.Buying:
			if !r.Buying {
				return "rule does not apply to buying", nil
			}
		}
	}
	if r.Company != "" && r.Company != tx.Company {
		return fmt.Sprintf("company %q does not match", tx.Company), nil
	}
	if r.Customer != "" && r.Customer != tx.Customer {
		return fmt.Sprintf("customer %q does not match", tx.Customer), nil
	}
	if r.Territory != "" {
		if tx.Territory == "" {
			return "transaction has no territory", nil
		}
		ok, err := ev.inHierarchy(domain.TerritoryTree, r.Territory, tx.Territory)
		if err != nil {
			return "", err
		}
		if !ok {
			return fmt.Sprintf("territory %q is outside %q", tx.Territory, r.Territory), nil
		}
	}
	if r.CustomerGroup != "" {
		ok, err := ev.inHierarchy(domain.CustomerGroupTree, r.CustomerGroup, tx.CustomerGroup)
		if err != nil {
			return "", err
		}
		if !ok {
			return fmt.Sprintf("customer group %q is outside %q", tx.CustomerGroup, r.CustomerGroup), nil
		}
	}
	if !tx.TransactionDate.IsZero() {
		day := dayOf(tx.TransactionDate)
		if r.ValidFrom != nil && day.Before(dayOf(*r.ValidFrom)) {
			return "rule is not yet valid", nil
		}
		if r.ValidUpto != nil && day.After(dayOf(*r.ValidUpto)) {
			return "rule has expired", nil
		}
	}
	return "", nil
}

// dayOf reduz a data ao dia, pois a validade das regras é expressa em datas.
func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
