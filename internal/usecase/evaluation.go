package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Victor-armando18/pricing-scheme/internal/domain"
	"github.com/Victor-armando18/pricing-scheme/internal/logging"
)

// evaluation guarda o estado de uma única chamada: campos da transação para
// as condições, expansões de hierarquia já resolvidas e o registo de execução.
type evaluation struct {
	ctx      context.Context
	e        *EngineService
	tx       *domain.Transaction
	fields   map[string]interface{}
	children map[string][]string
	trace    []domain.ExecutionStep
}

func (e *EngineService) newEvaluation(ctx context.Context, tx *domain.Transaction) *evaluation {
	return &evaluation{
		ctx:      ctx,
		e:        e,
		tx:       tx,
		children: map[string][]string{},
	}
}

func (ev *evaluation) step(phase domain.Phase, rule, action, msg string) {
	ev.trace = append(ev.trace, domain.ExecutionStep{Phase: phase, RuleID: rule, Action: action, Message: msg})
	logging.Debug(msg,
		zap.String("transaction", ev.tx.Name),
		zap.String("phase", string(phase)),
		zap.String("rule", rule),
		zap.String("action", action))
}

func (ev *evaluation) docFields() map[string]interface{} {
	if ev.fields == nil {
		ev.fields = ev.tx.Fields()
	}
	return ev.fields
}

// ruleForItem avalia uma linha. Linhas com esquema ou gratuitas não produzem efeito.
func (ev *evaluation) ruleForItem(line domain.LineItem) (*domain.ItemDetail, []domain.RuleDetail, error) {
	if line.PricingScheme != "" || line.IsFreeItem {
		return nil, nil, nil
	}

	item := &domain.ItemDetail{
		Name:         line.Name,
		Doctype:      ev.tx.Doctype,
		Parent:       ev.tx.Name,
		PricingRules: []string{},
		FreeItemData: []domain.FreeItem{},
	}
	if line.ItemCode == "" {
		return item, nil, nil
	}

	ranked, err := ev.pricingRules(line)
	if err != nil {
		return nil, nil, err
	}
	if len(ranked) == 0 {
		return item, nil, nil
	}

	hits := make([]domain.RuleDetail, 0, len(ranked))
	for _, rule := range ranked {
		if rule.Suggestion {
			ev.step(domain.PhaseLine, rule.Name, "skip", "rule is a suggestion")
			continue
		}
		d, err := ev.ruleDetails(&line, rule)
		if err != nil {
			return nil, nil, err
		}
		hits = append(hits, d)
		item.PricingRules = append(item.PricingRules, rule.Name)
		ev.step(domain.PhaseLine, rule.Name, "match", fmt.Sprintf("applies to line %s", line.Name))
	}
	item.HasPricingRule = true
	return item, hits, nil
}

// pricingRules carrega os candidatos de cada âmbito e devolve-os filtrados e ordenados.
func (ev *evaluation) pricingRules(line domain.LineItem) ([]domain.PricingRule, error) {
	exists, err := ev.e.repo.RuleExistsForTransactionType(ev.ctx, ev.tx.TransactionType())
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	var candidates []domain.PricingRule
	seen := map[string]bool{}
	for _, scope := range domain.LineScopes {
		values, err := ev.scopeValues(line, scope)
		if err != nil {
			return nil, err
		}
		for _, v := range values {
			rules, err := ev.e.repo.FindRules(ev.ctx, scope, v, true)
			if err != nil {
				return nil, fmt.Errorf("find %s rules for %q: %w", scope, v, err)
			}
			for _, r := range rules {
				if seen[r.Name] {
					continue
				}
				seen[r.Name] = true
				candidates = append(candidates, r)
			}
		}
	}
	return ev.rank(candidates, &line)
}

// scopeValues devolve os valores de pesquisa da linha para o âmbito; para
// grupos de artigos inclui os grupos ascendentes.
func (ev *evaluation) scopeValues(line domain.LineItem, scope domain.ApplyOn) ([]string, error) {
	switch scope {
	case domain.ApplyOnItemCode:
		return []string{line.ItemCode}, nil
	case domain.ApplyOnBrand:
		if line.Brand == "" {
			return nil, nil
		}
		return []string{line.Brand}, nil
	case domain.ApplyOnItemGroup:
		if line.ItemGroup == "" {
			return nil, nil
		}
		ancestors, err := ev.e.repo.HierarchyAncestors(ev.ctx, domain.ItemGroupTree, line.ItemGroup)
		if err != nil {
			return nil, err
		}
		return append([]string{line.ItemGroup}, ancestors...), nil
	}
	return nil, nil
}

// transactionRules avalia as regras de âmbito "Transaction".
func (ev *evaluation) transactionRules() ([]domain.RuleDetail, error) {
	rules, err := ev.e.repo.FindRules(ev.ctx, domain.ApplyOnTransaction, "", true)
	if err != nil {
		return nil, fmt.Errorf("find transaction rules: %w", err)
	}
	rules, err = ev.filterByScope(rules)
	if err != nil {
		return nil, err
	}
	rules = ev.filterByCondition(rules)

	var stockQty float64
	for _, row := range ev.tx.Items {
		stockQty += row.StockQty
	}

	var out []domain.RuleDetail
	for _, rule := range rules {
		if rule.Name == ev.tx.PricingScheme {
			continue
		}
		qty := stockQty
		if rule.EffectiveQtyBasedOn() != domain.QtyBasedOnStock {
			qty = ev.tx.TotalNetWeight
		}
		if !FilterForQtyAmount(qty, ev.tx.NetTotal, rule.Range()) {
			ev.step(domain.PhaseDocument, rule.Name, "exclude", fmt.Sprintf("qty %.2f / amount %.2f out of range", qty, ev.tx.NetTotal))
			continue
		}
		rule.Priority = DerivePriority(rule)
		d, err := ev.ruleDetails(nil, rule)
		if err != nil {
			return nil, err
		}
		ev.step(domain.PhaseDocument, rule.Name, "match", "applies to transaction")
		out = append(out, d)
	}
	return out, nil
}
