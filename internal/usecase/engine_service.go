package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Victor-armando18/pricing-scheme/internal/domain"
	"github.com/Victor-armando18/pricing-scheme/internal/infrastructure/diff"
	"github.com/Victor-armando18/pricing-scheme/internal/interfaces"
	"github.com/Victor-armando18/pricing-scheme/internal/logging"
)

type AutoApplyOrder string

const (
	// OrderByPriority ordena as regras por prioridade (estável) antes de carimbar linhas.
	OrderByPriority AutoApplyOrder = "priority"
	// OrderByInsertion reproduz o comportamento histórico: a primeira regra inserida ganha.
	OrderByInsertion AutoApplyOrder = "insertion"
)

type EngineService struct {
	repo       interfaces.RuleRepository
	conditions interfaces.ConditionEvaluator
	store      interfaces.TransactionStore
	guard      interfaces.SaveGuard
	publisher  interfaces.EventPublisher
	differ     *diff.Differ
	order      AutoApplyOrder
}

type Option func(*EngineService)

func WithTransactionStore(s interfaces.TransactionStore) Option {
	return func(e *EngineService) { e.store = s }
}

func WithSaveGuard(g interfaces.SaveGuard) Option {
	return func(e *EngineService) { e.guard = g }
}

func WithEventPublisher(p interfaces.EventPublisher) Option {
	return func(e *EngineService) { e.publisher = p }
}

func WithAutoApplyOrder(o AutoApplyOrder) Option {
	return func(e *EngineService) { e.order = o }
}

func NewEngineService(repo interfaces.RuleRepository, conditions interfaces.ConditionEvaluator, opts ...Option) *EngineService {
	e := &EngineService{
		repo:       repo,
		conditions: conditions,
		differ:     &diff.Differ{},
		order:      OrderByPriority,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var _ interfaces.EngineFacade = (*EngineService)(nil)

// Evaluate corre a avaliação por linha e ao nível da transação e agrega os
// resultados em regras, linhas e esquemas já aplicados.
func (e *EngineService) Evaluate(ctx context.Context, tx *domain.Transaction) (*domain.EvaluationResult, error) {
	res := domain.NewEvaluationResult()
	if tx.Doctype == domain.DocTypeMaterialRequest {
		return res, nil
	}

	ev := e.newEvaluation(ctx, tx)

	for _, line := range tx.Items {
		item, hits, err := ev.ruleForItem(line)
		if err != nil {
			return nil, fmt.Errorf("line %s: %w", line.Name, err)
		}
		mergeRuleHits(res, line.Name, hits)
		if item != nil {
			item.ItemCode = line.ItemCode
			item.ItemName = line.ItemName
			item.Qty = line.Qty
			item.Weight = line.TotalWeight
			item.StockQty = line.StockQty
			item.Amount = line.NetAmount
			res.Items[line.Name] = *item
		}
		if line.PricingScheme != "" {
			if err := ev.addAppliedScheme(res, line.PricingScheme, line.Name); err != nil {
				return nil, err
			}
		}
	}

	trRules, err := ev.transactionRules()
	if err != nil {
		return nil, err
	}
	for _, d := range trRules {
		putRule(res, d)
	}

	if tx.PricingScheme != "" {
		if err := ev.addAppliedScheme(res, tx.PricingScheme, ""); err != nil {
			return nil, err
		}
	}

	res.Trace = ev.trace
	logging.Debug("transaction evaluated",
		zap.String("transaction", tx.Name),
		zap.Int("rules", len(res.Rules)),
		zap.Int("items", len(res.Items)),
		zap.Int("appliedSchemes", len(res.AppliedSchemes)))
	return res, nil
}

// IsSchemeApplied indica se a transação ou alguma linha tem um esquema.
func IsSchemeApplied(tx *domain.Transaction) bool {
	if tx.PricingScheme != "" {
		return true
	}
	for _, row := range tx.Items {
		if row.PricingScheme != "" {
			return true
		}
	}
	return false
}

// mergeRuleHits acrescenta a linha às applicable_items de regras já vistas
// em vez de as substituir.
func mergeRuleHits(res *domain.EvaluationResult, lineName string, hits []domain.RuleDetail) {
	for _, d := range hits {
		if existing, ok := res.Rules[d.PricingRule]; ok {
			items := make([]string, 0, len(existing.ApplicableItems)+1)
			items = append(items, existing.ApplicableItems...)
			existing.ApplicableItems = append(items, lineName)
			res.Rules[d.PricingRule] = existing
			continue
		}
		d.ApplicableItems = []string{lineName}
		putRule(res, d)
	}
}

func putRule(res *domain.EvaluationResult, d domain.RuleDetail) {
	if d.ApplicableItems == nil {
		d.ApplicableItems = []string{}
	}
	if _, ok := res.Rules[d.PricingRule]; !ok {
		res.RuleOrder = append(res.RuleOrder, d.PricingRule)
	}
	res.Rules[d.PricingRule] = d
}

func (ev *evaluation) addAppliedScheme(res *domain.EvaluationResult, scheme, lineName string) error {
	summary, ok := res.AppliedSchemes[scheme]
	if !ok {
		title, err := ev.ruleTitle(scheme)
		if err != nil {
			return err
		}
		summary = domain.AppliedSchemeSummary{Title: title, Items: []string{}}
	}
	if lineName != "" {
		summary.Items = append(summary.Items, lineName)
	}
	res.AppliedSchemes[scheme] = summary
	return nil
}

func (ev *evaluation) ruleTitle(name string) (string, error) {
	rule, err := ev.e.repo.LoadRule(ev.ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrRuleNotFound) {
			return "", nil
		}
		return "", err
	}
	return rule.Title, nil
}
