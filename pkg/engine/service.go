package engine

import (
	"github.com/Victor-armando18/pricing-scheme/internal/domain"
	"github.com/Victor-armando18/pricing-scheme/internal/usecase"
)

type (
	Option         = usecase.Option
	AutoApplyOrder = usecase.AutoApplyOrder
)

const (
	OrderByPriority  = usecase.OrderByPriority
	OrderByInsertion = usecase.OrderByInsertion
)

var (
	WithTransactionStore = usecase.WithTransactionStore
	WithSaveGuard        = usecase.WithSaveGuard
	WithEventPublisher   = usecase.WithEventPublisher
	WithAutoApplyOrder   = usecase.WithAutoApplyOrder
)

// New cria o motor sobre o repositório de regras e o avaliador de condições.
func New(repo RuleRepository, conditions ConditionEvaluator, opts ...Option) *usecase.EngineService {
	return usecase.NewEngineService(repo, conditions, opts...)
}

// IsSchemeApplied indica se a transação ou alguma linha tem um esquema aplicado.
func IsSchemeApplied(tx *domain.Transaction) bool {
	return usecase.IsSchemeApplied(tx)
}

// FreeItemQty calcula a quantidade gratuita de uma regra para a quantidade indicada.
func FreeItemQty(d RuleDetail, qty float64) float64 {
	return usecase.FreeItemQty(d, qty)
}
