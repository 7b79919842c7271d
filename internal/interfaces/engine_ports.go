package interfaces

import (
	"context"

	"github.com/Victor-armando18/pricing-scheme/internal/domain"
)

// Definimos o erro aqui para que o usecase possa referenciá-lo facilmente
var ErrConditionFailed = domain.ErrConditionFailed

// RuleRepository abstrai o acesso às regras de preço e às hierarquias (lft/rgt)
// mantidas pela plataforma anfitriã. Não contém lógica de decisão.
type RuleRepository interface {
	FindRules(ctx context.Context, scope domain.ApplyOn, scopeValue string, activeOnly bool) ([]domain.PricingRule, error)
	LoadRule(ctx context.Context, name string) (*domain.PricingRule, error)
	LoadRuleTables(ctx context.Context, name string) (*domain.RuleTables, error)
	HierarchySpan(ctx context.Context, doctype, name string) (lft, rgt int, found bool, err error)
	HierarchyMembersWithin(ctx context.Context, doctype string, lft, rgt int) ([]string, error)
	HierarchyAncestors(ctx context.Context, doctype, name string) ([]string, error)
	RuleExistsForTransactionType(ctx context.Context, txType domain.TransactionType) (bool, error)
}

// ConditionEvaluator avalia a condição (JsonLogic) de uma regra contra os campos da transação.
type ConditionEvaluator interface {
	Evaluate(ctx context.Context, condition string, fields map[string]interface{}) (bool, error)
}

// TransactionStore lê e grava transações no anfitrião.
type TransactionStore interface {
	LoadTransaction(ctx context.Context, name string) (*domain.Transaction, error)
	SaveTransaction(ctx context.Context, tx *domain.Transaction) error
}

// SaveGuard garante que o ciclo de gravação corre uma vez por revisão.
// Release liberta a revisão quando a gravação é rejeitada.
type SaveGuard interface {
	Acquire(ctx context.Context, transaction string, revision int) (bool, error)
	Release(ctx context.Context, transaction string, revision int) error
}

// EventPublisher notifica aplicação/remoção de esquemas.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.SchemeEvent) error
}

// EngineFacade é a porta de entrada exposta ao anfitrião.
type EngineFacade interface {
	Evaluate(ctx context.Context, tx *domain.Transaction) (*domain.EvaluationResult, error)
	AutoApply(ctx context.Context, tx *domain.Transaction) ([]string, error)
	Validate(ctx context.Context, tx *domain.Transaction, before *domain.Transaction) error
	Save(ctx context.Context, tx *domain.Transaction) error
	RemoveRule(ctx context.Context, transaction, rule string) error
	ApplyScheme(ctx context.Context, tx *domain.Transaction, req domain.ApplySchemeRequest) error
}

// RulePackLoader define o contrato para carregar os RulePacks (de disco, rede, etc.).
type RulePackLoader interface {
	Load(ctx context.Context, version string) (*domain.RulePackDefinition, error)
}
