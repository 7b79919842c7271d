// Package engine expõe o motor de esquemas de preço a anfitriões que o
// embebem no próprio processo.
package engine

import (
	"github.com/Victor-armando18/pricing-scheme/internal/domain"
	"github.com/Victor-armando18/pricing-scheme/internal/interfaces"
)

type (
	Transaction          = domain.Transaction
	LineItem             = domain.LineItem
	PricingRule          = domain.PricingRule
	RuleTables           = domain.RuleTables
	RuleDetail           = domain.RuleDetail
	ItemDetail           = domain.ItemDetail
	EvaluationResult     = domain.EvaluationResult
	AppliedSchemeSummary = domain.AppliedSchemeSummary
	ExecutionStep        = domain.ExecutionStep
	ApplySchemeRequest   = domain.ApplySchemeRequest
	FreeItemSelection    = domain.FreeItemSelection
	SchemeEvent          = domain.SchemeEvent
	SchemeViolation      = domain.SchemeViolation
	RulePack             = domain.RulePackDefinition

	RuleRepository     = interfaces.RuleRepository
	ConditionEvaluator = interfaces.ConditionEvaluator
	TransactionStore   = interfaces.TransactionStore
	SaveGuard          = interfaces.SaveGuard
	EventPublisher     = interfaces.EventPublisher
	Facade             = interfaces.EngineFacade
)

var (
	ErrRuleNotFound        = domain.ErrRuleNotFound
	ErrTransactionNotFound = domain.ErrTransactionNotFound
	ErrSchemeNotApplicable = domain.ErrSchemeNotApplicable
	ErrFrozenField         = domain.ErrFrozenField
	ErrNotDraft            = domain.ErrNotDraft
	ErrFreeQtyMismatch     = domain.ErrFreeQtyMismatch
	ErrAlreadyProcessed    = domain.ErrAlreadyProcessed
)
