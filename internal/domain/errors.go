package domain

import (
	"errors"
	"fmt"
)

// --- Constantes e Erros ---
var (
	ErrRuleNotFound        = errors.New("pricing rule not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrSchemeNotApplicable = errors.New("pricing scheme not applicable")
	ErrFrozenField         = errors.New("field cannot be edited as scheme is already applied")
	ErrNotDraft            = errors.New("scheme can only be applied on draft documents")
	ErrFreeQtyMismatch     = errors.New("selected free quantity does not match scheme")
	ErrConditionFailed     = errors.New("rule condition evaluation failed")
	ErrAlreadyProcessed    = errors.New("transaction revision already processed")
)

// SchemeViolation é a rejeição apresentada ao utilizador quando um esquema
// aplicado deixa de ser válido. Row é 0 quando a violação é da transação.
type SchemeViolation struct {
	Row       int    `json:"row"`
	Rule      string `json:"rule"`
	RuleTitle string `json:"ruleTitle"`
	Field     string `json:"field,omitempty"`
	Reason    string `json:"reason"`
	err       error
}

func NewSchemeViolation(row int, rule, title, reason string) *SchemeViolation {
	return &SchemeViolation{Row: row, Rule: rule, RuleTitle: title, Reason: reason, err: ErrSchemeNotApplicable}
}

func NewFrozenFieldViolation(row int, rule, field string) *SchemeViolation {
	return &SchemeViolation{
		Row:    row,
		Rule:   rule,
		Field:  field,
		Reason: fmt.Sprintf("%s cannot be edited as scheme is already applied", field),
		err:    ErrFrozenField,
	}
}

func (v *SchemeViolation) Error() string {
	if v.Field != "" {
		return fmt.Sprintf("Row #%d: %s", v.Row, v.Reason)
	}
	if v.Row == 0 {
		return fmt.Sprintf("Pricing Rule %s(%s) is not applicable for the transaction: %s", v.Rule, v.RuleTitle, v.Reason)
	}
	return fmt.Sprintf("Row #%d: Pricing Rule %s(%s) is not applicable: %s", v.Row, v.Rule, v.RuleTitle, v.Reason)
}

func (v *SchemeViolation) Unwrap() error { return v.err }
