package usecase

import (
	"sort"

	"github.com/Victor-armando18/pricing-scheme/internal/domain"
)

// DerivePriority devolve a prioridade da regra. Sem prioridade explícita:
// cliente 1, grupo de clientes 2, território 3, caso contrário 4.
func DerivePriority(r domain.PricingRule) int {
	if r.Priority > 0 {
		return r.Priority
	}
	switch {
	case r.Customer != "":
		return 1
	case r.CustomerGroup != "":
		return 2
	case r.Territory != "":
		return 3
	}
	return domain.DefaultPriority
}

// SortByPriority agrupa as regras por prioridade crescente, mantendo a ordem
// de inserção dentro de cada grupo.
func SortByPriority(rules []domain.PricingRule) []domain.PricingRule {
	out := make([]domain.PricingRule, len(rules))
	copy(out, rules)
	sort.SliceStable(out, func(i, j int) bool {
		return DerivePriority(out[i]) < DerivePriority(out[j])
	})
	return out
}

// sortDetailsByPriority é o equivalente para os detalhes usados no auto-apply.
func sortDetailsByPriority(details []domain.RuleDetail) {
	sort.SliceStable(details, func(i, j int) bool {
		return details[i].Priority < details[j].Priority
	})
}
