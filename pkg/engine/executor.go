package engine

import (
	"github.com/Victor-armando18/pricing-scheme/internal/infrastructure"
)

// NewConditionEvaluator devolve o avaliador JsonLogic das condições das regras.
func NewConditionEvaluator() ConditionEvaluator {
	return infrastructure.NewJsonLogicExecutor()
}

// NewRuleRepository serve um pacote de regras em memória.
func NewRuleRepository(pack *RulePack) RuleRepository {
	return infrastructure.NewFileRuleRepository(pack)
}

// LoadRulePack lê um pacote de regras em YAML ou JSON.
func LoadRulePack(path string) (*RulePack, error) {
	return infrastructure.LoadRulePackFile(path)
}
