package yaml

import (
	"fmt"
	"os"

	"github.com/Victor-armando18/pricing-scheme/internal/domain"

	"gopkg.in/yaml.v3"
)

func LoadRulePack(path string) (*domain.RulePackDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseRulePack(data)
}

func ParseRulePack(data []byte) (*domain.RulePackDefinition, error) {
	var pack domain.RulePackDefinition
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rule pack: %w", err)
	}
	return &pack, nil
}
