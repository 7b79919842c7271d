package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Victor-armando18/pricing-scheme/internal/domain"
	"github.com/Victor-armando18/pricing-scheme/internal/infrastructure/yaml"
	"github.com/Victor-armando18/pricing-scheme/internal/interfaces"
)

type FileRuleLoader struct {
	BasePath string
}

func NewFileRuleLoader(basePath string) interfaces.RulePackLoader {
	return &FileRuleLoader{BasePath: basePath}
}

// Load procura <versão>_rules.yaml e depois <versão>_rules.json no diretório base.
func (l *FileRuleLoader) Load(ctx context.Context, version string) (*domain.RulePackDefinition, error) {
	for _, ext := range []string{"yaml", "yml", "json"} {
		path := filepath.Join(l.BasePath, fmt.Sprintf("%s_rules.%s", version, ext))
		if _, err := os.Stat(path); err == nil {
			return LoadRulePackFile(path)
		}
	}
	return nil, fmt.Errorf("rule pack %s not found in %s", version, l.BasePath)
}

// LoadConfiguredPack aceita um ficheiro de regras ou um diretório; neste caso
// carrega a versão indicada através do FileRuleLoader.
func LoadConfiguredPack(ctx context.Context, path, version string) (*domain.RulePackDefinition, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("rule pack %s: %w", path, err)
	}
	if info.IsDir() {
		return NewFileRuleLoader(path).Load(ctx, version)
	}
	return LoadRulePackFile(path)
}

// LoadRulePackFile lê um pacote de regras em JSON ou YAML, conforme a extensão.
func LoadRulePackFile(path string) (*domain.RulePackDefinition, error) {
	if !strings.HasSuffix(path, ".json") {
		return yaml.LoadRulePack(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule file %s: %w", path, err)
	}

	var def domain.RulePackDefinition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rule definition: %w", err)
	}
	return &def, nil
}

// TreeSpan é um nó numerado com o seu intervalo lft/rgt.
type TreeSpan struct {
	Name     string
	Lft, Rgt int
}

// NumberTree numera as árvores em pré-ordem e devolve os nós ordenados por lft.
func NumberTree(roots []domain.TreeNode) []TreeSpan {
	counter := 0
	var nodes []TreeSpan
	for _, root := range roots {
		nodes = number(root, &counter, nodes)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Lft < nodes[j].Lft })
	return nodes
}

// FileRuleRepository serve um pacote de regras em memória. As árvores são
// numeradas com intervalos lft/rgt, como a plataforma anfitriã as mantém.
type FileRuleRepository struct {
	rules []domain.RuleConfig
	trees map[string][]TreeSpan
}

var _ interfaces.RuleRepository = (*FileRuleRepository)(nil)

func NewFileRuleRepository(pack *domain.RulePackDefinition) *FileRuleRepository {
	repo := &FileRuleRepository{trees: map[string][]TreeSpan{}}
	if pack == nil {
		return repo
	}
	repo.rules = pack.Rules
	for doctype, roots := range pack.Trees {
		repo.trees[doctype] = NumberTree(roots)
	}
	return repo
}

func number(node domain.TreeNode, counter *int, acc []TreeSpan) []TreeSpan {
	*counter++
	s := TreeSpan{Name: node.Name, Lft: *counter}
	idx := len(acc)
	acc = append(acc, s)
	for _, child := range node.Children {
		acc = number(child, counter, acc)
	}
	*counter++
	acc[idx].Rgt = *counter
	return acc
}

func (r *FileRuleRepository) FindRules(ctx context.Context, scope domain.ApplyOn, scopeValue string, activeOnly bool) ([]domain.PricingRule, error) {
	var out []domain.PricingRule
	for _, rc := range r.rules {
		if rc.ApplyOn != scope {
			continue
		}
		if activeOnly && rc.Disabled {
			continue
		}
		if scope != domain.ApplyOnTransaction && !contains(rc.Items, scopeValue) {
			continue
		}
		out = append(out, rc.PricingRule)
	}
	return out, nil
}

func (r *FileRuleRepository) LoadRule(ctx context.Context, name string) (*domain.PricingRule, error) {
	for _, rc := range r.rules {
		if rc.Name == name {
			rule := rc.PricingRule
			return &rule, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrRuleNotFound, name)
}

func (r *FileRuleRepository) LoadRuleTables(ctx context.Context, name string) (*domain.RuleTables, error) {
	for _, rc := range r.rules {
		if rc.Name == name {
			tables := rc.Tables
			return &tables, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrRuleNotFound, name)
}

func (r *FileRuleRepository) HierarchySpan(ctx context.Context, doctype, name string) (int, int, bool, error) {
	for _, n := range r.trees[doctype] {
		if n.Name == name {
			return n.Lft, n.Rgt, true, nil
		}
	}
	return 0, 0, false, nil
}

func (r *FileRuleRepository) HierarchyMembersWithin(ctx context.Context, doctype string, lft, rgt int) ([]string, error) {
	var out []string
	for _, n := range r.trees[doctype] {
		if n.Lft > lft && n.Rgt < rgt {
			out = append(out, n.Name)
		}
	}
	return out, nil
}

func (r *FileRuleRepository) HierarchyAncestors(ctx context.Context, doctype, name string) ([]string, error) {
	lft, rgt, found, _ := r.HierarchySpan(ctx, doctype, name)
	if !found {
		return nil, nil
	}
	var out []string
	nodes := r.trees[doctype]
	for i := len(nodes) - 1; i >= 0; i-- {
		if nodes[i].Lft < lft && nodes[i].Rgt > rgt {
			out = append(out, nodes[i].Name)
		}
	}
	return out, nil
}

func (r *FileRuleRepository) RuleExistsForTransactionType(ctx context.Context, txType domain.TransactionType) (bool, error) {
	for _, rc := range r.rules {
		if rc.Disabled {
			continue
		}
		if (txType == domain.Selling && rc.Selling) || (txType == domain.Buying && rc.Buying) {
			return true, nil
		}
	}
	return false, nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
