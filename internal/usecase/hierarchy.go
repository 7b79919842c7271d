package usecase

import (
	"context"
	"slices"

	"github.com/Victor-armando18/pricing-scheme/internal/interfaces"
)

// GetChild expande um nó da hierarquia em si próprio e em todos os
// descendentes. Um nó desconhecido não tem membros.
func GetChild(ctx context.Context, repo interfaces.RuleRepository, doctype, name string) ([]string, error) {
	lft, rgt, found, err := repo.HierarchySpan(ctx, doctype, name)
	if err != nil {
		return nil, err
	}
	if !found {
		return []string{}, nil
	}
	if rgt-lft <= 1 {
		return []string{name}, nil
	}
	members, err := repo.HierarchyMembersWithin(ctx, doctype, lft, rgt)
	if err != nil {
		return nil, err
	}
	return append([]string{name}, members...), nil
}

// childrenOf memoriza GetChild durante uma avaliação.
func (ev *evaluation) childrenOf(doctype, name string) ([]string, error) {
	key := doctype + "\x00" + name
	if c, ok := ev.children[key]; ok {
		return c, nil
	}
	c, err := GetChild(ev.ctx, ev.e.repo, doctype, name)
	if err != nil {
		return nil, err
	}
	ev.children[key] = c
	return c, nil
}

// inHierarchy indica se value é root ou um dos seus descendentes.
func (ev *evaluation) inHierarchy(doctype, root, value string) (bool, error) {
	if value == "" {
		return false, nil
	}
	members, err := ev.childrenOf(doctype, root)
	if err != nil {
		return false, err
	}
	return slices.Contains(members, value), nil
}
