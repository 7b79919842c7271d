package usecase

import (
	"context"

	"github.com/Victor-armando18/pricing-scheme/internal/domain"
	"github.com/Victor-armando18/pricing-scheme/internal/interfaces"
)

// ruleDetails constrói o RuleDetail normalizado de uma regra. As sub-tabelas só
// são carregadas quando a regra as declara.
func (ev *evaluation) ruleDetails(line *domain.LineItem, rule domain.PricingRule) (domain.RuleDetail, error) {
	d := domain.RuleDetail{
		PricingRule:            rule.Name,
		Title:                  rule.Title,
		Priority:               DerivePriority(rule),
		ApplyOn:                rule.ApplyOn,
		RateOrDiscount:         rule.RateOrDiscount,
		PriceOrProductDiscount: rule.PriceOrProductDiscount,
		MarginType:             rule.MarginType,
		Rate:                   rule.Rate,
		DiscountPercentage:     rule.DiscountPercentage,
		DiscountAmount:         rule.DiscountAmount,
		ApplyDiscountOn:        rule.ApplyDiscountOn,
		RateBasedOn:            rule.RateBasedOn,
		MinQty:                 rule.MinQty,
		MaxQty:                 rule.MaxQty,
		MinAmt:                 rule.MinAmt,
		MaxAmt:                 rule.MaxAmt,
		FreeItems:              []domain.FreeItem{},
		FreeQty:                rule.FreeQty,
		FreeQtyType:            rule.FreeQtyType,
		FreeItemUOM:            rule.FreeItemUOM,
		QtyBasedOn:             rule.QtyBasedOn,
		IsRecursive:            rule.IsRecursive,
		RecurseFor:             rule.RecurseFor,
		ApplyRecursionOver:     rule.ApplyRecursionOver,
		RoundFreeQty:           rule.RoundFreeQty,
		AutoApplyScheme:        rule.AutoApplyScheme,
		AllowSkipping:          rule.AllowSkipping,
		ItemWiseRates:          map[string]float64{},
		ItemGroupWiseDiscounts: map[string]float64{},
		ItemWiseDiscounts:      map[string]float64{},
	}
	if line != nil {
		d.ItemCode = line.ItemCode
		d.ChildDocname = line.Name
	}

	if !rule.HasMultipleFreeItems && !rule.HasItemWiseRates && !rule.HasItemGroupWiseDiscounts && !rule.HasItemWiseDiscounts {
		return d, nil
	}
	tables, err := ev.e.repo.LoadRuleTables(ev.ctx, rule.Name)
	if err != nil {
		return d, err
	}

	if rule.HasMultipleFreeItems {
		d.FreeItems = append(d.FreeItems, tables.FreeItems...)
	}
	if rule.HasItemWiseRates {
		for _, r := range tables.ItemWiseRates {
			d.ItemWiseRates[r.ItemCode] = r.Rate
		}
	}
	if rule.HasItemGroupWiseDiscounts {
		groups, err := PropagateGroupDiscounts(ev.ctx, ev.e.repo, tables.ItemGroupWiseDiscounts)
		if err != nil {
			return d, err
		}
		d.ItemGroupWiseDiscounts = groups
	}
	if rule.HasItemWiseDiscounts {
		for _, r := range tables.ItemWiseDiscounts {
			d.ItemWiseDiscounts[r.ItemCode] = r.DiscountPercentage
		}
	}
	return d, nil
}

// PropagateGroupDiscounts devolve o desconto de cada grupo e de todos os seus
// descendentes. Os grupos são percorridos pela ordem da tabela e cada um passa
// aos descendentes o valor que tem nesse momento, já reescrito por um
// antecessor processado antes.
func PropagateGroupDiscounts(ctx context.Context, repo interfaces.RuleRepository, rows []domain.GroupDiscount) (map[string]float64, error) {
	out := make(map[string]float64, len(rows))
	order := make([]string, 0, len(rows))
	for _, r := range rows {
		if _, ok := out[r.ItemGroup]; !ok {
			order = append(order, r.ItemGroup)
		}
		out[r.ItemGroup] = r.DiscountPercentage
	}

	for _, group := range order {
		children, err := GetChild(ctx, repo, domain.ItemGroupTree, group)
		if err != nil {
			return nil, err
		}
		value := out[group]
		for _, child := range children {
			out[child] = value
		}
	}
	return out, nil
}
