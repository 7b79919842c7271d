package usecase

import (
	"context"
	"slices"

	"go.uber.org/zap"

	"github.com/Victor-armando18/pricing-scheme/internal/domain"
	"github.com/Victor-armando18/pricing-scheme/internal/logging"
)

// AutoApply carimba em cada linha elegível o primeiro esquema de preço
// auto-aplicável e recalcula preço e descontos. Devolve as linhas alteradas.
func (e *EngineService) AutoApply(ctx context.Context, tx *domain.Transaction) ([]string, error) {
	res, err := e.Evaluate(ctx, tx)
	if err != nil {
		return nil, err
	}
	return e.autoApplyWith(tx, res), nil
}

func (e *EngineService) autoApplyWith(tx *domain.Transaction, res *domain.EvaluationResult) []string {
	details := res.Ordered()
	if e.order != OrderByInsertion {
		sortDetailsByPriority(details)
	}

	var stamped []string
	for _, d := range details {
		if !d.AutoApplyScheme || d.PriceOrProductDiscount != domain.PriceDiscount || len(d.ApplicableItems) == 0 {
			continue
		}
		for i := range tx.Items {
			row := &tx.Items[i]
			if row.SkipAutoApplyScheme && d.AllowSkipping {
				continue
			}
			if row.PricingScheme != "" {
				continue
			}
			if !slices.Contains(d.ApplicableItems, row.Name) {
				continue
			}
			row.PricingScheme = d.PricingRule
			applyPriceScheme(row, d)
			stamped = append(stamped, row.Name)
			logging.Info("scheme auto-applied",
				zap.String("transaction", tx.Name),
				zap.String("line", row.Name),
				zap.String("rule", d.PricingRule),
				zap.Float64("rate", row.Rate))
		}
	}
	return stamped
}

// applyPriceScheme define o preço ou o desconto da linha segundo a regra e
// reconcilia os dois descontos com o preço de tabela.
func applyPriceScheme(row *domain.LineItem, d domain.RuleDetail) {
	if d.RateOrDiscount == domain.Rate {
		rate := d.Rate
		if r := d.ItemWiseRates[row.ItemCode]; r != 0 {
			rate = r
		}
		if d.RateBasedOn == domain.RateBasedOnWeight {
			rate = multiply(rate, row.WeightPerUnit)
		}
		row.Rate = rate
		row.DiscountAmount = subtract(row.PriceListRate, rate)
	} else {
		switch d.RateOrDiscount {
		case domain.DiscountPercentage:
			row.DiscountPercentage = lineDiscountPercentage(row, d)
			row.DiscountAmount = percentOf(row.PriceListRate, row.DiscountPercentage)
		case domain.DiscountAmount:
			row.DiscountAmount = d.DiscountAmount
		}
	}
	row.Rate = subtract(row.PriceListRate, row.DiscountAmount)
	reconcile(row)
}

// lineDiscountPercentage resolve a percentagem: tabela por artigo, depois por
// grupo de artigos, depois o valor da regra. Um valor zero numa tabela passa
// ao nível seguinte.
func lineDiscountPercentage(row *domain.LineItem, d domain.RuleDetail) float64 {
	if v := d.ItemWiseDiscounts[row.ItemCode]; v != 0 {
		return v
	}
	if v := d.ItemGroupWiseDiscounts[row.ItemGroup]; v != 0 {
		return v
	}
	return d.DiscountPercentage
}
