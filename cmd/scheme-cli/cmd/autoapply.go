package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Victor-armando18/pricing-scheme/internal/infrastructure"
)

var autoApplyCmd = &cobra.Command{
	Use:   "auto-apply <transaction.json>",
	Short: "Stamp auto-apply schemes and print the server delta",
	Args:  cobra.ExactArgs(1),
	RunE:  runAutoApply,
}

func runAutoApply(cmd *cobra.Command, args []string) error {
	tx, err := readTransaction(args[0])
	if err != nil {
		return err
	}
	svc, err := newEngine()
	if err != nil {
		return err
	}

	tx.CalculateTotals()
	before, err := infrastructure.CloneTransaction(*tx)
	if err != nil {
		return err
	}
	stamped, err := svc.AutoApply(context.Background(), tx)
	if err != nil {
		return err
	}
	tx.CalculateTotals()
	delta, err := infrastructure.MergeDelta(before, *tx)
	if err != nil {
		return err
	}

	banner("AUTO-APPLY " + tx.Name)
	fmt.Printf("\n   Stamped lines: %v\n", stamped)
	fmt.Println("\n[DELTA]")
	fmt.Println("   " + string(delta))
	fmt.Println("\n[LINES]")
	for _, row := range tx.Items {
		fmt.Printf("   #%-3d %-12s scheme=%-16s plr=%10.2f rate=%10.2f disc=%6.2f%%\n",
			row.Idx, row.ItemCode, row.PricingScheme, row.PriceListRate, row.Rate, row.DiscountPercentage)
	}
	return nil
}
