package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate <transaction.json>",
	Short: "List the rules, items and applied schemes of a transaction",
	Args:  cobra.ExactArgs(1),
	RunE:  runEvaluate,
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	tx, err := readTransaction(args[0])
	if err != nil {
		return err
	}
	svc, err := newEngine()
	if err != nil {
		return err
	}
	tx.CalculateTotals()
	res, err := svc.Evaluate(context.Background(), tx)
	if err != nil {
		return err
	}

	banner("EVALUATE " + tx.Name)
	fmt.Println("\n[RULES]")
	for _, d := range res.Ordered() {
		fmt.Printf("   %-20s p%d %-10s %-20s lines=%v\n", d.PricingRule, d.Priority, d.PriceOrProductDiscount, d.RateOrDiscount, d.ApplicableItems)
	}
	fmt.Println("\n[ITEMS]")
	printJSON(res.Items)
	fmt.Println("\n[APPLIED SCHEMES]")
	printJSON(res.AppliedSchemes)
	printTrace(res.Trace)
	return nil
}
