package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Victor-armando18/pricing-scheme/internal/domain"
)

var beforeFile string

var validateCmd = &cobra.Command{
	Use:   "validate <transaction.json>",
	Short: "Check that applied schemes still hold for a transaction",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&beforeFile, "before", "", "previously saved transaction, to detect frozen field edits")
}

func runValidate(cmd *cobra.Command, args []string) error {
	tx, err := readTransaction(args[0])
	if err != nil {
		return err
	}
	var before *domain.Transaction
	if beforeFile != "" {
		if before, err = readTransaction(beforeFile); err != nil {
			return err
		}
	}
	svc, err := newEngine()
	if err != nil {
		return err
	}

	tx.CalculateTotals()
	banner("VALIDATE " + tx.Name)
	err = svc.Validate(context.Background(), tx, before)
	var violation *domain.SchemeViolation
	switch {
	case err == nil:
		fmt.Println("   OK: all applied schemes hold.")
		return nil
	case errors.As(err, &violation):
		fmt.Printf("   REJECTED: %s\n", violation.Error())
		printJSON(violation)
		return err
	default:
		return err
	}
}
