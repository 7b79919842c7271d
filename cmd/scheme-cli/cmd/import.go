package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Victor-armando18/pricing-scheme/internal/infrastructure"
	"github.com/Victor-armando18/pricing-scheme/internal/infrastructure/sqlstore"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load the rule pack into the configured database",
	Long: `Create the tables if needed and write every rule and hierarchy of the rule
pack into the database named by database.driver / database.dsn (or DATABASE_URL).`,
	Args: cobra.NoArgs,
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	pack, err := infrastructure.LoadConfiguredPack(ctx, cfg.Engine.RulePack, cfg.Engine.RulesVersion)
	if err != nil {
		return fmt.Errorf("load rule pack: %w", err)
	}
	repo, err := sqlstore.Open(ctx, cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer repo.Close()

	if err := repo.Migrate(ctx); err != nil {
		return err
	}
	if err := repo.ImportRulePack(ctx, pack); err != nil {
		return err
	}
	fmt.Printf("Imported %d rules from %s\n", len(pack.Rules), cfg.Engine.RulePack)
	return nil
}
