// Package cmd provides the CLI commands for scheme-cli.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Victor-armando18/pricing-scheme/internal/config"
	"github.com/Victor-armando18/pricing-scheme/internal/domain"
	"github.com/Victor-armando18/pricing-scheme/internal/infrastructure"
	"github.com/Victor-armando18/pricing-scheme/internal/logging"
	"github.com/Victor-armando18/pricing-scheme/internal/usecase"
)

var (
	cfgFile  string
	verbose  bool
	rulePack string
	cfg      = config.Default()
)

var rootCmd = &cobra.Command{
	Use:   "scheme-cli",
	Short: "Diagnose pricing schemes against a transaction",
	Long: `scheme-cli runs the pricing scheme engine over a transaction JSON file
and a rule pack (YAML or JSON), printing the rules found, the execution
trace and the resulting lines.

Examples:
  scheme-cli evaluate --rules data/rules/v1_rules.yaml order.json
  scheme-cli auto-apply order.json
  scheme-cli validate --before stored.json order.json`,
	SilenceUsage: true,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&rulePack, "rules", "r", "", "rule pack file or directory (defaults to engine.rule_pack)")

	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(autoApplyCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(importCmd)
}

func initConfig() {
	_ = godotenv.Load()

	loaded, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	cfg = loaded
	if rulePack != "" {
		cfg.Engine.RulePack = rulePack
	}

	if verbose {
		cfg.Logging.Level = "debug"
		cfg.Logging.Format = "console"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// newEngine monta o motor sobre o pacote de regras configurado.
func newEngine() (*usecase.EngineService, error) {
	pack, err := infrastructure.LoadConfiguredPack(context.Background(), cfg.Engine.RulePack, cfg.Engine.RulesVersion)
	if err != nil {
		return nil, fmt.Errorf("load rule pack: %w", err)
	}
	repo := infrastructure.NewFileRuleRepository(pack)
	return usecase.NewEngineService(repo, infrastructure.NewJsonLogicExecutor(),
		usecase.WithAutoApplyOrder(usecase.AutoApplyOrder(cfg.Engine.AutoApplyOrder))), nil
}

func readTransaction(path string) (*domain.Transaction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var tx domain.Transaction
	if err := json.Unmarshal(data, &tx); err != nil {
		return nil, fmt.Errorf("decode transaction %s: %w", path, err)
	}
	return &tx, nil
}

func printJSON(v any) {
	out, _ := json.MarshalIndent(v, "   ", "  ")
	fmt.Println("   " + string(out))
}

func printTrace(trace []domain.ExecutionStep) {
	fmt.Println("\n[TRACE]")
	if len(trace) == 0 {
		fmt.Println("   (empty)")
	}
	for _, step := range trace {
		fmt.Printf("   [%-12s] %-8s rule: %-20s -> %s\n",
			strings.ToUpper(string(step.Phase)), step.Action, step.RuleID, step.Message)
	}
}

func banner(title string) {
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("   " + title)
	fmt.Println(strings.Repeat("=", 60))
}
