package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/hasura/data-generator-sub003/internal/app"
	"github.com/hasura/data-generator-sub003/internal/catalog"
	"github.com/hasura/data-generator-sub003/internal/config"
	"github.com/hasura/data-generator-sub003/internal/domain"
	"github.com/hasura/data-generator-sub003/internal/engine"
	"github.com/hasura/data-generator-sub003/internal/logging"
	"github.com/hasura/data-generator-sub003/internal/plans"
	"github.com/hasura/data-generator-sub003/internal/registry"
	"github.com/hasura/data-generator-sub003/internal/rules"
	"github.com/hasura/data-generator-sub003/internal/validation"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	cfg        *config.Config
	catalogDir string
	plansDir   string
	logLevel   string
)

func main() {
	cfg = config.Load()

	rootCmd := &cobra.Command{
		Use:   "fingen",
		Short: "Rule-driven synthetic data for financial services schemas",
	}

	rootCmd.PersistentFlags().StringVar(&catalogDir, "catalog-dir", cfg.CatalogDir, "Directory of user catalogs, consulted before the built-in ones")
	rootCmd.PersistentFlags().StringVar(&plansDir, "plans-dir", cfg.PlansDir, "Plans directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", cfg.LogLevel, "Log level")

	rootCmd.AddCommand(rulesCmd())
	rootCmd.AddCommand(catalogCmd())
	rootCmd.AddCommand(planCmd())
	rootCmd.AddCommand(previewCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadRules assembles catalogs and binds them the same way a run does.
func loadRules() (*rules.Set, error) {
	list, err := catalog.Load(catalogDir)
	if err != nil {
		return nil, err
	}
	genRegistry := registry.DefaultGeneratorRegistry()
	if err := validation.NewValidator(genRegistry).ValidateCatalogs(list); err != nil {
		return nil, err
	}
	return rules.Build(list, genRegistry)
}

func catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage rule catalogs",
	}

	validateCmd := &cobra.Command{
		Use:   "validate <path>",
		Short: "Validate a catalog file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := catalog.NewFileRepository(filepath.Dir(args[0])).GetByPath(filepath.Base(args[0]))
			if err != nil {
				return err
			}

			validator := validation.NewValidator(registry.DefaultGeneratorRegistry())
			if err := validator.ValidateCatalog(c); err != nil {
				fmt.Printf("Validation failed: %v\n", err)
				return err
			}

			fmt.Printf("Catalog '%s' is valid (%d rules)\n", c.ID, len(c.Rules))
			return nil
		},
	}

	cmd.AddCommand(validateCmd)
	return cmd
}

func planCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Inspect generation plans",
	}

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show plan details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := plans.NewFileRepository(plansDir).Get(args[0])
			if err != nil {
				return err
			}

			data, _ := yaml.Marshal(plan)
			fmt.Println(string(data))
			return nil
		},
	}

	cmd.AddCommand(showCmd)
	return cmd
}

func previewCmd() *cobra.Command {
	var (
		planID       string
		planPath     string
		seed         int64
		hasSeed      bool
		rowsOverride []string
		keysKind     string
		keysDSN      string
		keysSchema   string
		countOnly    bool
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Generate the rows of a plan and print them as JSON lines",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.NewLogger(logLevel)

			var plan *domain.Plan
			var err error
			switch {
			case planPath != "":
				plan, err = plans.Load(planPath)
			case planID != "":
				plan, err = plans.NewFileRepository(plansDir).Get(planID)
			default:
				return fmt.Errorf("either --plan or --plan-path required")
			}
			if err != nil {
				return err
			}

			list, err := catalog.Load(catalogDir)
			if err != nil {
				return err
			}
			svc, err := app.NewPreviewService(list, registry.DefaultGeneratorRegistry(), logger, cfg.BatchSize)
			if err != nil {
				return err
			}

			req := &app.PreviewRequest{
				Plan: plan,
				Keys: app.KeySourceConfig{Kind: keysKind, DSN: keysDSN, Schema: keysSchema},
			}
			if hasSeed {
				req.Seed = &seed
			}
			req.RowOverrides, err = parseRowOverrides(rowsOverride)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var sink engine.Sink
			if countOnly {
				sink = engine.NewCountingSink(false)
			} else {
				sink = engine.NewJSONLinesSink(os.Stdout)
			}

			stats, err := svc.Preview(ctx, req, sink)
			if err != nil {
				return err
			}

			data, _ := json.MarshalIndent(stats, "", "  ")
			fmt.Fprintln(os.Stderr, string(data))
			return nil
		},
	}

	cmd.Flags().StringVar(&planID, "plan", "", "Plan ID")
	cmd.Flags().StringVar(&planPath, "plan-path", "", "Plan file path")
	cmd.Flags().Int64VarP(&seed, "seed", "s", 0, "Seed for RNG")
	cmd.Flags().StringSliceVar(&rowsOverride, "rows", nil, "Row overrides (table=rows)")
	cmd.Flags().StringVar(&keysKind, "keys-kind", cfg.KeysKind, "Upstream key source (memory|postgres|sqlite)")
	cmd.Flags().StringVar(&keysDSN, "keys-dsn", cfg.KeysDSN, "Upstream key source DSN")
	cmd.Flags().StringVar(&keysSchema, "keys-schema", cfg.KeysSchema, "Default postgres schema for unqualified tables")
	cmd.Flags().BoolVar(&countOnly, "count-only", false, "Only print run stats")
	cmd.PreRun = func(cmd *cobra.Command, args []string) {
		hasSeed = cmd.Flags().Changed("seed")
	}

	return cmd
}

func parseRowOverrides(values []string) (map[string]int64, error) {
	if len(values) == 0 {
		return nil, nil
	}
	out := make(map[string]int64, len(values))
	for _, override := range values {
		parts := strings.SplitN(override, "=", 2)
		if len(parts) != 2 || parts[0] == "" {
			return nil, fmt.Errorf("invalid rows override format: %s", override)
		}
		rows, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid rows value: %s", parts[1])
		}
		out[parts[0]] = rows
	}
	return out, nil
}
