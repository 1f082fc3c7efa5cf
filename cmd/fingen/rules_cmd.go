package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/hasura/data-generator-sub003/internal/rules"
	"github.com/spf13/cobra"
)

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect the assembled rule set",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List rules in match order",
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := loadRules()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TIER\tSOURCE\tTABLE\tCOLUMN\tGENERATOR")
			for _, r := range set.Rules() {
				fmt.Fprintf(w, "%s\t%s[%d]\t%s\t%s\t%s\n",
					r.Tier(), r.Source, r.Position, r.TablePattern, r.ColumnPattern, r.Generator.Type)
			}
			w.Flush()
			return nil
		},
	}

	matchCmd := &cobra.Command{
		Use:   "match <table> <column>",
		Short: "Show which rule generates a column",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := loadRules()
			if err != nil {
				return err
			}

			winner, err := set.Match(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Printf("%s %s\n", color.GreenString("match"), winner)
			for _, r := range set.MatchAll(args[0], args[1]) {
				if r != winner {
					fmt.Printf("%s %s\n", color.YellowString("shadowed"), r)
				}
			}
			return nil
		},
	}

	var (
		inventoryPath string
		strict        bool
	)

	lintCmd := &cobra.Command{
		Use:   "lint",
		Short: "Report duplicate and overlapping rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := loadRules()
			if err != nil {
				return err
			}

			var inventory []rules.Probe
			if inventoryPath != "" {
				f, err := os.Open(inventoryPath)
				if err != nil {
					return err
				}
				inventory, err = rules.LoadInventory(f)
				f.Close()
				if err != nil {
					return err
				}
			}

			findings := rules.Lint(set, inventory)
			if len(findings) == 0 {
				color.Green("No overlapping rules (%d rules checked)", set.Len())
				return nil
			}
			for _, f := range findings {
				if f.Kind == rules.FindingDuplicate {
					color.Red("%s", f)
				} else {
					color.Yellow("%s", f)
				}
			}
			if strict {
				return fmt.Errorf("%d lint findings", len(findings))
			}
			return nil
		},
	}
	lintCmd.Flags().StringVar(&inventoryPath, "inventory", "", "File of schema.table.column lines to probe")
	lintCmd.Flags().BoolVar(&strict, "strict", false, "Exit non-zero on any finding")

	cmd.AddCommand(listCmd, matchCmd, lintCmd)
	return cmd
}
