package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/retailetl/internal/analytics"
	"github.com/JonMunkholm/retailetl/internal/database"
	"github.com/JonMunkholm/retailetl/internal/report"
)

var reportFlags struct {
	xlsx string
	view string
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Compute every analytics aggregate",
	Long: `Reads a snapshot of the loaded tables and prints every aggregate as JSON,
or writes them to an xlsx workbook with one sheet per aggregate.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		pool, err := openPool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		ds, err := analytics.LoadDataset(ctx, database.New(pool))
		if err != nil {
			return err
		}
		acfg := analyticsConfig(cfg)

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")

		if reportFlags.view != "" {
			v, ok := analytics.Lookup(reportFlags.view)
			if !ok {
				return fmt.Errorf("unknown view: %s", reportFlags.view)
			}
			return enc.Encode(v.Run(ds, acfg))
		}

		rep := analytics.Build(ds, acfg)
		if reportFlags.xlsx != "" {
			if err := report.SaveWorkbook(reportFlags.xlsx, rep); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", reportFlags.xlsx)
			return nil
		}
		return enc.Encode(rep)
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportFlags.xlsx, "xlsx", "", "Write an xlsx workbook to this path instead of printing JSON")
	reportCmd.Flags().StringVar(&reportFlags.view, "view", "", "Print a single view by name")
	rootCmd.AddCommand(reportCmd)
}
