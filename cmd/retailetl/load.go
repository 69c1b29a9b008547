package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/retailetl/internal/core"
	"github.com/JonMunkholm/retailetl/internal/metrics"
	"github.com/JonMunkholm/retailetl/internal/report"
)

var loadFlags struct {
	dir       string
	failedDir string
	upsert    bool
}

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Clean and load the five CSV extracts",
	Long: `Reads customers.csv, products.csv, orders.csv, order_items.csv and
reviews.csv from --dir, cleans every record and loads them in foreign-key
order. Rows that violate a constraint are rejected individually and listed
in the run summary.`,
	Args: cobra.NoArgs,
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().StringVarP(&loadFlags.dir, "dir", "d", "", "Directory holding the CSV files (default ETL_INPUT_DIR)")
	loadCmd.Flags().StringVar(&loadFlags.failedDir, "failed-dir", "", "Write <table>_failed.csv for rejected rows into this directory")
	loadCmd.Flags().BoolVar(&loadFlags.upsert, "upsert", false, "Overwrite rows whose primary key already exists")
	rootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, _ []string) error {
	dir := loadFlags.dir
	if dir == "" {
		dir = cfg.ETL.InputDir
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.ETL.Timeout)
	defer cancel()

	pool, err := openPool(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	pcfg := pipelineConfig(cfg)
	pcfg.Upsert = pcfg.Upsert || loadFlags.upsert

	m := metrics.New()
	p := core.NewPipeline(pool, pcfg,
		core.WithRecorder(m),
		core.WithLogger(slog.Default().With("dir", dir)),
	)

	res := p.RunDir(ctx, dir)
	m.ObserveRun(res)

	if err := report.PrintLoadResult(cmd.OutOrStdout(), res); err != nil {
		return err
	}

	if loadFlags.failedDir != "" {
		paths, err := report.ExportFailedRows(loadFlags.failedDir, res)
		if err != nil {
			return err
		}
		for _, path := range paths {
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		}
	}

	var failed []string
	for _, t := range res.Tables {
		if t.Error != "" {
			failed = append(failed, string(t.Entity))
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("%d tables could not be loaded: %v", len(failed), failed)
	}
	return nil
}
