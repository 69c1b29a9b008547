package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/retailetl/internal/analytics"
	"github.com/JonMunkholm/retailetl/internal/config"
	"github.com/JonMunkholm/retailetl/internal/core"
	_ "github.com/JonMunkholm/retailetl/internal/core/tables" // Register all tables
	"github.com/JonMunkholm/retailetl/internal/logging"
)

// cfg is populated by the root command before any subcommand runs.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "retailetl",
	Short: "Retail CSV loader and analytics reporter",
	Long: `retailetl cleans the five retail extracts (customers, products, orders,
order_items, reviews), loads them into PostgreSQL and reports analytics
over the loaded data.

Configuration is read from the environment (and .env when present).
DB_URL or DATABASE_URL is required.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
		logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
		slog.Debug("configuration loaded", "config", cfg.String())
		return nil
	},
}

// printError writes a failed command's error, followed by the mapped
// explanation and suggested action when the error is a known one.
func printError(w io.Writer, err error) {
	fmt.Fprintln(w, "Error:", err)
	if core.IsUserFacing(err) {
		fmt.Fprintln(w, "  "+core.FormatUserError(err))
	}
}

// openPool connects to the configured database and verifies the connection.
func openPool(ctx context.Context) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	poolConfig.MaxConns = int32(cfg.Database.MaxConns)
	poolConfig.MinConns = int32(cfg.Database.MinConns)
	poolConfig.MaxConnLifetime = cfg.Database.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.Database.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	if u, err := url.Parse(cfg.Database.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	}
	return pool, nil
}

func pipelineConfig(c *config.Config) core.PipelineConfig {
	return core.PipelineConfig{
		NullSentinels: c.ETL.NullSentinels,
		DayFirst:      c.ETL.DayFirst,
		Rules: core.RulesConfig{
			FallbackPaymentMethod: c.ETL.FallbackPaymentMethod,
			RatingMin:             c.ETL.RatingMin,
			RatingMax:             c.ETL.RatingMax,
		},
		CSV: core.CSVOptions{
			Delimiter:           c.ETL.DelimiterRune(),
			MaxHeaderSearchRows: c.ETL.MaxHeaderSearchRows,
		},
		Upsert: c.ETL.Upsert,
	}
}

func analyticsConfig(c *config.Config) analytics.Config {
	return analytics.Config{
		RepeatThreshold: c.Analytics.RepeatThreshold,
		ChurnMonths:     c.Analytics.ChurnMonths,
		Quintiles:       c.Analytics.Quintiles,
		TopN:            c.Analytics.TopN,
	}
}
