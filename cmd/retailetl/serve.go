package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/retailetl/internal/analytics"
	"github.com/JonMunkholm/retailetl/internal/core"
	"github.com/JonMunkholm/retailetl/internal/database"
	"github.com/JonMunkholm/retailetl/internal/metrics"
	"github.com/JonMunkholm/retailetl/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the read-only analytics API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		pool, err := openPool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		queries := database.New(pool)
		source := web.SnapshotFunc(func(ctx context.Context) (*analytics.Dataset, error) {
			return analytics.LoadDataset(ctx, queries)
		})

		slog.Info("tables registered", "count", core.TableCount())
		server := web.NewServer(source, analyticsConfig(cfg), metrics.New(), cfg.Server)

		go func() {
			<-ctx.Done()
			slog.Info("shutting down...")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				slog.Error("shutdown error", "error", err)
			}
		}()

		return server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
