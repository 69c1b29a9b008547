package main

import (
	"fmt"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/retailetl/internal/analytics"
	"github.com/JonMunkholm/retailetl/internal/core"
	"github.com/JonMunkholm/retailetl/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the tables and indexes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		pool, err := openPool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := database.Migrate(ctx, pool); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "schema applied")
		return nil
	},
}

var viewsFlags struct {
	drop bool
}

var viewsCmd = &cobra.Command{
	Use:   "views",
	Short: "Install (or drop) the dashboard SQL views",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		pool, err := openPool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		db := stdlib.OpenDBFromPool(pool)
		defer db.Close()

		if viewsFlags.drop {
			if err := analytics.DropViews(ctx, db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "views dropped")
			return nil
		}
		if err := analytics.InstallViews(ctx, db, analyticsConfig(cfg)); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d views installed\n", len(analytics.ViewDDLs(analyticsConfig(cfg))))
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every loaded row, children first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		pool, err := openPool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		tx, err := pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin: %w", err)
		}
		defer tx.Rollback(ctx)

		if err := core.Reset(ctx, tx); err != nil {
			return err
		}
		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d tables reset\n", core.TableCount())
		return nil
	},
}

func init() {
	viewsCmd.Flags().BoolVar(&viewsFlags.drop, "drop", false, "Drop the views instead of installing them")
	rootCmd.AddCommand(migrateCmd, viewsCmd, resetCmd)
}
