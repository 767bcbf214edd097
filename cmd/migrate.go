package cmd

import (
	"context"
	"fmt"

	"github.com/rogersnm/todos/internal/id"
	"github.com/rogersnm/todos/internal/markdown"
	"github.com/rogersnm/todos/internal/store"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the todo table of a SQL backend",
}

// withDB opens the configured SQL database without migrating it.
func withDB(ctx context.Context, fn func(db *gorm.DB, kind id.Kind) error) error {
	if !store.IsSQL(cfg.Storage.Driver) {
		return fmt.Errorf("storage driver %q has no schema to migrate", cfg.Storage.Driver)
	}
	kind, err := id.ParseKind(cfg.IDPolicy)
	if err != nil {
		return err
	}
	db, err := store.OpenDB(ctx, cfg.Storage.Driver, cfg.DSN())
	if err != nil {
		return err
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()
	return fn(db, kind)
}

var migrateUpCmd = &cobra.Command{
	Use:         "up",
	Short:       "Create the todo table",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{storeAnnotation: "none"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd.Context(), func(db *gorm.DB, kind id.Kind) error {
			if err := store.Migrate(cmd.Context(), db, kind); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Migrated %s (%s ids)\n", cfg.Storage.Driver, kind)
			return nil
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:         "down",
	Short:       "Drop the todo table and every todo in it",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{storeAnnotation: "none"},
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		if !force {
			if ok, err := confirm(fmt.Sprintf("Drop the todo table in %s?", cfg.Storage.Driver)); err != nil || !ok {
				return fmt.Errorf("rollback cancelled")
			}
		}
		return withDB(cmd.Context(), func(db *gorm.DB, kind id.Kind) error {
			if err := store.Rollback(cmd.Context(), db, kind); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rolled back %s\n", cfg.Storage.Driver)
			return nil
		})
	},
}

var migrateSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the sample todos",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// A memory store would be discarded as soon as the command exits.
		if _, ok := st.(*store.MemoryStore); ok {
			return fmt.Errorf("storage driver %q does not persist seeded todos", cfg.Storage.Driver)
		}
		created, err := store.Seed(cmd.Context(), st)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), markdown.RenderTodoTable(created))
		return nil
	},
}

func init() {
	migrateDownCmd.Flags().Bool("force", false, "skip confirmation")
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateSeedCmd)
	rootCmd.AddCommand(migrateCmd)
}
