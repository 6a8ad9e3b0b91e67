package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-sitecms/internal/storage"
)

var errMigrateMemory = errors.New("migrate: the memory storage provider has no schema")

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := commandConfig(cmd)
			if err != nil {
				return err
			}
			if strings.EqualFold(strings.TrimSpace(cfg.Storage.Provider), "memory") {
				return errMigrateMemory
			}
			ctx := cmd.Context()
			db, err := storage.Open(ctx, cfg.Storage)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := storage.Migrate(ctx, db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrated %d tables (%s)\n", len(storage.Models()), cfg.Storage.Driver)
			return nil
		},
	}
}
