package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-sitecms/internal/logging"
	"github.com/goliatone/go-sitecms/internal/seed"
)

func newSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed <path>...",
		Short: "Import YAML fixtures and markdown documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			module, _, err := openModule(cmd)
			if err != nil {
				return err
			}
			defer module.Close()

			container := module.Container()
			opts := []seed.Option{
				seed.WithClients(module.Clients()),
				seed.WithLocales(container.Locales()),
				seed.WithLogger(logging.SeedLogger(container.LoggerProvider())),
			}
			if raw, _ := cmd.Flags().GetString("actor"); raw != "" {
				actor, err := uuid.Parse(raw)
				if err != nil {
					return fmt.Errorf("parse actor: %w", err)
				}
				opts = append(opts, seed.WithActor(actor))
			}
			importer, err := seed.NewImporter(container.Commands(), opts...)
			if err != nil {
				return err
			}

			var total seed.Report
			for _, path := range args {
				report, err := importer.ImportPath(cmd.Context(), path)
				total.Areas += report.Areas
				total.Projects += report.Projects
				total.Clients += report.Clients
				total.Documents += report.Documents
				if err != nil {
					return fmt.Errorf("seed %s: %w", path, err)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d areas, %d projects, %d clients, %d documents\n",
				total.Areas, total.Projects, total.Clients, total.Documents)
			return nil
		},
	}
	cmd.Flags().String("actor", "", "User ID recorded on imported records")
	return cmd
}
