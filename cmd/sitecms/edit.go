package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-sitecms/internal/client"
	"github.com/goliatone/go-sitecms/internal/editor"
	"github.com/goliatone/go-sitecms/internal/locale"
	"github.com/goliatone/go-sitecms/internal/tui"
)

var errEditCredentials = errors.New("edit: --token, or --email and a password, are required")

func newEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit [area]",
		Short: "Edit a content area in the terminal",
		Long: `edit signs in to a running sitecms API and opens the inline editor for
one content area. Without an area it lists the editable areas.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			baseURL, _ := cmd.Flags().GetString("url")
			token, _ := cmd.Flags().GetString("token")
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			if password == "" {
				password = os.Getenv("SITECMS_EDITOR_PASSWORD")
			}
			if token == "" && (email == "" || password == "") {
				return errEditCredentials
			}
			rawLocale, _ := cmd.Flags().GetString("locale")
			loc, err := locale.Parse(rawLocale)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			api, err := client.New(baseURL, client.WithToken(token))
			if err != nil {
				return err
			}
			if token == "" {
				if _, err := api.Login(ctx, email, password); err != nil {
					return fmt.Errorf("login: %w", err)
				}
			}

			if len(args) == 0 {
				schemas, err := api.Areas(ctx)
				if err != nil {
					return err
				}
				for _, schema := range schemas {
					fmt.Fprintf(cmd.OutOrStdout(), "%-14s %s (%d fields)\n", schema.Area, schema.Label, len(schema.Fields))
				}
				return nil
			}

			schema, err := api.Schema(ctx, args[0])
			if err != nil {
				return err
			}
			page, err := editor.NewPage(schema.Area, schema.Fields, api,
				editor.WithUploader(api),
				editor.WithInitialLocale(loc),
			)
			if err != nil {
				return err
			}
			program := tea.NewProgram(tui.New(ctx, page, locale.DefaultSet()),
				tea.WithAltScreen(),
				tea.WithContext(ctx),
			)
			_, err = program.Run()
			if errors.Is(err, tea.ErrProgramKilled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().String("url", "http://localhost:8080/api", "Base URL of the sitecms API")
	cmd.Flags().String("token", os.Getenv("SITECMS_TOKEN"), "Session token (skips login)")
	cmd.Flags().String("email", "", "Login email")
	cmd.Flags().String("password", "", "Password (defaults to SITECMS_EDITOR_PASSWORD)")
	cmd.Flags().String("locale", string(locale.Arabic), "Locale opened first")
	return cmd
}
