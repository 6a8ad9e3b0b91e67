package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-sitecms/internal/users"
)

func newUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage admin accounts",
	}
	cmd.AddCommand(newUsersCreateCmd(), newUsersListCmd())
	return cmd
}

func newUsersCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			input := users.CreateInput{}
			input.Email, _ = cmd.Flags().GetString("email")
			input.Name, _ = cmd.Flags().GetString("name")
			input.Role, _ = cmd.Flags().GetString("role")
			input.Password, _ = cmd.Flags().GetString("password")
			if input.Password == "" {
				input.Password = os.Getenv("SITECMS_USER_PASSWORD")
			}

			module, _, err := openModule(cmd)
			if err != nil {
				return err
			}
			defer module.Close()

			user, err := module.Users().Create(cmd.Context(), input)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s %s (%s)\n", user.Role, user.Email, user.ID)
			return nil
		},
	}
	cmd.Flags().String("email", "", "Login email")
	cmd.Flags().String("name", "", "Display name")
	cmd.Flags().String("role", "editor", "Role: admin or editor")
	cmd.Flags().String("password", "", "Password (defaults to SITECMS_USER_PASSWORD)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newUsersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			module, _, err := openModule(cmd)
			if err != nil {
				return err
			}
			defer module.Close()

			list, err := module.Users().List(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tEMAIL\tROLE\tACTIVE")
			for _, user := range list {
				fmt.Fprintf(w, "%s\t%s\t%s\t%t\n", user.ID, user.Email, user.Role, user.Active)
			}
			return w.Flush()
		},
	}
}
