package cmd

import (
	"fmt"

	"github.com/hanzi-archive/curator/internal/panel"
	"github.com/spf13/cobra"
)

func newUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage accounts",
	}

	cmd.AddCommand(newUsersListCmd())
	cmd.AddCommand(newUsersCreateCmd())
	cmd.AddCommand(newUsersPasswdCmd())
	cmd.AddCommand(newUsersDeleteCmd())

	return cmd
}

func (a *app) usersPanel(assumeYes bool) *panel.Users {
	return panel.NewUsers(a.client, confirmer(assumeYes), a.sessions)
}

func newUsersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.requireAuth(); err != nil {
				return err
			}

			users := a.usersPanel(true)
			if err := users.FetchAll(cmd.Context()); err != nil {
				return err
			}

			for _, u := range users.Items() {
				role := "user"
				if u.IsAdmin {
					role = "admin"
				}
				marker := ""
				if !users.CanDelete(u) {
					marker = "  (current session)"
				}
				fmt.Printf("%s  %s  %s%s\n", u.ID, u.Username, role, marker)
			}
			return nil
		},
	}
}

func newUsersCreateCmd() *cobra.Command {
	var password string
	var isAdmin bool

	cmd := &cobra.Command{
		Use:   "create <username>",
		Short: "Create an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.requireAuth(); err != nil {
				return err
			}

			users := a.usersPanel(true)
			user, err := users.Create(cmd.Context(), args[0], password, isAdmin)
			if err != nil {
				return err
			}
			fmt.Printf("Created user %s (id %s)\n", user.Username, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "Password for the new account")
	cmd.Flags().BoolVar(&isAdmin, "admin", false, "Grant admin rights")

	return cmd
}

func newUsersPasswdCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "passwd <id>",
		Short: "Reset an account's password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.requireAuth(); err != nil {
				return err
			}

			users := a.usersPanel(true)
			if err := users.UpdatePassword(cmd.Context(), args[0], password); err != nil {
				return err
			}
			fmt.Printf("Password updated for user %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "New password")

	return cmd
}

func newUsersDeleteCmd() *cobra.Command {
	var assumeYes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.requireAuth(); err != nil {
				return err
			}

			users := a.usersPanel(assumeYes)
			if err := users.FetchAll(cmd.Context()); err != nil {
				return err
			}
			if err := users.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted user %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}
