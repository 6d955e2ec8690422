package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newLoginCmd() *cobra.Command {
	var username string
	var password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the catalog backend",
		Example: `  # Prompt for credentials
  curator login

  # Non-interactive
  curator login --username admin --password secret`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			reader := bufio.NewReader(os.Stdin)
			if username == "" {
				if username, err = promptLine(reader, "Username: "); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = promptLine(reader, "Password: "); err != nil {
					return err
				}
			}
			if username == "" || password == "" {
				return fmt.Errorf("username and password are required")
			}

			identity, err := a.client.Login(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			if err := a.sessions.Login(*identity); err != nil {
				return err
			}

			role := "user"
			if identity.IsAdmin {
				role = "admin"
			}
			fmt.Printf("Logged in as %s (%s)\n", identity.Username, role)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (prompted when omitted)")

	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the stored credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			a.sessions.Logout()
			fmt.Println("Logged out")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			snap := a.sessions.Current()
			if !snap.IsAuthenticated {
				fmt.Println("Not logged in")
				return nil
			}
			role := "user"
			if snap.Identity.IsAdmin {
				role = "admin"
			}
			fmt.Printf("%s (%s)\n", snap.Identity.Username, role)
			return nil
		},
	}
}
