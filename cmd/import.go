package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newImportCmd() *cobra.Command {
	var assumeYes bool

	cmd := &cobra.Command{
		Use:   "import <export-file>",
		Short: "Restore the backend database from an export file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.requireAuth(); err != nil {
				return err
			}

			if !confirmer(assumeYes).Confirm(fmt.Sprintf("Importing %s replaces the current database. Continue?", args[0])) {
				fmt.Println("Import cancelled")
				return nil
			}

			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open export file: %w", err)
			}
			defer file.Close()

			if err := a.client.Import(cmd.Context(), file, filepath.Base(args[0])); err != nil {
				return err
			}
			fmt.Println("Import complete")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}
