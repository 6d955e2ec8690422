package cmd

import (
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "curator",
		Short: "Admin client for the calligraphy catalog backend",
		Long: `Curator is the administration tool for a calligraphy-image catalog.

It manages uploaded works, character annotations, users, work groups and
homepage content, and drives the OCR-assisted upload workflow, all over the
catalog backend's REST API.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			if verbose {
				slog.SetLogLoggerLevel(slog.LevelDebug)
			}
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	// Add subcommands
	cmd.AddCommand(newLoginCmd())
	cmd.AddCommand(newLogoutCmd())
	cmd.AddCommand(newWhoamiCmd())
	cmd.AddCommand(newWorksCmd())
	cmd.AddCommand(newAnnotationsCmd())
	cmd.AddCommand(newUsersCmd())
	cmd.AddCommand(newGroupsCmd())
	cmd.AddCommand(newHomepageCmd())
	cmd.AddCommand(newUploadCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newImportCmd())
	cmd.AddCommand(newServeCmd())

	return cmd
}
