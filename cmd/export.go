package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/hanzi-archive/curator/internal/panel"
	"github.com/hanzi-archive/curator/internal/snapshot"
)

func newExportCmd() *cobra.Command {
	var output string
	var parquetDir string
	var printURL bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the backend database",
		Long: `Downloads the full database export. With --parquet the catalog is also
fetched through the regular list endpoints and written as parquet files
for local analysis.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.requireAuth(); err != nil {
				return err
			}

			if printURL {
				fmt.Println(a.client.ExportURL())
				return nil
			}

			if output == "" {
				output = fmt.Sprintf("curator_export_%s.db", snapshot.Timestamp(time.Now()))
			}
			out, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", output, err)
			}
			defer out.Close()

			if err := a.client.Export(cmd.Context(), out); err != nil {
				return err
			}
			fmt.Printf("Export written to %s\n", output)

			if parquetDir != "" {
				works := panel.NewWorks(a.client, panel.AlwaysConfirm, nil)
				if err := works.FetchAll(cmd.Context()); err != nil {
					return err
				}
				annotations := panel.NewAnnotations(a.client, panel.AlwaysConfirm)
				if err := annotations.FetchAll(cmd.Context()); err != nil {
					return err
				}
				if err := snapshot.WriteCatalog(parquetDir, works.Items(), annotations.Items()); err != nil {
					return err
				}
				fmt.Printf("Catalog snapshot written to %s\n", parquetDir)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default curator_export_<timestamp>.db)")
	cmd.Flags().StringVar(&parquetDir, "parquet", "", "Also write a parquet catalog snapshot to this directory")
	cmd.Flags().BoolVar(&printURL, "url", false, "Print the direct-download URL instead of downloading")

	return cmd
}
