package cmd

import (
	"fmt"
	"os"

	"github.com/hanzi-archive/curator/internal/models"
	"github.com/hanzi-archive/curator/internal/panel"
	"github.com/spf13/cobra"
)

func newAnnotationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "annotations",
		Aliases: []string{"ann"},
		Short:   "Manage character annotations",
	}

	cmd.AddCommand(newAnnotationsListCmd())
	cmd.AddCommand(newAnnotationsDeleteCmd())
	cmd.AddCommand(newAnnotationsCropCmd())

	return cmd
}

func newAnnotationsListCmd() *cobra.Command {
	var workID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List annotations, optionally for one work",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.requireAuth(); err != nil {
				return err
			}

			annotations := panel.NewAnnotations(a.client, panel.AlwaysConfirm)
			if err := annotations.FetchAll(cmd.Context()); err != nil {
				return err
			}

			var items []models.Annotation
			if workID != "" {
				items = annotations.ByWork(workID)
			} else {
				items = annotations.Items()
			}

			if len(items) == 0 {
				fmt.Println("No annotations found")
				return nil
			}
			for _, an := range items {
				fmt.Printf("%s  %s  work=%s box=(%.0f,%.0f %.0fx%.0f)\n",
					an.ID, an.Character, an.WorkID, an.X, an.Y, an.Width, an.Height)
			}
			fmt.Printf("\n%d annotations\n", len(items))
			return nil
		},
	}

	cmd.Flags().StringVarP(&workID, "work", "w", "", "Only annotations of this work")

	return cmd
}

func newAnnotationsDeleteCmd() *cobra.Command {
	var assumeYes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an annotation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.requireAuth(); err != nil {
				return err
			}

			annotations := panel.NewAnnotations(a.client, confirmer(assumeYes))
			if err := annotations.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted annotation %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func newAnnotationsCropCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "crop <annotation-id>",
		Short: "Download the cropped thumbnail of an annotation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.requireAuth(); err != nil {
				return err
			}

			annotations := panel.NewAnnotations(a.client, panel.AlwaysConfirm)
			if err := annotations.FetchAll(cmd.Context()); err != nil {
				return err
			}

			var target *models.Annotation
			for _, an := range annotations.Items() {
				if an.ID == args[0] {
					target = &an
					break
				}
			}
			if target == nil {
				return fmt.Errorf("annotation %s not found", args[0])
			}

			works := panel.NewWorks(a.client, panel.AlwaysConfirm, nil)
			if err := works.FetchAll(cmd.Context()); err != nil {
				return err
			}
			filename := ""
			for _, w := range works.Items() {
				if w.ID == target.WorkID {
					filename = w.Filename
					break
				}
			}
			if filename == "" {
				return fmt.Errorf("work %s for annotation %s not found", target.WorkID, target.ID)
			}

			data, err := a.client.CropImage(cmd.Context(), filename, target.X, target.Y, target.Width, target.Height)
			if err != nil {
				return err
			}

			if output == "" {
				output = fmt.Sprintf("annotation_%s.jpg", target.ID)
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			fmt.Printf("Wrote %s (%d bytes)\n", output, len(data))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default annotation_<id>.jpg)")

	return cmd
}
