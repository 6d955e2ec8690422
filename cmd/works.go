package cmd

import (
	"fmt"
	"strings"

	"github.com/hanzi-archive/curator/internal/panel"
	"github.com/spf13/cobra"
)

func newWorksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "works",
		Short: "Manage uploaded artworks",
	}

	cmd.AddCommand(newWorksListCmd())
	cmd.AddCommand(newWorksDeleteCmd())

	return cmd
}

func newWorksListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all works",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.requireAuth(); err != nil {
				return err
			}

			works := panel.NewWorks(a.client, panel.AlwaysConfirm, nil)
			if err := works.FetchAll(cmd.Context()); err != nil {
				return err
			}

			items := works.Items()
			if len(items) == 0 {
				fmt.Println("No works found")
				return nil
			}
			for _, w := range items {
				tags := ""
				if len(w.Tags) > 0 {
					tags = " [" + strings.Join(w.Tags, ", ") + "]"
				}
				fmt.Printf("%s  %s  author=%s group=%s%s\n", w.ID, w.OriginalFilename, w.Author, w.GroupName, tags)
			}
			fmt.Printf("\n%d works\n", len(items))
			return nil
		},
	}
}

func newWorksDeleteCmd() *cobra.Command {
	var assumeYes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a work and its annotations",
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
			// best effort: a populated annotation panel lets the cascade report
			_ = annotations.FetchAll(cmd.Context())

			works := panel.NewWorks(a.client, confirmer(assumeYes), annotations)
			if err := works.FetchAll(cmd.Context()); err != nil {
				return err
			}
			if err := works.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted work %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}
