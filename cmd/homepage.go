package cmd

import (
	"fmt"

	"github.com/hanzi-archive/curator/internal/panel"
	"github.com/spf13/cobra"
)

func newHomepageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "homepage",
		Short: "Manage homepage marketing copy",
	}

	cmd.AddCommand(newHomepageShowCmd())
	cmd.AddCommand(newHomepageSetCmd())

	return cmd
}

func newHomepageShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the homepage content grouped by entity",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.requireAuth(); err != nil {
				return err
			}

			homepage := panel.NewHomepage(a.client)
			if err := homepage.FetchAll(cmd.Context()); err != nil {
				return err
			}

			hero := homepage.Hero()
			fmt.Println("Hero")
			fmt.Printf("  title:    %s\n", hero.Title)
			fmt.Printf("  subtitle: %s\n", hero.Subtitle)
			fmt.Printf("  button:   %s\n", hero.ButtonText)

			fmt.Println("\nFeatures")
			for _, f := range homepage.Features() {
				fmt.Printf("  %d. %s — %s (icon=%s color=%s)\n", f.Index, f.Title, f.Description, f.Icon, f.Color)
			}

			fmt.Println("\nGallery")
			for _, g := range homepage.Gallery() {
				fmt.Printf("  %d. %s image=%s\n", g.Index, g.Title, g.Image)
			}
			return nil
		},
	}
}

func newHomepageSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Update one homepage content row",
		Example: `  curator homepage set hero_title "书法数据库"
  curator homepage set feature_2_title "OCR识别"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.requireAuth(); err != nil {
				return err
			}

			homepage := panel.NewHomepage(a.client)
			if err := homepage.FetchAll(cmd.Context()); err != nil {
				return err
			}
			if err := homepage.StartEdit(args[0]); err != nil {
				return err
			}
			if err := homepage.Save(cmd.Context(), args[1]); err != nil {
				return err
			}
			fmt.Printf("Updated %s\n", args[0])
			return nil
		},
	}
}
