package cmd

import (
	"fmt"
	"strings"

	"github.com/hanzi-archive/curator/internal/api"
	"github.com/hanzi-archive/curator/internal/panel"
	"github.com/spf13/cobra"
)

func newGroupsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "groups",
		Short: "Manage work groups",
	}

	cmd.AddCommand(newGroupsListCmd())
	cmd.AddCommand(newGroupsCreateCmd())
	cmd.AddCommand(newGroupsUpdateCmd())
	cmd.AddCommand(newGroupsDeleteCmd())

	return cmd
}

func newGroupsListCmd() *cobra.Command {
	var flat bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List groups as a tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.requireAuth(); err != nil {
				return err
			}

			groups := panel.NewGroups(a.client, panel.AlwaysConfirm)
			if err := groups.FetchAll(cmd.Context()); err != nil {
				return err
			}

			if flat {
				for _, g := range groups.Items() {
					fmt.Printf("%s  %s  parent=%s works=%d\n", g.ID, g.Name, g.ParentID, g.WorkCount)
				}
				return nil
			}

			for _, root := range groups.Tree() {
				printGroupNode(root, 0)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&flat, "flat", false, "Print the flat list instead of the tree")

	return cmd
}

func printGroupNode(node *panel.GroupNode, depth int) {
	fmt.Printf("%s%s (%s, %d works)\n", strings.Repeat("  ", depth), node.Name, node.ID, node.WorkCount)
	for _, child := range node.Children {
		printGroupNode(child, depth+1)
	}
}

func newGroupsCreateCmd() *cobra.Command {
	var description string
	var parentID string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.requireAuth(); err != nil {
				return err
			}

			groups := panel.NewGroups(a.client, panel.AlwaysConfirm)
			if err := groups.FetchAll(cmd.Context()); err != nil {
				return err
			}

			group, err := groups.Create(cmd.Context(), api.GroupRequest{
				Name:        args[0],
				Description: description,
				ParentID:    parentID,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Created group %s (id %s)\n", group.Name, group.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Group description")
	cmd.Flags().StringVar(&parentID, "parent", "", "Parent group id")

	return cmd
}

func newGroupsUpdateCmd() *cobra.Command {
	var name string
	var description string
	var parentID string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.requireAuth(); err != nil {
				return err
			}

			groups := panel.NewGroups(a.client, panel.AlwaysConfirm)
			if err := groups.FetchAll(cmd.Context()); err != nil {
				return err
			}

			// carry over unchanged fields from the current row
			current := ""
			for _, g := range groups.Items() {
				if g.ID == args[0] {
					if name == "" {
						name = g.Name
					}
					if description == "" {
						description = g.Description
					}
					if !cmd.Flags().Changed("parent") {
						parentID = g.ParentID
					}
					current = g.ID
					break
				}
			}
			if current == "" {
				return fmt.Errorf("group %s not found", args[0])
			}

			group, err := groups.Update(cmd.Context(), args[0], api.GroupRequest{
				Name:        name,
				Description: description,
				ParentID:    parentID,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Updated group %s\n", group.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "New name")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description")
	cmd.Flags().StringVar(&parentID, "parent", "", "New parent group id (empty makes it a root)")

	return cmd
}

func newGroupsDeleteCmd() *cobra.Command {
	var assumeYes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.requireAuth(); err != nil {
				return err
			}

			groups := panel.NewGroups(a.client, confirmer(assumeYes))
			if err := groups.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted group %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}
