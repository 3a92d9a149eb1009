package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/favorites/internal/app"
	"github.com/MrSnakeDoc/favorites/internal/domain"
)

func groupCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "group",
		Aliases: []string{"groups"},
		Short:   "Manage favorite groups",
	}

	cmd.AddCommand(
		groupLsCmd(flags),
		groupCreateCmd(flags),
		groupRenameCmd(flags),
		groupRmCmd(flags),
		groupCollapseCmd(flags, "collapse", true),
		groupCollapseCmd(flags, "expand", false),
		groupOrderCmd(flags),
	)
	return cmd
}

func groupLsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List groups in display order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.withApp(func(a *app.App) error {
				renderGroups(cmd.OutOrStdout(), domain.SortGroups(a.Registry().Groups()), a.Registry().All())
				return nil
			})
		},
	}
}

func groupCreateCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "create [name]",
		Short: "Create a group, named after the current time when no name is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return flags.withApp(func(a *app.App) error {
				fmt.Fprintln(cmd.OutOrStdout(), a.Commands().CreateGroup(name))
				return nil
			})
		},
	}
}

func groupRenameCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <group> <name>",
		Short: "Rename a group",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.withGroup(args[0], func(a *app.App, id string) error {
				if !a.Registry().RenameGroup(id, args[1]) {
					return fmt.Errorf("cannot rename group %s to %q", args[0], args[1])
				}
				return nil
			})
		},
	}
}

func groupRmCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <group>",
		Short: "Delete a group; its favorites become ungrouped",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.withGroup(args[0], func(a *app.App, id string) error {
				a.Registry().DeleteGroup(id)
				return nil
			})
		},
	}
}

func groupCollapseCmd(flags *globalFlags, use string, collapsed bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <group>",
		Short: fmt.Sprintf("Mark a group as %sed in the panel", use),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.withGroup(args[0], func(a *app.App, id string) error {
				a.Registry().SetGroupCollapsed(id, collapsed)
				return nil
			})
		},
	}
}

func groupOrderCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "order <group> <n>",
		Short: "Set the position of a group, lower first",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid sort order %q: %w", args[1], err)
			}
			return flags.withGroup(args[0], func(a *app.App, id string) error {
				a.Registry().SetGroupSortOrder(id, n)
				return nil
			})
		},
	}
}

// withGroup opens the app and resolves ref to a group id.
func (f *globalFlags) withGroup(ref string, fn func(a *app.App, id string) error) error {
	return f.withApp(func(a *app.App) error {
		id, err := resolveGroup(a.Registry().Groups(), ref)
		if err != nil {
			return err
		}
		return fn(a, id)
	})
}

// resolveGroup matches ref against group ids first, then names.
func resolveGroup(groups []domain.Group, ref string) (string, error) {
	for _, g := range groups {
		if g.ID == ref {
			return g.ID, nil
		}
	}

	var match []domain.Group
	for _, g := range groups {
		if g.Name == ref {
			match = append(match, g)
		}
	}
	switch len(match) {
	case 0:
		return "", fmt.Errorf("no group named %q", ref)
	case 1:
		return match[0].ID, nil
	default:
		return "", fmt.Errorf("%d groups are named %q, use the group id", len(match), ref)
	}
}
