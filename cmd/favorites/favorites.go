package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/favorites/internal/app"
	"github.com/MrSnakeDoc/favorites/internal/panel"
)

func addCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "add <path>...",
		Short: "Add assets to favorites",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.withApp(func(a *app.App) error {
				n := a.Commands().AddSelection(args)
				fmt.Fprintf(cmd.OutOrStdout(), "added %d of %d\n", n, len(args))
				return nil
			})
		},
	}
}

func rmCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id|path>...",
		Aliases: []string{"remove"},
		Short:   "Remove favorites by id or asset path",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.withApp(func(a *app.App) error {
				n := a.Commands().RemoveSelection(args)
				fmt.Fprintf(cmd.OutOrStdout(), "removed %d of %d\n", n, len(args))
				return nil
			})
		},
	}
}

func lsCmd(flags *globalFlags) *cobra.Command {
	var (
		sortKey string
		order   string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "Show the favorites panel",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := panel.ParseSortState(sortKey, order)
			if err != nil {
				return err
			}
			return flags.withApp(func(a *app.App) error {
				view := a.Panel().Build(state)
				if asJSON {
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					return enc.Encode(view)
				}
				renderPanel(cmd.OutOrStdout(), view, time.Now())
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&sortKey, "sort", "name", "sort by name, type, added or modified")
	cmd.Flags().StringVar(&order, "order", "asc", "asc or desc")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the panel as JSON")
	return cmd
}

func openCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "open <id>",
		Short: "Mark a favorite as used and print its current path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.withApp(func(a *app.App) error {
				path, ok := a.Registry().Open(args[0])
				if !ok {
					return fmt.Errorf("no favorite with id %s", args[0])
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			})
		},
	}
}

func mvCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "mv <id> [group]",
		Short: "Move a favorite into a group, or out of any group when none is given",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.withApp(func(a *app.App) error {
				groupID := ""
				if len(args) == 2 {
					id, err := resolveGroup(a.Registry().Groups(), args[1])
					if err != nil {
						return err
					}
					groupID = id
				}
				if !a.Registry().MoveToGroup(args[0], groupID) {
					return fmt.Errorf("no favorite with id %s", args[0])
				}
				return nil
			})
		},
	}
}

func clearCmd(flags *globalFlags) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every favorite, keeping groups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to clear all favorites without --yes")
			}
			return flags.withApp(func(a *app.App) error {
				n := a.Registry().Count()
				a.Registry().ClearAll()
				fmt.Fprintf(cmd.OutOrStdout(), "cleared %d favorite(s)\n", n)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm clearing all favorites")
	return cmd
}

func cleanupCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Drop favorites whose asset no longer exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.withApp(func(a *app.App) error {
				fmt.Fprintf(cmd.OutOrStdout(), "removed %d stale favorite(s)\n", a.Registry().CleanupInvalid())
				return nil
			})
		},
	}
}
