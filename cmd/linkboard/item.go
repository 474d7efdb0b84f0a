package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/linkboard/internal/board"
)

func addReminderFlags(cmd *cobra.Command) {
	mode := ModeFlag("")
	cmd.Flags().Var(&mode, "remind", "Reminder mode. Options: none, minutes, datetime")
	cmd.Flags().String("remind-in", "", "Remind after this many minutes")
	cmd.Flags().String("remind-at", "", "Remind at this date and time, such as 2025-03-01T09:30")
}

func addItemFlags(cmd *cobra.Command) *bool {
	itemType := ItemTypeFlag("")
	cmd.Flags().Var(&itemType, "type", "Item type. Options: link, sheet, chart, embed")
	cmd.Flags().String("title", "", "Item title")
	cmd.Flags().String("url", "", "Item URL")
	cmd.Flags().String("note", "", "Short note shown under the item")
	cmd.Flags().String("icon", "", "Emoji icon")
	cmd.Flags().String("icon-url", "", "Icon image URL")
	cmd.Flags().Int("h", 0, "Embed height in pixels")
	addReminderFlags(cmd)

	var fetch bool
	cmd.Flags().BoolVar(&fetch, "fetch", false, "Fill the title and icon from the page")
	return &fetch
}

func newItemCommand() *cobra.Command {
	itemCommand := &cobra.Command{
		Use:   "item",
		Short: "Manage links in a group",
	}

	addCmd := &cobra.Command{
		Use:   "add <group id>",
		Short: "Add a link to a group",
		Args:  cobra.ExactArgs(1),
	}
	addFetch := addItemFlags(addCmd)
	addCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, appOptions{fetch: *addFetch}, func(ctx context.Context, a *app) error {
			id, err := a.controller.AddItem(ctx, board.ID(args[0]))
			if err != nil {
				return fmt.Errorf("controller.AddItem > %w", err)
			}
			return printf(cmd, "added item %s\n", id)
		})
	}

	editCmd := &cobra.Command{
		Use:   "edit <item id>",
		Short: "Edit a link and its reminder",
		Args:  cobra.ExactArgs(1),
	}
	editFetch := addItemFlags(editCmd)
	editCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, appOptions{fetch: *editFetch}, func(ctx context.Context, a *app) error {
			if err := a.controller.EditItem(ctx, board.ID(args[0])); err != nil {
				return fmt.Errorf("controller.EditItem > %w", err)
			}
			return printf(cmd, "updated item %s\n", args[0])
		})
	}

	removeCmd := &cobra.Command{
		Use:   "rm <item id>",
		Short: "Remove a link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				if err := a.controller.RemoveItem(ctx, board.ID(args[0])); err != nil {
					return fmt.Errorf("controller.RemoveItem > %w", err)
				}
				return printf(cmd, "removed item %s\n", args[0])
			})
		},
	}

	moveCmd := &cobra.Command{
		Use:   "mv <item id> <group id> <index>",
		Short: "Move a link within or across groups",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[2])
			if err != nil {
				return err
			}
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				if err := a.controller.MoveItem(ctx, board.ID(args[0]), board.ID(args[1]), index); err != nil {
					return fmt.Errorf("controller.MoveItem > %w", err)
				}
				return printf(cmd, "moved item %s\n", args[0])
			})
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear-reminder <item id>",
		Short: "Remove the reminder of a link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				if err := a.controller.ClearItemReminder(ctx, board.ID(args[0])); err != nil {
					return fmt.Errorf("controller.ClearItemReminder > %w", err)
				}
				return printf(cmd, "cleared reminder of item %s\n", args[0])
			})
		},
	}

	itemCommand.AddCommand(addCmd, editCmd, removeCmd, moveCmd, clearCmd)
	return itemCommand
}
