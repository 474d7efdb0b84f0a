package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/linkboard/internal/board"
	"github.com/at-ishikawa/linkboard/internal/clock"
	"github.com/at-ishikawa/linkboard/internal/dashboard"
)

func newReminderCommand() *cobra.Command {
	reminderCommand := &cobra.Command{
		Use:   "reminder",
		Short: "Manage reminders",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List reminders by due time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				refs, err := a.controller.Reminders()
				if err != nil {
					return fmt.Errorf("controller.Reminders > %w", err)
				}
				if len(refs) == 0 {
					return printf(cmd, "no reminders\n")
				}
				for _, ref := range refs {
					due := clock.FromMillis(ref.At).In(clock.Location).Format("2006-01-02 15:04")
					if err := printf(cmd, "%s  %s  %s\n", due, ref.Title, ref.Key); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a reminder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				if err := a.controller.OpenReminderForm(""); err != nil {
					return fmt.Errorf("controller.OpenReminderForm > %w", err)
				}
				values := *a.controller.FormState().Values
				a.dialogs.setString("title", &values.Title)
				a.dialogs.setReminder(&values.Mode, &values.Minutes, &values.At)
				if err := a.controller.SubmitReminderForm(ctx, values); err != nil {
					return fmt.Errorf("controller.SubmitReminderForm > %w", err)
				}
				return printf(cmd, "added reminder %q\n", values.Title)
			})
		},
	}
	addCmd.Flags().String("title", "", "Reminder title")
	addReminderFlags(addCmd)

	editCmd := &cobra.Command{
		Use:   "edit <reminder id>",
		Short: "Edit a reminder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				if err := a.controller.EditReminder(ctx, board.ID(args[0])); err != nil {
					return fmt.Errorf("controller.EditReminder > %w", err)
				}
				return printf(cmd, "updated reminder %s\n", args[0])
			})
		},
	}
	editCmd.Flags().String("title", "", "Reminder title")
	addReminderFlags(editCmd)

	quickCmd := &cobra.Command{
		Use:   "quick <minutes>",
		Short: "Start a timer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			minutes, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid minutes %q: %w", args[0], err)
			}
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				id, err := a.controller.QuickTimer(ctx, minutes)
				if err != nil {
					return fmt.Errorf("controller.QuickTimer > %w", err)
				}
				return printf(cmd, "added timer %s\n", id)
			})
		},
	}

	var snoozeMinutes int
	snoozeCmd := &cobra.Command{
		Use:   "snooze <reminder key>",
		Short: "Push a reminder back",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				if err := a.controller.SnoozeReminder(ctx, args[0], snoozeMinutes); err != nil {
					return fmt.Errorf("controller.SnoozeReminder > %w", err)
				}
				return printf(cmd, "snoozed %s for %d minutes\n", args[0], snoozeMinutes)
			})
		},
	}
	snoozeCmd.Flags().IntVar(&snoozeMinutes, "minutes", 5, "Minutes to snooze")

	dismissCmd := &cobra.Command{
		Use:   "dismiss <reminder key>",
		Short: "Dismiss a reminder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				if err := a.controller.DismissReminder(ctx, args[0]); err != nil {
					return fmt.Errorf("controller.DismissReminder > %w", err)
				}
				return printf(cmd, "dismissed %s\n", args[0])
			})
		},
	}

	reminderCommand.AddCommand(listCmd, addCmd, editCmd, quickCmd, snoozeCmd, dismissCmd)
	return reminderCommand
}

func newCardCommand() *cobra.Command {
	cardCommand := &cobra.Command{
		Use:   "card",
		Short: "Manage the reminders card",
	}

	enableCmd := &cobra.Command{
		Use:   "enable",
		Short: "Show the reminders card",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				if err := a.controller.EnableRemindersCard(ctx); err != nil {
					return fmt.Errorf("controller.EnableRemindersCard > %w", err)
				}
				return printf(cmd, "reminders card enabled\n")
			})
		},
	}

	disableCmd := &cobra.Command{
		Use:   "disable",
		Short: "Hide the reminders card",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				if err := a.controller.RemoveRemindersCard(ctx); err != nil {
					return fmt.Errorf("controller.RemoveRemindersCard > %w", err)
				}
				return printf(cmd, "reminders card disabled\n")
			})
		},
	}

	width, height := newWidthFlag(), newHeightFlag()
	updateCmd := &cobra.Command{
		Use:   "update",
		Short: "Change the reminders card",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch dashboard.CardPatch
			flags := cmd.Flags()
			if flags.Changed("title") {
				title, _ := flags.GetString("title")
				patch.Title = &title
			}
			if flags.Changed("width") {
				w := width.Pixels()
				patch.Width = &w
			}
			if flags.Changed("height") {
				h := height.Pixels()
				patch.Height = &h
			}
			if flags.Changed("show-quick") {
				showQuick, _ := flags.GetBool("show-quick")
				patch.ShowQuick = &showQuick
			}
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				if err := a.controller.UpdateRemindersCard(ctx, patch); err != nil {
					return fmt.Errorf("controller.UpdateRemindersCard > %w", err)
				}
				return printf(cmd, "reminders card updated\n")
			})
		},
	}
	updateCmd.Flags().String("title", "", "Card title")
	updateCmd.Flags().Var(width, "width", "Width in pixels or sm, md, lg")
	updateCmd.Flags().Var(height, "height", "Height in pixels or sm, md, lg")
	updateCmd.Flags().Bool("show-quick", false, "Show the quick timer buttons")

	moveCmd := &cobra.Command{
		Use:   "mv <index>",
		Short: "Move the reminders card among the groups",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				if err := a.controller.MoveRemindersCard(ctx, index); err != nil {
					return fmt.Errorf("controller.MoveRemindersCard > %w", err)
				}
				return printf(cmd, "moved reminders card to %d\n", index)
			})
		},
	}

	cardCommand.AddCommand(enableCmd, disableCmd, updateCmd, moveCmd)
	return cardCommand
}
