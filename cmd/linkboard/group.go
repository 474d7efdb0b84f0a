package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/linkboard/internal/board"
)

func addDimensionFlags(cmd *cobra.Command) {
	cmd.Flags().Var(newWidthFlag(), "width", "Width in pixels or sm, md, lg")
	cmd.Flags().Var(newHeightFlag(), "height", "Height in pixels or sm, md, lg")
}

func parseIndex(arg string) (int, error) {
	index, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid index %q: %w", arg, err)
	}
	return index, nil
}

func newGroupCommand() *cobra.Command {
	groupCommand := &cobra.Command{
		Use:   "group",
		Short: "Manage link groups",
	}

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a link group",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				id, err := a.controller.AddGroup(ctx)
				if err != nil {
					return fmt.Errorf("controller.AddGroup > %w", err)
				}
				return printf(cmd, "added group %s\n", id)
			})
		},
	}
	addCmd.Flags().String("name", "", "Group name")
	addCmd.Flags().String("color", "", "Accent color such as #3366ff")
	addDimensionFlags(addCmd)

	editCmd := &cobra.Command{
		Use:   "edit <group id>",
		Short: "Edit a link group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				if err := a.controller.EditGroup(ctx, board.ID(args[0])); err != nil {
					return fmt.Errorf("controller.EditGroup > %w", err)
				}
				return printf(cmd, "updated group %s\n", args[0])
			})
		},
	}
	editCmd.Flags().String("name", "", "Group name")
	editCmd.Flags().String("color", "", "Accent color such as #3366ff")
	addDimensionFlags(editCmd)

	var yes bool
	removeCmd := &cobra.Command{
		Use:   "rm <group id>",
		Short: "Remove a group, note or chart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, appOptions{yes: yes}, func(ctx context.Context, a *app) error {
				removed, err := a.controller.RemoveGroup(ctx, board.ID(args[0]))
				if err != nil {
					return fmt.Errorf("controller.RemoveGroup > %w", err)
				}
				if !removed {
					return printf(cmd, "kept group %s\n", args[0])
				}
				return printf(cmd, "removed group %s\n", args[0])
			})
		},
	}
	removeCmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	moveCmd := &cobra.Command{
		Use:   "mv <group id> <index>",
		Short: "Move a group to a position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[1])
			if err != nil {
				return err
			}
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				if err := a.controller.MoveGroup(ctx, board.ID(args[0]), index); err != nil {
					return fmt.Errorf("controller.MoveGroup > %w", err)
				}
				return printf(cmd, "moved group %s\n", args[0])
			})
		},
	}

	width, height := newWidthFlag(), newHeightFlag()
	resizeCmd := &cobra.Command{
		Use:   "resize <group id>",
		Short: "Resize a group, note or chart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				if err := a.controller.ResizeGroup(ctx, board.ID(args[0]), width.Pixels(), height.Pixels()); err != nil {
					return fmt.Errorf("controller.ResizeGroup > %w", err)
				}
				return printf(cmd, "resized group %s to %dx%d\n", args[0], width.Pixels(), height.Pixels())
			})
		},
	}
	resizeCmd.Flags().Var(width, "width", "Width in pixels or sm, md, lg")
	resizeCmd.Flags().Var(height, "height", "Height in pixels or sm, md, lg")
	_ = resizeCmd.MarkFlagRequired("width")
	_ = resizeCmd.MarkFlagRequired("height")

	groupCommand.AddCommand(addCmd, editCmd, removeCmd, moveCmd, resizeCmd)
	return groupCommand
}

func addNoteFlags(cmd *cobra.Command) {
	cmd.Flags().String("title", "", "Note title")
	cmd.Flags().String("text", "", "Note text")
	cmd.Flags().String("color", "", "Background color such as #fff8b3")
	cmd.Flags().Int("font-size", 0, "Font size in pixels")
	cmd.Flags().Int("padding", 0, "Padding in pixels")
	addDimensionFlags(cmd)
}

func newNoteCommand() *cobra.Command {
	noteCommand := &cobra.Command{
		Use:   "note",
		Short: "Manage sticky notes",
	}

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a sticky note",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				id, err := a.controller.AddNote(ctx)
				if err != nil {
					return fmt.Errorf("controller.AddNote > %w", err)
				}
				return printf(cmd, "added note %s\n", id)
			})
		},
	}
	addNoteFlags(addCmd)

	editCmd := &cobra.Command{
		Use:   "edit <note id>",
		Short: "Edit a sticky note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				if err := a.controller.EditNote(ctx, board.ID(args[0])); err != nil {
					return fmt.Errorf("controller.EditNote > %w", err)
				}
				return printf(cmd, "updated note %s\n", args[0])
			})
		},
	}
	addNoteFlags(editCmd)

	noteCommand.AddCommand(addCmd, editCmd)
	return noteCommand
}

func addChartFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", "", "Chart name")
	cmd.Flags().String("url", "", "Chart URL")
	cmd.Flags().Int("h", 0, "Chart frame height in pixels")
	addDimensionFlags(cmd)
}

func newChartCommand() *cobra.Command {
	chartCommand := &cobra.Command{
		Use:   "chart",
		Short: "Manage embedded charts",
	}

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a chart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				id, err := a.controller.AddChart(ctx)
				if err != nil {
					return fmt.Errorf("controller.AddChart > %w", err)
				}
				return printf(cmd, "added chart %s\n", id)
			})
		},
	}
	addChartFlags(addCmd)

	editCmd := &cobra.Command{
		Use:   "edit <chart id>",
		Short: "Edit a chart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				if err := a.controller.EditChart(ctx, board.ID(args[0])); err != nil {
					return fmt.Errorf("controller.EditChart > %w", err)
				}
				return printf(cmd, "updated chart %s\n", args[0])
			})
		},
	}
	addChartFlags(editCmd)

	chartCommand.AddCommand(addCmd, editCmd)
	return chartCommand
}
