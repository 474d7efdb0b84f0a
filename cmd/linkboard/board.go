package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the dashboard, or migrate the stored one to the current format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				doc, err := a.controller.Document()
				if err != nil {
					return fmt.Errorf("controller.Document > %w", err)
				}
				return printf(cmd, "dashboard %q is ready with %d groups\n", doc.Title, len(doc.Groups))
			})
		},
	}
}

func newShowCommand() *cobra.Command {
	var editing bool
	command := &cobra.Command{
		Use:   "show",
		Short: "Print the dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, appOptions{render: true, editing: editing}, func(ctx context.Context, a *app) error {
				return nil
			})
		},
	}
	command.Flags().BoolVar(&editing, "edit", false, "Show ids for editing")
	return command
}

func newTitleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "title <title>",
		Short: "Rename the dashboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				if err := a.controller.SetTitle(ctx, args[0]); err != nil {
					return fmt.Errorf("controller.SetTitle > %w", err)
				}
				doc, err := a.controller.Document()
				if err != nil {
					return fmt.Errorf("controller.Document > %w", err)
				}
				return printf(cmd, "title: %s\n", doc.Title)
			})
		},
	}
}

func newIconCommand() *cobra.Command {
	var imagePath string
	command := &cobra.Command{
		Use:   "icon [emoji]",
		Short: "Set the dashboard icon to an emoji or an image file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (imagePath == "") == (len(args) == 0) {
				return fmt.Errorf("give either an emoji or --image")
			}
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				if imagePath == "" {
					if err := a.controller.SetIcon(ctx, args[0]); err != nil {
						return fmt.Errorf("controller.SetIcon > %w", err)
					}
					return printf(cmd, "icon: %s\n", args[0])
				}

				data, err := os.ReadFile(imagePath)
				if err != nil {
					return fmt.Errorf("os.ReadFile(%s) > %w", imagePath, err)
				}
				if err := a.controller.SetIconImage(ctx, data); err != nil {
					return fmt.Errorf("controller.SetIconImage > %w", err)
				}
				return printf(cmd, "icon: %s\n", imagePath)
			})
		},
	}
	command.Flags().StringVar(&imagePath, "image", "", "Image file to use as the icon")
	return command
}
