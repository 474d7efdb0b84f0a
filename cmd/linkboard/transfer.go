package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/linkboard/internal/render"
)

func newExportCommand() *cobra.Command {
	format := ExportJSON
	var output string
	command := &cobra.Command{
		Use:   "export",
		Short: "Export the dashboard",
		Long: "Export the dashboard as JSON (importable), YAML, Markdown or PDF.\n" +
			"Without --output the export is written to stdout. When --output is a directory the file is named after the dashboard.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				path := output
				if info, err := os.Stat(output); err == nil && info.IsDir() {
					name := strings.TrimSuffix(a.controller.ExportFileName(), ".json") + "." + string(format)
					path = filepath.Join(output, name)
				}
				if format == ExportPDF {
					if path == "" {
						return fmt.Errorf("--output is required for pdf exports")
					}
					doc, err := a.controller.Document()
					if err != nil {
						return fmt.Errorf("controller.Document > %w", err)
					}
					written, err := render.WritePDF(doc, path)
					if err != nil {
						return fmt.Errorf("render.WritePDF > %w", err)
					}
					return printf(cmd, "exported %s\n", written)
				}

				data, err := exportData(a, format)
				if err != nil {
					return err
				}
				if path == "" {
					if _, err := cmd.OutOrStdout().Write(data); err != nil {
						return fmt.Errorf("Write > %w", err)
					}
					return nil
				}
				if err := os.WriteFile(path, data, 0644); err != nil {
					return fmt.Errorf("os.WriteFile(%s) > %w", path, err)
				}
				return printf(cmd, "exported %s\n", path)
			})
		},
	}
	command.Flags().Var(&format, "format", "Export format. Options: json, yaml, md, pdf")
	command.Flags().StringVarP(&output, "output", "o", "", "Output file or directory")
	return command
}

func exportData(a *app, format ExportFormat) ([]byte, error) {
	if format == ExportJSON {
		var buf bytes.Buffer
		if err := a.controller.Export(&buf); err != nil {
			return nil, fmt.Errorf("controller.Export > %w", err)
		}
		return buf.Bytes(), nil
	}

	doc, err := a.controller.Document()
	if err != nil {
		return nil, fmt.Errorf("controller.Document > %w", err)
	}
	if format == ExportMarkdown {
		return render.Markdown(doc), nil
	}
	data, err := render.YAML(doc)
	if err != nil {
		return nil, fmt.Errorf("render.YAML > %w", err)
	}
	return data, nil
}

func newImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the dashboard with an exported JSON file. Use - for stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				file, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("os.Open(%s) > %w", args[0], err)
				}
				defer func() {
					_ = file.Close()
				}()
				r = file
			}
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				if err := a.controller.Import(ctx, r); err != nil {
					return fmt.Errorf("controller.Import > %w", err)
				}
				doc, err := a.controller.Document()
				if err != nil {
					return fmt.Errorf("controller.Document > %w", err)
				}
				return printf(cmd, "imported %q with %d groups\n", doc.Title, len(doc.Groups))
			})
		},
	}
}
