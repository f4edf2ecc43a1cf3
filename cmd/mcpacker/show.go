// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/mcpacker/mcpacker/internal/catalog"
	"github.com/mcpacker/mcpacker/internal/digest"
	"github.com/mcpacker/mcpacker/internal/output"
	"github.com/mcpacker/mcpacker/pkg/modpack"
)

type (
	// packDetails is the result of `mcpacker show`.
	packDetails struct {
		Name        string   `json:"name" yaml:"name"`
		Description string   `json:"description" yaml:"description"`
		File        string   `json:"file" yaml:"file"`
		Size        uint64   `json:"size" yaml:"size"`
		Mods        []modRow `json:"mods" yaml:"mods"`
	}

	modRow struct {
		Name   string `json:"name" yaml:"name"`
		Size   uint64 `json:"size" yaml:"size"`
		Digest string `json:"blake3,omitempty" yaml:"blake3,omitempty"`
	}
)

func newShowCommand(app *App) *cobra.Command {
	var (
		format string
		mode   string
		full   bool
	)

	cmd := &cobra.Command{
		Use:   "show <pack>",
		Short: "Show a pack's metadata and mods",
		Long: `Show a pack's name, description and mods. Only metadata is read
unless --mode full (or --full) is given, which also loads every payload and
prints its BLAKE3 digest.`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if full {
				mode = modpack.ReadFull.String()
			}
			readMode, err := modpack.ParseReadingMode(mode)
			if err != nil {
				return usageError(err)
			}
			return runShow(cmd.Context(), app, args[0], format, readMode == modpack.ReadFull)
		},
	}

	cmd.Flags().StringVarP(&format, "output", "o", "", "output format: table, json or yaml (default is ui.output)")
	cmd.Flags().StringVar(&mode, "mode", modpack.ReadMetaOnly.String(), "reading mode: meta-only or full")
	cmd.Flags().BoolVar(&full, "full", false, "shorthand for --mode full")
	return cmd
}

func runShow(ctx context.Context, app *App, ref, format string, full bool) error {
	p, err := app.printer(format)
	if err != nil {
		return err
	}

	entry, err := app.findPack(ctx, ref)
	if err != nil {
		return err
	}

	details := packDetails{
		Name:        entry.DisplayName(),
		Description: entry.Meta.Description,
		File:        entry.Path,
		Size:        entry.PayloadSize,
	}
	if full {
		details.Mods, err = digestMods(entry.Path)
		if err != nil {
			return err
		}
	} else {
		for _, m := range entry.Mods {
			details.Mods = append(details.Mods, modRow{Name: m.Name, Size: m.Size})
		}
	}

	if p.Format() != output.FormatTable {
		return p.Print(details)
	}
	return printDetails(app, p, details, full)
}

// digestMods loads the pack at path with payloads and hashes every mod.
func digestMods(path string) ([]modRow, error) {
	pack, err := modpack.Load(path, modpack.ReadFull)
	if err != nil {
		return nil, wrapError(err, "load pack", path)
	}
	rows := make([]modRow, 0, pack.Len())
	for _, m := range pack.Mods() {
		rows = append(rows, modRow{
			Name:   m.Name(),
			Size:   m.Size(),
			Digest: digest.Sum(m.Data()).String(),
		})
	}
	return rows, nil
}

func printDetails(app *App, p *output.Printer, d packDetails, full bool) error {
	p.Println(TitleStyle.Render(d.Name))
	if err := output.SimpleTable(p.Writer(), [][2]string{
		{"File", d.File},
		{"Mods", output.Count(len(d.Mods))},
		{"Size", output.SizeExact(d.Size)},
	}); err != nil {
		return err
	}

	if d.Description != "" {
		p.Println()
		p.Println(renderDescription(app, d.Description))
	}

	if len(d.Mods) == 0 {
		return nil
	}
	p.Println()

	headers := []string{"Mod", "Size"}
	if full {
		headers = append(headers, "BLAKE3")
	}
	table := output.NewTableData(headers...)
	for _, m := range d.Mods {
		row := []string{m.Name, output.Size(m.Size)}
		if full {
			row = append(row, m.Digest[:digestColumnWidth])
		}
		table.AddRow(row...)
	}
	return output.PrintTable(p.Writer(), table)
}

// digestColumnWidth is the number of hex digits shown in the table.
const digestColumnWidth = 16

// renderDescription renders a pack description as markdown when enabled.
// Rendering failures fall back to the raw text.
func renderDescription(app *App, description string) string {
	if !app.renderMarkdown() {
		return description
	}
	rendered, err := glamour.Render(description, glamourStyle(app.stdout))
	if err != nil {
		app.logger.Debug("markdown rendering failed", "err", err)
		return description
	}
	return strings.TrimRight(rendered, "\n")
}

// detailsOf is the browse detail view of a pack.
func detailsOf(app *App, e *catalog.Entry) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(e.DisplayName()))
	b.WriteString("\n")
	b.WriteString(SubtitleStyle.Render(e.Path))
	b.WriteString("\n")
	if e.Meta.Description != "" {
		b.WriteString(renderDescription(app, e.Meta.Description))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	table := output.NewTableData("Mod", "Size")
	for _, m := range e.Mods {
		table.AddRow(m.Name, output.Size(m.Size))
	}
	_ = output.PrintTable(&b, table)
	return b.String()
}
