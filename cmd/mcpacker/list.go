// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcpacker/mcpacker/internal/catalog"
	"github.com/mcpacker/mcpacker/internal/output"
	"github.com/mcpacker/mcpacker/internal/watch"
	"github.com/mcpacker/mcpacker/pkg/modpack"
)

type (
	// packRow is one line of `mcpacker list`.
	packRow struct {
		Name        string `json:"name" yaml:"name"`
		Description string `json:"description" yaml:"description"`
		Mods        int    `json:"mods" yaml:"mods"`
		Size        uint64 `json:"size" yaml:"size"`
		File        string `json:"file" yaml:"file"`
	}

	packList []packRow
)

// Headers implements output.TableRenderer.
func (l packList) Headers() []string {
	return []string{"Name", "Mods", "Size", "File"}
}

// Rows implements output.TableRenderer.
func (l packList) Rows() [][]string {
	rows := make([][]string, len(l))
	for i, p := range l {
		rows[i] = []string{p.Name, output.Count(p.Mods), output.Size(p.Size), p.File}
	}
	return rows
}

func newListCommand(app *App) *cobra.Command {
	var (
		format  string
		watchFS bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the packs in the catalog",
		Long: `List the packs in the packs directory. Only pack metadata is read.
Damaged pack files are skipped with a warning.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd.Context(), app, format, watchFS)
		},
	}

	cmd.Flags().StringVarP(&format, "output", "o", "", "output format: table, json or yaml (default is ui.output)")
	cmd.Flags().BoolVarP(&watchFS, "watch", "w", false, "keep running and print the list again when packs change")
	return cmd
}

func runList(ctx context.Context, app *App, format string, watchFS bool) error {
	p, err := app.printer(format)
	if err != nil {
		return err
	}

	cat := app.packCatalog()
	entries, err := cat.Packs(ctx)
	if err != nil {
		return wrapError(err, "scan packs", cat.Dir())
	}
	if err := printPackList(p, cat.Dir(), entries); err != nil {
		return err
	}
	if !watchFS {
		return nil
	}

	w, err := watch.New(watch.Config{
		Dir:      cat.Dir(),
		Patterns: []string{"*" + modpack.Ext},
		Logger:   app.logger,
		OnChange: func(ctx context.Context, changed []string) error {
			app.logger.Info("packs changed", "files", changed)
			entries, err := cat.Rescan(ctx)
			if err != nil {
				return err
			}
			p.Println()
			return printPackList(p, cat.Dir(), packsOnly(entries))
		},
	})
	if err != nil {
		return wrapError(err, "watch packs", cat.Dir())
	}
	app.logger.Info("watching for changes, press Ctrl+C to stop", "dir", cat.Dir())
	return w.Run(ctx)
}

func printPackList(p *output.Printer, dir string, entries []*catalog.Entry) error {
	list := make(packList, 0, len(entries))
	for _, e := range entries {
		list = append(list, packRow{
			Name:        e.DisplayName(),
			Description: e.Meta.Description,
			Mods:        len(e.Mods),
			Size:        e.PayloadSize,
			File:        e.Path,
		})
	}

	if len(list) == 0 && p.Format() == output.FormatTable {
		p.Println(SubtitleStyle.Render(fmt.Sprintf("No packs in %s", dir)))
		return nil
	}
	return p.Print(list)
}

func packsOnly(entries []*catalog.Entry) []*catalog.Entry {
	packs := entries[:0:0]
	for _, e := range entries {
		if e.Err == nil {
			packs = append(packs, e)
		}
	}
	return packs
}
