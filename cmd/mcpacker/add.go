// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcpacker/mcpacker/internal/output"
	"github.com/mcpacker/mcpacker/pkg/modpack"
)

func newAddCommand(app *App) *cobra.Command {
	var globs []string

	cmd := &cobra.Command{
		Use:   "add <pack> [mod files...]",
		Short: "Append mod files to an existing pack",
		Long: `Append mod files to an existing pack. The pack file is rewritten in
place; its name and description are kept.`,
		Example: `  mcpacker add Survival mods/C.jar
  mcpacker add packs/Tech.pck --glob 'new/*.jar'`,
		Args: usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd.Context(), app, args[0], args[1:], globs)
		},
	}

	cmd.Flags().StringArrayVarP(&globs, "glob", "g", nil, "add mod files matching a doublestar pattern (repeatable)")
	return cmd
}

func runAdd(ctx context.Context, app *App, ref string, sources, globs []string) error {
	matches, err := expandGlobs(globs)
	if err != nil {
		return err
	}
	sources = append(sources, matches...)
	if len(sources) == 0 {
		return usageError(errors.New("no mod files given"))
	}

	entry, err := app.findPack(ctx, ref)
	if err != nil {
		return err
	}

	pack, err := modpack.Load(entry.Path, modpack.ReadFull)
	if err != nil {
		return wrapError(err, "load pack", entry.Path)
	}

	existing := make(map[string]bool, pack.Len())
	for _, m := range pack.Mods() {
		existing[m.Name()] = true
	}
	before := pack.Len()
	if err := pack.AddMods(sources...); err != nil {
		return wrapError(err, "add mods", entry.Path)
	}
	for _, m := range pack.Mods()[before:] {
		if existing[m.Name()] {
			app.logger.Warn("pack already holds a mod with this name; the later one wins on deploy", "mod", m.Name())
		}
		app.logger.Debug("packed mod", "name", m.Name(), "size", m.Size())
	}

	if err := pack.SaveFile(entry.Path); err != nil {
		return wrapError(err, "save pack", entry.Path)
	}
	app.logger.Info("pack updated", "path", entry.Path, "added", pack.Len()-before)

	p := output.NewPrinter(app.stdout, output.FormatTable, app.color())
	p.Success(fmt.Sprintf("Added %s mods to %s (%s mods, %s)",
		output.Count(pack.Len()-before), entry.Path, output.Count(pack.Len()), output.Size(pack.PayloadSize())))
	return nil
}
