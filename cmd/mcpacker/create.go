// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/mcpacker/mcpacker/internal/output"
	"github.com/mcpacker/mcpacker/internal/tui"
	"github.com/mcpacker/mcpacker/pkg/modpack"
)

type createOptions struct {
	description string
	out         string
	globs       []string
	interactive bool
}

func newCreateCommand(app *App) *cobra.Command {
	var opts createOptions

	cmd := &cobra.Command{
		Use:   "create [name] [mod files...]",
		Short: "Create a pack from mod files",
		Long: `Create a pack from mod files and save it as <name>.pck.

Mods are stored in the order given: explicit files first, then the matches
of each --glob pattern in lexical order. Without a name, and when stdin is
a terminal, a form asks for the name and description.`,
		Example: `  mcpacker create Survival mods/A.jar mods/B.jar
  mcpacker create Tech --glob 'downloads/**/*.jar' -d "Tech mods"
  mcpacker create -i`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd.Context(), app, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.description, "description", "d", "", "pack description (markdown)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "directory to save the pack into (default is packs_dir)")
	cmd.Flags().StringArrayVarP(&opts.globs, "glob", "g", nil, "add mod files matching a doublestar pattern (repeatable)")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "ask for the name and description")

	return cmd
}

func runCreate(ctx context.Context, app *App, opts createOptions, args []string) error {
	info := tui.PackInfo{Description: opts.description}
	var sources []string
	if len(args) > 0 {
		info.Name = args[0]
		sources = args[1:]
	}

	if opts.interactive || (info.Name == "" && app.interactiveInput()) {
		if err := tui.PromptPackInfo(ctx, app.tuiConfig(), &info); err != nil {
			return err
		}
	}
	if info.Name == "" {
		return usageError(errors.New("a pack name is required (pass it as the first argument or use --interactive)"))
	}
	if err := tui.ValidatePackName(info.Name); err != nil {
		return wrapError(err, "create pack", info.Name)
	}

	matches, err := expandGlobs(opts.globs)
	if err != nil {
		return err
	}
	sources = append(sources, matches...)

	outDir := opts.out
	if outDir == "" {
		outDir = app.packsDir()
		// The packs directory belongs to mcpacker; an explicit --out must exist.
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return wrapError(&modpack.Error{Op: "create packs directory", Path: outDir, Kind: modpack.ErrDestinationUnwritable, Err: err}, "create pack", info.Name)
		}
	}

	pack, err := modpack.NewFromSources(info.Name, info.Description, sources...)
	if err != nil {
		return wrapError(err, "create pack", info.Name)
	}
	for _, m := range pack.Mods() {
		app.logger.Debug("packed mod", "name", m.Name(), "size", m.Size())
	}

	path, err := pack.Save(outDir)
	if err != nil {
		return wrapError(err, "save pack", info.Name)
	}
	app.logger.Info("pack saved", "path", path, "mods", pack.Len())

	p := output.NewPrinter(app.stdout, output.FormatTable, app.color())
	p.Success(fmt.Sprintf("Created %s (%s mods, %s)", path, output.Count(pack.Len()), output.Size(pack.PayloadSize())))
	return nil
}

// expandGlobs returns the regular files matching each pattern, pattern by
// pattern, each group sorted. A pattern without matches is an error.
func expandGlobs(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, usageError(fmt.Errorf("invalid glob %q: %w", pattern, doublestar.ErrBadPattern))
		}
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, wrapError(err, "expand glob", pattern)
		}
		if len(matches) == 0 {
			return nil, wrapError(
				&modpack.Error{Op: "expand glob", Path: pattern, Kind: modpack.ErrSourceNotFound, Err: errors.New("no files match")},
				"create pack", pattern)
		}
		slices.Sort(matches)
		files = append(files, matches...)
	}
	return files, nil
}
