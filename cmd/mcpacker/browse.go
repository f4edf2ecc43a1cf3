// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcpacker/mcpacker/internal/catalog"
	"github.com/mcpacker/mcpacker/internal/tui"
	"github.com/mcpacker/mcpacker/internal/watch"
	"github.com/mcpacker/mcpacker/pkg/modpack"
)

func newBrowseCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the catalog interactively",
		Long: `Browse the packs of the catalog in a terminal list.

  enter  show the selected pack
  d      deploy the selected pack to deploy_dir
  r      rescan the packs directory
  /      filter by name
  q      quit

The list refreshes by itself when pack files change.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBrowse(cmd.Context(), app)
		},
	}
}

func runBrowse(ctx context.Context, app *App) error {
	f, ok := app.stdout.(*os.File)
	if !ok || !tui.IsTerminal(f) {
		return usageError(errors.New("browse needs a terminal; use 'mcpacker list' instead"))
	}

	// Log lines would tear the alternate screen.
	if !app.verbose() {
		app.logger.SetOutput(io.Discard)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cat := app.packCatalog()
	changes := make(chan struct{}, 1)
	if w, err := watch.New(watch.Config{
		Dir:      cat.Dir(),
		Patterns: []string{"*" + modpack.Ext},
		Logger:   app.logger,
		OnChange: func(context.Context, []string) error {
			select {
			case changes <- struct{}{}:
			default:
			}
			return nil
		},
	}); err != nil {
		app.logger.Debug("not watching packs directory", "dir", cat.Dir(), "err", err)
	} else {
		go func() {
			if err := w.Run(ctx); err != nil {
				app.logger.Warn("packs watcher stopped", "err", err)
			}
		}()
	}

	deployDir := app.deployDir()
	return tui.Browse(ctx, tui.BrowseOptions{
		Title: "Packs in " + cat.Dir(),
		Load: func(ctx context.Context) ([]*catalog.Entry, error) {
			return cat.Rescan(ctx)
		},
		Deploy: func(_ context.Context, e *catalog.Entry) (string, error) {
			n, err := deployPack(app, e, deployDir, false)
			if err != nil {
				return "", err
			}
			return deploySummary(e, n, deployDir, false), nil
		},
		Describe: func(e *catalog.Entry) string { return detailsOf(app, e) },
		Changes:  changes,
	})
}
