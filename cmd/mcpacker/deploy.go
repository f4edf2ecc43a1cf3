// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcpacker/mcpacker/internal/catalog"
	"github.com/mcpacker/mcpacker/internal/digest"
	"github.com/mcpacker/mcpacker/internal/issue"
	"github.com/mcpacker/mcpacker/internal/output"
	"github.com/mcpacker/mcpacker/pkg/modpack"
)

func newDeployCommand(app *App) *cobra.Command {
	var (
		to     string
		verify bool
	)

	cmd := &cobra.Command{
		Use:   "deploy <pack>",
		Short: "Extract a pack's mods into a directory",
		Long: `Extract every mod of a pack into a directory, in pack order. Existing
files with the same names are overwritten. The directory is created if its
parent exists.`,
		Example: `  mcpacker deploy Survival
  mcpacker deploy packs/Tech.pck --to ~/.minecraft/mods --verify`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeploy(cmd.Context(), app, args[0], to, verify)
		},
	}

	cmd.Flags().StringVarP(&to, "to", "t", "", "target directory (default is deploy_dir)")
	cmd.Flags().BoolVar(&verify, "verify", false, "re-read every extracted file and compare BLAKE3 digests")
	return cmd
}

func runDeploy(ctx context.Context, app *App, ref, to string, verify bool) error {
	entry, err := app.findPack(ctx, ref)
	if err != nil {
		return err
	}
	if to == "" {
		to = app.deployDir()
	}

	n, err := deployPack(app, entry, to, verify)
	if err != nil {
		return err
	}

	p := output.NewPrinter(app.stdout, output.FormatTable, app.color())
	p.Success(deploySummary(entry, n, to, verify))
	return nil
}

// deployPack extracts the pack of entry into dir and returns the number of
// extracted mods.
func deployPack(app *App, entry *catalog.Entry, dir string, verify bool) (int, error) {
	pack, err := modpack.Load(entry.Path, modpack.ReadFull)
	if err != nil {
		return 0, wrapError(err, "load pack", entry.Path)
	}

	var (
		extracted int
		verifyErr error
	)
	err = pack.Deploy(dir, modpack.OnExtract(func(m *modpack.Mod, path string) {
		extracted++
		app.logger.Debug("extracted mod", "name", m.Name(), "path", path, "size", m.Size())
		if verify && verifyErr == nil {
			verifyErr = digest.VerifyFile(path, digest.Sum(m.Data()))
		}
	}))
	if err != nil {
		return extracted, wrapError(err, "deploy pack", entry.DisplayName())
	}
	if verifyErr != nil {
		return extracted, issue.NewErrorContext().
			WithOperation("verify deployed mods").
			WithResource(dir).
			WithSuggestion("Deploy again; if the mismatch persists, check the disk").
			WithIssue(issue.DeployVerifyFailedId).
			Wrap(verifyErr).
			BuildError()
	}

	app.logger.Info("pack deployed", "pack", entry.DisplayName(), "dir", dir, "mods", extracted)
	return extracted, nil
}

func deploySummary(entry *catalog.Entry, n int, dir string, verified bool) string {
	msg := fmt.Sprintf("Deployed %s mods from %s to %s", output.Count(n), entry.DisplayName(), dir)
	if verified {
		msg += " (verified)"
	}
	return msg
}
