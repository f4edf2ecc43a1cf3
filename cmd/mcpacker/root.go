// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/mcpacker/mcpacker/pkg/types"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the mcpacker command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "mcpacker",
		Short: "Pack, inspect and deploy Minecraft mod packs",
		Long: TitleStyle.Render("mcpacker") + SubtitleStyle.Render(" - Minecraft mod pack manager") + `

mcpacker bundles mod files into a single .pck file with a name and a
description, keeps a catalog of packs in a directory, and extracts a pack
into a mods folder in one step.

` + SubtitleStyle.Render("Examples:") + `
  mcpacker create Survival mods/*.jar -d "Base game tweaks"
  mcpacker list                    List the packs in the catalog
  mcpacker show Survival           Show a pack's metadata and mods
  mcpacker deploy Survival --to ~/.minecraft/mods`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.setup(cmd.Context())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&app.flags.configPath, "config", "", "config file (default is the mcpacker config directory)")
	pf.BoolVarP(&app.flags.verbose, "verbose", "v", false, "enable verbose output and debug logging")
	pf.StringVar(&app.flags.packsDir, "packs-dir", "", "catalog directory (overrides packs_dir)")

	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	root.AddCommand(
		newCreateCommand(app),
		newAddCommand(app),
		newListCommand(app),
		newShowCommand(app),
		newDeployCommand(app),
		newBrowseCommand(app),
		newConfigCommand(app),
	)
	return root
}

// Run executes the command line args and returns the process exit code.
func (a *App) Run(ctx context.Context, args []string) types.ExitCode {
	root := NewRootCommand(a)
	root.SetArgs(args)
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	err := fang.Execute(
		ctx,
		root,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(func(w io.Writer, _ fang.Styles, err error) {
			renderError(w, err, a.verbose(), a.renderMarkdown())
		}),
	)
	code, _ := classifyError(err)
	return code
}

// Execute runs mcpacker with the process arguments and exits.
// This is called by main.main().
func Execute() {
	os.Exit(int(NewApp(Dependencies{}).Run(context.Background(), os.Args[1:])))
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// usageArgs reports argument count mistakes as usage errors.
func usageArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		return usageError(fn(cmd, args))
	}
}
