// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mcpacker/mcpacker/internal/config"
	"github.com/mcpacker/mcpacker/internal/issue"
	"github.com/mcpacker/mcpacker/internal/output"
)

// newConfigCommand creates the `mcpacker config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage mcpacker configuration",
		Long: `Manage mcpacker configuration.

Configuration is read from the first of:
  - the --config flag
  - Linux: ~/.config/mcpacker/config.cue
    macOS: ~/Library/Application Support/mcpacker/config.cue
    Windows: %APPDATA%\mcpacker\config.cue
  - ./config.cue

MCPACKER_* environment variables override file values, e.g.
MCPACKER_PACKS_DIR or MCPACKER_UI_OUTPUT.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	var format string
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(_ *cobra.Command, _ []string) error {
			return showConfig(app, format)
		},
	}
	showCmd.Flags().StringVarP(&format, "output", "o", "", "output format: table, json or yaml (default is ui.output)")

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(_ *cobra.Command, _ []string) error {
			return initConfig(app, force)
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")

	cfgCmd.AddCommand(showCmd, initCmd, &cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(_ *cobra.Command, _ []string) error {
			return showConfigPath(app)
		},
	})

	return cfgCmd
}

func showConfig(app *App, format string) error {
	if app.cfgErr != nil {
		var ae *issue.ActionableError
		if errors.As(app.cfgErr, &ae) {
			loadErr := *ae
			loadErr.Suggestions = append(slices.Clone(ae.Suggestions), "Run 'mcpacker config init --force' to start from the defaults")
			loadErr.Issue = issue.ConfigLoadFailedId
			return &loadErr
		}
		return issue.NewErrorContext().
			WithOperation("load configuration").
			WithSuggestion("Run 'mcpacker config init --force' to start from the defaults").
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(app.cfgErr).
			BuildError()
	}

	p, err := app.printer(format)
	if err != nil {
		return err
	}
	cfg := app.config()
	if p.Format() != output.FormatTable {
		return p.Print(cfg)
	}

	source := app.cfg.Path
	if source == "" {
		source = "(defaults)"
	}
	p.Println(TitleStyle.Render("Current Configuration"))
	return output.SimpleTable(p.Writer(), [][2]string{
		{"config file", source},
		{"packs_dir", cfg.PacksDir.String()},
		{"deploy_dir", cfg.DeployDir.String()},
		{"log_level", cfg.LogLevel.String()},
		{"ui.verbose", strconv.FormatBool(cfg.UI.Verbose)},
		{"ui.render_markdown", strconv.FormatBool(cfg.UI.RenderMarkdown)},
		{"ui.output", cfg.UI.Output.String()},
	})
}

func showConfigPath(app *App) error {
	if app.cfg != nil && app.cfg.Path != "" {
		fmt.Fprintln(app.stdout, app.cfg.Path)
		return nil
	}

	path, err := config.DefaultConfigPath()
	if err != nil {
		return wrapError(err, "find config directory", "")
	}
	fmt.Fprintln(app.stdout, path)
	fmt.Fprintln(app.stderr, SubtitleStyle.Render("(not created yet; run 'mcpacker config init')"))
	return nil
}

func initConfig(app *App, force bool) error {
	path := app.flags.configPath
	if path == "" {
		var err error
		if path, err = config.DefaultConfigPath(); err != nil {
			return wrapError(err, "find config directory", "")
		}
	}

	if err := config.CreateDefaultConfig(path, force); err != nil {
		ctx := issue.NewErrorContext().
			WithOperation("create config file").
			WithResource(path).
			Wrap(err)
		if errors.Is(err, config.ErrConfigExists) {
			ctx = ctx.WithSuggestion("Pass --force to overwrite it")
		}
		return ctx.BuildError()
	}

	output.NewPrinter(app.stdout, output.FormatTable, app.color()).
		Success("Created " + path)
	return nil
}
