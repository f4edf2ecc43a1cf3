// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/mcpacker/mcpacker/internal/catalog"
	"github.com/mcpacker/mcpacker/internal/config"
	"github.com/mcpacker/mcpacker/internal/output"
	"github.com/mcpacker/mcpacker/internal/tui"
	"github.com/mcpacker/mcpacker/pkg/types"
)

type (
	// App wires CLI services and shared dependencies. It is the composition
	// root for the CLI layer: every command handler receives an App and gets
	// configuration, logging and the pack catalog through it.
	App struct {
		Config config.Provider
		stdin  io.Reader
		stdout io.Writer
		stderr io.Writer

		flags   globalFlags
		cfg     *config.Loaded
		cfgErr  error
		logger  *log.Logger
		catalog *catalog.Catalog
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config config.Provider
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}

	globalFlags struct {
		configPath string
		verbose    bool
		packsDir   string
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdin == nil {
		deps.Stdin = os.Stdin
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}

	return &App{
		Config: deps.Config,
		stdin:  deps.Stdin,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
		logger: log.New(io.Discard),
	}
}

// setup loads configuration and builds the logger. A config that fails to
// load is reported and replaced by the defaults, so that `config init` can
// still repair it; `config show` surfaces the error.
func (a *App) setup(ctx context.Context) error {
	loaded, err := a.Config.Load(ctx, config.LoadOptions{
		ConfigFilePath: types.FilesystemPath(a.flags.configPath),
	})
	if err != nil {
		a.cfgErr = err
		loaded = &config.Loaded{Config: config.DefaultConfig()}
		a.warn(formatErrorForDisplay(err, a.flags.verbose))
	}
	a.cfg = loaded

	level := log.InfoLevel
	if parsed, parseErr := log.ParseLevel(string(loaded.LogLevel)); parseErr == nil {
		level = parsed
	}
	if a.verbose() {
		level = log.DebugLevel
	}
	a.logger = log.NewWithOptions(a.stderr, log.Options{
		Prefix: config.AppName,
		Level:  level,
	})
	a.logger.Debug("configuration loaded", "file", loaded.Path, "packs_dir", a.packsDir())
	return nil
}

func (a *App) config() *config.Config {
	if a.cfg == nil {
		return config.DefaultConfig()
	}
	return a.cfg.Config
}

func (a *App) verbose() bool {
	return a.flags.verbose || a.config().UI.Verbose
}

func (a *App) renderMarkdown() bool {
	return a.config().UI.RenderMarkdown
}

func (a *App) packsDir() string {
	if a.flags.packsDir != "" {
		return a.flags.packsDir
	}
	return a.config().PacksDir.String()
}

func (a *App) deployDir() string {
	return a.config().DeployDir.String()
}

// packCatalog returns the catalog of the packs directory, built once per
// invocation.
func (a *App) packCatalog() *catalog.Catalog {
	if a.catalog == nil {
		a.catalog = catalog.New(a.packsDir(), catalog.WithLogger(a.logger))
	}
	return a.catalog
}

// findPack resolves a pack argument.
func (a *App) findPack(ctx context.Context, ref string) (*catalog.Entry, error) {
	entry, err := a.packCatalog().Find(ctx, ref)
	if err != nil {
		return nil, wrapError(err, "find pack", ref)
	}
	return entry, nil
}

// printer returns a printer for the --output flag value, falling back to
// the configured default format.
func (a *App) printer(format string) (*output.Printer, error) {
	f := a.config().UI.Output
	if format != "" {
		parsed, err := output.ParseFormat(format)
		if err != nil {
			return nil, usageError(err)
		}
		f = parsed
	}
	return output.NewPrinter(a.stdout, f, a.color()), nil
}

func (a *App) color() bool {
	f, ok := a.stdout.(*os.File)
	return ok && tui.IsTerminal(f)
}

// interactiveInput reports whether stdin is a terminal a form can read.
func (a *App) interactiveInput() bool {
	f, ok := a.stdin.(*os.File)
	return ok && tui.IsTerminal(f)
}

func (a *App) warn(msg string) {
	_, _ = io.WriteString(a.stderr, WarningStyle.Render("Warning: ")+msg+"\n")
}

func (a *App) tuiConfig() tui.Config {
	cfg := tui.DefaultConfig()
	cfg.Input = a.stdin
	if !cfg.Accessible {
		cfg.Output = a.stdout
	} else {
		cfg.Output = a.stderr
	}
	return cfg
}

// glamourStyle picks the glamour style for w: "dark" on a terminal, plain
// text otherwise.
func glamourStyle(w io.Writer) string {
	if f, ok := w.(*os.File); ok && tui.IsTerminal(f) {
		return "dark"
	}
	return "notty"
}
