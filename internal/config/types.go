// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"

	"github.com/mcpacker/mcpacker/internal/output"
	"github.com/mcpacker/mcpacker/pkg/types"
)

const (
	// LogLevelDebug logs scan and extraction details.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo logs command outcomes.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn logs skipped and corrupt packs only.
	LogLevelWarn LogLevel = "warn"
	// LogLevelError logs failures only.
	LogLevelError LogLevel = "error"

	// DefaultPacksDir is the catalog directory used when none is configured.
	DefaultPacksDir types.FilesystemPath = "packs"
	// DefaultDeployDir is the deploy target used when none is configured.
	DefaultDeployDir types.FilesystemPath = "mods"
)

var (
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// LogLevel is the minimum level the logger emits.
	LogLevel string

	// InvalidLogLevelError is returned when a LogLevel value is not recognized.
	// It wraps ErrInvalidLogLevel for errors.Is() compatibility.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// FieldErrors holds the individual failures.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// PacksDir is scanned by the catalog and receives new packs.
		PacksDir types.FilesystemPath `json:"packs_dir" yaml:"packs_dir" mapstructure:"packs_dir"`
		// DeployDir is where deploy extracts mods unless --to is given.
		DeployDir types.FilesystemPath `json:"deploy_dir" yaml:"deploy_dir" mapstructure:"deploy_dir"`
		// LogLevel sets the logger threshold.
		LogLevel LogLevel `json:"log_level" yaml:"log_level" mapstructure:"log_level"`
		// UI configures the user interface
		UI UIConfig `json:"ui" yaml:"ui" mapstructure:"ui"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// Verbose enables verbose output and debug logging
		Verbose bool `json:"verbose" yaml:"verbose" mapstructure:"verbose"`
		// RenderMarkdown renders pack descriptions and issue help with glamour
		RenderMarkdown bool `json:"render_markdown" yaml:"render_markdown" mapstructure:"render_markdown"`
		// Output is the default format of list and show
		Output output.Format `json:"output" yaml:"output" mapstructure:"output"`
	}
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		PacksDir:  DefaultPacksDir,
		DeployDir: DefaultDeployDir,
		LogLevel:  LogLevelInfo,
		UI: UIConfig{
			Verbose:        false,
			RenderMarkdown: true,
			Output:         output.FormatTable,
		},
	}
}

// IsValid returns whether the Config has valid fields.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	for _, check := range []func() (bool, []error){
		c.PacksDir.IsValid,
		c.DeployDir.IsValid,
		c.LogLevel.IsValid,
		c.UI.Output.IsValid,
	} {
		if ok, fieldErrs := check(); !ok {
			errs = append(errs, fieldErrs...)
		}
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %v", errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string { return string(l) }

// IsValid returns whether the LogLevel is one of the defined levels.
func (l LogLevel) IsValid() (bool, []error) {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true, nil
	default:
		return false, []error{&InvalidLogLevelError{Value: l}}
	}
}

// Error implements the error interface.
func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", e.Value)
}

// Unwrap returns ErrInvalidLogLevel for errors.Is() compatibility.
func (e *InvalidLogLevelError) Unwrap() error { return ErrInvalidLogLevel }
