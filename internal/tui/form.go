// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/mcpacker/mcpacker/pkg/codec"
	"github.com/mcpacker/mcpacker/pkg/modpack"
)

var (
	// ErrCancelled is returned when the user aborts a prompt.
	ErrCancelled = errors.New("prompt cancelled")

	// ErrInvalidPackName is the sentinel behind pack name validation errors.
	ErrInvalidPackName = errors.New("invalid pack name")
)

type (
	// PackInfo is what the pack form asks for.
	PackInfo struct {
		Name        string
		Description string
	}

	// InvalidPackNameError explains why a pack name was rejected.
	InvalidPackNameError struct {
		Value  string
		Reason string
	}
)

// Error implements the error interface.
func (e *InvalidPackNameError) Error() string {
	return fmt.Sprintf("invalid pack name %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidPackName for errors.Is() compatibility.
func (e *InvalidPackNameError) Unwrap() error { return ErrInvalidPackName }

// ValidatePackName checks that name can become a pack file name.
func ValidatePackName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return &InvalidPackNameError{Value: name, Reason: "must not be empty"}
	case name == "." || name == "..":
		return &InvalidPackNameError{Value: name, Reason: "must not be a relative directory"}
	case strings.ContainsAny(name, `/\`):
		return &InvalidPackNameError{Value: name, Reason: "must not contain path separators"}
	case strings.ContainsRune(name, 0):
		return &InvalidPackNameError{Value: name, Reason: "must not contain NUL"}
	case codec.CountCodePoints(name) > modpack.NameSlots:
		return &InvalidPackNameError{
			Value:  name,
			Reason: fmt.Sprintf("longer than %d characters", modpack.NameSlots),
		}
	}
	return nil
}

// NewPackForm builds the form that fills info. Existing values are shown as
// the initial input.
func NewPackForm(cfg Config, info *PackInfo) *huh.Form {
	name := huh.NewInput().
		Title("Pack name").
		Description("Also the file name, without " + modpack.Ext).
		CharLimit(modpack.NameSlots).
		Validate(ValidatePackName).
		Value(&info.Name)

	description := huh.NewText().
		Title("Description").
		Description("Optional, markdown is rendered by show").
		CharLimit(modpack.DescriptionSlots).
		Value(&info.Description)

	return huh.NewForm(huh.NewGroup(name, description)).
		WithTheme(huhTheme(cfg.Theme)).
		WithAccessible(cfg.Accessible).
		WithInput(cfg.input()).
		WithOutput(cfg.output())
}

// PromptPackInfo runs the pack form and updates info in place.
func PromptPackInfo(ctx context.Context, cfg Config, info *PackInfo) error {
	if err := NewPackForm(cfg, info).RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrCancelled
		}
		return fmt.Errorf("pack form: %w", err)
	}
	info.Name = strings.TrimSpace(info.Name)
	return nil
}
