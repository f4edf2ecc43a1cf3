// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrInvalidFilesystemPath is the sentinel error wrapped by InvalidFilesystemPathError.
var ErrInvalidFilesystemPath = errors.New("invalid filesystem path")

type (
	// FilesystemPath is an absolute or relative path to a file or directory,
	// such as the packs directory or a deploy target. The zero value is invalid.
	FilesystemPath string

	// InvalidFilesystemPathError is returned when a FilesystemPath value is
	// empty, whitespace-only or contains a NUL byte.
	InvalidFilesystemPathError struct {
		Value  FilesystemPath
		Reason string
	}
)

// String returns the string representation of the FilesystemPath.
func (p FilesystemPath) String() string { return string(p) }

// Validate returns an error if the path cannot name a file.
func (p FilesystemPath) Validate() error {
	switch {
	case strings.TrimSpace(string(p)) == "":
		return &InvalidFilesystemPathError{Value: p, Reason: "must be non-empty"}
	case strings.ContainsRune(string(p), 0):
		return &InvalidFilesystemPathError{Value: p, Reason: "must not contain NUL"}
	}
	return nil
}

// IsValid returns whether the FilesystemPath is valid along with the
// validation errors.
func (p FilesystemPath) IsValid() (bool, []error) {
	if err := p.Validate(); err != nil {
		return false, []error{err}
	}
	return true, nil
}

// Resolve returns p made absolute against base when p is relative.
func (p FilesystemPath) Resolve(base string) FilesystemPath {
	if filepath.IsAbs(string(p)) || base == "" {
		return FilesystemPath(filepath.Clean(string(p)))
	}
	return FilesystemPath(filepath.Join(base, string(p)))
}

// Error implements the error interface for InvalidFilesystemPathError.
func (e *InvalidFilesystemPathError) Error() string {
	return fmt.Sprintf("invalid filesystem path %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidFilesystemPath for errors.Is() compatibility.
func (e *InvalidFilesystemPathError) Unwrap() error { return ErrInvalidFilesystemPath }
