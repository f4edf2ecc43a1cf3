// SPDX-License-Identifier: MPL-2.0

package modpack

import (
	"fmt"
	"strings"
)

// ReadingMode selects how much of a pack is read.
type ReadingMode int

const (
	// ReadFull reads pack metadata and every mod payload.
	ReadFull ReadingMode = iota
	// ReadMetaOnly reads pack metadata and mod names, skipping payloads.
	ReadMetaOnly
)

// InvalidReadingModeError is returned when a ReadingMode value is not
// recognized. It wraps ErrInvalidMode for errors.Is() compatibility.
type InvalidReadingModeError struct {
	Value ReadingMode
}

// Error implements the error interface.
func (e *InvalidReadingModeError) Error() string {
	return fmt.Sprintf("invalid reading mode %d (must be full or meta-only)", int(e.Value))
}

// Unwrap returns ErrInvalidMode for errors.Is() compatibility.
func (e *InvalidReadingModeError) Unwrap() error { return ErrInvalidMode }

// String returns the flag spelling of the mode.
func (m ReadingMode) String() string {
	switch m {
	case ReadFull:
		return "full"
	case ReadMetaOnly:
		return "meta-only"
	default:
		return fmt.Sprintf("ReadingMode(%d)", int(m))
	}
}

// Validate returns an error if m is not ReadFull or ReadMetaOnly.
func (m ReadingMode) Validate() error {
	switch m {
	case ReadFull, ReadMetaOnly:
		return nil
	default:
		return &InvalidReadingModeError{Value: m}
	}
}

// ParseReadingMode parses "full", "meta" or "meta-only".
func ParseReadingMode(s string) (ReadingMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "full", "":
		return ReadFull, nil
	case "meta", "meta-only":
		return ReadMetaOnly, nil
	default:
		return 0, fmt.Errorf("%w: %q (valid: full, meta-only)", ErrInvalidMode, s)
	}
}
