// SPDX-License-Identifier: MPL-2.0

package modpack

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mcpacker/mcpacker/pkg/codec"
)

// Error kinds. Every error returned by this package matches exactly one of
// these with errors.Is.
var (
	// ErrSourceNotFound is returned when a file to read does not exist.
	ErrSourceNotFound = errors.New("source not found")
	// ErrSourceUnreadable is returned when a file exists but cannot be read.
	ErrSourceUnreadable = errors.New("source unreadable")
	// ErrNotADirectory is returned when a directory argument is not one.
	ErrNotADirectory = errors.New("not a directory")
	// ErrMalformedHeader is returned when the pack header or a mod name
	// cannot be decoded.
	ErrMalformedHeader = errors.New("malformed header")
	// ErrTruncatedStream is returned when a frame needs more bytes than the
	// stream holds.
	ErrTruncatedStream = errors.New("truncated stream")
	// ErrSizeMismatch is returned when an integer field has the wrong width.
	ErrSizeMismatch = codec.ErrSizeMismatch
	// ErrInvalidMode is returned for a ReadingMode outside the defined set.
	ErrInvalidMode = errors.New("invalid reading mode")
	// ErrDestinationUnwritable is returned when output cannot be written.
	ErrDestinationUnwritable = errors.New("destination unwritable")
	// ErrInvalidPackName is returned when a pack name cannot be used as a
	// file name (empty, or containing a path separator).
	ErrInvalidPackName = errors.New("invalid pack name")
	// ErrUnsafeName is returned when a mod name would extract outside the
	// target directory.
	ErrUnsafeName = errors.New("unsafe mod name")
	// ErrPayloadNotLoaded is returned when writing or extracting a mod that
	// was read with ReadMetaOnly.
	ErrPayloadNotLoaded = errors.New("payload not loaded")
)

var kinds = []error{
	ErrSourceNotFound,
	ErrSourceUnreadable,
	ErrNotADirectory,
	ErrMalformedHeader,
	ErrTruncatedStream,
	ErrSizeMismatch,
	ErrInvalidMode,
	ErrDestinationUnwritable,
	ErrInvalidPackName,
	ErrUnsafeName,
	ErrPayloadNotLoaded,
}

// Error describes a failed pack or mod operation.
type Error struct {
	// Op is the operation that failed, e.g. "load" or "extract mod".
	Op string
	// Path is the file or directory involved (optional).
	Path string
	// Kind is one of the Err* sentinels of this package.
	Kind error
	// Err is the underlying cause (optional).
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var msg strings.Builder
	msg.WriteString(e.Op)
	if e.Path != "" {
		msg.WriteString(" ")
		msg.WriteString(e.Path)
	}
	// The cause usually names the kind already.
	if e.Err == nil || !errors.Is(e.Err, e.Kind) {
		msg.WriteString(": ")
		msg.WriteString(e.Kind.Error())
	}
	if e.Err != nil {
		msg.WriteString(": ")
		msg.WriteString(e.Err.Error())
	}
	return msg.String()
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Kind returns the error kind of err, or nil if err did not come from this
// package.
func Kind(err error) error {
	var pe *Error
	if errors.As(err, &pe) && pe.Kind != nil {
		return pe.Kind
	}
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// TruncatedError is returned by Stream when a read or skip needs more bytes
// than remain.
type TruncatedError struct {
	// Offset is the stream position of the failed frame.
	Offset int64
	// Need is the number of bytes the frame requires.
	Need uint64
	// Remaining is the number of bytes left in the stream.
	Remaining int64
}

// Error implements the error interface.
func (e *TruncatedError) Error() string {
	return fmt.Sprintf("truncated stream: need %d bytes at offset %d, %d remain", e.Need, e.Offset, e.Remaining)
}

// Unwrap returns ErrTruncatedStream for errors.Is() compatibility.
func (e *TruncatedError) Unwrap() error { return ErrTruncatedStream }
