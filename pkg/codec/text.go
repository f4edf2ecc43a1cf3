// SPDX-License-Identifier: MPL-2.0

package codec

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// SlotWidth is the number of bytes reserved per code point in a text field.
const SlotWidth = 4

// ErrInvalidText is the sentinel error wrapped by InvalidTextError.
var ErrInvalidText = errors.New("invalid text")

// InvalidTextError is returned when a text field holds bytes that are not
// valid UTF-8 before its terminating zero byte.
type InvalidTextError struct {
	// Offset is the position of the first invalid byte within the field.
	Offset int
}

// Error implements the error interface.
func (e *InvalidTextError) Error() string {
	return fmt.Sprintf("invalid text: malformed UTF-8 at byte %d", e.Offset)
}

// Unwrap returns ErrInvalidText for errors.Is() compatibility.
func (e *InvalidTextError) Unwrap() error { return ErrInvalidText }

// FieldWidth returns the byte width of a text field with the given number of
// code point slots.
func FieldWidth(slots int) int {
	return slots * SlotWidth
}

// ClipText applies the truncation rule for text fields: the value ends at the
// first NUL, and code points beyond capacity are dropped. Malformed UTF-8 is
// replaced with U+FFFD first so the result always encodes cleanly.
func ClipText(s string, capacity int) string {
	s = strings.ToValidUTF8(s, string(utf8.RuneError))
	if i := strings.IndexByte(s, 0); i >= 0 {
		s = s[:i]
	}
	if capacity <= 0 {
		return ""
	}
	n := 0
	for i := range s {
		if n == capacity {
			return s[:i]
		}
		n++
	}
	return s
}

// EncodeText encodes s into a field of exactly FieldWidth(slots) bytes. The
// text is clipped with ClipText first; the bytes after the encoded text are
// zero. Since no code point needs more than SlotWidth bytes in UTF-8, clipped
// text always fits.
func EncodeText(s string, slots int) []byte {
	field := make([]byte, FieldWidth(slots))
	copy(field, ClipText(s, slots))
	return field
}

// DecodeText decodes the text stored in field. Only the bytes before the first
// zero byte are significant.
func DecodeText(field []byte) (string, error) {
	if i := bytes.IndexByte(field, 0); i >= 0 {
		field = field[:i]
	}
	if !utf8.Valid(field) {
		return "", &InvalidTextError{Offset: firstInvalid(field)}
	}
	return string(field), nil
}

// CountCodePoints returns the number of code points in s.
func CountCodePoints(s string) int {
	return utf8.RuneCountInString(s)
}

func firstInvalid(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return len(b)
}
