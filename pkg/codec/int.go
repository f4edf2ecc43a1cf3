// SPDX-License-Identifier: MPL-2.0

package codec

import (
	"errors"
	"encoding/binary"
	"fmt"
	"math/bits"

	"golang.org/x/exp/constraints"
)

// ErrSizeMismatch is the sentinel error wrapped by SizeMismatchError.
var ErrSizeMismatch = errors.New("size mismatch")

// SizeMismatchError is returned when a byte slice does not have the width of
// the integer type it is decoded into.
type SizeMismatchError struct {
	Want int
	Got  int
}

// Error implements the error interface.
func (e *SizeMismatchError) Error() string {
	return fmt.Sprintf("size mismatch: need %d bytes, got %d", e.Want, e.Got)
}

// Unwrap returns ErrSizeMismatch for errors.Is() compatibility.
func (e *SizeMismatchError) Unwrap() error { return ErrSizeMismatch }

// IntWidth returns the encoded width of T in bytes.
func IntWidth[T constraints.Integer]() int {
	var zero T
	if n := binary.Size(zero); n > 0 {
		return n
	}
	// int, uint and uintptr are one machine word wide.
	return bits.UintSize / 8
}

// EncodeInt returns the big-endian representation of n. The result is
// exactly IntWidth[T]() bytes long.
func EncodeInt[T constraints.Integer](n T) []byte {
	return AppendInt(make([]byte, 0, IntWidth[T]()), n)
}

// AppendInt appends the big-endian representation of n to b.
func AppendInt[T constraints.Integer](b []byte, n T) []byte {
	width := IntWidth[T]()
	u := uint64(n)
	for i := width - 1; i >= 0; i-- {
		b = append(b, byte(u>>(8*uint(i))))
	}
	return b
}

// DecodeInt decodes a big-endian integer of type T. b must be exactly
// IntWidth[T]() bytes long.
func DecodeInt[T constraints.Integer](b []byte) (T, error) {
	width := IntWidth[T]()
	if len(b) != width {
		return 0, &SizeMismatchError{Want: width, Got: len(b)}
	}
	var u uint64
	for _, c := range b {
		u = u<<8 | uint64(c)
	}
	// Narrowing conversion keeps the low bytes, which restores the sign of
	// signed types.
	return T(u), nil
}
