// SPDX-License-Identifier: MPL-2.0

package codec

import (
	"bytes"
	"errors"
	"math"
	"math/bits"
	"testing"

	"golang.org/x/exp/constraints"
)

func TestEncodeInt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		got  []byte
		want []byte
	}{
		{"uint8", EncodeInt(uint8(0xAB)), []byte{0xAB}},
		{"uint16", EncodeInt(uint16(0x0102)), []byte{0x01, 0x02}},
		{"uint32", EncodeInt(uint32(0x01020304)), []byte{0x01, 0x02, 0x03, 0x04}},
		{"uint64", EncodeInt(uint64(3)), []byte{0, 0, 0, 0, 0, 0, 0, 3}},
		{"int16 negative", EncodeInt(int16(-2)), []byte{0xFF, 0xFE}},
		{"int64 min", EncodeInt(int64(math.MinInt64)), []byte{0x80, 0, 0, 0, 0, 0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if !bytes.Equal(tt.got, tt.want) {
				t.Errorf("EncodeInt() = %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestDecodeInt_SizeMismatch(t *testing.T) {
	t.Parallel()

	_, err := DecodeInt[uint64]([]byte{1, 2, 3})
	if !errors.Is(err, ErrSizeMismatch) {
		t.Fatalf("DecodeInt() error = %v, want ErrSizeMismatch", err)
	}

	var sizeErr *SizeMismatchError
	if !errors.As(err, &sizeErr) {
		t.Fatalf("DecodeInt() error type = %T, want *SizeMismatchError", err)
	}
	if sizeErr.Want != 8 || sizeErr.Got != 3 {
		t.Errorf("SizeMismatchError = %+v, want Want=8 Got=3", sizeErr)
	}
}

type lengthField uint64

func TestIntWidth(t *testing.T) {
	t.Parallel()

	word := bits.UintSize / 8
	tests := []struct {
		name string
		got  int
		want int
	}{
		{"int8", IntWidth[int8](), 1},
		{"uint16", IntWidth[uint16](), 2},
		{"int32", IntWidth[int32](), 4},
		{"uint64", IntWidth[uint64](), 8},
		{"named uint64", IntWidth[lengthField](), 8},
		{"int", IntWidth[int](), word},
		{"uint", IntWidth[uint](), word},
		{"uintptr", IntWidth[uintptr](), word},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.got != tt.want {
				t.Errorf("IntWidth() = %d, want %d", tt.got, tt.want)
			}
		})
	}
}

func TestIntRoundTrip(t *testing.T) {
	t.Parallel()

	t.Run("all 8-bit values", func(t *testing.T) {
		t.Parallel()
		for v := 0; v <= math.MaxUint8; v++ {
			checkRoundTrip(t, uint8(v))
			checkRoundTrip(t, int8(v-128))
		}
	})

	t.Run("all 16-bit values", func(t *testing.T) {
		t.Parallel()
		for v := 0; v <= math.MaxUint16; v++ {
			checkRoundTrip(t, uint16(v))
			checkRoundTrip(t, int16(v+math.MinInt16))
		}
	})

	t.Run("wide boundaries", func(t *testing.T) {
		t.Parallel()
		for _, v := range []int64{0, 1, -1, math.MaxInt32, math.MinInt32, math.MaxInt64, math.MinInt64} {
			checkRoundTrip(t, v)
			checkRoundTrip(t, int32(v))
			checkRoundTrip(t, int(v))
		}
		for _, v := range []uint64{0, 1, math.MaxUint32, math.MaxUint64, 1 << 63} {
			checkRoundTrip(t, v)
			checkRoundTrip(t, uint32(v))
			checkRoundTrip(t, uint(v))
		}
	})
}

func checkRoundTrip[T constraints.Integer](t *testing.T, n T) {
	t.Helper()
	b := EncodeInt(n)
	if len(b) != IntWidth[T]() {
		t.Fatalf("EncodeInt(%v) width = %d, want %d", n, len(b), IntWidth[T]())
	}
	got, err := DecodeInt[T](b)
	if err != nil {
		t.Fatalf("DecodeInt(%v) error = %v", b, err)
	}
	if got != n {
		t.Fatalf("DecodeInt(EncodeInt(%v)) = %v", n, got)
	}
}
