// SPDX-License-Identifier: MPL-2.0

package output

import (
	"math"

	"github.com/dustin/go-humanize"
)

// Size formats a byte count for display, e.g. "1.2 MB".
func Size(n uint64) string {
	return humanize.Bytes(n)
}

// Count formats an integer with thousands separators.
func Count(n int) string {
	return humanize.Comma(int64(n))
}

// SizeExact formats a byte count with the exact number in parentheses once it
// is large enough for Size to round.
func SizeExact(n uint64) string {
	if n < 1000 || n > math.MaxInt64 {
		return Size(n)
	}
	return Size(n) + " (" + humanize.Comma(int64(n)) + " bytes)"
}
