// SPDX-License-Identifier: MPL-2.0

// Package codec implements the low-level field encodings used by the .pck
// container format.
//
// Integers are framed big-endian with a width equal to the Go type's size.
// Text is stored as UTF-8 inside a fixed number of four-byte slots: a field
// holding up to N code points always occupies exactly N*4 bytes, and the
// logical value ends at the first zero byte.
package codec
