// SPDX-License-Identifier: MPL-2.0

// Package digest computes BLAKE3 content digests of mod payloads and deployed
// files. Digests identify payloads in `show --full` and confirm extraction in
// `deploy --verify`.
package digest

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/blake3"
)

// Size is the digest length in bytes.
const Size = 32

// ErrMismatch is returned by VerifyFile when the file content differs from
// the expected digest.
var ErrMismatch = errors.New("digest mismatch")

type (
	// Digest is a BLAKE3-256 digest.
	Digest [Size]byte

	// MismatchError reports a file whose digest differs from the expected one.
	MismatchError struct {
		Path string
		Want Digest
		Got  Digest
	}
)

// Sum returns the digest of data.
func Sum(data []byte) Digest {
	return blake3.Sum256(data)
}

// File streams the file at path through the hasher.
func File(path string) (Digest, error) {
	f, err := os.Open(path)
	if err != nil {
		return Digest{}, fmt.Errorf("opening %s for hashing: %w", path, err)
	}
	defer f.Close()

	return Reader(f)
}

// Reader hashes everything r yields.
func Reader(r io.Reader) (Digest, error) {
	h := blake3.New()
	if _, err := io.Copy(h, r); err != nil {
		return Digest{}, fmt.Errorf("hashing: %w", err)
	}
	var d Digest
	copy(d[:], h.Sum(nil))
	return d, nil
}

// VerifyFile checks that the file at path hashes to want.
func VerifyFile(path string, want Digest) error {
	got, err := File(path)
	if err != nil {
		return err
	}
	if got != want {
		return &MismatchError{Path: path, Want: want, Got: got}
	}
	return nil
}

// String returns the lowercase hex encoding.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Short returns the first 12 hex characters, enough for table columns.
func (d Digest) Short() string {
	return d.String()[:12]
}

// Parse decodes a 64-character hex digest.
func Parse(s string) (Digest, error) {
	var d Digest
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return d, fmt.Errorf("parsing digest: %w", err)
	}
	if len(decoded) != Size {
		return d, fmt.Errorf("digest is %d bytes, want %d", len(decoded), Size)
	}
	copy(d[:], decoded)
	return d, nil
}

// Error implements the error interface.
func (e *MismatchError) Error() string {
	return fmt.Sprintf("digest mismatch for %s: want %s, got %s", e.Path, e.Want.Short(), e.Got.Short())
}

// Unwrap returns ErrMismatch for errors.Is() compatibility.
func (e *MismatchError) Unwrap() error { return ErrMismatch }
