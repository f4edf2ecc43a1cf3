// SPDX-License-Identifier: MPL-2.0

package modpack

import (
	"errors"
	"fmt"
	"io"
)

// Stream is a sequential reader over a seekable pack source that knows how
// many bytes are left. Every frame is checked against the remaining byte
// count before it is read, so corrupt lengths fail with ErrTruncatedStream
// instead of over-reading or allocating.
type Stream struct {
	rs   io.ReadSeeker
	pos  int64
	size int64
}

// NewStream wraps rs. The stream starts at rs's current position and ends at
// its current end.
func NewStream(rs io.ReadSeeker) (*Stream, error) {
	pos, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("locating stream position: %w", err)
	}
	size, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("locating stream end: %w", err)
	}
	if _, err := rs.Seek(pos, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewinding stream: %w", err)
	}
	return &Stream{rs: rs, pos: pos, size: size}, nil
}

// Pos returns the current stream position.
func (s *Stream) Pos() int64 { return s.pos }

// Size returns the stream end position.
func (s *Stream) Size() int64 { return s.size }

// Remaining returns the number of bytes between the position and the end.
func (s *Stream) Remaining() int64 {
	return max(s.size-s.pos, 0)
}

// ReadField reads exactly n bytes.
func (s *Stream) ReadField(n uint64) ([]byte, error) {
	if err := s.check(n); err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	read, err := io.ReadFull(s.rs, buf)
	s.pos += int64(read)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			// The source shrank after NewStream measured it.
			return nil, &TruncatedError{Offset: s.pos - int64(read), Need: n, Remaining: int64(read)}
		}
		return nil, err
	}
	return buf, nil
}

// Skip advances the position by n bytes without reading them.
func (s *Stream) Skip(n uint64) error {
	if err := s.check(n); err != nil {
		return err
	}
	pos, err := s.rs.Seek(int64(n), io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("skipping %d bytes: %w", n, err)
	}
	s.pos = pos
	return nil
}

func (s *Stream) check(n uint64) error {
	if remaining := s.Remaining(); n > uint64(remaining) {
		return &TruncatedError{Offset: s.pos, Need: n, Remaining: remaining}
	}
	return nil
}
