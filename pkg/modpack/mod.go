// SPDX-License-Identifier: MPL-2.0

package modpack

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mcpacker/mcpacker/pkg/codec"
)

const (
	// ModNameSlots is the capacity of a mod name in code points.
	ModNameSlots = 255
	// ModNameWidth is the encoded width of a mod name field.
	ModNameWidth = ModNameSlots * codec.SlotWidth
	// LengthWidth is the encoded width of a payload length field.
	LengthWidth = 8

	opAddMod     = "add mod"
	opReadMod    = "read mod"
	opWriteMod   = "write mod"
	opExtractMod = "extract mod"
)

// Mod is one packaged artifact: a file name and its raw bytes.
type Mod struct {
	name string
	data []byte
	// size is the declared payload length. It equals len(data) unless the
	// mod was read with ReadMetaOnly.
	size uint64
}

// NewMod creates a mod from in-memory content. The name is clipped to
// ModNameSlots code points.
func NewMod(name string, data []byte) *Mod {
	return &Mod{
		name: codec.ClipText(name, ModNameSlots),
		data: data,
		size: uint64(len(data)),
	}
}

// NewModFromFile reads the file at path into a new mod named after the
// file's base name.
func NewModFromFile(path string) (*Mod, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &Error{Op: opAddMod, Path: path, Kind: ErrSourceNotFound, Err: err}
		}
		return nil, &Error{Op: opAddMod, Path: path, Kind: ErrSourceUnreadable, Err: err}
	}
	if info.IsDir() {
		return nil, &Error{Op: opAddMod, Path: path, Kind: ErrSourceUnreadable, Err: errors.New("is a directory")}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Op: opAddMod, Path: path, Kind: ErrSourceUnreadable, Err: err}
	}
	return NewMod(filepath.Base(path), data), nil
}

// ReadMod reads one mod frame from s. With ReadMetaOnly the payload is
// skipped and the returned mod only knows its name and Size.
func ReadMod(s *Stream, mode ReadingMode) (*Mod, error) {
	if err := mode.Validate(); err != nil {
		return nil, &Error{Op: opReadMod, Kind: ErrInvalidMode, Err: err}
	}

	nameField, err := s.ReadField(ModNameWidth)
	if err != nil {
		return nil, readError(fmt.Errorf("name: %w", err))
	}
	name, err := decodeText(nameField, ModNameSlots)
	if err != nil {
		return nil, &Error{Op: opReadMod, Kind: ErrMalformedHeader, Err: fmt.Errorf("name: %w", err)}
	}

	lengthField, err := s.ReadField(LengthWidth)
	if err != nil {
		return nil, readError(fmt.Errorf("payload length of %q: %w", name, err))
	}
	size, err := codec.DecodeInt[uint64](lengthField)
	if err != nil {
		return nil, &Error{Op: opReadMod, Kind: ErrSizeMismatch, Err: err}
	}

	m := &Mod{name: name, size: size}
	switch mode {
	case ReadFull:
		if m.data, err = s.ReadField(size); err != nil {
			return nil, readError(fmt.Errorf("payload of %q: %w", name, err))
		}
	case ReadMetaOnly:
		if err := s.Skip(size); err != nil {
			return nil, readError(fmt.Errorf("payload of %q: %w", name, err))
		}
	}
	return m, nil
}

func readError(err error) error {
	if errors.Is(err, ErrTruncatedStream) {
		return &Error{Op: opReadMod, Kind: ErrTruncatedStream, Err: err}
	}
	return &Error{Op: opReadMod, Kind: ErrSourceUnreadable, Err: err}
}

// Name returns the mod's file name.
func (m *Mod) Name() string { return m.name }

// Data returns the payload. It is empty for mods read with ReadMetaOnly.
func (m *Mod) Data() []byte { return m.data }

// Size returns the declared payload length in bytes.
func (m *Mod) Size() uint64 { return m.size }

// Loaded reports whether the payload is held in memory.
func (m *Mod) Loaded() bool { return uint64(len(m.data)) == m.size }

// WriteTo writes the mod frame: name field, payload length, payload.
func (m *Mod) WriteTo(w io.Writer) (int64, error) {
	if !m.Loaded() {
		return 0, &Error{Op: opWriteMod, Path: m.name, Kind: ErrPayloadNotLoaded}
	}

	frame := make([]byte, 0, ModNameWidth+LengthWidth)
	frame = append(frame, codec.EncodeText(m.name, ModNameSlots)...)
	frame = codec.AppendInt(frame, m.size)

	n, err := w.Write(frame)
	written := int64(n)
	if err != nil {
		return written, &Error{Op: opWriteMod, Path: m.name, Kind: ErrDestinationUnwritable, Err: err}
	}
	n, err = w.Write(m.data)
	written += int64(n)
	if err != nil {
		return written, &Error{Op: opWriteMod, Path: m.name, Kind: ErrDestinationUnwritable, Err: err}
	}
	return written, nil
}

// ExtractTo writes the payload to a file named after the mod inside dir,
// replacing any existing file of that name.
func (m *Mod) ExtractTo(dir string) (string, error) {
	if !isPlainFileName(m.name) {
		return "", &Error{Op: opExtractMod, Path: m.name, Kind: ErrUnsafeName}
	}
	if !m.Loaded() {
		return "", &Error{Op: opExtractMod, Path: m.name, Kind: ErrPayloadNotLoaded}
	}

	path := filepath.Join(dir, m.name)
	if err := os.WriteFile(path, m.data, 0o644); err != nil {
		return "", &Error{Op: opExtractMod, Path: path, Kind: ErrDestinationUnwritable, Err: err}
	}
	return path, nil
}

// isPlainFileName reports whether name is a single, local path element.
func isPlainFileName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.ContainsAny(name, `/\`) {
		return false
	}
	return filepath.IsLocal(name)
}
