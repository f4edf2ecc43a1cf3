// SPDX-License-Identifier: MPL-2.0

package modpack

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mcpacker/mcpacker/pkg/codec"
)

func writeSource(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func TestNewModFromFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	t.Run("reads name and bytes", func(t *testing.T) {
		t.Parallel()
		path := writeSource(t, dir, "A.jar", []byte{1, 2, 3})
		m, err := NewModFromFile(path)
		if err != nil {
			t.Fatalf("NewModFromFile() error = %v", err)
		}
		if m.Name() != "A.jar" {
			t.Errorf("Name() = %q, want %q", m.Name(), "A.jar")
		}
		if !bytes.Equal(m.Data(), []byte{1, 2, 3}) || m.Size() != 3 || !m.Loaded() {
			t.Errorf("Data/Size/Loaded = %v/%d/%v", m.Data(), m.Size(), m.Loaded())
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := NewModFromFile(filepath.Join(dir, "missing.jar"))
		if !errors.Is(err, ErrSourceNotFound) {
			t.Fatalf("NewModFromFile() error = %v, want ErrSourceNotFound", err)
		}
		if !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("NewModFromFile() error = %v, want cause fs.ErrNotExist", err)
		}
	})

	t.Run("directory", func(t *testing.T) {
		t.Parallel()
		_, err := NewModFromFile(dir)
		if !errors.Is(err, ErrSourceUnreadable) {
			t.Fatalf("NewModFromFile() error = %v, want ErrSourceUnreadable", err)
		}
	})
}

func TestNewMod_ClipsName(t *testing.T) {
	t.Parallel()

	m := NewMod(strings.Repeat("x", 300)+".jar", nil)
	if got := codec.CountCodePoints(m.Name()); got != ModNameSlots {
		t.Errorf("name has %d code points, want %d", got, ModNameSlots)
	}
}

func TestMod_WriteTo(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	n, err := NewMod("A.jar", []byte{1, 2, 3}).WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo() error = %v", err)
	}
	if n != ModNameWidth+LengthWidth+3 || int64(buf.Len()) != n {
		t.Fatalf("WriteTo() = %d bytes (buffer %d), want %d", n, buf.Len(), ModNameWidth+LengthWidth+3)
	}

	frame := buf.Bytes()
	if !bytes.Equal(frame[:5], []byte("A.jar")) {
		t.Errorf("name field prefix = %q", frame[:5])
	}
	if !bytes.Equal(frame[5:ModNameWidth], make([]byte, ModNameWidth-5)) {
		t.Error("name field is not zero padded")
	}
	if !bytes.Equal(frame[ModNameWidth:ModNameWidth+LengthWidth], []byte{0, 0, 0, 0, 0, 0, 0, 3}) {
		t.Errorf("length field = %v", frame[ModNameWidth:ModNameWidth+LengthWidth])
	}
	if !bytes.Equal(frame[ModNameWidth+LengthWidth:], []byte{1, 2, 3}) {
		t.Errorf("payload = %v", frame[ModNameWidth+LengthWidth:])
	}
}

func TestReadMod(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	for _, m := range []*Mod{NewMod("A.jar", []byte{1, 2, 3}), NewMod("B.jar", nil)} {
		if _, err := m.WriteTo(&buf); err != nil {
			t.Fatal(err)
		}
	}
	frames := buf.Bytes()

	t.Run("full", func(t *testing.T) {
		t.Parallel()
		s, err := NewStream(bytes.NewReader(frames))
		if err != nil {
			t.Fatal(err)
		}
		a, err := ReadMod(s, ReadFull)
		if err != nil {
			t.Fatalf("ReadMod() error = %v", err)
		}
		if a.Name() != "A.jar" || !bytes.Equal(a.Data(), []byte{1, 2, 3}) {
			t.Errorf("first mod = %q %v", a.Name(), a.Data())
		}
		b, err := ReadMod(s, ReadFull)
		if err != nil {
			t.Fatalf("ReadMod() error = %v", err)
		}
		if b.Name() != "B.jar" || len(b.Data()) != 0 || b.Size() != 0 {
			t.Errorf("second mod = %q %v", b.Name(), b.Data())
		}
		if s.Remaining() != 0 {
			t.Errorf("Remaining() = %d, want 0", s.Remaining())
		}
	})

	t.Run("meta only skips payload", func(t *testing.T) {
		t.Parallel()
		r := bytes.NewReader(frames)
		s, err := NewStream(r)
		if err != nil {
			t.Fatal(err)
		}
		a, err := ReadMod(s, ReadMetaOnly)
		if err != nil {
			t.Fatalf("ReadMod() error = %v", err)
		}
		if a.Name() != "A.jar" || a.Data() != nil || a.Size() != 3 || a.Loaded() {
			t.Errorf("meta mod = %q data=%v size=%d loaded=%v", a.Name(), a.Data(), a.Size(), a.Loaded())
		}
		pos, _ := r.Seek(0, io.SeekCurrent)
		if pos != int64(ModNameWidth+LengthWidth+3) {
			t.Errorf("reader position = %d, want %d", pos, ModNameWidth+LengthWidth+3)
		}
	})

	t.Run("invalid mode", func(t *testing.T) {
		t.Parallel()
		s, err := NewStream(bytes.NewReader(frames))
		if err != nil {
			t.Fatal(err)
		}
		if _, err := ReadMod(s, ReadingMode(7)); !errors.Is(err, ErrInvalidMode) {
			t.Fatalf("ReadMod() error = %v, want ErrInvalidMode", err)
		}
	})

	t.Run("huge declared length", func(t *testing.T) {
		t.Parallel()
		frame := append(codec.EncodeText("big.jar", ModNameSlots), codec.EncodeInt(uint64(1)<<60)...)
		s, err := NewStream(bytes.NewReader(frame))
		if err != nil {
			t.Fatal(err)
		}
		for _, mode := range []ReadingMode{ReadFull, ReadMetaOnly} {
			if _, err := s.rs.Seek(0, io.SeekStart); err != nil {
				t.Fatal(err)
			}
			s.pos = 0
			if _, err := ReadMod(s, mode); !errors.Is(err, ErrTruncatedStream) {
				t.Errorf("ReadMod(%v) error = %v, want ErrTruncatedStream", mode, err)
			}
		}
	})

	t.Run("malformed name", func(t *testing.T) {
		t.Parallel()
		nameField := make([]byte, ModNameWidth)
		copy(nameField, []byte{0xFF, 0xFE})
		frame := append(nameField, codec.EncodeInt(uint64(0))...)
		s, err := NewStream(bytes.NewReader(frame))
		if err != nil {
			t.Fatal(err)
		}
		_, err = ReadMod(s, ReadFull)
		if !errors.Is(err, ErrMalformedHeader) || !errors.Is(err, codec.ErrInvalidText) {
			t.Fatalf("ReadMod() error = %v, want ErrMalformedHeader wrapping ErrInvalidText", err)
		}
	})
}

func TestMod_ExtractTo(t *testing.T) {
	t.Parallel()

	t.Run("overwrites existing file", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeSource(t, dir, "A.jar", []byte("old contents"))
		path, err := NewMod("A.jar", []byte{9}).ExtractTo(dir)
		if err != nil {
			t.Fatalf("ExtractTo() error = %v", err)
		}
		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(got, []byte{9}) {
			t.Errorf("extracted bytes = %v, want [9]", got)
		}
	})

	t.Run("unsafe names", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		for _, name := range []string{"", ".", "..", "../escape.jar", "sub/dir.jar", `back\slash.jar`} {
			m := &Mod{name: name}
			if _, err := m.ExtractTo(dir); !errors.Is(err, ErrUnsafeName) {
				t.Errorf("ExtractTo(%q) error = %v, want ErrUnsafeName", name, err)
			}
		}
	})

	t.Run("payload not loaded", func(t *testing.T) {
		t.Parallel()
		m := &Mod{name: "meta.jar", size: 10}
		if _, err := m.ExtractTo(t.TempDir()); !errors.Is(err, ErrPayloadNotLoaded) {
			t.Fatalf("ExtractTo() error = %v, want ErrPayloadNotLoaded", err)
		}
		if _, err := m.WriteTo(io.Discard); !errors.Is(err, ErrPayloadNotLoaded) {
			t.Fatalf("WriteTo() error = %v, want ErrPayloadNotLoaded", err)
		}
	})

	t.Run("missing directory", func(t *testing.T) {
		t.Parallel()
		dir := filepath.Join(t.TempDir(), "absent")
		if _, err := NewMod("A.jar", nil).ExtractTo(dir); !errors.Is(err, ErrDestinationUnwritable) {
			t.Fatalf("ExtractTo() error = %v, want ErrDestinationUnwritable", err)
		}
	})
}
