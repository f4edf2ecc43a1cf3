// SPDX-License-Identifier: MPL-2.0

package modpack

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mcpacker/mcpacker/pkg/codec"
)

// newTestSources writes A.jar {1,2,3} and an empty B.jar into a fresh
// directory and returns their paths.
func newTestSources(t *testing.T) (a, b string) {
	t.Helper()
	dir := t.TempDir()
	return writeSource(t, dir, "A.jar", []byte{1, 2, 3}), writeSource(t, dir, "B.jar", nil)
}

func encodePack(t *testing.T, p *ModPack) []byte {
	t.Helper()
	var buf bytes.Buffer
	if _, err := p.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo() error = %v", err)
	}
	return buf.Bytes()
}

func TestSaveLoadDeploy(t *testing.T) {
	t.Parallel()

	a, b := newTestSources(t)
	pack, err := NewFromSources("Test", "hello", a, b)
	if err != nil {
		t.Fatalf("NewFromSources() error = %v", err)
	}

	packDir := t.TempDir()
	path, err := pack.Save(packDir)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if want := filepath.Join(packDir, "Test.pck"); path != want {
		t.Errorf("Save() path = %q, want %q", path, want)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if want := int64(HeaderSize + 2*(ModNameWidth+LengthWidth) + 3); info.Size() != want {
		t.Errorf("pack file size = %d, want %d", info.Size(), want)
	}

	loaded, err := Load(path, ReadFull)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := loaded.MetaInfo(); got != (MetaInfo{Name: "Test", Description: "hello"}) {
		t.Errorf("MetaInfo() = %+v", got)
	}
	mods := loaded.Mods()
	if len(mods) != 2 {
		t.Fatalf("Len() = %d, want 2", len(mods))
	}
	if mods[0].Name() != "A.jar" || !bytes.Equal(mods[0].Data(), []byte{1, 2, 3}) {
		t.Errorf("mods[0] = %q %v", mods[0].Name(), mods[0].Data())
	}
	if mods[1].Name() != "B.jar" || len(mods[1].Data()) != 0 {
		t.Errorf("mods[1] = %q %v", mods[1].Name(), mods[1].Data())
	}

	deployDir := filepath.Join(t.TempDir(), "E")
	var extracted []string
	err = loaded.Deploy(deployDir, OnExtract(func(m *Mod, path string) {
		extracted = append(extracted, m.Name())
	}))
	if err != nil {
		t.Fatalf("Deploy() error = %v", err)
	}
	if strings.Join(extracted, ",") != "A.jar,B.jar" {
		t.Errorf("extract order = %v", extracted)
	}
	for name, want := range map[string][]byte{"A.jar": {1, 2, 3}, "B.jar": {}} {
		got, err := os.ReadFile(filepath.Join(deployDir, name))
		if err != nil {
			t.Fatalf("reading deployed %s: %v", name, err)
		}
		if !bytes.Equal(got, want) {
			t.Errorf("deployed %s = %v, want %v", name, got, want)
		}
	}
}

func TestNewFromSources_MissingSource(t *testing.T) {
	t.Parallel()

	a, _ := newTestSources(t)
	pack, err := NewFromSources("Test", "", a, filepath.Join(t.TempDir(), "nope.jar"))
	if !errors.Is(err, ErrSourceNotFound) {
		t.Fatalf("NewFromSources() error = %v, want ErrSourceNotFound", err)
	}
	if pack != nil {
		t.Error("NewFromSources() returned a pack on error")
	}
}

func TestRead_RoundTrip(t *testing.T) {
	t.Parallel()

	pack := New()
	pack.name = "Ünïcödé ⛏"
	pack.description = "line one\nline two"
	pack.Add(NewMod("a.jar", []byte("alpha")))
	pack.Add(NewMod("日本.jar", bytes.Repeat([]byte{0xAB}, 4096)))
	pack.Add(NewMod("empty.jar", nil))

	data := encodePack(t, pack)
	got, err := Read(bytes.NewReader(data), ReadFull)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got.Name() != pack.Name() || got.Description() != pack.Description() {
		t.Errorf("MetaInfo() = %+v, want %+v", got.MetaInfo(), pack.MetaInfo())
	}
	if !bytes.Equal(encodePack(t, got), data) {
		t.Error("re-encoded pack differs from original bytes")
	}
}

func TestRead_MetaOnly(t *testing.T) {
	t.Parallel()

	pack := New()
	pack.name = "Meta"
	pack.Add(NewMod("a.jar", []byte("alpha")))
	pack.Add(NewMod("b.jar", bytes.Repeat([]byte{7}, 1000)))
	data := encodePack(t, pack)

	r := bytes.NewReader(data)
	meta, err := Read(r, ReadMetaOnly)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if pos, _ := r.Seek(0, io.SeekCurrent); pos != int64(len(data)) {
		t.Errorf("reader position = %d, want %d", pos, len(data))
	}

	full, err := Read(bytes.NewReader(data), ReadFull)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if meta.MetaInfo() != full.MetaInfo() || meta.Len() != full.Len() || meta.PayloadSize() != full.PayloadSize() {
		t.Fatalf("meta-only pack %+v/%d/%d differs from full %+v/%d/%d",
			meta.MetaInfo(), meta.Len(), meta.PayloadSize(), full.MetaInfo(), full.Len(), full.PayloadSize())
	}
	for i, m := range meta.Mods() {
		if m.Name() != full.Mods()[i].Name() || m.Size() != full.Mods()[i].Size() {
			t.Errorf("mod %d: meta %q/%d, full %q/%d", i, m.Name(), m.Size(), full.Mods()[i].Name(), full.Mods()[i].Size())
		}
	}

	t.Run("cannot save", func(t *testing.T) {
		t.Parallel()
		if _, err := meta.Save(t.TempDir()); !errors.Is(err, ErrPayloadNotLoaded) {
			t.Fatalf("Save() error = %v, want ErrPayloadNotLoaded", err)
		}
	})

	t.Run("cannot deploy", func(t *testing.T) {
		t.Parallel()
		if err := meta.Deploy(t.TempDir()); !errors.Is(err, ErrPayloadNotLoaded) {
			t.Fatalf("Deploy() error = %v, want ErrPayloadNotLoaded", err)
		}
	})
}

func TestRead_Truncated(t *testing.T) {
	t.Parallel()

	pack := New()
	pack.name = "Cut"
	pack.Add(NewMod("A.jar", []byte{1, 2, 3}))
	pack.Add(NewMod("B.jar", nil))
	data := encodePack(t, pack)

	firstEnd := HeaderSize + ModNameWidth + LengthWidth + 3
	boundaries := map[int]bool{HeaderSize: true, firstEnd: true, len(data): true}

	var cuts []int
	for off := 0; off < HeaderSize; off += 97 {
		cuts = append(cuts, off)
	}
	cuts = append(cuts, HeaderSize-1)
	for off := HeaderSize + 1; off < len(data); off++ {
		if !boundaries[off] {
			cuts = append(cuts, off)
		}
	}

	for _, mode := range []ReadingMode{ReadFull, ReadMetaOnly} {
		for _, off := range cuts {
			_, err := Read(bytes.NewReader(data[:off]), mode)
			if !errors.Is(err, ErrTruncatedStream) {
				t.Fatalf("Read(%v) of %d bytes: error = %v, want ErrTruncatedStream", mode, off, err)
			}
			wantKind := ErrTruncatedStream
			if off < HeaderSize {
				wantKind = ErrMalformedHeader
			}
			if Kind(err) != wantKind {
				t.Fatalf("Read(%v) of %d bytes: Kind() = %v, want %v", mode, off, Kind(err), wantKind)
			}
		}
	}

	t.Run("frame boundary reads fewer mods", func(t *testing.T) {
		t.Parallel()
		got, err := Read(bytes.NewReader(data[:firstEnd]), ReadFull)
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if got.Len() != 1 {
			t.Errorf("Len() = %d, want 1", got.Len())
		}
	})
}

func TestRead_HugeLength(t *testing.T) {
	t.Parallel()

	data := append(codec.EncodeText("Huge", NameSlots), codec.EncodeText("", DescriptionSlots)...)
	data = append(data, codec.EncodeText("big.jar", ModNameSlots)...)
	data = codec.AppendInt(data, ^uint64(0))
	data = append(data, 1, 2, 3)

	for _, mode := range []ReadingMode{ReadFull, ReadMetaOnly} {
		if _, err := Read(bytes.NewReader(data), mode); !errors.Is(err, ErrTruncatedStream) {
			t.Errorf("Read(%v) error = %v, want ErrTruncatedStream", mode, err)
		}
	}
}

func TestRead_HeaderLayout(t *testing.T) {
	t.Parallel()

	pack := New()
	pack.name = "Name"
	pack.description = "Desc"
	data := encodePack(t, pack)

	if len(data) != HeaderSize {
		t.Fatalf("empty pack is %d bytes, want %d", len(data), HeaderSize)
	}
	if !bytes.HasPrefix(data, []byte("Name\x00")) {
		t.Errorf("name field starts with %q", data[:5])
	}
	if !bytes.HasPrefix(data[NameWidth:], []byte("Desc\x00")) {
		t.Errorf("description field at %d starts with %q", NameWidth, data[NameWidth:NameWidth+5])
	}

	got, err := Read(bytes.NewReader(data), ReadFull)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got.Len() != 0 {
		t.Errorf("Len() = %d, want 0", got.Len())
	}
}

func TestRead_MalformedHeader(t *testing.T) {
	t.Parallel()

	data := make([]byte, HeaderSize)
	copy(data[NameWidth:], []byte{'o', 'k', 0xC3})

	_, err := Read(bytes.NewReader(data), ReadFull)
	if !errors.Is(err, ErrMalformedHeader) || !errors.Is(err, codec.ErrInvalidText) {
		t.Fatalf("Read() error = %v, want ErrMalformedHeader wrapping ErrInvalidText", err)
	}
}

func TestRead_OverCapacityText(t *testing.T) {
	t.Parallel()

	// 300 one-byte code points fit in the bytes of a 255-slot field.
	long := []byte(strings.Repeat("a", 300))

	t.Run("pack name", func(t *testing.T) {
		t.Parallel()
		data := make([]byte, HeaderSize)
		copy(data, long)
		if _, err := Read(bytes.NewReader(data), ReadMetaOnly); !errors.Is(err, ErrMalformedHeader) {
			t.Fatalf("Read() error = %v, want ErrMalformedHeader", err)
		}
	})

	t.Run("description", func(t *testing.T) {
		t.Parallel()
		data := make([]byte, HeaderSize)
		copy(data[NameWidth:], strings.Repeat("d", DescriptionSlots+1))
		if _, err := Read(bytes.NewReader(data), ReadMetaOnly); !errors.Is(err, ErrMalformedHeader) {
			t.Fatalf("Read() error = %v, want ErrMalformedHeader", err)
		}
	})

	t.Run("mod name", func(t *testing.T) {
		t.Parallel()
		data := make([]byte, HeaderSize+ModNameWidth+LengthWidth)
		copy(data, "Pack")
		copy(data[HeaderSize:], long)
		for _, mode := range []ReadingMode{ReadFull, ReadMetaOnly} {
			if _, err := Read(bytes.NewReader(data), mode); !errors.Is(err, ErrMalformedHeader) {
				t.Errorf("Read(%v) error = %v, want ErrMalformedHeader", mode, err)
			}
		}
	})

	t.Run("exact capacity is accepted", func(t *testing.T) {
		t.Parallel()
		data := make([]byte, HeaderSize+ModNameWidth+LengthWidth)
		copy(data, strings.Repeat("n", NameSlots))
		copy(data[HeaderSize:], strings.Repeat("m", ModNameSlots))
		got, err := Read(bytes.NewReader(data), ReadFull)
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if codec.CountCodePoints(got.Name()) != NameSlots || codec.CountCodePoints(got.Mods()[0].Name()) != ModNameSlots {
			t.Errorf("Read() = %q, %q", got.Name(), got.Mods()[0].Name())
		}
	})
}

func TestSaveFile(t *testing.T) {
	t.Parallel()

	a, b := newTestSources(t)

	t.Run("replaces the file and keeps its name", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		path := filepath.Join(dir, "renamed.pck")
		if err := os.WriteFile(path, []byte("old"), 0o644); err != nil {
			t.Fatal(err)
		}
		pack, err := NewFromSources("Test", "", a, b)
		if err != nil {
			t.Fatal(err)
		}
		if err := pack.SaveFile(path); err != nil {
			t.Fatalf("SaveFile() error = %v", err)
		}
		got, err := Load(path, ReadFull)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if got.Name() != "Test" || got.Len() != 2 {
			t.Errorf("Load() = %q with %d mods", got.Name(), got.Len())
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 1 {
			t.Errorf("directory holds %d files, want only the pack", len(entries))
		}
	})

	t.Run("failed write keeps the old file", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		path := filepath.Join(dir, "Test.pck")
		old := []byte("old content")
		if err := os.WriteFile(path, old, 0o644); err != nil {
			t.Fatal(err)
		}
		pack := New()
		pack.name = "Test"
		pack.Add(&Mod{name: "meta.jar", size: 10})
		if err := pack.SaveFile(path); !errors.Is(err, ErrPayloadNotLoaded) {
			t.Fatalf("SaveFile() error = %v, want ErrPayloadNotLoaded", err)
		}
		if data, err := os.ReadFile(path); err != nil || !bytes.Equal(data, old) {
			t.Errorf("pack file changed: %q, %v", data, err)
		}
	})

	t.Run("missing directory", func(t *testing.T) {
		t.Parallel()
		pack, err := NewFromSources("Test", "", a)
		if err != nil {
			t.Fatal(err)
		}
		path := filepath.Join(t.TempDir(), "absent", "Test.pck")
		if err := pack.SaveFile(path); !errors.Is(err, ErrDestinationUnwritable) {
			t.Fatalf("SaveFile() error = %v, want ErrDestinationUnwritable", err)
		}
	})
}

func TestAdd_Nil(t *testing.T) {
	t.Parallel()

	pack := New()
	pack.Add(nil)
	pack.Add(NewMod("A.jar", nil))
	if pack.Len() != 1 {
		t.Errorf("Len() = %d, want 1", pack.Len())
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.pck"), ReadFull); !errors.Is(err, ErrSourceNotFound) {
		t.Errorf("Load(missing) error = %v, want ErrSourceNotFound", err)
	}
	if _, err := Load(filepath.Join(dir, "missing.pck"), ReadingMode(9)); !errors.Is(err, ErrInvalidMode) {
		t.Errorf("Load(bad mode) error = %v, want ErrInvalidMode", err)
	}
}

func TestSave_Errors(t *testing.T) {
	t.Parallel()

	a, _ := newTestSources(t)

	t.Run("empty name", func(t *testing.T) {
		t.Parallel()
		pack, err := NewFromSources("", "no name", a)
		if err != nil {
			t.Fatal(err)
		}
		dir := t.TempDir()
		if _, err := pack.Save(dir); !errors.Is(err, ErrInvalidPackName) {
			t.Fatalf("Save() error = %v, want ErrInvalidPackName", err)
		}
		if _, err := os.Stat(filepath.Join(dir, Ext)); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("Save() created %s", Ext)
		}
	})

	t.Run("name with separator", func(t *testing.T) {
		t.Parallel()
		pack, err := NewFromSources("../escape", "", a)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := pack.Save(t.TempDir()); !errors.Is(err, ErrInvalidPackName) {
			t.Fatalf("Save() error = %v, want ErrInvalidPackName", err)
		}
	})

	t.Run("target is a file", func(t *testing.T) {
		t.Parallel()
		pack, err := NewFromSources("Test", "", a)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := pack.Save(a); !errors.Is(err, ErrNotADirectory) {
			t.Fatalf("Save() error = %v, want ErrNotADirectory", err)
		}
	})

	t.Run("target missing", func(t *testing.T) {
		t.Parallel()
		pack, err := NewFromSources("Test", "", a)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := pack.Save(filepath.Join(t.TempDir(), "absent")); !errors.Is(err, ErrNotADirectory) {
			t.Fatalf("Save() error = %v, want ErrNotADirectory", err)
		}
	})
}

func TestDeploy_Errors(t *testing.T) {
	t.Parallel()

	a, _ := newTestSources(t)
	pack, err := NewFromSources("Test", "", a)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("target is a file", func(t *testing.T) {
		t.Parallel()
		if err := pack.Deploy(a); !errors.Is(err, ErrNotADirectory) {
			t.Fatalf("Deploy() error = %v, want ErrNotADirectory", err)
		}
	})

	t.Run("only leaf directory is created", func(t *testing.T) {
		t.Parallel()
		dir := filepath.Join(t.TempDir(), "missing", "leaf")
		if err := pack.Deploy(dir); !errors.Is(err, ErrDestinationUnwritable) {
			t.Fatalf("Deploy() error = %v, want ErrDestinationUnwritable", err)
		}
	})

	t.Run("unsafe mod name", func(t *testing.T) {
		t.Parallel()
		bad := New()
		bad.name = "Bad"
		bad.Add(&Mod{name: "../evil.jar", data: []byte{1}, size: 1})
		root := t.TempDir()
		target := filepath.Join(root, "mods")
		if err := bad.Deploy(target); !errors.Is(err, ErrUnsafeName) {
			t.Fatalf("Deploy() error = %v, want ErrUnsafeName", err)
		}
		if _, err := os.Stat(filepath.Join(root, "evil.jar")); !errors.Is(err, os.ErrNotExist) {
			t.Error("unsafe mod escaped the target directory")
		}
	})
}

func TestNewFromSources_ClipsMetadata(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("é", NameSlots+10)
	pack, err := NewFromSources(long, strings.Repeat("d", DescriptionSlots+1))
	if err != nil {
		t.Fatal(err)
	}
	if got := codec.CountCodePoints(pack.Name()); got != NameSlots {
		t.Errorf("name code points = %d, want %d", got, NameSlots)
	}
	if got := codec.CountCodePoints(pack.Description()); got != DescriptionSlots {
		t.Errorf("description code points = %d, want %d", got, DescriptionSlots)
	}

	got, err := Read(bytes.NewReader(encodePack(t, pack)), ReadMetaOnly)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got.MetaInfo() != pack.MetaInfo() {
		t.Error("clipped metadata did not round-trip")
	}
}

func TestKind(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "x.pck"), ReadFull)
	if Kind(err) != ErrSourceNotFound {
		t.Errorf("Kind() = %v, want ErrSourceNotFound", Kind(err))
	}
	if Kind(errors.New("other")) != nil {
		t.Error("Kind() of a foreign error should be nil")
	}
}
