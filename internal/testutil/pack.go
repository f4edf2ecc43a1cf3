// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"testing"

	"github.com/mcpacker/mcpacker/pkg/modpack"
)

// ModFixture is one mod of a test pack.
type ModFixture struct {
	Name string
	Data []byte
}

// WritePack saves a pack with the given metadata and mods into dir and
// returns the file path.
func WritePack(t testing.TB, dir, name, description string, mods ...ModFixture) string {
	t.Helper()

	pack := NewPack(name, description, mods...)
	path, err := pack.Save(dir)
	if err != nil {
		t.Fatalf("failed to save pack %q: %v", name, err)
	}
	return path
}

// NewPack builds an in-memory pack.
func NewPack(name, description string, mods ...ModFixture) *modpack.ModPack {
	pack, err := modpack.NewFromSources(name, description)
	if err != nil {
		// No sources, so nothing can fail.
		panic(err)
	}
	for _, m := range mods {
		pack.Add(modpack.NewMod(m.Name, m.Data))
	}
	return pack
}

// WriteRawPack writes raw bytes as dir/name, for corrupt-pack fixtures.
func WriteRawPack(t testing.TB, dir, name string, data []byte) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("failed to create %s: %v", dir, err)
	}
	return MustWriteFile(t, dir, name, data)
}
