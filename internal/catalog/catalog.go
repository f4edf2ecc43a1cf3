// SPDX-License-Identifier: MPL-2.0

// Package catalog discovers the mod packs of a directory.
//
// A Catalog scans its directory once, reading only the metadata of every
// regular *.pck file, and keeps the result until Rescan. It is an explicit
// value: commands build one from the configured packs directory.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/mcpacker/mcpacker/pkg/modpack"
)

var (
	// ErrPackNotFound is returned by Find when no pack matches a reference.
	ErrPackNotFound = errors.New("pack not found")
	// ErrAmbiguousPack is returned by Find when a name matches several packs.
	ErrAmbiguousPack = errors.New("ambiguous pack name")
)

type (
	// ModInfo describes one mod of a pack without its payload.
	ModInfo struct {
		Name string `json:"name" yaml:"name"`
		Size uint64 `json:"size" yaml:"size"`
	}

	// Entry is one pack file found by a scan. Err is set when the file could
	// not be read; the metadata fields are then empty.
	Entry struct {
		// Path is the pack file path.
		Path string `json:"path" yaml:"path"`
		// Meta is the pack's name and description.
		Meta modpack.MetaInfo `json:"meta" yaml:"meta"`
		// Mods lists the pack's mods in order.
		Mods []ModInfo `json:"mods" yaml:"mods"`
		// PayloadSize is the total declared size of all mods.
		PayloadSize uint64 `json:"payload_size" yaml:"payload_size"`
		// Err is the load failure, if any.
		Err error `json:"-" yaml:"-"`
	}

	// NotFoundError is returned by Find. It wraps ErrPackNotFound.
	NotFoundError struct {
		Ref string
		Dir string
	}

	// AmbiguousError is returned by Find. It wraps ErrAmbiguousPack.
	AmbiguousError struct {
		Ref     string
		Matches []string
	}

	// Option configures a Catalog.
	Option func(*Catalog)

	// Catalog is the set of packs in one directory.
	Catalog struct {
		dir    string
		logger *log.Logger

		mu      sync.Mutex
		entries []*Entry
		scanned bool
	}
)

// WithLogger sets the logger used for skipped and damaged files.
func WithLogger(l *log.Logger) Option {
	return func(c *Catalog) {
		c.logger = l
	}
}

// New returns a catalog of dir. Nothing is read until the first scan.
func New(dir string, opts ...Option) *Catalog {
	c := &Catalog{dir: dir, logger: log.New(io.Discard)}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Dir returns the scanned directory.
func (c *Catalog) Dir() string { return c.dir }

// Entries returns every pack file in the directory, damaged ones included,
// sorted by file name. The directory is scanned on first use only. A missing
// directory is an empty catalog.
func (c *Catalog) Entries(ctx context.Context) ([]*Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.scanned {
		if err := c.scanLocked(ctx); err != nil {
			return nil, err
		}
	}
	return slices.Clone(c.entries), nil
}

// Packs returns the readable packs, sorted by file name.
func (c *Catalog) Packs(ctx context.Context) ([]*Entry, error) {
	entries, err := c.Entries(ctx)
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(entries, func(e *Entry) bool { return e.Err != nil }), nil
}

// Rescan discards the cached result and scans again.
func (c *Catalog) Rescan(ctx context.Context) ([]*Entry, error) {
	c.mu.Lock()
	c.scanned = false
	c.entries = nil
	c.mu.Unlock()
	return c.Entries(ctx)
}

func (c *Catalog) scanLocked(ctx context.Context) error {
	dirEntries, err := os.ReadDir(c.dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		c.logger.Debug("packs directory does not exist", "dir", c.dir)
		c.entries, c.scanned = nil, true
		return nil
	case err != nil:
		kind := modpack.ErrSourceUnreadable
		if info, statErr := os.Stat(c.dir); statErr == nil && !info.IsDir() {
			kind = modpack.ErrNotADirectory
		}
		return &modpack.Error{Op: "scan", Path: c.dir, Kind: kind, Err: err}
	}

	var entries []*Entry
	for _, de := range dirEntries {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("scan canceled: %w", err)
		}
		if !de.Type().IsRegular() || !IsPackFile(de.Name()) {
			continue
		}

		entry := Load(filepath.Join(c.dir, de.Name()))
		if entry.Err != nil {
			c.logger.Warn("skipping unreadable pack", "file", entry.Path, "err", entry.Err)
		}
		entries = append(entries, entry)
	}

	c.logger.Debug("scanned packs directory", "dir", c.dir, "packs", len(entries))
	c.entries, c.scanned = entries, true
	return nil
}

// Load reads the metadata of the pack file at path into an Entry.
func Load(path string) *Entry {
	entry := &Entry{Path: path}
	pack, err := modpack.Load(path, modpack.ReadMetaOnly)
	if err != nil {
		entry.Err = err
		return entry
	}

	entry.Meta = pack.MetaInfo()
	entry.PayloadSize = pack.PayloadSize()
	for _, m := range pack.Mods() {
		entry.Mods = append(entry.Mods, ModInfo{Name: m.Name(), Size: m.Size()})
	}
	return entry
}

// Find resolves ref to a pack. ref is tried as a path to an existing file
// first, then as a pack name, then as a file name stem in the catalog.
func (c *Catalog) Find(ctx context.Context, ref string) (*Entry, error) {
	if info, err := os.Stat(ref); err == nil && info.Mode().IsRegular() {
		entry := Load(ref)
		return entry, entry.Err
	}

	packs, err := c.Packs(ctx)
	if err != nil {
		return nil, err
	}

	for _, match := range []func(*Entry) bool{
		func(e *Entry) bool { return e.Meta.Name == ref },
		func(e *Entry) bool { return e.Stem() == ref },
		func(e *Entry) bool { return strings.EqualFold(e.Meta.Name, ref) },
	} {
		var found []*Entry
		for _, e := range packs {
			if match(e) {
				found = append(found, e)
			}
		}
		switch len(found) {
		case 0:
			continue
		case 1:
			return found[0], nil
		default:
			paths := make([]string, len(found))
			for i, e := range found {
				paths[i] = e.Path
			}
			return nil, &AmbiguousError{Ref: ref, Matches: paths}
		}
	}
	return nil, &NotFoundError{Ref: ref, Dir: c.dir}
}

// IsPackFile reports whether name has the pack extension.
func IsPackFile(name string) bool {
	return filepath.Ext(name) == modpack.Ext
}

// Stem returns the file name without the pack extension.
func (e *Entry) Stem() string {
	return strings.TrimSuffix(filepath.Base(e.Path), modpack.Ext)
}

// DisplayName returns the pack name, or the file stem when the name is empty.
func (e *Entry) DisplayName() string {
	if e.Meta.Name != "" {
		return e.Meta.Name
	}
	return e.Stem()
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("pack %q not found in %s", e.Ref, e.Dir)
}

// Unwrap returns ErrPackNotFound for errors.Is() compatibility.
func (e *NotFoundError) Unwrap() error { return ErrPackNotFound }

// Error implements the error interface.
func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("pack name %q matches %d packs: %s", e.Ref, len(e.Matches), strings.Join(e.Matches, ", "))
}

// Unwrap returns ErrAmbiguousPack for errors.Is() compatibility.
func (e *AmbiguousError) Unwrap() error { return ErrAmbiguousPack }
