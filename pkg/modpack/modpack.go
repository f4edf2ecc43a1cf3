// SPDX-License-Identifier: MPL-2.0

package modpack

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/mcpacker/mcpacker/pkg/codec"
)

const (
	// Ext is the file extension of mod packs.
	Ext = ".pck"

	// NameSlots is the capacity of a pack name in code points.
	NameSlots = 255
	// DescriptionSlots is the capacity of a pack description in code points.
	DescriptionSlots = 2048
	// NameWidth is the encoded width of the pack name field.
	NameWidth = NameSlots * codec.SlotWidth
	// DescriptionWidth is the encoded width of the pack description field.
	DescriptionWidth = DescriptionSlots * codec.SlotWidth
	// HeaderSize is the offset of the first mod frame.
	HeaderSize = NameWidth + DescriptionWidth

	opLoad   = "load"
	opRead   = "read pack"
	opSave   = "save"
	opDeploy = "deploy"
)

type (
	// ModPack is an ordered collection of mods with a name and description.
	// Mods are only ever appended; their order is the on-disk order.
	ModPack struct {
		name        string
		description string
		mods        []Mod
	}

	// MetaInfo is the display metadata of a pack.
	MetaInfo struct {
		Name        string `json:"name" yaml:"name"`
		Description string `json:"description" yaml:"description"`
	}

	// DeployOption configures Deploy.
	DeployOption func(*deployOptions)

	deployOptions struct {
		onExtract func(m *Mod, path string)
	}
)

// New returns an empty pack with a blank name and description.
func New() *ModPack {
	return &ModPack{}
}

// NewFromSources creates a pack and adds one mod per path, in order. An empty
// description means the pack has none. Name and description are clipped to
// NameSlots and DescriptionSlots code points.
//
// On error the pack is discarded and nil is returned.
func NewFromSources(name, description string, paths ...string) (*ModPack, error) {
	p := &ModPack{
		name:        codec.ClipText(name, NameSlots),
		description: codec.ClipText(description, DescriptionSlots),
	}
	if err := p.AddMods(paths...); err != nil {
		return nil, err
	}
	return p, nil
}

// AddMod appends a mod read from the file at path.
func (p *ModPack) AddMod(path string) error {
	m, err := NewModFromFile(path)
	if err != nil {
		return err
	}
	p.Add(m)
	return nil
}

// AddMods appends one mod per path and stops at the first failure. Mods
// appended before the failure stay in the pack; callers should discard it.
func (p *ModPack) AddMods(paths ...string) error {
	for _, path := range paths {
		if err := p.AddMod(path); err != nil {
			return err
		}
	}
	return nil
}

// Add appends m. A nil m is ignored.
func (p *ModPack) Add(m *Mod) {
	if m == nil {
		return
	}
	p.mods = append(p.mods, *m)
}

// Load opens and reads the pack file at path.
func Load(path string, mode ReadingMode) (*ModPack, error) {
	if err := mode.Validate(); err != nil {
		return nil, &Error{Op: opLoad, Path: path, Kind: ErrInvalidMode, Err: err}
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &Error{Op: opLoad, Path: path, Kind: ErrSourceNotFound, Err: err}
		}
		return nil, &Error{Op: opLoad, Path: path, Kind: ErrSourceUnreadable, Err: err}
	}
	defer f.Close()

	return read(f, mode, opLoad, path)
}

// Read reads a pack from rs, starting at its current position and ending at
// its end.
func Read(rs io.ReadSeeker, mode ReadingMode) (*ModPack, error) {
	return read(rs, mode, opRead, "")
}

func read(rs io.ReadSeeker, mode ReadingMode, op, path string) (*ModPack, error) {
	if err := mode.Validate(); err != nil {
		return nil, &Error{Op: op, Path: path, Kind: ErrInvalidMode, Err: err}
	}

	s, err := NewStream(rs)
	if err != nil {
		return nil, &Error{Op: op, Path: path, Kind: ErrSourceUnreadable, Err: err}
	}

	header, err := s.ReadField(HeaderSize)
	if err != nil {
		return nil, &Error{Op: op, Path: path, Kind: ErrMalformedHeader, Err: fmt.Errorf("header: %w", err)}
	}
	name, err := decodeText(header[:NameWidth], NameSlots)
	if err != nil {
		return nil, &Error{Op: op, Path: path, Kind: ErrMalformedHeader, Err: fmt.Errorf("name: %w", err)}
	}
	description, err := decodeText(header[NameWidth:], DescriptionSlots)
	if err != nil {
		return nil, &Error{Op: op, Path: path, Kind: ErrMalformedHeader, Err: fmt.Errorf("description: %w", err)}
	}

	p := &ModPack{name: name, description: description}
	for i := 0; s.Remaining() > 0; i++ {
		m, err := ReadMod(s, mode)
		if err != nil {
			return nil, &Error{Op: op, Path: path, Kind: Kind(err), Err: fmt.Errorf("mod %d: %w", i, err)}
		}
		p.mods = append(p.mods, *m)
	}
	return p, nil
}

// Save writes the pack to dir as FileName() and returns the written path.
// dir must be an existing directory. Packs holding mods read with
// ReadMetaOnly cannot be saved.
func (p *ModPack) Save(dir string) (string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return "", &Error{Op: opSave, Path: dir, Kind: ErrNotADirectory, Err: err}
	}
	if !info.IsDir() {
		return "", &Error{Op: opSave, Path: dir, Kind: ErrNotADirectory}
	}
	if p.name == "" {
		return "", &Error{Op: opSave, Path: dir, Kind: ErrInvalidPackName, Err: errors.New("pack name is empty")}
	}
	if !isPlainFileName(p.FileName()) {
		return "", &Error{Op: opSave, Path: p.name, Kind: ErrInvalidPackName, Err: errors.New("pack name must not contain path separators")}
	}

	path := filepath.Join(dir, p.FileName())
	if err := p.SaveFile(path); err != nil {
		return "", err
	}
	return path, nil
}

// SaveFile writes the pack to path, replacing any existing file. The pack
// is written to a temporary file in the same directory and renamed into
// place, so a failed write leaves the previous file untouched.
func (p *ModPack) SaveFile(path string) error {
	for i := range p.mods {
		if !p.mods[i].Loaded() {
			return &Error{Op: opSave, Path: p.mods[i].name, Kind: ErrPayloadNotLoaded}
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".mcpacker-*.tmp")
	if err != nil {
		return &Error{Op: opSave, Path: path, Kind: ErrDestinationUnwritable, Err: err}
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after a successful rename

	if err := writeFile(tmp, p); err != nil {
		return &Error{Op: opSave, Path: path, Kind: ErrDestinationUnwritable, Err: err}
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return &Error{Op: opSave, Path: path, Kind: ErrDestinationUnwritable, Err: err}
	}
	return nil
}

// writeFile writes p to f and closes it.
func writeFile(f *os.File, p *ModPack) error {
	if err := f.Chmod(0o644); err != nil {
		_ = f.Close()
		return err
	}
	w := bufio.NewWriter(f)
	if _, err := p.WriteTo(w); err != nil {
		_ = f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// decodeText decodes a text field holding at most slots code points.
func decodeText(field []byte, slots int) (string, error) {
	text, err := codec.DecodeText(field)
	if err != nil {
		return "", err
	}
	if n := codec.CountCodePoints(text); n > slots {
		return "", fmt.Errorf("%d code points exceed the capacity of %d", n, slots)
	}
	return text, nil
}

// WriteTo writes the serialized pack: name field, description field, then
// every mod frame in order.
func (p *ModPack) WriteTo(w io.Writer) (int64, error) {
	header := make([]byte, 0, HeaderSize)
	header = append(header, codec.EncodeText(p.name, NameSlots)...)
	header = append(header, codec.EncodeText(p.description, DescriptionSlots)...)

	n, err := w.Write(header)
	written := int64(n)
	if err != nil {
		return written, err
	}
	for i := range p.mods {
		k, err := p.mods[i].WriteTo(w)
		written += k
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

// OnExtract registers fn to be called after each mod is extracted.
func OnExtract(fn func(m *Mod, path string)) DeployOption {
	return func(o *deployOptions) {
		o.onExtract = fn
	}
}

// Deploy extracts every mod into dir, in pack order. dir is created if it
// does not exist; its parent must. Extraction stops at the first failure and
// files already written are left in place.
func (p *ModPack) Deploy(dir string, options ...DeployOption) error {
	var opts deployOptions
	for _, o := range options {
		o(&opts)
	}

	info, err := os.Stat(dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := os.Mkdir(dir, 0o755); err != nil {
			return &Error{Op: opDeploy, Path: dir, Kind: ErrDestinationUnwritable, Err: err}
		}
	case err != nil:
		return &Error{Op: opDeploy, Path: dir, Kind: ErrDestinationUnwritable, Err: err}
	case !info.IsDir():
		return &Error{Op: opDeploy, Path: dir, Kind: ErrNotADirectory}
	}

	for i := range p.mods {
		m := &p.mods[i]
		path, err := m.ExtractTo(dir)
		if err != nil {
			return err
		}
		if opts.onExtract != nil {
			opts.onExtract(m, path)
		}
	}
	return nil
}

// MetaInfo returns the pack's name and description.
func (p *ModPack) MetaInfo() MetaInfo {
	return MetaInfo{Name: p.name, Description: p.description}
}

// Name returns the pack name.
func (p *ModPack) Name() string { return p.name }

// Description returns the pack description.
func (p *ModPack) Description() string { return p.description }

// FileName returns the file name Save writes to.
func (p *ModPack) FileName() string { return p.name + Ext }

// Len returns the number of mods.
func (p *ModPack) Len() int { return len(p.mods) }

// Mods returns the mods in pack order. Payload slices are shared with the
// pack and must not be modified.
func (p *ModPack) Mods() []Mod { return slices.Clone(p.mods) }

// PayloadSize returns the sum of all declared payload sizes.
func (p *ModPack) PayloadSize() uint64 {
	var total uint64
	for i := range p.mods {
		total += p.mods[i].size
	}
	return total
}
