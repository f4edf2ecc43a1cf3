// SPDX-License-Identifier: MPL-2.0

// Package modpack reads and writes mod packs: single .pck files bundling any
// number of mod archives with a name and a description.
//
// File layout (all integers big-endian, all text UTF-8 in zero-padded
// four-byte slots, see package codec):
//
//	offset  size    field
//	0       1020    pack name (255 slots)
//	1020    8192    pack description (2048 slots)
//	9212    ...     mods until end of file:
//	                  1020  mod name (255 slots)
//	                  8     payload length (uint64)
//	                  n     payload
//
// A pack can be read in two modes. ReadFull loads every payload into memory.
// ReadMetaOnly seeks over payloads and keeps only names and sizes, which is
// what catalog scans over many large packs use.
//
// Typical use:
//
//	pack, err := modpack.NewFromSources("Survival", "Base mods", "a.jar", "b.jar")
//	if err != nil {
//		return err
//	}
//	path, err := pack.Save("packs")
//
//	loaded, err := modpack.Load(path, modpack.ReadFull)
//	if err != nil {
//		return err
//	}
//	err = loaded.Deploy("mods")
package modpack
