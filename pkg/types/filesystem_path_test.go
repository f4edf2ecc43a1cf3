// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestFilesystemPath_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path FilesystemPath
		want bool
	}{
		{"absolute path", FilesystemPath("/srv/packs"), true},
		{"relative path", FilesystemPath("packs"), true},
		{"path with spaces", FilesystemPath("my mods"), true},
		{"dot path", FilesystemPath("."), true},
		{"empty is invalid", FilesystemPath(""), false},
		{"whitespace only is invalid", FilesystemPath("   "), false},
		{"NUL is invalid", FilesystemPath("pa\x00cks"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			valid, errs := tt.path.IsValid()
			if valid != tt.want {
				t.Fatalf("FilesystemPath(%q).IsValid() = %v, want %v", tt.path, valid, tt.want)
			}
			if tt.want {
				return
			}
			if len(errs) != 1 || !errors.Is(errs[0], ErrInvalidFilesystemPath) {
				t.Errorf("errors = %v, want one wrapping ErrInvalidFilesystemPath", errs)
			}
			var fpErr *InvalidFilesystemPathError
			if !errors.As(errs[0], &fpErr) {
				t.Errorf("error should be *InvalidFilesystemPathError, got: %T", errs[0])
			}
		})
	}
}

func TestFilesystemPath_Resolve(t *testing.T) {
	t.Parallel()

	base := filepath.Join(string(filepath.Separator), "home", "me")
	abs := filepath.Join(string(filepath.Separator), "srv", "packs")

	if got := FilesystemPath("packs").Resolve(base); got.String() != filepath.Join(base, "packs") {
		t.Errorf("Resolve(relative) = %q", got)
	}
	if got := FilesystemPath(abs).Resolve(base); got.String() != abs {
		t.Errorf("Resolve(absolute) = %q, want %q", got, abs)
	}
	if got := FilesystemPath("a/../packs").Resolve(""); got.String() != "packs" {
		t.Errorf("Resolve(no base) = %q, want %q", got, "packs")
	}
}
