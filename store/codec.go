// Package store implements the persistence adapters for key material,
// precomputed shares, and peer addresses (§4.H's "opaque to the core"
// stores), plus the filesystem helpers in fsutil.go.
package store

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Tomler is any type with a TOML-encodable view, used by the generic
// Save/Load helpers below.
type Tomler interface {
	TOML() interface{}
	FromTOML(v interface{}) error
	TOMLValue() interface{}
}

// Save TOML-encodes t to path. If secure is set, the file is created with
// owner-only permissions via CreateSecureFile (used for secret-key
// material); otherwise a plain os.Create is used.
func Save(path string, t Tomler, secure bool) error {
	var fd *os.File
	var err error
	if secure {
		fd, err = CreateSecureFile(path)
	} else {
		fd, err = os.Create(path)
	}
	if err != nil {
		return fmt.Errorf("store: create %s: %w", path, err)
	}
	defer fd.Close()
	if err := toml.NewEncoder(fd).Encode(t.TOML()); err != nil {
		return fmt.Errorf("store: encode %s: %w", path, err)
	}
	return nil
}

// Load decodes the TOML file at path into t.
func Load(path string, t Tomler) error {
	tomlValue := t.TOMLValue()
	if _, err := toml.DecodeFile(path, tomlValue); err != nil {
		return fmt.Errorf("store: decode %s: %w", path, err)
	}
	return t.FromTOML(tomlValue)
}
