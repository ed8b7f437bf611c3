package fs

import (
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
)

// WriteFile writes data to path, creating parent directories as needed.
// The write is skipped when the file already holds identical content so
// Sphinx does not treat unchanged sources as modified.
// It reports whether the file was written.
func WriteFile(path string, data []byte) (bool, error) {
	if existing, err := os.ReadFile(path); err == nil &&
		len(existing) == len(data) && xxhash.Sum64(existing) == xxhash.Sum64(data) {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return false, err
	}
	return true, nil
}
