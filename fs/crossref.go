package fs

import (
	"os"
	"path/filepath"
	"slices"

	"github.com/fwojciec/rosdoc"
)

// InventoryFileName is the name Sphinx gives its cross-reference inventory.
const InventoryFileName = "objects.inv"

// FindCrossReferences collects tag and inventory files from a cross-reference
// directory laid out as <dir>/<package>/<package>.tag and
// <dir>/<package>/objects.inv. When only is non-nil, packages not listed in
// it are ignored. A missing or empty dir yields empty maps.
func FindCrossReferences(dir string, only []string) (*rosdoc.CrossReferences, error) {
	refs := &rosdoc.CrossReferences{
		TagFiles:       make(map[string]string),
		InventoryFiles: make(map[string]string),
	}
	if dir == "" {
		return refs, nil
	}

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return refs, nil
	} else if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() {
			continue
		}
		if only != nil && !slices.Contains(only, name) {
			continue
		}

		tag := filepath.Join(dir, name, name+".tag")
		if isFile(tag) {
			refs.TagFiles[name] = tag
		}
		inv := filepath.Join(dir, name, InventoryFileName)
		if isFile(inv) {
			refs.InventoryFiles[name] = inv
		}
	}

	return refs, nil
}
