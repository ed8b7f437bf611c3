package rosdoc

import "context"

// DocsBaseURL is the prefix of published package documentation.
// Cross references to a package resolve to DocsBaseURL + package name.
const DocsBaseURL = "http://docs.ros.org/en/latest/p/"

// BuildPrefix holds everything needed to set up a Sphinx build directory.
type BuildPrefix struct {
	// SourceDir is the checked-out package source.
	SourceDir string
	// BuildDir receives conf.py, index.rst and the source link.
	BuildDir string
	Package  *Package

	// TagFiles maps dependency package names to Doxygen tag files.
	TagFiles map[string]string
	// InventoryFiles maps dependency package names to Sphinx objects.inv files.
	InventoryFiles map[string]string
}

// Validate returns an error if the prefix is missing required fields.
func (b *BuildPrefix) Validate() error {
	if b.Package == nil {
		return Errorf(EINVALID, "build prefix package required")
	}
	if err := b.Package.Validate(); err != nil {
		return err
	}
	if b.SourceDir == "" {
		return Errorf(EINVALID, "build prefix source directory required")
	}
	if b.BuildDir == "" {
		return Errorf(EINVALID, "build prefix build directory required")
	}
	return nil
}

// CrossReferences holds cross-reference files keyed by package name.
type CrossReferences struct {
	TagFiles       map[string]string
	InventoryFiles map[string]string
}

// PrefixWriter writes the Sphinx configuration for a package build.
type PrefixWriter interface {
	// WritePrefix writes conf.py and index.rst into the build directory and
	// links the package source into it.
	WritePrefix(ctx context.Context, prefix *BuildPrefix) error
}
