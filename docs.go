package rosdoc

import "context"

// DefaultDocDirs are the package-relative directories searched for
// documentation when the user does not name one, in priority order.
var DefaultDocDirs = []string{"doc", "doc/source"}

// RenderableExtensions lists file extensions that mark a directory as
// containing documentation rather than only images or data.
var RenderableExtensions = []string{".rst", ".md", ".markdown"}

// SphinxConfigFile is the file that marks a directory as a Sphinx source root.
const SphinxConfigFile = "conf.py"

// IndexFile is the Sphinx master document.
const IndexFile = "index.rst"

// DocLayout describes located documentation.
type DocLayout struct {
	// Root is the package-relative documentation root using forward slashes.
	// Empty means no documentation was found.
	Root string `json:"root"`

	// Directories lists directories with renderable files, relative to the
	// searched directory. "." stands for the searched directory itself.
	Directories []string `json:"directories"`
}

// HasDocs reports whether a documentation root was resolved.
func (l *DocLayout) HasDocs() bool {
	return l != nil && l.Root != ""
}

// DocLocator finds documentation inside a package.
type DocLocator interface {
	// Locate searches packageDir for documentation. When userDocDir is
	// non-empty (relative to packageDir) it is the only directory searched.
	// Finding nothing is not an error: the layout is simply empty.
	Locate(ctx context.Context, packageDir, userDocDir string) (*DocLayout, error)
}

// DocStager copies located documentation into a build directory.
type DocStager interface {
	// Stage locates documentation in packageDir, copies it below buildDir
	// and makes sure the staged root has an index file.
	Stage(ctx context.Context, packageDir, buildDir, userDocDir string) (*DocLayout, error)
}
