package fs

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/rosdoc"
)

// Ensure Stager implements rosdoc.DocStager at compile time.
var _ rosdoc.DocStager = (*Stager)(nil)

// IndexPrefix is prepended to the slug of generated subdirectory listings.
const IndexPrefix = "_index_"

const documentationIndex = `Documentation
=============

.. toctree::
   :maxdepth: 1
   :glob:

   *
`

// Stager copies located documentation into a Sphinx build directory.
type Stager struct {
	locator rosdoc.DocLocator
	logger  *slog.Logger
}

// NewStager creates a new Stager. A nil logger discards output.
func NewStager(locator rosdoc.DocLocator, logger *slog.Logger) *Stager {
	return &Stager{locator: locator, logger: discardIfNil(logger)}
}

// Stage locates documentation in packageDir and copies its root to the same
// relative location below buildDir. userDocDir may be absolute or relative
// to packageDir.
//
// A failed copy is logged and reported as an empty layout rather than an
// error. When the staged root has no index.rst, a listing per documentation
// subdirectory and a glob index are generated.
func (s *Stager) Stage(ctx context.Context, packageDir, buildDir, userDocDir string) (*rosdoc.DocLayout, error) {
	userDocDir = s.relativeUserDocDir(packageDir, userDocDir)

	layout, err := s.locator.Locate(ctx, packageDir, userDocDir)
	if err != nil {
		return nil, err
	}

	if userDocDir != "" && len(layout.Directories) == 0 {
		s.logger.Warn("user documentation directory has no renderable documentation", "dir", userDocDir)
	}
	if !layout.HasDocs() {
		return layout, nil
	}

	src := filepath.Join(packageDir, filepath.FromSlash(layout.Root))
	dst := filepath.Join(buildDir, filepath.FromSlash(layout.Root))

	if err := s.copy(ctx, src, dst, layout.Root == "."); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		s.logger.Error("failed to copy documentation content", "src", src, "err", err)
		return &rosdoc.DocLayout{}, nil
	}

	if isFile(filepath.Join(dst, rosdoc.IndexFile)) {
		s.logger.Debug("using existing index", "dir", dst)
		return layout, nil
	}

	if err := s.writeIndexes(dst, layout.Directories); err != nil {
		return nil, err
	}

	return layout, nil
}

// copy replaces dst with a copy of src. With merge set, src is copied over
// dst in place; the build directory itself is never replaced.
func (s *Stager) copy(ctx context.Context, src, dst string, merge bool) error {
	if merge {
		return CopyDir(ctx, src, dst)
	}

	staging := newStagingDir(dst)
	if err := staging.Copy(ctx, src); err != nil {
		_ = staging.Abort()
		return err
	}
	if err := staging.Commit(); err != nil {
		_ = staging.Abort()
		return err
	}
	return nil
}

// relativeUserDocDir converts userDocDir to a path relative to packageDir.
// Directories that do not exist are dropped with a warning.
func (s *Stager) relativeUserDocDir(packageDir, userDocDir string) string {
	if userDocDir == "" {
		return ""
	}

	abs := userDocDir
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(packageDir, abs)
	}
	if !isDir(abs) {
		s.logger.Warn("user-specified documentation directory does not exist", "dir", userDocDir)
		return ""
	}

	rel, err := filepath.Rel(packageDir, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		s.logger.Warn("user-specified documentation directory is outside the package", "dir", userDocDir)
		return ""
	}
	s.logger.Info("using user-specified documentation directory", "dir", abs, "relative", rel)
	return filepath.ToSlash(rel)
}

// writeIndexes writes a glob listing for every documentation subdirectory
// and, if any were written, a top-level index that includes them.
// Directories whose slugs collide share one listing, the last one wins.
func (s *Stager) writeIndexes(dir string, subdirs []string) error {
	var listed int
	listedBy := make(map[string]string)
	for _, rel := range subdirs {
		if rel == "." {
			continue
		}
		name := IndexPrefix + Slugify(rel) + ".rst"
		if prev, ok := listedBy[name]; ok {
			s.logger.Warn("subdirectory listing name reused, earlier listing overwritten",
				"file", name,
				"dir", rel,
				"previous", prev,
			)
		}
		listedBy[name] = rel
		if _, err := WriteFile(filepath.Join(dir, name), []byte(SubdirectoryListing(rel))); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		listed++
	}

	if listed == 0 {
		return nil
	}
	if _, err := WriteFile(filepath.Join(dir, rosdoc.IndexFile), []byte(documentationIndex)); err != nil {
		return fmt.Errorf("write %s: %w", rosdoc.IndexFile, err)
	}
	return nil
}

// SubdirectoryListing returns the reStructuredText page that globs every
// document in the slash-separated directory rel.
func SubdirectoryListing(rel string) string {
	var b strings.Builder
	b.WriteString(rel)
	b.WriteString("/\n")
	b.WriteString(strings.Repeat("=", utf8.RuneCountInString(rel)+1))
	b.WriteString("\n\n")
	b.WriteString(".. toctree::\n")
	b.WriteString("   :caption: Documentation in this subdirectory\n")
	b.WriteString("   :maxdepth: 2\n")
	b.WriteString("   :glob:\n\n")
	b.WriteString("   ")
	b.WriteString(rel)
	b.WriteString("/*\n")
	return b.String()
}
