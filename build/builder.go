// Package build orchestrates documentation builds. It prepares single
// packages for Sphinx and scans directory trees of packages in parallel.
package build

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fwojciec/rosdoc"
	"github.com/fwojciec/rosdoc/fs"
)

// Ensure Builder implements rosdoc.Builder at compile time.
var _ rosdoc.Builder = (*Builder)(nil)

// Builder prepares the Sphinx build directory of a single package:
// enrich metadata, stage user documentation, collect cross references and
// write conf.py and index.rst.
type Builder struct {
	Stager   rosdoc.DocStager
	Prefix   rosdoc.PrefixWriter
	Enricher *Enricher

	// DocBuildDir holds one build directory per package.
	DocBuildDir string
	// CrossReferenceDir holds tag and inventory files of other packages.
	// Optional.
	CrossReferenceDir string
	// UserDocDir overrides documentation discovery. Optional, relative to
	// each package.
	UserDocDir string

	Logger *slog.Logger
}

// Build prepares the documentation build of pkg below DocBuildDir/<name>.
func (b *Builder) Build(ctx context.Context, pkg *rosdoc.Package) error {
	if err := pkg.Validate(); err != nil {
		return err
	}
	if pkg.Path == "" {
		return rosdoc.Errorf(rosdoc.EINVALID, "package %q has no source path", pkg.Name)
	}
	if b.DocBuildDir == "" {
		return rosdoc.Errorf(rosdoc.EINVALID, "doc build directory required")
	}
	logger := b.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	buildDir := BuildDir(b.DocBuildDir, pkg.Name)

	if b.Enricher != nil {
		b.Enricher.Enrich(ctx, pkg)
	}

	layout, err := b.Stager.Stage(ctx, pkg.Path, buildDir, b.UserDocDir)
	if err != nil {
		return fmt.Errorf("stage documentation: %w", err)
	}

	// A package without dependencies gets no cross references at all.
	refs, err := fs.FindCrossReferences(b.CrossReferenceDir, append([]string{}, pkg.Dependencies...))
	if err != nil {
		return fmt.Errorf("find cross references: %w", err)
	}

	if err := b.Prefix.WritePrefix(ctx, &rosdoc.BuildPrefix{
		SourceDir:      pkg.Path,
		BuildDir:       buildDir,
		Package:        pkg,
		TagFiles:       refs.TagFiles,
		InventoryFiles: refs.InventoryFiles,
	}); err != nil {
		return fmt.Errorf("write build prefix: %w", err)
	}

	logger.Info("prepared documentation build",
		"package", pkg.Name,
		"build_dir", buildDir,
		"doc_root", layout.Root,
		"doc_dirs", len(layout.Directories),
		"tag_files", len(refs.TagFiles),
		"inventory_files", len(refs.InventoryFiles),
	)
	return nil
}

// BuildDir returns the build directory of the named package.
func BuildDir(docBuildDir, packageName string) string {
	return filepath.Join(docBuildDir, packageName)
}
