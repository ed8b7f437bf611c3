package fs

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fwojciec/rosdoc"
)

// ManifestFile is the file that marks a directory as a ROS package.
const ManifestFile = "package.xml"

// IgnoreMarkers are files that exclude a directory tree from discovery.
var IgnoreMarkers = []string{"COLCON_IGNORE", "AMENT_IGNORE", "CATKIN_IGNORE"}

// Ensure PackageFinder implements rosdoc.PackageFinder at compile time.
var _ rosdoc.PackageFinder = (*PackageFinder)(nil)

// PackageFinder discovers ROS packages by walking a directory tree.
type PackageFinder struct {
	reader rosdoc.PackageReader
	logger *slog.Logger
}

// NewPackageFinder creates a new PackageFinder that parses manifests with reader.
func NewPackageFinder(reader rosdoc.PackageReader, logger *slog.Logger) *PackageFinder {
	return &PackageFinder{reader: reader, logger: discardIfNil(logger)}
}

// FindPackages returns every package below root, sorted by name.
// Packages are not nested: the walk stops descending at a manifest.
// Hidden directories and directories holding an ignore marker are skipped,
// as are manifests that cannot be parsed.
func (f *PackageFinder) FindPackages(ctx context.Context, root string) ([]*rosdoc.Package, error) {
	if !isDir(root) {
		return nil, rosdoc.Errorf(rosdoc.ENOTFOUND, "package path %q is not a directory", root)
	}

	var packages []*rosdoc.Package
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if d != nil && d.IsDir() && p != root {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		for _, marker := range IgnoreMarkers {
			if isFile(filepath.Join(p, marker)) {
				return filepath.SkipDir
			}
		}
		if !isFile(filepath.Join(p, ManifestFile)) {
			return nil
		}

		pkg, err := f.reader.ReadPackage(ctx, p)
		if err != nil {
			f.logger.Warn("skipping package with unreadable manifest", "path", p, "err", err)
			return filepath.SkipDir
		}
		packages = append(packages, pkg)
		return filepath.SkipDir
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(packages, func(i, j int) bool {
		return packages[i].Name < packages[j].Name
	})
	return packages, nil
}
