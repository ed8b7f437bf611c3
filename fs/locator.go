package fs

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/fwojciec/rosdoc"
)

// Ensure Locator implements rosdoc.DocLocator at compile time.
var _ rosdoc.DocLocator = (*Locator)(nil)

// Locator finds renderable documentation inside a package directory.
type Locator struct {
	logger *slog.Logger
}

// NewLocator creates a new Locator. A nil logger discards output.
func NewLocator(logger *slog.Logger) *Locator {
	return &Locator{logger: discardIfNil(logger)}
}

// Locate resolves the documentation root of the package at packageDir.
//
// Without userDocDir, the first default directory holding conf.py becomes
// the root. Otherwise directories are walked for renderable files and the
// first default directory with any becomes the root. A userDocDir that does
// not exist or lies outside the package is ignored with a warning.
func (l *Locator) Locate(ctx context.Context, packageDir, userDocDir string) (*rosdoc.DocLayout, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root := ""
	if userDocDir != "" {
		dir := userDocDir
		if filepath.IsAbs(dir) {
			if rel, err := filepath.Rel(packageDir, dir); err == nil {
				dir = rel
			}
		}
		cleaned := path.Clean(filepath.ToSlash(dir))
		if cleaned == ".." || strings.HasPrefix(cleaned, "../") || path.IsAbs(cleaned) {
			l.logger.Warn("user documentation directory is outside the package",
				"package", packageDir,
				"dir", userDocDir,
			)
		} else if isDir(filepath.Join(packageDir, filepath.FromSlash(cleaned))) {
			root = cleaned
		} else {
			l.logger.Warn("user documentation directory does not exist",
				"package", packageDir,
				"dir", userDocDir,
			)
		}
	}

	if root == "" {
		for _, candidate := range rosdoc.DefaultDocDirs {
			conf := filepath.Join(packageDir, filepath.FromSlash(candidate), rosdoc.SphinxConfigFile)
			if isFile(conf) {
				root = candidate
				break
			}
		}
	}

	candidates := rosdoc.DefaultDocDirs
	if root != "" {
		candidates = []string{root}
	}

	var dirs []string
	for _, candidate := range candidates {
		found, err := l.renderableDirs(ctx, filepath.Join(packageDir, filepath.FromSlash(candidate)))
		if err != nil {
			return nil, err
		}
		dirs = append(dirs, found...)

		if len(dirs) > 0 && root == "" {
			root = candidate
			break
		}
	}

	if len(dirs) == 0 {
		l.logger.Info("no documentation found", "package", packageDir)
	}

	return &rosdoc.DocLayout{Root: root, Directories: dirs}, nil
}

// renderableDirs walks docDir top-down and returns the slash-separated
// relative paths of directories holding at least one renderable file.
// Unreadable directories are skipped.
func (l *Locator) renderableDirs(ctx context.Context, docDir string) ([]string, error) {
	var dirs []string

	err := filepath.WalkDir(docDir, func(p string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if d != nil && d.IsDir() && p != docDir {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			return filepath.SkipDir
		}
		for _, entry := range entries {
			if entry.IsDir() || !isRenderable(entry.Name()) {
				continue
			}
			rel, err := filepath.Rel(docDir, p)
			if err != nil {
				return err
			}
			rel = filepath.ToSlash(rel)
			l.logger.Debug("found renderable documentation",
				"dir", rel,
				"file", entry.Name(),
			)
			dirs = append(dirs, rel)
			break
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return dirs, nil
}

func isRenderable(name string) bool {
	return slices.Contains(rosdoc.RenderableExtensions, filepath.Ext(name))
}
