// Package sphinx renders the Sphinx configuration of a package build and
// prepares the build directory it lives in.
package sphinx

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/rosdoc"
	"github.com/fwojciec/rosdoc/fs"
)

// Ensure PrefixWriter implements rosdoc.PrefixWriter at compile time.
var _ rosdoc.PrefixWriter = (*PrefixWriter)(nil)

// PrefixWriter writes conf.py and index.rst for a package and links the
// package source into the build directory.
type PrefixWriter struct {
	logger *slog.Logger
}

// NewPrefixWriter creates a new PrefixWriter. A nil logger discards output.
func NewPrefixWriter(logger *slog.Logger) *PrefixWriter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &PrefixWriter{logger: logger}
}

// WritePrefix writes the generated files into prefix.BuildDir and creates
// the link BuildDir/<package name> pointing at prefix.SourceDir.
func (w *PrefixWriter) WritePrefix(ctx context.Context, prefix *rosdoc.BuildPrefix) error {
	if err := prefix.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	conf, err := RenderConfig(prefix)
	if err != nil {
		return err
	}
	index, err := RenderIndex(prefix)
	if err != nil {
		return err
	}

	for name, content := range map[string]string{
		rosdoc.SphinxConfigFile: conf,
		rosdoc.IndexFile:        index,
	} {
		written, err := fs.WriteFile(filepath.Join(prefix.BuildDir, name), []byte(content))
		if err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		w.logger.Debug("generated file", "file", name, "written", written)
	}

	return w.linkSource(prefix)
}

// linkSource makes BuildDir/<name> a relative symbolic link to SourceDir.
// A link with a different or dangling target is replaced. Anything that is
// not a symbolic link is left in place.
func (w *PrefixWriter) linkSource(prefix *rosdoc.BuildPrefix) error {
	buildDir, err := filepath.Abs(prefix.BuildDir)
	if err != nil {
		return err
	}
	sourceDir, err := filepath.Abs(prefix.SourceDir)
	if err != nil {
		return err
	}
	target, err := filepath.Rel(buildDir, sourceDir)
	if err != nil {
		return fmt.Errorf("relative source path: %w", err)
	}
	link := filepath.Join(buildDir, prefix.Package.Name)

	info, err := os.Lstat(link)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return err
	case info.Mode()&os.ModeSymlink == 0:
		w.logger.Warn("source link path is occupied, leaving it in place", "path", link)
		return nil
	default:
		current, err := os.Readlink(link)
		if err != nil {
			return err
		}
		if current == target {
			return nil
		}
		w.logger.Info("replacing stale source link", "path", link, "old", current, "new", target)
		if err := os.Remove(link); err != nil {
			return err
		}
	}

	if err := os.Symlink(target, link); err != nil {
		return fmt.Errorf("link package source: %w", err)
	}
	return nil
}

// RenderConfig returns the conf.py content for the prefix.
func RenderConfig(prefix *rosdoc.BuildPrefix) (string, error) {
	return render(confPy, newTemplateData(prefix))
}

// RenderIndex returns the top-level index.rst content for the prefix.
func RenderIndex(prefix *rosdoc.BuildPrefix) (string, error) {
	return render(indexRst, newTemplateData(prefix))
}

func newTemplateData(prefix *rosdoc.BuildPrefix) *templateData {
	pkg := prefix.Package
	data := &templateData{
		Name:         pkg.Name,
		Version:      pkg.Version,
		ShortVersion: pkg.ShortVersion(),
		Licenses:     pkg.LicenseString(),
		Description:  pkg.Description,
		Underline:    strings.Repeat("=", utf8.RuneCountInString(pkg.Name)),
	}

	for _, name := range sortedKeys(prefix.TagFiles) {
		data.TagFileEntries = append(data.TagFileEntries, TagFileEntry(name, prefix.TagFiles[name]))
	}
	for _, name := range sortedKeys(prefix.InventoryFiles) {
		data.IntersphinxMappings = append(data.IntersphinxMappings, IntersphinxMapping(name, prefix.InventoryFiles[name]))
	}
	return data
}

// TagFileEntry returns the Doxygen TAGFILES line linking a dependency's tag
// file to its published documentation.
func TagFileEntry(packageName, tagFile string) string {
	return fmt.Sprintf(`TAGFILES +="%s=%s%s"`, tagFile, rosdoc.DocsBaseURL, packageName)
}

// IntersphinxMapping returns the intersphinx_mapping entry resolving a
// dependency's references through its local inventory file.
func IntersphinxMapping(packageName, inventoryFile string) string {
	return fmt.Sprintf(`'%s': ('%s%s', ('%s'))`, packageName, rosdoc.DocsBaseURL, packageName, inventoryFile)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
