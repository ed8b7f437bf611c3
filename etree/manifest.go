// Package etree reads ROS package manifests (package.xml) using the etree
// XML library.
package etree

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/rosdoc"
)

// ManifestFile is the manifest file name inside a package directory.
const ManifestFile = "package.xml"

// dependencyTags are the manifest elements naming other packages, across
// manifest formats 1 to 3.
var dependencyTags = []string{
	"depend",
	"build_depend",
	"build_export_depend",
	"exec_depend",
	"run_depend",
	"doc_depend",
}

// Ensure ManifestReader implements rosdoc.PackageReader at compile time.
var _ rosdoc.PackageReader = (*ManifestReader)(nil)

// ManifestReader parses package.xml files.
type ManifestReader struct{}

// NewManifestReader creates a new ManifestReader.
func NewManifestReader() *ManifestReader {
	return &ManifestReader{}
}

// ReadPackage parses dir/package.xml.
func (r *ManifestReader) ReadPackage(ctx context.Context, dir string) (*rosdoc.Package, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(dir, ManifestFile)
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, rosdoc.Errorf(rosdoc.ENOTFOUND, "no %s in %s", ManifestFile, dir)
	} else if err != nil {
		return nil, err
	}
	defer f.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(f); err != nil {
		return nil, rosdoc.Errorf(rosdoc.EINVALID, "parsing %s: %v", path, err)
	}

	pkg, err := ParseManifest(doc)
	if err != nil {
		return nil, err
	}
	pkg.Path = dir
	return pkg, nil
}

// ParseManifest extracts package metadata from a parsed manifest document.
func ParseManifest(doc *etree.Document) (*rosdoc.Package, error) {
	root := doc.Root()
	if root == nil || root.Tag != "package" {
		return nil, rosdoc.Errorf(rosdoc.EINVALID, "manifest root element must be <package>")
	}

	pkg := &rosdoc.Package{
		Name:        childText(root, "name"),
		Version:     childText(root, "version"),
		Description: childText(root, "description"),
	}
	if err := pkg.Validate(); err != nil {
		return nil, err
	}

	for _, el := range root.SelectElements("license") {
		if license := normalizeSpace(el.Text()); license != "" {
			pkg.Licenses = append(pkg.Licenses, license)
		}
	}

	for _, el := range root.SelectElements("url") {
		value := strings.TrimSpace(el.Text())
		if value == "" {
			continue
		}
		pkg.URLs = append(pkg.URLs, rosdoc.URL{
			Value: value,
			Type:  el.SelectAttrValue("type", rosdoc.URLTypeWebsite),
		})
	}

	seen := make(map[string]bool)
	for _, el := range root.ChildElements() {
		if !isDependencyTag(el.Tag) {
			continue
		}
		name := strings.TrimSpace(el.Text())
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		pkg.Dependencies = append(pkg.Dependencies, name)
	}

	return pkg, nil
}

func isDependencyTag(tag string) bool {
	for _, t := range dependencyTags {
		if t == tag {
			return true
		}
	}
	return false
}

func childText(el *etree.Element, tag string) string {
	child := el.SelectElement(tag)
	if child == nil {
		return ""
	}
	return normalizeSpace(child.Text())
}

// normalizeSpace collapses runs of whitespace, which manifests use freely
// inside multi-line elements.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
