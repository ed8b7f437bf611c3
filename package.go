package rosdoc

import (
	"context"
	"strings"
)

// URL types used in package manifests.
const (
	URLTypeWebsite    = "website"
	URLTypeRepository = "repository"
	URLTypeBugTracker = "bugtracker"
)

// Package represents a ROS package as described by its package.xml.
type Package struct {
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	Description  string   `json:"description"`
	Licenses     []string `json:"licenses"`
	URLs         []URL    `json:"urls"`
	Dependencies []string `json:"dependencies"`

	// Path is the directory containing package.xml.
	Path string `json:"path"`
}

// URL is a typed link declared by a package.
type URL struct {
	Value string `json:"value"`
	Type  string `json:"type"`
}

// Validate returns an error if the package contains invalid fields.
func (p *Package) Validate() error {
	if p.Name == "" {
		return Errorf(EINVALID, "package name required")
	}
	return nil
}

// ShortVersion returns the major.minor part of the version.
// Example: 1.2.3 → 1.2
func (p *Package) ShortVersion() string {
	parts := strings.Split(p.Version, ".")
	if len(parts) > 2 {
		parts = parts[:2]
	}
	return strings.Join(parts, ".")
}

// LicenseString returns all licenses joined by a comma.
func (p *Package) LicenseString() string {
	return strings.Join(p.Licenses, ", ")
}

// HasURLType reports whether the package declares a URL of the given type.
func (p *Package) HasURLType(typ string) bool {
	for _, u := range p.URLs {
		if u.Type == typ {
			return true
		}
	}
	return false
}

// PackageReader reads package metadata from a package directory.
type PackageReader interface {
	// ReadPackage parses the manifest in dir.
	// Returns ENOTFOUND if dir has no manifest, EINVALID if it cannot be parsed.
	ReadPackage(ctx context.Context, dir string) (*Package, error)
}

// PackageFinder discovers packages below a directory.
type PackageFinder interface {
	// FindPackages returns all packages under root, sorted by name.
	FindPackages(ctx context.Context, root string) ([]*Package, error)
}
