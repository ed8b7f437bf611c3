package mock

import (
	"context"

	"github.com/fwojciec/rosdoc"
)

var _ rosdoc.PackageReader = (*PackageReader)(nil)

// PackageReader is a mock implementation of rosdoc.PackageReader.
type PackageReader struct {
	ReadPackageFn func(ctx context.Context, dir string) (*rosdoc.Package, error)
}

func (r *PackageReader) ReadPackage(ctx context.Context, dir string) (*rosdoc.Package, error) {
	return r.ReadPackageFn(ctx, dir)
}

var _ rosdoc.PackageFinder = (*PackageFinder)(nil)

// PackageFinder is a mock implementation of rosdoc.PackageFinder.
type PackageFinder struct {
	FindPackagesFn func(ctx context.Context, root string) ([]*rosdoc.Package, error)
}

func (f *PackageFinder) FindPackages(ctx context.Context, root string) ([]*rosdoc.Package, error) {
	return f.FindPackagesFn(ctx, root)
}
