package mock

import (
	"context"

	"github.com/fwojciec/rosdoc"
)

var _ rosdoc.Builder = (*Builder)(nil)

// Builder is a mock implementation of rosdoc.Builder.
type Builder struct {
	BuildFn func(ctx context.Context, pkg *rosdoc.Package) error
}

func (b *Builder) Build(ctx context.Context, pkg *rosdoc.Package) error {
	return b.BuildFn(ctx, pkg)
}

var _ rosdoc.BuildService = (*BuildService)(nil)

// BuildService is a mock implementation of rosdoc.BuildService.
type BuildService struct {
	CreateBuildResultFn func(ctx context.Context, result *rosdoc.BuildResult) error
	FindBuildResultsFn  func(ctx context.Context, filter rosdoc.BuildResultFilter) ([]*rosdoc.BuildResult, error)
}

func (s *BuildService) CreateBuildResult(ctx context.Context, result *rosdoc.BuildResult) error {
	return s.CreateBuildResultFn(ctx, result)
}

func (s *BuildService) FindBuildResults(ctx context.Context, filter rosdoc.BuildResultFilter) ([]*rosdoc.BuildResult, error) {
	return s.FindBuildResultsFn(ctx, filter)
}
