package mock

import (
	"context"

	"github.com/fwojciec/rosdoc"
)

var _ rosdoc.DocLocator = (*DocLocator)(nil)

// DocLocator is a mock implementation of rosdoc.DocLocator.
type DocLocator struct {
	LocateFn func(ctx context.Context, packageDir, userDocDir string) (*rosdoc.DocLayout, error)
}

func (l *DocLocator) Locate(ctx context.Context, packageDir, userDocDir string) (*rosdoc.DocLayout, error) {
	return l.LocateFn(ctx, packageDir, userDocDir)
}

var _ rosdoc.DocStager = (*DocStager)(nil)

// DocStager is a mock implementation of rosdoc.DocStager.
type DocStager struct {
	StageFn func(ctx context.Context, packageDir, buildDir, userDocDir string) (*rosdoc.DocLayout, error)
}

func (s *DocStager) Stage(ctx context.Context, packageDir, buildDir, userDocDir string) (*rosdoc.DocLayout, error) {
	return s.StageFn(ctx, packageDir, buildDir, userDocDir)
}
