package mock

import (
	"context"

	"github.com/fwojciec/rosdoc"
)

var _ rosdoc.DistributionService = (*DistributionService)(nil)

// DistributionService is a mock implementation of rosdoc.DistributionService.
type DistributionService struct {
	FindDistributionFn func(ctx context.Context, name string) (*rosdoc.Distribution, error)
}

func (s *DistributionService) FindDistribution(ctx context.Context, name string) (*rosdoc.Distribution, error) {
	return s.FindDistributionFn(ctx, name)
}
