package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/rosdoc"
)

// Ensure LoggingDistributionService implements rosdoc.DistributionService.
var _ rosdoc.DistributionService = (*LoggingDistributionService)(nil)

// LoggingDistributionService wraps a DistributionService with logging.
type LoggingDistributionService struct {
	next   rosdoc.DistributionService
	logger *slog.Logger
}

// NewLoggingDistributionService creates a new LoggingDistributionService.
func NewLoggingDistributionService(next rosdoc.DistributionService, logger *slog.Logger) *LoggingDistributionService {
	return &LoggingDistributionService{next: next, logger: logger}
}

// FindDistribution delegates to the wrapped service and logs the lookup.
func (s *LoggingDistributionService) FindDistribution(ctx context.Context, name string) (dist *rosdoc.Distribution, err error) {
	defer func(begin time.Time) {
		var repos int
		if dist != nil {
			repos = len(dist.Repositories)
		}
		s.logger.Debug("distribution lookup",
			"distro", name,
			"repositories", repos,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindDistribution(ctx, name)
}
