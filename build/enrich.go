package build

import (
	"context"
	"log/slog"

	"github.com/fwojciec/rosdoc"
)

// Enricher adds a repository URL to packages that lack one, using the
// source repository recorded in a ROS distribution.
type Enricher struct {
	Distributions rosdoc.DistributionService

	// Distro names the distribution to consult, usually taken from
	// ROS_DISTRO. Enrichment is skipped when empty.
	Distro string

	Logger *slog.Logger
}

// Enrich appends a repository URL to pkg when it has none and the
// distribution knows one. Lookup failures are logged and otherwise ignored.
func (e *Enricher) Enrich(ctx context.Context, pkg *rosdoc.Package) {
	if pkg.HasURLType(rosdoc.URLTypeRepository) {
		return
	}
	if e.Distro == "" || e.Distributions == nil {
		return
	}
	logger := e.logger()

	dist, err := e.Distributions.FindDistribution(ctx, e.Distro)
	if err != nil {
		logger.Info("no package repository url found in distribution",
			"package", pkg.Name,
			"distro", e.Distro,
			"err", err,
		)
		return
	}

	url, err := dist.SourceRepositoryURL(pkg.Name)
	if err != nil {
		logger.Info("no package repository url found in distribution",
			"package", pkg.Name,
			"distro", e.Distro,
			"err", rosdoc.ErrorMessage(err),
		)
		return
	}

	logger.Info("adding package repository url from distribution", "package", pkg.Name, "url", url)
	pkg.URLs = append(pkg.URLs, rosdoc.URL{Value: url, Type: rosdoc.URLTypeRepository})
}

func (e *Enricher) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return e.Logger
}
