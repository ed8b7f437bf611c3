package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/rosdoc"
)

// Ensure LoggingBuilder implements rosdoc.Builder.
var _ rosdoc.Builder = (*LoggingBuilder)(nil)

// LoggingBuilder wraps a Builder with logging.
type LoggingBuilder struct {
	next   rosdoc.Builder
	logger *slog.Logger
}

// NewLoggingBuilder creates a new LoggingBuilder.
func NewLoggingBuilder(next rosdoc.Builder, logger *slog.Logger) *LoggingBuilder {
	return &LoggingBuilder{next: next, logger: logger}
}

// Build delegates to the wrapped builder and logs the outcome.
func (b *LoggingBuilder) Build(ctx context.Context, pkg *rosdoc.Package) (err error) {
	defer func(begin time.Time) {
		b.logger.Info("package build",
			"package", pkg.Name,
			"version", pkg.Version,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return b.next.Build(ctx, pkg)
}

// Ensure LoggingPackageReader implements rosdoc.PackageReader.
var _ rosdoc.PackageReader = (*LoggingPackageReader)(nil)

// LoggingPackageReader wraps a PackageReader with debug logging.
type LoggingPackageReader struct {
	next   rosdoc.PackageReader
	logger *slog.Logger
}

// NewLoggingPackageReader creates a new LoggingPackageReader.
func NewLoggingPackageReader(next rosdoc.PackageReader, logger *slog.Logger) *LoggingPackageReader {
	return &LoggingPackageReader{next: next, logger: logger}
}

// ReadPackage delegates to the wrapped reader and logs the manifest read.
func (r *LoggingPackageReader) ReadPackage(ctx context.Context, dir string) (pkg *rosdoc.Package, err error) {
	defer func(begin time.Time) {
		var name string
		if pkg != nil {
			name = pkg.Name
		}
		r.logger.Debug("read package manifest",
			"dir", dir,
			"package", name,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.ReadPackage(ctx, dir)
}
