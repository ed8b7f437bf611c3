package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/rosdoc"
)

// Ensure LoggingPrefixWriter implements rosdoc.PrefixWriter.
var _ rosdoc.PrefixWriter = (*LoggingPrefixWriter)(nil)

// LoggingPrefixWriter wraps a PrefixWriter with logging.
type LoggingPrefixWriter struct {
	next   rosdoc.PrefixWriter
	logger *slog.Logger
}

// NewLoggingPrefixWriter creates a new LoggingPrefixWriter.
func NewLoggingPrefixWriter(next rosdoc.PrefixWriter, logger *slog.Logger) *LoggingPrefixWriter {
	return &LoggingPrefixWriter{next: next, logger: logger}
}

// WritePrefix delegates to the wrapped writer and logs the operation.
func (w *LoggingPrefixWriter) WritePrefix(ctx context.Context, prefix *rosdoc.BuildPrefix) (err error) {
	defer func(begin time.Time) {
		var name string
		if prefix.Package != nil {
			name = prefix.Package.Name
		}
		w.logger.Debug("write build prefix",
			"package", name,
			"build_dir", prefix.BuildDir,
			"tag_files", len(prefix.TagFiles),
			"inventory_files", len(prefix.InventoryFiles),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return w.next.WritePrefix(ctx, prefix)
}
