package mock

import (
	"context"

	"github.com/fwojciec/rosdoc"
)

var _ rosdoc.PrefixWriter = (*PrefixWriter)(nil)

// PrefixWriter is a mock implementation of rosdoc.PrefixWriter.
type PrefixWriter struct {
	WritePrefixFn func(ctx context.Context, prefix *rosdoc.BuildPrefix) error
}

func (w *PrefixWriter) WritePrefix(ctx context.Context, prefix *rosdoc.BuildPrefix) error {
	return w.WritePrefixFn(ctx, prefix)
}
