package fs

import (
	"context"
	"os"
	"path/filepath"
)

// stagingDir copies a directory tree with atomic update semantics.
// Content is copied to dst.tmp first and moved to dst on commit, so a
// failed copy never leaves a half-populated destination behind.
type stagingDir struct {
	dst string
}

func newStagingDir(dst string) *stagingDir {
	return &stagingDir{dst: dst}
}

func (s *stagingDir) tempDir() string {
	return s.dst + ".tmp"
}

// Copy copies src into the temporary directory.
func (s *stagingDir) Copy(ctx context.Context, src string) error {
	if err := os.RemoveAll(s.tempDir()); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.tempDir()), 0755); err != nil {
		return err
	}
	return CopyDir(ctx, src, s.tempDir())
}

// Commit replaces the destination with the copied tree.
func (s *stagingDir) Commit() error {
	if err := os.RemoveAll(s.dst); err != nil {
		return err
	}
	return os.Rename(s.tempDir(), s.dst)
}

// Abort discards the copied tree.
func (s *stagingDir) Abort() error {
	return os.RemoveAll(s.tempDir())
}
