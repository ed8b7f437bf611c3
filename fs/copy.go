package fs

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// CopyDir recursively copies the directory tree at src to dst.
// Symbolic links are followed and their targets copied. When dst lies
// inside src, the entry leading to dst is skipped so the copy never
// descends into its own output. The copy stops with ctx.Err() once ctx is
// done.
func CopyDir(ctx context.Context, src, dst string) error {
	absDst, err := filepath.Abs(dst)
	if err != nil {
		return err
	}
	return copyDir(ctx, src, dst, absDst)
}

func copyDir(ctx context.Context, src, dst, absDst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dst, srcInfo.Mode().Perm()|0700); err != nil {
		return err
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		if leadsTo(srcPath, absDst) {
			continue
		}

		info, err := os.Stat(srcPath)
		if err != nil {
			return err
		}

		if info.IsDir() {
			if err := copyDir(ctx, srcPath, dstPath, absDst); err != nil {
				return err
			}
			continue
		}
		if err := copyFile(srcPath, dstPath, info.Mode().Perm()); err != nil {
			return err
		}
	}

	return nil
}

// leadsTo reports whether path is target or one of its ancestors.
func leadsTo(path, target string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	return abs == target || strings.HasPrefix(target, abs+string(filepath.Separator))
}

func copyFile(src, dst string, perm os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
