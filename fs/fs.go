// Package fs provides filesystem implementations of the rosdoc services:
// documentation discovery, staging into a build directory, package
// discovery and cross-reference lookup.
package fs

import (
	"log/slog"
	"os"
)

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func discardIfNil(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}
