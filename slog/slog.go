// Package slog wraps rosdoc services with log/slog logging of each call.
package slog
