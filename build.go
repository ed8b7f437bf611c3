package rosdoc

import (
	"context"
	"time"
)

// BuildStatus classifies the outcome of a package build.
type BuildStatus int

// BuildStatus values. The numbers are stable and appear in reports.
const (
	BuildOK BuildStatus = iota
	BuildFailed
	BuildTimeout
	BuildError
	BuildSetupFailed
)

// String returns a short name for the status.
func (s BuildStatus) String() string {
	switch s {
	case BuildOK:
		return "ok"
	case BuildFailed:
		return "failed"
	case BuildTimeout:
		return "timeout"
	case BuildError:
		return "error"
	case BuildSetupFailed:
		return "setup_failed"
	default:
		return "unknown"
	}
}

// Builder prepares the documentation build of a single package.
type Builder interface {
	Build(ctx context.Context, pkg *Package) error
}

// BuildResult records the outcome of building one package during a scan.
type BuildResult struct {
	ID          string        `json:"id"`
	RunID       string        `json:"runId"`
	PackageName string        `json:"packageName"`
	PackagePath string        `json:"packagePath"`
	Status      BuildStatus   `json:"status"`
	Message     string        `json:"message"`
	Duration    time.Duration `json:"duration"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// Validate returns an error if the result contains invalid fields.
func (r *BuildResult) Validate() error {
	if r.RunID == "" {
		return Errorf(EINVALID, "build result run ID required")
	}
	if r.PackageName == "" {
		return Errorf(EINVALID, "build result package name required")
	}
	return nil
}

// BuildService represents a service for recording build results.
type BuildService interface {
	// CreateBuildResult stores a new result.
	CreateBuildResult(ctx context.Context, result *BuildResult) error

	// FindBuildResults retrieves results matching the filter, newest first.
	FindBuildResults(ctx context.Context, filter BuildResultFilter) ([]*BuildResult, error)
}

// BuildResultFilter represents a filter for FindBuildResults.
type BuildResultFilter struct {
	RunID       *string      `json:"runId"`
	PackageName *string      `json:"packageName"`
	Status      *BuildStatus `json:"status"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
