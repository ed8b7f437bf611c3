package build

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/rosdoc"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// PackageLogFile is the per-package log written into each build directory.
const PackageLogFile = "rosdoc.log"

// Scanner defaults.
const (
	DefaultConcurrency = 4
	DefaultTimeout     = 15 * time.Minute
)

// Scanner builds every package found below a directory.
type Scanner struct {
	Finder rosdoc.PackageFinder

	// NewBuilder returns the builder for one package. The logger writes to
	// that package's log file.
	NewBuilder func(logger *slog.Logger) rosdoc.Builder

	// Results records each outcome. Optional.
	Results rosdoc.BuildService

	DocBuildDir string
	Concurrency int
	Timeout     time.Duration
	// MaxPackages limits how many packages are built. Zero means no limit.
	MaxPackages int

	Logger *slog.Logger
}

// ScanReport summarizes a scan.
type ScanReport struct {
	RunID   string
	Results []*rosdoc.BuildResult
}

// Failed returns the results of packages that did not build.
func (r *ScanReport) Failed() []*rosdoc.BuildResult {
	var failed []*rosdoc.BuildResult
	for _, res := range r.Results {
		if res.Status != rosdoc.BuildOK {
			failed = append(failed, res)
		}
	}
	return failed
}

// ProgressEvent reports progress during a scan.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	Package   string
	Result    *rosdoc.BuildResult
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting scan progress.
type ProgressFunc func(event ProgressEvent)

// scanResult holds the outcome of building a single package.
type scanResult struct {
	position int
	result   *rosdoc.BuildResult
}

// Scan discovers packages below root and builds each of them.
// Individual build failures are part of the report, not errors.
// Returns ENOTFOUND if root holds no packages.
func (s *Scanner) Scan(ctx context.Context, root string, progress ProgressFunc) (*ScanReport, error) {
	logger := s.logger()

	packages, err := s.Finder.FindPackages(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("find packages: %w", err)
	}
	if len(packages) == 0 {
		return nil, rosdoc.Errorf(rosdoc.ENOTFOUND, "no packages found in subdirectories of %s", root)
	}
	if s.MaxPackages > 0 && len(packages) > s.MaxPackages {
		packages = packages[:s.MaxPackages]
	}

	report := &ScanReport{
		RunID:   uuid.New().String(),
		Results: make([]*rosdoc.BuildResult, len(packages)),
	}
	total := len(packages)
	logger.Info("processing packages", "run_id", report.RunID, "count", total)

	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: total})
	}

	concurrency := s.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	resultCh := make(chan scanResult, len(packages))

	g := new(errgroup.Group)
	g.SetLimit(concurrency)

	go func() {
		for i, pkg := range packages {
			if ctx.Err() != nil {
				break
			}
			g.Go(func() error {
				resultCh <- scanResult{position: i, result: s.buildPackage(ctx, report.RunID, pkg)}
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	var completed int
	for res := range resultCh {
		completed++
		report.Results[res.position] = res.result
		s.record(ctx, res.result)

		eventType := ProgressCompleted
		if res.result.Status != rosdoc.BuildOK {
			eventType = ProgressFailed
			logger.Warn("package failed",
				"package", res.result.PackageName,
				"status", res.result.Status.String(),
				"message", res.result.Message,
			)
		}
		if progress != nil {
			progress(ProgressEvent{
				Type:      eventType,
				Completed: completed,
				Total:     total,
				Package:   res.result.PackageName,
				Result:    res.result,
			})
		}
	}

	// Drop slots of packages never started because the scan was canceled.
	results := report.Results[:0]
	for _, res := range report.Results {
		if res != nil {
			results = append(results, res)
		}
	}
	report.Results = results

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: completed, Total: total})
	}
	logger.Info("scan complete", "run_id", report.RunID, "built", completed, "failed", len(report.Failed()))

	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

// buildPackage builds one package with its own log file and timeout.
func (s *Scanner) buildPackage(ctx context.Context, runID string, pkg *rosdoc.Package) (result *rosdoc.BuildResult) {
	begin := time.Now()
	result = &rosdoc.BuildResult{
		RunID:       runID,
		PackageName: pkg.Name,
		PackagePath: pkg.Path,
	}
	defer func() {
		if r := recover(); r != nil {
			result.Status = rosdoc.BuildError
			result.Message = fmt.Sprintf("panic: %v", r)
		}
		result.Duration = time.Since(begin)
	}()

	buildDir := BuildDir(s.DocBuildDir, pkg.Name)
	if err := os.MkdirAll(buildDir, 0755); err != nil {
		result.Status = rosdoc.BuildSetupFailed
		result.Message = err.Error()
		return result
	}

	logFile, err := os.Create(filepath.Join(buildDir, PackageLogFile))
	if err != nil {
		result.Status = rosdoc.BuildSetupFailed
		result.Message = err.Error()
		return result
	}
	defer logFile.Close()
	logger := slog.New(slog.NewTextHandler(logFile, nil))
	logger.Info("processing package build", "package", pkg.Name, "path", pkg.Path)

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	buildCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err = s.NewBuilder(logger).Build(buildCtx, pkg)
	result.Status, result.Message = Classify(buildCtx, err)
	if result.Status == rosdoc.BuildTimeout {
		result.Message = fmt.Sprintf("timeout after %s", time.Since(begin).Round(time.Millisecond))
	}

	if result.Status == rosdoc.BuildOK {
		logger.Info("completed package build", "package", pkg.Name, "duration", time.Since(begin))
	} else {
		logger.Error("package build failed", "package", pkg.Name, "status", result.Status.String(), "message", result.Message)
	}
	return result
}

// Classify maps a build error to a status and message. Deadline errors are
// timeouts, application errors are build failures and anything else is an
// unexpected error.
func Classify(ctx context.Context, err error) (rosdoc.BuildStatus, string) {
	switch {
	case err == nil:
		return rosdoc.BuildOK, "OK"
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return rosdoc.BuildTimeout, err.Error()
	case rosdoc.ErrorCode(err) != rosdoc.EINTERNAL:
		return rosdoc.BuildFailed, rosdoc.ErrorMessage(err)
	default:
		return rosdoc.BuildError, err.Error()
	}
}

func (s *Scanner) record(ctx context.Context, result *rosdoc.BuildResult) {
	if s.Results == nil {
		return
	}
	if err := s.Results.CreateBuildResult(ctx, result); err != nil {
		s.logger().Warn("failed to record build result", "package", result.PackageName, "err", err)
	}
}

func (s *Scanner) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}
