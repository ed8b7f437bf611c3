package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/fwojciec/rosdoc"
	"github.com/fwojciec/rosdoc/build"
)

// Run executes the scan command.
func (c *ScanCmd) Run(deps *Dependencies) error {
	scanner := &build.Scanner{
		Finder: deps.Finder,
		NewBuilder: func(logger *slog.Logger) rosdoc.Builder {
			return c.newBuilder(deps, logger)
		},
		DocBuildDir: c.Output,
		Concurrency: c.Concurrency,
		Timeout:     c.Timeout,
		MaxPackages: c.MaxPackages,
		Logger:      deps.Logger,
	}
	if !c.NoRecord {
		scanner.Results = deps.Builds
	}

	report, err := scanner.Scan(deps.Ctx, c.Root, func(e build.ProgressEvent) {
		switch e.Type {
		case build.ProgressCompleted, build.ProgressFailed:
			fmt.Fprintf(deps.Stdout, "[%d/%d] %-12s %s (%s)\n",
				e.Completed, e.Total, e.Result.Status, e.Package, e.Result.Duration.Round(time.Millisecond))
		}
	})
	if err != nil {
		printError(deps, err)
		return err
	}

	failed := report.Failed()
	if len(failed) == 0 {
		fmt.Fprintln(deps.Stdout, "All packages succeeded")
		return nil
	}

	fmt.Fprintf(deps.Stdout, "Failed packages (run %s):\n", report.RunID)
	for _, r := range failed {
		fmt.Fprintf(deps.Stdout, "  %s: %s: %s\n", r.PackageName, r.Status, r.Message)
	}
	return fmt.Errorf("%d of %d packages failed", len(failed), len(report.Results))
}
