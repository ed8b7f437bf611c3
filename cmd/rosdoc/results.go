package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/rosdoc"
)

// Run executes the results command.
func (c *ResultsCmd) Run(deps *Dependencies) error {
	filter := rosdoc.BuildResultFilter{Limit: c.Limit}
	if c.RunID != "" {
		filter.RunID = &c.RunID
	}
	if c.Package != "" {
		filter.PackageName = &c.Package
	}
	if c.Failed {
		// Failed covers several statuses, so filter after the query.
		filter.Limit = 0
	}

	results, err := deps.Builds.FindBuildResults(deps.Ctx, filter)
	if err != nil {
		printError(deps, err)
		return err
	}

	var shown int
	for _, r := range results {
		if c.Failed && r.Status == rosdoc.BuildOK {
			continue
		}
		if c.Limit > 0 && shown == c.Limit {
			break
		}
		shown++
		fmt.Fprintf(deps.Stdout, "%s  %s  %-12s  %-30s  %8s  %s\n",
			r.CreatedAt.Local().Format(time.DateTime),
			r.RunID,
			r.Status,
			r.PackageName,
			r.Duration.Round(time.Millisecond),
			r.Message,
		)
	}

	if shown == 0 {
		fmt.Fprintln(deps.Stdout, "No build results found. Use 'rosdoc scan' to record some.")
	}
	return nil
}
