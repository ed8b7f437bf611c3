package main

import (
	"fmt"
)

// Run executes the locate command.
func (c *LocateCmd) Run(deps *Dependencies) error {
	layout, err := deps.Locator.Locate(deps.Ctx, c.Path, c.DocDir)
	if err != nil {
		printError(deps, err)
		return err
	}

	if !layout.HasDocs() {
		fmt.Fprintln(deps.Stdout, "No documentation found.")
		return nil
	}

	fmt.Fprintf(deps.Stdout, "root: %s\n", layout.Root)
	for _, dir := range layout.Directories {
		fmt.Fprintf(deps.Stdout, "  %s\n", dir)
	}
	return nil
}
