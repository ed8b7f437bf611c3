package main

import (
	"fmt"
	"log/slog"

	"github.com/fwojciec/rosdoc"
	"github.com/fwojciec/rosdoc/build"
	rosfs "github.com/fwojciec/rosdoc/fs"
	rosslog "github.com/fwojciec/rosdoc/slog"
	"github.com/fwojciec/rosdoc/sphinx"
)

// Run executes the build command.
func (c *BuildCmd) Run(deps *Dependencies) error {
	pkg, err := deps.Packages.ReadPackage(deps.Ctx, c.Path)
	if err != nil {
		printError(deps, err)
		return err
	}

	if err := c.newBuilder(deps, deps.Logger).Build(deps.Ctx, pkg); err != nil {
		printError(deps, err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "Prepared %s %s in %s\n", pkg.Name, pkg.Version, build.BuildDir(c.Output, pkg.Name))
	return nil
}

// newBuilder wires a single-package builder that logs to logger.
func (f *BuildFlags) newBuilder(deps *Dependencies, logger *slog.Logger) rosdoc.Builder {
	b := &build.Builder{
		Stager: rosfs.NewStager(rosfs.NewLocator(logger), logger),
		Prefix: rosslog.NewLoggingPrefixWriter(sphinx.NewPrefixWriter(logger), logger),
		Enricher: &build.Enricher{
			Distributions: deps.Distributions,
			Distro:        deps.Distro,
			Logger:        logger,
		},
		DocBuildDir:       f.Output,
		CrossReferenceDir: f.CrossReferenceDir,
		UserDocDir:        f.DocDir,
		Logger:            logger,
	}
	return rosslog.NewLoggingBuilder(b, logger)
}
