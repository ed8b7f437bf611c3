package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/rosdoc"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Packages      rosdoc.PackageReader
	Finder        rosdoc.PackageFinder
	Locator       rosdoc.DocLocator
	Distributions rosdoc.DistributionService
	Builds        rosdoc.BuildService

	// Distro names the distribution used for repository URL enrichment.
	Distro string
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose  bool   `short:"v" help:"Enable debug logging"`
	Distro   string `env:"ROS_DISTRO" help:"ROS distribution used to look up repository URLs"`
	IndexURL string `name:"index-url" env:"ROSDISTRO_INDEX_URL" default:"${index_url}" help:"rosdistro index location"`
	DB       string `name:"db" env:"ROSDOC_DB" help:"Build history database (default ~/.rosdoc/rosdoc.db)"`

	Build   BuildCmd   `cmd:"" help:"Prepare the documentation build of one package"`
	Scan    ScanCmd    `cmd:"" help:"Prepare documentation builds of every package below a directory"`
	Locate  LocateCmd  `cmd:"" help:"Show the documentation directories of a package"`
	Results ResultsCmd `cmd:"" help:"List recorded build results"`
}

// BuildFlags are shared by the build and scan commands.
type BuildFlags struct {
	Output            string `short:"o" default:"docs_build" help:"Directory receiving one build directory per package"`
	CrossReferenceDir string `short:"x" name:"cross-reference-dir" help:"Directory holding tag and inventory files of other packages"`
	DocDir            string `short:"d" name:"doc-dir" help:"Documentation directory relative to each package, overriding discovery"`
}

// BuildCmd is the "build" subcommand.
type BuildCmd struct {
	Path string `arg:"" type:"existingdir" help:"Package directory containing package.xml"`
	BuildFlags
}

// ScanCmd is the "scan" subcommand.
type ScanCmd struct {
	Root string `arg:"" type:"existingdir" help:"Directory to search for packages"`
	BuildFlags
	Concurrency int           `short:"c" default:"4" help:"Packages built in parallel"`
	Timeout     time.Duration `short:"t" default:"15m" help:"Time limit per package"`
	MaxPackages int           `short:"m" name:"max-packages" help:"Build at most this many packages"`
	NoRecord    bool          `name:"no-record" help:"Do not record results in the build history"`
}

// LocateCmd is the "locate" subcommand.
type LocateCmd struct {
	Path   string `arg:"" type:"existingdir" help:"Package directory"`
	DocDir string `short:"d" name:"doc-dir" help:"Documentation directory relative to the package"`
}

// ResultsCmd is the "results" subcommand.
type ResultsCmd struct {
	RunID   string `name:"run" help:"Only show results of this run"`
	Package string `short:"p" help:"Only show results of this package"`
	Failed  bool   `short:"f" help:"Only show unsuccessful builds"`
	Limit   int    `short:"n" default:"20" help:"Maximum number of results"`
}
