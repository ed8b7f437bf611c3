package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/rosdoc"
	"github.com/fwojciec/rosdoc/etree"
	rosfs "github.com/fwojciec/rosdoc/fs"
	roshttp "github.com/fwojciec/rosdoc/http"
	rosslog "github.com/fwojciec/rosdoc/slog"
	"github.com/fwojciec/rosdoc/sqlite"
	"github.com/joho/godotenv"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// EnvFile is loaded into the environment before flags are parsed.
	// Missing files are ignored. Set before calling Run().
	EnvFile string

	// SQLite database used by the build history. Opened only by commands
	// that record or read results.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{EnvFile: ".env"}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if err := loadEnvFile(m.EnvFile); err != nil {
		return fmt.Errorf("failed to load %s: %w", m.EnvFile, err)
	}

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("rosdoc"),
		kong.Description("Prepare Sphinx documentation builds for ROS packages."),
		kong.Vars{"index_url": roshttp.DefaultIndexURL},
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'rosdoc --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	deps.Distro = cli.Distro

	deps.Packages = rosslog.NewLoggingPackageReader(etree.NewManifestReader(), deps.Logger)
	deps.Finder = rosfs.NewPackageFinder(deps.Packages, deps.Logger)
	deps.Locator = rosfs.NewLocator(deps.Logger)
	if cli.Distro != "" {
		deps.Distributions = rosslog.NewLoggingDistributionService(
			roshttp.NewDistributionService(
				roshttp.WithIndexURL(cli.IndexURL),
				roshttp.WithLogger(deps.Logger),
			),
			deps.Logger,
		)
	}

	// Only commands that touch the build history open the database.
	if kongCtx.Command() == "results" || (kongCtx.Command() == "scan <root>" && !cli.Scan.NoRecord) {
		dbPath := cli.DB
		if dbPath == "" {
			dbPath = defaultDBPath()
		}
		m.DB = sqlite.NewDB(dbPath)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set ROSDOC_DB to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", dbPath, err)
		}
		defer m.Close()
		deps.Builds = sqlite.NewBuildService(m.DB)
	}

	return kongCtx.Run(deps)
}

// loadEnvFile loads KEY=VALUE pairs from path without overriding variables
// that are already set.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "rosdoc.db"
	}
	dir := filepath.Join(home, ".rosdoc")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "rosdoc.db")
}

// printError writes the user-facing message of err.
func printError(deps *Dependencies, err error) {
	fmt.Fprintf(deps.Stderr, "error: %s\n", rosdoc.ErrorMessage(err))
}
