package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/mystubs/mystubs/internal/clock"
	"github.com/mystubs/mystubs/internal/config"
	"github.com/mystubs/mystubs/internal/engine"
	"github.com/mystubs/mystubs/internal/fsops"
	"github.com/mystubs/mystubs/internal/hash"
	"github.com/mystubs/mystubs/internal/overlay"
	"github.com/mystubs/mystubs/internal/pyrt"
	"github.com/mystubs/mystubs/internal/record"
	"github.com/mystubs/mystubs/internal/stubgen"
)

// newEngine creates a new engine with real implementations of all
// dependencies, configured from .mystubs.toml in the working directory.
func newEngine() (*engine.Engine, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return nil, err
	}

	userRoot, err := config.UserOverlayRoot()
	if err != nil {
		return nil, fmt.Errorf("failed to locate user overlay: %w", err)
	}

	paths := config.NewPaths(cfg.LocalStubsDirectory, userRoot)
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	fs := fsops.NewRealFS()
	return engine.New(
		fs,
		stubgen.NewExecInvoker(cfg.Stubgen),
		record.NewFileStore(fs, paths.State),
		hash.NewTreeHasher(fs),
		&clock.RealClock{},
		pyrt.NewExecRuntime(cfg.Python),
		overlay.NewUserGlobalSource(fs, paths.UserOverlay),
		overlay.NewProjectLocalSource(fs, paths.ProjectOverlay),
		paths,
		cfg,
		newLogger(),
	), nil
}

// newLogger builds the run logger. Debug level is gated on --verbose so the
// default output stays limited to warnings and errors.
func newLogger() *log.Logger {
	logger := log.New(os.Stderr)
	if verbose {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.WarnLevel)
	}
	return logger
}

// outputJSON outputs a value as JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
