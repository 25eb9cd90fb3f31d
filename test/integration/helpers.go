// Package integration exercises the full pipeline from configuration file to
// merged output trees on a real filesystem. Only the generator tool and the
// Python runtime probe are faked.
package integration

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

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

// env is a project directory with a loaded configuration and a wired engine.
type env struct {
	dir     string
	cfg     *config.Config
	paths   *config.Paths
	invoker *stubgen.FakeInvoker
	records *record.FileStore
	clock   *clock.FakeClock
	runtime *pyrt.FakeRuntime
	hasher  hash.Hasher
	engine  *engine.Engine
}

// setup writes the project files, loads configuration the way the CLI does,
// and builds an engine on top of the real filesystem.
func setup(t *testing.T, configTOML, requirements string) *env {
	t.Helper()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, config.ConfigFileName), configTOML)
	writeFile(t, filepath.Join(dir, "requirements.txt"), requirements)

	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatalf("config load failed: %v", err)
	}

	// Paths in the config are relative to the project directory; the tests
	// run from elsewhere, so anchor them.
	localRoot := cfg.LocalStubsDirectory
	if !filepath.IsAbs(localRoot) {
		localRoot = filepath.Join(dir, localRoot)
	}
	for i, p := range cfg.RequirementsPaths {
		if !filepath.IsAbs(p) {
			cfg.RequirementsPaths[i] = filepath.Join(dir, p)
		}
	}

	userRoot := filepath.Join(dir, "user-config", "local")
	paths := config.NewPaths(localRoot, userRoot)
	if err := paths.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}

	fs := fsops.NewRealFS()
	e := &env{
		dir:     dir,
		cfg:     cfg,
		paths:   paths,
		invoker: stubgen.NewFakeInvoker(),
		records: record.NewFileStore(fs, paths.State),
		clock:   clock.NewFakeClock(time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)),
		runtime: pyrt.NewFakeRuntime(pyrt.Version{Major: 3, Minor: 12}),
		hasher:  hash.NewTreeHasher(fs),
	}
	e.engine = engine.New(
		fs,
		e.invoker,
		e.records,
		e.hasher,
		e.clock,
		e.runtime,
		overlay.NewUserGlobalSource(fs, paths.UserOverlay),
		overlay.NewProjectLocalSource(fs, paths.ProjectOverlay),
		paths,
		cfg,
		log.New(io.Discard),
	)
	return e
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func (e *env) writeUserOverlay(t *testing.T, rel, content string) {
	writeFile(t, filepath.Join(e.paths.UserOverlay, filepath.FromSlash(rel)), content)
}

func (e *env) writeProjectOverlay(t *testing.T, rel, content string) {
	writeFile(t, filepath.Join(e.paths.ProjectOverlay, filepath.FromSlash(rel)), content)
}

func (e *env) readOutput(t *testing.T, module, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(e.paths.OutputDir(module), filepath.FromSlash(rel)))
	if err != nil {
		t.Fatalf("failed to read output %s/%s: %v", module, rel, err)
	}
	return string(data)
}

func (e *env) outputHash(t *testing.T, module string) string {
	t.Helper()
	digest, err := e.hasher.HashTree(e.paths.OutputDir(module))
	if err != nil {
		t.Fatal(err)
	}
	return digest
}
