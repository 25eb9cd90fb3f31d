package engine

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mystubs/mystubs/internal/clock"
	"github.com/mystubs/mystubs/internal/config"
	"github.com/mystubs/mystubs/internal/fsops"
	"github.com/mystubs/mystubs/internal/hash"
	"github.com/mystubs/mystubs/internal/overlay"
	"github.com/mystubs/mystubs/internal/pyrt"
	"github.com/mystubs/mystubs/internal/record"
	"github.com/mystubs/mystubs/internal/stubgen"
)

// testEnv wires an Engine against a real filesystem rooted in a temp dir,
// with fakes for the generator tool, clock, and Python runtime.
type testEnv struct {
	engine  *Engine
	invoker *stubgen.FakeInvoker
	records *record.MemoryStore
	clock   *clock.FakeClock
	runtime *pyrt.FakeRuntime
	paths   *config.Paths
	cfg     *config.Config
	dir     string
}

func newTestEnv(t *testing.T, requirements string, moduleSections map[string]interface{}, discover bool) *testEnv {
	t.Helper()

	dir := t.TempDir()
	reqPath := filepath.Join(dir, "requirements.txt")
	if err := os.WriteFile(reqPath, []byte(requirements), 0644); err != nil {
		t.Fatal(err)
	}

	localRoot := filepath.Join(dir, ".mystubs")
	userRoot := filepath.Join(dir, "user-overlay")
	paths := config.NewPaths(localRoot, userRoot)
	if err := paths.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}

	if moduleSections == nil {
		moduleSections = map[string]interface{}{}
	}
	cfg := &config.Config{
		DiscoverModules:     discover,
		LocalStubsDirectory: localRoot,
		RequirementsPaths:   []string{reqPath},
		Python:              "python3",
		Stubgen:             "stubgen",
		Modules:             moduleSections,
	}

	fs := fsops.NewRealFS()
	env := &testEnv{
		invoker: stubgen.NewFakeInvoker(),
		records: record.NewMemoryStore(),
		clock:   clock.NewFakeClock(time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)),
		runtime: pyrt.NewFakeRuntime(pyrt.Version{Major: 3, Minor: 12}),
		paths:   paths,
		cfg:     cfg,
		dir:     dir,
	}
	env.engine = New(
		fs,
		env.invoker,
		env.records,
		hash.NewTreeHasher(fs),
		env.clock,
		env.runtime,
		overlay.NewUserGlobalSource(fs, userRoot),
		overlay.NewProjectLocalSource(fs, paths.ProjectOverlay),
		paths,
		cfg,
		log.New(io.Discard),
	)
	return env
}

// writeOverlayFile places a file under one of the overlay roots.
func (env *testEnv) writeOverlayFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func (env *testEnv) rewriteRequirements(t *testing.T, content string) {
	t.Helper()
	if err := os.WriteFile(env.cfg.RequirementsPaths[0], []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func readOutput(t *testing.T, env *testEnv, module, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(env.paths.OutputDir(module), filepath.FromSlash(rel)))
	if err != nil {
		t.Fatalf("failed to read output %s/%s: %v", module, rel, err)
	}
	return string(data)
}
