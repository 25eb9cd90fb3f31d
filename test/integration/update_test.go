package integration

import (
	"context"
	"os"
	"testing"

	"github.com/mystubs/mystubs/internal/engine"
	"github.com/mystubs/mystubs/internal/version"
)

const discoverConfig = `discover_modules = true
`

func TestFreshDiscoverRun(t *testing.T) {
	e := setup(t, discoverConfig, "toml==0.10.0\ndocopt==0.6.2\n")
	e.invoker.SetOutput("toml", map[string][]byte{
		"toml/__init__.pyi": []byte("def load(f): ...\n"),
	})
	e.invoker.SetOutput("docopt", map[string][]byte{
		"docopt.pyi": []byte("def docopt(doc): ...\n"),
	})

	result, err := e.engine.Update(context.Background(), &engine.UpdateRequest{})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if len(result.Outcomes) != 2 {
		t.Fatalf("outcomes = %d, want 2", len(result.Outcomes))
	}
	for _, outcome := range result.Outcomes {
		if outcome.Status != engine.StatusRegenerated {
			t.Errorf("%s status = %s, want regenerated", outcome.Module, outcome.Status)
		}
	}

	if got := e.readOutput(t, "toml", "toml/__init__.pyi"); got != "def load(f): ...\n" {
		t.Errorf("toml output = %q", got)
	}
	if got := e.readOutput(t, "docopt", "docopt.pyi"); got != "def docopt(doc): ...\n" {
		t.Errorf("docopt output = %q", got)
	}

	// Records are durable files, readable by a fresh store instance.
	rec, err := e.records.Load("toml")
	if err != nil || rec == nil {
		t.Fatalf("toml record missing: %v", err)
	}
	if rec.Version != "0.10.0" {
		t.Errorf("toml record version = %q, want 0.10.0", rec.Version)
	}
}

func TestSecondRunMergesWithoutRegenerating(t *testing.T) {
	e := setup(t, discoverConfig, "toml==0.10.0\n")
	e.invoker.SetOutput("toml", map[string][]byte{
		"toml/__init__.pyi": []byte("generated\n"),
	})

	ctx := context.Background()
	if _, err := e.engine.Update(ctx, &engine.UpdateRequest{}); err != nil {
		t.Fatalf("first update failed: %v", err)
	}

	// Overlays edited between runs: the user-global layer for this Python
	// version plus a project-local override shadowing the same path.
	e.writeUserOverlay(t, "3.12/toml/toml/extra.pyi", "user extra\n")
	e.writeUserOverlay(t, "3.12/toml/toml/__init__.pyi", "user init\n")
	e.writeProjectOverlay(t, "toml/toml/__init__.pyi", "local init\n")

	result, err := e.engine.Update(ctx, &engine.UpdateRequest{})
	if err != nil {
		t.Fatalf("second update failed: %v", err)
	}

	if result.Outcomes[0].Status != engine.StatusFresh {
		t.Errorf("status = %s, want fresh", result.Outcomes[0].Status)
	}
	if len(e.invoker.Calls) != 1 {
		t.Errorf("generator calls = %d, want 1", len(e.invoker.Calls))
	}

	if got := e.readOutput(t, "toml", "toml/__init__.pyi"); got != "local init\n" {
		t.Errorf("shadowed path = %q, want project-local content", got)
	}
	if got := e.readOutput(t, "toml", "toml/extra.pyi"); got != "user extra\n" {
		t.Errorf("user-only path = %q", got)
	}
}

func TestOverlayAloneDoesNotCreateModule(t *testing.T) {
	e := setup(t, discoverConfig, "toml==0.10.0\n")
	e.invoker.SetOutput("toml", map[string][]byte{"toml.pyi": []byte("t\n")})
	// A project-local override for a module that is neither configured nor
	// in the manifest must be ignored, not promoted to a module.
	e.writeProjectOverlay(t, "docopt/docopt.pyi", "def docopt(doc): ...\n")

	result, err := e.engine.Update(context.Background(), &engine.UpdateRequest{})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if len(result.Outcomes) != 1 || result.Outcomes[0].Module != "toml" {
		t.Fatalf("outcomes = %+v, want only toml", result.Outcomes)
	}
	if _, err := os.Stat(e.paths.OutputDir("docopt")); !os.IsNotExist(err) {
		t.Error("overlay-only module should produce no output")
	}
}

func TestRepeatedUpdatesAreIdempotent(t *testing.T) {
	e := setup(t, discoverConfig, "toml==0.10.0\n")
	e.invoker.SetOutput("toml", map[string][]byte{
		"toml/__init__.pyi": []byte("generated\n"),
	})
	e.writeProjectOverlay(t, "toml/toml/local.pyi", "local\n")

	ctx := context.Background()
	if _, err := e.engine.Update(ctx, &engine.UpdateRequest{}); err != nil {
		t.Fatalf("first update failed: %v", err)
	}
	first := e.outputHash(t, "toml")

	if _, err := e.engine.Update(ctx, &engine.UpdateRequest{}); err != nil {
		t.Fatalf("second update failed: %v", err)
	}
	second := e.outputHash(t, "toml")

	if first != second {
		t.Error("output tree changed across updates with unchanged inputs")
	}
}

func TestConfiguredShorthandAndPackageName(t *testing.T) {
	cfg := `discover_modules = false

[modules]
toml = "0.10.0"

[modules.python-dateutil]
version = "auto"
package_name = "dateutil"
`
	e := setup(t, cfg, "python-dateutil==2.8.2\n")
	e.invoker.SetOutput("toml", map[string][]byte{"toml.pyi": []byte("t\n")})
	e.invoker.SetOutput("dateutil", map[string][]byte{
		"dateutil/__init__.pyi": []byte("d\n"),
	})

	result, err := e.engine.Update(context.Background(), &engine.UpdateRequest{})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	byName := map[string]engine.ModuleOutcome{}
	for _, o := range result.Outcomes {
		byName[o.Module] = o
	}

	if o := byName["toml"]; o.Version.Source != version.Explicit || o.Version.Value != "0.10.0" {
		t.Errorf("toml version = %+v, want explicit 0.10.0 from shorthand", o.Version)
	}
	if o := byName["python-dateutil"]; o.Version.Source != version.InferredFromManifest {
		t.Errorf("python-dateutil version = %+v, want manifest inference", o.Version)
	}

	if got := e.readOutput(t, "python-dateutil", "dateutil/__init__.pyi"); got != "d\n" {
		t.Errorf("dateutil output = %q", got)
	}
}
