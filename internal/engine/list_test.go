package engine

import (
	"context"
	"testing"

	"github.com/mystubs/mystubs/internal/version"
)

func TestList_ReportsStalenessWithoutMutating(t *testing.T) {
	sections := map[string]interface{}{
		"docopt": map[string]interface{}{"skip": true},
	}
	env := newTestEnv(t, "toml==0.10.0\ndocopt==0.6.2\n", sections, true)
	env.invoker.SetOutput("toml", map[string][]byte{"toml.pyi": []byte("t\n")})

	ctx := context.Background()
	result, err := env.engine.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	// Configured modules sort first, then discovered ones.
	if len(result.Modules) != 2 {
		t.Fatalf("modules = %d, want 2", len(result.Modules))
	}
	docopt, toml := result.Modules[0], result.Modules[1]

	if docopt.Module != "docopt" || !docopt.Skipped {
		t.Errorf("first listing = %+v, want skipped docopt", docopt)
	}
	if toml.Module != "toml" || !toml.Stale {
		t.Errorf("second listing = %+v, want stale toml", toml)
	}
	if toml.Version.Value != "0.10.0" || toml.Version.Source != version.InferredFromManifest {
		t.Errorf("toml version = %+v, want 0.10.0 from manifest", toml.Version)
	}

	if len(env.invoker.Calls) != 0 {
		t.Errorf("List invoked the generator %d times", len(env.invoker.Calls))
	}

	// After an update the module reports fresh.
	if _, err := env.engine.Update(ctx, &UpdateRequest{}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	result, err = env.engine.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if result.Modules[1].Stale {
		t.Error("toml should be fresh after update")
	}
}
