package overlay

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mystubs/mystubs/internal/fsops"
	"github.com/mystubs/mystubs/internal/pyrt"
)

var py312 = pyrt.Version{Major: 3, Minor: 12}

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestSelectVersionDir(t *testing.T) {
	tests := []struct {
		name      string
		available []string
		want      string
		wantOK    bool
	}{
		{"both present prefers minor", []string{"3.12", "3"}, "3.12", true},
		{"minor only", []string{"3.12"}, "3.12", true},
		{"major only", []string{"3"}, "3", true},
		{"neither", nil, "", false},
		{"unrelated version ignored", []string{"3.11", "2"}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SelectVersionDir(tt.available, py312)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("SelectVersionDir(%v) = (%q, %v), want (%q, %v)",
					tt.available, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestUserGlobal_MajorOnlyFallback(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"3/toml/toml/__init__.pyi": "major\n",
	})
	source := NewUserGlobalSource(fsops.NewRealFS(), root)

	tree, err := source.Lookup(py312, "toml", "toml")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}

	got, ok := tree.Get("toml/__init__.pyi")
	if !ok {
		t.Fatal("major-only tree not returned")
	}
	if string(got) != "major\n" {
		t.Errorf("content = %q, want major", got)
	}
}

func TestUserGlobal_MinorBeatsMajorEntirely(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"3/toml/toml/__init__.pyi":    "major\n",
		"3/toml/toml/major_only.pyi":  "major extra\n",
		"3.12/toml/toml/__init__.pyi": "minor\n",
	})
	source := NewUserGlobalSource(fsops.NewRealFS(), root)

	tree, err := source.Lookup(py312, "toml", "toml")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}

	got, _ := tree.Get("toml/__init__.pyi")
	if string(got) != "minor\n" {
		t.Errorf("content = %q, want minor", got)
	}
	// No partial merge: files unique to the major tree must not leak in.
	if _, ok := tree.Get("toml/major_only.pyi"); ok {
		t.Error("major-only file merged in despite minor tree winning")
	}
}

func TestUserGlobal_AbsenceYieldsEmptyTree(t *testing.T) {
	source := NewUserGlobalSource(fsops.NewRealFS(), t.TempDir())

	tree, err := source.Lookup(py312, "toml", "toml")
	if err != nil {
		t.Fatalf("absence should not error: %v", err)
	}
	if !tree.IsEmpty() {
		t.Errorf("tree should be empty, has %d entries", tree.Len())
	}
}

func TestUserGlobal_SingleFileStubForm(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"3.12/docopt/docopt.pyi": "def docopt(doc): ...\n",
	})
	source := NewUserGlobalSource(fsops.NewRealFS(), root)

	tree, err := source.Lookup(py312, "docopt", "docopt")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if _, ok := tree.Get("docopt.pyi"); !ok {
		t.Error("single-file stub form not served")
	}
}

func TestUserGlobal_PackageNameDecidesExistence(t *testing.T) {
	root := t.TempDir()
	// The module dir exists under 3.12 but holds no tree for the package;
	// the major dir holds a real one. The major dir must win.
	if err := os.MkdirAll(filepath.Join(root, "3.12", "python-dateutil"), 0755); err != nil {
		t.Fatal(err)
	}
	writeFiles(t, root, map[string]string{
		"3/python-dateutil/dateutil/__init__.pyi": "major\n",
	})
	source := NewUserGlobalSource(fsops.NewRealFS(), root)

	tree, err := source.Lookup(py312, "python-dateutil", "dateutil")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if _, ok := tree.Get("dateutil/__init__.pyi"); !ok {
		t.Error("empty minor-version module dir should not shadow the major tree")
	}
}

func TestProjectLocal_Lookup(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"toml/toml/__init__.pyi": "local\n",
	})
	source := NewProjectLocalSource(fsops.NewRealFS(), root)

	tree, err := source.Lookup("toml")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	got, ok := tree.Get("toml/__init__.pyi")
	if !ok {
		t.Fatal("project-local tree not returned")
	}
	if string(got) != "local\n" {
		t.Errorf("content = %q, want local", got)
	}
}

func TestProjectLocal_AbsenceYieldsEmptyTree(t *testing.T) {
	source := NewProjectLocalSource(fsops.NewRealFS(), t.TempDir())

	tree, err := source.Lookup("missing")
	if err != nil {
		t.Fatalf("absence should not error: %v", err)
	}
	if !tree.IsEmpty() {
		t.Error("tree should be empty")
	}
}
