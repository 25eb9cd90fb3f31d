// Package pyrt probes the host Python runtime.
//
// The user-global overlay is indexed by the Python version the project runs
// under ("3.12" or just "3"), so the engine needs to know it once per run.
// The probe shells out to the configured interpreter; tests use FakeRuntime.
package pyrt

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// versionProgram asks the interpreter for its own major.minor version.
const versionProgram = `import sys; print("%d.%d" % sys.version_info[:2])`

// Version is a Python major/minor version pair.
type Version struct {
	Major int
	Minor int
}

// MinorDir returns the minor-version overlay directory name, e.g. "3.12".
func (v Version) MinorDir() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// MajorDir returns the major-only overlay directory name, e.g. "3".
func (v Version) MajorDir() string {
	return strconv.Itoa(v.Major)
}

// String implements fmt.Stringer.
func (v Version) String() string {
	return v.MinorDir()
}

// ParseVersion parses "3.12" (or "3.12.1", extra parts ignored).
func ParseVersion(s string) (Version, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) < 2 {
		return Version{}, fmt.Errorf("invalid python version %q", s)
	}
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return Version{}, fmt.Errorf("invalid python version %q: %w", s, err)
	}
	minor, err := strconv.Atoi(parts[1])
	if err != nil {
		return Version{}, fmt.Errorf("invalid python version %q: %w", s, err)
	}
	return Version{Major: major, Minor: minor}, nil
}

// Runtime provides an abstraction for probing the host Python runtime.
type Runtime interface {
	// Version returns the interpreter's major/minor version.
	Version(ctx context.Context) (Version, error)
}

// ExecRuntime implements Runtime by executing the interpreter.
type ExecRuntime struct {
	interpreter string
}

// NewExecRuntime creates an ExecRuntime for the given interpreter
// (e.g. "python3" or an absolute venv path).
func NewExecRuntime(interpreter string) *ExecRuntime {
	return &ExecRuntime{interpreter: interpreter}
}

// Version executes the interpreter and parses its reported version.
func (r *ExecRuntime) Version(ctx context.Context) (Version, error) {
	cmd := exec.CommandContext(ctx, r.interpreter, "-c", versionProgram)
	output, err := cmd.Output()
	if err != nil {
		return Version{}, fmt.Errorf("failed to probe %s: %w", r.interpreter, err)
	}
	v, err := ParseVersion(string(output))
	if err != nil {
		return Version{}, fmt.Errorf("unexpected output from %s: %w", r.interpreter, err)
	}
	return v, nil
}

// FakeRuntime implements Runtime with a fixed version for testing.
type FakeRuntime struct {
	version Version
	err     error
}

// NewFakeRuntime creates a FakeRuntime reporting the given version.
func NewFakeRuntime(v Version) *FakeRuntime {
	return &FakeRuntime{version: v}
}

// Fail makes the fake report the given error instead of a version.
func (r *FakeRuntime) Fail(err error) {
	r.err = err
}

// Version returns the fixed version.
func (r *FakeRuntime) Version(ctx context.Context) (Version, error) {
	if r.err != nil {
		return Version{}, r.err
	}
	return r.version, nil
}
