// Package stubgen runs the external stub generator.
//
// Generation happens into a caller-provided workspace directory; the caller
// harvests the result from there. A failed run reports a GenerationError
// carrying the tool's combined output so the engine can surface diagnostics
// per module without aborting the whole run.
package stubgen

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// GenerationError reports a failed stub generation for one package.
type GenerationError struct {
	Package string
	Output  string
	Err     error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	msg := fmt.Sprintf("stub generation failed for %s: %v", e.Package, e.Err)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += "\n" + out
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Invoker provides an abstraction for generating type stubs.
type Invoker interface {
	// Generate produces stubs for an importable package into workspaceDir.
	Generate(ctx context.Context, packageName, workspaceDir string) error
}

// ExecInvoker implements Invoker by executing the configured generator tool.
type ExecInvoker struct {
	tool string
}

// NewExecInvoker creates an ExecInvoker for the given tool
// (e.g. "stubgen" or an absolute venv path).
func NewExecInvoker(tool string) *ExecInvoker {
	return &ExecInvoker{tool: tool}
}

// Generate runs `<tool> -p <package> -o <workspaceDir>`.
func (i *ExecInvoker) Generate(ctx context.Context, packageName, workspaceDir string) error {
	cmd := exec.CommandContext(ctx, i.tool, "-p", packageName, "-o", workspaceDir)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return &GenerationError{Package: packageName, Output: string(output), Err: err}
	}
	return nil
}

// FakeInvoker implements Invoker for testing. Generate writes the configured
// files into the workspace, or fails for packages registered with FailWith.
type FakeInvoker struct {
	files    map[string]map[string][]byte
	failures map[string]error
	Calls    []string
}

// NewFakeInvoker creates an empty FakeInvoker.
func NewFakeInvoker() *FakeInvoker {
	return &FakeInvoker{
		files:    make(map[string]map[string][]byte),
		failures: make(map[string]error),
	}
}

// SetOutput registers the files Generate writes for a package, keyed by
// slash-separated path relative to the workspace.
func (i *FakeInvoker) SetOutput(packageName string, files map[string][]byte) {
	i.files[packageName] = files
}

// FailWith makes Generate fail for a package.
func (i *FakeInvoker) FailWith(packageName string, err error) {
	i.failures[packageName] = err
}

// Generate records the call and writes the registered files.
func (i *FakeInvoker) Generate(ctx context.Context, packageName, workspaceDir string) error {
	i.Calls = append(i.Calls, packageName)
	if err, ok := i.failures[packageName]; ok {
		return &GenerationError{Package: packageName, Err: err}
	}
	for rel, content := range i.files[packageName] {
		full := filepath.Join(workspaceDir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(full, content, 0644); err != nil {
			return err
		}
	}
	return nil
}
