// Package engine provides the core business logic for mystubs operations.
//
// The engine package acts as the orchestration layer between CLI commands and
// lower-level operations. It coordinates manifest loading, module resolution,
// stub generation, build-record bookkeeping, and the layered overlay merge.
//
// Key components:
//   - Engine: Main orchestrator that coordinates all operations
//   - Update: Regenerates stale modules and rebuilds merged output
//   - Clean: Removes generated artifacts and build records
//   - List: Reports per-module resolution and staleness without mutating
package engine

import (
	"github.com/charmbracelet/log"

	"github.com/mystubs/mystubs/internal/clock"
	"github.com/mystubs/mystubs/internal/config"
	"github.com/mystubs/mystubs/internal/fsops"
	"github.com/mystubs/mystubs/internal/hash"
	"github.com/mystubs/mystubs/internal/pyrt"
	"github.com/mystubs/mystubs/internal/record"
	"github.com/mystubs/mystubs/internal/stubgen"
	"github.com/mystubs/mystubs/internal/stubtree"
)

// UserOverlay looks up the user-global overlay tree for a module.
type UserOverlay interface {
	Lookup(v pyrt.Version, moduleName, packageName string) (*stubtree.StubTree, error)
}

// ProjectOverlay looks up the project-local overlay tree for a module.
type ProjectOverlay interface {
	Lookup(moduleName string) (*stubtree.StubTree, error)
}

// Engine orchestrates all mystubs operations.
// It is the main API surface called by the CLI.
type Engine struct {
	fs           fsops.FS
	invoker      stubgen.Invoker
	records      record.Store
	hasher       hash.Hasher
	clock        clock.Clock
	runtime      pyrt.Runtime
	userOverlay  UserOverlay
	localOverlay ProjectOverlay
	paths        *config.Paths
	cfg          *config.Config
	logger       *log.Logger
}

// New creates a new Engine with the given dependencies.
func New(
	fs fsops.FS,
	invoker stubgen.Invoker,
	records record.Store,
	hasher hash.Hasher,
	clk clock.Clock,
	runtime pyrt.Runtime,
	userOverlay UserOverlay,
	localOverlay ProjectOverlay,
	paths *config.Paths,
	cfg *config.Config,
	logger *log.Logger,
) *Engine {
	return &Engine{
		fs:           fs,
		invoker:      invoker,
		records:      records,
		hasher:       hasher,
		clock:        clk,
		runtime:      runtime,
		userOverlay:  userOverlay,
		localOverlay: localOverlay,
		paths:        paths,
		cfg:          cfg,
		logger:       logger,
	}
}

// isStaleCache reports whether the cached generated tree no longer matches
// the build record. A record naming a different hash algorithm cannot be
// verified and counts as stale.
func (e *Engine) isStaleCache(module string, rec *record.BuildRecord) (bool, error) {
	if rec.HashAlgo != hash.Algo {
		return true, nil
	}

	digest, err := e.hasher.HashTree(e.paths.CacheDir(module))
	if err != nil {
		return false, err
	}

	return digest != rec.Hash, nil
}
