package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/mystubs/mystubs/internal/hash"
	"github.com/mystubs/mystubs/internal/manifest"
	"github.com/mystubs/mystubs/internal/modules"
	"github.com/mystubs/mystubs/internal/pyrt"
	"github.com/mystubs/mystubs/internal/record"
	"github.com/mystubs/mystubs/internal/stubgen"
	"github.com/mystubs/mystubs/internal/stubtree"
	"github.com/mystubs/mystubs/internal/version"
)

// Algorithm steps:
// 1. Load the dependency manifest
// 2. Resolve the ordered module set from config + manifest
// 3. Probe the host Python version (shared by every module's overlay lookup)
// 4. Per module: resolve version, check record + cache digest, regenerate
//    into a temp workspace when stale, cache the tree, save the record
// 5. Per module: look up both overlay layers, merge, rewrite the output tree
// 6. Return per-module outcomes; generator and filesystem failures are
//    recorded per module, not fatal to the run
func (e *Engine) Update(ctx context.Context, req *UpdateRequest) (*UpdateResult, error) {
	man, specs, err := e.resolveSpecs(req.Module)
	if err != nil {
		return nil, err
	}

	py, err := e.runtime.Version(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to probe python runtime: %w", err)
	}
	e.logger.Debug("probed python runtime", "version", py)

	result := &UpdateResult{Python: py}
	for _, spec := range specs {
		outcome := e.updateModule(ctx, spec, man, py)
		if outcome.Err != nil {
			e.logger.Error("module update failed", "module", spec.Name, "err", outcome.Err)
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}

	return result, nil
}

// updateModule runs the full pipeline for one module.
func (e *Engine) updateModule(ctx context.Context, spec modules.ModuleSpec, man *manifest.Manifest, py pyrt.Version) ModuleOutcome {
	resolved := version.Resolve(spec, man)
	outcome := ModuleOutcome{Module: spec.Name, Version: resolved}

	if !spec.Enabled {
		outcome.Status = StatusSkipped
		return outcome
	}

	e.logger.Debug("resolved module version",
		"module", spec.Name, "version", resolved.Value, "source", resolved.Source)

	rec, err := e.records.Load(spec.Name)
	if err != nil {
		outcome.Status = StatusFailed
		outcome.Err = fmt.Errorf("failed to load build record: %w", err)
		return outcome
	}

	stale := version.IsStale(resolved, rec)
	if !stale {
		stale, err = e.isStaleCache(spec.Name, rec)
		if err != nil {
			outcome.Status = StatusFailed
			outcome.Err = fmt.Errorf("failed to verify cache digest: %w", err)
			return outcome
		}
		if stale {
			e.logger.Warn("cached tree does not match build record, regenerating",
				"module", spec.Name)
		}
	}

	if stale {
		if err := e.regenerate(ctx, spec, resolved); err != nil {
			var genErr *stubgen.GenerationError
			if errors.As(err, &genErr) {
				outcome.Status = StatusGenerationFailed
			} else {
				outcome.Status = StatusFailed
			}
			outcome.Err = err
			return outcome
		}
		outcome.Status = StatusRegenerated
	} else {
		outcome.Status = StatusFresh
	}

	files, err := e.mergeAndWrite(spec, py)
	if err != nil {
		outcome.Status = StatusFailed
		outcome.Err = err
		return outcome
	}
	outcome.Files = files

	return outcome
}

// regenerate produces fresh stubs for a module into a temp workspace, then
// replaces the cached tree and saves the build record. The record is written
// only after the cache is in place, so an interrupted run stays stale.
func (e *Engine) regenerate(ctx context.Context, spec modules.ModuleSpec, resolved version.ResolvedVersion) error {
	workspace, err := e.fs.TempDir("mystubs-gen-")
	if err != nil {
		return fmt.Errorf("failed to create generation workspace: %w", err)
	}
	defer func() { _ = e.fs.RemoveAll(workspace) }()

	e.logger.Debug("generating stubs", "module", spec.Name, "package", spec.PackageName)
	if err := e.invoker.Generate(ctx, spec.PackageName, workspace); err != nil {
		return err
	}

	generated, err := stubtree.ReadDir(e.fs, workspace)
	if err != nil {
		return fmt.Errorf("failed to read generated stubs: %w", err)
	}

	cacheDir := e.paths.CacheDir(spec.Name)
	if err := stubtree.WriteDir(e.fs, cacheDir, generated); err != nil {
		return fmt.Errorf("failed to cache generated stubs: %w", err)
	}

	digest, err := e.hasher.HashTree(cacheDir)
	if err != nil {
		return fmt.Errorf("failed to hash cached stubs: %w", err)
	}

	rec := &record.BuildRecord{
		Version:  resolved.Value,
		Hash:     digest,
		HashAlgo: hash.Algo,
		BuiltAt:  e.clock.Now(),
	}
	if err := e.records.Save(spec.Name, rec); err != nil {
		return fmt.Errorf("failed to save build record: %w", err)
	}

	return nil
}

// mergeAndWrite folds the three layers for a module and rewrites its output
// tree. This runs on every update regardless of staleness, so overlay edits
// take effect without touching the generated layer.
func (e *Engine) mergeAndWrite(spec modules.ModuleSpec, py pyrt.Version) (int, error) {
	generated, err := stubtree.ReadDir(e.fs, e.paths.CacheDir(spec.Name))
	if err != nil {
		return 0, fmt.Errorf("failed to read cached stubs: %w", err)
	}

	userGlobal, err := e.userOverlay.Lookup(py, spec.Name, spec.PackageName)
	if err != nil {
		return 0, fmt.Errorf("failed to read user overlay: %w", err)
	}

	projectLocal, err := e.localOverlay.Lookup(spec.Name)
	if err != nil {
		return 0, fmt.Errorf("failed to read project overlay: %w", err)
	}

	merged := stubtree.Merge(generated, userGlobal, projectLocal)
	if err := stubtree.WriteDir(e.fs, e.paths.OutputDir(spec.Name), merged); err != nil {
		return 0, fmt.Errorf("failed to write output tree: %w", err)
	}

	return merged.Len(), nil
}

// resolveSpecs loads the manifest and resolves the module set, optionally
// narrowed to a single named module.
func (e *Engine) resolveSpecs(only string) (*manifest.Manifest, []modules.ModuleSpec, error) {
	man, err := manifest.Load(e.fs, e.cfg.RequirementsPaths)
	if err != nil {
		return nil, nil, err
	}

	specs, err := modules.Resolve(e.cfg, man)
	if err != nil {
		return nil, nil, err
	}

	if only != "" {
		for _, spec := range specs {
			if spec.Name == only {
				return man, []modules.ModuleSpec{spec}, nil
			}
		}
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownModule, only)
	}

	return man, specs, nil
}
