package engine

import (
	"context"
	"fmt"
)

// Clean removes the generated artifacts of the resolved modules: the merged
// output tree, the cached generated tree, and the build record. The
// project-local and user-global overlays are user-authored and never touched.
// Naming a module that is neither configured nor discoverable is an error.
func (e *Engine) Clean(ctx context.Context, req *CleanRequest) (*CleanResult, error) {
	_, specs, err := e.resolveSpecs(req.Module)
	if err != nil {
		return nil, err
	}

	result := &CleanResult{}
	for _, spec := range specs {
		if err := e.cleanModule(spec.Name); err != nil {
			return result, err
		}
		e.logger.Debug("cleaned module", "module", spec.Name)
		result.Cleaned = append(result.Cleaned, spec.Name)
	}

	return result, nil
}

func (e *Engine) cleanModule(module string) error {
	if err := e.fs.RemoveAll(e.paths.OutputDir(module)); err != nil {
		return fmt.Errorf("failed to remove output for %s: %w", module, err)
	}
	if err := e.fs.RemoveAll(e.paths.CacheDir(module)); err != nil {
		return fmt.Errorf("failed to remove cache for %s: %w", module, err)
	}
	if err := e.records.Delete(module); err != nil {
		return fmt.Errorf("failed to remove build record for %s: %w", module, err)
	}
	return nil
}
