package engine

import (
	"context"
	"fmt"

	"github.com/mystubs/mystubs/internal/version"
)

// List reports the resolved module set and each module's staleness without
// mutating anything on disk.
func (e *Engine) List(ctx context.Context) (*ListResult, error) {
	man, specs, err := e.resolveSpecs("")
	if err != nil {
		return nil, err
	}

	result := &ListResult{}
	for _, spec := range specs {
		resolved := version.Resolve(spec, man)
		listing := ModuleListing{
			Module:  spec.Name,
			Package: spec.PackageName,
			Version: resolved,
			Skipped: !spec.Enabled,
		}

		if spec.Enabled {
			rec, err := e.records.Load(spec.Name)
			if err != nil {
				return nil, fmt.Errorf("failed to load build record for %s: %w", spec.Name, err)
			}
			listing.Stale = version.IsStale(resolved, rec)
			if !listing.Stale {
				stale, err := e.isStaleCache(spec.Name, rec)
				if err != nil {
					return nil, fmt.Errorf("failed to verify cache digest for %s: %w", spec.Name, err)
				}
				listing.Stale = stale
			}
		}

		result.Modules = append(result.Modules, listing)
	}

	return result, nil
}
