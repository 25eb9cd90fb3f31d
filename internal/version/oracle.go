// Package version resolves the effective version of a module and decides
// whether its generated output is stale.
//
// Both operations are pure functions of their inputs: the module spec, the
// dependency manifest, and the persisted build record. Staleness only ever
// gates the generation stage; overlay merging is reapplied on every run
// regardless.
package version

import (
	"github.com/mystubs/mystubs/internal/manifest"
	"github.com/mystubs/mystubs/internal/modules"
	"github.com/mystubs/mystubs/internal/record"
)

// Source says where a resolved version came from.
type Source int

const (
	// Explicit means the version was pinned in configuration.
	Explicit Source = iota

	// InferredFromManifest means the version came from the manifest.
	InferredFromManifest

	// Unknown means no pin and no manifest entry exist. Unknown versions
	// are always treated as stale: regenerating on every run is better
	// than silently reusing output of unknowable provenance.
	Unknown
)

// String implements fmt.Stringer for log output.
func (s Source) String() string {
	switch s {
	case Explicit:
		return "explicit"
	case InferredFromManifest:
		return "manifest"
	case Unknown:
		return "unknown"
	default:
		return "invalid"
	}
}

// ResolvedVersion is the effective version of a module for this run.
type ResolvedVersion struct {
	Module string
	Value  string
	Source Source
}

// Resolve computes the effective version of a module.
func Resolve(spec modules.ModuleSpec, man *manifest.Manifest) ResolvedVersion {
	if !spec.Policy.IsAuto() {
		return ResolvedVersion{
			Module: spec.Name,
			Value:  spec.Policy.Value(),
			Source: Explicit,
		}
	}

	if v, ok := man.Lookup(spec.Name); ok {
		return ResolvedVersion{
			Module: spec.Name,
			Value:  v,
			Source: InferredFromManifest,
		}
	}

	return ResolvedVersion{Module: spec.Name, Source: Unknown}
}

// IsStale reports whether the module's generated layer must be rebuilt.
// True when no build record exists, when the recorded version differs from
// the resolved one, or when the resolved version is Unknown.
func IsStale(resolved ResolvedVersion, rec *record.BuildRecord) bool {
	if rec == nil {
		return true
	}
	if resolved.Source == Unknown {
		return true
	}
	return rec.Version != resolved.Value
}
