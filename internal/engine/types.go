package engine

import (
	"github.com/mystubs/mystubs/internal/pyrt"
	"github.com/mystubs/mystubs/internal/version"
)

// ModuleStatus classifies the outcome of one module's update pipeline.
type ModuleStatus string

const (
	// StatusSkipped means the module was configured with skip = true.
	StatusSkipped ModuleStatus = "skipped"

	// StatusFresh means the build record matched and generation was skipped.
	// Overlays were still re-merged and the output rewritten.
	StatusFresh ModuleStatus = "fresh"

	// StatusRegenerated means stubs were regenerated and the record updated.
	StatusRegenerated ModuleStatus = "regenerated"

	// StatusGenerationFailed means the generator tool failed. Prior output,
	// cache, and record are left untouched.
	StatusGenerationFailed ModuleStatus = "generation-failed"

	// StatusFailed means a filesystem or state error interrupted the
	// module's pipeline after generation decisions were made.
	StatusFailed ModuleStatus = "failed"
)

// UpdateRequest represents a request to update stub output.
type UpdateRequest struct {
	// Module restricts the run to a single module. Empty means all
	// resolved modules.
	Module string
}

// ModuleOutcome reports what happened to one module during an update.
type ModuleOutcome struct {
	// Module is the module name.
	Module string

	// Version is the resolved effective version.
	Version version.ResolvedVersion

	// Status classifies the outcome.
	Status ModuleStatus

	// Files is the number of entries in the merged output tree. Zero for
	// skipped and failed modules.
	Files int

	// Err carries the failure for GenerationFailed and Failed statuses.
	Err error
}

// UpdateResult represents the result of an update run.
type UpdateResult struct {
	// Python is the probed host runtime version.
	Python pyrt.Version

	// Outcomes lists per-module results in processing order.
	Outcomes []ModuleOutcome
}

// Failed reports whether any module ended in a failure status.
func (r *UpdateResult) Failed() bool {
	for _, o := range r.Outcomes {
		if o.Status == StatusGenerationFailed || o.Status == StatusFailed {
			return true
		}
	}
	return false
}

// CleanRequest represents a request to remove generated artifacts.
type CleanRequest struct {
	// Module restricts cleaning to a single module. Empty means all
	// resolved modules.
	Module string
}

// CleanResult represents the result of a clean run.
type CleanResult struct {
	// Cleaned lists the modules whose artifacts were removed.
	Cleaned []string
}

// ModuleListing describes one module's resolution state for display.
type ModuleListing struct {
	// Module is the module name.
	Module string

	// Package is the importable package name stubs are generated for.
	Package string

	// Version is the resolved effective version.
	Version version.ResolvedVersion

	// Skipped is true for modules configured with skip = true.
	Skipped bool

	// Stale reports whether the next update would regenerate the module.
	Stale bool
}

// ListResult represents the result of listing resolved modules.
type ListResult struct {
	// Modules lists resolution state in processing order.
	Modules []ModuleListing
}
