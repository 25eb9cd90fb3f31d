// Package modules turns raw configuration plus the dependency manifest into
// the ordered set of modules a run will process.
package modules

import "fmt"

// VersionPolicy decides how a module's effective version is resolved:
// either an explicit pin from configuration, or automatic inference from
// the dependency manifest.
type VersionPolicy struct {
	auto  bool
	value string
}

// AutoVersion returns the policy that infers the version from the manifest.
func AutoVersion() VersionPolicy {
	return VersionPolicy{auto: true}
}

// ExplicitVersion returns the policy pinning the given version.
func ExplicitVersion(v string) VersionPolicy {
	return VersionPolicy{value: v}
}

// IsAuto reports whether the version is inferred from the manifest.
func (p VersionPolicy) IsAuto() bool {
	return p.auto
}

// Value returns the pinned version. Empty when the policy is auto.
func (p VersionPolicy) Value() string {
	return p.value
}

// String implements fmt.Stringer for log output.
func (p VersionPolicy) String() string {
	if p.auto {
		return "auto"
	}
	return p.value
}

// ModuleSpec describes one module to process. Immutable for the duration
// of a run.
type ModuleSpec struct {
	// Name is the unique module key, as it appears in the manifest.
	Name string

	// PackageName is the import-root name used when invoking generation
	// and locating overlay subtrees. Defaults to Name.
	PackageName string

	// Policy is the version-resolution policy.
	Policy VersionPolicy

	// Enabled is false for modules configured with skip = true.
	Enabled bool
}

// ConfigError reports malformed or contradictory configuration. It is
// fatal: no module is processed when the configuration cannot be trusted.
type ConfigError struct {
	Reason string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "config error: " + e.Reason
}

func configErrorf(format string, args ...interface{}) *ConfigError {
	return &ConfigError{Reason: fmt.Sprintf(format, args...)}
}
