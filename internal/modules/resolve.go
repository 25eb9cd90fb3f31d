package modules

import (
	"sort"
	"strings"

	"github.com/mystubs/mystubs/internal/config"
	"github.com/mystubs/mystubs/internal/manifest"
)

// autoVersionValue is the config sentinel selecting manifest inference.
const autoVersionValue = "auto"

// moduleOptionKeys are the option keys a [modules.<name>] section may carry.
// Anything else is almost always a typo and is rejected loudly.
var moduleOptionKeys = map[string]bool{
	"version":      true,
	"package_name": true,
	"skip":         true,
}

// Resolve produces the ordered set of ModuleSpec values to process.
//
// Configured modules come first, in sorted name order. With discovery
// enabled, manifest entries without a config section follow in manifest
// order. With discovery disabled and no module sections, Resolve fails:
// nothing to do is a reportable misconfiguration, not a silent no-op.
func Resolve(cfg *config.Config, man *manifest.Manifest) ([]ModuleSpec, error) {
	if !cfg.DiscoverModules && len(cfg.Modules) == 0 {
		return nil, configErrorf("no [modules] sections configured and discover_modules is false; nothing to do")
	}

	configured := make(map[string]bool, len(cfg.Modules))
	specs := make([]ModuleSpec, 0, len(cfg.Modules))

	names := make([]string, 0, len(cfg.Modules))
	for name := range cfg.Modules {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := validateModuleName(name); err != nil {
			return nil, err
		}
		spec, err := parseModuleSection(name, cfg.Modules[name])
		if err != nil {
			return nil, err
		}
		configured[name] = true
		specs = append(specs, spec)
	}

	if cfg.DiscoverModules {
		for _, entry := range man.Entries() {
			if configured[entry.Name] {
				continue
			}
			if err := validateModuleName(entry.Name); err != nil {
				return nil, err
			}
			specs = append(specs, ModuleSpec{
				Name:        entry.Name,
				PackageName: entry.Name,
				Policy:      AutoVersion(),
				Enabled:     true,
			})
		}
	}

	return specs, nil
}

// parseModuleSection interprets one [modules.<name>] value. The value is
// either a settings table or the bare version string shorthand
// (`toml = "0.10.0"`).
func parseModuleSection(name string, raw interface{}) (ModuleSpec, error) {
	spec := ModuleSpec{
		Name:        name,
		PackageName: name,
		Policy:      AutoVersion(),
		Enabled:     true,
	}

	switch value := raw.(type) {
	case string:
		if value != autoVersionValue {
			spec.Policy = ExplicitVersion(value)
		}
		return spec, nil

	case map[string]interface{}:
		for key, optValue := range value {
			if !moduleOptionKeys[key] {
				return ModuleSpec{}, configErrorf("module %q: unsupported option %q", name, key)
			}
			switch key {
			case "version":
				version, ok := optValue.(string)
				if !ok {
					return ModuleSpec{}, configErrorf("module %q: version must be a string", name)
				}
				if version != autoVersionValue {
					spec.Policy = ExplicitVersion(version)
				}
			case "package_name":
				pkg, ok := optValue.(string)
				if !ok || pkg == "" {
					return ModuleSpec{}, configErrorf("module %q: package_name must be a non-empty string", name)
				}
				spec.PackageName = pkg
			case "skip":
				skip, ok := optValue.(bool)
				if !ok {
					return ModuleSpec{}, configErrorf("module %q: skip must be a boolean", name)
				}
				spec.Enabled = !skip
			}
		}
		return spec, nil

	default:
		return ModuleSpec{}, configErrorf("module %q: expected a settings table or version string, got %T", name, raw)
	}
}

// validateModuleName rejects names that could escape the per-module
// directories they become.
func validateModuleName(name string) error {
	if name == "" {
		return configErrorf("empty module name")
	}
	if strings.ContainsAny(name, "/\\") || name == "." || name == ".." {
		return configErrorf("module %q: name must not contain path separators", name)
	}
	return nil
}
