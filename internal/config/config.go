// Package config manages mystubs configuration and filesystem paths.
//
// Project configuration lives in .mystubs.toml at the project root. Scalar
// settings can be overridden with MYSTUBS_* environment variables. The raw
// [modules] table is handed to the resolver untouched so it can validate
// option keys and support the string shorthand form.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the project configuration file, looked up in the
	// working directory.
	ConfigFileName = ".mystubs.toml"

	// EnvPrefix is the prefix for environment variable overrides.
	EnvPrefix = "MYSTUBS"
)

// Config holds the project configuration for a run.
type Config struct {
	// DiscoverModules enables turning every manifest entry into a module.
	DiscoverModules bool

	// LocalStubsDirectory is the project-local root for output, cache,
	// state and the project-local overlay.
	LocalStubsDirectory string

	// RequirementsPaths lists the requirements files forming the manifest.
	RequirementsPaths []string

	// Python is the interpreter probed for the host runtime version.
	Python string

	// Stubgen is the external stub generation tool.
	Stubgen string

	// Modules is the raw [modules] table. Values are either a settings
	// table or a bare version string. Keys are lowercased, matching
	// PEP 503 normalized package names.
	Modules map[string]interface{}
}

// Load reads the configuration file from dir, applying defaults and
// MYSTUBS_* environment overrides.
func Load(dir string) (*Config, error) {
	v := viper.New()

	v.SetDefault("discover_modules", false)
	v.SetDefault("local_stubs_directory", ".mystubs")
	v.SetDefault("requirements_paths", []string{"requirements.txt"})
	v.SetDefault("python", "python3")
	v.SetDefault("stubgen", "stubgen")

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	path := filepath.Join(dir, ConfigFileName)
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no %s found in %s: %w", ConfigFileName, dir, err)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	cfg := &Config{
		DiscoverModules:     v.GetBool("discover_modules"),
		LocalStubsDirectory: v.GetString("local_stubs_directory"),
		RequirementsPaths:   v.GetStringSlice("requirements_paths"),
		Python:              v.GetString("python"),
		Stubgen:             v.GetString("stubgen"),
		Modules:             v.GetStringMap("modules"),
	}

	return cfg, nil
}
