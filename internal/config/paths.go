package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Paths contains the filesystem layout for a run.
//
// The project-local tree lives under the configured local stubs directory:
//
//	.mystubs/
//	  out/<module>/       merged output the type checker reads
//	  .cache/<module>/    cached raw generated trees
//	  .state/<module>/    build records
//	  .local/<module>/    project-local overlay (user-authored)
//
// The user-global overlay lives outside the project, under the user config
// directory, indexed by Python version.
type Paths struct {
	// Root is the project-local stubs directory (default: .mystubs).
	Root string

	// Output is the directory holding merged per-module output trees.
	Output string

	// Cache is the directory holding cached generated trees.
	Cache string

	// State is the directory holding per-module build records.
	State string

	// ProjectOverlay is the project-local overlay root.
	ProjectOverlay string

	// UserOverlay is the user-global overlay root, containing
	// version-indexed subdirectories ("3" or "3.12").
	UserOverlay string
}

// NewPaths builds the path layout for the given project-local root and
// user-global overlay root.
func NewPaths(localRoot, userOverlayRoot string) *Paths {
	return &Paths{
		Root:           localRoot,
		Output:         filepath.Join(localRoot, "out"),
		Cache:          filepath.Join(localRoot, ".cache"),
		State:          filepath.Join(localRoot, ".state"),
		ProjectOverlay: filepath.Join(localRoot, ".local"),
		UserOverlay:    userOverlayRoot,
	}
}

// OutputDir returns the output tree location for a module.
func (p *Paths) OutputDir(module string) string {
	return filepath.Join(p.Output, module)
}

// CacheDir returns the cached generated tree location for a module.
func (p *Paths) CacheDir(module string) string {
	return filepath.Join(p.Cache, module)
}

// ProjectOverlayDir returns the project-local overlay location for a module.
func (p *Paths) ProjectOverlayDir(module string) string {
	return filepath.Join(p.ProjectOverlay, module)
}

// EnsureDirectories creates the project-local directories if needed.
// The overlay roots are read-only and deliberately not created here.
func (p *Paths) EnsureDirectories() error {
	dirs := []string{
		p.Root,
		p.Output,
		p.Cache,
		p.State,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// UserOverlayRoot returns the user-global overlay root using
// platform-specific conventions: Windows uses %APPDATA%, macOS uses
// ~/Library/Application Support, and Linux/others use $XDG_CONFIG_HOME
// (defaulting to ~/.config). MYSTUBS_CONFIG_DIR overrides the base.
func UserOverlayRoot() (string, error) {
	if override := os.Getenv("MYSTUBS_CONFIG_DIR"); override != "" {
		return filepath.Join(override, "local"), nil
	}

	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, "mystubs", "local"), nil
}
