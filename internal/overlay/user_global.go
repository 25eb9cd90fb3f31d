// Package overlay provides the two read-only overlay layer sources.
//
// The user-global overlay lives outside the project and is indexed by the
// host Python version; the project-local overlay lives inside the project's
// stubs directory and is indexed by module name only. Both contribute a
// StubTree per module; absence contributes an empty tree, never an error.
// Neither source ever mutates its backing storage.
package overlay

import (
	"fmt"
	"path/filepath"

	"github.com/mystubs/mystubs/internal/fsops"
	"github.com/mystubs/mystubs/internal/pyrt"
	"github.com/mystubs/mystubs/internal/stubtree"
)

// SelectVersionDir picks which version-indexed directory serves a lookup.
// available lists the version directory names that actually exist for the
// module. An exact minor match ("3.12") always beats a major-only match
// ("3"); when both exist, the minor tree is used in full and the major tree
// is ignored entirely. There is never a partial merge between the two
// fallback levels.
func SelectVersionDir(available []string, v pyrt.Version) (string, bool) {
	has := make(map[string]bool, len(available))
	for _, dir := range available {
		has[dir] = true
	}
	if has[v.MinorDir()] {
		return v.MinorDir(), true
	}
	if has[v.MajorDir()] {
		return v.MajorDir(), true
	}
	return "", false
}

// UserGlobalSource reads the user-global overlay root, organized as
// <root>/<version-dir>/<module>/<package-rooted paths>.
type UserGlobalSource struct {
	fs   fsops.FS
	root string
}

// NewUserGlobalSource creates a source rooted at root.
func NewUserGlobalSource(fs fsops.FS, root string) *UserGlobalSource {
	return &UserGlobalSource{fs: fs, root: root}
}

// Lookup returns the user-global overlay tree for a module, or an empty
// tree when no version directory holds one. A version directory counts as
// holding the module when the <version>/<module>/<package> subtree exists;
// the whole <version>/<module> tree is then used, so its entries come out
// package-rooted like every other layer.
func (s *UserGlobalSource) Lookup(v pyrt.Version, moduleName, packageName string) (*stubtree.StubTree, error) {
	var available []string
	for _, dir := range []string{v.MinorDir(), v.MajorDir()} {
		exists, err := s.versionDirServes(dir, moduleName, packageName)
		if err != nil {
			return nil, err
		}
		if exists {
			available = append(available, dir)
		}
	}

	chosen, ok := SelectVersionDir(available, v)
	if !ok {
		return stubtree.New(), nil
	}

	return stubtree.ReadDir(s.fs, filepath.Join(s.root, chosen, moduleName))
}

// versionDirServes reports whether a version directory holds an overlay
// for the module. The package entry may be a directory (package form) or a
// single <package>.pyi stub file.
func (s *UserGlobalSource) versionDirServes(dir, moduleName, packageName string) (bool, error) {
	base := filepath.Join(s.root, dir, moduleName)

	isDir, err := s.fs.IsDir(filepath.Join(base, packageName))
	if err != nil {
		return false, fmt.Errorf("failed to check user overlay %s/%s: %w", dir, moduleName, err)
	}
	if isDir {
		return true, nil
	}

	exists, err := s.fs.Exists(filepath.Join(base, packageName+".pyi"))
	if err != nil {
		return false, fmt.Errorf("failed to check user overlay %s/%s: %w", dir, moduleName, err)
	}
	return exists, nil
}

// ProjectLocalSource reads the project-local overlay root, organized as
// <root>/<module>/<package-rooted paths>. No version indexing.
type ProjectLocalSource struct {
	fs   fsops.FS
	root string
}

// NewProjectLocalSource creates a source rooted at root.
func NewProjectLocalSource(fs fsops.FS, root string) *ProjectLocalSource {
	return &ProjectLocalSource{fs: fs, root: root}
}

// Lookup returns the project-local overlay tree for a module, or an empty
// tree when none exists.
func (s *ProjectLocalSource) Lookup(moduleName string) (*stubtree.StubTree, error) {
	return stubtree.ReadDir(s.fs, filepath.Join(s.root, moduleName))
}
