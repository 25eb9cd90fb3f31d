// Package stubtree models stub declaration trees and their layered merge.
//
// A StubTree is an ordered set of relative file paths mapping to declaration
// text. Trees are ephemeral: read from disk (or produced by generation) at
// the start of a module's pipeline, merged, and written back out as that
// module's output. Comparison and overwrite happen at the granularity of
// individual relative paths, never partial file contents.
package stubtree

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/mystubs/mystubs/internal/fsops"
)

// StubTree maps slash-separated relative paths to file content.
// A tree never holds two entries for the same path.
type StubTree struct {
	files map[string][]byte
}

// New creates an empty StubTree.
func New() *StubTree {
	return &StubTree{files: make(map[string][]byte)}
}

// Insert adds or replaces the entry at rel.
func (t *StubTree) Insert(rel string, content []byte) {
	t.files[rel] = content
}

// Get returns the content at rel.
func (t *StubTree) Get(rel string) ([]byte, bool) {
	content, ok := t.files[rel]
	return content, ok
}

// Paths returns all relative paths in sorted order.
func (t *StubTree) Paths() []string {
	paths := make([]string, 0, len(t.files))
	for p := range t.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Len returns the number of entries.
func (t *StubTree) Len() int {
	return len(t.files)
}

// IsEmpty reports whether the tree has no entries.
func (t *StubTree) IsEmpty() bool {
	return len(t.files) == 0
}

// ReadDir loads the tree rooted at root. A missing root yields an empty
// tree, not an error: overlay layers are optional by design.
func ReadDir(fs fsops.FS, root string) (*StubTree, error) {
	tree := New()

	isDir, err := fs.IsDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to check tree root %s: %w", root, err)
	}
	if !isDir {
		return tree, nil
	}

	err = fs.WalkFiles(root, func(rel string) error {
		if err := fs.ValidateRelPath(rel); err != nil {
			return fmt.Errorf("unsafe path in tree %s: %w", root, err)
		}
		data, err := fs.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", rel, err)
		}
		tree.Insert(rel, data)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return tree, nil
}

// WriteDir writes the tree to root as a full replace: whatever was there
// before is removed first, so entries dropped since the last run disappear
// rather than lingering.
func WriteDir(fs fsops.FS, root string, tree *StubTree) error {
	if err := fs.RemoveAll(root); err != nil {
		return fmt.Errorf("failed to clear %s: %w", root, err)
	}
	if err := fs.MkdirAll(root, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", root, err)
	}

	for _, rel := range tree.Paths() {
		content, _ := tree.Get(rel)
		target := filepath.Join(root, filepath.FromSlash(rel))
		if err := fs.AtomicWrite(target, content, os.FileMode(0644)); err != nil {
			return fmt.Errorf("failed to write %s: %w", rel, err)
		}
	}

	return nil
}
