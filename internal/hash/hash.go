// Package hash provides deterministic tree hashing for build records.
//
// mystubs fingerprints the cached generated tree of each module so a build
// record can be checked against what is actually on disk. A record whose
// hash no longer matches the cache forces regeneration rather than silently
// reusing a tampered or corrupted tree. The digest is BLAKE2b, computed over
// the sorted relative paths and contents of every file in the tree.
package hash

import (
	"encoding/hex"
	"fmt"
	"path/filepath"

	"golang.org/x/crypto/blake2b"

	"github.com/mystubs/mystubs/internal/fsops"
)

// Algo is the name recorded next to every digest this package produces.
// Records naming any other algorithm are treated as stale by the engine.
const Algo = "blake2b"

// Hasher provides an abstraction for tree hashing operations.
type Hasher interface {
	// HashTree computes a hex digest of the directory tree at root.
	// A missing root hashes to a stable "absent" digest, not an error.
	HashTree(root string) (string, error)
}

// TreeHasher implements Hasher using BLAKE2b over a sorted file walk.
type TreeHasher struct {
	fs fsops.FS
}

// NewTreeHasher creates a new TreeHasher.
func NewTreeHasher(fs fsops.FS) *TreeHasher {
	return &TreeHasher{fs: fs}
}

// HashTree computes the BLAKE2b digest of the tree rooted at root.
// Paths and contents both feed the digest, so renames and edits are
// equally visible. The walk is lexical, so the digest is stable.
func (h *TreeHasher) HashTree(root string) (string, error) {
	hasher, err := blake2b.New256(nil)
	if err != nil {
		return "", fmt.Errorf("failed to initialize hasher: %w", err)
	}

	exists, err := h.fs.IsDir(root)
	if err != nil {
		return "", fmt.Errorf("failed to check tree root: %w", err)
	}
	if !exists {
		hasher.Write([]byte{0})
		return hex.EncodeToString(hasher.Sum(nil)), nil
	}
	hasher.Write([]byte{1})

	fileCount := 0
	err = h.fs.WalkFiles(root, func(rel string) error {
		data, err := h.fs.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", rel, err)
		}
		hasher.Write([]byte(rel))
		hasher.Write([]byte{0})
		hasher.Write(data)
		fileCount++
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to walk tree: %w", err)
	}

	fmt.Fprintf(hasher, "count:%d", fileCount)
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// FakeHasher implements Hasher with deterministic hashes for testing.
type FakeHasher struct {
	hashes map[string]string
}

// NewFakeHasher creates a new FakeHasher.
func NewFakeHasher() *FakeHasher {
	return &FakeHasher{hashes: make(map[string]string)}
}

// SetHash sets the hash for a specific root (for testing).
func (h *FakeHasher) SetHash(root, hash string) {
	h.hashes[root] = hash
}

// HashTree returns the predetermined hash for the given root.
func (h *FakeHasher) HashTree(root string) (string, error) {
	if hash, ok := h.hashes[root]; ok {
		return hash, nil
	}
	return "fakehash", nil
}
