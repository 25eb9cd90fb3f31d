// Package record persists per-module build records.
//
// A build record remembers which version a module's generated tree was
// built from, plus a digest of that tree, so later runs can skip
// regeneration when nothing changed. Records are small TOML files under
// .mystubs/.state/<module>/build.toml, created or updated only after a
// successful generation and removed on clean.
//
// The store is an explicit dependency of the engine, not ambient global
// state, so tests can swap in MemoryStore.
package record

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/mystubs/mystubs/internal/fsops"
)

// FileName is the record file kept in each module's state directory.
const FileName = "build.toml"

// BuildRecord marks the version a module's generated tree was produced
// from. Hash covers the cached generated tree; a mismatch means the cache
// no longer corresponds to the record and the module must regenerate.
type BuildRecord struct {
	Version  string    `toml:"version"`
	Hash     string    `toml:"hash"`
	HashAlgo string    `toml:"hash_algo"`
	BuiltAt  time.Time `toml:"built_at"`
}

// Store provides an interface for persisting build records.
type Store interface {
	// Load returns the record for a module, or nil when none exists.
	Load(module string) (*BuildRecord, error)

	// Save persists the record for a module atomically.
	Save(module string, rec *BuildRecord) error

	// Delete removes the record for a module. Removing an absent record
	// is not an error.
	Delete(module string) error
}

// FileStore implements Store using TOML files on disk.
type FileStore struct {
	fs       fsops.FS
	stateDir string
}

// NewFileStore creates a new FileStore rooted at stateDir.
func NewFileStore(fs fsops.FS, stateDir string) *FileStore {
	return &FileStore{fs: fs, stateDir: stateDir}
}

func (s *FileStore) recordPath(module string) string {
	return filepath.Join(s.stateDir, module, FileName)
}

// Load returns the record for a module, or nil when none exists.
func (s *FileStore) Load(module string) (*BuildRecord, error) {
	if err := s.fs.ValidateIdentifier(module); err != nil {
		return nil, fmt.Errorf("invalid module name: %w", err)
	}

	data, err := s.fs.ReadFile(s.recordPath(module))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read build record: %w", err)
	}

	var rec BuildRecord
	if err := toml.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to parse build record: %w", err)
	}

	return &rec, nil
}

// Save persists the record for a module atomically.
func (s *FileStore) Save(module string, rec *BuildRecord) error {
	if err := s.fs.ValidateIdentifier(module); err != nil {
		return fmt.Errorf("invalid module name: %w", err)
	}

	data, err := toml.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal build record: %w", err)
	}

	if err := s.fs.AtomicWrite(s.recordPath(module), data, 0644); err != nil {
		return fmt.Errorf("failed to write build record: %w", err)
	}

	return nil
}

// Delete removes the record (and its module state directory).
func (s *FileStore) Delete(module string) error {
	if err := s.fs.ValidateIdentifier(module); err != nil {
		return fmt.Errorf("invalid module name: %w", err)
	}

	if err := s.fs.RemoveAll(filepath.Join(s.stateDir, module)); err != nil {
		return fmt.Errorf("failed to delete build record: %w", err)
	}

	return nil
}

// MemoryStore implements Store in memory for testing.
type MemoryStore struct {
	records map[string]*BuildRecord
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*BuildRecord)}
}

// Load returns the record for a module, or nil when none exists.
func (s *MemoryStore) Load(module string) (*BuildRecord, error) {
	rec, ok := s.records[module]
	if !ok {
		return nil, nil
	}
	copied := *rec
	return &copied, nil
}

// Save stores a copy of the record.
func (s *MemoryStore) Save(module string, rec *BuildRecord) error {
	copied := *rec
	s.records[module] = &copied
	return nil
}

// Delete removes the record for a module.
func (s *MemoryStore) Delete(module string) error {
	delete(s.records, module)
	return nil
}
