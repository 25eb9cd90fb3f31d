// Package manifest reads the project's dependency manifest.
//
// The manifest is a pip requirements file (or several): an ordered list of
// (module name, pinned version) pairs. mystubs does not own this file; it
// only consumes it to discover modules and infer versions for specs with an
// "auto" version policy.
package manifest

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/mystubs/mystubs/internal/fsops"
)

// requirementSpec matches pinned requirement lines such as "toml==0.10.0"
// or "requests>=2.31". Lines that don't pin a version (bare names, URLs,
// includes, comments) are ignored, matching the original tool.
var requirementSpec = regexp.MustCompile(`^(?P<name>[A-Za-z0-9][A-Za-z0-9._-]*)[=><~!]+(?P<version>.+)$`)

// Entry is one (module name, version) pair from the manifest.
type Entry struct {
	Name    string
	Version string
}

// Manifest is an ordered set of manifest entries with name lookup.
type Manifest struct {
	entries []Entry
	index   map[string]int
}

// New creates an empty Manifest.
func New() *Manifest {
	return &Manifest{index: make(map[string]int)}
}

// add inserts or updates an entry. A repeated name keeps its original
// position but takes the later version (last file wins).
func (m *Manifest) add(name, version string) {
	if i, ok := m.index[name]; ok {
		m.entries[i].Version = version
		return
	}
	m.index[name] = len(m.entries)
	m.entries = append(m.entries, Entry{Name: name, Version: version})
}

// Entries returns the manifest entries in declaration order.
func (m *Manifest) Entries() []Entry {
	return m.entries
}

// Lookup returns the pinned version for a module name.
func (m *Manifest) Lookup(name string) (string, bool) {
	i, ok := m.index[name]
	if !ok {
		return "", false
	}
	return m.entries[i].Version, true
}

// Len returns the number of entries.
func (m *Manifest) Len() int {
	return len(m.entries)
}

// Parse reads requirement lines from r into m.
func (m *Manifest) Parse(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		match := requirementSpec.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		name := match[requirementSpec.SubexpIndex("name")]
		version := strings.TrimSpace(match[requirementSpec.SubexpIndex("version")])
		m.add(name, version)
	}
	return scanner.Err()
}

// Load reads and merges the given requirements files in order.
// A missing file is an error: a typo'd requirements path would otherwise
// silently make every auto-versioned module resolve to Unknown.
func Load(fs fsops.FS, paths []string) (*Manifest, error) {
	m := New()
	for _, path := range paths {
		data, err := fs.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read requirements file %s: %w", path, err)
		}
		if err := m.Parse(strings.NewReader(string(data))); err != nil {
			return nil, fmt.Errorf("failed to parse requirements file %s: %w", path, err)
		}
	}
	return m, nil
}
