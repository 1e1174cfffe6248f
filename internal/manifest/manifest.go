package manifest

import (
	"fmt"
	"os"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/cbout22/nix-prefetch-github/internal/config"
)

const DefaultManifestFile = "sources.toml"

// Manifest represents the full sources.toml file: named GitHub sources
// that `sync` pins to a commit and hash.
type Manifest struct {
	Sources map[string]Source `toml:"sources"`
}

// Source is one [sources.<name>] table.
type Source struct {
	Repo            string `toml:"repo"`          // owner/name
	Rev             string `toml:"rev,omitempty"` // branch, tag or commit; empty for the default branch
	FetchSubmodules bool   `toml:"fetch_submodules,omitempty"`
	DeepClone       bool   `toml:"deep_clone,omitempty"`
	LeaveDotGit     bool   `toml:"leave_dot_git,omitempty"`
}

// Repository parses the repo field.
func (s Source) Repository() (config.Repository, error) {
	return config.ParseRepository(s.Repo)
}

// Options returns the prefetch options of the source.
func (s Source) Options() config.PrefetchOptions {
	return config.PrefetchOptions{
		FetchSubmodules: s.FetchSubmodules,
		DeepClone:       s.DeepClone,
		LeaveDotGit:     s.LeaveDotGit,
	}
}

// Raw returns "owner/name@rev", or just "owner/name" without a rev.
func (s Source) Raw() string {
	if s.Rev == "" {
		return s.Repo
	}
	return s.Repo + "@" + s.Rev
}

// New returns an empty Manifest with initialised maps.
func New() *Manifest {
	return &Manifest{Sources: make(map[string]Source)}
}

// Load reads and parses a sources.toml file from the given path.
// If the file does not exist it returns an empty manifest (no error).
func Load(path string) (*Manifest, error) {
	m := New()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return m, nil
		}
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	if err := toml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}

	if m.Sources == nil {
		m.Sources = make(map[string]Source)
	}
	for name, src := range m.Sources {
		if _, err := src.Repository(); err != nil {
			return nil, fmt.Errorf("source %q: %w", name, err)
		}
	}

	return m, nil
}

// Save writes the manifest back to the given path.
func (m *Manifest) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating manifest file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(m); err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}

	return nil
}

// Set adds or replaces a source after validating its repository.
func (m *Manifest) Set(name string, src Source) error {
	if name == "" {
		return fmt.Errorf("source name must not be empty")
	}
	if _, err := src.Repository(); err != nil {
		return err
	}
	m.Sources[name] = src
	return nil
}

// Get returns the named source.
func (m *Manifest) Get(name string) (Source, bool) {
	src, ok := m.Sources[name]
	return src, ok
}

// Remove deletes a source. Returns true if it existed.
func (m *Manifest) Remove(name string) bool {
	if _, ok := m.Sources[name]; !ok {
		return false
	}
	delete(m.Sources, name)
	return true
}

// AllEntries returns every source sorted by name.
func (m *Manifest) AllEntries() []Entry {
	entries := make([]Entry, 0, len(m.Sources))
	for name, src := range m.Sources {
		entries = append(entries, Entry{Name: name, Source: src})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries
}

// Entry is a named source.
type Entry struct {
	Name string
	Source
}
