package manifest

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/cbout22/nix-prefetch-github/internal/config"
	"github.com/cbout22/nix-prefetch-github/internal/nixexpr"
	"github.com/cbout22/nix-prefetch-github/internal/prefetch"
)

const DefaultLockFile = "sources.lock"

// LockFile records the commit and hash every source resolved to at the
// last sync, so `check` can detect drift.
type LockFile struct {
	// Version of the lock file format.
	Version int `json:"version"`
	// Entries keyed by source name.
	Entries map[string]LockEntry `json:"entries"`
}

// LockEntry is the pinned state of a single source.
type LockEntry struct {
	Name   string `json:"name"`
	Owner  string `json:"owner"`
	Repo   string `json:"repo"`
	Ref    string `json:"ref,omitempty"` // rev as written in the manifest
	Rev    string `json:"rev"`           // commit it resolved to
	Hash   string `json:"hash,omitempty"`
	SHA256 string `json:"sha256,omitempty"`
	config.PrefetchOptions
	Fingerprint string `json:"fingerprint"` // SHA-256 of the manifest entry
	SyncedAt    string `json:"synced_at"`   // RFC 3339 timestamp of last sync
}

// Repository returns the pinned repository.
func (e LockEntry) Repository() config.Repository {
	return config.Repository{Owner: e.Owner, Name: e.Repo}
}

// Result converts the entry back into a prefetch result.
func (e LockEntry) Result() prefetch.PrefetchedRepository {
	hash := e.SHA256
	if hash == "" {
		hash = strings.TrimPrefix(e.Hash, "sha256-")
	}
	return prefetch.PrefetchedRepository{
		Repository: e.Repository(),
		Rev:        e.Rev,
		HashSum:    hash,
		Options:    e.PrefetchOptions,
	}
}

// NewLockFile returns an initialised empty lock file.
func NewLockFile() *LockFile {
	return &LockFile{
		Version: 1,
		Entries: make(map[string]LockEntry),
	}
}

// LoadLock reads and parses a lock file.
// Returns an empty lock file if the file does not exist.
func LoadLock(path string) (*LockFile, error) {
	lf := NewLockFile()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return lf, nil
		}
		return nil, fmt.Errorf("reading lock file: %w", err)
	}

	if err := json.Unmarshal(data, lf); err != nil {
		return nil, fmt.Errorf("parsing lock file: %w", err)
	}

	if lf.Entries == nil {
		lf.Entries = make(map[string]LockEntry)
	}

	return lf, nil
}

// Save writes the lock file to the given path.
func (lf *LockFile) Save(path string) error {
	data, err := json.MarshalIndent(lf, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding lock file: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing lock file: %w", err)
	}

	return nil
}

// Set records the prefetch result of a source.
func (lf *LockFile) Set(name string, src Source, result prefetch.PrefetchedRepository) {
	hash, sha256 := nixexpr.HashFields(result.HashSum)
	lf.Entries[name] = LockEntry{
		Name:            name,
		Owner:           result.Repository.Owner,
		Repo:            result.Repository.Name,
		Ref:             src.Rev,
		Rev:             result.Rev,
		Hash:            hash,
		SHA256:          sha256,
		PrefetchOptions: result.Options,
		Fingerprint:     Fingerprint(src),
		SyncedAt:        time.Now().UTC().Format(time.RFC3339),
	}
}

// Get retrieves a lock entry, if it exists.
func (lf *LockFile) Get(name string) (LockEntry, bool) {
	e, ok := lf.Entries[name]
	return e, ok
}

// Remove deletes a lock entry.
func (lf *LockFile) Remove(name string) {
	delete(lf.Entries, name)
}

// Fingerprint identifies a manifest entry; it changes whenever the repo,
// rev or any option changes.
func Fingerprint(src Source) string {
	return checksum([]byte(src.Raw() + "?" + src.Options().String()))
}

// checksum returns the hex-encoded SHA-256 of the given data.
func checksum(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h)
}
