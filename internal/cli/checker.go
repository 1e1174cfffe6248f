package cli

import (
	"github.com/cbout22/nix-prefetch-github/internal/manifest"
)

// CheckStatus describes the sync status of a single source.
type CheckStatus int

const (
	CheckOK                CheckStatus = iota // Locked with the current definition
	CheckNeverSynced                          // Not in lock
	CheckDefinitionChanged                    // Repo, rev or options changed since the last sync
)

// CheckResult holds the outcome of checking one manifest entry.
type CheckResult struct {
	Name     string
	Status   CheckStatus
	LockRev  string // commit in lock file (empty if not in lock)
	LockRef  string // rev the lock entry was synced from
	ManifRef string // rev in manifest
}

// CheckSources validates all entries against the lock file.
// This is a pure function: it reads state through its arguments, not globals.
func CheckSources(entries []manifest.Entry, lock *manifest.LockFile) []CheckResult {
	results := make([]CheckResult, 0, len(entries))

	for _, entry := range entries {
		lockEntry, locked := lock.Get(entry.Name)

		var status CheckStatus
		switch {
		case !locked:
			status = CheckNeverSynced
		case lockEntry.Fingerprint != manifest.Fingerprint(entry.Source):
			status = CheckDefinitionChanged
		default:
			status = CheckOK
		}

		results = append(results, CheckResult{
			Name:     entry.Name,
			Status:   status,
			LockRev:  lockEntry.Rev,
			LockRef:  lockEntry.Ref,
			ManifRef: entry.Rev,
		})
	}

	return results
}
