package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/cbout22/nix-prefetch-github/internal/config"
	"github.com/cbout22/nix-prefetch-github/internal/remote"
)

// ErrRevisionNotFound is returned when no reference matches the requested name.
var ErrRevisionNotFound = errors.New("revision not found")

var commitHashPattern = regexp.MustCompile(`^[0-9a-f]{40}$`)

// IsCommitHash reports whether s is a full lowercase hex commit id.
func IsCommitHash(s string) bool {
	return commitHashPattern.MatchString(s)
}

// Revisions resolves names against a freshly listed remote index.
type Revisions struct {
	provider remote.Provider
	logger   *slog.Logger
}

// NewRevisions creates a resolver that lists references through provider.
func NewRevisions(provider remote.Provider, logger *slog.Logger) *Revisions {
	if logger == nil {
		logger = slog.Default()
	}
	return &Revisions{provider: provider, logger: logger}
}

var _ RevisionResolver = (*Revisions)(nil)

// Resolve returns rev unchanged when it already is a commit id, without
// touching the network. Otherwise the remote is listed and the name is
// looked up, following a symbolic alias first and then trying, in order,
// the exact ref path, a branch, a peeled tag and a plain tag.
func (r *Revisions) Resolve(ctx context.Context, repo config.Repository, rev string) (string, error) {
	if IsCommitHash(rev) {
		return rev, nil
	}

	idx, err := r.provider.Index(ctx, repo)
	if err != nil {
		return "", fmt.Errorf("resolving %q in %s: %w", rev, repo, err)
	}

	name := rev
	if name == "" {
		name = "HEAD"
	}
	commit, ok := Lookup(idx, name)
	if !ok {
		return "", fmt.Errorf("%w: %q in %s", ErrRevisionNotFound, name, repo)
	}
	r.logger.Debug("resolved revision", "repository", repo.Raw(), "revision", name, "commit", commit)
	return commit, nil
}

// Lookup applies the disambiguation order to a single index.
func Lookup(idx *remote.Index, name string) (string, bool) {
	if target, ok := idx.Symref(name); ok {
		name = target
	}
	lookups := []func(string) (string, bool){
		idx.FullRefName,
		idx.Branch,
		func(n string) (string, bool) { return idx.Tag(n + "^{}") },
		idx.Tag,
	}
	for _, lookup := range lookups {
		if commit, ok := lookup(name); ok {
			return commit, true
		}
	}
	return "", false
}
