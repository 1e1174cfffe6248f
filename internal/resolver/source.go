package resolver

import (
	"context"

	"github.com/cbout22/nix-prefetch-github/internal/config"
)

// RevisionResolver turns a user supplied revision into a commit id.
type RevisionResolver interface {
	// Resolve returns the commit id for rev. An empty rev means HEAD.
	Resolve(ctx context.Context, repo config.Repository, rev string) (string, error)
}

// ReleaseLookup finds the tag of the latest published release.
type ReleaseLookup interface {
	LatestReleaseTag(ctx context.Context, repo config.Repository) (string, error)
}
