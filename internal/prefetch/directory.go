package prefetch

import (
	"context"
	"fmt"

	"github.com/cbout22/nix-prefetch-github/internal/config"
)

// Checkout describes a local clone of a GitHub repository.
type Checkout struct {
	Repository config.Repository
	Revision   string // commit checked out at HEAD
	Dirty      bool
}

// Detector inspects a local git working tree.
type Detector interface {
	Detect(ctx context.Context, dir, remoteName string) (Checkout, error)
}

// PrefetchDirectory prefetches the commit checked out in dir, using the
// GitHub repository behind remoteName.
func (p *Prefetcher) PrefetchDirectory(ctx context.Context, dir, remoteName string, opts config.PrefetchOptions) (PrefetchedRepository, error) {
	if p.detector == nil {
		return PrefetchedRepository{}, fmt.Errorf("prefetcher has no repository detector")
	}
	co, err := p.detector.Detect(ctx, dir, remoteName)
	if err != nil {
		return PrefetchedRepository{}, fmt.Errorf("inspecting %s: %w", dir, err)
	}
	if co.Dirty {
		p.logger.Warn("working tree has uncommitted changes; they are not part of the hash", "directory", dir)
	}
	return p.PrefetchGithub(ctx, co.Repository, co.Revision, opts)
}
