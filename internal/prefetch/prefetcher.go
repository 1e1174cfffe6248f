package prefetch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cbout22/nix-prefetch-github/internal/config"
	"github.com/cbout22/nix-prefetch-github/internal/hasher"
	"github.com/cbout22/nix-prefetch-github/internal/resolver"
)

// nondeterministicIssue tracks why deepClone and leaveDotGit hashes drift.
const nondeterministicIssue = "https://github.com/NixOS/nixpkgs/issues/8567"

// Prefetcher resolves a revision once and hashes it once. Nothing is retried.
type Prefetcher struct {
	revisions resolver.RevisionResolver
	hasher    hasher.Hasher
	releases  resolver.ReleaseLookup
	detector  Detector
	logger    *slog.Logger
}

// Option configures a Prefetcher.
type Option func(*Prefetcher)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Prefetcher) {
		p.logger = l
	}
}

// WithReleases enables PrefetchLatestRelease.
func WithReleases(r resolver.ReleaseLookup) Option {
	return func(p *Prefetcher) {
		p.releases = r
	}
}

// WithDetector enables PrefetchDirectory.
func WithDetector(d Detector) Option {
	return func(p *Prefetcher) {
		p.detector = d
	}
}

// New creates a Prefetcher.
func New(revisions resolver.RevisionResolver, h hasher.Hasher, opts ...Option) *Prefetcher {
	p := &Prefetcher{revisions: revisions, hasher: h, logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PrefetchGithub resolves rev (empty for the default branch) and hashes the
// resulting commit. Failures are returned as *Failure.
func (p *Prefetcher) PrefetchGithub(ctx context.Context, repo config.Repository, rev string, opts config.PrefetchOptions) (PrefetchedRepository, error) {
	p.warnNondeterministic(opts)

	commit, err := p.revisions.Resolve(ctx, repo, rev)
	if err != nil {
		return PrefetchedRepository{}, &Failure{Reason: UnableToLocateRevision, Err: err}
	}

	hash, err := p.hasher.Calculate(ctx, repo, commit, opts)
	if err != nil {
		return PrefetchedRepository{}, &Failure{Reason: UnableToCalculateHashSum, Err: err}
	}

	p.logger.Debug("prefetched repository", "repository", repo.Raw(), "rev", commit)
	return PrefetchedRepository{
		Repository: repo,
		Rev:        commit,
		HashSum:    hash,
		Options:    opts,
	}, nil
}

// PrefetchLatestRelease prefetches the tag of the latest GitHub release.
func (p *Prefetcher) PrefetchLatestRelease(ctx context.Context, repo config.Repository, opts config.PrefetchOptions) (PrefetchedRepository, error) {
	if p.releases == nil {
		return PrefetchedRepository{}, fmt.Errorf("prefetcher has no release lookup")
	}
	tag, err := p.releases.LatestReleaseTag(ctx, repo)
	if err != nil {
		return PrefetchedRepository{}, &Failure{Reason: UnableToLocateRevision, Message: "no release found", Err: err}
	}
	p.logger.Debug("found latest release", "repository", repo.Raw(), "tag", tag)
	return p.PrefetchGithub(ctx, repo, tag, opts)
}

func (p *Prefetcher) warnNondeterministic(opts config.PrefetchOptions) {
	for _, name := range opts.Effective().Nondeterministic() {
		p.logger.Warn("option produces hashes that may change over time",
			"option", name, "see", nondeterministicIssue)
	}
}
