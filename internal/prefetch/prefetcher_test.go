package prefetch

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cbout22/nix-prefetch-github/internal/command"
	"github.com/cbout22/nix-prefetch-github/internal/config"
	"github.com/cbout22/nix-prefetch-github/internal/hasher"
	"github.com/cbout22/nix-prefetch-github/internal/remote"
	"github.com/cbout22/nix-prefetch-github/internal/resolver"
)

var repo = config.Repository{Owner: "owner", Name: "repo"}

const listing = "ref: refs/heads/master\tHEAD\n5678\trefs/heads/master\n1234\trefs/tags/v1.0"

// listingProvider serves a canned listing or fails like an unreachable remote.
type listingProvider struct {
	listing string
	fail    bool
}

func (p listingProvider) Index(context.Context, config.Repository) (*remote.Index, error) {
	if p.fail {
		return nil, remote.ErrListingFailed
	}
	return remote.Parse(p.listing), nil
}

// nixBuildRunner replays nix-build output.
type nixBuildRunner struct {
	output string
	calls  int
}

func (r *nixBuildRunner) Run(context.Context, []string, ...command.Option) (command.Result, error) {
	r.calls++
	return command.Result{ExitCode: 102, Output: r.output}, nil
}

// countingHasher counts calls and returns a fixed hash or error.
type countingHasher struct {
	hash  string
	err   error
	calls int
	rev   string
}

func (h *countingHasher) Calculate(_ context.Context, _ config.Repository, rev string, _ config.PrefetchOptions) (string, error) {
	h.calls++
	h.rev = rev
	return h.hash, h.err
}

type fakeReleases struct {
	tag string
	err error
}

func (f fakeReleases) LatestReleaseTag(context.Context, config.Repository) (string, error) {
	return f.tag, f.err
}

func requireFailure(t *testing.T, err error, want Reason) *Failure {
	t.Helper()
	var failure *Failure
	require.True(t, errors.As(err, &failure), "expected *Failure, got %v", err)
	assert.Equal(t, want, failure.Reason)
	return failure
}

// --- PrefetchGithub ---

func TestPrefetchGithub_EndToEnd(t *testing.T) {
	t.Parallel()
	runner := &nixBuildRunner{output: "error: hash mismatch in fixed-output derivation\n" +
		"         specified: sha256-AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA=\n" +
		"  got:    sha256-ABCDEF...\n"}
	p := New(
		resolver.NewRevisions(listingProvider{listing: listing}, nil),
		hasher.NewNixBuild(runner, nil),
	)

	got, err := p.PrefetchGithub(context.Background(), repo, "v1.0", config.PrefetchOptions{})
	require.NoError(t, err)
	assert.Equal(t, PrefetchedRepository{Repository: repo, Rev: "1234", HashSum: "ABCDEF...", Options: config.PrefetchOptions{}}, got)
	assert.Equal(t, 1, runner.calls)
}

func TestPrefetchGithub_DefaultBranch(t *testing.T) {
	t.Parallel()
	h := &countingHasher{hash: "H"}
	p := New(resolver.NewRevisions(listingProvider{listing: listing}, nil), h)

	got, err := p.PrefetchGithub(context.Background(), repo, "", config.PrefetchOptions{FetchSubmodules: true})
	require.NoError(t, err)
	assert.Equal(t, "5678", got.Rev)
	assert.Equal(t, "5678", h.rev)
	assert.True(t, got.Options.FetchSubmodules)
}

func TestPrefetchGithub_UnresolvableName(t *testing.T) {
	t.Parallel()
	h := &countingHasher{hash: "H"}
	p := New(resolver.NewRevisions(listingProvider{listing: listing}, nil), h)

	_, err := p.PrefetchGithub(context.Background(), repo, "does-not-exist", config.PrefetchOptions{})
	failure := requireFailure(t, err, UnableToLocateRevision)
	assert.ErrorIs(t, failure, resolver.ErrRevisionNotFound)
	assert.Zero(t, h.calls)
}

func TestPrefetchGithub_ListingFailureSkipsHashing(t *testing.T) {
	t.Parallel()
	h := &countingHasher{hash: "H"}
	p := New(resolver.NewRevisions(listingProvider{fail: true}, nil), h)

	_, err := p.PrefetchGithub(context.Background(), repo, "master", config.PrefetchOptions{})
	requireFailure(t, err, UnableToLocateRevision)
	assert.Zero(t, h.calls, "hasher must not run")
}

func TestPrefetchGithub_HashFailure(t *testing.T) {
	t.Parallel()
	runner := &nixBuildRunner{output: "error: cannot connect to daemon\n"}
	p := New(resolver.NewRevisions(listingProvider{listing: listing}, nil), hasher.NewNixBuild(runner, nil))

	_, err := p.PrefetchGithub(context.Background(), repo, "master", config.PrefetchOptions{})
	failure := requireFailure(t, err, UnableToCalculateHashSum)
	assert.ErrorIs(t, failure, hasher.ErrHashNotFound)
}

func TestPrefetchGithub_WarnsOnNondeterministicOptions(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	p := New(resolver.NewRevisions(listingProvider{listing: listing}, nil), &countingHasher{hash: "H"}, WithLogger(logger))

	_, err := p.PrefetchGithub(context.Background(), repo, "master", config.PrefetchOptions{DeepClone: true})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "option=deepClone")
	assert.Contains(t, buf.String(), "option=leaveDotGit")
	assert.Contains(t, buf.String(), "issues/8567")
}

// --- PrefetchLatestRelease ---

func TestPrefetchLatestRelease(t *testing.T) {
	t.Parallel()
	h := &countingHasher{hash: "H"}
	p := New(resolver.NewRevisions(listingProvider{listing: listing}, nil), h,
		WithReleases(fakeReleases{tag: "v1.0"}))

	got, err := p.PrefetchLatestRelease(context.Background(), repo, config.PrefetchOptions{})
	require.NoError(t, err)
	assert.Equal(t, "1234", got.Rev)
}

func TestPrefetchLatestRelease_NoRelease(t *testing.T) {
	t.Parallel()
	h := &countingHasher{hash: "H"}
	p := New(resolver.NewRevisions(listingProvider{listing: listing}, nil), h,
		WithReleases(fakeReleases{err: resolver.ErrNoRelease}))

	_, err := p.PrefetchLatestRelease(context.Background(), repo, config.PrefetchOptions{})
	failure := requireFailure(t, err, UnableToLocateRevision)
	assert.Equal(t, "no release found", failure.Message)
	assert.Contains(t, failure.Error(), "Unable to locate revision: no release found")
	assert.Zero(t, h.calls)
}

func TestPrefetchLatestRelease_TagNotListed(t *testing.T) {
	t.Parallel()
	p := New(resolver.NewRevisions(listingProvider{listing: listing}, nil), &countingHasher{hash: "H"},
		WithReleases(fakeReleases{tag: "v9.9"}))

	_, err := p.PrefetchLatestRelease(context.Background(), repo, config.PrefetchOptions{})
	requireFailure(t, err, UnableToLocateRevision)
}

func TestPrefetchLatestRelease_NotConfigured(t *testing.T) {
	t.Parallel()
	p := New(resolver.NewRevisions(listingProvider{listing: listing}, nil), &countingHasher{})
	_, err := p.PrefetchLatestRelease(context.Background(), repo, config.PrefetchOptions{})
	assert.Error(t, err)
}

// --- Reason ---

func TestReasonTitle(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Unable to locate revision", UnableToLocateRevision.Title())
	assert.Equal(t, "Unable to calculate sha256 sum", UnableToCalculateHashSum.Title())
	assert.Equal(t, "other", Reason("other").Title())
}
