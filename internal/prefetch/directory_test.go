package prefetch

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cbout22/nix-prefetch-github/internal/config"
	"github.com/cbout22/nix-prefetch-github/internal/resolver"
)

type fakeDetector struct {
	checkout Checkout
	err      error
	dir      string
	remote   string
}

func (d *fakeDetector) Detect(_ context.Context, dir, remoteName string) (Checkout, error) {
	d.dir, d.remote = dir, remoteName
	return d.checkout, d.err
}

func TestPrefetchDirectory(t *testing.T) {
	t.Parallel()
	commit := strings.Repeat("c", 40)
	d := &fakeDetector{checkout: Checkout{Repository: repo, Revision: commit}}
	h := &countingHasher{hash: "H"}
	p := New(resolver.NewRevisions(listingProvider{fail: true}, nil), h, WithDetector(d))

	got, err := p.PrefetchDirectory(context.Background(), "/src", "origin", config.PrefetchOptions{})
	require.NoError(t, err, "commit ids never need listing")
	assert.Equal(t, commit, got.Rev)
	assert.Equal(t, "/src", d.dir)
	assert.Equal(t, "origin", d.remote)
}

func TestPrefetchDirectory_DirtyWarns(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	d := &fakeDetector{checkout: Checkout{Repository: repo, Revision: strings.Repeat("c", 40), Dirty: true}}
	p := New(resolver.NewRevisions(listingProvider{}, nil), &countingHasher{hash: "H"},
		WithDetector(d), WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	_, err := p.PrefetchDirectory(context.Background(), ".", "origin", config.PrefetchOptions{})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "uncommitted changes")
}

func TestPrefetchDirectory_DetectError(t *testing.T) {
	t.Parallel()
	d := &fakeDetector{err: errors.New("not a git repository")}
	p := New(resolver.NewRevisions(listingProvider{}, nil), &countingHasher{}, WithDetector(d))

	_, err := p.PrefetchDirectory(context.Background(), ".", "origin", config.PrefetchOptions{})
	assert.ErrorContains(t, err, "not a git repository")
}
