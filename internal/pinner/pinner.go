// Package pinner prefetches manifest sources and records the results in
// the lock file.
package pinner

import (
	"context"
	"fmt"

	"github.com/cbout22/nix-prefetch-github/internal/config"
	"github.com/cbout22/nix-prefetch-github/internal/manifest"
	"github.com/cbout22/nix-prefetch-github/internal/prefetch"
)

// Source prefetches one GitHub revision.
type Source interface {
	PrefetchGithub(ctx context.Context, repo config.Repository, rev string, opts config.PrefetchOptions) (prefetch.PrefetchedRepository, error)
}

// Pinner resolves manifest sources and writes them to a lock file.
type Pinner struct {
	source Source
	lock   *manifest.LockFile
}

// New creates a Pinner.
func New(source Source, lock *manifest.LockFile) *Pinner {
	return &Pinner{source: source, lock: lock}
}

// PinResult holds the outcome of pinning a single source.
type PinResult struct {
	Name   string
	Ref    string // rev as written in the manifest
	Result prefetch.PrefetchedRepository
	Err    error
}

// Pin prefetches src and updates the lock entry for name. The lock is left
// untouched when the prefetch fails.
func (p *Pinner) Pin(ctx context.Context, name string, src manifest.Source) PinResult {
	res := PinResult{Name: name, Ref: src.Rev}

	repo, err := src.Repository()
	if err != nil {
		res.Err = err
		return res
	}

	fetched, err := p.source.PrefetchGithub(ctx, repo, src.Rev, src.Options())
	if err != nil {
		res.Err = err
		return res
	}

	p.lock.Set(name, src, fetched)
	res.Result = fetched
	return res
}

// PinAll pins entries one after another, in order. Once ctx is cancelled
// the remaining entries fail without being prefetched.
func (p *Pinner) PinAll(ctx context.Context, entries []manifest.Entry) []PinResult {
	results := make([]PinResult, 0, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			results = append(results, PinResult{Name: e.Name, Ref: e.Rev, Err: err})
			continue
		}
		results = append(results, p.Pin(ctx, e.Name, e.Source))
	}
	return results
}

// Verification compares a locked entry with a fresh prefetch of the same
// commit.
type Verification struct {
	Name   string
	Locked prefetch.PrefetchedRepository
	Fresh  prefetch.PrefetchedRepository
	Err    error
}

// Changed reports whether the fresh hash differs from the locked one.
func (v Verification) Changed() bool {
	return v.Err == nil && v.Locked.HashSum != v.Fresh.HashSum
}

// Verify re-prefetches the locked commit of name. The lock is not modified.
func (p *Pinner) Verify(ctx context.Context, name string) Verification {
	v := Verification{Name: name}
	entry, ok := p.lock.Get(name)
	if !ok {
		v.Err = fmt.Errorf("%s is not in the lock file", name)
		return v
	}
	v.Locked = entry.Result()
	v.Fresh, v.Err = p.source.PrefetchGithub(ctx, v.Locked.Repository, v.Locked.Rev, v.Locked.Options)
	return v
}
