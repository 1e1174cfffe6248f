package cache

import (
	"context"
	"errors"
	"log/slog"

	"github.com/cbout22/nix-prefetch-github/internal/config"
	"github.com/cbout22/nix-prefetch-github/internal/hasher"
	"github.com/cbout22/nix-prefetch-github/internal/resolver"
)

// Hasher wraps another hasher and remembers results for commit ids.
// Store failures are logged and never fail a calculation.
type Hasher struct {
	next   hasher.Hasher
	store  Store
	logger *slog.Logger
}

func NewHasher(next hasher.Hasher, store Store, logger *slog.Logger) *Hasher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hasher{next: next, store: store, logger: logger}
}

var _ hasher.Hasher = (*Hasher)(nil)

func (h *Hasher) Calculate(ctx context.Context, repo config.Repository, rev string, opts config.PrefetchOptions) (string, error) {
	if !resolver.IsCommitHash(rev) {
		return h.next.Calculate(ctx, repo, rev, opts)
	}

	key := Key(repo, rev, opts)
	cached, err := h.store.Get(ctx, key)
	switch {
	case err == nil:
		h.logger.Debug("hash cache hit", "key", key)
		return cached, nil
	case !errors.Is(err, ErrNotFound):
		h.logger.Warn("hash cache read failed", "key", key, "error", err)
	}

	hash, err := h.next.Calculate(ctx, repo, rev, opts)
	if err != nil {
		return "", err
	}
	if err := h.store.Put(ctx, key, hash); err != nil {
		h.logger.Warn("hash cache write failed", "key", key, "error", err)
	}
	return hash, nil
}
