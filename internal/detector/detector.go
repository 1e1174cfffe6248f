// Package detector finds the GitHub repository and commit of a local clone.
package detector

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"

	"github.com/cbout22/nix-prefetch-github/internal/config"
	"github.com/cbout22/nix-prefetch-github/internal/prefetch"
)

// DefaultRemote is the remote consulted when none is given.
const DefaultRemote = "origin"

var (
	ErrNotRepository = errors.New("not a git repository")
	ErrNoCommit      = errors.New("repository has no commits")
)

// Git inspects working trees with go-git.
type Git struct{}

func New() *Git {
	return &Git{}
}

var _ prefetch.Detector = (*Git)(nil)

// Detect opens the repository containing dir (searching parent
// directories for .git) and reports its GitHub remote, HEAD commit and
// whether the worktree has changes.
func (g *Git) Detect(ctx context.Context, dir, remoteName string) (prefetch.Checkout, error) {
	if err := ctx.Err(); err != nil {
		return prefetch.Checkout{}, err
	}
	if remoteName == "" {
		remoteName = DefaultRemote
	}

	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return prefetch.Checkout{}, fmt.Errorf("%w: %s", ErrNotRepository, dir)
		}
		return prefetch.Checkout{}, fmt.Errorf("opening %s: %w", dir, err)
	}

	remote, err := repo.Remote(remoteName)
	if err != nil {
		return prefetch.Checkout{}, fmt.Errorf("reading remote %q: %w", remoteName, err)
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return prefetch.Checkout{}, fmt.Errorf("remote %q has no url", remoteName)
	}
	ghRepo, err := config.ParseRemoteURL(urls[0])
	if err != nil {
		return prefetch.Checkout{}, err
	}

	head, err := repo.Head()
	if err != nil {
		return prefetch.Checkout{}, fmt.Errorf("%w: %w", ErrNoCommit, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return prefetch.Checkout{}, fmt.Errorf("opening worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return prefetch.Checkout{}, fmt.Errorf("reading worktree status: %w", err)
	}

	return prefetch.Checkout{
		Repository: ghRepo,
		Revision:   head.Hash().String(),
		Dirty:      hasTrackedChanges(status),
	}, nil
}

// hasTrackedChanges reports modifications to tracked files, staged or not.
// Untracked files do not make a checkout dirty.
func hasTrackedChanges(status git.Status) bool {
	for _, s := range status {
		if s.Staging == git.Untracked && s.Worktree == git.Untracked {
			continue
		}
		if s.Staging != git.Unmodified || s.Worktree != git.Unmodified {
			return true
		}
	}
	return false
}
