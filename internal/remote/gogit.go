package remote

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/storage/memory"

	"github.com/cbout22/nix-prefetch-github/internal/config"
)

// GoGit lists references in-process with go-git, without a git binary.
type GoGit struct {
	logger *slog.Logger
	list   func(ctx context.Context, url string) ([]*plumbing.Reference, error)
}

// NewGoGit returns a Provider backed by go-git.
func NewGoGit(logger *slog.Logger) *GoGit {
	if logger == nil {
		logger = slog.Default()
	}
	return &GoGit{logger: logger, list: listRemote}
}

var _ Provider = (*GoGit)(nil)

func listRemote(ctx context.Context, url string) ([]*plumbing.Reference, error) {
	rem := git.NewRemote(memory.NewStorage(), &gitconfig.RemoteConfig{
		Name: "origin",
		URLs: []string{url},
	})
	return rem.ListContext(ctx, &git.ListOptions{PeelingOption: git.AppendPeeled})
}

func (g *GoGit) Index(ctx context.Context, repo config.Repository) (*Index, error) {
	refs, err := g.list(ctx, repo.URL())
	if err != nil {
		return nil, fmt.Errorf("%w for %s: %w", ErrListingFailed, repo, err)
	}
	g.logger.Debug("listed remote references", "repository", repo.Raw(), "count", len(refs))
	return Parse(Listing(refs)), nil
}

// Listing renders references in the `git ls-remote --symref` text format:
// symbolic references first, then hash references, each sorted by name.
func Listing(refs []*plumbing.Reference) string {
	sorted := append([]*plumbing.Reference(nil), refs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if (a.Type() == plumbing.SymbolicReference) != (b.Type() == plumbing.SymbolicReference) {
			return a.Type() == plumbing.SymbolicReference
		}
		return a.Name().String() < b.Name().String()
	})

	var sb strings.Builder
	for _, ref := range sorted {
		switch ref.Type() {
		case plumbing.SymbolicReference:
			fmt.Fprintf(&sb, "%s%s\t%s\n", symrefPrefix, ref.Target(), ref.Name())
		case plumbing.HashReference:
			fmt.Fprintf(&sb, "%s\t%s\n", ref.Hash(), ref.Name())
		}
	}
	return sb.String()
}
