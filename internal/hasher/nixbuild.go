package hasher

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cbout22/nix-prefetch-github/internal/command"
	"github.com/cbout22/nix-prefetch-github/internal/config"
	"github.com/cbout22/nix-prefetch-github/internal/nixexpr"
)

// PlaceholderHash is a well-formed hash that never matches real content,
// which makes nix report the actual hash in its mismatch error.
const PlaceholderHash = "sha256-AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA="

// NixBuild builds a fetchFromGitHub expression with a placeholder hash and
// reads the real hash from nix-build's error output.
type NixBuild struct {
	runner command.Runner
	logger *slog.Logger
}

// NewNixBuild returns a Hasher that shells out to nix-build.
func NewNixBuild(runner command.Runner, logger *slog.Logger) *NixBuild {
	if logger == nil {
		logger = slog.Default()
	}
	return &NixBuild{runner: runner, logger: logger}
}

var _ Hasher = (*NixBuild)(nil)

// Expression returns the expression evaluated for repo at rev.
func Expression(repo config.Repository, rev string, opts config.PrefetchOptions) string {
	return nixexpr.Render(nixexpr.FetchFromGitHub{
		Owner:           repo.Owner,
		Repo:            repo.Name,
		Rev:             rev,
		Hash:            PlaceholderHash,
		PrefetchOptions: opts.Effective(),
	})
}

func (n *NixBuild) Calculate(ctx context.Context, repo config.Repository, rev string, opts config.PrefetchOptions) (string, error) {
	expr := Expression(repo, rev, opts)
	n.logger.Debug("evaluating fetcher", "repository", repo.Raw(), "rev", rev, "options", opts.Effective().String())

	// nix-build always fails here; only the output matters.
	res, err := n.runner.Run(ctx,
		[]string{"nix-build", "--no-out-link", "-E", expr},
		command.WithMergedStderr(),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrHashNotFound, err)
	}

	hash, ok := Extract(splitLines(res.Output))
	if !ok {
		n.logger.Debug("no hash in nix-build output", "exit_code", res.ExitCode, "output", res.Output)
		return "", fmt.Errorf("%w: nix-build output for %s@%s contained no hash", ErrHashNotFound, repo, rev)
	}
	return hash, nil
}
