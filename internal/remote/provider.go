package remote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cbout22/nix-prefetch-github/internal/command"
	"github.com/cbout22/nix-prefetch-github/internal/config"
)

// ErrListingFailed is returned when the remote references of a repository
// could not be listed (missing repository, network or auth failure).
var ErrListingFailed = errors.New("listing remote references failed")

// Provider builds a fresh Index for a repository on every call.
type Provider interface {
	Index(ctx context.Context, repo config.Repository) (*Index, error)
}

// LsRemote lists references with the git command line client.
type LsRemote struct {
	runner command.Runner
	logger *slog.Logger
}

// NewLsRemote returns a Provider that runs `git ls-remote --symref`.
func NewLsRemote(runner command.Runner, logger *slog.Logger) *LsRemote {
	if logger == nil {
		logger = slog.Default()
	}
	return &LsRemote{runner: runner, logger: logger}
}

var _ Provider = (*LsRemote)(nil)

// lsRemoteEnv keeps git from prompting for credentials on private or
// missing repositories.
var lsRemoteEnv = map[string]string{
	"GIT_ASKPASS":         "",
	"GIT_TERMINAL_PROMPT": "0",
}

func (l *LsRemote) Index(ctx context.Context, repo config.Repository) (*Index, error) {
	res, err := l.runner.Run(ctx,
		[]string{"git", "ls-remote", "--symref", repo.URL()},
		command.WithEnv(lsRemoteEnv),
	)
	if err != nil {
		return nil, fmt.Errorf("%w for %s: %w", ErrListingFailed, repo, err)
	}
	if res.ExitCode != 0 {
		l.logger.Debug("git ls-remote failed", "repository", repo.Raw(), "exit_code", res.ExitCode)
		return nil, fmt.Errorf("%w for %s: git exited with code %d", ErrListingFailed, repo, res.ExitCode)
	}
	return Parse(res.Output), nil
}
