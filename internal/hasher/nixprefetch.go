package hasher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cbout22/nix-prefetch-github/internal/command"
	"github.com/cbout22/nix-prefetch-github/internal/config"
)

// NixPrefetch hashes with nix-prefetch-url for plain archives and with
// nix-prefetch-git when any option needs a git checkout.
type NixPrefetch struct {
	runner    command.Runner
	converter *Converter
	logger    *slog.Logger
}

func NewNixPrefetch(runner command.Runner, logger *slog.Logger) *NixPrefetch {
	if logger == nil {
		logger = slog.Default()
	}
	return &NixPrefetch{runner: runner, converter: NewConverter(runner), logger: logger}
}

var _ Hasher = (*NixPrefetch)(nil)

func (n *NixPrefetch) Calculate(ctx context.Context, repo config.Repository, rev string, opts config.PrefetchOptions) (string, error) {
	opts = opts.Effective()

	var (
		sri string
		err error
	)
	if opts.IsDefault() {
		sri, err = n.prefetchURL(ctx, repo, rev)
	} else {
		sri, err = n.prefetchGit(ctx, repo, rev, opts)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrHashNotFound, err)
	}
	return strings.TrimPrefix(sri, "sha256-"), nil
}

func (n *NixPrefetch) prefetchURL(ctx context.Context, repo config.Repository, rev string) (string, error) {
	res, err := n.runner.Run(ctx, []string{"nix-prefetch-url", "--unpack", repo.ArchiveURL(rev)})
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		return "", fmt.Errorf("nix-prefetch-url exited with code %d", res.ExitCode)
	}
	digest := lastLine(res.Output)
	if digest == "" {
		return "", fmt.Errorf("nix-prefetch-url printed no hash")
	}
	n.logger.Debug("prefetched archive", "repository", repo.Raw(), "rev", rev, "digest", digest)
	return n.converter.ToSRI(ctx, digest)
}

func (n *NixPrefetch) prefetchGit(ctx context.Context, repo config.Repository, rev string, opts config.PrefetchOptions) (string, error) {
	args := []string{"nix-prefetch-git", "--quiet", "--url", repo.URL(), "--rev", rev}
	if opts.FetchSubmodules {
		args = append(args, "--fetch-submodules")
	}
	if opts.LeaveDotGit {
		args = append(args, "--leave-dotGit")
	}
	if opts.DeepClone {
		args = append(args, "--deepClone")
	}

	res, err := n.runner.Run(ctx, args)
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		return "", fmt.Errorf("nix-prefetch-git exited with code %d", res.ExitCode)
	}

	var out struct {
		SHA256 string `json:"sha256"`
		Hash   string `json:"hash"`
	}
	if err := json.Unmarshal([]byte(res.Output), &out); err != nil {
		return "", fmt.Errorf("decoding nix-prefetch-git output: %w", err)
	}
	switch {
	case strings.HasPrefix(out.Hash, "sha256-"):
		return out.Hash, nil
	case out.SHA256 != "":
		return n.converter.ToSRI(ctx, out.SHA256)
	default:
		return "", fmt.Errorf("nix-prefetch-git printed no hash")
	}
}

func lastLine(s string) string {
	lines := splitLines(strings.TrimSpace(s))
	return strings.TrimSpace(lines[len(lines)-1])
}
