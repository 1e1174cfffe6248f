package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cbout22/nix-prefetch-github/internal/config"
	"github.com/cbout22/nix-prefetch-github/internal/prefetch"
)

// version is set at build time via -ldflags.
var version = "dev"

// errPrefetchFailed signals a failure that was already explained to the user.
var errPrefetchFailed = errors.New("prefetch failed")

// NewRootCmd creates the top-level `nix-prefetch-github` command.
func NewRootCmd() *cobra.Command {
	g := &globalFlags{}
	pf := &prefetchFlags{}

	root := &cobra.Command{
		Use:   "nix-prefetch-github OWNER REPO",
		Short: "Prefetch sources from github",
		Long: `nix-prefetch-github resolves a branch, tag or commit of a GitHub repository
to a commit id and calculates the content hash nix expects for it, so the
result can be pasted into a fetchFromGitHub call.

The default branch is used when --rev is not given.`,
		Example: `  nix-prefetch-github NixOS nix
  nix-prefetch-github NixOS nixpkgs --rev nixos-24.05 --nix`,
		Version:       version,
		Args:          repositoryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return completeOwnerRepo(cmd, g, args, toComplete)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := parseRepositoryArgs(args[0], args[1])
			if err != nil {
				return err
			}
			return runPrefetch(cmd, g, &pf.outputFlags, func(ctx context.Context, a *app) (prefetch.PrefetchedRepository, error) {
				return a.prefetcher.PrefetchGithub(ctx, repo, pf.rev, pf.options(a.settings.Prefetch))
			})
		},
	}

	g.bind(root)
	pf.bind(root, true)
	registerRevCompletion(root, g)

	root.AddCommand(newLatestReleaseCmd(g))
	root.AddCommand(newDirectoryCmd(g))
	root.AddCommand(newAddCmd(g))
	root.AddCommand(newRemoveCmd())
	root.AddCommand(newSyncCmd(g))
	root.AddCommand(newCheckCmd(g))

	return root
}

// repositoryArgs requires exactly OWNER and REPO, each a single path segment.
func repositoryArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.ExactArgs(2)(cmd, args); err != nil {
		return err
	}
	_, err := parseRepositoryArgs(args[0], args[1])
	return err
}

func parseRepositoryArgs(owner, name string) (config.Repository, error) {
	if owner == "" || name == "" || strings.Contains(owner, "/") || strings.Contains(name, "/") {
		return config.Repository{}, fmt.Errorf("invalid repository %q %q: OWNER and REPO must be non-empty and contain no '/'", owner, name)
	}
	return config.ParseRepository(owner + "/" + name)
}

// Execute runs the root command.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		if !errors.Is(err, errPrefetchFailed) {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
		os.Exit(1)
	}
}
