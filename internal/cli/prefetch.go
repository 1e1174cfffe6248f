package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/cbout22/nix-prefetch-github/internal/detector"
	"github.com/cbout22/nix-prefetch-github/internal/prefetch"
	"github.com/cbout22/nix-prefetch-github/internal/presenter"
)

// fetchFunc runs one prefetch against the wired collaborators.
type fetchFunc func(ctx context.Context, a *app) (prefetch.PrefetchedRepository, error)

func runPrefetch(cmd *cobra.Command, g *globalFlags, out *outputFlags, fetch fetchFunc) error {
	s, logger, err := g.load(cmd)
	if err != nil {
		return err
	}
	pres, err := out.presenter(cmd, s.Output)
	if err != nil {
		return err
	}
	a, err := newApp(s, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	return runPrefetchWith(cmd.Context(), pres, func(ctx context.Context) (prefetch.PrefetchedRepository, error) {
		return fetch(ctx, a)
	})
}

// runPrefetchWith is the testable core of the prefetching commands.
func runPrefetchWith(ctx context.Context, pres *presenter.Presenter, fetch func(context.Context) (prefetch.PrefetchedRepository, error)) error {
	result, err := fetch(ctx)
	code, err := pres.Present(result, err)
	if err != nil {
		return err
	}
	if code != presenter.ExitOK {
		return errPrefetchFailed
	}
	return nil
}

// newLatestReleaseCmd creates the `latest-release` command.
// Usage: nix-prefetch-github latest-release OWNER REPO
func newLatestReleaseCmd(g *globalFlags) *cobra.Command {
	pf := &prefetchFlags{}

	cmd := &cobra.Command{
		Use:   "latest-release OWNER REPO",
		Short: "Prefetch the latest release of a repository",
		Long: `Looks up the latest published GitHub release of OWNER/REPO and prefetches
the commit its tag points at.`,
		Args: repositoryArgs,
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return completeOwnerRepo(cmd, g, args, toComplete)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := parseRepositoryArgs(args[0], args[1])
			if err != nil {
				return err
			}
			return runPrefetch(cmd, g, &pf.outputFlags, func(ctx context.Context, a *app) (prefetch.PrefetchedRepository, error) {
				return a.prefetcher.PrefetchLatestRelease(ctx, repo, pf.options(a.settings.Prefetch))
			})
		},
	}

	pf.bind(cmd, false)
	return cmd
}

// newDirectoryCmd creates the `directory` command.
// Usage: nix-prefetch-github directory [--directory DIR] [--remote NAME]
func newDirectoryCmd(g *globalFlags) *cobra.Command {
	pf := &prefetchFlags{}
	var dir, remoteName string

	cmd := &cobra.Command{
		Use:   "directory",
		Short: "Prefetch the commit checked out in a local clone",
		Long: `Reads the GitHub repository behind a remote of a local clone and prefetches
the commit at HEAD. Uncommitted changes are not part of the hash.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrefetch(cmd, g, &pf.outputFlags, func(ctx context.Context, a *app) (prefetch.PrefetchedRepository, error) {
				return a.prefetcher.PrefetchDirectory(ctx, dir, remoteName, pf.options(a.settings.Prefetch))
			})
		},
	}

	cmd.Flags().StringVar(&dir, "directory", ".", "Path of the local clone")
	cmd.Flags().StringVar(&remoteName, "remote", detector.DefaultRemote, "Git remote pointing at GitHub")
	pf.bind(cmd, false)
	return cmd
}
