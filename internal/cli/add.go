package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/cbout22/nix-prefetch-github/internal/manifest"
	"github.com/cbout22/nix-prefetch-github/internal/pinner"
)

// newAddCmd creates the `add` command.
// Usage: nix-prefetch-github add NAME OWNER/REPO [--rev REV]
func newAddCmd(g *globalFlags) *cobra.Command {
	var opts optionFlags
	var rev string

	cmd := &cobra.Command{
		Use:   "add NAME OWNER/REPO",
		Short: "Add a source to sources.toml and prefetch it",
		Long: `Adds a named source to sources.toml, prefetches it and records the result
in sources.lock.

Example:
  nix-prefetch-github add nixpkgs NixOS/nixpkgs --rev nixos-24.05`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, logger, err := g.load(cmd)
			if err != nil {
				return err
			}
			o := opts.options(s.Prefetch)
			src := manifest.Source{
				Repo:            args[1],
				Rev:             rev,
				FetchSubmodules: o.FetchSubmodules,
				DeepClone:       o.DeepClone,
				LeaveDotGit:     o.LeaveDotGit,
			}
			// Reject bad input before wiring anything.
			if _, err := src.Repository(); err != nil {
				return err
			}
			a, err := newApp(s, logger)
			if err != nil {
				return err
			}
			defer a.Close()
			return runAddWith(cmd.Context(), cmd.OutOrStdout(), args[0], src, manifest.DefaultManifestFile, manifest.DefaultLockFile, a.prefetcher)
		},
	}

	cmd.Flags().StringVar(&rev, "rev", "", "Branch, tag or commit to track (default branch when empty)")
	opts.bind(cmd)

	return cmd
}

// runAddWith is the testable core of the add command.
func runAddWith(ctx context.Context, w io.Writer, name string, src manifest.Source, manifestPath, lockPath string, source pinner.Source) error {
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return fmt.Errorf("loading manifest: %w", err)
	}

	lock, err := manifest.LoadLock(lockPath)
	if err != nil {
		return fmt.Errorf("loading lock file: %w", err)
	}

	if err := m.Set(name, src); err != nil {
		return err
	}

	fmt.Fprintf(w, "📦 Adding %s from %s...\n", name, src.Raw())

	result := pinner.New(source, lock).Pin(ctx, name, src)
	if result.Err != nil {
		return fmt.Errorf("failed to prefetch: %w", result.Err)
	}

	if err := m.Save(manifestPath); err != nil {
		return fmt.Errorf("saving manifest: %w", err)
	}

	if err := lock.Save(lockPath); err != nil {
		return fmt.Errorf("saving lock file: %w", err)
	}

	fmt.Fprintf(w, "✅ %s pinned to %s\n", name, result.Result.Rev)
	return nil
}
