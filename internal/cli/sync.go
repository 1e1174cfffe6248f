package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/cbout22/nix-prefetch-github/internal/manifest"
	"github.com/cbout22/nix-prefetch-github/internal/pinner"
)

// newSyncCmd creates the `sync` command.
// Usage: nix-prefetch-github sync
func newSyncCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Prefetch all sources defined in sources.toml",
		Long: `Resolves every source declared in sources.toml to a commit, calculates
its hash and records both in sources.lock.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, logger, err := g.load(cmd)
			if err != nil {
				return err
			}
			a, err := newApp(s, logger)
			if err != nil {
				return err
			}
			defer a.Close()
			return runSyncWith(cmd.Context(), cmd.OutOrStdout(), manifest.DefaultManifestFile, manifest.DefaultLockFile, a.prefetcher)
		},
	}
}

// runSyncWith is the testable core of the sync command.
func runSyncWith(ctx context.Context, w io.Writer, manifestPath, lockPath string, source pinner.Source) error {
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return fmt.Errorf("loading manifest: %w", err)
	}

	entries := m.AllEntries()
	if len(entries) == 0 {
		fmt.Fprintln(w, "📋 No sources in sources.toml, nothing to sync.")
		return nil
	}

	lock, err := manifest.LoadLock(lockPath)
	if err != nil {
		return fmt.Errorf("loading lock file: %w", err)
	}

	fmt.Fprintf(w, "🔄 Syncing %d source(s)...\n\n", len(entries))

	var errors []error
	for _, r := range pinner.New(source, lock).PinAll(ctx, entries) {
		if r.Err != nil {
			fmt.Fprintf(w, "  ❌ %s: %s\n", r.Name, r.Err)
			errors = append(errors, fmt.Errorf("%s: %w", r.Name, r.Err))
			continue
		}
		fmt.Fprintf(w, "  ✅ %s → %s\n", r.Name, r.Result.Rev)
	}

	if err := lock.Save(lockPath); err != nil {
		return fmt.Errorf("saving lock file: %w", err)
	}

	fmt.Fprintln(w)
	if len(errors) > 0 {
		return fmt.Errorf("sync completed with %d error(s)", len(errors))
	}

	fmt.Fprintln(w, "✅ All sources synced successfully.")
	return nil
}
