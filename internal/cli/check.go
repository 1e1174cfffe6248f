package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cbout22/nix-prefetch-github/internal/manifest"
	"github.com/cbout22/nix-prefetch-github/internal/pinner"
)

// newCheckCmd creates the `check` command.
// Usage: nix-prefetch-github check [--strict] [--verify]
func newCheckCmd(g *globalFlags) *cobra.Command {
	var strict, verify bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check if sources.lock is in sync with sources.toml",
		Long: `Validates that every source in sources.toml has a lock entry synced from
its current definition. Useful in CI/CD pipelines.

With --verify, every locked commit is prefetched again and a diff is
printed when its hash moved. With --strict, the command exits with a
non-zero code if any source is stale, missing or changed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var source pinner.Source
			if verify {
				s, logger, err := g.load(cmd)
				if err != nil {
					return err
				}
				a, err := newApp(s, logger)
				if err != nil {
					return err
				}
				defer a.Close()
				source = a.prefetcher
			}
			return runCheckWith(cmd.Context(), cmd.OutOrStdout(), strict, manifest.DefaultManifestFile, manifest.DefaultLockFile, source)
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Exit with error code if sources are stale or missing")
	cmd.Flags().BoolVar(&verify, "verify", false, "Prefetch every locked commit again and compare hashes")

	return cmd
}

// runCheckWith is the testable core of the check command. A nil source
// skips hash verification.
func runCheckWith(ctx context.Context, w io.Writer, strict bool, manifestPath, lockPath string, source pinner.Source) error {
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return fmt.Errorf("loading manifest: %w", err)
	}

	entries := m.AllEntries()
	if len(entries) == 0 {
		fmt.Fprintln(w, "📋 No sources in sources.toml, nothing to check.")
		return nil
	}

	lock, err := manifest.LoadLock(lockPath)
	if err != nil {
		return fmt.Errorf("loading lock file: %w", err)
	}

	results := CheckSources(entries, lock)

	fmt.Fprintf(w, "🔍 Checking %d source(s)...\n\n", len(results))

	var p *pinner.Pinner
	if source != nil {
		p = pinner.New(source, lock)
	}

	var issues int
	for _, r := range results {
		switch r.Status {
		case CheckOK:
			if p == nil {
				fmt.Fprintf(w, "  ✅ %s: ok (%s)\n", r.Name, short(r.LockRev))
				continue
			}
			if !reportVerification(w, p.Verify(ctx, r.Name)) {
				issues++
			}
		case CheckNeverSynced:
			fmt.Fprintf(w, "  ❌ %s: never synced\n", r.Name)
			issues++
		case CheckDefinitionChanged:
			fmt.Fprintf(w, "  ⚠️  %s: definition changed since last sync (locked from %q, manifest says %q)\n", r.Name, r.LockRef, r.ManifRef)
			issues++
		}
	}

	fmt.Fprintln(w)
	if issues > 0 {
		msg := fmt.Sprintf("Found %d issue(s). Run 'nix-prefetch-github sync' to fix.", issues)
		if strict {
			return fmt.Errorf("%s", msg)
		}
		fmt.Fprintf(w, "⚠️  %s\n", msg)
	} else {
		fmt.Fprintln(w, "✅ All sources are in sync.")
	}
	return nil
}

// reportVerification prints the outcome of a re-prefetch and reports
// whether the locked hash still holds.
func reportVerification(w io.Writer, v pinner.Verification) bool {
	if v.Err != nil {
		fmt.Fprintf(w, "  ❌ %s: verification failed: %s\n", v.Name, v.Err)
		return false
	}
	if !v.Changed() {
		fmt.Fprintf(w, "  ✅ %s: ok, hash verified (%s)\n", v.Name, short(v.Locked.Rev))
		return true
	}
	fmt.Fprintf(w, "  ⚠️  %s: hash changed for %s\n", v.Name, short(v.Locked.Rev))
	diff, err := v.Diff()
	if err != nil {
		fmt.Fprintf(w, "      %s\n", err)
		return false
	}
	for _, line := range strings.Split(diff, "\n") {
		fmt.Fprintf(w, "      %s\n", line)
	}
	return false
}

// short abbreviates a commit id the way git log --oneline does.
func short(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}
