package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/cbout22/nix-prefetch-github/internal/manifest"
)

// newRemoveCmd creates the `remove` command.
// Usage: nix-prefetch-github remove NAME
func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove NAME",
		Short: "Remove a source from sources.toml and sources.lock",
		Args:  cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return completeManifestNames(manifest.DefaultManifestFile, toComplete)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemoveWith(cmd.OutOrStdout(), args[0], manifest.DefaultManifestFile, manifest.DefaultLockFile)
		},
	}
}

// runRemoveWith is the testable core of the remove command.
func runRemoveWith(w io.Writer, name, manifestPath, lockPath string) error {
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return fmt.Errorf("loading manifest: %w", err)
	}

	lock, err := manifest.LoadLock(lockPath)
	if err != nil {
		return fmt.Errorf("loading lock file: %w", err)
	}

	if !m.Remove(name) {
		return fmt.Errorf("%s not found in sources.toml", name)
	}
	lock.Remove(name)

	if err := m.Save(manifestPath); err != nil {
		return fmt.Errorf("saving manifest: %w", err)
	}

	if err := lock.Save(lockPath); err != nil {
		return fmt.Errorf("saving lock file: %w", err)
	}

	fmt.Fprintf(w, "🗑️  Removed %s from sources.toml\n", name)
	return nil
}
