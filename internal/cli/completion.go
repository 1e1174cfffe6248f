package cli

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/cobra"

	"github.com/cbout22/nix-prefetch-github/internal/command"
	"github.com/cbout22/nix-prefetch-github/internal/config"
	"github.com/cbout22/nix-prefetch-github/internal/manifest"
	"github.com/cbout22/nix-prefetch-github/internal/remote"
)

// Short timeouts keep the shell from blocking on slow networks.
const (
	revCompletionTimeout  = 5 * time.Second
	repoCompletionTimeout = 2 * time.Second
)

// formatCompletionLine renders a cobra completion with a description.
func formatCompletionLine(value, desc string) string {
	return value + "\t" + desc
}

// truncate shortens s to at most max runes, ending in "..." when cut.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

// registerRevCompletion completes --rev from the remote's references.
func registerRevCompletion(cmd *cobra.Command, g *globalFlags) {
	_ = cmd.RegisterFlagCompletionFunc("rev", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) < 2 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		s, logger, err := g.load(cmd)
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		provider, err := newProvider(s.Remote, command.NewExecRunner(command.WithLogger(logger)), logger)
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		ctx, cancel := context.WithTimeout(context.Background(), revCompletionTimeout)
		defer cancel()
		idx, err := provider.Index(ctx, config.Repository{Owner: args[0], Name: args[1]})
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return revCompletions(idx, toComplete), cobra.ShellCompDirectiveNoFileComp
	})
}

// revCompletions lists branches in listing order, then tags newest first.
// Peeled "^{}" entries are hidden.
func revCompletions(idx *remote.Index, prefix string) []string {
	var completions []string
	for _, b := range idx.Branches() {
		if strings.HasPrefix(b, prefix) {
			completions = append(completions, formatCompletionLine(b, "Branch"))
		}
	}

	var tags []string
	for _, t := range idx.Tags() {
		if strings.HasSuffix(t, "^{}") || !strings.HasPrefix(t, prefix) {
			continue
		}
		tags = append(tags, t)
	}
	for _, t := range sortTags(tags) {
		completions = append(completions, formatCompletionLine(t, "Tag"))
	}
	return completions
}

// sortTags orders semantic versions newest first; other tags follow in
// their original order.
func sortTags(tags []string) []string {
	type versioned struct {
		name    string
		version *semver.Version
	}
	var versions []versioned
	var others []string
	for _, t := range tags {
		v, err := semver.NewVersion(t)
		if err != nil {
			others = append(others, t)
			continue
		}
		versions = append(versions, versioned{name: t, version: v})
	}
	sort.SliceStable(versions, func(i, j int) bool {
		return versions[i].version.GreaterThan(versions[j].version)
	})

	sorted := make([]string, 0, len(tags))
	for _, v := range versions {
		sorted = append(sorted, v.name)
	}
	return append(sorted, others...)
}

// completeOwnerRepo completes the REPO argument from the GitHub search API.
func completeOwnerRepo(cmd *cobra.Command, g *globalFlags, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) != 1 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	s, logger, err := g.load(cmd)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	s.GitHub.Timeout = repoCompletionTimeout

	ctx, cancel := context.WithTimeout(context.Background(), repoCompletionTimeout)
	defer cancel()
	hits, err := newGitHub(s.GitHub, logger).SearchRepositories(ctx, args[0], toComplete)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var completions []string
	for _, hit := range hits {
		desc := hit.Description
		if desc == "" {
			desc = "Repository"
		}
		completions = append(completions, formatCompletionLine(hit.Name, truncate(desc, 60)))
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}

// completeManifestNames completes source names from the manifest.
func completeManifestNames(manifestPath, toComplete string) ([]string, cobra.ShellCompDirective) {
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var completions []string
	for _, e := range m.AllEntries() {
		if strings.HasPrefix(e.Name, toComplete) {
			completions = append(completions, formatCompletionLine(e.Name, e.Raw()))
		}
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}
