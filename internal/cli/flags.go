package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cbout22/nix-prefetch-github/internal/config"
	"github.com/cbout22/nix-prefetch-github/internal/presenter"
)

// globalFlags are shared by every command.
type globalFlags struct {
	configPath string
	verbose    bool
	quiet      bool
}

func (g *globalFlags) bind(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&g.configPath, "config", config.DefaultSettingsPath(), "Settings file")
	flags.BoolVarP(&g.verbose, "verbose", "v", false, "Log debug output, including every executed command")
	flags.BoolVarP(&g.quiet, "quiet", "q", false, "Only log errors")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
}

// load reads the settings file and builds the logger for this run.
func (g *globalFlags) load(cmd *cobra.Command) (config.Settings, *slog.Logger, error) {
	logger := setupLogger(cmd.ErrOrStderr(), g.verbose, g.quiet)
	s, err := config.LoadSettings(g.configPath)
	if err != nil {
		return s, logger, err
	}
	logger.Debug("loaded settings", "path", g.configPath, "hasher", s.Hasher.Backend, "lister", s.Remote.Lister, "cache", s.Cache.Backend)
	return s, logger, nil
}

// optionFlags toggle the prefetch options. Each option has a --no- twin so
// that defaults from the settings file can be switched off.
type optionFlags struct {
	fetchSubmodules, noFetchSubmodules bool
	leaveDotGit, noLeaveDotGit         bool
	deepClone, noDeepClone             bool
}

func (o *optionFlags) bind(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.BoolVar(&o.fetchSubmodules, "fetch-submodules", false, "Include git submodules in the output derivation")
	flags.BoolVar(&o.noFetchSubmodules, "no-fetch-submodules", false, "Don't include git submodules in the output derivation")
	flags.BoolVar(&o.leaveDotGit, "leave-dot-git", false, "Include .git folder in the output derivation")
	flags.BoolVar(&o.noLeaveDotGit, "no-leave-dot-git", false, "Don't include .git folder in the output derivation")
	flags.BoolVar(&o.deepClone, "deep-clone", false, "Include all of the repository history in the output derivation (implies --leave-dot-git)")
	flags.BoolVar(&o.noDeepClone, "no-deep-clone", false, "Don't include the repository history in the output derivation")
	cmd.MarkFlagsMutuallyExclusive("fetch-submodules", "no-fetch-submodules")
	cmd.MarkFlagsMutuallyExclusive("leave-dot-git", "no-leave-dot-git")
	cmd.MarkFlagsMutuallyExclusive("deep-clone", "no-deep-clone")
}

// options applies the flags on top of defaults.
func (o *optionFlags) options(defaults config.PrefetchOptions) config.PrefetchOptions {
	opts := defaults
	opts.FetchSubmodules = toggle(opts.FetchSubmodules, o.fetchSubmodules, o.noFetchSubmodules)
	opts.LeaveDotGit = toggle(opts.LeaveDotGit, o.leaveDotGit, o.noLeaveDotGit)
	opts.DeepClone = toggle(opts.DeepClone, o.deepClone, o.noDeepClone)
	return opts
}

func toggle(def, on, off bool) bool {
	switch {
	case on:
		return true
	case off:
		return false
	default:
		return def
	}
}

// outputFlags select how a result is printed.
type outputFlags struct {
	nix   bool
	json  bool
	color string
	theme string
}

func (o *outputFlags) bind(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.BoolVar(&o.nix, "nix", false, "Print a fetchFromGitHub nix expression")
	flags.BoolVar(&o.json, "json", false, "Print a JSON object (default)")
	flags.StringVar(&o.color, "color", "", "Highlight output: auto, always or never")
	flags.StringVar(&o.theme, "theme", "", "Chroma style used for highlighting")
	cmd.MarkFlagsMutuallyExclusive("nix", "json")
}

func (o *outputFlags) format(s config.OutputSettings) string {
	switch {
	case o.nix:
		return config.FormatNix
	case o.json:
		return config.FormatJSON
	default:
		return s.Format
	}
}

// presenter builds the presenter writing to the command's streams.
func (o *outputFlags) presenter(cmd *cobra.Command, s config.OutputSettings) (*presenter.Presenter, error) {
	p := &presenter.Presenter{
		Out:    cmd.OutOrStdout(),
		Err:    cmd.ErrOrStderr(),
		Format: o.format(s),
	}

	mode := firstNonEmpty(o.color, s.Color)
	useColor, err := presenter.UseColor(mode, p.Out)
	if err != nil {
		return nil, err
	}
	if useColor {
		h, err := presenter.NewHighlighter(firstNonEmpty(o.theme, s.Theme))
		if err != nil {
			return nil, err
		}
		p.Highlight = h
	}
	return p, nil
}

// prefetchFlags are the flags of every command printing a single result.
type prefetchFlags struct {
	optionFlags
	outputFlags
	rev string
}

func (f *prefetchFlags) bind(cmd *cobra.Command, withRev bool) {
	if withRev {
		cmd.Flags().StringVar(&f.rev, "rev", "", "Branch, tag or commit to prefetch (default branch when empty)")
	}
	f.optionFlags.bind(cmd)
	f.outputFlags.bind(cmd)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
