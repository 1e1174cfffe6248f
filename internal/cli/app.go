package cli

import (
	"fmt"
	"log/slog"

	"github.com/cbout22/nix-prefetch-github/internal/auth"
	"github.com/cbout22/nix-prefetch-github/internal/cache"
	"github.com/cbout22/nix-prefetch-github/internal/command"
	"github.com/cbout22/nix-prefetch-github/internal/config"
	"github.com/cbout22/nix-prefetch-github/internal/detector"
	"github.com/cbout22/nix-prefetch-github/internal/hasher"
	"github.com/cbout22/nix-prefetch-github/internal/prefetch"
	"github.com/cbout22/nix-prefetch-github/internal/remote"
	"github.com/cbout22/nix-prefetch-github/internal/resolver"
)

// app holds the collaborators wired from the settings of one run.
type app struct {
	settings   config.Settings
	logger     *slog.Logger
	prefetcher *prefetch.Prefetcher
	store      cache.Store // nil when caching is off
}

func newApp(s config.Settings, logger *slog.Logger) (*app, error) {
	runner := command.NewExecRunner(command.WithLogger(logger))

	provider, err := newProvider(s.Remote, runner, logger)
	if err != nil {
		return nil, err
	}

	h, err := hasher.New(s.Hasher.Backend, runner, runner, logger)
	if err != nil {
		return nil, err
	}

	store, err := cache.Open(s.Cache)
	if err != nil {
		return nil, err
	}
	if store != nil {
		h = cache.NewHasher(h, store, logger)
	}

	gh := newGitHub(s.GitHub, logger)

	return &app{
		settings: s,
		logger:   logger,
		prefetcher: prefetch.New(
			resolver.NewRevisions(provider, logger),
			h,
			prefetch.WithLogger(logger),
			prefetch.WithReleases(gh),
			prefetch.WithDetector(detector.New()),
		),
		store: store,
	}, nil
}

// Close releases the hash cache.
func (a *app) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

func newProvider(s config.RemoteSettings, runner command.Runner, logger *slog.Logger) (remote.Provider, error) {
	switch s.Lister {
	case config.ListerGit, "":
		return remote.NewLsRemote(runner, logger), nil
	case config.ListerGoGit:
		return remote.NewGoGit(logger), nil
	default:
		return nil, fmt.Errorf("unknown ref lister %q", s.Lister)
	}
}

func newGitHub(s config.GitHubSettings, logger *slog.Logger) *resolver.GitHub {
	return resolver.NewGitHub(auth.NewHTTPClient(s.Timeout, logger), s.APIURL)
}
