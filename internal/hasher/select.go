package hasher

import (
	"fmt"
	"log/slog"

	"github.com/cbout22/nix-prefetch-github/internal/command"
	"github.com/cbout22/nix-prefetch-github/internal/config"
)

// prefetchTools must all be on PATH for the auto backend to pick NixPrefetch.
var prefetchTools = []string{"nix-prefetch-url", "nix-prefetch-git"}

// New returns the Hasher for a configured backend name.
func New(backend string, runner command.Runner, finder ToolFinder, logger *slog.Logger) (Hasher, error) {
	switch backend {
	case config.HasherNixBuild, "":
		return NewNixBuild(runner, logger), nil
	case config.HasherNixPrefetch:
		return NewNixPrefetch(runner, logger), nil
	case config.HasherAuto:
		for _, tool := range prefetchTools {
			if !finder.Available(tool) {
				return NewNixBuild(runner, logger), nil
			}
		}
		return NewNixPrefetch(runner, logger), nil
	default:
		return nil, fmt.Errorf("unknown hasher backend %q", backend)
	}
}
