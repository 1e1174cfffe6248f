// Package hasher computes the content hash nix assigns to a GitHub source tree.
package hasher

import (
	"context"
	"errors"
	"strings"

	"github.com/cbout22/nix-prefetch-github/internal/config"
)

// ErrHashNotFound is returned when no content hash could be obtained,
// either because the tool could not be run or because its output did not
// contain a recognisable hash.
var ErrHashNotFound = errors.New("unable to calculate hash")

// Hasher calculates the content hash of repo at rev.
// The returned token carries no "sha256-" prefix.
type Hasher interface {
	Calculate(ctx context.Context, repo config.Repository, rev string, opts config.PrefetchOptions) (string, error)
}

// ToolFinder reports whether a program is on PATH.
type ToolFinder interface {
	Available(program string) bool
}

func splitLines(s string) []string {
	return strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
}
