package hasher

import (
	"context"
	"fmt"
	"strings"

	"github.com/cbout22/nix-prefetch-github/internal/command"
)

// Converter turns nix base32 sha256 digests into SRI strings.
type Converter struct {
	runner command.Runner
}

func NewConverter(runner command.Runner) *Converter {
	return &Converter{runner: runner}
}

// ToSRI converts a base32 sha256 digest to "sha256-<base64>".
func (c *Converter) ToSRI(ctx context.Context, digest string) (string, error) {
	res, err := c.runner.Run(ctx, []string{
		"nix", "--extra-experimental-features", "nix-command",
		"hash", "to-sri", "sha256:" + digest,
	})
	if err != nil {
		return "", fmt.Errorf("converting hash: %w", err)
	}
	sri := strings.TrimSpace(res.Output)
	if res.ExitCode != 0 || !strings.HasPrefix(sri, "sha256-") {
		return "", fmt.Errorf("converting hash: nix exited with code %d", res.ExitCode)
	}
	return sri, nil
}
