package hasher

import (
	"regexp"
	"strings"
)

// hashPatterns match the hash mismatch diagnostics of successive nix
// releases, oldest first. Each captures the actual hash in group 1.
var hashPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^output path .* has .* hash '([a-z0-9]{52})' when .*`),
	regexp.MustCompile(`^fixed-output derivation produced path .* with sha256 hash '([a-z0-9]{52})' instead of the expected hash .*`),
	regexp.MustCompile(`^  got: +(?:sha256:)?([a-z0-9]{52})`),
	regexp.MustCompile(`^\s+got: +(?:sha256-)?(.+)`),
}

// Extract scans nix output for the actual hash of a fixed-output
// derivation. Lines are checked in order and the first match wins.
func Extract(lines []string) (string, bool) {
	for _, line := range lines {
		for _, p := range hashPatterns {
			m := p.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			// "got:" without a digest is not a hash.
			if tok := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(m[1]), "sha256-")); tok != "" {
				return tok, true
			}
		}
	}
	return "", false
}
