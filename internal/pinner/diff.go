package pinner

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/cbout22/nix-prefetch-github/internal/presenter"
)

// Diff returns a unified diff between the JSON records of the locked and
// the fresh result, or "" when they render identically.
func (v Verification) Diff() (string, error) {
	locked, err := presenter.JSON(v.Locked)
	if err != nil {
		return "", err
	}
	fresh, err := presenter.JSON(v.Fresh)
	if err != nil {
		return "", err
	}
	return computeDiff(locked, fresh), nil
}

func computeDiff(previous, current string) string {
	if previous == current {
		return ""
	}

	d := difflib.UnifiedDiff{
		A:        difflib.SplitLines(previous),
		B:        difflib.SplitLines(current),
		FromFile: "locked",
		ToFile:   "fresh",
		Context:  3,
	}

	res, err := difflib.GetUnifiedDiffString(d)
	if err != nil {
		return strings.TrimSpace(current)
	}

	return strings.TrimSpace(res)
}
