// Package presenter writes prefetch results and failures for humans and
// for scripts.
package presenter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/cbout22/nix-prefetch-github/internal/config"
	"github.com/cbout22/nix-prefetch-github/internal/nixexpr"
	"github.com/cbout22/nix-prefetch-github/internal/prefetch"
)

// Exit codes returned by Present.
const (
	ExitOK      = 0
	ExitFailure = 1
)

// record is the JSON shape of a prefetched repository. Field order is the
// output key order.
type record struct {
	Owner           string `json:"owner"`
	Repo            string `json:"repo"`
	Rev             string `json:"rev"`
	Hash            string `json:"hash,omitempty"`
	SHA256          string `json:"sha256,omitempty"`
	FetchSubmodules bool   `json:"fetchSubmodules,omitempty"`
	LeaveDotGit     bool   `json:"leaveDotGit,omitempty"`
	DeepClone       bool   `json:"deepClone,omitempty"`
}

// JSON renders result as a 4-space indented JSON object.
func JSON(result prefetch.PrefetchedRepository) (string, error) {
	hash, sha256 := nixexpr.HashFields(result.HashSum)
	opts := result.Options.Effective()
	data, err := json.MarshalIndent(record{
		Owner:           result.Repository.Owner,
		Repo:            result.Repository.Name,
		Rev:             result.Rev,
		Hash:            hash,
		SHA256:          sha256,
		FetchSubmodules: opts.FetchSubmodules,
		LeaveDotGit:     opts.LeaveDotGit,
		DeepClone:       opts.DeepClone,
	}, "", "    ")
	if err != nil {
		return "", fmt.Errorf("encoding result: %w", err)
	}
	return string(data) + "\n", nil
}

// Nix renders result as a fetchFromGitHub expression.
func Nix(result prefetch.PrefetchedRepository) string {
	hash, sha256 := nixexpr.HashFields(result.HashSum)
	return nixexpr.Render(nixexpr.FetchFromGitHub{
		Owner:           result.Repository.Owner,
		Repo:            result.Repository.Name,
		Rev:             result.Rev,
		Hash:            hash,
		SHA256:          sha256,
		PrefetchOptions: result.Options.Effective(),
	})
}

// Render renders result in the given output format.
func Render(format string, result prefetch.PrefetchedRepository) (string, error) {
	switch format {
	case config.FormatJSON:
		return JSON(result)
	case config.FormatNix:
		return Nix(result), nil
	default:
		return "", fmt.Errorf("unknown output format %q", format)
	}
}

// Presenter writes results to Out and failures to Err.
type Presenter struct {
	Out       io.Writer
	Err       io.Writer
	Format    string
	Highlight *Highlighter // nil disables highlighting
}

// Present writes the outcome of a prefetch and returns the process exit code.
// A *prefetch.Failure is explained on Err; any other error is returned.
func (p *Presenter) Present(result prefetch.PrefetchedRepository, err error) (int, error) {
	if err != nil {
		var failure *prefetch.Failure
		if !errors.As(err, &failure) {
			return ExitFailure, err
		}
		fmt.Fprintln(p.Err, FailureMessage(failure))
		return ExitFailure, nil
	}

	text, rerr := Render(p.Format, result)
	if rerr != nil {
		return ExitFailure, rerr
	}
	if p.Highlight != nil {
		if herr := p.Highlight.Write(p.Out, text, p.Format); herr == nil {
			return ExitOK, nil
		}
	}
	if _, werr := io.WriteString(p.Out, text); werr != nil {
		return ExitFailure, werr
	}
	return ExitOK, nil
}
