package hasher

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cbout22/nix-prefetch-github/internal/command"
	"github.com/cbout22/nix-prefetch-github/internal/config"
)

var repo = config.Repository{Owner: "seppeljordan", Name: "nix-prefetch-github"}

func TestNixBuild_Calculate(t *testing.T) {
	t.Parallel()
	runner := &scriptedRunner{results: map[string]command.Result{
		"nix-build": {ExitCode: 1, Output: "error: hash mismatch\n         specified: sha256-AAAA\n            got:    sha256-" + sriDigest + "\n"},
	}}

	got, err := NewNixBuild(runner, nil).Calculate(context.Background(), repo, "1234", config.PrefetchOptions{})
	require.NoError(t, err)
	assert.Equal(t, sriDigest, got)

	require.Len(t, runner.calls, 1)
	call := runner.calls[0]
	assert.Equal(t, []string{"nix-build", "--no-out-link", "-E"}, call[:3])
	assert.Contains(t, call[3], `rev = "1234";`)
	assert.Contains(t, call[3], `hash = "`+PlaceholderHash+`";`)
	assert.True(t, runner.opts[0].MergeStderr)
}

func TestNixBuild_NoHashInOutput(t *testing.T) {
	t.Parallel()
	runner := &scriptedRunner{results: map[string]command.Result{
		"nix-build": {ExitCode: 1, Output: "error: file 'nixpkgs' was not found in the Nix search path\n"},
	}}

	_, err := NewNixBuild(runner, nil).Calculate(context.Background(), repo, "1234", config.PrefetchOptions{})
	assert.ErrorIs(t, err, ErrHashNotFound)
}

func TestNixBuild_EmptyDigestInOutput(t *testing.T) {
	t.Parallel()
	runner := &scriptedRunner{results: map[string]command.Result{
		"nix-build": {ExitCode: 1, Output: "error: hash mismatch in fixed-output derivation\n   got:    sha256-\n"},
	}}

	got, err := NewNixBuild(runner, nil).Calculate(context.Background(), repo, "1234", config.PrefetchOptions{})
	assert.ErrorIs(t, err, ErrHashNotFound)
	assert.Empty(t, got)
}

func TestNixBuild_CannotRun(t *testing.T) {
	t.Parallel()
	runner := &scriptedRunner{errs: map[string]error{"nix-build": errors.New("executable file not found")}}

	_, err := NewNixBuild(runner, nil).Calculate(context.Background(), repo, "1234", config.PrefetchOptions{})
	assert.ErrorIs(t, err, ErrHashNotFound)
}

func TestExpression_DeepCloneForcesDotGit(t *testing.T) {
	t.Parallel()
	expr := Expression(repo, "1234", config.PrefetchOptions{DeepClone: true})
	assert.Contains(t, expr, "deepClone = true;")
	assert.Contains(t, expr, "leaveDotGit = true;")
	assert.NotContains(t, expr, "fetchSubmodules")
}

func TestExpression_Submodules(t *testing.T) {
	t.Parallel()
	expr := Expression(repo, "1234", config.PrefetchOptions{FetchSubmodules: true})
	assert.Contains(t, expr, "fetchSubmodules = true;")
	assert.NotContains(t, expr, "leaveDotGit")
	assert.NotContains(t, expr, "deepClone")
}
