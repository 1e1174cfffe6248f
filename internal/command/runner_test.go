package command

import (
	"bytes"
	"context"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestExecRunner_Stdout(t *testing.T) {
	t.Parallel()
	requireShell(t)

	res, err := NewExecRunner().Run(context.Background(), []string{"sh", "-c", "echo out; echo err >&2"})
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "out\n", res.Output)
}

func TestExecRunner_MergedStderr(t *testing.T) {
	t.Parallel()
	requireShell(t)

	res, err := NewExecRunner().Run(context.Background(),
		[]string{"sh", "-c", "echo out; echo err >&2; exit 3"}, WithMergedStderr())
	require.NoError(t, err, "non-zero exit is not an error")
	assert.Equal(t, 3, res.ExitCode)
	assert.Contains(t, res.Output, "out")
	assert.Contains(t, res.Output, "err")
}

func TestExecRunner_StderrCopy(t *testing.T) {
	t.Parallel()
	requireShell(t)

	var buf bytes.Buffer
	_, err := NewExecRunner(WithStderr(&buf)).Run(context.Background(), []string{"sh", "-c", "echo oops >&2"})
	require.NoError(t, err)
	assert.Equal(t, "oops\n", buf.String())
}

func TestExecRunner_EnvAndDir(t *testing.T) {
	t.Parallel()
	requireShell(t)

	dir := t.TempDir()
	res, err := NewExecRunner().Run(context.Background(),
		[]string{"sh", "-c", "echo $GREETING; pwd"},
		WithEnvVar("GREETING", "hello"),
		WithWorkingDir(dir),
	)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(res.Output), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "hello", lines[0])
	assert.Equal(t, filepath.Base(dir), filepath.Base(lines[1]))
}

func TestExecRunner_MissingProgram(t *testing.T) {
	t.Parallel()

	res, err := NewExecRunner().Run(context.Background(), []string{"definitely-not-a-real-program-4711"})
	require.Error(t, err)
	assert.Equal(t, -1, res.ExitCode)
}

func TestExecRunner_EmptyCommand(t *testing.T) {
	t.Parallel()

	_, err := NewExecRunner().Run(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyCommand)
}

func TestExecRunner_Available(t *testing.T) {
	t.Parallel()
	requireShell(t)

	r := NewExecRunner()
	assert.True(t, r.Available("sh"))
	assert.False(t, r.Available("definitely-not-a-real-program-4711"))
}

func TestApply(t *testing.T) {
	t.Parallel()

	o := Apply(WithEnv(map[string]string{"A": "1"}), WithEnvVar("B", "2"), WithMergedStderr(), WithWorkingDir("/x"))
	assert.Equal(t, Options{WorkingDir: "/x", Env: map[string]string{"A": "1", "B": "2"}, MergeStderr: true}, o)
}

func TestEnvList_Sorted(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"A=1", "GIT_ASKPASS=", "Z=26"}, envList(map[string]string{"Z": "26", "A": "1", "GIT_ASKPASS": ""}))
}
