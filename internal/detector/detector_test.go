package detector

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cbout22/nix-prefetch-github/internal/config"
)

// initRepo creates a repository with one commit and an origin remote.
func initRepo(t *testing.T, remoteURL string) (dir, commit string) {
	t.Helper()
	dir = t.TempDir()

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	if remoteURL != "" {
		_, err = repo.CreateRemote(&gitconfig.RemoteConfig{Name: "origin", URLs: []string{remoteURL}})
		require.NoError(t, err)
	}

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "README.md"), []byte("hello\n"), 0o644))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("sub/README.md")
	require.NoError(t, err)
	hash, err := wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Unix(0, 0)},
	})
	require.NoError(t, err)
	return dir, hash.String()
}

func TestDetect_Clean(t *testing.T) {
	t.Parallel()
	dir, commit := initRepo(t, "git@github.com:owner/repo.git")

	got, err := New().Detect(context.Background(), dir, "")
	require.NoError(t, err)
	assert.Equal(t, config.Repository{Owner: "owner", Name: "repo"}, got.Repository)
	assert.Equal(t, commit, got.Revision)
	assert.False(t, got.Dirty)
}

func TestDetect_FromSubdirectory(t *testing.T) {
	t.Parallel()
	dir, commit := initRepo(t, "https://github.com/owner/repo")

	got, err := New().Detect(context.Background(), filepath.Join(dir, "sub"), "origin")
	require.NoError(t, err)
	assert.Equal(t, commit, got.Revision)
}

func TestDetect_UntrackedFilesAreClean(t *testing.T) {
	t.Parallel()
	dir, _ := initRepo(t, "https://github.com/owner/repo.git")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("scratch\n"), 0o644))

	got, err := New().Detect(context.Background(), dir, "origin")
	require.NoError(t, err)
	assert.False(t, got.Dirty)
}

func TestHasTrackedChanges(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		status git.Status
		want   bool
	}{
		{"empty", git.Status{}, false},
		{"untracked", git.Status{"a": {Staging: git.Untracked, Worktree: git.Untracked}}, false},
		{"modified", git.Status{"a": {Staging: git.Unmodified, Worktree: git.Modified}}, true},
		{"staged", git.Status{"a": {Staging: git.Added, Worktree: git.Unmodified}}, true},
		{"untracked and deleted", git.Status{
			"a": {Staging: git.Untracked, Worktree: git.Untracked},
			"b": {Staging: git.Unmodified, Worktree: git.Deleted},
		}, true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, hasTrackedChanges(tt.status))
		})
	}
}

func TestDetect_Dirty(t *testing.T) {
	t.Parallel()
	dir, _ := initRepo(t, "https://github.com/owner/repo.git")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "README.md"), []byte("changed\n"), 0o644))

	got, err := New().Detect(context.Background(), dir, "origin")
	require.NoError(t, err)
	assert.True(t, got.Dirty)
}

func TestDetect_Errors(t *testing.T) {
	t.Parallel()

	_, err := New().Detect(context.Background(), t.TempDir(), "origin")
	assert.ErrorIs(t, err, ErrNotRepository)

	dir, _ := initRepo(t, "")
	_, err = New().Detect(context.Background(), dir, "origin")
	assert.ErrorIs(t, err, git.ErrRemoteNotFound)

	dir, _ = initRepo(t, "https://gitlab.com/owner/repo.git")
	_, err = New().Detect(context.Background(), dir, "origin")
	assert.ErrorContains(t, err, "does not point at github")
}

func TestDetect_NoCommits(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	_, err = repo.CreateRemote(&gitconfig.RemoteConfig{Name: "origin", URLs: []string{"https://github.com/o/r"}})
	require.NoError(t, err)

	_, err = New().Detect(context.Background(), dir, "origin")
	assert.ErrorIs(t, err, ErrNoCommit)
}

func TestDetect_CancelledContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New().Detect(ctx, ".", "origin")
	assert.ErrorIs(t, err, context.Canceled)
}
