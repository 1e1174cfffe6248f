package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSettings_MissingFileGivesDefaults(t *testing.T) {
	got, err := LoadSettings(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), got)
}

func TestLoadSettings_File(t *testing.T) {
	path := writeSettings(t, `
[prefetch]
fetch_submodules = true

[output]
format = "nix"

[cache]
backend = "bolt"
path = "/tmp/hashes.db"

[github]
timeout = "3s"
`)
	got, err := LoadSettings(path)
	require.NoError(t, err)

	assert.True(t, got.Prefetch.FetchSubmodules)
	assert.Equal(t, FormatNix, got.Output.Format)
	assert.Equal(t, "auto", got.Output.Color, "unset keys keep defaults")
	assert.Equal(t, CacheBolt, got.Cache.Backend)
	assert.Equal(t, "/tmp/hashes.db", got.Cache.Path)
	assert.Equal(t, 3*time.Second, got.GitHub.Timeout)
	assert.Equal(t, HasherNixBuild, got.Hasher.Backend)
}

func TestLoadSettings_EnvOverrides(t *testing.T) {
	t.Setenv("NIX_PREFETCH_GITHUB_CACHE", "Redis")
	t.Setenv("NIX_PREFETCH_GITHUB_REDIS_ADDR", "cache:6379")
	t.Setenv("NIX_PREFETCH_GITHUB_REDIS_DB", "2")
	t.Setenv("NIX_PREFETCH_GITHUB_LISTER", "go-git")

	path := writeSettings(t, "[cache]\nbackend = \"bolt\"\n")
	got, err := LoadSettings(path)
	require.NoError(t, err)

	assert.Equal(t, CacheRedis, got.Cache.Backend)
	assert.Equal(t, "cache:6379", got.Cache.RedisAddr)
	assert.Equal(t, 2, got.Cache.RedisDB)
	assert.Equal(t, ListerGoGit, got.Remote.Lister)
}

func TestLoadSettings_Invalid(t *testing.T) {
	cases := map[string]string{
		"bad toml":   "[output\nformat = 1",
		"bad format": "[output]\nformat = \"yaml\"\n",
		"bad hasher": "[hasher]\nbackend = \"sha256sum\"\n",
		"bad cache":  "[cache]\nbackend = \"s3\"\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadSettings(writeSettings(t, content))
			assert.Error(t, err)
		})
	}
}

func TestDefaultPaths(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "config.toml", filepath.Base(DefaultSettingsPath()))
	assert.Equal(t, AppName, filepath.Base(filepath.Dir(DefaultSettingsPath())))
	assert.Equal(t, "hashes.db", filepath.Base(DefaultCachePath()))
}
