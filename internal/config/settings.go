package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
)

// AppName is used for the XDG config and cache directories.
const AppName = "nix-prefetch-github"

// Output formats.
const (
	FormatJSON = "json"
	FormatNix  = "nix"
)

// Hasher backends.
const (
	HasherNixBuild    = "nix-build"
	HasherNixPrefetch = "nix-prefetch"
	HasherAuto        = "auto"
)

// Ref listers.
const (
	ListerGit   = "git"
	ListerGoGit = "go-git"
)

// Cache backends.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheBolt   = "bolt"
	CacheRedis  = "redis"
)

// Settings is the content of config.toml.
type Settings struct {
	Prefetch PrefetchOptions `toml:"prefetch"`
	Output   OutputSettings  `toml:"output"`
	Hasher   HasherSettings  `toml:"hasher"`
	Remote   RemoteSettings  `toml:"remote"`
	Cache    CacheSettings   `toml:"cache"`
	GitHub   GitHubSettings  `toml:"github"`
}

type OutputSettings struct {
	Format string `toml:"format"`
	Color  string `toml:"color"` // auto, always or never
	Theme  string `toml:"theme"` // chroma style name
}

type HasherSettings struct {
	Backend string `toml:"backend"`
}

type RemoteSettings struct {
	Lister string `toml:"lister"`
}

type CacheSettings struct {
	Backend       string `toml:"backend"`
	Path          string `toml:"path"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

type GitHubSettings struct {
	APIURL  string        `toml:"api_url"`
	Timeout time.Duration `toml:"timeout"`
}

// DefaultSettings returns the settings used when no file exists.
func DefaultSettings() Settings {
	return Settings{
		Output: OutputSettings{
			Format: FormatJSON,
			Color:  "auto",
			Theme:  "monokai",
		},
		Hasher: HasherSettings{Backend: HasherNixBuild},
		Remote: RemoteSettings{Lister: ListerGit},
		Cache: CacheSettings{
			Backend:   CacheNone,
			Path:      DefaultCachePath(),
			RedisAddr: "127.0.0.1:6379",
		},
		GitHub: GitHubSettings{
			APIURL:  "https://api.github.com",
			Timeout: 10 * time.Second,
		},
	}
}

// DefaultSettingsPath returns $XDG_CONFIG_HOME/nix-prefetch-github/config.toml.
func DefaultSettingsPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.toml")
}

// DefaultCachePath returns $XDG_CACHE_HOME/nix-prefetch-github/hashes.db.
func DefaultCachePath() string {
	return filepath.Join(xdg.CacheHome, AppName, "hashes.db")
}

// LoadSettings reads the settings file at path on top of the defaults and
// applies environment overrides. A missing file is not an error.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return s, fmt.Errorf("reading settings: %w", err)
	default:
		if _, err := toml.Decode(string(data), &s); err != nil {
			return s, fmt.Errorf("parsing settings %s: %w", path, err)
		}
	}

	s.applyEnv()
	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("settings %s: %w", path, err)
	}
	return s, nil
}

func (s *Settings) applyEnv() {
	s.Cache.Backend = strings.ToLower(envDefault("NIX_PREFETCH_GITHUB_CACHE", s.Cache.Backend))
	s.Cache.Path = envDefault("NIX_PREFETCH_GITHUB_CACHE_PATH", s.Cache.Path)
	s.Cache.RedisAddr = envDefault("NIX_PREFETCH_GITHUB_REDIS_ADDR", s.Cache.RedisAddr)
	s.Cache.RedisDB = envInt("NIX_PREFETCH_GITHUB_REDIS_DB", s.Cache.RedisDB)
	s.Hasher.Backend = strings.ToLower(envDefault("NIX_PREFETCH_GITHUB_HASHER", s.Hasher.Backend))
	s.Remote.Lister = strings.ToLower(envDefault("NIX_PREFETCH_GITHUB_LISTER", s.Remote.Lister))
}

// Validate checks every enumerated field.
func (s Settings) Validate() error {
	if err := oneOf("output.format", s.Output.Format, FormatJSON, FormatNix); err != nil {
		return err
	}
	if err := oneOf("output.color", s.Output.Color, "auto", "always", "never"); err != nil {
		return err
	}
	if err := oneOf("hasher.backend", s.Hasher.Backend, HasherNixBuild, HasherNixPrefetch, HasherAuto); err != nil {
		return err
	}
	if err := oneOf("remote.lister", s.Remote.Lister, ListerGit, ListerGoGit); err != nil {
		return err
	}
	if err := oneOf("cache.backend", s.Cache.Backend, CacheNone, CacheMemory, CacheBolt, CacheRedis); err != nil {
		return err
	}
	if s.GitHub.Timeout < 0 {
		return fmt.Errorf("github.timeout must not be negative")
	}
	return nil
}

func oneOf(field, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("invalid %s %q (want one of %s)", field, value, strings.Join(allowed, ", "))
}

func envDefault(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func envInt(key string, def int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return def
}
