// Package auth builds HTTP clients for the GitHub REST API.
package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"
)

// githubTokenEnvVars lists the environment variables checked for a GitHub token,
// in priority order.
var githubTokenEnvVars = []string{
	"GITHUB_TOKEN",
	"GH_TOKEN",
}

// ErrNoToken is returned by Token when no variable is set.
var ErrNoToken = errors.New("no GitHub token found: set GITHUB_TOKEN or GH_TOKEN")

// Token returns the GitHub token from the environment.
func Token() (string, error) {
	for _, env := range githubTokenEnvVars {
		if v := os.Getenv(env); v != "" {
			return v, nil
		}
	}
	return "", ErrNoToken
}

// NewHTTPClient returns a client for GitHub API calls with the given
// timeout (zero means none). Requests carry a Bearer token when one is
// available; release lookups on public repositories work without it, at a
// lower rate limit.
func NewHTTPClient(timeout time.Duration, logger *slog.Logger) *http.Client {
	if logger == nil {
		logger = slog.Default()
	}
	token, err := Token()
	if err != nil {
		logger.Debug("using unauthenticated GitHub requests", "reason", err)
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &githubTransport{
			token: token,
			base:  http.DefaultTransport,
		},
	}
}

// githubTransport sets the GitHub API headers and, if present, the token.
type githubTransport struct {
	token string
	base  http.RoundTripper
}

func (t *githubTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	if t.token != "" {
		r.Header.Set("Authorization", "Bearer "+t.token)
	}
	r.Header.Set("Accept", "application/vnd.github+json")
	r.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	return t.base.RoundTrip(r)
}
