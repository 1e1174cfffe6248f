package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/cbout22/nix-prefetch-github/internal/config"
)

const githubAPIBase = "https://api.github.com"

// ErrNoRelease is returned when a repository has no published release.
var ErrNoRelease = errors.New("no release found")

// GitHub talks to the GitHub REST API.
type GitHub struct {
	client  *http.Client
	baseURL string
}

// NewGitHub creates a client using the given (authenticated) HTTP client.
// An empty baseURL selects the public API.
func NewGitHub(client *http.Client, baseURL string) *GitHub {
	if baseURL == "" {
		baseURL = githubAPIBase
	}
	return &GitHub{client: client, baseURL: strings.TrimSuffix(baseURL, "/")}
}

var _ ReleaseLookup = (*GitHub)(nil)

func (g *GitHub) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// LatestReleaseTag returns the tag name of the latest release. Any HTTP
// or decoding failure is reported as ErrNoRelease.
func (g *GitHub) LatestReleaseTag(ctx context.Context, repo config.Repository) (string, error) {
	var release struct {
		TagName string `json:"tag_name"`
	}
	path := fmt.Sprintf("/repos/%s/%s/releases/latest", repo.Owner, repo.Name)
	if err := g.get(ctx, path, &release); err != nil {
		return "", fmt.Errorf("%w for %s: %w", ErrNoRelease, repo, err)
	}
	if release.TagName == "" {
		return "", fmt.Errorf("%w for %s: empty tag name", ErrNoRelease, repo)
	}
	return release.TagName, nil
}

// RepositorySummary is a search hit used for shell completion.
type RepositorySummary struct {
	FullName    string `json:"full_name"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// SearchRepositories lists repositories of owner whose name starts with prefix.
func (g *GitHub) SearchRepositories(ctx context.Context, owner, prefix string) ([]RepositorySummary, error) {
	query := fmt.Sprintf("user:%s %s in:name", owner, prefix)
	var result struct {
		Items []RepositorySummary `json:"items"`
	}
	path := "/search/repositories?per_page=20&q=" + url.QueryEscape(query)
	if err := g.get(ctx, path, &result); err != nil {
		return nil, fmt.Errorf("searching repositories of %s: %w", owner, err)
	}

	var hits []RepositorySummary
	for _, item := range result.Items {
		if strings.HasPrefix(item.Name, prefix) {
			hits = append(hits, item)
		}
	}
	return hits, nil
}
