package config

import (
	"fmt"
	"regexp"
	"strings"
)

// Repository identifies a GitHub repository by owner and name.
type Repository struct {
	Owner string // GitHub user or organisation
	Name  string // Repository name
}

// ParseRepository parses "owner/name" into a Repository.
func ParseRepository(raw string) (Repository, error) {
	owner, name, ok := strings.Cut(raw, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return Repository{}, fmt.Errorf("invalid repository %q: must be owner/name", raw)
	}
	return Repository{Owner: owner, Name: name}, nil
}

// Raw returns "owner/name".
func (r Repository) Raw() string {
	return r.Owner + "/" + r.Name
}

func (r Repository) String() string {
	return r.Raw()
}

// URL returns the canonical clone URL.
func (r Repository) URL() string {
	return fmt.Sprintf("https://github.com/%s/%s.git", r.Owner, r.Name)
}

// ArchiveURL returns the tarball URL for a revision.
func (r Repository) ArchiveURL(rev string) string {
	return fmt.Sprintf("https://github.com/%s/%s/archive/%s.tar.gz", r.Owner, r.Name, rev)
}

var remoteURLPattern = regexp.MustCompile(
	`^(?:git@github\.com:|https://github\.com/)(?P<owner>.+)/(?P<repo>[^/]+?)(?:\.git)?$`,
)

// ParseRemoteURL maps a git remote URL pointing at GitHub to a Repository.
// Both the ssh form (git@github.com:owner/repo.git) and the https form are accepted.
func ParseRemoteURL(url string) (Repository, error) {
	m := remoteURLPattern.FindStringSubmatch(strings.TrimSpace(url))
	if m == nil {
		return Repository{}, fmt.Errorf("remote url %q does not point at github", url)
	}
	return Repository{
		Owner: m[remoteURLPattern.SubexpIndex("owner")],
		Name:  m[remoteURLPattern.SubexpIndex("repo")],
	}, nil
}
