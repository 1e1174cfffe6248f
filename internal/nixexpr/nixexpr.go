// Package nixexpr renders fetchFromGitHub expressions.
package nixexpr

import (
	"strings"
	"text/template"

	"github.com/cbout22/nix-prefetch-github/internal/config"
)

// FetchFromGitHub holds the arguments of a pkgs.fetchFromGitHub call.
// Exactly one of Hash (SRI) and SHA256 (legacy base32) is rendered;
// SHA256 wins when both are set.
type FetchFromGitHub struct {
	Owner  string
	Repo   string
	Rev    string
	Hash   string
	SHA256 string
	config.PrefetchOptions
}

var fetcherTemplate = template.Must(template.New("fetchFromGitHub").
	Funcs(template.FuncMap{"str": Quote}).
	Parse(`let
  pkgs = import <nixpkgs> {};
in
  pkgs.fetchFromGitHub {
    owner = {{str .Owner}};
    repo = {{str .Repo}};
    rev = {{str .Rev}};
{{- if .SHA256}}
    sha256 = {{str .SHA256}};
{{- else}}
    hash = {{str .Hash}};
{{- end}}
{{- if .FetchSubmodules}}
    fetchSubmodules = true;
{{- end}}
{{- if .LeaveDotGit}}
    leaveDotGit = true;
{{- end}}
{{- if .DeepClone}}
    deepClone = true;
{{- end}}
  }
`))

// Render returns the expression text.
func Render(f FetchFromGitHub) string {
	var sb strings.Builder
	// The template only formats strings and booleans, so execution cannot fail.
	if err := fetcherTemplate.Execute(&sb, f); err != nil {
		panic(err)
	}
	return sb.String()
}

var quoter = strings.NewReplacer(`\`, `\\`, `"`, `\"`, `${`, `\${`)

// Quote returns s as a double quoted Nix string literal.
func Quote(s string) string {
	return `"` + quoter.Replace(s) + `"`
}
