package presenter

import "github.com/cbout22/nix-prefetch-github/internal/prefetch"

var explanations = map[prefetch.Reason]string{
	prefetch.UnableToLocateRevision: "nix-prefetch-github failed to find a matching revision to download from github. " +
		"Have you spelled the repository owner, repository name and revision name correctly?",
	prefetch.UnableToCalculateHashSum: "nix-prefetch-github failed to calculate a sha256 hash for the requested revision. " +
		"Do you have nix-build in your PATH?",
}

// Explanation returns the user facing hint for a failure reason.
func Explanation(r prefetch.Reason) string {
	return explanations[r]
}

// FailureMessage is the single line printed for a failed prefetch.
func FailureMessage(f *prefetch.Failure) string {
	msg := "Prefetch failed: " + f.Reason.Title() + "."
	if f.Message != "" {
		msg = "Prefetch failed: " + f.Reason.Title() + " (" + f.Message + ")."
	}
	if e := Explanation(f.Reason); e != "" {
		msg += " " + e
	}
	return msg
}
