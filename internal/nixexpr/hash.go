package nixexpr

import "regexp"

// nixBase32 is the alphabet nix uses for base32 digests (no e, o, t, u).
var nixBase32 = regexp.MustCompile(`^[0-9a-df-np-sv-z]{52}$`)

// HashFields maps a hash token to the fetcher attribute that accepts it:
// legacy base32 sha256 digests go to sha256, everything else becomes an
// SRI hash. Exactly one of the results is non-empty.
func HashFields(token string) (hash, sha256 string) {
	if nixBase32.MatchString(token) {
		return "", token
	}
	return "sha256-" + token, ""
}
