// Package prefetch ties revision resolution and content hashing together.
package prefetch

import (
	"fmt"

	"github.com/cbout22/nix-prefetch-github/internal/config"
)

// Reason is the closed set of prefetch failure causes.
type Reason string

const (
	// UnableToLocateRevision means the revision matched no remote reference
	// or the references could not be listed.
	UnableToLocateRevision Reason = "unable_to_locate_revision"
	// UnableToCalculateHashSum means the hashing tool did not report a hash.
	UnableToCalculateHashSum Reason = "unable_to_calculate_hash_sum"
)

// Title is the short human readable form of the reason.
func (r Reason) Title() string {
	switch r {
	case UnableToLocateRevision:
		return "Unable to locate revision"
	case UnableToCalculateHashSum:
		return "Unable to calculate sha256 sum"
	default:
		return string(r)
	}
}

// PrefetchedRepository is a fully resolved and hashed source.
type PrefetchedRepository struct {
	Repository config.Repository
	Rev        string
	HashSum    string
	Options    config.PrefetchOptions
}

// Failure is returned when a prefetch stops early.
type Failure struct {
	Reason  Reason
	Message string // optional detail, e.g. "no release found"
	Err     error
}

func (f *Failure) Error() string {
	msg := f.Reason.Title()
	if f.Message != "" {
		msg += ": " + f.Message
	}
	if f.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, f.Err)
	}
	return msg
}

func (f *Failure) Unwrap() error {
	return f.Err
}
