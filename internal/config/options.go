package config

import "fmt"

// PrefetchOptions change what ends up in the hashed source tree.
// They never influence how a revision is resolved.
type PrefetchOptions struct {
	FetchSubmodules bool `toml:"fetch_submodules" json:"fetchSubmodules,omitempty"`
	DeepClone       bool `toml:"deep_clone" json:"deepClone,omitempty"`
	LeaveDotGit     bool `toml:"leave_dot_git" json:"leaveDotGit,omitempty"`
}

// Effective returns the options that are actually handed to nix.
// A deep clone without .git produces unreliable hashes in fetchgit, so
// DeepClone forces LeaveDotGit.
func (o PrefetchOptions) Effective() PrefetchOptions {
	if o.DeepClone {
		o.LeaveDotGit = true
	}
	return o
}

// IsDefault reports whether no option is set.
func (o PrefetchOptions) IsDefault() bool {
	return o == PrefetchOptions{}
}

// Nondeterministic lists the enabled options known to yield hashes that
// change over time.
func (o PrefetchOptions) Nondeterministic() []string {
	var names []string
	if o.DeepClone {
		names = append(names, "deepClone")
	}
	if o.LeaveDotGit {
		names = append(names, "leaveDotGit")
	}
	return names
}

func (o PrefetchOptions) String() string {
	return fmt.Sprintf("fetchSubmodules=%t,deepClone=%t,leaveDotGit=%t",
		o.FetchSubmodules, o.DeepClone, o.LeaveDotGit)
}
