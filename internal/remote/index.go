// Package remote parses remote reference listings and builds them for
// GitHub repositories.
package remote

import (
	"strings"
)

// Kind classifies a full reference path.
type Kind int

const (
	KindUnknown Kind = iota
	KindBranch       // refs/heads/...
	KindTag          // refs/tags/...
)

func (k Kind) String() string {
	switch k {
	case KindBranch:
		return "branch"
	case KindTag:
		return "tag"
	default:
		return "unknown"
	}
}

const symrefPrefix = "ref: "

// Index is the parsed form of `git ls-remote --symref` output.
// Every mapping is keyed by short name; a later line for the same name
// overwrites an earlier one.
type Index struct {
	symrefs orderedMap
	heads   orderedMap
	tags    orderedMap
}

type orderedMap struct {
	values map[string]string
	keys   []string
}

func (m *orderedMap) set(k, v string) {
	if m.values == nil {
		m.values = make(map[string]string)
	}
	if _, ok := m.values[k]; !ok {
		m.keys = append(m.keys, k)
	}
	m.values[k] = v
}

func (m *orderedMap) get(k string) (string, bool) {
	v, ok := m.values[k]
	return v, ok
}

// Parse builds an Index from listing text. Lines that do not match the
// listing format, or that name an unrecognised ref kind, are skipped.
func Parse(text string) *Index {
	idx := &Index{}
	for _, line := range strings.Split(text, "\n") {
		idx.parseLine(strings.TrimSuffix(line, "\r"))
	}
	return idx
}

func (idx *Index) parseLine(line string) {
	fields := strings.Split(line, "\t")
	if len(fields) != 2 {
		return
	}

	if target, ok := strings.CutPrefix(fields[0], symrefPrefix); ok {
		if name, ok := shortName(target); ok {
			idx.symrefs.set(fields[1], name)
		}
		return
	}

	kind, name, ok := Classify(fields[1])
	if !ok {
		return
	}
	switch kind {
	case KindBranch:
		idx.heads.set(name, fields[0])
	case KindTag:
		idx.tags.set(name, fields[0])
	}
}

// shortName drops the first two segments of a full ref path.
func shortName(ref string) (string, bool) {
	segments := strings.Split(ref, "/")
	if len(segments) < 3 {
		return "", false
	}
	name := strings.Join(segments[2:], "/")
	return name, name != ""
}

// Classify splits a full ref path like refs/heads/feature/x into its kind
// and short name (feature/x). ok is false when the path has no name or
// names a kind other than heads and tags.
func Classify(ref string) (kind Kind, name string, ok bool) {
	name, ok = shortName(ref)
	if !ok {
		return KindUnknown, "", false
	}
	switch strings.Split(ref, "/")[1] {
	case "heads":
		return KindBranch, name, true
	case "tags":
		return KindTag, name, true
	default:
		return KindUnknown, name, false
	}
}

// Branch returns the commit a branch points at.
func (idx *Index) Branch(name string) (string, bool) {
	return idx.heads.get(name)
}

// Tag returns the object id a tag points at. Peeled entries are stored
// under their "^{}" suffixed name.
func (idx *Index) Tag(name string) (string, bool) {
	return idx.tags.get(name)
}

// Symref returns the short name an alias such as HEAD points at.
func (idx *Index) Symref(name string) (string, bool) {
	return idx.symrefs.get(name)
}

// FullRefName looks up a full refs/heads/... or refs/tags/... path.
func (idx *Index) FullRefName(ref string) (string, bool) {
	kind, name, ok := Classify(ref)
	if !ok {
		return "", false
	}
	if kind == KindBranch {
		return idx.Branch(name)
	}
	return idx.Tag(name)
}

// Branches returns branch names in listing order.
func (idx *Index) Branches() []string {
	return append([]string(nil), idx.heads.keys...)
}

// Tags returns tag names in listing order, including peeled entries.
func (idx *Index) Tags() []string {
	return append([]string(nil), idx.tags.keys...)
}
