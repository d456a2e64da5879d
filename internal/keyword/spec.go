package keyword

import (
	"slices"
	"strings"
)

// Spec is an active keyword filter: ordered phrases, a token separator and a
// combination mode. The zero value is an inactive filter.
type Spec struct {
	Phrases   []string
	Separator string
	Mode      Mode
}

// NewSpec builds a Spec, defaulting the separator.
func NewSpec(phrases []string, sep string, mode Mode) Spec {
	if sep == "" {
		sep = DefaultSeparator
	}
	return Spec{Phrases: slices.Clone(phrases), Separator: sep, Mode: mode}
}

// Active reports whether the spec filters anything.
func (s Spec) Active() bool {
	return len(s.Phrases) > 0
}

func (s Spec) separator() string {
	if s.Separator == "" {
		return DefaultSeparator
	}
	return s.Separator
}

// Apply narrows names to the files matching the spec. An inactive spec
// returns names unchanged. And mode narrows the pool phrase by phrase, so a
// pool that empties stays empty. Or mode unions the per-phrase matches taken
// against the full pool. The result is sorted and free of duplicates.
func (s Spec) Apply(names []string) []string {
	if !s.Active() {
		return slices.Clone(names)
	}

	var result []string
	switch s.Mode {
	case And:
		pool := slices.Clone(names)
		for _, phrase := range s.Phrases {
			_, pool = FilterByKeyword(pool, phrase, s.separator())
		}
		result = pool
	default:
		for _, phrase := range s.Phrases {
			_, matched := FilterByKeyword(names, phrase, s.separator())
			result = append(result, matched...)
		}
	}

	slices.Sort(result)
	return slices.Compact(result)
}

// Group is one phrase and the files assigned to it.
type Group struct {
	Phrase string
	Files  []string
}

// Groups partitions names by phrase for a keyword move. Phrases are taken in
// order against a shrinking pool, so a file matching several phrases belongs
// to the first one only. In And mode the pool starts as Apply(names), so only
// files matching every phrase move. Phrases without matches are omitted.
func (s Spec) Groups(names []string) []Group {
	pool := slices.Clone(names)
	if s.Mode == And {
		pool = s.Apply(names)
	}
	var groups []Group
	for _, phrase := range s.Phrases {
		var matched []string
		pool, matched = FilterByKeyword(pool, phrase, s.separator())
		if len(matched) > 0 {
			groups = append(groups, Group{Phrase: phrase, Files: matched})
		}
	}
	return groups
}

func (s Spec) String() string {
	if !s.Active() {
		return ""
	}
	return strings.Join(s.Phrases, ", ") + " (" + s.Mode.String() + ")"
}
