// Package keyword matches file names against keyword phrases.
//
// A file name is reduced to a token sequence by dropping its final extension,
// stripping the punctuation characters - _ ' , ( ) ! ? : (except those that
// form the separator) and splitting on the separator. A phrase matches when
// its own tokens appear as a contiguous run anywhere in that sequence.
package keyword

import (
	"slices"
	"strings"
)

// DefaultSeparator is used when no separator is configured.
const DefaultSeparator = " "

const punctuation = "-_',()!?:"

// Mode controls how several phrases combine.
type Mode int

const (
	// Or matches a file when any phrase matches.
	Or Mode = iota
	// And matches a file only when every phrase matches.
	And
)

func (m Mode) String() string {
	if m == And {
		return "and"
	}
	return "or"
}

// ParseMode accepts "and" or "or"; anything else is Or.
func ParseMode(s string) Mode {
	if strings.EqualFold(strings.TrimSpace(s), "and") {
		return And
	}
	return Or
}

// Tokens splits name into the tokens phrases are matched against.
func Tokens(name, sep string) []string {
	if sep == "" {
		sep = DefaultSeparator
	}
	stem := name
	if i := strings.LastIndex(stem, "."); i >= 0 {
		stem = stem[:i]
	}
	stem = strings.Map(func(r rune) rune {
		if strings.ContainsRune(punctuation, r) && !strings.ContainsRune(sep, r) {
			return -1
		}
		return r
	}, stem)
	return strings.Split(stem, sep)
}

// Matches reports whether phrase occurs as a contiguous token run in name.
// An empty phrase matches nothing.
func Matches(name, phrase, sep string) bool {
	if sep == "" {
		sep = DefaultSeparator
	}
	if phrase == "" {
		return false
	}
	return containsRun(Tokens(name, sep), strings.Split(phrase, sep))
}

func containsRun(tokens, run []string) bool {
	for i := 0; i+len(run) <= len(tokens); i++ {
		if slices.Equal(tokens[i:i+len(run)], run) {
			return true
		}
	}
	return false
}

// FilterByKeyword partitions names into those that do not match phrase and
// those that do. Both results keep the input order and each name lands in
// exactly one of them.
func FilterByKeyword(names []string, phrase, sep string) (unmatched, matched []string) {
	unmatched = []string{}
	matched = []string{}
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if Matches(name, phrase, sep) {
			if !seen[name] {
				seen[name] = true
				matched = append(matched, name)
			}
			continue
		}
		unmatched = append(unmatched, name)
	}
	return unmatched, matched
}

// ParsePhrases splits a comma separated phrase list, dropping blanks.
func ParsePhrases(csv string) []string {
	var phrases []string
	for _, part := range strings.Split(csv, ",") {
		if p := strings.TrimSpace(part); p != "" {
			phrases = append(phrases, p)
		}
	}
	return phrases
}
