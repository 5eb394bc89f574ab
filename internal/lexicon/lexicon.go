// Package lexicon holds the phrase tables used by the text analyzers and the
// pattern matching primitives shared by them.
//
// Phrases are matched case-insensitively with word-boundary semantics, so
// "like" does not match inside "likely", and multi-word phrases match any
// run of whitespace between their words. Match positions and lengths are
// counted in characters (runes), not bytes.
package lexicon

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// Entry is a phrase and the category it belongs to.
type Entry struct {
	Phrase   string
	Category string
}

// Match is a single phrase occurrence in a text.
type Match struct {
	Text     string
	Category string
	Position int
	Length   int
}

// End returns the character offset just past the match.
func (m Match) End() int {
	return m.Position + m.Length
}

type pattern struct {
	entry Entry
	re    *regexp.Regexp
}

// Table is a compiled set of phrase patterns. It is safe for concurrent use.
type Table struct {
	patterns []pattern
}

// NewTable compiles one pattern per entry, preserving entry order.
func NewTable(entries []Entry) *Table {
	t := &Table{patterns: make([]pattern, 0, len(entries))}
	for _, e := range entries {
		t.patterns = append(t.patterns, pattern{entry: e, re: compilePhrase(e.Phrase)})
	}
	return t
}

// FindAll returns every occurrence of every phrase in text, grouped by
// entry in table order and by position within an entry. Occurrences of
// different phrases may overlap; see ResolveOverlaps.
func (t *Table) FindAll(text string) []Match {
	if text == "" || len(t.patterns) == 0 {
		return nil
	}
	toRune := runeOffsets(text)
	var out []Match
	for _, p := range t.patterns {
		for _, loc := range p.re.FindAllStringIndex(text, -1) {
			start := toRune(loc[0])
			out = append(out, Match{
				Text:     text[loc[0]:loc[1]],
				Category: p.entry.Category,
				Position: start,
				Length:   toRune(loc[1]) - start,
			})
		}
	}
	return out
}

// SortByPosition orders matches by start position, keeping the relative
// order of matches that start at the same place.
func SortByPosition(matches []Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Position < matches[j].Position
	})
}

// ResolveOverlaps keeps a non-overlapping subset of matches. Candidates are
// ordered by start position, longer first at equal starts, and swept left to
// right; a match survives only if it starts at or after the end of the last
// kept match. The input slice is not modified.
func ResolveOverlaps(matches []Match) []Match {
	if len(matches) == 0 {
		return nil
	}
	sorted := append([]Match(nil), matches...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Position == sorted[j].Position {
			return sorted[i].Length > sorted[j].Length
		}
		return sorted[i].Position < sorted[j].Position
	})
	kept := make([]Match, 0, len(sorted))
	lastEnd := -1
	for _, m := range sorted {
		if m.Position >= lastEnd {
			kept = append(kept, m)
			lastEnd = m.End()
		}
	}
	return kept
}

func compilePhrase(phrase string) *regexp.Regexp {
	parts := strings.Fields(phrase)
	for i, part := range parts {
		parts[i] = regexp.QuoteMeta(part)
	}
	return regexp.MustCompile(`(?i)\b` + strings.Join(parts, `\s+`) + `\b`)
}

// runeOffsets maps byte offsets in text to character offsets.
func runeOffsets(text string) func(int) int {
	ascii := true
	for i := 0; i < len(text); i++ {
		if text[i] >= utf8.RuneSelf {
			ascii = false
			break
		}
	}
	if ascii {
		return func(b int) int { return b }
	}
	idx := make([]int, len(text)+1)
	r := 0
	for i := 0; i < len(text); {
		_, size := utf8.DecodeRuneInString(text[i:])
		for j := 0; j < size; j++ {
			idx[i+j] = r
		}
		r++
		i += size
	}
	idx[len(text)] = r
	return func(b int) int { return idx[b] }
}

// WordSet is a set of lowercase tokens.
type WordSet map[string]struct{}

// NewWordSet builds a set from words.
func NewWordSet(words ...string) WordSet {
	s := make(WordSet, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

// Contains reports whether word is in the set.
func (s WordSet) Contains(word string) bool {
	_, ok := s[word]
	return ok
}

// Count returns how many tokens are in the set.
func (s WordSet) Count(tokens []string) int {
	n := 0
	for _, t := range tokens {
		if s.Contains(t) {
			n++
		}
	}
	return n
}
