package cityresolver

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cloudflare/ahocorasick"
)

// AliasMatcher finds the first catalog alias that occurs as a whole word.
//
// The automaton only narrows the search to aliases present somewhere in the text;
// hits are then checked in catalog order, so the result is the same as testing
// every alias in turn.
type AliasMatcher struct {
	aliases []Alias
	forms   []string
	// owner maps an automaton pattern to the first alias with that search form.
	owner   []int
	matcher *ahocorasick.Matcher
}

// NewAliasMatcher compiles the catalog aliases. Keys are searched in message
// form, so "санкт-петербург" matches the normalized "санкт петербург".
func NewAliasMatcher(c *Catalog) *AliasMatcher {
	forms := make([]string, len(c.aliases))
	patterns := make([]string, 0, len(c.aliases))
	owner := make([]int, 0, len(c.aliases))
	seen := make(map[string]struct{}, len(c.aliases))
	for i, a := range c.aliases {
		forms[i] = searchForm(a.Key)
		if _, dup := seen[forms[i]]; dup {
			continue
		}
		seen[forms[i]] = struct{}{}
		patterns = append(patterns, forms[i])
		owner = append(owner, i)
	}
	return &AliasMatcher{
		aliases: c.aliases,
		forms:   forms,
		owner:   owner,
		matcher: ahocorasick.NewStringMatcher(patterns),
	}
}

// searchForm normalizes an alias key the way messages are normalized.
// A key made only of punctuation keeps its catalog form and never matches.
func searchForm(key string) string {
	form := strings.TrimSpace(NormalizeMessage(key))
	if form == "" {
		return key
	}
	return form
}

// Match scans normalized text and returns the winning alias.
func (m *AliasMatcher) Match(normalized string) (Alias, bool) {
	if normalized == "" || len(m.aliases) == 0 {
		return Alias{}, false
	}
	hits := m.matcher.MatchThreadSafe([]byte(normalized))
	if len(hits) == 0 {
		return Alias{}, false
	}
	for i, hit := range hits {
		hits[i] = -1
		if hit >= 0 && hit < len(m.owner) {
			hits[i] = m.owner[hit]
		}
	}
	sort.Ints(hits)
	for _, idx := range hits {
		if idx < 0 {
			continue
		}
		if containsWord(normalized, m.forms[idx]) {
			return m.aliases[idx], true
		}
	}
	return Alias{}, false
}

// containsWord reports whether word occurs in s delimited by word boundaries.
func containsWord(s, word string) bool {
	if word == "" {
		return false
	}
	offset := 0
	for offset <= len(s)-len(word) {
		idx := strings.Index(s[offset:], word)
		if idx < 0 {
			return false
		}
		start := offset + idx
		end := start + len(word)
		if isBoundary(s, start) && isBoundary(s, end) {
			return true
		}
		_, size := utf8.DecodeRuneInString(s[start:])
		offset = start + size
	}
	return false
}

// isBoundary reports a word boundary at byte position i: the runes on either side
// differ in being word characters, and the ends of s count as non-word.
func isBoundary(s string, i int) bool {
	before := false
	if i > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:i])
		before = isWordRune(r)
	}
	after := false
	if i < len(s) {
		r, _ := utf8.DecodeRuneInString(s[i:])
		after = isWordRune(r)
	}
	return before != after
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}
