// Package textmatch provides multi-keyword screening sets built on the
// Aho-Corasick algorithm. Extraction stages use these to reject header,
// summary, and boilerplate lines: one pass over the line regardless of how
// many keywords the set holds.
package textmatch

import (
	"strings"

	"github.com/cloudflare/ahocorasick"
)

// Set is an immutable case-insensitive keyword set.
type Set struct {
	matcher  *ahocorasick.Matcher
	keywords []string
}

// NewSet builds a screening set from keywords. Matching is case-insensitive;
// keywords are uppercased at construction.
func NewSet(keywords []string) *Set {
	upper := make([]string, len(keywords))
	for i, k := range keywords {
		upper[i] = strings.ToUpper(k)
	}
	return &Set{
		matcher:  ahocorasick.NewStringMatcher(upper),
		keywords: upper,
	}
}

// Contains reports whether any keyword occurs as a substring of s.
func (s *Set) Contains(text string) bool {
	if s == nil || len(s.keywords) == 0 {
		return false
	}
	return len(s.matcher.Match([]byte(strings.ToUpper(text)))) > 0
}

// Len returns the number of keywords in the set.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keywords)
}
