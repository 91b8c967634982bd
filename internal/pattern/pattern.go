// Package pattern implements name scoring for the tree builder's search.
// A Matcher looks at a single file name, never at the path above it, and
// returns an integer quality score (higher is better). When no search is
// active the builder simply carries a nil Matcher and treats every entry
// as matching with score 0.
package pattern

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// Matcher scores a candidate name. Score returns the match quality and
// true, or an unspecified int and false when the name does not match.
//
// Implementations must be safe for repeated calls from a single goroutine
// for the duration of one build.
type Matcher interface {
	Score(name string) (int, bool)
}

// Fuzzy matches names with subsequence fuzzy matching. Scoring follows
// sahilm/fuzzy: adjacent matched runes and matches on camel-case or
// separator boundaries score higher, unmatched leading runes cost points.
type Fuzzy struct {
	query string
}

// NewFuzzy returns a Fuzzy matcher for the given query. The query is used
// as typed; an empty query matches everything with score 0, which callers
// normally avoid by passing a nil Matcher instead.
func NewFuzzy(query string) *Fuzzy {
	return &Fuzzy{query: query}
}

// Score implements Matcher.
func (f *Fuzzy) Score(name string) (int, bool) {
	if f.query == "" {
		return 0, true
	}
	matches := fuzzy.Find(f.query, []string{name})
	if len(matches) == 0 {
		return 0, false
	}
	return matches[0].Score, true
}

// Query returns the query string the matcher was built with.
func (f *Fuzzy) Query() string {
	return f.query
}

// Substring is a plain case-insensitive substring matcher. It scores by
// how early the query appears in the name, so prefix matches beat inner
// matches. Used by tests and available for callers that want exact rather
// than fuzzy semantics.
type Substring struct {
	query string
}

// NewSubstring returns a Substring matcher for the given query.
func NewSubstring(query string) *Substring {
	return &Substring{query: strings.ToLower(query)}
}

// Score implements Matcher.
func (s *Substring) Score(name string) (int, bool) {
	if s.query == "" {
		return 0, true
	}
	idx := strings.Index(strings.ToLower(name), s.query)
	if idx < 0 {
		return 0, false
	}
	return -idx, true
}

var (
	_ Matcher = (*Fuzzy)(nil)
	_ Matcher = (*Substring)(nil)
)
