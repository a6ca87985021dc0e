package matcher

import (
	"strings"

	"github.com/dl/narrsearch/internal/corpus"
)

// literalMatcher implements Contains and Prefix. The term is compared as a
// plain string, so "." and every other regex metacharacter match themselves.
type literalMatcher struct {
	mode        Mode
	term        string
	granularity Granularity
}

func newLiteralMatcher(mode Mode, term string, g Granularity) *literalMatcher {
	return &literalMatcher{mode: mode, term: term, granularity: g}
}

func (m *literalMatcher) Mode() Mode { return m.mode }

func (m *literalMatcher) Match(c *corpus.Corpus) []Result {
	return filter(c, m.granularity, m.test)
}

func (m *literalMatcher) test(s string) bool {
	if m.mode == Prefix {
		return strings.HasPrefix(s, m.term)
	}
	return strings.Contains(s, m.term)
}
