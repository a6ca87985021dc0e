package matcher

import (
	"regexp"

	"github.com/dl/narrsearch/internal/corpus"
)

// RegexMatcher uses Go's RE2 engine with "starts with" semantics: a subject
// matches only when the pattern matches at its first byte.
type RegexMatcher struct {
	re          *regexp.Regexp
	anchored    bool
	granularity Granularity
}

// NewRegexMatcher compiles pattern. The pattern is validated on its own
// first so an unbalanced term cannot escape the anchoring group.
func NewRegexMatcher(pattern string, g Granularity) (*RegexMatcher, error) {
	plain, err := regexp.Compile(pattern)
	if err != nil {
		return nil, &InvalidPatternError{Pattern: pattern, Engine: RE2, Err: err}
	}
	if re, err := regexp.Compile(anchor(pattern)); err == nil {
		return &RegexMatcher{re: re, anchored: true, granularity: g}, nil
	}
	// A trailing \Q swallows the closing paren; test the match start instead.
	return &RegexMatcher{re: plain, granularity: g}, nil
}

func (m *RegexMatcher) Mode() Mode { return Regex }

func (m *RegexMatcher) Match(c *corpus.Corpus) []Result {
	return filter(c, m.granularity, m.matchStart)
}

func (m *RegexMatcher) matchStart(s string) bool {
	if m.anchored {
		return m.re.MatchString(s)
	}
	// Leftmost semantics: if any match begins at 0, the first one does.
	loc := m.re.FindStringIndex(s)
	return loc != nil && loc[0] == 0
}

// anchor wraps pattern so it can only match at the start of the subject.
func anchor(pattern string) string {
	return `\A(?:` + pattern + `)`
}

var _ Matcher = (*RegexMatcher)(nil)
