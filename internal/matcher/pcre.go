package matcher

import (
	"regexp"

	"go.elara.ws/pcre"

	"github.com/dl/narrsearch/internal/corpus"
)

// PCREMatcher matches with PCRE2 semantics via the pure Go pcre package.
// It accepts lookahead, lookbehind and backreferences, which brings Regex
// mode closer to Python's re module than RE2 can.
type PCREMatcher struct {
	re          *pcre.Regexp
	consuming   bool
	blank       *regexp.Regexp // decides empty subjects; nil for PCRE-only syntax
	granularity Granularity
}

// NewPCREMatcher compiles pattern with "starts with" semantics.
func NewPCREMatcher(pattern string, g Granularity) (*PCREMatcher, error) {
	plain, err := pcre.Compile(pattern)
	if err != nil {
		return nil, &InvalidPatternError{Pattern: pattern, Engine: PCRE, Err: err}
	}

	m := &PCREMatcher{granularity: g}
	if re, err := regexp.Compile(anchor(pattern)); err == nil {
		m.blank = re
	}
	if re, err := pcre.Compile(consume(pattern)); err == nil {
		plain.Close()
		m.re, m.consuming = re, true
		return m, nil
	}
	m.re = plain
	return m, nil
}

func (m *PCREMatcher) Mode() Mode { return Regex }

func (m *PCREMatcher) Match(c *corpus.Corpus) []Result {
	return filter(c, m.granularity, m.matchStart)
}

// The pcre package reports no match for an empty subject and drops empty
// matches at offset 0, so zero-width starts are tested through consume and
// empty subjects through the RE2 form of the pattern.
func (m *PCREMatcher) matchStart(s string) bool {
	if s == "" {
		return m.blank != nil && m.blank.MatchString(s)
	}
	b := []byte(s)
	if m.consuming {
		return m.re.Match(b)
	}
	locs := m.re.FindAllIndex(b, 1)
	return len(locs) > 0 && locs[0][0] == 0
}

// consume matches one character at the subject start exactly when pattern
// matches there, with any width.
func consume(pattern string) string {
	return `\A(?=(?:` + pattern + `))(?s:.)`
}

// Close releases the compiled PCRE regex resources.
func (m *PCREMatcher) Close() {
	if m.re != nil {
		m.re.Close()
	}
}

var _ Matcher = (*PCREMatcher)(nil)
