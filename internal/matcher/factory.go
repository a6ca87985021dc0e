package matcher

import (
	"fmt"

	"github.com/dl/narrsearch/internal/corpus"
)

// New compiles term for the given mode.
// Selection logic:
//   - Contains / Prefix -> literalMatcher (dots and every other character literal)
//   - EditDistance -> distanceMatcher (ranks every line)
//   - Regex + RE2 -> RegexMatcher (Go regexp, anchored at subject start)
//   - Regex + PCRE -> PCREMatcher (PCRE2 port, anchored at subject start)
//
// Only Regex mode can fail, with an *InvalidPatternError.
func New(mode Mode, term string, opts Options) (Matcher, error) {
	switch mode {
	case Contains:
		return newLiteralMatcher(Contains, term, opts.Granularity), nil
	case Prefix:
		return newLiteralMatcher(Prefix, term, opts.Granularity), nil
	case EditDistance:
		return newDistanceMatcher(term, opts.Granularity), nil
	case Regex:
		switch opts.Engine {
		case RE2:
			return NewRegexMatcher(term, opts.Granularity)
		case PCRE:
			return NewPCREMatcher(term, opts.Granularity)
		}
		return nil, fmt.Errorf("%w: %d", ErrUnknownEngine, int(opts.Engine))
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownMode, int(mode))
}

// Match compiles term, runs it over c and releases the compiled matcher.
func Match(c *corpus.Corpus, term string, mode Mode, opts Options) ([]Result, error) {
	m, err := New(mode, term, opts)
	if err != nil {
		return nil, err
	}
	defer Release(m)
	return m.Match(c), nil
}

// Release frees native resources held by m, if any.
func Release(m Matcher) {
	if cl, ok := m.(interface{ Close() }); ok {
		cl.Close()
	}
}
