package matcher

import (
	"fmt"
	"strings"

	"github.com/dl/narrsearch/internal/corpus"
)

// Result is one matched corpus line. RankKey is only meaningful when Ranked
// is true, which is the case for EditDistance results.
type Result struct {
	LineIndex int
	RankKey   int
	Ranked    bool
}

// Matcher runs one compiled search over a corpus. Implementations never
// modify the corpus and keep no per-call state, so a Matcher may be shared
// by concurrent callers.
type Matcher interface {
	// Match returns the matching lines: ascending LineIndex for filter
	// modes, every line by ascending RankKey (stable) for ranking modes.
	Match(c *corpus.Corpus) []Result

	// Mode reports the search mode this matcher implements.
	Mode() Mode
}

// Mode selects the matching algorithm.
type Mode int

const (
	Contains Mode = iota
	Prefix
	EditDistance
	Regex
)

var modeLabels = [...]string{
	Contains:     "contains",
	Prefix:       "starts with",
	EditDistance: "edit distance",
	Regex:        "python regex",
}

// Modes lists every mode in display order.
func Modes() []Mode { return []Mode{Contains, Prefix, EditDistance, Regex} }

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeLabels) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeLabels[m]
}

// Ranking reports whether the mode reorders the whole corpus rather than
// filtering it.
func (m Mode) Ranking() bool { return m == EditDistance }

// ParseMode accepts the long labels used in links ("starts with") and
// short command-line aliases ("prefix").
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "contains":
		return Contains, nil
	case "starts with", "prefix", "startswith":
		return Prefix, nil
	case "edit distance", "edit", "distance", "levenshtein":
		return EditDistance, nil
	case "python regex", "regex", "regexp":
		return Regex, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Granularity selects whether a line is tested as a whole or token by token.
type Granularity int

const (
	PerWord Granularity = iota
	WholeLine
)

var granularityLabels = [...]string{
	PerWord:   "match individual words",
	WholeLine: "match whole line",
}

// Granularities lists every granularity in display order.
func Granularities() []Granularity { return []Granularity{PerWord, WholeLine} }

func (g Granularity) String() string {
	if g < 0 || int(g) >= len(granularityLabels) {
		return fmt.Sprintf("Granularity(%d)", int(g))
	}
	return granularityLabels[g]
}

// ParseGranularity accepts the long labels and the aliases "word" and "line".
func ParseGranularity(s string) (Granularity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "match individual words", "word", "words", "per-word":
		return PerWord, nil
	case "match whole line", "line", "whole-line":
		return WholeLine, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownGranularity, s)
}

// Engine selects the regular expression backend for Regex mode.
type Engine int

const (
	RE2 Engine = iota
	PCRE
)

func Engines() []Engine { return []Engine{RE2, PCRE} }

func (e Engine) String() string {
	switch e {
	case RE2:
		return "re2"
	case PCRE:
		return "pcre"
	}
	return fmt.Sprintf("Engine(%d)", int(e))
}

// ParseEngine parses "re2" or "pcre". The empty string selects RE2.
func ParseEngine(s string) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "re2", "go":
		return RE2, nil
	case "pcre", "pcre2":
		return PCRE, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownEngine, s)
}

// Options tune how a term is matched.
type Options struct {
	Granularity Granularity
	Engine      Engine
}

// Tokens splits s on runs of Unicode whitespace, dropping empty tokens.
func Tokens(s string) []string {
	return strings.Fields(s)
}

// filter keeps, in corpus order, every line whose text (or any token of it
// under PerWord) satisfies test.
func filter(c *corpus.Corpus, g Granularity, test func(string) bool) []Result {
	n := c.Len()
	if n == 0 {
		return nil
	}
	var results []Result
	for i := 0; i < n; i++ {
		if matchesAt(c.Text(i), g, test) {
			results = append(results, Result{LineIndex: i})
		}
	}
	return results
}

func matchesAt(text string, g Granularity, test func(string) bool) bool {
	switch g {
	case WholeLine:
		return test(text)
	case PerWord:
		for _, tok := range Tokens(text) {
			if test(tok) {
				return true
			}
		}
		return false
	}
	panic(fmt.Sprintf("matcher: unknown granularity %d", int(g)))
}
