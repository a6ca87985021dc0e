package matcher

import (
	"cmp"
	"slices"

	"github.com/agnivade/levenshtein"

	"github.com/dl/narrsearch/internal/corpus"
)

// Distance is the classic Levenshtein distance between a and b, counting
// single-rune inserts, deletes and substitutions at cost 1.
func Distance(a, b string) int {
	return levenshtein.ComputeDistance(a, b)
}

// distanceMatcher ranks every line by edit distance to the term. Rank keys
// live only in the returned slice; nothing is written back to the corpus.
type distanceMatcher struct {
	term        string
	granularity Granularity
}

func newDistanceMatcher(term string, g Granularity) *distanceMatcher {
	return &distanceMatcher{term: term, granularity: g}
}

func (m *distanceMatcher) Mode() Mode { return EditDistance }

func (m *distanceMatcher) Match(c *corpus.Corpus) []Result {
	n := c.Len()
	if n == 0 {
		return nil
	}
	results := make([]Result, n)
	for i := 0; i < n; i++ {
		results[i] = Result{LineIndex: i, RankKey: m.rank(c.Text(i)), Ranked: true}
	}
	slices.SortStableFunc(results, func(a, b Result) int {
		return cmp.Compare(a.RankKey, b.RankKey)
	})
	return results
}

// rank computes the line's key. A line with no tokens ranks as the empty
// string under PerWord.
func (m *distanceMatcher) rank(text string) int {
	if m.granularity == WholeLine {
		return Distance(text, m.term)
	}
	tokens := Tokens(text)
	if len(tokens) == 0 {
		return Distance("", m.term)
	}
	best := Distance(tokens[0], m.term)
	for _, tok := range tokens[1:] {
		if best == 0 {
			break
		}
		if d := Distance(tok, m.term); d < best {
			best = d
		}
	}
	return best
}
