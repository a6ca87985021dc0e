package search

import (
	"fmt"

	"github.com/dl/narrsearch/internal/corpus"
	"github.com/dl/narrsearch/internal/highlight"
	"github.com/dl/narrsearch/internal/matcher"
)

// DisplayResult is one rendered hit. Ordinal is 1-based; ContextStart and
// ContextEnd are inclusive line indexes.
type DisplayResult struct {
	Ordinal      int    `json:"ordinal"`
	LineIndex    int    `json:"line_number"`
	Text         string `json:"text"`
	Highlighted  string `json:"highlighted"`
	ContextStart int    `json:"context_start"`
	ContextEnd   int    `json:"context_end"`
	RankKey      *int   `json:"edit_distance,omitempty"`
}

// Assemble keeps the first maxResults entries of results and renders each
// against the original line text. It panics when maxResults < 1 or
// radius < 0; Request.Validate rejects both before a search runs.
func Assemble(results []matcher.Result, maxResults int, c *corpus.Corpus, term string, radius int, m highlight.Markers) []DisplayResult {
	if maxResults < 1 {
		panic(fmt.Sprintf("search: maxResults must be >= 1, got %d", maxResults))
	}
	if radius < 0 {
		panic(fmt.Sprintf("search: negative context radius %d", radius))
	}

	if len(results) > maxResults {
		results = results[:maxResults]
	}
	if len(results) == 0 {
		return nil
	}

	n := c.Len()
	out := make([]DisplayResult, len(results))
	for i, r := range results {
		text := c.Text(r.LineIndex)
		start, end := matcher.ExtractContext(r.LineIndex, radius, n)
		dr := DisplayResult{
			Ordinal:      i + 1,
			LineIndex:    r.LineIndex,
			Text:         text,
			Highlighted:  highlight.Line(text, term, m),
			ContextStart: start,
			ContextEnd:   end,
		}
		if r.Ranked {
			key := r.RankKey
			dr.RankKey = &key
		}
		out[i] = dr
	}
	return out
}
