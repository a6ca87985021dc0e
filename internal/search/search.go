package search

import (
	"github.com/dl/narrsearch/internal/corpus"
	"github.com/dl/narrsearch/internal/highlight"
	"github.com/dl/narrsearch/internal/matcher"
	"github.com/dl/narrsearch/internal/textnorm"
)

// Outcome is everything a front end needs to render one search.
// Total counts matches before capping, for "result i of Total" framing.
// Unfiltered is set for an empty term: the caller shows the whole corpus.
type Outcome struct {
	Request    Request         `json:"-"`
	Term       string          `json:"term"`
	Total      int             `json:"total"`
	Results    []DisplayResult `json:"results"`
	Unfiltered bool            `json:"unfiltered,omitempty"`
	Corpus     *corpus.Corpus  `json:"-"`
}

// Shown returns the number of rendered results.
func (o Outcome) Shown() int { return len(o.Results) }

// Searcher runs requests. It is safe for concurrent use as long as its
// Cache is (the LRU-backed Cache is).
type Searcher struct {
	markers highlight.Markers
	cache   *Cache
}

// NewSearcher creates a Searcher that renders with m. cache may be nil.
func NewSearcher(m highlight.Markers, cache *Cache) *Searcher {
	return &Searcher{markers: m, cache: cache}
}

// Cache returns the searcher's cache, or nil.
func (s *Searcher) Cache() *Cache { return s.cache }

// Search validates req and runs it against c. The only search failure is
// an *matcher.InvalidPatternError in Regex mode.
func (s *Searcher) Search(c *corpus.Corpus, req Request) (Outcome, error) {
	if c == nil {
		return Outcome{}, corpus.ErrNoCorpus
	}
	if err := req.Validate(); err != nil {
		return Outcome{}, err
	}

	if req.Empty() {
		return Outcome{Request: req, Total: c.Len(), Unfiltered: true, Corpus: c}, nil
	}

	term := textnorm.Term(req.Term, req.Normalize)
	results, err := s.match(c, term, req)
	if err != nil {
		return Outcome{}, err
	}

	return Outcome{
		Request: req,
		Term:    term,
		Total:   len(results),
		Results: Assemble(results, req.MaxResults, c, term, req.ContextRadius, s.markers),
		Corpus:  c,
	}, nil
}

func (s *Searcher) match(c *corpus.Corpus, term string, req Request) ([]matcher.Result, error) {
	opts := matcher.Options{Granularity: req.Granularity, Engine: req.Engine}
	if s.cache == nil {
		return matcher.Match(c, term, req.Mode, opts)
	}

	key := newKey(c, term, req)
	if results, ok := s.cache.get(key); ok {
		return results, nil
	}
	results, err := matcher.Match(c, term, req.Mode, opts)
	if err != nil {
		return nil, err
	}
	s.cache.add(key, results)
	return results, nil
}
