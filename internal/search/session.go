package search

import "github.com/dl/narrsearch/internal/corpus"

// Session tracks the current request and the last successful outcome of an
// interactive front end. A failed search leaves the previous outcome in
// place. Not safe for concurrent use.
type Session struct {
	searcher *Searcher
	request  Request
	last     *Outcome
}

// NewSession starts a session with req as the current parameters.
func NewSession(s *Searcher, req Request) *Session {
	return &Session{searcher: s, request: req}
}

// Request returns the current parameters.
func (s *Session) Request() Request { return s.request }

// Update replaces the current parameters after validating them.
func (s *Session) Update(req Request) error {
	if err := req.Validate(); err != nil {
		return err
	}
	s.request = req
	return nil
}

// Run searches c with the current parameters.
func (s *Session) Run(c *corpus.Corpus) (Outcome, error) {
	out, err := s.searcher.Search(c, s.request)
	if err != nil {
		return Outcome{}, err
	}
	s.last = &out
	return out, nil
}

// Last returns the most recent successful outcome.
func (s *Session) Last() (Outcome, bool) {
	if s.last == nil {
		return Outcome{}, false
	}
	return *s.last, true
}
