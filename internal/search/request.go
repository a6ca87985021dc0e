// Package search ties the matcher, highlighter and context extraction
// together: it validates a request, runs it against a corpus and assembles
// the capped, highlighted display results.
package search

import (
	"errors"
	"fmt"

	"github.com/dl/narrsearch/internal/matcher"
)

const (
	DefaultContext    = 3
	MaxContext        = 100
	DefaultMaxResults = 100
)

var (
	ErrInvalidRadius     = errors.New("context size must be between 0 and 100")
	ErrInvalidMaxResults = errors.New("max number of results must be at least 1")
)

// Request is a fully parsed search. An empty Term means "no search": the
// whole corpus is shown unfiltered.
type Request struct {
	Mode          matcher.Mode
	Granularity   matcher.Granularity
	Engine        matcher.Engine
	Term          string
	ContextRadius int
	MaxResults    int
	Normalize     bool
}

// DefaultRequest returns the request a fresh session starts with.
func DefaultRequest() Request {
	return Request{
		Mode:          matcher.Contains,
		Granularity:   matcher.PerWord,
		Engine:        matcher.RE2,
		ContextRadius: DefaultContext,
		MaxResults:    DefaultMaxResults,
	}
}

// Validate checks the numeric bounds the core relies on.
func (r Request) Validate() error {
	if r.ContextRadius < 0 || r.ContextRadius > MaxContext {
		return fmt.Errorf("%w: %d", ErrInvalidRadius, r.ContextRadius)
	}
	if r.MaxResults < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxResults, r.MaxResults)
	}
	return nil
}

// Empty reports whether the request performs no search.
func (r Request) Empty() bool { return r.Term == "" }
