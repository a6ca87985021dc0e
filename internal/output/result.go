package output

import "github.com/dl/narrsearch/internal/search"

// Result is one outcome produced by a batch worker. SeqNum orders output;
// Err holds a per-term failure such as an invalid pattern.
type Result struct {
	SeqNum  int
	Term    string
	Outcome search.Outcome
	Err     error
}

// HasMatch returns true if the search produced at least one hit.
func (r *Result) HasMatch() bool {
	return r.Err == nil && r.Outcome.Total > 0
}
