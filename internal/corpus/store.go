package corpus

import "sync/atomic"

// Store holds the current corpus for long-running front ends. Readers get
// a consistent snapshot; a reload swaps the whole corpus at once.
type Store struct {
	cur atomic.Pointer[Corpus]
}

// NewStore returns a store holding c, which may be nil.
func NewStore(c *Corpus) *Store {
	s := &Store{}
	if c != nil {
		s.cur.Store(c)
	}
	return s
}

// Load returns the current corpus, or nil if none has been stored.
func (s *Store) Load() *Corpus {
	return s.cur.Load()
}

// Swap installs c and returns the previous corpus.
func (s *Store) Swap(c *Corpus) *Corpus {
	return s.cur.Swap(c)
}
