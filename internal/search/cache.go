package search

import (
	"slices"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dl/narrsearch/internal/corpus"
	"github.com/dl/narrsearch/internal/matcher"
)

// DefaultCacheSize is the number of distinct searches kept in memory.
const DefaultCacheSize = 256

// Key identifies a memoized match. Generation ties the entry to one corpus
// instance, so a reloaded corpus never sees stale entries.
type Key struct {
	Mode        matcher.Mode
	Granularity matcher.Granularity
	Engine      matcher.Engine
	Term        string
	Generation  uint64
}

func newKey(c *corpus.Corpus, term string, req Request) Key {
	return Key{
		Mode:        req.Mode,
		Granularity: req.Granularity,
		Engine:      req.Engine,
		Term:        term,
		Generation:  c.Generation(),
	}
}

// Cache memoizes match results per (mode, granularity, engine, term,
// corpus). Context, result cap and highlighting are applied after lookup,
// so changing them reuses the entry. Safe for concurrent use.
type Cache struct {
	lru *lru.Cache[Key, []matcher.Result]
}

// NewCache creates a cache holding up to size searches.
func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	l, err := lru.New[Key, []matcher.Result](size)
	if err != nil {
		return nil, err
	}
	return &Cache{lru: l}, nil
}

// get returns a private copy so callers cannot corrupt the stored slice.
func (c *Cache) get(k Key) ([]matcher.Result, bool) {
	v, ok := c.lru.Get(k)
	if !ok {
		return nil, false
	}
	return slices.Clone(v), true
}

func (c *Cache) add(k Key, results []matcher.Result) {
	c.lru.Add(k, slices.Clone(results))
}

// Len returns the number of cached searches.
func (c *Cache) Len() int { return c.lru.Len() }

// Invalidate drops every entry. Call it when the corpus is replaced.
func (c *Cache) Invalidate() { c.lru.Purge() }
