// Package corpus holds the immutable, line-indexed text collection that
// searches run against.
package corpus

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/dl/narrsearch/internal/input"
	"github.com/dl/narrsearch/internal/textnorm"
)

// ErrNoCorpus is returned when a search is attempted before a corpus is loaded.
var ErrNoCorpus = errors.New("no corpus loaded")

// Line is a single corpus entry. Index is its zero-based physical position
// in the source.
type Line struct {
	Index int
	Text  string
}

// Corpus is read-only after construction and safe for concurrent readers.
type Corpus struct {
	lines      []Line
	generation uint64
}

var generations atomic.Uint64

// New builds a corpus from raw lines. One trailing "\n" or "\r\n" is
// stripped from each line and the text is NFC-normalized.
func New(raw []string) *Corpus {
	lines := make([]Line, len(raw))
	for i, s := range raw {
		s = strings.TrimSuffix(s, "\n")
		s = strings.TrimSuffix(s, "\r")
		lines[i] = Line{Index: i, Text: textnorm.NFC(s)}
	}
	return &Corpus{lines: lines, generation: generations.Add(1)}
}

// Parse splits data on newlines. A trailing newline does not start an
// extra empty line.
func Parse(data []byte) *Corpus {
	if len(data) == 0 {
		return New(nil)
	}
	data = bytes.TrimSuffix(data, []byte{'\n'})
	parts := strings.Split(string(data), "\n")
	return New(parts)
}

// Load reads path with r and parses it. The reader's buffer is released
// before Load returns; the corpus owns copies of every line.
func Load(path string, r input.Reader) (*Corpus, error) {
	res, err := r.Read(path)
	if err != nil {
		return nil, fmt.Errorf("load corpus %s: %w", path, err)
	}
	defer func() {
		if res.Closer != nil {
			res.Closer()
		}
	}()
	return Parse(res.Data), nil
}

// Len returns the number of lines.
func (c *Corpus) Len() int {
	if c == nil {
		return 0
	}
	return len(c.lines)
}

// Line returns the line at index i. It panics if i is out of range.
func (c *Corpus) Line(i int) Line {
	return c.lines[i]
}

// Text returns the text of line i.
func (c *Corpus) Text(i int) string {
	return c.lines[i].Text
}

// Lines returns a copy of every line.
func (c *Corpus) Lines() []Line {
	if c == nil {
		return nil
	}
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Range returns a copy of the lines from start to end inclusive.
func (c *Corpus) Range(start, end int) []Line {
	if start < 0 || end >= len(c.lines) || start > end {
		return nil
	}
	out := make([]Line, end-start+1)
	copy(out, c.lines[start:end+1])
	return out
}

// Generation identifies this corpus instance. Every constructed corpus gets
// a distinct value, so caches keyed on it never serve results across reloads.
func (c *Corpus) Generation() uint64 {
	if c == nil {
		return 0
	}
	return c.generation
}
