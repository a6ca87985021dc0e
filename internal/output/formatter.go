package output

import (
	"fmt"
	"strings"

	"github.com/dl/narrsearch/internal/highlight"
	"github.com/dl/narrsearch/internal/search"
)

// Formatter renders an Outcome. buf is a reusable buffer: implementations
// append to it and return the result, so callers can pass buf[:0].
type Formatter interface {
	Format(buf []byte, out search.Outcome) []byte
}

// Format names an output format.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// ParseFormat parses a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON, "jsonl":
		return FormatJSON, nil
	case FormatMarkdown, "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("unknown output format %q", s)
}

// MarkersFor returns the highlight markers a format expects in
// DisplayResult.Highlighted.
func MarkersFor(f Format, useColor bool) highlight.Markers {
	switch f {
	case FormatJSON, FormatMarkdown:
		return highlight.HTMLMarkers()
	}
	if useColor {
		return highlight.ANSIMarkers()
	}
	return highlight.PlainMarkers()
}

// New returns the formatter for f.
func New(f Format, useColor bool) Formatter {
	switch f {
	case FormatJSON:
		return NewJSONFormatter()
	case FormatMarkdown:
		return NewMarkdownFormatter()
	}
	var styles *Styles
	if useColor {
		s := NewStyles()
		styles = &s
	}
	return NewTextFormatter(styles)
}

// Heading is the per-result title, "Search result 2 of 17".
func Heading(r search.DisplayResult, total int) string {
	return fmt.Sprintf("Search result %d of %d", r.Ordinal, total)
}

// NoResults is the message shown when a search matched nothing.
func NoResults(term string) string {
	return fmt.Sprintf("No results for search term %q", term)
}

// Titled prefixes every outcome with its search term, for batch output
// where many outcomes share one stream. JSON is returned unchanged since
// its summary line already names the term.
func Titled(f Format, inner Formatter) Formatter {
	switch f {
	case FormatJSON:
		return inner
	case FormatMarkdown:
		return titled{inner: inner, prefix: "## "}
	}
	return titled{inner: inner, prefix: "== "}
}

type titled struct {
	inner  Formatter
	prefix string
}

func (t titled) Format(buf []byte, out search.Outcome) []byte {
	buf = append(buf, t.prefix...)
	buf = append(buf, out.Request.Term...)
	buf = append(buf, '\n')
	return t.inner.Format(buf, out)
}
