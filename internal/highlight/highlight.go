// Package highlight marks the search term inside a result line.
package highlight

import (
	"html"
	"strings"
)

// Markers are the strings wrapped around a whole result line and around the
// term inside it. Escape, when set, is applied to line text (never to the
// markers themselves).
type Markers struct {
	ResultOpen, ResultClose string
	TermOpen, TermClose     string
	Escape                  func(string) string
}

// HTMLMarkers produces the span markup the web page styles with the
// "result" and "term" classes. Line text is HTML-escaped.
func HTMLMarkers() Markers {
	return Markers{
		ResultOpen:  `<span class="result">`,
		ResultClose: `</span>`,
		TermOpen:    `<span class="term">`,
		TermClose:   `</span>`,
		Escape:      html.EscapeString,
	}
}

const (
	ansiBold    = "\x1b[1m"
	ansiBoldRed = "\x1b[1;31m"
	ansiReset   = "\x1b[0m"
)

// ANSIMarkers renders the line bold and the term bold red for terminals.
func ANSIMarkers() Markers {
	return Markers{
		ResultOpen:  ansiBold,
		ResultClose: ansiReset,
		TermOpen:    ansiBoldRed,
		TermClose:   ansiReset + ansiBold,
	}
}

// PlainMarkers leaves text unmarked.
func PlainMarkers() Markers { return Markers{} }

// BracketMarkers marks the term with [[ ]] for plain-text output and logs.
func BracketMarkers() Markers {
	return Markers{TermOpen: "[[", TermClose: "]]"}
}

func (m Markers) escape(s string) string {
	if m.Escape == nil {
		return s
	}
	return m.Escape(s)
}

// Locate returns the byte span of the first literal occurrence of term in
// the whitespace-trimmed line.
func Locate(line, term string) (start, end int, ok bool) {
	if term == "" {
		return 0, 0, false
	}
	text := strings.TrimSpace(line)
	i := strings.Index(text, term)
	if i < 0 {
		return 0, 0, false
	}
	return i, i + len(term), true
}

// Line trims line, wraps it in the result markers and wraps the first
// literal occurrence of term in the term markers. The term is never
// interpreted as a pattern. When it does not occur literally (regex or edit
// distance hits), only the result markers are applied.
func Line(line, term string, m Markers) string {
	text := strings.TrimSpace(line)

	var b strings.Builder
	b.Grow(len(text) + len(m.ResultOpen) + len(m.ResultClose) + len(m.TermOpen) + len(m.TermClose))
	b.WriteString(m.ResultOpen)
	if start, end, ok := Locate(text, term); ok {
		b.WriteString(m.escape(text[:start]))
		b.WriteString(m.TermOpen)
		b.WriteString(m.escape(text[start:end]))
		b.WriteString(m.TermClose)
		b.WriteString(m.escape(text[end:]))
	} else {
		b.WriteString(m.escape(text))
	}
	b.WriteString(m.ResultClose)
	return b.String()
}
