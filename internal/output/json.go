package output

import (
	"encoding/json"

	"github.com/dl/narrsearch/internal/highlight"
	"github.com/dl/narrsearch/internal/search"
)

// JSONFormatter formats outcomes as JSON Lines: one object per result (or
// per corpus line when unfiltered) followed by a summary object.
type JSONFormatter struct{}

// NewJSONFormatter creates a JSONFormatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// JSONResult is the serialized form of one display result.
type JSONResult struct {
	Type         string     `json:"type"`
	Ordinal      int        `json:"ordinal,omitempty"`
	LineNum      int        `json:"line_number"`
	Text         string     `json:"text"`
	Highlighted  string     `json:"highlighted,omitempty"`
	Term         *JSONSpan  `json:"term_span,omitempty"`
	EditDistance *int       `json:"edit_distance,omitempty"`
	Context      []JSONLine `json:"context,omitempty"`
}

// JSONSpan is a byte range within the trimmed line text.
type JSONSpan struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// JSONLine is one corpus line.
type JSONLine struct {
	LineNum int    `json:"line_number"`
	Text    string `json:"text"`
}

// JSONSummary closes every outcome.
type JSONSummary struct {
	Type       string `json:"type"`
	Mode       string `json:"mode"`
	MatchMode  string `json:"match_mode"`
	Term       string `json:"term"`
	RawTerm    string `json:"raw_term,omitempty"`
	Total      int    `json:"total"`
	Shown      int    `json:"shown"`
	Unfiltered bool   `json:"unfiltered,omitempty"`
}

func (f *JSONFormatter) Format(buf []byte, out search.Outcome) []byte {
	if out.Unfiltered {
		for _, line := range out.Corpus.Lines() {
			buf = appendJSON(buf, JSONResult{Type: "line", LineNum: line.Index, Text: line.Text})
		}
	}

	for _, r := range out.Results {
		jr := JSONResult{
			Type:         "match",
			Ordinal:      r.Ordinal,
			LineNum:      r.LineIndex,
			Text:         r.Text,
			Highlighted:  r.Highlighted,
			EditDistance: r.RankKey,
		}
		if start, end, ok := highlight.Locate(r.Text, out.Term); ok {
			jr.Term = &JSONSpan{Start: start, End: end}
		}
		for _, line := range out.Corpus.Range(r.ContextStart, r.ContextEnd) {
			jr.Context = append(jr.Context, JSONLine{LineNum: line.Index, Text: line.Text})
		}
		buf = appendJSON(buf, jr)
	}

	summary := JSONSummary{
		Type:       "summary",
		Mode:       out.Request.Mode.String(),
		MatchMode:  out.Request.Granularity.String(),
		Term:       out.Term,
		Total:      out.Total,
		Shown:      out.Shown(),
		Unfiltered: out.Unfiltered,
	}
	// Term is what was matched; the submitted spelling is kept when it differs.
	if out.Request.Term != out.Term {
		summary.RawTerm = out.Request.Term
	}
	return appendJSON(buf, summary)
}

func appendJSON(buf []byte, v any) []byte {
	data, _ := json.Marshal(v)
	buf = append(buf, data...)
	return append(buf, '\n')
}

var _ Formatter = (*JSONFormatter)(nil)
