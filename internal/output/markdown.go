package output

import (
	"html"
	"strconv"
	"strings"

	"github.com/dl/narrsearch/internal/search"
)

// MarkdownFormatter renders each result as a subheading and a two-column
// table of its context, the layout the web page also uses. Highlighted
// text is expected to carry HTML span markers; other lines are escaped to
// match.
type MarkdownFormatter struct{}

// NewMarkdownFormatter creates a MarkdownFormatter.
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

var cellEscaper = strings.NewReplacer("|", `\|`, "\n", " ")

func (f *MarkdownFormatter) Format(buf []byte, out search.Outcome) []byte {
	if out.Unfiltered {
		buf = appendTableHeader(buf)
		for _, line := range out.Corpus.Lines() {
			buf = appendRow(buf, line.Index, cellEscaper.Replace(html.EscapeString(line.Text)))
		}
		return buf
	}

	if out.Total == 0 {
		buf = append(buf, "No results for search term **"...)
		buf = append(buf, cellEscaper.Replace(out.Term)...)
		return append(buf, "**\n"...)
	}

	for i, r := range out.Results {
		if i > 0 {
			buf = append(buf, '\n')
		}
		buf = append(buf, "### "...)
		buf = append(buf, Heading(r, out.Total)...)
		buf = append(buf, "\n\n"...)
		buf = appendTableHeader(buf)
		for _, line := range out.Corpus.Range(r.ContextStart, r.ContextEnd) {
			text := html.EscapeString(line.Text)
			if line.Index == r.LineIndex {
				text = r.Highlighted
			}
			buf = appendRow(buf, line.Index, cellEscaper.Replace(text))
		}
	}
	return buf
}

func appendTableHeader(buf []byte) []byte {
	return append(buf, "| Line number | Line |\n|------:|:------|\n"...)
}

func appendRow(buf []byte, index int, cell string) []byte {
	buf = append(buf, "| "...)
	buf = strconv.AppendInt(buf, int64(index), 10)
	buf = append(buf, " | "...)
	buf = append(buf, cell...)
	return append(buf, " |\n"...)
}

var _ Formatter = (*MarkdownFormatter)(nil)
