package output

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/dl/narrsearch/internal/corpus"
	"github.com/dl/narrsearch/internal/search"
)

// TextFormatter prints each result as a heading followed by its context
// block. The matched row uses ':' after the line number and carries the
// highlighted text; context rows use '-', as grep does.
type TextFormatter struct {
	styles *Styles // nil disables color
}

// NewTextFormatter creates a TextFormatter. Pass nil styles for plain output.
func NewTextFormatter(styles *Styles) *TextFormatter {
	return &TextFormatter{styles: styles}
}

func (f *TextFormatter) Format(buf []byte, out search.Outcome) []byte {
	if out.Unfiltered {
		for _, line := range out.Corpus.Lines() {
			buf = f.row(buf, line.Index, ':', line.Text, false)
		}
		return buf
	}

	if out.Total == 0 {
		buf = append(buf, f.paint(f.notice(), NoResults(out.Term))...)
		return append(buf, '\n')
	}

	for i, r := range out.Results {
		if i > 0 {
			buf = append(buf, '\n')
		}
		buf = append(buf, f.paint(f.heading(), Heading(r, out.Total))...)
		if r.RankKey != nil {
			buf = append(buf, " (edit distance "...)
			buf = strconv.AppendInt(buf, int64(*r.RankKey), 10)
			buf = append(buf, ')')
		}
		buf = append(buf, '\n')
		buf = f.block(buf, out.Corpus, r)
	}
	return buf
}

func (f *TextFormatter) block(buf []byte, c *corpus.Corpus, r search.DisplayResult) []byte {
	for _, line := range c.Range(r.ContextStart, r.ContextEnd) {
		if line.Index == r.LineIndex {
			buf = f.row(buf, line.Index, ':', r.Highlighted, false)
			continue
		}
		buf = f.row(buf, line.Index, '-', line.Text, true)
	}
	return buf
}

func (f *TextFormatter) row(buf []byte, index int, sep byte, text string, context bool) []byte {
	num := strconv.Itoa(index)
	if f.styles == nil {
		buf = append(buf, num...)
		buf = append(buf, sep)
		buf = append(buf, text...)
		return append(buf, '\n')
	}
	buf = append(buf, f.styles.LineNum.Render(num)...)
	buf = append(buf, f.styles.Separator.Render(string(sep))...)
	if context {
		buf = append(buf, f.styles.Context.Render(text)...)
	} else {
		buf = append(buf, text...)
	}
	return append(buf, '\n')
}

func (f *TextFormatter) heading() *lipgloss.Style {
	if f.styles == nil {
		return nil
	}
	return &f.styles.Heading
}

func (f *TextFormatter) notice() *lipgloss.Style {
	if f.styles == nil {
		return nil
	}
	return &f.styles.Notice
}

func (f *TextFormatter) paint(style *lipgloss.Style, s string) string {
	if style == nil {
		return s
	}
	return style.Render(s)
}

var _ Formatter = (*TextFormatter)(nil)
