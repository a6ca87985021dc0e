package input

import (
	"bufio"
	"io"
	"strings"
)

// maxLineLen bounds a single search term or command line.
const maxLineLen = 1024 * 1024

// TermLine is one line read from a term stream (batch file or REPL input).
type TermLine struct {
	Text    string
	LineNum int // 1-based
	Err     error
}

// TermReader yields lines from an io.Reader without loading it whole.
type TermReader struct {
	scanner *bufio.Scanner
}

// NewTermReader creates a TermReader for r.
func NewTermReader(r io.Reader) *TermReader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLen)
	return &TermReader{scanner: scanner}
}

// Next returns the next line with its trailing CR removed. ok is false at
// end of input; a scanner error is reported on the final TermLine.
func (r *TermReader) Next() (TermLine, bool) {
	if r.scanner.Scan() {
		return TermLine{Text: strings.TrimSuffix(r.scanner.Text(), "\r")}, true
	}
	if err := r.scanner.Err(); err != nil {
		return TermLine{Err: err}, true
	}
	return TermLine{}, false
}

// Lines streams every line on a channel, numbering them from 1. Blank lines
// are skipped when skipBlank is set. The channel closes at end of input.
func (r *TermReader) Lines(skipBlank bool) <-chan TermLine {
	ch := make(chan TermLine, 256)
	go func() {
		defer close(ch)
		lineNum := 0
		for {
			line, ok := r.Next()
			if !ok {
				return
			}
			if line.Err != nil {
				ch <- line
				return
			}
			lineNum++
			if skipBlank && strings.TrimSpace(line.Text) == "" {
				continue
			}
			line.LineNum = lineNum
			ch <- line
		}
	}()
	return ch
}
