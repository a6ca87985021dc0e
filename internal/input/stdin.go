package input

import (
	"io"
	"os"
)

// StdinReader reads the corpus from standard input, ignoring the path.
type StdinReader struct {
	src io.Reader
}

// NewStdinReader creates a StdinReader bound to os.Stdin.
func NewStdinReader() *StdinReader {
	return &StdinReader{src: os.Stdin}
}

func (r *StdinReader) Read(_ string) (ReadResult, error) {
	data, err := io.ReadAll(r.src)
	if err != nil {
		return ReadResult{}, err
	}
	return ReadResult{Data: data, Closer: noopCloser}, nil
}
