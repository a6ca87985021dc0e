package input

// ReadResult holds the raw bytes of a corpus file and a cleanup function.
// Data may point into a memory mapping; it is only valid until Closer runs.
type ReadResult struct {
	Data   []byte
	Closer func() error
}

func noopCloser() error { return nil }

// Reader reads a whole corpus source into memory.
type Reader interface {
	Read(path string) (ReadResult, error)
}

// StdinPath is the corpus path that selects standard input.
const StdinPath = "-"

// ForPath returns the reader appropriate for path: stdin for "-",
// otherwise a file reader that switches to mmap at mmapThreshold bytes.
func ForPath(path string, mmapThreshold int64) Reader {
	if path == StdinPath {
		return NewStdinReader()
	}
	return NewFileReader(mmapThreshold)
}
