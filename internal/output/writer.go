package output

import (
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// Writer writes formatted output to a file descriptor using writev.
type Writer struct {
	fd int
}

// NewWriter creates a Writer that writes to stdout.
func NewWriter() *Writer {
	return &Writer{fd: int(os.Stdout.Fd())}
}

// NewFdWriter creates a Writer for an arbitrary descriptor.
func NewFdWriter(fd int) *Writer {
	return &Writer{fd: fd}
}

// Write writes all of data, retrying short writes.
func (w *Writer) Write(data []byte) (int, error) {
	written := 0
	for len(data) > 0 {
		n, err := unix.Writev(w.fd, [][]byte{data})
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return written, err
		}
		written += n
		data = data[n:]
	}
	return written, nil
}

// OrderedWriter receives batch results and writes them in sequence order,
// so output is deterministic even with parallel workers.
type OrderedWriter struct {
	writer    io.Writer
	formatter Formatter
	buf       []byte
}

// NewOrderedWriter creates an OrderedWriter.
func NewOrderedWriter(w io.Writer, f Formatter) *OrderedWriter {
	return &OrderedWriter{writer: w, formatter: f}
}

// WriteOrdered consumes results until the channel closes, buffering
// out-of-order results. onResult, if set, sees every result in order
// (including failed ones, which are not written).
func (ow *OrderedWriter) WriteOrdered(results <-chan Result, onResult func(Result)) error {
	nextSeq := 1
	pending := make(map[int]Result)

	for r := range results {
		pending[r.SeqNum] = r
		for {
			p, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++
			if onResult != nil {
				onResult(p)
			}
			if err := ow.writeResult(p); err != nil {
				return err
			}
		}
	}
	return nil
}

func (ow *OrderedWriter) writeResult(r Result) error {
	if r.Err != nil {
		return nil
	}
	ow.buf = ow.formatter.Format(ow.buf[:0], r.Outcome)
	_, err := ow.writer.Write(ow.buf)
	return err
}
