package input

import (
	"fmt"
	"sync"
	"syscall"

	"golang.org/x/sys/unix"
)

// DefaultMmapThreshold is the file size at which FileReader maps the
// corpus instead of copying it into a pooled buffer.
const DefaultMmapThreshold = 4 << 20

// bufPool holds *[]byte so grown backing arrays are reused across loads.
var bufPool = sync.Pool{
	New: func() any {
		b := make([]byte, 0, 64*1024)
		return &b
	},
}

// FileReader opens a corpus file once, fstats it and picks pread into a
// pooled buffer for small files or a read-only private mapping for large ones.
type FileReader struct {
	threshold int64
}

// NewFileReader creates a FileReader. A threshold <= 0 uses DefaultMmapThreshold.
func NewFileReader(mmapThreshold int64) *FileReader {
	if mmapThreshold <= 0 {
		mmapThreshold = DefaultMmapThreshold
	}
	return &FileReader{threshold: mmapThreshold}
}

func (r *FileReader) Read(path string) (ReadResult, error) {
	fd, err := openFile(path)
	if err != nil {
		return ReadResult{}, fmt.Errorf("open %s: %w", path, err)
	}

	var stat unix.Stat_t
	if err := unix.Fstat(fd, &stat); err != nil {
		unix.Close(fd)
		return ReadResult{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if stat.Mode&unix.S_IFMT == unix.S_IFDIR {
		unix.Close(fd)
		return ReadResult{}, fmt.Errorf("read %s: is a directory", path)
	}
	if stat.Size == 0 {
		unix.Close(fd)
		return ReadResult{Data: nil, Closer: noopCloser}, nil
	}

	if stat.Size >= r.threshold {
		return readMapped(fd, stat.Size)
	}
	return readPooled(fd, stat.Size)
}

// readPooled takes ownership of fd.
func readPooled(fd int, size int64) (ReadResult, error) {
	defer unix.Close(fd)

	bp := bufPool.Get().(*[]byte)
	buf := *bp
	if cap(buf) < int(size) {
		buf = make([]byte, size)
	} else {
		buf = buf[:size]
	}

	var total int
	for total < int(size) {
		n, err := unix.Pread(fd, buf[total:], int64(total))
		if err != nil {
			*bp = buf
			bufPool.Put(bp)
			return ReadResult{}, err
		}
		if n == 0 {
			break
		}
		total += n
	}

	return ReadResult{
		Data: buf[:total],
		Closer: func() error {
			*bp = buf
			bufPool.Put(bp)
			return nil
		},
	}, nil
}

// readMapped takes ownership of fd and falls back to readPooled when
// mmap is refused.
func readMapped(fd int, size int64) (ReadResult, error) {
	unix.Fadvise(fd, 0, size, unix.FADV_SEQUENTIAL)

	data, err := syscall.Mmap(fd, 0, int(size), syscall.PROT_READ, syscall.MAP_PRIVATE|syscall.MAP_POPULATE)
	if err != nil {
		return readPooled(fd, size)
	}
	unix.Madvise(data, unix.MADV_SEQUENTIAL)

	return ReadResult{
		Data: data,
		Closer: func() error {
			err := syscall.Munmap(data)
			unix.Close(fd)
			return err
		},
	}, nil
}

// openFile opens read-only with O_NOATIME, retrying without it for files
// the caller does not own.
func openFile(path string) (int, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NOATIME|unix.O_CLOEXEC, 0)
	if err != nil {
		fd, err = unix.Open(path, unix.O_RDONLY|unix.O_CLOEXEC, 0)
	}
	return fd, err
}
