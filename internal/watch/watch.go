// Package watch reports changes to the corpus file so a long-running
// process can reload it.
package watch

import (
	"encoding/binary"
	"fmt"
	"path/filepath"
	"sync"

	"golang.org/x/sys/unix"
)

// EventType identifies the kind of change.
type EventType int

const (
	// EventChanged means the file was rewritten in place or replaced by a
	// rename, and should be reloaded.
	EventChanged EventType = iota
	// EventRemoved means the file was deleted or moved away.
	EventRemoved
)

func (t EventType) String() string {
	if t == EventRemoved {
		return "removed"
	}
	return "changed"
}

// Event is a change to the watched file.
type Event struct {
	Path string
	Type EventType
	Err  error
}

// Watcher watches one file through an inotify watch on its directory, so
// atomic replace-by-rename (how most editors save) is seen as well as
// in-place writes.
type Watcher struct {
	inotifyFd int
	epollFd   int
	dir       string
	name      string
	done      chan struct{}
	closeOnce sync.Once
}

const watchMask = unix.IN_CLOSE_WRITE | unix.IN_MOVED_TO | unix.IN_CREATE |
	unix.IN_DELETE | unix.IN_MOVED_FROM | unix.IN_DELETE_SELF | unix.IN_MOVE_SELF

// New starts watching path.
func New(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	ifd, err := unix.InotifyInit1(unix.IN_CLOEXEC | unix.IN_NONBLOCK)
	if err != nil {
		return nil, fmt.Errorf("inotify_init1: %w", err)
	}

	efd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		unix.Close(ifd)
		return nil, fmt.Errorf("epoll_create1: %w", err)
	}

	event := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(ifd)}
	if err := unix.EpollCtl(efd, unix.EPOLL_CTL_ADD, ifd, &event); err != nil {
		unix.Close(efd)
		unix.Close(ifd)
		return nil, fmt.Errorf("epoll_ctl: %w", err)
	}

	dir := filepath.Dir(abs)
	if _, err := unix.InotifyAddWatch(ifd, dir, watchMask); err != nil {
		unix.Close(efd)
		unix.Close(ifd)
		return nil, fmt.Errorf("inotify_add_watch %s: %w", dir, err)
	}

	return &Watcher{
		inotifyFd: ifd,
		epollFd:   efd,
		dir:       dir,
		name:      filepath.Base(abs),
		done:      make(chan struct{}),
	}, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return filepath.Join(w.dir, w.name)
}

// Events returns a channel of changes to the watched file. The channel is
// closed after Close is called or on a fatal read error, which is sent first.
func (w *Watcher) Events() <-chan Event {
	ch := make(chan Event, 16)
	go func() {
		defer close(ch)
		buf := make([]byte, 4096)
		events := make([]unix.EpollEvent, 1)

		for {
			select {
			case <-w.done:
				return
			default:
			}

			// 100ms timeout so Close is noticed promptly.
			n, err := unix.EpollWait(w.epollFd, events, 100)
			if err != nil {
				if err == unix.EINTR {
					continue
				}
				w.send(ch, Event{Err: fmt.Errorf("epoll_wait: %w", err)})
				return
			}
			if n == 0 {
				continue
			}

			nbytes, err := unix.Read(w.inotifyFd, buf)
			if err != nil {
				if err == unix.EAGAIN {
					continue
				}
				w.send(ch, Event{Err: fmt.Errorf("read inotify: %w", err)})
				return
			}

			for _, evt := range w.parseEvents(buf[:nbytes]) {
				if !w.send(ch, evt) {
					return
				}
			}
		}
	}()
	return ch
}

func (w *Watcher) send(ch chan<- Event, evt Event) bool {
	select {
	case ch <- evt:
		return true
	case <-w.done:
		return false
	}
}

// inotify event header layout:
//
//	int32  wd       (offset 0)
//	uint32 mask     (offset 4)
//	uint32 cookie   (offset 8)
//	uint32 len      (offset 12)
//	char   name[]   (offset 16)
const inotifyEventSize = 16

// parseEvents keeps only events naming the watched file. Several events
// for one save (CREATE then CLOSE_WRITE) collapse into one per buffer.
func (w *Watcher) parseEvents(buf []byte) []Event {
	var (
		changed, removed bool
		offset           int
	)
	for offset+inotifyEventSize <= len(buf) {
		mask := binary.LittleEndian.Uint32(buf[offset+4:])
		nameLen := int(binary.LittleEndian.Uint32(buf[offset+12:]))

		var name string
		if nameLen > 0 {
			nameStart := offset + inotifyEventSize
			nameEnd := nameStart + nameLen
			if nameEnd > len(buf) {
				break
			}
			nameBytes := buf[nameStart:nameEnd]
			for i, b := range nameBytes {
				if b == 0 {
					nameBytes = nameBytes[:i]
					break
				}
			}
			name = string(nameBytes)
		}
		offset += inotifyEventSize + nameLen

		switch {
		case mask&(unix.IN_DELETE_SELF|unix.IN_MOVE_SELF) != 0:
			// The directory itself went away.
			removed = true
		case name != w.name:
			continue
		case mask&(unix.IN_CLOSE_WRITE|unix.IN_MOVED_TO|unix.IN_CREATE) != 0:
			changed, removed = true, false
		case mask&(unix.IN_DELETE|unix.IN_MOVED_FROM) != 0:
			removed, changed = true, false
		}
	}

	path := w.Path()
	switch {
	case changed:
		return []Event{{Path: path, Type: EventChanged}}
	case removed:
		return []Event{{Path: path, Type: EventRemoved}}
	}
	return nil
}

// Close stops the watcher and releases resources. It is safe to call twice.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		unix.Close(w.epollFd)
		err = unix.Close(w.inotifyFd)
	})
	return err
}
