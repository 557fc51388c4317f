package logging

import (
	"io"
	"os"
	"sync"
	"sync/atomic"
)

// NonBlockingWriter hands each Write to a background goroutine through a bounded queue.
// Write never blocks and never fails: when the queue is full, or after Close, the data is
// dropped and counted.
type NonBlockingWriter struct {
	next    io.Writer
	lines   chan []byte
	done    chan struct{}
	dropped uint64

	lock   sync.RWMutex
	closed bool
}

// NewNonBlockingWriter starts the drain goroutine for next.  A nonpositive size
// is replaced with DefaultBufferSize.
func NewNonBlockingWriter(next io.Writer, size int) *NonBlockingWriter {
	if size < 1 {
		size = DefaultBufferSize
	}

	w := &NonBlockingWriter{
		next:  next,
		lines: make(chan []byte, size),
		done:  make(chan struct{}),
	}

	go w.drain()
	return w
}

func (w *NonBlockingWriter) drain() {
	defer close(w.done)
	for line := range w.lines {
		// write errors have nowhere to go
		w.next.Write(line)
	}
}

// Write queues a copy of p.  It always reports success.
func (w *NonBlockingWriter) Write(p []byte) (int, error) {
	w.lock.RLock()
	defer w.lock.RUnlock()

	if w.closed {
		atomic.AddUint64(&w.dropped, 1)
		return len(p), nil
	}

	line := make([]byte, len(p))
	copy(line, p)

	select {
	case w.lines <- line:
	default:
		atomic.AddUint64(&w.dropped, 1)
	}

	return len(p), nil
}

// Dropped returns the number of writes discarded so far
func (w *NonBlockingWriter) Dropped() uint64 {
	return atomic.LoadUint64(&w.dropped)
}

// Close stops accepting writes, waits for queued data to reach the underlying writer, and
// closes that writer if it is closeable.  The standard streams are never closed.  Close is idempotent.
func (w *NonBlockingWriter) Close() error {
	w.lock.Lock()
	if w.closed {
		w.lock.Unlock()
		return nil
	}

	w.closed = true
	close(w.lines)
	w.lock.Unlock()

	<-w.done
	if w.next == os.Stdout || w.next == os.Stderr {
		return nil
	}

	if c, ok := w.next.(io.Closer); ok {
		return c.Close()
	}

	return nil
}
