package link

import (
	"errors"
	"io"
	"sync"
)

// DefaultQueueLimit caps the bytes a Queue holds before writes are dropped.
const DefaultQueueLimit = 4096

// ErrQueueFull is returned by Queue.Write when bytes were dropped.
var ErrQueueFull = errors.New("link: queue full")

// Queue is a bounded, goroutine-safe byte FIFO. Writers append; a single
// reader consumes through the Source methods.
type Queue struct {
	mu       sync.Mutex
	buf      []byte
	limit    int
	overflow int
}

var _ Source = (*Queue)(nil)

// NewQueue returns a queue holding a copy of b, limited to
// DefaultQueueLimit bytes. The initial contents are kept even when longer.
func NewQueue(b []byte) *Queue {
	return &Queue{buf: append([]byte(nil), b...), limit: DefaultQueueLimit}
}

// Write appends as much of p as fits. The rest is dropped, counted, and
// reported with ErrQueueFull.
func (q *Queue) Write(p []byte) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := len(p)
	if room := q.limit - len(q.buf); n > room {
		n = max(room, 0)
	}
	q.buf = append(q.buf, p[:n]...)
	if n < len(p) {
		q.overflow += len(p) - n
		return n, ErrQueueFull
	}
	return n, nil
}

// Overflow returns the number of bytes dropped because the queue was full.
func (q *Queue) Overflow() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.overflow
}

// Buffered returns the number of queued bytes.
func (q *Queue) Buffered() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.buf)
}

// Peek returns a copy of the next n bytes without consuming them.
func (q *Queue) Peek(n int) ([]byte, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.buf) < n {
		return nil, ErrIncomplete
	}
	return append([]byte(nil), q.buf[:n]...), nil
}

// Discard drops up to n bytes.
func (q *Queue) Discard(n int) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if n > len(q.buf) {
		n = len(q.buf)
	}
	q.consume(n)
	return n, nil
}

// ReadByte consumes one byte. It returns io.EOF when the queue is empty.
func (q *Queue) ReadByte() (byte, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.buf) == 0 {
		return 0, io.EOF
	}
	b := q.buf[0]
	q.consume(1)
	return b, nil
}

// consume drops n bytes from the front, releasing the backing array once the
// queue drains. Caller holds mu.
func (q *Queue) consume(n int) {
	q.buf = q.buf[n:]
	if len(q.buf) == 0 {
		q.buf = q.buf[:0:0]
	}
}
