// Package relay bridges an asynchronous log producer and an interactive
// session consumer through a bounded byte buffer, and implements the
// session that streams live log output to a console.
package relay

import (
	"sync"
	"time"
)

// DefaultCapacity is the default ring capacity in bytes. Sized to absorb
// short bursts; sustained overload drops bytes by design.
const DefaultCapacity = 2048

// Buffer is a fixed-capacity FIFO byte queue with a non-blocking,
// best-effort send side and a blocking-with-timeout receive side.
//
// It is byte-oriented and carries no record boundaries. Intended use is
// single-producer/single-consumer for the lifetime of one session, but
// the internal synchronization tolerates concurrent senders (log sinks
// run on whichever goroutine emitted the record).
type Buffer struct {
	mu       sync.Mutex
	data     []byte
	head     int
	size     int
	capacity int
	closed   bool

	// notify wakes a blocked Receive after a send. Capacity 1: a send
	// only needs to publish "data available", not count events.
	notify chan struct{}
}

// New creates a buffer with the given byte capacity.
func New(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{
		data:     make([]byte, capacity),
		capacity: capacity,
		notify:   make(chan struct{}, 1),
	}
}

// TrySend appends as many bytes of p as fit and returns the count
// accepted. The remainder is silently discarded: the producer side must
// never block, so overflow is lossy rather than an error.
func (b *Buffer) TrySend(p []byte) int {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return 0
	}

	free := b.capacity - b.size
	n := len(p)
	if n > free {
		n = free
	}

	tail := (b.head + b.size) % b.capacity
	for copied := 0; copied < n; {
		run := n - copied
		if run > b.capacity-tail {
			run = b.capacity - tail
		}
		copy(b.data[tail:tail+run], p[copied:copied+run])
		tail = (tail + run) % b.capacity
		copied += run
	}
	b.size += n
	b.mu.Unlock()

	if n > 0 {
		select {
		case b.notify <- struct{}{}:
		default:
		}
	}
	return n
}

// Receive copies up to len(p) buffered bytes into p, blocking up to
// timeout for data to arrive. Returns the number of bytes copied, 0 on
// timeout or after Close.
func (b *Buffer) Receive(p []byte, timeout time.Duration) int {
	if len(p) == 0 {
		return 0
	}

	deadline := time.Now().Add(timeout)
	for {
		if n := b.take(p); n > 0 {
			return n
		}
		if b.isClosed() {
			return 0
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return 0
		}

		timer := time.NewTimer(remaining)
		select {
		case <-b.notify:
			timer.Stop()
		case <-timer.C:
			// Final check: a send may have landed between take and wait.
			return b.take(p)
		}
	}
}

// take copies buffered bytes into p without blocking.
func (b *Buffer) take(p []byte) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := b.size
	if n == 0 {
		return 0
	}
	if n > len(p) {
		n = len(p)
	}

	for copied := 0; copied < n; {
		run := n - copied
		if run > b.capacity-b.head {
			run = b.capacity - b.head
		}
		copy(p[copied:copied+run], b.data[b.head:b.head+run])
		b.head = (b.head + run) % b.capacity
		copied += run
	}
	b.size -= n
	return n
}

func (b *Buffer) isClosed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

// Len returns the number of buffered bytes.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.size
}

// Close marks the buffer closed. Subsequent sends are dropped and
// blocked receives drain whatever remains, then return 0.
func (b *Buffer) Close() {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()

	select {
	case b.notify <- struct{}{}:
	default:
	}
}
