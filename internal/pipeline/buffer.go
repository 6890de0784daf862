package pipeline

import "sync"

// growAt is the occupancy fraction (percent) that triggers a capacity
// doubling. Growing before the ring fills keeps Send non-blocking.
const growAt = 70

// Buffer is a thread-safe ring buffer connecting the season loader to the
// batch writer. It doubles its capacity when occupancy crosses growAt, so
// producers never block on a slow consumer.
type Buffer[T any] struct {
	mu     sync.Mutex
	cond   *sync.Cond
	ring   []T
	read   int
	write  int
	n      int
	closed bool

	stats BufferStats
}

// BufferStats are cumulative buffer counters.
type BufferStats struct {
	Count    int   // items currently queued
	Capacity int   // current ring size
	In       int64 // total items accepted by Send
	Out      int64 // total items handed to receivers
	Grows    int   // capacity doublings
}

// NewBuffer creates a buffer with the given initial capacity.
func NewBuffer[T any](initialCapacity int) *Buffer[T] {
	if initialCapacity < 1 {
		initialCapacity = 1
	}
	b := &Buffer[T]{ring: make([]T, initialCapacity)}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// Send queues an item, growing the ring when occupancy crosses the
// threshold. Returns false once the buffer is closed.
func (b *Buffer[T]) Send(item T) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return false
	}

	threshold := len(b.ring) * growAt / 100
	if threshold < 1 {
		threshold = 1
	}
	if b.n+1 >= threshold {
		b.grow()
	}

	b.ring[b.write] = item
	b.write = (b.write + 1) % len(b.ring)
	b.n++
	b.stats.In++

	b.cond.Signal()
	return true
}

// Receive blocks until an item is available or the buffer is closed and
// empty. The second return value is false only in the closed-and-empty case.
func (b *Buffer[T]) Receive() (T, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for b.n == 0 && !b.closed {
		b.cond.Wait()
	}
	if b.n == 0 {
		var zero T
		return zero, false
	}
	return b.take(), true
}

// TryReceive returns an item without blocking, or false if none is queued.
func (b *Buffer[T]) TryReceive() (T, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.n == 0 {
		var zero T
		return zero, false
	}
	return b.take(), true
}

// DrainTo removes up to max queued items (all of them if max <= 0). The
// writer uses this to collect a final batch at shutdown.
func (b *Buffer[T]) DrainTo(max int) []T {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := b.n
	if max > 0 && max < n {
		n = max
	}
	if n == 0 {
		return nil
	}

	out := make([]T, n)
	for i := range out {
		out[i] = b.take()
	}
	return out
}

// take removes the item at the read position. Caller holds the lock.
func (b *Buffer[T]) take() T {
	item := b.ring[b.read]
	var zero T
	b.ring[b.read] = zero
	b.read = (b.read + 1) % len(b.ring)
	b.n--
	b.stats.Out++
	return item
}

// grow doubles the ring, unwrapping queued items to the front. Caller holds
// the lock.
func (b *Buffer[T]) grow() {
	next := make([]T, len(b.ring)*2)
	if b.n > 0 {
		if b.read < b.write {
			copy(next, b.ring[b.read:b.write])
		} else {
			k := copy(next, b.ring[b.read:])
			copy(next[k:], b.ring[:b.write])
		}
	}
	b.ring = next
	b.read = 0
	b.write = b.n
	b.stats.Grows++
}

// Close stops accepting new items. Receivers drain what remains, then get
// the closed signal.
func (b *Buffer[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.cond.Broadcast()
}

// Closed reports whether Close has been called.
func (b *Buffer[T]) Closed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

// Len returns the number of queued items.
func (b *Buffer[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.n
}

// Cap returns the current ring size.
func (b *Buffer[T]) Cap() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.ring)
}

// Stats returns a snapshot of the buffer counters.
func (b *Buffer[T]) Stats() BufferStats {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := b.stats
	s.Count = b.n
	s.Capacity = len(b.ring)
	return s
}
