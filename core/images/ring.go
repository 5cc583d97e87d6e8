package images

import "sync"

// DefaultRingCapacity tolerates the worst-case producer/consumer rate
// mismatch for one tick.
const DefaultRingCapacity = 128

// Ring is a fixed-capacity queue of sequence-stamped images with exactly
// one background producer and one tick-driven consumer.
//
// Enqueue never blocks and never overwrites: a full buffer rejects the
// item and the caller treats the rejection as backpressure. The consumer
// is the only side that removes items, so it always observes a consistent
// oldest-to-newest view during its own turn.
//
// Index publication is guarded by a mutex rather than bare atomics; the
// consumer contract does not assume memory-ordered index publication.
type Ring struct {
	mu    sync.Mutex
	buf   []*Image
	head  int
	count int

	drops uint64
}

// NewRing creates a ring with the given capacity, falling back to
// [DefaultRingCapacity] when capacity is not positive.
func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		capacity = DefaultRingCapacity
	}
	return &Ring{buf: make([]*Image, capacity)}
}

// Enqueue appends an image, returning false without blocking when the
// buffer is full.
func (r *Ring) Enqueue(image *Image) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.count == len(r.buf) {
		r.drops++
		return false
	}

	r.buf[(r.head+r.count)%len(r.buf)] = image
	r.count++
	return true
}

// TryPeek returns the oldest unconsumed image without removing it.
func (r *Ring) TryPeek() (*Image, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.count == 0 {
		return nil, false
	}
	return r.buf[r.head], true
}

// TryDequeue removes the oldest image, returning false when empty.
func (r *Ring) TryDequeue() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.count == 0 {
		return false
	}

	r.buf[r.head] = nil
	r.head = (r.head + 1) % len(r.buf)
	r.count--
	return true
}

// Drain removes all buffered images and returns how many were discarded.
func (r *Ring) Drain() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	discarded := r.count
	for i := range r.buf {
		r.buf[i] = nil
	}
	r.head = 0
	r.count = 0
	return discarded
}

// Len returns the current occupied count.
func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Cap returns the fixed capacity.
func (r *Ring) Cap() int {
	return len(r.buf)
}

// Drops returns the lifetime count of rejected enqueues.
func (r *Ring) Drops() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.drops
}
