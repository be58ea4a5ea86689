// Package shmring is a single-producer, single-consumer byte ring. Indices
// are monotonic and published with atomics, so the producer and the consumer
// may run on different goroutines without a lock.
package shmring

import "sync/atomic"

type Ring struct {
	buf  []byte
	mask uint32
	rd   atomic.Uint32 // consumer index (monotonic)
	wr   atomic.Uint32 // producer index (monotonic)

	readable chan struct{} // empty -> non-empty edge
	writable chan struct{} // full -> non-full edge
}

// New allocates a ring; size must be a power of two >= 2.
func New(size int) *Ring {
	if size < 2 || (size&(size-1)) != 0 {
		panic("shmring: size must be power of two >= 2")
	}
	return &Ring{
		buf:      make([]byte, size),
		mask:     uint32(size - 1),
		readable: make(chan struct{}, 1),
		writable: make(chan struct{}, 1),
	}
}

func (r *Ring) size() uint32 { return uint32(len(r.buf)) }

// Space is the number of bytes the producer can write now.
func (r *Ring) Space() int {
	return int(r.size() - (r.wr.Load() - r.rd.Load()))
}

// Available is the number of bytes the consumer can read now.
func (r *Ring) Available() int {
	return int(r.wr.Load() - r.rd.Load())
}

// WriteFrom copies as much of src as fits and returns the count. Producer only.
func (r *Ring) WriteFrom(src []byte) int {
	if len(src) == 0 {
		return 0
	}
	rd := r.rd.Load()
	wr := r.wr.Load()
	before := wr - rd
	n := int(r.size() - before)
	if n <= 0 {
		return 0
	}
	if len(src) < n {
		n = len(src)
	}

	idx := wr & r.mask
	first := int(r.size() - idx)
	if first > n {
		first = n
	}
	copy(r.buf[idx:idx+uint32(first)], src[:first])
	if rest := n - first; rest > 0 {
		copy(r.buf[:rest], src[first:n])
	}
	r.wr.Store(wr + uint32(n))

	if before == 0 {
		signal(r.readable)
	}
	return n
}

// ReadInto copies up to len(dst) buffered bytes and returns the count.
// Consumer only.
func (r *Ring) ReadInto(dst []byte) int {
	if len(dst) == 0 {
		return 0
	}
	rd := r.rd.Load()
	wr := r.wr.Load()
	avail := int(wr - rd)
	if avail <= 0 {
		return 0
	}
	n := avail
	if len(dst) < n {
		n = len(dst)
	}

	idx := rd & r.mask
	first := int(r.size() - idx)
	if first > n {
		first = n
	}
	copy(dst[:first], r.buf[idx:idx+uint32(first)])
	if rest := n - first; rest > 0 {
		copy(dst[first:n], r.buf[:rest])
	}
	r.rd.Store(rd + uint32(n))

	if avail == int(r.size()) {
		signal(r.writable)
	}
	return n
}

// Readable fires (coalesced) when the ring goes from empty to non-empty.
func (r *Ring) Readable() <-chan struct{} { return r.readable }

// Writable fires (coalesced) when the ring goes from full to non-full.
func (r *Ring) Writable() <-chan struct{} { return r.writable }

func signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
