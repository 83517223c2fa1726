// Package fifo provides a lock-free single-producer single-consumer queue
// for moving samples from a loader goroutine to the audio goroutine.
package fifo

import (
	"math/bits"
	"sync/atomic"
)

// minCapacity is the smallest ring size.
const minCapacity = 2

// Fifo is a bounded lock-free single-producer single-consumer queue.
// Capacity is a power of two so positions wrap with a mask.
//
// Exactly one goroutine may call the producer methods (Push, Write,
// WritePos) and exactly one may call the consumer methods (Pop, Next, Read,
// Discard, Clear, SkipTo, ReadPos). Len, Space and Cap are safe from either.
type Fifo[T any] struct {
	buf  []T
	mask uint64

	head atomic.Uint64 // total items written, owned by producer
	tail atomic.Uint64 // total items read, owned by consumer
}

// New creates a queue holding at least capacity items, rounded up to a
// power of two.
func New[T any](capacity int) *Fifo[T] {
	size := roundPow2(capacity)
	return &Fifo[T]{
		buf:  make([]T, size),
		mask: uint64(size - 1),
	}
}

func roundPow2(n int) int {
	if n <= minCapacity {
		return minCapacity
	}
	return 1 << bits.Len(uint(n-1))
}

// Cap returns the fixed capacity.
func (f *Fifo[T]) Cap() int {
	return len(f.buf)
}

// Len returns the number of items ready to read.
func (f *Fifo[T]) Len() int {
	return int(f.head.Load() - f.tail.Load())
}

// Space returns the number of items that can be written.
func (f *Fifo[T]) Space() int {
	return len(f.buf) - f.Len()
}

// Push appends one item, reporting false if the queue is full.
func (f *Fifo[T]) Push(v T) bool {
	head := f.head.Load()
	if head-f.tail.Load() >= uint64(len(f.buf)) {
		return false
	}
	f.buf[head&f.mask] = v
	f.head.Store(head + 1)
	return true
}

// Write appends as many items from src as fit and returns how many.
func (f *Fifo[T]) Write(src []T) int {
	head := f.head.Load()
	free := uint64(len(f.buf)) - (head - f.tail.Load())
	n := min(uint64(len(src)), free)

	start := head & f.mask
	first := min(n, uint64(len(f.buf))-start)
	copy(f.buf[start:start+first], src[:first])
	copy(f.buf[:n-first], src[first:n])

	f.head.Store(head + n)
	return int(n)
}

// WritePos returns the total number of items ever written.
func (f *Fifo[T]) WritePos() uint64 {
	return f.head.Load()
}

// Pop removes the oldest item, reporting false if the queue is empty.
func (f *Fifo[T]) Pop() (T, bool) {
	tail := f.tail.Load()
	if tail == f.head.Load() {
		var zero T
		return zero, false
	}
	v := f.buf[tail&f.mask]
	f.tail.Store(tail + 1)
	return v, true
}

// Next is Pop under the name expected by sample sources.
func (f *Fifo[T]) Next() (T, bool) {
	return f.Pop()
}

// Read removes up to len(dst) items into dst and returns how many.
func (f *Fifo[T]) Read(dst []T) int {
	tail := f.tail.Load()
	n := min(uint64(len(dst)), f.head.Load()-tail)

	start := tail & f.mask
	first := min(n, uint64(len(f.buf))-start)
	copy(dst[:first], f.buf[start:start+first])
	copy(dst[first:n], f.buf[:n-first])

	f.tail.Store(tail + n)
	return int(n)
}

// Discard drops up to n items and returns how many were dropped.
func (f *Fifo[T]) Discard(n int) int {
	tail := f.tail.Load()
	k := min(uint64(max(n, 0)), f.head.Load()-tail)
	f.tail.Store(tail + k)
	return int(k)
}

// Clear drops everything written so far.
func (f *Fifo[T]) Clear() {
	f.tail.Store(f.head.Load())
}

// ReadPos returns the total number of items ever consumed.
func (f *Fifo[T]) ReadPos() uint64 {
	return f.tail.Load()
}

// SkipTo advances the read position to pos. It fails if pos is behind the
// current read position or beyond what has been written.
func (f *Fifo[T]) SkipTo(pos uint64) bool {
	if pos < f.tail.Load() || pos > f.head.Load() {
		return false
	}
	f.tail.Store(pos)
	return true
}
