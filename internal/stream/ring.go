// Package stream assembles fixed-size interleaved frames from audio arriving
// in chunks of arbitrary size.
package stream

import (
	"sync"

	"github.com/tphakala/go-audio-resonator/internal/simdops"
)

// RingBuffer is a growable circular buffer of samples.
// It is safe for one writer and one reader in different goroutines.
type RingBuffer[F simdops.Float] struct {
	data     []F
	capacity int
	size     int
	readPos  int
	writePos int
	mu       sync.Mutex
}

// NewRingBuffer creates a ring buffer with the given initial capacity.
func NewRingBuffer[F simdops.Float](capacity int) *RingBuffer[F] {
	if capacity < 1 {
		capacity = 1
	}

	return &RingBuffer[F]{
		data:     make([]F, capacity),
		capacity: capacity,
	}
}

// Write appends samples, growing the buffer when needed.
func (b *RingBuffer[F]) Write(samples []F) {
	b.mu.Lock()
	defer b.mu.Unlock()

	needed := len(samples)
	if needed == 0 {
		return
	}
	if b.size+needed > b.capacity {
		b.grow(b.size + needed)
	}

	// Copy in at most two runs
	n := copy(b.data[b.writePos:], samples)
	copy(b.data, samples[n:])
	b.writePos = (b.writePos + needed) % b.capacity
	b.size += needed
}

// ReadInto moves up to len(dst) samples into dst and returns the count.
func (b *RingBuffer[F]) ReadInto(dst []F) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := min(len(dst), b.size)
	if n == 0 {
		return 0
	}

	first := copy(dst[:n], b.data[b.readPos:])
	copy(dst[first:n], b.data)
	b.readPos = (b.readPos + n) % b.capacity
	b.size -= n
	return n
}

// Available returns the number of samples available for reading.
func (b *RingBuffer[F]) Available() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.size
}

// Capacity returns the current buffer capacity.
func (b *RingBuffer[F]) Capacity() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.capacity
}

// Clear removes all samples from the buffer.
func (b *RingBuffer[F]) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.size = 0
	b.readPos = 0
	b.writePos = 0
}

// grow increases the capacity to at least minCapacity, keeping sample order.
func (b *RingBuffer[F]) grow(minCapacity int) {
	newCapacity := b.capacity
	for newCapacity < minCapacity {
		newCapacity *= bufferGrowthFactor
	}

	newData := make([]F, newCapacity)
	if b.size > 0 {
		n := copy(newData, b.data[b.readPos:min(b.readPos+b.size, b.capacity)])
		copy(newData[n:b.size], b.data)
	}

	b.data = newData
	b.capacity = newCapacity
	b.readPos = 0
	b.writePos = b.size
}
