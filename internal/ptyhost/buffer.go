package ptyhost

import "sync"

// Buffer is a thread-safe circular buffer holding the most recent output.
type Buffer struct {
	data []byte
	size int
	head int
	tail int
	full bool
	mu   sync.RWMutex
}

// NewBuffer creates a circular buffer of size bytes.
func NewBuffer(size int) *Buffer {
	if size <= 0 {
		size = 1
	}
	return &Buffer{
		data: make([]byte, size),
		size: size,
	}
}

// Write appends p, overwriting the oldest bytes once the buffer is full.
func (b *Buffer) Write(p []byte) (n int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, c := range p {
		b.data[b.tail] = c
		b.tail = (b.tail + 1) % b.size
		if b.full {
			b.head = b.tail
		} else if b.tail == b.head {
			b.full = true
		}
	}
	return len(p), nil
}

// Len reports the number of buffered bytes.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lenLocked()
}

func (b *Buffer) lenLocked() int {
	switch {
	case b.full:
		return b.size
	case b.tail >= b.head:
		return b.tail - b.head
	default:
		return b.size - b.head + b.tail
	}
}

// Snapshot copies the buffered bytes without consuming them.
func (b *Buffer) Snapshot() []byte {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.copyLocked()
}

// ReadAll returns the buffered bytes and empties the buffer.
func (b *Buffer) ReadAll() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := b.copyLocked()
	b.head = b.tail
	b.full = false
	return out
}

func (b *Buffer) copyLocked() []byte {
	n := b.lenLocked()
	out := make([]byte, n)
	if n == 0 {
		return out
	}
	if b.head < b.tail {
		copy(out, b.data[b.head:b.tail])
		return out
	}
	// wrapped
	first := copy(out, b.data[b.head:])
	copy(out[first:], b.data[:b.tail])
	return out
}
