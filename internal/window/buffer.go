// Package window provides the fixed-capacity temporal buffer of recent masks.
package window

// Size is the number of masks the pipeline accumulates before denoising.
const Size = 6

// Buffer is a FIFO ring of at most Cap items. Pushing onto a full buffer
// evicts the oldest item in O(1). It is not safe for concurrent use.
type Buffer[T any] struct {
	items   []T
	head    int // index of the oldest item
	n       int
	onEvict func(T)
}

// New creates a Buffer with the given capacity. onEvict, if non-nil, is
// called with every item that leaves the buffer, whether by overflow or Reset.
func New[T any](capacity int, onEvict func(T)) *Buffer[T] {
	if capacity <= 0 {
		capacity = 1
	}
	return &Buffer[T]{
		items:   make([]T, capacity),
		onEvict: onEvict,
	}
}

// Push appends v, evicting the oldest item if the buffer was already full.
func (b *Buffer[T]) Push(v T) {
	c := len(b.items)
	if b.n < c {
		b.items[(b.head+b.n)%c] = v
		b.n++
		return
	}

	old := b.items[b.head]
	b.items[b.head] = v
	b.head = (b.head + 1) % c
	if b.onEvict != nil {
		b.onEvict(old)
	}
}

// Len returns the number of items held.
func (b *Buffer[T]) Len() int {
	return b.n
}

// Cap returns the capacity.
func (b *Buffer[T]) Cap() int {
	return len(b.items)
}

// Full reports whether Len equals Cap.
func (b *Buffer[T]) Full() bool {
	return b.n == len(b.items)
}

// Items returns the held items oldest-first. The slice is a fresh copy; the
// items themselves are shared with the buffer.
func (b *Buffer[T]) Items() []T {
	out := make([]T, b.n)
	for i := 0; i < b.n; i++ {
		out[i] = b.items[(b.head+i)%len(b.items)]
	}
	return out
}

// Reset empties the buffer, passing every held item to onEvict.
func (b *Buffer[T]) Reset() {
	var zero T
	for i := 0; i < b.n; i++ {
		idx := (b.head + i) % len(b.items)
		if b.onEvict != nil {
			b.onEvict(b.items[idx])
		}
		b.items[idx] = zero
	}
	b.head = 0
	b.n = 0
}
