package queue

// Storage is a fixed-capacity circular array of slots.
//
// The producer writes only the slot its position counter addresses and
// the consumer reads only the slot its own counter addresses. Nothing
// here enforces that: the full/empty protocol of the owning queue keeps
// the two addresses apart except at true empty.
type Storage[T any] struct {
	slots []T
	mask  uint64
}

// NewStorage creates a Storage with size slots. Size must be a power of 2.
func NewStorage[T any](size int) *Storage[T] {
	return &Storage[T]{
		slots: make([]T, size),
		mask:  uint64(size) - 1,
	}
}

// Write stores v at the slot addressed by the low bits of pos.
func (s *Storage[T]) Write(pos uint64, v T) {
	s.slots[pos&s.mask] = v
}

// Read returns the value at the slot addressed by the low bits of pos.
func (s *Storage[T]) Read(pos uint64) T {
	return s.slots[pos&s.mask]
}

// Len returns the number of slots.
func (s *Storage[T]) Len() int {
	return len(s.slots)
}
