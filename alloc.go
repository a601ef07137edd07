package vec

// Allocator is the host capability a RawBuffer obtains its storage from.
//
// Counts are in elements. A host must return a block of exactly n slots
// from Allocate, a block of newN slots holding the first oldN slots of the
// old block from Grow, and must accept every block it handed out exactly once
// in Release. The returned block from Grow may or may not share storage with
// the old block; the old block must not be used afterwards.
//
// Hosts are interchangeable: the Go heap (HeapAllocator), a bump arena
// (package arena), memory outside the Go heap (package offheap), or a test
// double.
type Allocator[T any] interface {
	Allocate(n int) ([]T, error)
	Grow(block []T, oldN, newN int) ([]T, error)
	Release(block []T) error
}

// HeapAllocator allocates blocks on the Go heap. It is the default host.
type HeapAllocator[T any] struct{}

// Allocate returns a zeroed block of n elements.
func (HeapAllocator[T]) Allocate(n int) ([]T, error) {
	return make([]T, n), nil
}

// Grow allocates a fresh block of newN elements and copies the first oldN
// elements of block into it.
func (HeapAllocator[T]) Grow(block []T, oldN, newN int) ([]T, error) {
	next := make([]T, newN)
	copy(next, block[:oldN])
	clear(block)
	return next, nil
}

// Release clears the block so the collector does not retain anything the
// stale slots still reference.
func (HeapAllocator[T]) Release(block []T) error {
	clear(block)
	return nil
}
