package arena

import (
	"sync"

	"github.com/pkg/errors"
)

// SafeArena is a mutex-protected Arena. Each Vec is still owned by one
// goroutine; SafeArena lets several of them draw from the same chunks.
type SafeArena struct {
	mu sync.Mutex
	a  *Arena
}

// NewSafeArena creates a thread-safe arena with the given chunk size.
// If chunkSize <= 0, DefaultChunkSize is used.
func NewSafeArena(chunkSize int, opts ...Option) *SafeArena {
	return &SafeArena{a: NewArena(chunkSize, opts...)}
}

// AllocBytes thread-safely allocates n bytes.
// Returns nil if n <= 0.
func (s *SafeArena) AllocBytes(n int) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.AllocBytes(n)
}

// Free thread-safely gives b back.
func (s *SafeArena) Free(b []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.a.Free(b)
}

// EnsureCapacity thread-safely makes room for an allocation of n bytes.
func (s *SafeArena) EnsureCapacity(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.a.EnsureCapacity(n)
}

// Reset thread-safely empties every chunk for reuse.
func (s *SafeArena) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.a.Reset()
}

// Release thread-safely drops all chunks and makes the arena unusable.
func (s *SafeArena) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.a.Release()
}

// SafeAllocator hosts vec buffers of T inside a SafeArena.
type SafeAllocator[T any] struct {
	s *SafeArena
	h *Allocator[T]
}

// NewSafeAllocator returns a host for T backed by s. It panics if T
// contains pointers.
func NewSafeAllocator[T any](s *SafeArena) *SafeAllocator[T] {
	return &SafeAllocator[T]{s: s, h: NewAllocator[T](s.a)}
}

// Allocate thread-safely returns a zeroed block of n elements.
func (h *SafeAllocator[T]) Allocate(n int) ([]T, error) {
	h.s.mu.Lock()
	defer h.s.mu.Unlock()
	return h.h.Allocate(n)
}

// Grow thread-safely extends or replaces block.
func (h *SafeAllocator[T]) Grow(block []T, oldN, newN int) ([]T, error) {
	h.s.mu.Lock()
	defer h.s.mu.Unlock()
	b, err := h.h.Grow(block, oldN, newN)
	return b, errors.WithMessage(err, "safe arena")
}

// Release thread-safely gives block back.
func (h *SafeAllocator[T]) Release(block []T) error {
	h.s.mu.Lock()
	defer h.s.mu.Unlock()
	return h.h.Release(block)
}
