package arena

import (
	"fmt"
	"math"
	"reflect"
	"unsafe"

	"github.com/pkg/errors"

	"github.com/pavanmanishd/vec/internal/layout"
)

var (
	// ErrReleased is returned, or raised, after Release.
	ErrReleased = errors.New("arena: use after Release()")
	// ErrTooLarge is returned when a block's byte size overflows an int.
	ErrTooLarge = errors.New("arena: block too large")
)

// Allocator hosts vec buffers of T inside an Arena. Blocks are zeroed when
// handed out. Release returns the most recent block to the arena at once;
// other blocks are reclaimed by Arena.Reset.
//
// The arena's chunks are not scanned by the garbage collector, so T must
// not contain pointers.
type Allocator[T any] struct {
	a    *Arena
	size uintptr
}

// NewAllocator returns a host for T backed by a. It panics if T contains
// pointers.
func NewAllocator[T any](a *Arena) *Allocator[T] {
	mustStore[T]()
	return &Allocator[T]{a: a, size: layout.Sizeof[T]()}
}

// Allocate returns a zeroed block of n elements.
func (h *Allocator[T]) Allocate(n int) ([]T, error) {
	if h.a.chunks == nil {
		return nil, errors.WithStack(ErrReleased)
	}
	nbytes, err := h.bytes(n)
	if err != nil {
		return nil, err
	}
	b := h.a.AllocBytes(nbytes)
	clear(b)
	return asElems[T](b, n), nil
}

// Grow extends block in place when it is the most recent allocation and
// the chunk has room; otherwise it copies into a fresh block and gives the
// old one back.
func (h *Allocator[T]) Grow(block []T, oldN, newN int) ([]T, error) {
	if h.a.chunks == nil {
		return nil, errors.WithStack(ErrReleased)
	}
	nbytes, err := h.bytes(newN)
	if err != nil {
		return nil, err
	}
	old := asBytes(block)
	if b, ok := h.a.Extend(old, nbytes); ok {
		clear(b[len(old):])
		return asElems[T](b, newN), nil
	}

	b := h.a.AllocBytes(nbytes)
	clear(b)
	next := asElems[T](b, newN)
	copy(next, block[:oldN])
	h.a.Free(old)
	return next, nil
}

// Release gives block back to the arena.
func (h *Allocator[T]) Release(block []T) error {
	if h.a.chunks == nil {
		// Release already reclaimed everything.
		return nil
	}
	h.a.Free(asBytes(block))
	return nil
}

func (h *Allocator[T]) bytes(n int) (int, error) {
	if n <= 0 {
		return 0, errors.Errorf("arena: invalid element count %d", n)
	}
	if h.size == 0 {
		return 0, errors.New("arena: zero-sized elements need no storage")
	}
	if uintptr(n) > uintptr(math.MaxInt)/h.size {
		return 0, errors.Wrapf(ErrTooLarge, "%d elements of %d bytes", n, h.size)
	}
	return n * int(h.size), nil
}

func mustStore[T any]() {
	if !layout.PointerFree[T]() {
		panic(fmt.Sprintf("arena: element type %v contains pointers", reflect.TypeFor[T]()))
	}
}

func asElems[T any](b []byte, n int) []T {
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(b))), n)
}

func asBytes[T any](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s))), len(s)*int(unsafe.Sizeof(s[0])))
}
