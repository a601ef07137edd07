// Package offheap hosts vec buffers in memory obtained directly from the
// operating system, outside the Go heap. Large pointer-free arrays kept
// here add nothing to the garbage collector's work.
package offheap

import (
	"math"
	"reflect"
	"unsafe"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"modernc.org/memory"

	"github.com/pavanmanishd/vec/internal/layout"
)

var (
	// ErrPointers is returned for element types the collector must scan.
	ErrPointers = errors.New("offheap: element type contains pointers")
	// ErrTooLarge is returned when a block's byte size overflows an int.
	ErrTooLarge = errors.New("offheap: block too large")
	// ErrClosed is returned by every call after Close.
	ErrClosed = errors.New("offheap: allocator closed")
)

// Allocator hands out blocks of T backed by modernc.org/memory. It is not
// safe for concurrent use; give each goroutine its own.
type Allocator[T any] struct {
	mem    memory.Allocator
	size   uintptr
	log    *zap.Logger
	live   int
	closed bool
}

// New returns an allocator for T. It fails if T contains pointers.
// A nil logger disables logging.
func New[T any](log *zap.Logger) (*Allocator[T], error) {
	if !layout.PointerFree[T]() {
		return nil, errors.Wrapf(ErrPointers, "%v", reflect.TypeFor[T]())
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Allocator[T]{size: layout.Sizeof[T](), log: log}, nil
}

// Allocate returns a zeroed block of n elements.
func (a *Allocator[T]) Allocate(n int) ([]T, error) {
	nbytes, err := a.bytes(n)
	if err != nil {
		return nil, err
	}
	b, err := a.mem.Calloc(nbytes)
	if err != nil {
		return nil, errors.Wrapf(err, "offheap: calloc %d bytes", nbytes)
	}
	a.live++
	return asElems[T](b, n), nil
}

// Grow resizes block to newN elements. The first oldN elements are kept
// and the rest are zeroed. The block may move.
func (a *Allocator[T]) Grow(block []T, oldN, newN int) ([]T, error) {
	nbytes, err := a.bytes(newN)
	if err != nil {
		return nil, err
	}
	old := asBytes(block)
	b, err := a.mem.Realloc(old, nbytes)
	if err != nil {
		return nil, errors.Wrapf(err, "offheap: realloc %d to %d bytes", len(old), nbytes)
	}
	b = b[:nbytes]
	clear(b[oldN*int(a.size):])
	return asElems[T](b, newN), nil
}

// Release returns block to the operating system's pool.
func (a *Allocator[T]) Release(block []T) error {
	if a.closed {
		return errors.WithStack(ErrClosed)
	}
	if err := a.mem.Free(asBytes(block)); err != nil {
		return errors.Wrap(err, "offheap: free")
	}
	a.live--
	return nil
}

// Live returns the number of blocks handed out and not yet released.
func (a *Allocator[T]) Live() int {
	return a.live
}

// Close unmaps everything the allocator holds, including blocks still in
// use. Vecs backed by it must not be touched afterwards.
func (a *Allocator[T]) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	if a.live > 0 {
		a.log.Warn("offheap allocator closed with live blocks", zap.Int("live", a.live))
	}
	return errors.Wrap(a.mem.Close(), "offheap: close")
}

func (a *Allocator[T]) bytes(n int) (int, error) {
	if a.closed {
		return 0, errors.WithStack(ErrClosed)
	}
	if n <= 0 {
		return 0, errors.Errorf("offheap: invalid element count %d", n)
	}
	if a.size == 0 {
		return 0, errors.New("offheap: zero-sized elements need no storage")
	}
	if uintptr(n) > uintptr(math.MaxInt)/a.size {
		return 0, errors.Wrapf(ErrTooLarge, "%d elements of %d bytes", n, a.size)
	}
	return n * int(a.size), nil
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
