package vec

import (
	"math"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/pavanmanishd/vec/internal/layout"
)

// RawBuffer owns a single block of storage for a fixed number of elements
// and knows how to double it. It does not track which slots hold live
// values; that is the job of its owner.
//
// A RawBuffer for a zero-sized element type never calls its Allocator. It
// still reports and doubles its capacity, so counts stay meaningful.
type RawBuffer[T any] struct {
	slots    []T
	capacity int
	elemSize uintptr
	alloc    Allocator[T]
	log      *zap.Logger

	grows    int
	epoch    uint64 // bumped on every structural change
	released bool
}

// NewRawBuffer allocates a buffer with the starting capacity from opts.
// It panics with ErrAllocation if the host cannot supply the block.
func NewRawBuffer[T any](opts Options[T]) *RawBuffer[T] {
	return newRawBuffer(opts.withDefaults())
}

func newRawBuffer[T any](o Options[T]) *RawBuffer[T] {
	b := &RawBuffer[T]{
		capacity: o.Capacity,
		elemSize: layout.Sizeof[T](),
		alloc:    o.Allocator,
		log:      o.Logger,
	}
	if b.capacity > maxCapacity(b.elemSize) {
		panic(errors.Wrapf(ErrCapacityOverflow, "create: cap %d, elem size %d", b.capacity, b.elemSize))
	}

	if b.elemSize == 0 {
		// No memory backs zero-sized slots, so make never allocates here.
		b.slots = make([]T, b.capacity)
	} else {
		slots, err := b.alloc.Allocate(b.capacity)
		if err != nil {
			b.fail("allocate", err)
		}
		b.slots = b.checkBlock("allocate", slots, b.capacity)
	}

	b.log.Debug("buffer created",
		zap.Int("cap", b.capacity),
		zap.Uintptr("elem_size", b.elemSize))
	return b
}

// Cap returns the number of elements the buffer can hold.
func (b *RawBuffer[T]) Cap() int {
	return b.capacity
}

// ElemSize returns the size of one element in bytes.
func (b *RawBuffer[T]) ElemSize() uintptr {
	return b.elemSize
}

// Grow doubles the capacity, preserving the contents of every existing
// slot. It panics with ErrCapacityOverflow if the doubled size cannot be
// represented and with ErrAllocation if the host fails.
func (b *RawBuffer[T]) Grow() {
	b.panicIfReleased()

	if b.capacity > maxCapacity(b.elemSize)/2 {
		panic(errors.Wrapf(ErrCapacityOverflow, "grow: cap %d, elem size %d", b.capacity, b.elemSize))
	}
	newCap := 2 * b.capacity

	if b.elemSize == 0 {
		b.slots = make([]T, newCap)
	} else {
		next, err := b.alloc.Grow(b.slots, b.capacity, newCap)
		if err != nil {
			b.fail("grow", err)
		}
		b.slots = b.checkBlock("grow", next, newCap)
	}

	b.log.Debug("buffer grown",
		zap.Int("from", b.capacity),
		zap.Int("to", newCap),
		zap.Uintptr("elem_size", b.elemSize))

	b.capacity = newCap
	b.grows++
	b.epoch++
}

// Release hands the block back to the host. It is safe to call more than
// once; only the first call reaches the host. Slot contents are not
// destroyed: the owner must have done that already.
func (b *RawBuffer[T]) Release() {
	if b.released {
		return
	}
	b.released = true
	b.epoch++

	slots := b.slots
	b.slots = nil
	if b.elemSize != 0 {
		if err := b.alloc.Release(slots); err != nil {
			b.fail("release", err)
		}
	}
	b.log.Debug("buffer released", zap.Int("cap", b.capacity))
}

// write stores v into slot i, which must not hold a live value.
func (b *RawBuffer[T]) write(i int, v T) {
	b.slots[i] = v
}

// take moves the value out of slot i and leaves the slot zeroed.
func (b *RawBuffer[T]) take(i int) T {
	v := b.slots[i]
	var zero T
	b.slots[i] = zero
	return v
}

func (b *RawBuffer[T]) checkBlock(op string, block []T, n int) []T {
	if len(block) != n {
		b.fail(op, errors.Errorf("host returned %d slots, want %d", len(block), n))
	}
	return block
}

func (b *RawBuffer[T]) fail(op string, err error) {
	b.log.Error("allocation failed",
		zap.String("op", op),
		zap.Int("cap", b.capacity),
		zap.Uintptr("elem_size", b.elemSize),
		zap.Error(err))
	panic(errors.Wrapf(ErrAllocation, "%s: %v", op, err))
}

func (b *RawBuffer[T]) panicIfReleased() {
	if b.released {
		panic(ErrReleased)
	}
}

// maxCapacity is the largest element count whose byte size fits in an int.
func maxCapacity(elemSize uintptr) int {
	if elemSize == 0 {
		return math.MaxInt
	}
	return int(uintptr(math.MaxInt) / elemSize)
}
