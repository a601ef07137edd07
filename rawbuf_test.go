package vec

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pavanmanishd/vec/internal/alloctest"
)

func TestRawBufferGrowPreservesContents(t *testing.T) {
	tr := alloctest.NewTracker[int32]()
	b := NewRawBuffer(Options[int32]{Capacity: SmallCapacity, Allocator: tr})
	for i := range b.Cap() {
		b.write(i, int32(i*i))
	}

	b.Grow()
	b.Grow()
	require.Equal(t, 4*SmallCapacity, b.Cap())
	for i := range SmallCapacity {
		require.Equal(t, int32(i*i), b.slots[i])
	}
	require.Equal(t, 1, tr.Live())

	m := b.Metrics()
	require.Equal(t, 2, m.Grows)
	require.Equal(t, 16, m.Cap)
	require.Equal(t, 64, m.Bytes)
	require.Equal(t, 0, m.Len)

	b.Release()
	b.Release()
	require.Equal(t, 0, tr.Live())
	require.Zero(t, tr.Misuse())
	requirePanicsWith(t, ErrReleased, b.Grow)
}

func TestRawBufferZeroSized(t *testing.T) {
	tr := alloctest.NewTracker[struct{}]()
	v := NewWithOptions(Options[struct{}]{Allocator: tr})
	for range 100 {
		v.Push(struct{}{})
	}
	require.Equal(t, 100, v.Len())
	require.Equal(t, 128, v.Cap())
	require.Equal(t, uintptr(0), v.Metrics().ElemSize)
	require.Equal(t, 0, v.Metrics().Bytes)

	v.Insert(50, struct{}{})
	v.Remove(0)
	_, ok := v.Pop()
	require.True(t, ok)
	require.Equal(t, 99, v.Len())

	c := v.Cursor()
	require.Equal(t, 99, c.Len())
	_, _ = c.Next()
	_, _ = c.NextBack()
	require.Equal(t, 97, c.Len())

	it := v.IntoIter()
	n := 0
	for {
		if _, ok := it.NextBack(); !ok {
			break
		}
		n++
		if _, ok := it.Next(); !ok {
			break
		}
		n++
	}
	require.Equal(t, 99, n)
	it.Close()

	allocs, grows, releases := tr.Calls()
	require.Zero(t, allocs+grows+releases, "zero-sized elements must never reach the host")
	require.Zero(t, tr.Misuse())
}

func TestRawBufferCapacityOverflow(t *testing.T) {
	t.Run("create", func(t *testing.T) {
		tr := alloctest.NewTracker[int64]()
		requirePanicsWith(t, ErrCapacityOverflow, func() {
			NewRawBuffer(Options[int64]{Capacity: math.MaxInt/8 + 1, Allocator: tr})
		})
		allocs, _, _ := tr.Calls()
		require.Zero(t, allocs)
	})

	t.Run("grow", func(t *testing.T) {
		b := NewRawBuffer(Options[struct{}]{Capacity: math.MaxInt/2 + 1})
		requirePanicsWith(t, ErrCapacityOverflow, b.Grow)
		require.Equal(t, math.MaxInt/2+1, b.Cap())
	})
}

type shortHost struct{ HeapAllocator[int] }

func (shortHost) Allocate(n int) ([]int, error) {
	return make([]int, n-1), nil
}

func TestRawBufferRejectsShortBlock(t *testing.T) {
	requirePanicsWith(t, ErrAllocation, func() {
		NewRawBuffer(Options[int]{Allocator: shortHost{}})
	})
}

func TestRawBufferLogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	tr := alloctest.NewTracker[int]()
	v := NewWithOptions(Options[int]{
		Capacity:  2,
		Allocator: tr,
		Logger:    zap.New(core),
	})
	for i := range 3 {
		v.Push(i)
	}

	grown := logs.FilterMessage("buffer grown").All()
	require.Len(t, grown, 1)
	fields := grown[0].ContextMap()
	require.EqualValues(t, 2, fields["from"])
	require.EqualValues(t, 4, fields["to"])

	tr.FailAfter = 1
	v.Push(3)
	requirePanicsWith(t, ErrAllocation, func() { v.Push(4) })
	failed := logs.FilterLevelExact(zapcore.ErrorLevel).All()
	require.Len(t, failed, 1)
	require.Equal(t, "allocation failed", failed[0].Message)
	require.Equal(t, "grow", failed[0].ContextMap()["op"])

	it := v.IntoIter()
	it.Close()
	closed := logs.FilterMessage("iterator closed").All()
	require.Len(t, closed, 1)
	require.EqualValues(t, 4, closed[0].ContextMap()["dropped"])
	require.Equal(t, 1, logs.FilterMessage("buffer released").Len())
}
