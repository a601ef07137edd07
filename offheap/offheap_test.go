package offheap_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pavanmanishd/vec"
	"github.com/pavanmanishd/vec/offheap"
)

type sample struct {
	ts    int64
	value float64
}

var _ vec.Allocator[sample] = (*offheap.Allocator[sample])(nil)

func TestNewRejectsPointers(t *testing.T) {
	_, err := offheap.New[string](nil)
	require.ErrorIs(t, err, offheap.ErrPointers)

	_, err = offheap.New[[]int](nil)
	require.ErrorIs(t, err, offheap.ErrPointers)

	a, err := offheap.New[sample](nil)
	require.NoError(t, err)
	require.NoError(t, a.Close())
}

func TestVecOffHeap(t *testing.T) {
	a, err := offheap.New[sample](nil)
	require.NoError(t, err)
	defer func() { require.NoError(t, a.Close()) }()

	v := vec.NewWithOptions(vec.Options[sample]{Capacity: vec.SmallCapacity, Allocator: a})
	for i := range 1000 {
		v.Push(sample{ts: int64(i), value: float64(i) / 2})
	}
	require.Equal(t, 1024, v.Cap())
	require.Equal(t, 1, a.Live())

	v.Insert(0, sample{ts: -1})
	require.Equal(t, sample{ts: -1}, v.Remove(0))
	for i, s := range v.All() {
		require.Equal(t, int64(i), s.ts)
		require.Equal(t, float64(i)/2, s.value)
	}

	it := v.IntoIter()
	first, _ := it.Next()
	last, _ := it.NextBack()
	require.Equal(t, int64(0), first.ts)
	require.Equal(t, int64(999), last.ts)
	it.Close()
	require.Equal(t, 0, a.Live())
}

func TestGrowZeroesTail(t *testing.T) {
	a, err := offheap.New[int64](nil)
	require.NoError(t, err)
	defer a.Close()

	block, err := a.Allocate(2)
	require.NoError(t, err)
	block[0], block[1] = 7, 8

	grown, err := a.Grow(block, 2, 64)
	require.NoError(t, err)
	require.Len(t, grown, 64)
	require.Equal(t, []int64{7, 8}, grown[:2])
	require.Equal(t, make([]int64, 62), grown[2:])

	require.NoError(t, a.Release(grown))
	require.Equal(t, 0, a.Live())

	_, err = a.Allocate(0)
	require.Error(t, err)
}

func TestCloseWithLiveBlocks(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	a, err := offheap.New[int32](zap.New(core))
	require.NoError(t, err)

	_, err = a.Allocate(16)
	require.NoError(t, err)
	require.NoError(t, a.Close())
	require.Equal(t, 1, logs.Len())

	_, err = a.Allocate(1)
	require.ErrorIs(t, err, offheap.ErrClosed)
	require.NoError(t, a.Close())
}
