package instrument_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/pavanmanishd/vec"
	"github.com/pavanmanishd/vec/instrument"
	"github.com/pavanmanishd/vec/internal/alloctest"
)

func TestInstrumentedVec(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	m, err := instrument.NewMetrics("heap", reg)
	require.NoError(t, err)

	host := instrument.Wrap[int64](vec.HeapAllocator[int64]{}, m)
	v := vec.NewWithOptions(vec.Options[int64]{Capacity: vec.SmallCapacity, Allocator: host})
	for i := range 20 {
		v.Push(int64(i))
	}

	live, err := testutil.GatherAndCount(reg, "vec_allocator_live_bytes")
	require.NoError(t, err)
	require.Equal(t, 1, live)

	families, err := reg.Gather()
	require.NoError(t, err)
	values := map[string]float64{}
	for _, f := range families {
		for _, metric := range f.GetMetric() {
			name := f.GetName()
			for _, l := range metric.GetLabel() {
				if l.GetName() == "op" {
					name += "/" + l.GetValue()
				}
			}
			switch {
			case metric.GetCounter() != nil:
				values[name] = metric.GetCounter().GetValue()
			case metric.GetGauge() != nil:
				values[name] = metric.GetGauge().GetValue()
			}
		}
	}
	require.Equal(t, 1.0, values["vec_allocator_calls_total/allocate"])
	require.Equal(t, 3.0, values["vec_allocator_calls_total/grow"]) // 4 -> 8 -> 16 -> 32
	require.Equal(t, 32.0*8, values["vec_allocator_live_bytes"])
	require.Equal(t, 1.0, values["vec_allocator_live_blocks"])

	v.Release()
	families, err = reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		switch f.GetName() {
		case "vec_allocator_live_bytes", "vec_allocator_live_blocks":
			require.Zero(t, f.GetMetric()[0].GetGauge().GetValue(), f.GetName())
		}
	}
}

func TestInstrumentedFailures(t *testing.T) {
	m, err := instrument.NewMetrics("tracker", nil)
	require.NoError(t, err)

	tr := alloctest.NewTracker[int32]()
	tr.FailAfter = 1
	host := instrument.Wrap[int32](tr, m)

	block, err := host.Allocate(4)
	require.NoError(t, err)
	_, err = host.Grow(block, 4, 8)
	require.ErrorIs(t, err, alloctest.ErrInjected)
	require.NoError(t, host.Release(block))
	require.Error(t, host.Release(block))
	require.Equal(t, 1, tr.Misuse())
}

func TestDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := instrument.NewMetrics("heap", reg)
	require.NoError(t, err)
	_, err = instrument.NewMetrics("heap", reg)
	require.Error(t, err)
}
