// Package instrument wraps an allocation host with Prometheus metrics.
package instrument

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pavanmanishd/vec"
	"github.com/pavanmanishd/vec/internal/layout"
)

// Metrics are the collectors shared by every Allocator registered under
// the same name.
type Metrics struct {
	calls     *prometheus.CounterVec
	failures  *prometheus.CounterVec
	liveBytes prometheus.Gauge
	blocks    prometheus.Gauge
}

// NewMetrics creates the collectors for one host and registers them with
// reg. A nil reg leaves them unregistered.
func NewMetrics(host string, reg prometheus.Registerer) (*Metrics, error) {
	labels := prometheus.Labels{"host": host}
	m := &Metrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "vec",
			Name:        "allocator_calls_total",
			Help:        "Allocator calls by operation.",
			ConstLabels: labels,
		}, []string{"op"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "vec",
			Name:        "allocator_failures_total",
			Help:        "Allocator calls that returned an error, by operation.",
			ConstLabels: labels,
		}, []string{"op"}),
		liveBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "vec",
			Name:        "allocator_live_bytes",
			Help:        "Bytes in blocks handed out and not yet released.",
			ConstLabels: labels,
		}),
		blocks: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "vec",
			Name:        "allocator_live_blocks",
			Help:        "Blocks handed out and not yet released.",
			ConstLabels: labels,
		}),
	}
	if reg != nil {
		for _, c := range []prometheus.Collector{m.calls, m.failures, m.liveBytes, m.blocks} {
			if err := reg.Register(c); err != nil {
				return nil, errors.Wrapf(err, "instrument: register %s metrics", host)
			}
		}
	}
	return m, nil
}

// Allocator forwards to another host and records every call.
type Allocator[T any] struct {
	next vec.Allocator[T]
	m    *Metrics
	size float64
}

// Wrap returns next instrumented with m.
func Wrap[T any](next vec.Allocator[T], m *Metrics) *Allocator[T] {
	return &Allocator[T]{next: next, m: m, size: float64(layout.Sizeof[T]())}
}

// Allocate forwards to the wrapped host.
func (a *Allocator[T]) Allocate(n int) ([]T, error) {
	a.m.calls.WithLabelValues("allocate").Inc()
	block, err := a.next.Allocate(n)
	if err != nil {
		a.m.failures.WithLabelValues("allocate").Inc()
		return nil, err
	}
	a.m.blocks.Inc()
	a.m.liveBytes.Add(float64(n) * a.size)
	return block, nil
}

// Grow forwards to the wrapped host.
func (a *Allocator[T]) Grow(block []T, oldN, newN int) ([]T, error) {
	a.m.calls.WithLabelValues("grow").Inc()
	next, err := a.next.Grow(block, oldN, newN)
	if err != nil {
		a.m.failures.WithLabelValues("grow").Inc()
		return nil, err
	}
	a.m.liveBytes.Add(float64(newN-oldN) * a.size)
	return next, nil
}

// Release forwards to the wrapped host.
func (a *Allocator[T]) Release(block []T) error {
	a.m.calls.WithLabelValues("release").Inc()
	if err := a.next.Release(block); err != nil {
		a.m.failures.WithLabelValues("release").Inc()
		return err
	}
	a.m.blocks.Dec()
	a.m.liveBytes.Sub(float64(len(block)) * a.size)
	return nil
}
