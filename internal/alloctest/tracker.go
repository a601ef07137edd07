// Package alloctest provides an Allocator test double that verifies every
// block is released exactly once.
package alloctest

import (
	"sync"
	"unsafe"

	"github.com/pkg/errors"
)

var (
	ErrInjected     = errors.New("alloctest: injected failure")
	ErrUnknownBlock = errors.New("alloctest: release of unknown or already released block")
	ErrShortBlock   = errors.New("alloctest: grow from a block smaller than oldN")
	ErrEmptyRequest = errors.New("alloctest: zero-length request")
)

// Tracker hands out heap blocks and records what happens to them.
type Tracker[T any] struct {
	mu   sync.Mutex
	live map[*T]int

	// FailAfter makes every Allocate or Grow after the first FailAfter
	// successful ones fail with ErrInjected. Zero disables injection.
	FailAfter int

	allocs, grows, releases, bad int
	bytes                        int
}

// NewTracker returns an empty Tracker.
func NewTracker[T any]() *Tracker[T] {
	return &Tracker[T]{live: make(map[*T]int)}
}

func (t *Tracker[T]) Allocate(n int) ([]T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.admit(n); err != nil {
		return nil, err
	}
	block := make([]T, n)
	t.live[unsafe.SliceData(block)] = n
	t.allocs++
	t.bytes += n * int(unsafe.Sizeof(*new(T)))
	return block, nil
}

func (t *Tracker[T]) Grow(block []T, oldN, newN int) ([]T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.admit(newN); err != nil {
		return nil, err
	}
	if len(block) < oldN {
		t.bad++
		return nil, ErrShortBlock
	}
	p := unsafe.SliceData(block)
	if _, ok := t.live[p]; !ok {
		t.bad++
		return nil, ErrUnknownBlock
	}
	next := make([]T, newN)
	copy(next, block[:oldN])
	delete(t.live, p)
	t.live[unsafe.SliceData(next)] = newN
	t.grows++
	t.bytes += (newN - oldN) * int(unsafe.Sizeof(*new(T)))
	return next, nil
}

func (t *Tracker[T]) Release(block []T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	p := unsafe.SliceData(block)
	n, ok := t.live[p]
	if !ok || len(block) != n {
		t.bad++
		return ErrUnknownBlock
	}
	delete(t.live, p)
	t.releases++
	t.bytes -= n * int(unsafe.Sizeof(*new(T)))
	return nil
}

// admit must be called with mu held.
func (t *Tracker[T]) admit(n int) error {
	if n <= 0 {
		t.bad++
		return ErrEmptyRequest
	}
	if t.FailAfter > 0 && t.allocs+t.grows >= t.FailAfter {
		return ErrInjected
	}
	return nil
}

// Live returns the number of blocks handed out and not yet released.
func (t *Tracker[T]) Live() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.live)
}

// LiveBytes returns the bytes held by live blocks.
func (t *Tracker[T]) LiveBytes() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.bytes
}

// Calls returns the number of successful Allocate, Grow and Release calls.
func (t *Tracker[T]) Calls() (allocs, grows, releases int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.allocs, t.grows, t.releases
}

// Misuse returns the number of calls that violated the host contract.
func (t *Tracker[T]) Misuse() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.bad
}

// Drops counts destructor calls per value.
type Drops[K comparable] struct {
	mu     sync.Mutex
	counts map[K]int
}

// NewDrops returns an empty Drops.
func NewDrops[K comparable]() *Drops[K] {
	return &Drops[K]{counts: make(map[K]int)}
}

// Drop records one destruction of k.
func (d *Drops[K]) Drop(k K) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.counts[k]++
}

// Count returns how many times k was destroyed.
func (d *Drops[K]) Count(k K) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.counts[k]
}

// Total returns the number of destructions recorded.
func (d *Drops[K]) Total() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	total := 0
	for _, n := range d.counts {
		total += n
	}
	return total
}
