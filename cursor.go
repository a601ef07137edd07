package vec

import "iter"

// Cursor is a double-ended, non-owning traversal over a range of live slots
// in someone else's buffer.
//
// Each step yields one slot and narrows [start, end) from the front (Next)
// or the back (NextBack). The two directions may be interleaved freely; no
// slot is ever yielded twice. Positions are slot indexes rather than
// addresses, which keeps the bookkeeping identical for zero-sized element
// types.
//
// A Cursor must not outlive, or be used across a structural change of,
// the Vec or IntoIter it came from. Doing so panics with ErrStaleCursor.
type Cursor[T any] struct {
	buf        *RawBuffer[T]
	epoch      uint64
	start, end int
	take       bool // move values out instead of copying them
}

func newCursor[T any](b *RawBuffer[T], start, end int, take bool) *Cursor[T] {
	return &Cursor[T]{
		buf:   b,
		epoch: b.epoch,
		start: start,
		end:   end,
		take:  take,
	}
}

// Next yields the first remaining element. The second result is false once
// the range is exhausted.
func (c *Cursor[T]) Next() (T, bool) {
	c.panicIfStale()
	if c.start == c.end {
		var zero T
		return zero, false
	}
	i := c.start
	c.start++
	return c.yield(i), true
}

// NextBack yields the last remaining element. The second result is false
// once the range is exhausted.
func (c *Cursor[T]) NextBack() (T, bool) {
	c.panicIfStale()
	if c.start == c.end {
		var zero T
		return zero, false
	}
	c.end--
	return c.yield(c.end), true
}

// Len returns the number of elements not yet yielded.
func (c *Cursor[T]) Len() int {
	return c.end - c.start
}

// All returns an iterator that drains the cursor front to back.
func (c *Cursor[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			x, ok := c.Next()
			if !ok || !yield(x) {
				return
			}
		}
	}
}

func (c *Cursor[T]) yield(i int) T {
	if c.take {
		return c.buf.take(i)
	}
	return c.buf.slots[i]
}

func (c *Cursor[T]) panicIfStale() {
	if c.buf != nil && c.buf.epoch != c.epoch {
		panic(ErrStaleCursor)
	}
}
