package vec

import (
	"iter"

	"go.uber.org/zap"
)

// IntoIter is a consuming iterator. It owns the storage of the Vec it was
// created from and yields each element by value, from either end.
//
// Close must be called once the iterator is no longer needed: it destroys
// every element that was not yielded and then releases the buffer. The
// All and Backward adapters close the iterator themselves.
type IntoIter[T any] struct {
	buf    *RawBuffer[T]
	cur    *Cursor[T]
	drop   func(T)
	closed bool
}

// Next yields the first remaining element and transfers it to the caller.
func (it *IntoIter[T]) Next() (T, bool) {
	it.panicIfClosed()
	return it.cur.Next()
}

// NextBack yields the last remaining element and transfers it to the
// caller.
func (it *IntoIter[T]) NextBack() (T, bool) {
	it.panicIfClosed()
	return it.cur.NextBack()
}

// Len returns the number of elements not yet yielded.
func (it *IntoIter[T]) Len() int {
	if it.closed {
		return 0
	}
	return it.cur.Len()
}

// Close destroys the elements that were never yielded, front to back, and
// releases the buffer. The buffer is released even if a destructor panics.
// Calling Close more than once is a no-op.
func (it *IntoIter[T]) Close() {
	if it.closed {
		return
	}
	it.closed = true
	defer it.buf.Release()

	dropped := 0
	c := it.cur
	for c.start < c.end {
		i := c.start
		c.start++
		x := it.buf.take(i)
		dropped++
		if it.drop != nil {
			it.drop(x)
		}
	}
	it.buf.log.Debug("iterator closed", zap.Int("dropped", dropped))
}

// All returns an iterator that drains the remaining elements front to back
// and closes it when the loop ends, however it ends.
func (it *IntoIter[T]) All() iter.Seq[T] {
	return it.drain(it.Next)
}

// Backward is like All but drains back to front.
func (it *IntoIter[T]) Backward() iter.Seq[T] {
	return it.drain(it.NextBack)
}

func (it *IntoIter[T]) drain(step func() (T, bool)) iter.Seq[T] {
	return func(yield func(T) bool) {
		defer it.Close()
		for {
			x, ok := step()
			if !ok || !yield(x) {
				return
			}
		}
	}
}

func (it *IntoIter[T]) panicIfClosed() {
	if it.closed {
		panic(ErrReleased)
	}
}
