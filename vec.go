package vec

import "iter"

type state uint8

const (
	live state = iota
	moved
	released
)

// Vec is a growable contiguous array of T backed by a RawBuffer.
//
// Slots [0, Len()) hold live values; slots beyond that are zeroed and never
// exposed. A Vec has a single owner and is not safe for concurrent use.
// The zero value is an empty Vec that creates its buffer with the default
// options on first write.
type Vec[T any] struct {
	buf   *RawBuffer[T]
	len   int
	drop  func(T)
	state state
}

// New returns an empty Vec with DefaultCapacity slots pre-allocated on the
// Go heap.
func New[T any]() *Vec[T] {
	return NewWithOptions(Options[T]{})
}

// NewWithOptions returns an empty Vec configured by opts.
func NewWithOptions[T any](opts Options[T]) *Vec[T] {
	o := opts.withDefaults()
	return &Vec[T]{buf: newRawBuffer(o), drop: o.Drop}
}

// Of returns a Vec holding values in order.
func Of[T any](values ...T) *Vec[T] {
	v := New[T]()
	for _, x := range values {
		v.Push(x)
	}
	return v
}

// Repeat returns a Vec holding n copies of value.
func Repeat[T any](value T, n int) *Vec[T] {
	v := New[T]()
	for i := 0; i < n; i++ {
		v.Push(value)
	}
	return v
}

// Len returns the number of live elements.
func (v *Vec[T]) Len() int {
	return v.len
}

// IsEmpty reports whether the Vec holds no elements.
func (v *Vec[T]) IsEmpty() bool {
	return v.len == 0
}

// Cap returns the number of elements the Vec can hold before growing.
func (v *Vec[T]) Cap() int {
	if v.buf == nil {
		return 0
	}
	return v.buf.capacity
}

// Push appends value, doubling the buffer first if it is full.
func (v *Vec[T]) Push(value T) {
	b := v.ensure()
	if v.len == b.capacity {
		b.Grow()
	}
	b.write(v.len, value)
	v.len++
	b.epoch++
}

// Pop removes the last element and returns it. The second result is false
// if the Vec is empty.
func (v *Vec[T]) Pop() (T, bool) {
	v.panicIfUnusable()
	if v.len == 0 {
		var zero T
		return zero, false
	}
	v.len--
	v.buf.epoch++
	return v.buf.take(v.len), true
}

// Insert places value at index, shifting the elements at [index, Len()) one
// slot to the right. It panics with ErrIndexOutOfRange unless
// 0 <= index <= Len().
func (v *Vec[T]) Insert(index int, value T) {
	v.panicIfUnusable()
	if index < 0 || index > v.len {
		panicIndex("insert", index, v.len)
	}
	b := v.ensure()
	if v.len == b.capacity {
		b.Grow()
	}
	s := b.slots
	// copy has memmove semantics, so the overlapping shift is safe.
	copy(s[index+1:v.len+1], s[index:v.len])
	b.write(index, value)
	v.len++
	b.epoch++
}

// Remove takes the element at index out of the Vec and returns it, shifting
// the elements after it one slot to the left. It panics with
// ErrIndexOutOfRange unless 0 <= index < Len().
func (v *Vec[T]) Remove(index int) T {
	v.panicIfUnusable()
	if index < 0 || index >= v.len {
		panicIndex("remove", index, v.len)
	}
	b := v.buf
	s := b.slots
	value := s[index]
	copy(s[index:v.len-1], s[index+1:v.len])
	v.len--
	b.take(v.len)
	b.epoch++
	return value
}

// Append moves every element of other onto the end of v in order, leaving
// other empty but usable. Ownership of each element passes to v.
func (v *Vec[T]) Append(other *Vec[T]) {
	if v == other {
		panic(ErrSelfAppend)
	}
	v.panicIfUnusable()
	other.panicIfUnusable()
	n := other.len
	if n == 0 {
		return
	}

	b := v.ensure()
	for b.capacity-v.len < n {
		b.Grow()
	}
	src := other.buf.slots[:n]
	copy(b.slots[v.len:v.len+n], src)
	clear(src)
	other.len = 0
	other.buf.epoch++

	v.len += n
	b.epoch++
}

// At returns the element at index.
func (v *Vec[T]) At(index int) T {
	v.panicIfUnusable()
	if index < 0 || index >= v.len {
		panicIndex("at", index, v.len)
	}
	return v.buf.slots[index]
}

// Set replaces the element at index, destroying the previous value.
func (v *Vec[T]) Set(index int, value T) {
	v.panicIfUnusable()
	if index < 0 || index >= v.len {
		panicIndex("set", index, v.len)
	}
	old := v.buf.slots[index]
	v.buf.slots[index] = value
	if v.drop != nil {
		v.drop(old)
	}
}

// Slice returns the live elements as a slice sharing the Vec's storage.
// Elements may be read and written through it, but the view is only valid
// until the next structural change to the Vec. Its capacity equals its
// length, so appending to it never touches the Vec's spare slots.
func (v *Vec[T]) Slice() []T {
	v.panicIfUnusable()
	if v.buf == nil {
		return nil
	}
	return v.buf.slots[:v.len:v.len]
}

// Clear destroys every element, last to first, and keeps the capacity.
func (v *Vec[T]) Clear() {
	v.panicIfUnusable()
	if v.buf == nil {
		return
	}
	v.buf.epoch++
	v.dropAll()
}

// Release destroys every element, last to first, and hands the buffer back
// to its host. The buffer is released even if a destructor panics. Release
// on an already released Vec, or on one converted by IntoIter, does
// nothing; any other use afterwards panics with ErrReleased.
func (v *Vec[T]) Release() {
	if v.state != live {
		return
	}
	v.state = released
	if v.buf == nil {
		return
	}
	b := v.buf
	defer func() {
		v.buf = nil
		v.len = 0
		b.Release()
	}()
	v.dropAll()
}

// IntoIter converts v into a consuming iterator that owns its storage.
// v is unusable afterwards.
func (v *Vec[T]) IntoIter() *IntoIter[T] {
	b := v.ensure()
	b.epoch++
	it := &IntoIter[T]{
		buf:  b,
		cur:  newCursor(b, 0, v.len, true),
		drop: v.drop,
	}
	v.buf = nil
	v.len = 0
	v.state = moved
	return it
}

// Cursor returns a borrowing cursor over the live elements. The Vec must
// not be structurally changed while the cursor is in use; a cursor that
// observes such a change panics with ErrStaleCursor.
func (v *Vec[T]) Cursor() *Cursor[T] {
	v.panicIfUnusable()
	if v.buf == nil {
		return &Cursor[T]{}
	}
	return newCursor(v.buf, 0, v.len, false)
}

// All returns an iterator over index-value pairs, front to back.
func (v *Vec[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		c := v.Cursor()
		for {
			i := c.start
			x, ok := c.Next()
			if !ok || !yield(i, x) {
				return
			}
		}
	}
}

// Backward returns an iterator over index-value pairs, back to front.
func (v *Vec[T]) Backward() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		c := v.Cursor()
		for {
			x, ok := c.NextBack()
			if !ok || !yield(c.end, x) {
				return
			}
		}
	}
}

// Values returns an iterator over the elements, front to back.
func (v *Vec[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, x := range v.All() {
			if !yield(x) {
				return
			}
		}
	}
}

// dropAll empties the Vec from the back. Each slot is vacated before its
// destructor runs, so a panicking destructor never sees a value twice.
func (v *Vec[T]) dropAll() {
	for v.len > 0 {
		v.len--
		x := v.buf.take(v.len)
		if v.drop != nil {
			v.drop(x)
		}
	}
}

// ensure returns the buffer, creating it with default options for a zero
// Vec.
func (v *Vec[T]) ensure() *RawBuffer[T] {
	v.panicIfUnusable()
	if v.buf == nil {
		o := Options[T]{}.withDefaults()
		v.buf = newRawBuffer(o)
		v.drop = o.Drop
	}
	return v.buf
}

func (v *Vec[T]) panicIfUnusable() {
	switch v.state {
	case moved:
		panic(ErrMoved)
	case released:
		panic(ErrReleased)
	}
}
