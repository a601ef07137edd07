package vec

// Metrics is a snapshot of a buffer's occupancy.
type Metrics struct {
	Len         int     // Live elements (0 for a bare RawBuffer)
	Cap         int     // Element slots reserved
	ElemSize    uintptr // Bytes per element
	Bytes       int     // Cap * ElemSize
	Grows       int     // Number of doublings so far
	Utilization float64 // Len / Cap (0.0-1.0)
}

// Metrics returns a snapshot of the buffer. Len is always 0 because a
// RawBuffer does not know which slots are live.
func (b *RawBuffer[T]) Metrics() Metrics {
	return b.metrics(0)
}

func (b *RawBuffer[T]) metrics(n int) Metrics {
	m := Metrics{
		Len:      n,
		ElemSize: b.elemSize,
		Grows:    b.grows,
	}
	if b.released {
		return m
	}
	m.Cap = b.capacity
	m.Bytes = b.capacity * int(b.elemSize)
	if m.Cap > 0 {
		m.Utilization = float64(n) / float64(m.Cap)
	}
	return m
}

// Metrics returns a snapshot of the Vec's occupancy. A released or moved
// Vec reports zeros.
func (v *Vec[T]) Metrics() Metrics {
	if v.buf == nil {
		return Metrics{}
	}
	return v.buf.metrics(v.len)
}
