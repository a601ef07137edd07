// Package arena implements a chunked bump allocator that can host the
// storage of vec buffers. Buffers carved from one arena are reclaimed
// together by Reset, which suits request-scoped work: build any number of
// vectors during the request, then reset the arena at its end.
package arena

import (
	"unsafe"

	"go.uber.org/zap"
)

// DefaultChunkSize is the default chunk size for new arenas (64 KiB).
const DefaultChunkSize = 1 << 16

const align = unsafe.Sizeof(uintptr(0))

// chunk is one contiguous region the arena bumps through.
type chunk struct {
	buf  []byte
	used uintptr // bytes handed out from the front of buf
}

// Arena is a chunked bump allocator. Not goroutine-safe; use SafeArena
// to share one between goroutines.
type Arena struct {
	chunks    []chunk
	chunkSize int
	cur       int // index of the chunk being filled
	freed     int // bytes given back that only Reset can reuse
	log       *zap.Logger
}

// Option configures an Arena.
type Option func(*Arena)

// WithLogger sets the logger that receives chunk events.
func WithLogger(l *zap.Logger) Option {
	return func(a *Arena) {
		if l != nil {
			a.log = l
		}
	}
}

// NewArena creates an Arena with the given chunk size.
// If chunkSize <= 0, DefaultChunkSize is used.
func NewArena(chunkSize int, opts ...Option) *Arena {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	a := &Arena{chunkSize: chunkSize, log: zap.NewNop()}
	for _, opt := range opts {
		opt(a)
	}
	a.addChunk(chunkSize)
	return a
}

// AllocBytes returns n bytes from the arena, aligned to the pointer size.
// The memory is zeroed on first use of a chunk but may hold earlier
// contents after Reset. Returns nil if n <= 0.
func (a *Arena) AllocBytes(n int) []byte {
	if n <= 0 {
		return nil
	}
	a.panicIfReleased()

	c := &a.chunks[a.cur]
	off := alignUp(c.used)
	if off+uintptr(n) > uintptr(len(c.buf)) {
		c = a.nextChunk(n)
		off = 0
	}
	c.used = off + uintptr(n)
	return c.buf[off:c.used:c.used]
}

// Extend tries to grow b, which must be the most recent allocation, to
// newSize bytes without moving it. It reports false if b is not the most
// recent allocation or the current chunk lacks room.
func (a *Arena) Extend(b []byte, newSize int) ([]byte, bool) {
	a.panicIfReleased()
	c := &a.chunks[a.cur]
	off, ok := offsetIn(c, b)
	if !ok || off+uintptr(len(b)) != c.used || off+uintptr(newSize) > uintptr(len(c.buf)) {
		return nil, false
	}
	c.used = off + uintptr(newSize)
	return c.buf[off:c.used:c.used], true
}

// Free gives b back. Only the most recent allocation is reclaimed at
// once; anything else is counted and reclaimed by Reset.
func (a *Arena) Free(b []byte) {
	if len(b) == 0 || a.chunks == nil {
		return
	}
	c := &a.chunks[a.cur]
	if off, ok := offsetIn(c, b); ok && off+uintptr(len(b)) == c.used {
		c.used = off
		return
	}
	a.freed += len(b)
}

// EnsureCapacity makes sure the next allocation of up to n bytes fits in
// the current chunk.
func (a *Arena) EnsureCapacity(n int) {
	a.panicIfReleased()
	c := &a.chunks[a.cur]
	if alignUp(c.used)+uintptr(n) > uintptr(len(c.buf)) {
		a.nextChunk(n)
	}
}

// Reset makes every chunk empty again but keeps them for reuse. Anything
// allocated before Reset must no longer be used.
func (a *Arena) Reset() {
	a.panicIfReleased()
	for i := range a.chunks {
		a.chunks[i].used = 0
	}
	a.cur = 0
	a.freed = 0
	a.log.Debug("arena reset", zap.Int("chunks", len(a.chunks)))
}

// Release drops all chunks and makes the arena unusable.
// Any subsequent allocation panics.
func (a *Arena) Release() {
	a.chunks = nil
	a.cur = 0
	a.freed = 0
}

// nextChunk moves to the first later chunk with room for n bytes, adding
// one if none has it.
func (a *Arena) nextChunk(n int) *chunk {
	for i := a.cur + 1; i < len(a.chunks); i++ {
		if a.chunks[i].used == 0 && len(a.chunks[i].buf) >= n {
			a.cur = i
			return &a.chunks[i]
		}
	}
	a.addChunk(n)
	return &a.chunks[a.cur]
}

// addChunk appends a chunk of at least min bytes and makes it current.
func (a *Arena) addChunk(min int) {
	size := a.chunkSize
	if min > size {
		size = min
	}
	a.chunks = append(a.chunks, chunk{buf: make([]byte, size)})
	a.cur = len(a.chunks) - 1
	a.log.Debug("arena chunk added", zap.Int("size", size), zap.Int("chunks", len(a.chunks)))
}

func (a *Arena) panicIfReleased() {
	if a.chunks == nil {
		panic(ErrReleased)
	}
}

// offsetIn returns the offset of b within c, if b starts inside c.
func offsetIn(c *chunk, b []byte) (uintptr, bool) {
	if len(b) == 0 || len(c.buf) == 0 {
		return 0, false
	}
	base := uintptr(unsafe.Pointer(unsafe.SliceData(c.buf)))
	p := uintptr(unsafe.Pointer(unsafe.SliceData(b)))
	if p < base || p >= base+uintptr(len(c.buf)) {
		return 0, false
	}
	return p - base, true
}

// alignUp rounds off up to the pointer size.
func alignUp(off uintptr) uintptr {
	mask := align - 1
	return (off + mask) & ^mask
}
