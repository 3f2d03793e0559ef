package fgl

import (
	"unsafe"
)

type AccessFrequency uint8

const (
	Static AccessFrequency = iota
	Stream
	Dynamic
)

type AccessType uint8

const (
	Draw AccessType = iota
	Read
	Copy
)

// Usage maps a frequency/access pair to the GL usage hint.
func Usage(freq AccessFrequency, typ AccessType) uint32 {
	var base uint32
	switch freq {
	case Stream:
		base = StreamDraw
	case Dynamic:
		base = DynamicDraw
	default:
		base = StaticDraw
	}
	return base + uint32(typ)
}

// VertexBuffer is an ARRAY_BUFFER object plus the byte size of its store.
type VertexBuffer struct {
	handle
	size int
}

// NewVertexBuffer allocates one buffer object with no storage.
func NewVertexBuffer(drv Driver) *VertexBuffer {
	return NewVertexBuffers(drv, 1)[0]
}

// NewVertexBuffers allocates n independently owned buffers in one driver call.
func NewVertexBuffers(drv Driver, n int) []*VertexBuffer {
	ids := genHandles(drv, KindBuffer, n)
	out := make([]*VertexBuffer, n)
	for i, id := range ids {
		b := &VertexBuffer{}
		b.init(drv, KindBuffer, id)
		out[i] = b
	}
	return out
}

// Size returns the allocated store size in bytes.
func (b *VertexBuffer) Size() int {
	return b.size
}

func (b *VertexBuffer) Bind() {
	b.drv.BindBuffer(ArrayBuffer, b.id)
}

func (b *VertexBuffer) Unbind() {
	b.drv.BindBuffer(ArrayBuffer, 0)
}

// Alloc (re)allocates size bytes of uninitialised storage.
func (b *VertexBuffer) Alloc(size int, freq AccessFrequency, typ AccessType) error {
	if err := b.checkLive(); err != nil {
		return err
	}
	if size < 0 {
		return outOfRange("negative buffer size %d", size)
	}
	b.Bind()
	b.drv.BufferData(ArrayBuffer, size, nil, Usage(freq, typ))
	b.size = size
	return nil
}

// AllocWith (re)allocates the buffer store and fills it with data.
func AllocWith[T Element](b *VertexBuffer, data []T, freq AccessFrequency, typ AccessType) error {
	if err := b.checkLive(); err != nil {
		return err
	}
	raw := asBytes(data)
	b.Bind()
	b.drv.BufferData(ArrayBuffer, len(raw), raw, Usage(freq, typ))
	b.size = len(raw)
	return nil
}

// ReplaceSubData overwrites elements starting at element index offset. Writes
// past the allocated store are rejected before touching the driver.
func ReplaceSubData[T Element](b *VertexBuffer, offset int, data []T) error {
	if err := b.checkLive(); err != nil {
		return err
	}
	var zero T
	elem := int(unsafe.Sizeof(zero))
	start := offset * elem
	end := start + len(data)*elem
	if offset < 0 || end > b.size {
		return outOfRange("buffer write [%d,%d) exceeds %d bytes", start, end, b.size)
	}
	if len(data) == 0 {
		return nil
	}
	b.Bind()
	b.drv.BufferSubData(ArrayBuffer, start, asBytes(data))
	return nil
}
