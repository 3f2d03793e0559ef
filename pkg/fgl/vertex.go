package fgl

import (
	"fmt"
	"sort"
)

// AttribBinding describes how buffer bytes feed one shader input slot.
type AttribBinding struct {
	Slot       uint32
	Components int32
	Type       ElementType
	Normalize  bool
	Stride     int32
	Offset     int
	// Divisor > 0 advances the attribute once every Divisor instances
	// instead of once per vertex.
	Divisor uint32
}

// Attrib starts a binding for slot with one component of T per vertex.
func Attrib[T Element](slot uint32) AttribBinding {
	return AttribBinding{
		Slot:       slot,
		Components: 1,
		Type:       ElementTypeOf[T](),
	}
}

func (a AttribBinding) WithComponents(n int32) AttribBinding {
	a.Components = n
	return a
}

func (a AttribBinding) WithDivisor(divisor uint32) AttribBinding {
	a.Divisor = divisor
	return a
}

func (a AttribBinding) WithStride(stride int32) AttribBinding {
	a.Stride = stride
	return a
}

func (a AttribBinding) WithOffset(offset int) AttribBinding {
	a.Offset = offset
	return a
}

func (a AttribBinding) Normalized() AttribBinding {
	a.Normalize = true
	return a
}

func (a AttribBinding) validate() error {
	if a.Components < 1 || a.Components > 4 {
		return fmt.Errorf("%w: slot %d has %d components", ErrInvalidBinding, a.Slot, a.Components)
	}
	if a.Stride < 0 || a.Offset < 0 {
		return fmt.Errorf("%w: slot %d has negative stride/offset", ErrInvalidBinding, a.Slot)
	}
	return nil
}

// VertexArray is a vertex array object with the bindings recorded against it.
type VertexArray struct {
	handle
	bindings map[uint32]boundAttrib
}

type boundAttrib struct {
	buffer  *VertexBuffer
	binding AttribBinding
}

func NewVertexArray(drv Driver) *VertexArray {
	return NewVertexArrays(drv, 1)[0]
}

// NewVertexArrays allocates n independently owned vertex arrays in one call.
func NewVertexArrays(drv Driver, n int) []*VertexArray {
	ids := genHandles(drv, KindVertexArray, n)
	out := make([]*VertexArray, n)
	for i, id := range ids {
		va := &VertexArray{bindings: make(map[uint32]boundAttrib)}
		va.init(drv, KindVertexArray, id)
		out[i] = va
	}
	return out
}

func (va *VertexArray) Bind() {
	va.drv.BindVertexArray(va.id)
}

func (va *VertexArray) Unbind() {
	va.drv.BindVertexArray(0)
}

// BindAttribute makes slot b.Slot source its data from buf. The slot keeps
// that source until it is bound again.
func (va *VertexArray) BindAttribute(buf *VertexBuffer, b AttribBinding) error {
	if err := va.checkLive(); err != nil {
		return err
	}
	if err := buf.checkLive(); err != nil {
		return err
	}
	if err := b.validate(); err != nil {
		return err
	}
	va.Bind()
	buf.Bind()
	va.drv.EnableVertexAttribArray(b.Slot)
	va.drv.VertexAttribPointer(b.Slot, b.Components, b.Type.Enum(), b.Normalize, b.Stride, b.Offset)
	va.drv.VertexAttribDivisor(b.Slot, b.Divisor)
	va.bindings[b.Slot] = boundAttrib{buffer: buf, binding: b}
	return nil
}

// Binding returns the binding recorded for slot.
func (va *VertexArray) Binding(slot uint32) (AttribBinding, bool) {
	bound, ok := va.bindings[slot]
	return bound.binding, ok
}

// Slots returns the bound slots in ascending order.
func (va *VertexArray) Slots() []uint32 {
	out := make([]uint32, 0, len(va.bindings))
	for slot := range va.bindings {
		out = append(out, slot)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Draw binds the vertex array and draws count vertices as triangles.
func (va *VertexArray) Draw(first, count int32) {
	va.Bind()
	va.drv.DrawArrays(Triangles, first, count)
}

// DrawInstanced binds the vertex array and draws count vertices instances times.
func (va *VertexArray) DrawInstanced(first, count, instances int32) {
	if instances <= 0 {
		return
	}
	va.Bind()
	va.drv.DrawArraysInstanced(Triangles, first, count, instances)
}
