// Package fgl owns OpenGL objects on behalf of the hex renderer.
//
// Every wrapper (VertexBuffer, VertexArray, Texture2D, RenderBuffer,
// FrameBuffer, Shader, Program) holds exactly one driver object name and
// deletes it exactly once on Release. Wrappers are always used by pointer;
// sharing one object between owners goes through Retain, never through a
// copy of the name.
package fgl

import (
	"fmt"
)

type Kind uint8

const (
	KindBuffer Kind = iota
	KindVertexArray
	KindTexture
	KindRenderBuffer
	KindFrameBuffer
	KindShader
	KindProgram
)

func (k Kind) String() string {
	switch k {
	case KindBuffer:
		return "buffer"
	case KindVertexArray:
		return "vertex array"
	case KindTexture:
		return "texture"
	case KindRenderBuffer:
		return "renderbuffer"
	case KindFrameBuffer:
		return "framebuffer"
	case KindShader:
		return "shader"
	case KindProgram:
		return "program"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// noCopy makes `go vet` (copylocks) flag value copies of the owning struct.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

type handle struct {
	_    noCopy
	drv  Driver
	kind Kind
	id   uint32
	refs int32
}

func (h *handle) init(drv Driver, kind Kind, id uint32) {
	h.drv = drv
	h.kind = kind
	h.id = id
	h.refs = 1
}

// ID returns the driver object name, 0 once released.
func (h *handle) ID() uint32 {
	return h.id
}

// Kind returns the object kind.
func (h *handle) Kind() Kind {
	return h.kind
}

// Live reports whether the handle still owns its driver object.
func (h *handle) Live() bool {
	return h.id != 0
}

// Retain registers one more owner. Each Retain must be paired with a Release.
func (h *handle) Retain() {
	if h.id == 0 {
		panic(fmt.Errorf("%w: retain of %s", ErrReleased, h.kind))
	}
	h.refs++
}

// Release drops one owner and deletes the driver object when the last owner
// lets go. Releasing an already released handle is a no-op.
func (h *handle) Release() {
	if h.id == 0 {
		return
	}
	h.refs--
	if h.refs > 0 {
		return
	}
	deleteObject(h.drv, h.kind, h.id)
	Logger().Debug("fgl: released", "kind", h.kind.String(), "id", h.id)
	h.id = 0
	h.refs = 0
}

func (h *handle) checkLive() error {
	if h.id == 0 {
		return fmt.Errorf("%w: %s", ErrReleased, h.kind)
	}
	return nil
}

// genHandles allocates n objects of one kind with a single driver call.
func genHandles(drv Driver, kind Kind, n int) []uint32 {
	if n <= 0 {
		return nil
	}
	var ids []uint32
	switch kind {
	case KindBuffer:
		ids = drv.GenBuffers(n)
	case KindVertexArray:
		ids = drv.GenVertexArrays(n)
	case KindTexture:
		ids = drv.GenTextures(n)
	case KindRenderBuffer:
		ids = drv.GenRenderbuffers(n)
	case KindFrameBuffer:
		ids = drv.GenFramebuffers(n)
	default:
		panic(fmt.Sprintf("fgl: %s cannot be batch allocated", kind))
	}
	if len(ids) != n {
		allocationFailed(kind, n)
	}
	for _, id := range ids {
		if id == 0 {
			allocationFailed(kind, n)
		}
	}
	Logger().Debug("fgl: allocated", "kind", kind.String(), "count", n)
	return ids
}

func allocationFailed(kind Kind, n int) {
	Logger().Error("fgl: allocation failed", "kind", kind.String(), "count", n)
	panic(fmt.Errorf("%w: %d %s object(s)", ErrAllocation, n, kind))
}

func deleteObject(drv Driver, kind Kind, id uint32) {
	switch kind {
	case KindBuffer:
		drv.DeleteBuffers(id)
	case KindVertexArray:
		drv.DeleteVertexArrays(id)
	case KindTexture:
		drv.DeleteTextures(id)
	case KindRenderBuffer:
		drv.DeleteRenderbuffers(id)
	case KindFrameBuffer:
		drv.DeleteFramebuffers(id)
	case KindShader:
		drv.DeleteShader(id)
	case KindProgram:
		drv.DeleteProgram(id)
	}
}
