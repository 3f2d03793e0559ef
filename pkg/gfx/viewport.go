package gfx

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	MinScale     float32 = 0.05
	ZoomStep     float32 = 0.05
	DefaultScale float32 = 0.5
)

// Viewport is a pan/zoom camera over world space. Screen coordinates are
// surface pixels with the origin at the bottom-left. A world point w lands on
// screen at scale*(w+pan).
type Viewport struct {
	mu      sync.RWMutex
	width   int
	height  int
	pan     mgl32.Vec2
	scale   float32
	version uint64
}

func NewViewport(width, height int) *Viewport {
	return &Viewport{width: width, height: height, scale: DefaultScale}
}

func (v *Viewport) Size() (int, int) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.width, v.height
}

func (v *Viewport) Scale() float32 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.scale
}

func (v *Viewport) Pan() mgl32.Vec2 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.pan
}

// Version increases on every change that affects Projection.
func (v *Viewport) Version() uint64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.version
}

func (v *Viewport) Resize(width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if width == v.width && height == v.height {
		return
	}
	v.width, v.height = width, height
	v.version++
}

func (v *Viewport) SetPan(pan mgl32.Vec2) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if pan == v.pan {
		return
	}
	v.pan = pan
	v.version++
}

// SetScale clamps scale to MinScale.
func (v *Viewport) SetScale(scale float32) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.setScaleLocked(max(scale, MinScale))
}

func (v *Viewport) setScaleLocked(scale float32) {
	if scale == v.scale {
		return
	}
	v.scale = scale
	v.version++
}

// Move pans by a screen-space distance in pixels.
func (v *Viewport) Move(dx, dy float32) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if dx == 0 && dy == 0 {
		return
	}
	v.pan = v.pan.Add(mgl32.Vec2{dx, dy}.Mul(1 / v.scale))
	v.version++
}

// Zoom changes the scale by steps×ZoomStep keeping the world point under the
// screen point cursor fixed. Zooming out stops at MinScale.
func (v *Viewport) Zoom(steps float32, cursor mgl32.Vec2) {
	v.mu.Lock()
	defer v.mu.Unlock()
	next := max(v.scale+steps*ZoomStep, MinScale)
	if next == v.scale {
		return
	}
	v.pan = v.pan.Sub(cursor.Mul(1 / v.scale)).Add(cursor.Mul(1 / next))
	v.setScaleLocked(next)
}

// ScreenToWorld maps a screen point to world space.
func (v *Viewport) ScreenToWorld(p mgl32.Vec2) mgl32.Vec2 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return p.Mul(1 / v.scale).Sub(v.pan)
}

// WorldToScreen maps a world point to screen space.
func (v *Viewport) WorldToScreen(p mgl32.Vec2) mgl32.Vec2 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return p.Add(v.pan).Mul(v.scale)
}

// Projection returns ortho × scale × translate(pan).
func (v *Viewport) Projection() mgl32.Mat4 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	ortho := mgl32.Ortho(0, float32(v.width), 0, float32(v.height), -1, 100)
	return ortho.Mul4(mgl32.Scale3D(v.scale, v.scale, 1)).Mul4(mgl32.Translate3D(v.pan[0], v.pan[1], 0))
}
