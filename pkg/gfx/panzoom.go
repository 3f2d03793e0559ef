package gfx

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

// ClickSlop is how far in pixels the pointer may travel between press and
// release for the release to count as a click rather than a drag.
const ClickSlop = 3

// PanZoom drives a Viewport from pointer events: dragging with the left
// button pans, the wheel zooms about the cursor. A press and release without
// a drag is reported as a click.
type PanZoom struct {
	viewport *Viewport

	pressed    bool
	dragging   bool
	pressAt    image.Point
	lastX      int
	lastY      int
	haveCursor bool
}

func NewPanZoom(v *Viewport) *PanZoom {
	return &PanZoom{viewport: v}
}

// flip converts a top-left pointer position to the viewport's bottom-left
// screen space. Row 0 becomes row h-1.
func (p *PanZoom) flip(x, y int) image.Point {
	_, h := p.viewport.Size()
	return FlipY(x, y, h)
}

// FlipY maps pixel (x, y) of a surface height pixels tall between top-left
// and bottom-left origins. It is its own inverse.
func FlipY(x, y, height int) image.Point {
	return image.Pt(x, height-1-y)
}

// Handle applies e to the viewport. It returns the click position in
// bottom-left screen space when e completes a click.
func (p *PanZoom) Handle(e Event) (image.Point, bool) {
	switch ev := e.(type) {
	case ButtonPress:
		if ev.Button == ButtonLeft {
			p.pressed, p.dragging = true, false
			p.pressAt = image.Pt(ev.X, ev.Y)
			p.lastX, p.lastY, p.haveCursor = ev.X, ev.Y, true
		}
	case MotionNotify:
		if p.pressed && p.haveCursor {
			if !p.dragging {
				d := image.Pt(ev.X, ev.Y).Sub(p.pressAt)
				p.dragging = abs(d.X) > ClickSlop || abs(d.Y) > ClickSlop
			}
			if p.dragging {
				// Window y grows downwards, world y upwards.
				p.viewport.Move(float32(ev.X-p.lastX), float32(p.lastY-ev.Y))
			}
		}
		p.lastX, p.lastY, p.haveCursor = ev.X, ev.Y, true
	case ButtonRelease:
		if ev.Button != ButtonLeft || !p.pressed {
			break
		}
		p.pressed = false
		if !p.dragging {
			return p.flip(ev.X, ev.Y), true
		}
		p.dragging = false
	case MouseWheel:
		if ev.DeltaY != 0 {
			c := p.flip(ev.X, ev.Y)
			p.viewport.Zoom(float32(ev.DeltaY), mgl32.Vec2{float32(c.X), float32(c.Y)})
		}
	case LeaveNotify:
		p.pressed, p.dragging = false, false
	}
	return image.Point{}, false
}

// Dragging reports whether a drag is in progress.
func (p *PanZoom) Dragging() bool { return p.dragging }

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
