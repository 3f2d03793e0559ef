package renderer

import (
	"fmt"

	"github.com/kjkrol/feywild/pkg/fgl"
)

// Draw buffer indices of the render target.
const (
	ColourBuffer = 0
	PickBuffer   = 1
)

// PickBackground is the pick buffer value where no cell was drawn. Cells
// always write blue = 1, so blue = 0 means empty.
var PickBackground = [4]float32{0, 125.0 / 255.0, 0, 1}

// RenderTarget is the off-screen framebuffer the scene is drawn into: an
// RGBA colour texture, an RGB pick texture and a depth-stencil renderbuffer,
// all of one size. It cannot be resized; build a new one instead.
type RenderTarget struct {
	drv    fgl.Driver
	fb     *fgl.FrameBuffer
	colour *fgl.Texture2D
	pick   *fgl.Texture2D
	depth  *fgl.RenderBuffer
	width  int
	height int
}

// NewRenderTarget builds a complete target or returns why it is incomplete.
func NewRenderTarget(drv fgl.Driver, width, height int) (*RenderTarget, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("renderer: target %dx%d: %w", width, height, fgl.ErrOutOfRange)
	}
	t := &RenderTarget{
		drv:    drv,
		fb:     fgl.NewFrameBuffer(drv),
		colour: fgl.NewTexture2D(drv, width, height, fgl.RGBA8),
		pick:   fgl.NewTexture2D(drv, width, height, fgl.RGB8),
		depth:  fgl.NewRenderBuffer(drv),
		width:  width,
		height: height,
	}
	nearest := fgl.MinFilter{Filter: fgl.Nearest, Mip: fgl.MipNone}
	t.colour.SetFilter(nearest, fgl.Nearest)
	t.pick.SetFilter(nearest, fgl.Nearest)

	steps := []func() error{
		func() error { return t.depth.Alloc(width, height, fgl.RenderDepth24Stencil8, 0) },
		func() error { return t.fb.AttachTexture(t.colour, fgl.AttachColor(ColourBuffer)) },
		func() error { return t.fb.AttachTexture(t.pick, fgl.AttachColor(PickBuffer)) },
		func() error { return t.fb.AttachRenderBuffer(t.depth, fgl.AttachDepthStencil) },
		func() error { return t.fb.SetDrawBuffers(ColourBuffer, PickBuffer) },
		t.fb.Status,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			t.Release()
			fgl.BindDefault(drv)
			return nil, fmt.Errorf("renderer: target %dx%d: %w", width, height, err)
		}
	}
	fgl.BindDefault(drv)
	fgl.Logger().Debug("renderer: target built", "width", width, "height", height)
	return t, nil
}

// Bind makes the target current and sets the viewport to cover it.
func (t *RenderTarget) Bind() {
	t.fb.Bind()
	t.drv.Viewport(0, 0, int32(t.width), int32(t.height))
}

func (t *RenderTarget) Unbind() {
	t.fb.Unbind()
}

// Clear resets colour to transparent, pick to PickBackground and depth to 1.
func (t *RenderTarget) Clear() {
	t.fb.ClearFloat(ColourBuffer, [4]float32{})
	t.fb.ClearFloat(PickBuffer, PickBackground)
	t.fb.ClearDepth(1)
}

func (t *RenderTarget) Size() (int, int) { return t.width, t.height }

// Colour returns the texture the scene is drawn into.
func (t *RenderTarget) Colour() *fgl.Texture2D { return t.colour }

// Pick returns the texture cells encode their index into.
func (t *RenderTarget) Pick() *fgl.Texture2D { return t.pick }

func (t *RenderTarget) FrameBuffer() *fgl.FrameBuffer { return t.fb }

func (t *RenderTarget) Release() {
	t.fb.Release()
	t.colour.Release()
	t.pick.Release()
	t.depth.Release()
}
