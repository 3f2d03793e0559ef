// Package renderer draws a hex map frame: grid and tokens go into an
// off-screen RenderTarget which is then composited to the window together
// with a small preview of its pick buffer.
package renderer

import (
	"image"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/kjkrol/feywild/pkg/compose"
	"github.com/kjkrol/feywild/pkg/fgl"
	"github.com/kjkrol/feywild/pkg/gfx"
	"github.com/kjkrol/feywild/pkg/hex"
)

// Composited quads, bottom to top.
const (
	SceneQuad compose.WidgetID = iota
	PickQuad
)

// Preview placement of the pick buffer.
const (
	PreviewMargin = 10
	PreviewRatio  = 10
)

var defaultClear = color.RGBA{R: 230, G: 230, B: 230, A: 255}

type Option func(*FrameRenderer)

// WithClearColor sets the window background behind the scene.
func WithClearColor(c color.Color) Option {
	return func(r *FrameRenderer) {
		r.clear = colorToFloat(c)
	}
}

// WithStrictErrors makes persistent driver errors panic.
func WithStrictErrors(strict bool) Option {
	return func(r *FrameRenderer) {
		r.strict = strict
	}
}

// WithoutPreview hides the pick buffer preview.
func WithoutPreview() Option {
	return func(r *FrameRenderer) {
		r.preview = false
	}
}

// FrameRenderer implements gfx.Renderer for one grid and its tokens.
type FrameRenderer struct {
	drv         fgl.Driver
	grid        *hex.Grid
	gridProgram *fgl.Program
	tokens      *hex.TokenManager
	composer    *compose.QuadComposer
	target      *RenderTarget
	monitor     *fgl.ErrorMonitor

	width   int
	height  int
	clear   [4]float32
	strict  bool
	preview bool
}

var _ gfx.Renderer = (*FrameRenderer)(nil)

// New takes ownership of grid and tokens.
func New(drv fgl.Driver, width, height int, grid *hex.Grid, tokens *hex.TokenManager, opts ...Option) (*FrameRenderer, error) {
	r := &FrameRenderer{
		drv:     drv,
		grid:    grid,
		tokens:  tokens,
		width:   width,
		height:  height,
		clear:   colorToFloat(defaultClear),
		preview: true,
	}
	for _, opt := range opts {
		opt(r)
	}

	prog, err := hex.NewGridProgram(drv)
	if err != nil {
		return nil, err
	}
	r.gridProgram = prog

	r.composer, err = compose.New(drv, width, height)
	if err != nil {
		prog.Release()
		return nil, err
	}
	r.target, err = NewRenderTarget(drv, width, height)
	if err != nil {
		prog.Release()
		r.composer.Release()
		return nil, err
	}
	r.monitor = fgl.NewErrorMonitor(drv, r.strict)
	fgl.Logger().Info("renderer: ready", "width", width, "height", height, "strict", r.strict)
	return r, nil
}

// Resize rebuilds the render target for the new surface size. On failure the
// previous target is kept and frames are stretched until the next resize.
func (r *FrameRenderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	target, err := NewRenderTarget(r.drv, width, height)
	if err != nil {
		fgl.Logger().Error("renderer: resize", "width", width, "height", height, "err", err)
		return
	}
	r.target.Release()
	r.target = target
	r.width, r.height = width, height
	r.composer.Resize(width, height)
}

func (r *FrameRenderer) Render(w *gfx.Window) {
	r.Frame(w.Viewport().Projection())
}

// Frame draws one frame with the given world projection and returns the
// driver errors raised while doing so.
func (r *FrameRenderer) Frame(projection mgl32.Mat4) []uint32 {
	r.composer.EndFrame()

	fgl.BindDefault(r.drv)
	r.drv.Viewport(0, 0, int32(r.width), int32(r.height))
	r.drv.ClearColor(r.clear[0], r.clear[1], r.clear[2], r.clear[3])
	r.drv.Clear(fgl.ColorBufferBit | fgl.DepthBufferBit)

	r.drv.Enable(fgl.Blend)
	r.drv.BlendFunc(fgl.SrcAlpha, fgl.OneMinusSrcAlpha)

	r.target.Bind()
	r.target.Clear()
	r.grid.Draw(r.gridProgram, projection)
	if err := r.tokens.Draw(projection); err != nil {
		fgl.Logger().Warn("renderer: tokens", "err", err)
	}
	r.target.Unbind()

	r.drv.Viewport(0, 0, int32(r.width), int32(r.height))
	r.composer.RenderQuad(SceneQuad, image.Rect(0, 0, r.width, r.height), r.target.Colour())
	if r.preview {
		r.composer.RenderQuad(PickQuad, r.previewRect(), r.target.Pick())
	}
	return r.monitor.Check()
}

func (r *FrameRenderer) previewRect() image.Rectangle {
	return image.Rect(0, 0, r.width/PreviewRatio, r.height/PreviewRatio).Add(image.Pt(PreviewMargin, PreviewMargin))
}

// Resolve maps a click in bottom-left screen space to the grid cell under it.
// Clicks on the pick preview resolve as if made on the full-size scene.
func (r *FrameRenderer) Resolve(p image.Point, v *gfx.Viewport) (hex.Coord, bool) {
	id, ok := r.composer.ResolveClick(p)
	if !ok {
		return hex.Coord{}, false
	}
	if id == PickQuad {
		p = p.Sub(r.previewRect().Min).Mul(PreviewRatio)
	}
	world := v.ScreenToWorld(mgl32.Vec2{float32(p.X), float32(p.Y)})
	c := r.grid.Layout().CellAt(world)
	if c.Row < 0 || c.Row >= r.grid.Rows() || c.Col < 0 || c.Col >= r.grid.Cols() {
		return c, false
	}
	return c, true
}

func (r *FrameRenderer) Grid() *hex.Grid { return r.grid }

func (r *FrameRenderer) Tokens() *hex.TokenManager { return r.tokens }

func (r *FrameRenderer) Target() *RenderTarget { return r.target }

func (r *FrameRenderer) Composer() *compose.QuadComposer { return r.composer }

func (r *FrameRenderer) Close() {
	r.target.Release()
	r.composer.Release()
	r.gridProgram.Release()
	r.tokens.Release()
	r.grid.Release()
}

func colorToFloat(c color.Color) [4]float32 {
	if c == nil {
		return [4]float32{}
	}
	r, g, b, a := c.RGBA()
	const inv = 1.0 / 65535.0
	return [4]float32{
		float32(r) * inv,
		float32(g) * inv,
		float32(b) * inv,
		float32(a) * inv,
	}
}
