// Package compose draws textures as screen-space rectangles and remembers
// where it drew them so pointer positions can be resolved to the quad under
// them.
package compose

import (
	"fmt"
	"image"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/kjkrol/feywild/pkg/fgl"
)

// WidgetID names a composited quad for hit testing.
type WidgetID uint32

// Quad is one entry of the frame's hit-test log.
type Quad struct {
	ID   WidgetID
	Rect image.Rectangle
}

type config struct {
	vertex, fragment string
}

type Option func(*config)

// WithShaderSources replaces the default compositing shaders. The program
// must declare the tex, offset, dimensions and projection uniforms to be
// useful.
func WithShaderSources(vertex, fragment string) Option {
	return func(c *config) {
		c.vertex, c.fragment = vertex, fragment
	}
}

// QuadComposer composites textures onto the bound framebuffer. Rectangles are
// in pixels with the origin at the bottom-left of the surface, matching the
// projection.
//
// The hit-test log lives for one frame: EndFrame clears it.
type QuadComposer struct {
	program    *fgl.Program
	vao        *fgl.VertexArray
	vbo        *fgl.VertexBuffer
	projection mgl32.Mat4
	width      int
	height     int
	quads      []Quad
}

func New(drv fgl.Driver, width, height int, opts ...Option) (*QuadComposer, error) {
	cfg := config{vertex: VertexShader, fragment: FragmentShader}
	for _, opt := range opts {
		opt(&cfg)
	}
	prog, err := fgl.BuildProgram(drv, cfg.vertex, cfg.fragment)
	if err != nil {
		return nil, fmt.Errorf("compose: program: %w", err)
	}
	c := &QuadComposer{
		program: prog,
		vao:     fgl.NewVertexArray(drv),
		vbo:     fgl.NewVertexBuffer(drv),
	}
	if err := fgl.AllocWith(c.vbo, fgl.Quad[:], fgl.Static, fgl.Draw); err != nil {
		c.Release()
		return nil, err
	}
	if err := c.vao.BindAttribute(c.vbo, fgl.Attrib[float32](0).WithComponents(2)); err != nil {
		c.Release()
		return nil, err
	}
	c.Resize(width, height)
	return c, nil
}

// Resize rebuilds the projection for a surface of width×height pixels.
func (c *QuadComposer) Resize(width, height int) {
	c.width, c.height = width, height
	c.projection = mgl32.Ortho(0, float32(width), 0, float32(height), -1, 100)
}

func (c *QuadComposer) Projection() mgl32.Mat4 { return c.projection }

// Size returns the surface size the projection was built for.
func (c *QuadComposer) Size() (int, int) { return c.width, c.height }

// RenderQuad logs rect under id and draws tex stretched over it.
func (c *QuadComposer) RenderQuad(id WidgetID, rect image.Rectangle, tex *fgl.Texture2D) {
	rect = rect.Canon()
	c.quads = append(c.quads, Quad{ID: id, Rect: rect})

	c.program.Bind()
	tex.Bind(0)
	c.program.SetInt("tex", 0)
	c.program.SetVec2("offset", mgl32.Vec2{float32(rect.Min.X), float32(rect.Min.Y)})
	c.program.SetVec2("dimensions", mgl32.Vec2{float32(rect.Dx()), float32(rect.Dy())})
	c.program.SetMat4("projection", c.projection)
	c.vao.Draw(0, fgl.QuadVertices)
}

// ResolveClick returns the id of the last drawn quad containing p.
func (c *QuadComposer) ResolveClick(p image.Point) (WidgetID, bool) {
	for i := len(c.quads) - 1; i >= 0; i-- {
		if p.In(c.quads[i].Rect) {
			return c.quads[i].ID, true
		}
	}
	return 0, false
}

// Quads returns a copy of this frame's hit-test log in draw order.
func (c *QuadComposer) Quads() []Quad {
	return append([]Quad(nil), c.quads...)
}

// EndFrame forgets every quad drawn this frame.
func (c *QuadComposer) EndFrame() {
	c.quads = c.quads[:0]
}

func (c *QuadComposer) Release() {
	c.program.Release()
	c.vao.Release()
	c.vbo.Release()
}
