package hex

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/kjkrol/feywild/pkg/fgl"
)

// EmptyCell marks a cell that draws nothing.
const EmptyCell = -1

// ErrNoTiles is returned when a grid is built without any tile image.
var ErrNoTiles = errors.New("hex: grid has no tiles")

// Vertex slots of the grid program.
const (
	slotQuad   = 0
	slotOffset = 1
	slotTile   = 2
)

// GridConfig describes a grid. Contents lists one tile index per cell,
// row-major; nil fills every cell with tile 0.
type GridConfig struct {
	Rows, Cols  int
	Orientation Orientation
	Tiles       []*fgl.Pixels
	Contents    []int
}

// Grid draws rows×cols hexes from a shared tile atlas in one instanced call.
// Each cell's 6 quad vertices share one offset and one tile index, so the
// per-cell attributes advance with a divisor of 6.
type Grid struct {
	layout     Layout
	rows, cols int
	tileSize   int
	ntiles     int

	atlas   *fgl.Texture2D
	vao     *fgl.VertexArray
	quad    *fgl.VertexBuffer
	offsets *fgl.VertexBuffer
	tiles   *fgl.VertexBuffer

	contents []int
}

func NewGrid(drv fgl.Driver, cfg GridConfig) (*Grid, error) {
	if cfg.Rows <= 0 || cfg.Cols <= 0 {
		return nil, fmt.Errorf("hex: grid %dx%d: %w", cfg.Rows, cfg.Cols, fgl.ErrOutOfRange)
	}
	if len(cfg.Tiles) == 0 {
		return nil, ErrNoTiles
	}
	cells := cfg.Rows * cfg.Cols
	contents := cfg.Contents
	if contents == nil {
		contents = make([]int, cells)
	}
	if len(contents) != cells {
		return nil, fmt.Errorf("hex: %d contents for %d cells: %w", len(contents), cells, fgl.ErrOutOfRange)
	}
	for i, tile := range contents {
		if tile < EmptyCell || tile >= len(cfg.Tiles) {
			return nil, fmt.Errorf("hex: cell %d uses tile %d of %d: %w", i, tile, len(cfg.Tiles), fgl.ErrOutOfRange)
		}
	}

	tileSize := 0
	for _, px := range cfg.Tiles {
		tileSize = max(tileSize, px.Width, px.Height)
	}

	g := &Grid{
		layout:   NewLayout(cfg.Orientation, float32(tileSize)),
		rows:     cfg.Rows,
		cols:     cfg.Cols,
		tileSize: tileSize,
		ntiles:   len(cfg.Tiles),
		contents: append([]int(nil), contents...),
	}

	g.atlas = fgl.NewTexture2D(drv, tileSize*len(cfg.Tiles), tileSize, fgl.RGBA8)
	for n, px := range cfg.Tiles {
		if err := g.atlas.ReplaceRegion(n*tileSize, 0, px); err != nil {
			g.atlas.Release()
			return nil, err
		}
	}

	g.vao = fgl.NewVertexArray(drv)
	bufs := fgl.NewVertexBuffers(drv, 3)
	g.quad, g.offsets, g.tiles = bufs[0], bufs[1], bufs[2]

	indices := make([]float32, cells)
	for i, tile := range g.contents {
		indices[i] = float32(tile)
	}
	steps := []func() error{
		func() error { return fgl.AllocWith(g.quad, fgl.Quad[:], fgl.Static, fgl.Draw) },
		func() error {
			return g.vao.BindAttribute(g.quad, fgl.Attrib[float32](slotQuad).WithComponents(2))
		},
		func() error {
			return fgl.AllocWith(g.offsets, g.layout.GridOffsets(g.rows, g.cols), fgl.Static, fgl.Draw)
		},
		func() error {
			return g.vao.BindAttribute(g.offsets, fgl.Attrib[float32](slotOffset).WithComponents(2).WithDivisor(fgl.QuadVertices))
		},
		func() error { return fgl.AllocWith(g.tiles, indices, fgl.Dynamic, fgl.Draw) },
		func() error {
			return g.vao.BindAttribute(g.tiles, fgl.Attrib[float32](slotTile).WithDivisor(fgl.QuadVertices))
		},
	}
	for _, step := range steps {
		if err := step(); err != nil {
			g.Release()
			return nil, err
		}
	}

	fgl.Logger().Debug("hex: grid built",
		"rows", g.rows, "cols", g.cols, "tiles", g.ntiles, "tileSize", tileSize, "orientation", cfg.Orientation.String())
	return g, nil
}

// NewGridProgram links the grid shaders.
func NewGridProgram(drv fgl.Driver, opts ...ShaderOption) (*fgl.Program, error) {
	src := shaderSources{vertex: GridVertexShader, fragment: GridFragmentShader}
	for _, opt := range opts {
		opt(&src)
	}
	prog, err := fgl.BuildProgram(drv, src.vertex, src.fragment)
	if err != nil {
		return nil, fmt.Errorf("hex: grid program: %w", err)
	}
	return prog, nil
}

type shaderSources struct {
	vertex, fragment string
}

// ShaderOption replaces a default shader source.
type ShaderOption func(*shaderSources)

// WithGridShaderSources replaces both grid shader stages.
func WithGridShaderSources(vertex, fragment string) ShaderOption {
	return func(s *shaderSources) {
		s.vertex, s.fragment = vertex, fragment
	}
}

// Draw renders every cell with one instanced call.
func (g *Grid) Draw(prog *fgl.Program, projection mgl32.Mat4) {
	prog.Bind()
	prog.SetMat4("projection", projection)
	prog.SetVec2("size", mgl32.Vec2{float32(g.tileSize), float32(g.tileSize)})
	prog.SetFloat("ntiles", float32(g.ntiles))
	prog.SetInt("atlas", 0)
	g.atlas.Bind(0)
	g.vao.DrawInstanced(0, fgl.QuadVertices, int32(g.rows*g.cols*fgl.QuadVertices))
}

func (g *Grid) index(row, col int) (int, error) {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return 0, fmt.Errorf("hex: cell (%d,%d) outside %dx%d grid: %w", row, col, g.rows, g.cols, fgl.ErrOutOfRange)
	}
	return row*g.cols + col, nil
}

// UpdateCell sets the tile of one cell, EmptyCell clears it. Only that cell's
// element of the tile buffer is rewritten.
func (g *Grid) UpdateCell(row, col, tile int) error {
	idx, err := g.index(row, col)
	if err != nil {
		return err
	}
	if tile < EmptyCell || tile >= g.ntiles {
		return fmt.Errorf("hex: tile %d of %d: %w", tile, g.ntiles, fgl.ErrOutOfRange)
	}
	if err := fgl.ReplaceSubData(g.tiles, idx, []float32{float32(tile)}); err != nil {
		return err
	}
	g.contents[idx] = tile
	return nil
}

// Cell returns the tile index of one cell.
func (g *Grid) Cell(row, col int) (int, error) {
	idx, err := g.index(row, col)
	if err != nil {
		return 0, err
	}
	return g.contents[idx], nil
}

// Contents returns a copy of every cell's tile index, row-major.
func (g *Grid) Contents() []int {
	return append([]int(nil), g.contents...)
}

func (g *Grid) Rows() int      { return g.rows }
func (g *Grid) Cols() int      { return g.cols }
func (g *Grid) TileSize() int  { return g.tileSize }
func (g *Grid) TileCount() int { return g.ntiles }
func (g *Grid) Layout() Layout { return g.layout }

// Atlas returns the tile atlas texture.
func (g *Grid) Atlas() *fgl.Texture2D { return g.atlas }

// TileBuffer returns the per-cell tile index buffer.
func (g *Grid) TileBuffer() *fgl.VertexBuffer { return g.tiles }

// VertexArray returns the vertex array the grid draws with.
func (g *Grid) VertexArray() *fgl.VertexArray { return g.vao }

func (g *Grid) Release() {
	g.atlas.Release()
	g.vao.Release()
	g.quad.Release()
	g.offsets.Release()
	g.tiles.Release()
}
