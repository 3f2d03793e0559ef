// Package app turns window events into table actions: panning and zooming
// the map, and clicking cells to change what stands on them.
package app

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/kjkrol/feywild/internal/renderer"
	"github.com/kjkrol/feywild/pkg/fgl"
	"github.com/kjkrol/feywild/pkg/gfx"
	"github.com/kjkrol/feywild/pkg/hex"
)

// KeyPanStep is how far in screen pixels an arrow key pans the map.
const KeyPanStep = 40

// Table reacts to the events of one window drawing a FrameRenderer.
//
// A left click on a cell holding tokens swaps each of them for the next token
// kind; a click on a bare cell cycles its tile. A right click removes the
// tokens of a cell.
type Table struct {
	renderer *renderer.FrameRenderer
	viewport *gfx.Viewport
	panZoom  *gfx.PanZoom
	stop     func()
	reload   func() (*renderer.FrameRenderer, error)
}

type Option func(*Table)

// WithReload binds "r" and F5 to reload. On success the table acts on the
// renderer it returns; on failure the current one stays.
func WithReload(reload func() (*renderer.FrameRenderer, error)) Option {
	return func(t *Table) {
		t.reload = reload
	}
}

func NewTable(r *renderer.FrameRenderer, v *gfx.Viewport, stop func(), opts ...Option) *Table {
	t := &Table{
		renderer: r,
		viewport: v,
		panZoom:  gfx.NewPanZoom(v),
		stop:     stop,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// EventStrategy picks how the window drains input: everything pending, or at
// most maxEvents per frame when maxEvents > 0. Runs of pointer motion are
// coalesced either way.
func EventStrategy(maxEvents int) gfx.EventsConsumerStrategy {
	inner := gfx.DrainAll()
	if maxEvents > 0 {
		inner = gfx.DrainMax(maxEvents)
	}
	return gfx.CoalesceMotion(inner)
}

// Renderer returns the renderer clicks currently act on.
func (t *Table) Renderer() *renderer.FrameRenderer { return t.renderer }

// HandleEvent must run on the goroutine owning the GL context.
func (t *Table) HandleEvent(event gfx.Event) {
	if p, ok := t.panZoom.Handle(event); ok {
		t.Click(p)
		return
	}
	switch e := event.(type) {
	case gfx.KeyPress:
		t.key(e.Label)
	case gfx.ButtonRelease:
		if e.Button == gfx.ButtonRight {
			_, h := t.viewport.Size()
			t.Clear(gfx.FlipY(e.X, e.Y, h))
		}
	}
}

func (t *Table) key(label string) {
	switch label {
	case "Escape", "q":
		if t.stop != nil {
			t.stop()
		}
	case "r", "F5":
		t.Reload()
	case "Home":
		t.viewport.SetPan(mgl32.Vec2{})
		t.viewport.SetScale(gfx.DefaultScale)
	case "Left":
		t.viewport.Move(KeyPanStep, 0)
	case "Right":
		t.viewport.Move(-KeyPanStep, 0)
	case "Up":
		t.viewport.Move(0, -KeyPanStep)
	case "Down":
		t.viewport.Move(0, KeyPanStep)
	case "+", "=":
		t.zoomCentre(1)
	case "-":
		t.zoomCentre(-1)
	}
}

func (t *Table) zoomCentre(steps float32) {
	w, h := t.viewport.Size()
	t.viewport.Zoom(steps, mgl32.Vec2{float32(w) / 2, float32(h) / 2})
}

// Reload replaces the scene through the reload function, if any.
func (t *Table) Reload() bool {
	if t.reload == nil {
		return false
	}
	r, err := t.reload()
	if err != nil {
		fgl.Logger().Error("app: reload", "err", err)
		return false
	}
	t.renderer = r
	fgl.Logger().Info("app: scene reloaded")
	return true
}

// Click acts on the cell under p, given in bottom-left screen pixels.
func (t *Table) Click(p image.Point) (hex.Coord, bool) {
	c, ok := t.renderer.Resolve(p, t.viewport)
	if !ok {
		fgl.Logger().Debug("app: click outside the grid", "x", p.X, "y", p.Y)
		return c, false
	}
	tokens := t.renderer.Tokens()
	if found := tokens.FindInstancesAt(c); len(found) > 0 {
		for _, in := range found {
			in.Token = t.nextToken(in.Token)
		}
		fgl.Logger().Info("app: tokens swapped", "col", c.Col, "row", c.Row, "count", len(found))
		return c, true
	}

	grid := t.renderer.Grid()
	tile, err := grid.Cell(c.Row, c.Col)
	if err != nil {
		return c, false
	}
	next := tile + 1
	if next >= grid.TileCount() {
		next = hex.EmptyCell
	}
	if err := grid.UpdateCell(c.Row, c.Col, next); err != nil {
		fgl.Logger().Warn("app: update cell", "col", c.Col, "row", c.Row, "err", err)
		return c, false
	}
	fgl.Logger().Info("app: tile changed", "col", c.Col, "row", c.Row, "tile", next)
	return c, true
}

// Clear removes every token on the cell under p.
func (t *Table) Clear(p image.Point) int {
	c, ok := t.renderer.Resolve(p, t.viewport)
	if !ok {
		return 0
	}
	n := t.renderer.Tokens().RemoveInstancesAt(c)
	if n > 0 {
		fgl.Logger().Info("app: tokens removed", "col", c.Col, "row", c.Row, "count", n)
	}
	return n
}

func (t *Table) nextToken(h hex.TokenHandle) hex.TokenHandle {
	tokens := t.renderer.Tokens()
	next := h + 1
	if _, err := tokens.Token(next); err != nil {
		return 0
	}
	return next
}
