package app_test

import (
	"errors"
	"image"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/kjkrol/feywild/internal/app"
	"github.com/kjkrol/feywild/internal/renderer"
	"github.com/kjkrol/feywild/pkg/fgl"
	"github.com/kjkrol/feywild/pkg/fgl/fgltest"
	"github.com/kjkrol/feywild/pkg/gfx"
	"github.com/kjkrol/feywild/pkg/hex"
)

const height = 100

// Cell centres in bottom-left screen pixels at scale 1 for 32 pixel tiles.
var (
	cell11 = image.Pt(43, 40)
	cell20 = image.Pt(57, 16)
)

type fixture struct {
	drv      *fgltest.Driver
	renderer *renderer.FrameRenderer
	viewport *gfx.Viewport
	table    *app.Table
	stopped  bool
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	drv := fgltest.New()
	tiles := []*fgl.Pixels{fgl.NewPixels(32, 32, fgl.RGBA8), fgl.NewPixels(32, 32, fgl.RGBA8)}
	grid, err := hex.NewGrid(drv, hex.GridConfig{Rows: 3, Cols: 3, Tiles: tiles})
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	var defs []*hex.Token
	for i := 0; i < 2; i++ {
		tok, err := hex.NewToken(drv, fgl.NewPixels(16, 16, fgl.RGBA8), hex.TokenOptions{Scale: true})
		if err != nil {
			t.Fatalf("NewToken: %v", err)
		}
		defs = append(defs, tok)
	}
	tokens, handles, err := hex.NewTokenManager(drv, grid.Layout(), defs...)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	if err := tokens.AppendInstances(hex.TokenInstance{At: hex.Coord{Col: 1, Row: 1}, Token: handles[0]}); err != nil {
		t.Fatal(err)
	}
	r, err := renderer.New(drv, 200, height, grid, tokens)
	if err != nil {
		t.Fatalf("renderer.New: %v", err)
	}
	v := gfx.NewViewport(200, height)
	v.SetScale(1)
	r.Frame(v.Projection())

	f := &fixture{drv: drv, renderer: r, viewport: v}
	f.table = app.NewTable(r, v, func() { f.stopped = true })
	return f
}

func (f *fixture) click(p image.Point) {
	f.table.HandleEvent(gfx.ButtonPress{Button: gfx.ButtonLeft, X: p.X, Y: height - 1 - p.Y})
	f.table.HandleEvent(gfx.ButtonRelease{Button: gfx.ButtonLeft, X: p.X, Y: height - 1 - p.Y})
}

func TestTable_ClickCyclesTokens(t *testing.T) {
	f := newFixture(t)
	tokens := f.renderer.Tokens()

	f.click(cell11)
	if got := tokens.Instances()[0].Token; got != 1 {
		t.Fatalf("token after one click = %d", got)
	}
	if !tokens.Dirty() {
		t.Error("swap did not mark the manager dirty")
	}
	f.click(cell11)
	if got := tokens.Instances()[0].Token; got != 0 {
		t.Errorf("token after two clicks = %d", got)
	}
	if tile, _ := f.renderer.Grid().Cell(1, 1); tile != 0 {
		t.Errorf("tile under tokens changed to %d", tile)
	}
}

func TestTable_ClickCyclesTiles(t *testing.T) {
	f := newFixture(t)
	grid := f.renderer.Grid()

	want := []int{1, hex.EmptyCell, 0}
	for i, w := range want {
		f.click(cell20)
		if got, _ := grid.Cell(0, 2); got != w {
			t.Errorf("click %d: tile = %d, want %d", i+1, got, w)
		}
	}
}

func TestTable_ClickOutsideGrid(t *testing.T) {
	f := newFixture(t)
	before := append([]int(nil), f.renderer.Grid().Contents()...)
	if _, ok := f.table.Click(image.Pt(190, 90)); ok {
		t.Error("click outside the grid resolved")
	}
	for i, v := range f.renderer.Grid().Contents() {
		if v != before[i] {
			t.Errorf("cell %d changed", i)
		}
	}
}

func TestTable_ClickOnTopRow(t *testing.T) {
	f := newFixture(t)
	// Bring the centre of cell (1,1) to the topmost screen row.
	f.viewport.SetPan(mgl32.Vec2{0, height - 1 - 40})
	f.table.HandleEvent(gfx.ButtonPress{Button: gfx.ButtonLeft, X: cell11.X, Y: 0})
	f.table.HandleEvent(gfx.ButtonRelease{Button: gfx.ButtonLeft, X: cell11.X, Y: 0})
	if got := f.renderer.Tokens().Instances()[0].Token; got != 1 {
		t.Errorf("click on the top row left the token at %d", got)
	}
}

func TestTable_RightClickRemovesTokens(t *testing.T) {
	f := newFixture(t)
	f.table.HandleEvent(gfx.ButtonPress{Button: gfx.ButtonRight, X: cell11.X, Y: height - 1 - cell11.Y})
	f.table.HandleEvent(gfx.ButtonRelease{Button: gfx.ButtonRight, X: cell11.X, Y: height - 1 - cell11.Y})
	if n := len(f.renderer.Tokens().Instances()); n != 0 {
		t.Errorf("%d instances left", n)
	}
}

func TestTable_DragPansWithoutClicking(t *testing.T) {
	f := newFixture(t)
	f.table.HandleEvent(gfx.ButtonPress{Button: gfx.ButtonLeft, X: 43, Y: 60})
	f.table.HandleEvent(gfx.MotionNotify{X: 63, Y: 50})
	f.table.HandleEvent(gfx.ButtonRelease{Button: gfx.ButtonLeft, X: 63, Y: 50})

	if got := f.viewport.Pan(); got != (mgl32.Vec2{20, 10}) {
		t.Errorf("pan = %v", got)
	}
	if got := f.renderer.Tokens().Instances()[0].Token; got != 0 {
		t.Errorf("drag swapped the token to %d", got)
	}
}

func TestTable_Keys(t *testing.T) {
	f := newFixture(t)

	f.table.HandleEvent(gfx.KeyPress{Label: "Left"})
	if got := f.viewport.Pan(); got != (mgl32.Vec2{app.KeyPanStep, 0}) {
		t.Errorf("pan after Left = %v", got)
	}
	f.table.HandleEvent(gfx.KeyPress{Label: "-"})
	if got := f.viewport.Scale(); got >= 1 {
		t.Errorf("scale after zoom out = %v", got)
	}
	f.table.HandleEvent(gfx.KeyPress{Label: "Home"})
	if f.viewport.Pan() != (mgl32.Vec2{}) || f.viewport.Scale() != gfx.DefaultScale {
		t.Errorf("Home left pan %v scale %v", f.viewport.Pan(), f.viewport.Scale())
	}
	f.table.HandleEvent(gfx.KeyPress{Label: "Escape"})
	if !f.stopped {
		t.Error("Escape did not stop the window")
	}
}

func TestTable_ReloadSwapsRenderer(t *testing.T) {
	f := newFixture(t)
	next := newFixture(t)
	fail := true
	table := app.NewTable(f.renderer, f.viewport, nil, app.WithReload(func() (*renderer.FrameRenderer, error) {
		if fail {
			return nil, errors.New("scene file is broken")
		}
		return next.renderer, nil
	}))

	table.HandleEvent(gfx.KeyPress{Label: "r"})
	if table.Renderer() != f.renderer {
		t.Fatal("failed reload replaced the renderer")
	}

	fail = false
	table.HandleEvent(gfx.KeyPress{Label: "F5"})
	if table.Renderer() != next.renderer {
		t.Fatal("reload kept the old renderer")
	}
	table.Click(cell20)
	if got, _ := next.renderer.Grid().Cell(0, 2); got != 1 {
		t.Errorf("reloaded grid tile = %d", got)
	}
	if got, _ := f.renderer.Grid().Cell(0, 2); got != 0 {
		t.Errorf("old grid changed to %d", got)
	}
}

func TestEventStrategy(t *testing.T) {
	if got := app.EventStrategy(0); got != gfx.CoalesceMotion(gfx.DrainAll()) {
		t.Errorf("EventStrategy(0) = %#v", got)
	}
	if got := app.EventStrategy(16); got != gfx.CoalesceMotion(gfx.DrainMax(16)) {
		t.Errorf("EventStrategy(16) = %#v", got)
	}
}
