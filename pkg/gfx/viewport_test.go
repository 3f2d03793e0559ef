package gfx_test

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/kjkrol/feywild/pkg/gfx"
)

func near(a, b mgl32.Vec2) bool {
	return math.Abs(float64(a[0]-b[0])) < 1e-3 && math.Abs(float64(a[1]-b[1])) < 1e-3
}

func TestViewport_DefaultScale(t *testing.T) {
	v := gfx.NewViewport(800, 600)
	if v.Scale() != gfx.DefaultScale || v.Pan() != (mgl32.Vec2{}) {
		t.Errorf("scale %v pan %v", v.Scale(), v.Pan())
	}
}

func TestViewport_MoveIsInWorldUnits(t *testing.T) {
	v := gfx.NewViewport(800, 600)
	v.SetScale(2)
	v.Move(10, -4)
	if got := v.Pan(); !near(got, mgl32.Vec2{5, -2}) {
		t.Errorf("pan = %v", got)
	}
}

func TestViewport_ZoomKeepsCursorFixed(t *testing.T) {
	v := gfx.NewViewport(800, 600)
	v.SetPan(mgl32.Vec2{30, -12})
	cursor := mgl32.Vec2{250, 410}
	before := v.ScreenToWorld(cursor)

	v.Zoom(3, cursor)
	if !near(mgl32.Vec2{v.Scale(), 0}, mgl32.Vec2{gfx.DefaultScale + 3*gfx.ZoomStep, 0}) {
		t.Errorf("scale = %v", v.Scale())
	}
	if after := v.ScreenToWorld(cursor); !near(before, after) {
		t.Errorf("world under cursor moved from %v to %v", before, after)
	}
}

func TestViewport_ZoomOutStopsAtMinimum(t *testing.T) {
	v := gfx.NewViewport(100, 100)
	for i := 0; i < 50; i++ {
		v.Zoom(-1, mgl32.Vec2{50, 50})
	}
	if v.Scale() != gfx.MinScale {
		t.Errorf("scale = %v", v.Scale())
	}
	version := v.Version()
	v.Zoom(-1, mgl32.Vec2{50, 50})
	if v.Version() != version {
		t.Error("zoom at minimum changed the viewport")
	}
	v.SetScale(0)
	if v.Scale() != gfx.MinScale {
		t.Errorf("SetScale(0) -> %v", v.Scale())
	}
}

func TestViewport_ProjectionMatchesWorldToScreen(t *testing.T) {
	v := gfx.NewViewport(640, 480)
	v.SetScale(1.5)
	v.SetPan(mgl32.Vec2{-20, 35})
	proj := v.Projection()
	for _, w := range []mgl32.Vec2{{0, 0}, {100, 50}, {-40, 300}} {
		s := v.WorldToScreen(w)
		clip := proj.Mul4x1(mgl32.Vec4{w[0], w[1], 0, 1})
		ndc := mgl32.Vec2{(s[0]/640)*2 - 1, (s[1]/480)*2 - 1}
		if !near(mgl32.Vec2{clip[0], clip[1]}, ndc) {
			t.Errorf("world %v: clip %v want %v", w, clip, ndc)
		}
		if back := v.ScreenToWorld(s); !near(back, w) {
			t.Errorf("round trip %v -> %v", w, back)
		}
	}
}

func TestViewport_VersionTracksChanges(t *testing.T) {
	v := gfx.NewViewport(10, 10)
	start := v.Version()
	v.Resize(10, 10)
	v.Move(0, 0)
	v.SetPan(mgl32.Vec2{})
	if v.Version() != start {
		t.Errorf("no-op calls bumped version to %d", v.Version())
	}
	v.Resize(20, 10)
	v.Move(1, 0)
	if v.Version() != start+2 {
		t.Errorf("version = %d", v.Version())
	}
}
