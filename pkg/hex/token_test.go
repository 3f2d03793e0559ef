package hex_test

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/kjkrol/feywild/pkg/fgl"
	"github.com/kjkrol/feywild/pkg/fgl/fgltest"
	"github.com/kjkrol/feywild/pkg/hex"
)

func newToken(t *testing.T, drv fgl.Driver, w, h int, opts hex.TokenOptions) *hex.Token {
	t.Helper()
	tok, err := hex.NewToken(drv, tile(w, h, 9, 9, 9), opts)
	if err != nil {
		t.Fatalf("NewToken: %v", err)
	}
	return tok
}

func TestToken_Size(t *testing.T) {
	drv := fgltest.New()
	cases := []struct {
		name string
		w, h int
		opts hex.TokenOptions
		want mgl32.Vec2
	}{
		{"intrinsic", 30, 20, hex.TokenOptions{}, mgl32.Vec2{30, 20}},
		{"nominal", 30, 20, hex.TokenOptions{NominalSize: 48}, mgl32.Vec2{48, 48}},
		{"scaled wide", 100, 50, hex.TokenOptions{Scale: true}, mgl32.Vec2{64, 32}},
		{"scaled tall", 25, 100, hex.TokenOptions{Scale: true, NominalSize: 10}, mgl32.Vec2{16, 64}},
	}
	for _, c := range cases {
		tok := newToken(t, drv, c.w, c.h, c.opts)
		if got := tok.Size(64); got != c.want {
			t.Errorf("%s: size = %v want %v", c.name, got, c.want)
		}
	}
}

func TestToken_InvalidOptions(t *testing.T) {
	drv := fgltest.New()
	for _, opts := range []hex.TokenOptions{
		{Anchor: hex.AnchorCorner(6)},
		{Anchor: hex.AnchorCorner(-1)},
		{NominalSize: -3},
	} {
		if _, err := hex.NewToken(drv, tile(2, 2, 0, 0, 0), opts); !errors.Is(err, fgl.ErrOutOfRange) {
			t.Errorf("%+v: err = %v", opts, err)
		}
	}
	if drv.Calls() != 0 {
		t.Errorf("driver called %d times", drv.Calls())
	}
}

type fixture struct {
	drv     *fgltest.Driver
	m       *hex.TokenManager
	handles []hex.TokenHandle
	tokens  []*hex.Token
}

func newFixture(t *testing.T, layout hex.Layout, opts ...hex.TokenOptions) fixture {
	t.Helper()
	drv := fgltest.New()
	tokens := make([]*hex.Token, len(opts))
	for i, o := range opts {
		tokens[i] = newToken(t, drv, 8+i, 8, o)
	}
	m, handles, err := hex.NewTokenManager(drv, layout, tokens...)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	return fixture{drv: drv, m: m, handles: handles, tokens: tokens}
}

func TestTokenManager_BatchesByHandle(t *testing.T) {
	f := newFixture(t, hex.NewLayout(hex.PointUp, 32), hex.TokenOptions{}, hex.TokenOptions{}, hex.TokenOptions{})
	a, b, c := f.handles[0], f.handles[1], f.handles[2]

	err := f.m.AppendInstances(
		hex.TokenInstance{At: hex.Coord{Col: 0, Row: 0}, Token: b},
		hex.TokenInstance{At: hex.Coord{Col: 1, Row: 0}, Token: a},
		hex.TokenInstance{At: hex.Coord{Col: 2, Row: 0}, Token: a},
		hex.TokenInstance{At: hex.Coord{Col: 3, Row: 0}, Token: c},
		hex.TokenInstance{At: hex.Coord{Col: 4, Row: 0}, Token: b},
	)
	if err != nil {
		t.Fatalf("AppendInstances: %v", err)
	}
	if err := f.m.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}

	want := []hex.Batch{{Token: a, First: 0, Count: 2}, {Token: b, First: 2, Count: 2}, {Token: c, First: 4, Count: 1}}
	got := f.m.Batches()
	if len(got) != len(want) {
		t.Fatalf("batches = %+v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("batch %d = %+v want %+v", i, got[i], want[i])
		}
	}

	// Sorting is stable: equal handles keep their insertion order.
	wantCols := []int{1, 2, 0, 4, 3}
	for i, inst := range f.m.Instances() {
		if inst.At.Col != wantCols[i] {
			t.Errorf("instance %d on column %d want %d", i, inst.At.Col, wantCols[i])
		}
	}
}

func TestTokenManager_DrawOneCallPerBatch(t *testing.T) {
	layout := hex.NewLayout(hex.PointUp, 32)
	f := newFixture(t, layout, hex.TokenOptions{}, hex.TokenOptions{Mask: hex.MaskClip, Scale: true})
	a, b := f.handles[0], f.handles[1]
	_ = f.m.AppendInstances(
		hex.TokenInstance{At: hex.Coord{Col: 1, Row: 1}, Token: b},
		hex.TokenInstance{At: hex.Coord{Col: 0, Row: 0}, Token: a},
		hex.TokenInstance{At: hex.Coord{Col: 2, Row: 3}, Token: b},
	)
	f.drv.ResetDraws()

	if err := f.m.Draw(mgl32.Ident4()); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if len(f.drv.Draws) != 2 {
		t.Fatalf("draws = %d", len(f.drv.Draws))
	}
	for i, want := range []struct {
		count  int
		first  int
		tex    uint32
		mask   float32
		width  float32
		height float32
	}{
		{1, 0, f.tokens[0].Texture().ID(), 0, 8, 8},
		{2, 1, f.tokens[1].Texture().ID(), 2, 32, 32.0 * 8 / 9},
	} {
		d := f.drv.Draws[i]
		if !d.Instanced || d.Count != fgl.QuadVertices || d.Instances != int32(want.count*fgl.QuadVertices) {
			t.Errorf("draw %d = count %d instances %d", i, d.Count, d.Instances)
		}
		if off := d.Attribs[1]; off.Offset != want.first*8 || off.Divisor != fgl.QuadVertices {
			t.Errorf("draw %d offsets attrib = %+v", i, off)
		}
		if d.Textures[0] != want.tex {
			t.Errorf("draw %d texture %d want %d", i, d.Textures[0], want.tex)
		}
		if v := d.Uniforms["mask"]; len(v) != 1 || v[0] != want.mask {
			t.Errorf("draw %d mask = %v", i, v)
		}
		if v := d.Uniforms["dimensions"]; len(v) != 2 || !near(v[0], want.width) || !near(v[1], want.height) {
			t.Errorf("draw %d dimensions = %v", i, v)
		}
		if v := d.Uniforms["tile"]; len(v) != 1 || v[0] != 32 {
			t.Errorf("draw %d tile = %v", i, v)
		}
	}
	if f.m.Dirty() {
		t.Error("manager still dirty after draw")
	}
}

func TestTokenManager_OffsetsIncludeAnchor(t *testing.T) {
	layout := hex.NewLayout(hex.FlatUp, 40)
	f := newFixture(t, layout, hex.TokenOptions{}, hex.TokenOptions{Anchor: hex.AnchorCorner(2)})
	_ = f.m.AppendInstances(
		hex.TokenInstance{At: hex.Coord{Col: 3, Row: 1}, Token: f.handles[0]},
		hex.TokenInstance{At: hex.Coord{Col: 2, Row: 2}, Token: f.handles[1]},
	)
	if err := f.m.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	slot := f.drv.VertexArray(1).Attribs[1]
	got := floats(f.drv.Buffer(slot.Buffer).Data)
	want := []mgl32.Vec2{
		layout.WorldPosition(3, 1).Add(layout.Center()),
		layout.WorldPosition(2, 2).Add(layout.CornerOffset(2)),
	}
	if len(got) != 4 {
		t.Fatalf("offset buffer holds %d floats", len(got))
	}
	for i, w := range want {
		if !near(got[i*2], w[0]) || !near(got[i*2+1], w[1]) {
			t.Errorf("instance %d at %v,%v want %v", i, got[i*2], got[i*2+1], w)
		}
	}
}

func TestTokenManager_UnknownHandle(t *testing.T) {
	f := newFixture(t, hex.NewLayout(hex.PointUp, 16), hex.TokenOptions{})
	err := f.m.AppendInstances(
		hex.TokenInstance{Token: f.handles[0]},
		hex.TokenInstance{Token: 7},
	)
	if !errors.Is(err, fgl.ErrOutOfRange) {
		t.Fatalf("err = %v", err)
	}
	if n := len(f.m.Instances()); n != 0 {
		t.Errorf("%d instances appended", n)
	}
	if _, err := f.m.Token(-1); !errors.Is(err, fgl.ErrOutOfRange) {
		t.Errorf("Token(-1) = %v", err)
	}
}

func TestTokenManager_FindInstancesAtMarksDirty(t *testing.T) {
	f := newFixture(t, hex.NewLayout(hex.PointUp, 16), hex.TokenOptions{}, hex.TokenOptions{})
	here := hex.Coord{Col: 1, Row: 1}
	_ = f.m.AppendInstances(
		hex.TokenInstance{At: here, Token: f.handles[0]},
		hex.TokenInstance{At: hex.Coord{Col: 0, Row: 0}, Token: f.handles[0]},
	)
	if err := f.m.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if f.m.Dirty() {
		t.Fatal("dirty after update")
	}

	found := f.m.FindInstancesAt(here)
	if len(found) != 1 {
		t.Fatalf("found %d", len(found))
	}
	if !f.m.Dirty() {
		t.Error("FindInstancesAt did not mark the manager dirty")
	}
	found[0].Token = f.handles[1]
	if err := f.m.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if b := f.m.Batches(); len(b) != 2 || b[1].Token != f.handles[1] {
		t.Errorf("batches = %+v", b)
	}

	if n := f.m.RemoveInstancesAt(here); n != 1 {
		t.Errorf("removed %d", n)
	}
	if n := f.m.RemoveInstancesAt(hex.Coord{Col: 9, Row: 9}); n != 0 {
		t.Errorf("removed %d from empty cell", n)
	}
}

func TestTokenManager_NoInstancesNoDraws(t *testing.T) {
	f := newFixture(t, hex.NewLayout(hex.PointUp, 16), hex.TokenOptions{})
	f.drv.ResetDraws()
	if err := f.m.Draw(mgl32.Ident4()); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if len(f.drv.Draws) != 0 {
		t.Errorf("draws = %d", len(f.drv.Draws))
	}
}

func TestTokenManager_ReleaseFreesTokens(t *testing.T) {
	f := newFixture(t, hex.NewLayout(hex.PointUp, 16), hex.TokenOptions{}, hex.TokenOptions{})
	f.m.Release()
	for kind, n := range map[fgl.Kind]int{
		fgl.KindTexture:     0,
		fgl.KindBuffer:      0,
		fgl.KindVertexArray: 0,
		fgl.KindProgram:     0,
	} {
		if got := f.drv.LiveCount(kind); got != n {
			t.Errorf("%s: %d live", kind, got)
		}
	}
}

func TestParseMask(t *testing.T) {
	for s, want := range map[string]hex.Mask{"": hex.MaskNone, "behind": hex.MaskBehind, "clip": hex.MaskClip} {
		if got, err := hex.ParseMask(s); err != nil || got != want {
			t.Errorf("%q -> %v, %v", s, got, err)
		}
	}
	if _, err := hex.ParseMask("fog"); err == nil {
		t.Error("expected error")
	}
}
