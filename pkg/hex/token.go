package hex

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/kjkrol/feywild/pkg/fgl"
)

// Mask limits where a token is visible relative to the hex it is centred on.
type Mask uint8

const (
	MaskNone Mask = iota
	// MaskBehind hides the token inside the hex, leaving what sticks out.
	MaskBehind
	// MaskClip hides the token outside the hex.
	MaskClip
)

func (m Mask) String() string {
	switch m {
	case MaskBehind:
		return "behind"
	case MaskClip:
		return "clip"
	default:
		return "none"
	}
}

// ParseMask accepts "", "none", "behind" and "clip".
func ParseMask(s string) (Mask, error) {
	switch s {
	case "", "none":
		return MaskNone, nil
	case "behind":
		return MaskBehind, nil
	case "clip":
		return MaskClip, nil
	}
	return MaskNone, fmt.Errorf("hex: unknown mask %q", s)
}

// Anchor places a token on the centre of its tile or on one of its corners.
type Anchor struct {
	OnCorner bool
	Corner   int
}

// AnchorTile centres tokens on their tile.
var AnchorTile = Anchor{}

// AnchorCorner puts tokens on hex vertex corner (0..5), numbered as in
// Layout.CornerOffset for the manager's orientation.
func AnchorCorner(corner int) Anchor {
	return Anchor{OnCorner: true, Corner: corner}
}

type TokenOptions struct {
	// NominalSize is the side of the square the token is drawn into when
	// Scale is off. Zero draws the image at its pixel size.
	NominalSize int
	// Scale fits the image inside one tile, keeping its aspect ratio.
	Scale  bool
	Mask   Mask
	Anchor Anchor
}

// Token is one kind of piece: its image and how to draw it.
type Token struct {
	texture       *fgl.Texture2D
	width, height int
	opts          TokenOptions
}

// NewToken uploads px and returns the token definition.
func NewToken(drv fgl.Driver, px *fgl.Pixels, opts TokenOptions) (*Token, error) {
	if opts.Anchor.OnCorner && (opts.Anchor.Corner < 0 || opts.Anchor.Corner > 5) {
		return nil, fmt.Errorf("hex: token corner %d: %w", opts.Anchor.Corner, fgl.ErrOutOfRange)
	}
	if opts.NominalSize < 0 {
		return nil, fmt.Errorf("hex: token size %d: %w", opts.NominalSize, fgl.ErrOutOfRange)
	}
	return &Token{
		texture: fgl.NewTexture2DFromPixels(drv, px),
		width:   px.Width,
		height:  px.Height,
		opts:    opts,
	}, nil
}

// Size returns the on-screen size of the token on tiles of side tileSize.
func (t *Token) Size(tileSize float32) mgl32.Vec2 {
	w, h := float32(t.width), float32(t.height)
	switch {
	case t.opts.Scale:
		if w > h {
			return mgl32.Vec2{tileSize, tileSize * h / w}
		}
		return mgl32.Vec2{tileSize * w / h, tileSize}
	case t.opts.NominalSize > 0:
		n := float32(t.opts.NominalSize)
		return mgl32.Vec2{n, n}
	default:
		return mgl32.Vec2{w, h}
	}
}

func (t *Token) Texture() *fgl.Texture2D { return t.texture }
func (t *Token) Options() TokenOptions   { return t.opts }

// Dimensions returns the intrinsic pixel size of the token image.
func (t *Token) Dimensions() (int, int) { return t.width, t.height }

func (t *Token) Release() { t.texture.Release() }

// TokenHandle indexes the token definitions of one TokenManager. Handles stay
// valid for the life of the manager.
type TokenHandle int

// TokenInstance is one token standing on one cell.
type TokenInstance struct {
	At    Coord
	Token TokenHandle
}

// Batch is a run of instances of one token drawn by one instanced call.
type Batch struct {
	Token TokenHandle
	First int
	Count int
}

// TokenManager draws every token instance, one instanced call per token kind.
//
// Instances are kept sorted by handle before drawing so each kind is a
// contiguous run of the offset buffer. GL 3.3 has no base instance, so each
// run is reached by pointing the offset attribute at the run's first element.
type TokenManager struct {
	layout    Layout
	tokens    []*Token
	instances []TokenInstance
	batches   []Batch

	program  *fgl.Program
	vao      *fgl.VertexArray
	quad     *fgl.VertexBuffer
	offsets  *fgl.VertexBuffer
	capacity int
	dirty    bool
}

// NewTokenManager builds a manager drawing on tiles laid out by layout and
// returns the handles of tokens in order.
func NewTokenManager(drv fgl.Driver, layout Layout, tokens ...*Token) (*TokenManager, []TokenHandle, error) {
	prog, err := fgl.BuildProgram(drv, TokenVertexShader, TokenFragmentShader)
	if err != nil {
		return nil, nil, fmt.Errorf("hex: token program: %w", err)
	}
	m := &TokenManager{
		layout:  layout,
		program: prog,
		vao:     fgl.NewVertexArray(drv),
	}
	bufs := fgl.NewVertexBuffers(drv, 2)
	m.quad, m.offsets = bufs[0], bufs[1]

	if err := fgl.AllocWith(m.quad, fgl.Quad[:], fgl.Static, fgl.Draw); err != nil {
		m.Release()
		return nil, nil, err
	}
	if err := m.vao.BindAttribute(m.quad, fgl.Attrib[float32](slotQuad).WithComponents(2)); err != nil {
		m.Release()
		return nil, nil, err
	}
	if err := m.bindOffsets(0); err != nil {
		m.Release()
		return nil, nil, err
	}
	return m, m.AppendTokens(tokens...), nil
}

func (m *TokenManager) bindOffsets(first int) error {
	return m.vao.BindAttribute(m.offsets, fgl.Attrib[float32](slotOffset).
		WithComponents(2).
		WithDivisor(fgl.QuadVertices).
		WithOffset(first*2*4))
}

// AppendTokens adds token definitions and returns their handles.
func (m *TokenManager) AppendTokens(tokens ...*Token) []TokenHandle {
	handles := make([]TokenHandle, len(tokens))
	for i, t := range tokens {
		handles[i] = TokenHandle(len(m.tokens))
		m.tokens = append(m.tokens, t)
	}
	return handles
}

// Token returns the definition behind h.
func (m *TokenManager) Token(h TokenHandle) (*Token, error) {
	if !m.valid(h) {
		return nil, fmt.Errorf("hex: token handle %d of %d: %w", h, len(m.tokens), fgl.ErrOutOfRange)
	}
	return m.tokens[h], nil
}

func (m *TokenManager) valid(h TokenHandle) bool {
	return h >= 0 && int(h) < len(m.tokens)
}

// AppendInstances places tokens on cells. If any instance names an unknown
// token nothing is appended.
func (m *TokenManager) AppendInstances(instances ...TokenInstance) error {
	for _, inst := range instances {
		if !m.valid(inst.Token) {
			return fmt.Errorf("hex: token handle %d of %d: %w", inst.Token, len(m.tokens), fgl.ErrOutOfRange)
		}
	}
	m.instances = append(m.instances, instances...)
	m.dirty = true
	return nil
}

// FindInstancesAt returns the instances standing on c for in-place editing.
// The pointers stay valid until the next Update or AppendInstances.
func (m *TokenManager) FindInstancesAt(c Coord) []*TokenInstance {
	m.dirty = true
	var out []*TokenInstance
	for i := range m.instances {
		if m.instances[i].At == c {
			out = append(out, &m.instances[i])
		}
	}
	return out
}

// RemoveInstancesAt drops every instance standing on c and returns how many
// were removed.
func (m *TokenManager) RemoveInstancesAt(c Coord) int {
	kept := m.instances[:0]
	for _, inst := range m.instances {
		if inst.At != c {
			kept = append(kept, inst)
		}
	}
	removed := len(m.instances) - len(kept)
	m.instances = kept
	if removed > 0 {
		m.dirty = true
	}
	return removed
}

// Instances returns a copy of the instances in draw order.
func (m *TokenManager) Instances() []TokenInstance {
	return append([]TokenInstance(nil), m.instances...)
}

// Dirty reports whether the next Draw re-sorts and re-uploads.
func (m *TokenManager) Dirty() bool { return m.dirty }

func (m *TokenManager) anchorPoint(t *Token) mgl32.Vec2 {
	if t.opts.Anchor.OnCorner {
		return m.layout.CornerOffset(t.opts.Anchor.Corner)
	}
	return m.layout.Center()
}

// Update sorts instances by token handle, regroups the batches and uploads
// every instance position.
func (m *TokenManager) Update() error {
	for _, inst := range m.instances {
		if !m.valid(inst.Token) {
			return fmt.Errorf("hex: token handle %d of %d: %w", inst.Token, len(m.tokens), fgl.ErrOutOfRange)
		}
	}
	sort.SliceStable(m.instances, func(i, j int) bool {
		return m.instances[i].Token < m.instances[j].Token
	})

	m.batches = m.batches[:0]
	data := make([]float32, 0, len(m.instances)*2)
	for i, inst := range m.instances {
		if n := len(m.batches); n == 0 || m.batches[n-1].Token != inst.Token {
			m.batches = append(m.batches, Batch{Token: inst.Token, First: i})
		}
		m.batches[len(m.batches)-1].Count++
		p := m.layout.WorldPosition(inst.At.Col, inst.At.Row).Add(m.anchorPoint(m.tokens[inst.Token]))
		data = append(data, p[0], p[1])
	}

	if len(m.instances) > m.capacity {
		if err := fgl.AllocWith(m.offsets, data, fgl.Dynamic, fgl.Draw); err != nil {
			return err
		}
		m.capacity = len(m.instances)
	} else if err := fgl.ReplaceSubData(m.offsets, 0, data); err != nil {
		return err
	}
	m.dirty = false
	fgl.Logger().Debug("hex: token batches rebuilt", "instances", len(m.instances), "batches", len(m.batches))
	return nil
}

// Batches returns the draw plan of the last Update.
func (m *TokenManager) Batches() []Batch {
	return append([]Batch(nil), m.batches...)
}

// Draw updates the manager if needed and issues one instanced draw per batch.
func (m *TokenManager) Draw(projection mgl32.Mat4) error {
	if m.dirty {
		if err := m.Update(); err != nil {
			return err
		}
	}
	if len(m.batches) == 0 {
		return nil
	}
	m.program.Bind()
	m.program.SetMat4("projection", projection)
	m.program.SetFloat("tile", m.layout.TileSize)
	m.program.SetInt("flatUp", boolToInt(m.layout.Orientation == FlatUp))
	m.program.SetInt("token", 0)
	for _, b := range m.batches {
		t := m.tokens[b.Token]
		t.texture.Bind(0)
		m.program.SetVec2("dimensions", t.Size(m.layout.TileSize))
		m.program.SetInt("mask", int32(t.opts.Mask))
		if err := m.bindOffsets(b.First); err != nil {
			return err
		}
		m.vao.DrawInstanced(0, fgl.QuadVertices, int32(b.Count*fgl.QuadVertices))
	}
	return nil
}

func boolToInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

// Layout returns the layout instances are placed with.
func (m *TokenManager) Layout() Layout { return m.layout }

// Release frees the manager's GL objects and every token definition.
func (m *TokenManager) Release() {
	m.program.Release()
	m.vao.Release()
	m.quad.Release()
	m.offsets.Release()
	for _, t := range m.tokens {
		t.Release()
	}
}
