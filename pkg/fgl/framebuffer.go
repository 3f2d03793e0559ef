package fgl

import (
	"fmt"
)

// Attachment is a framebuffer attachment point.
type Attachment uint32

const (
	AttachDepth        = Attachment(DepthAttachment)
	AttachStencil      = Attachment(StencilAttachment)
	AttachDepthStencil = Attachment(DepthStencilAttachment)
)

// MaxColorAttachments is the minimum number of colour attachments every GL 3.3
// implementation provides.
const MaxColorAttachments = 8

// AttachColor returns colour attachment point i.
func AttachColor(i int) Attachment {
	return Attachment(ColorAttachment0 + uint32(i))
}

func (a Attachment) String() string {
	switch a {
	case AttachDepth:
		return "depth"
	case AttachStencil:
		return "stencil"
	case AttachDepthStencil:
		return "depth+stencil"
	}
	if i, ok := a.ColorIndex(); ok {
		return fmt.Sprintf("color%d", i)
	}
	return fmt.Sprintf("attachment(%#x)", uint32(a))
}

// ColorIndex returns i for AttachColor(i).
func (a Attachment) ColorIndex() (int, bool) {
	i := int(uint32(a)) - int(ColorAttachment0)
	return i, i >= 0 && i < MaxColorAttachments
}

// Incompleteness names why a framebuffer cannot be drawn to or read from.
type Incompleteness uint8

const (
	Undefined Incompleteness = iota + 1
	IncompleteAttachment
	MissingAttachment
	IncompleteDrawBuffer
	IncompleteReadBuffer
	Unsupported
	IncompleteMultisample
	IncompleteLayerTargets
)

var incompletenessNames = map[Incompleteness]string{
	Undefined:              "undefined",
	IncompleteAttachment:   "incomplete attachment",
	MissingAttachment:      "missing attachment",
	IncompleteDrawBuffer:   "incomplete draw buffer",
	IncompleteReadBuffer:   "incomplete read buffer",
	Unsupported:            "unsupported",
	IncompleteMultisample:  "incomplete multisample",
	IncompleteLayerTargets: "incomplete layer targets",
}

func (i Incompleteness) String() string {
	if name, ok := incompletenessNames[i]; ok {
		return name
	}
	return fmt.Sprintf("incompleteness(%d)", uint8(i))
}

// statusError maps a CheckFramebufferStatus result to nil or *IncompleteError.
// Codes the driver invents beyond GL 3.3 are reported as Unsupported.
func statusError(status uint32) error {
	var reason Incompleteness
	switch status {
	case FramebufferComplete:
		return nil
	case FramebufferUndefined:
		reason = Undefined
	case FramebufferIncompleteAttachment:
		reason = IncompleteAttachment
	case FramebufferIncompleteMissingAttachment:
		reason = MissingAttachment
	case FramebufferIncompleteDrawBuffer:
		reason = IncompleteDrawBuffer
	case FramebufferIncompleteReadBuffer:
		reason = IncompleteReadBuffer
	case FramebufferIncompleteMultisample:
		reason = IncompleteMultisample
	case FramebufferIncompleteLayerTargets:
		reason = IncompleteLayerTargets
	default:
		reason = Unsupported
	}
	return &IncompleteError{Reason: reason}
}

// Attachable is a resource that can back a framebuffer attachment point.
// *Texture2D and *RenderBuffer implement it.
type Attachable interface {
	ID() uint32
	Kind() Kind
	Live() bool
	Size() (int, int)
}

// NoDrawBuffer disables fragment output for a draw buffer slot.
const NoDrawBuffer = -1

// FrameBuffer owns a framebuffer object. Attached resources stay owned by the
// caller and must outlive their attachment.
type FrameBuffer struct {
	handle
	attachments map[Attachment]Attachable
	drawBuffers []int
	status      error
}

func NewFrameBuffer(drv Driver) *FrameBuffer {
	return NewFrameBuffers(drv, 1)[0]
}

// NewFrameBuffers allocates n framebuffers in one driver call.
func NewFrameBuffers(drv Driver, n int) []*FrameBuffer {
	ids := genHandles(drv, KindFrameBuffer, n)
	out := make([]*FrameBuffer, n)
	for i, id := range ids {
		fb := &FrameBuffer{attachments: make(map[Attachment]Attachable)}
		fb.init(drv, KindFrameBuffer, id)
		fb.recheck()
		out[i] = fb
	}
	return out
}

// BindDefault binds the window-system framebuffer.
func BindDefault(drv Driver) {
	drv.BindFramebuffer(FramebufferTarget, 0)
}

func (f *FrameBuffer) Bind() {
	f.drv.BindFramebuffer(FramebufferTarget, f.id)
}

func (f *FrameBuffer) Unbind() {
	BindDefault(f.drv)
}

// AttachTexture attaches level 0 of t at point a.
func (f *FrameBuffer) AttachTexture(t *Texture2D, a Attachment) error {
	if err := f.checkAttach(t); err != nil {
		return err
	}
	f.Bind()
	f.drv.FramebufferTexture(FramebufferTarget, uint32(a), t.ID(), 0)
	f.attachments[a] = t
	f.recheck()
	return nil
}

// AttachRenderBuffer attaches rb at point a.
func (f *FrameBuffer) AttachRenderBuffer(rb *RenderBuffer, a Attachment) error {
	if err := f.checkAttach(rb); err != nil {
		return err
	}
	f.Bind()
	f.drv.FramebufferRenderbuffer(FramebufferTarget, uint32(a), RenderbufferTarget, rb.ID())
	f.attachments[a] = rb
	f.recheck()
	return nil
}

// Detach clears attachment point a.
func (f *FrameBuffer) Detach(a Attachment) error {
	if err := f.checkLive(); err != nil {
		return err
	}
	f.Bind()
	f.drv.FramebufferTexture(FramebufferTarget, uint32(a), 0, 0)
	delete(f.attachments, a)
	f.recheck()
	return nil
}

func (f *FrameBuffer) checkAttach(res Attachable) error {
	if err := f.checkLive(); err != nil {
		return err
	}
	if !res.Live() {
		return fmt.Errorf("%w: attach of %s", ErrReleased, res.Kind())
	}
	return nil
}

// Attached returns the resource at point a.
func (f *FrameBuffer) Attached(a Attachment) (Attachable, bool) {
	res, ok := f.attachments[a]
	return res, ok
}

func (f *FrameBuffer) recheck() {
	f.Bind()
	f.status = statusError(f.drv.CheckFramebufferStatus(FramebufferTarget))
	if f.status != nil {
		Logger().Debug("fgl: framebuffer not complete", "id", f.id, "reason", f.status)
	}
}

// Status returns nil when the framebuffer is complete, otherwise an
// *IncompleteError naming the reason. It is refreshed after every attachment
// or draw buffer change.
func (f *FrameBuffer) Status() error {
	if err := f.checkLive(); err != nil {
		return err
	}
	return f.status
}

// SetDrawBuffers routes fragment output i to colour attachment targets[i].
// NoDrawBuffer discards output i.
func (f *FrameBuffer) SetDrawBuffers(targets ...int) error {
	if err := f.checkLive(); err != nil {
		return err
	}
	bufs := make([]uint32, len(targets))
	for i, t := range targets {
		switch {
		case t == NoDrawBuffer:
			bufs[i] = None
		case t >= 0 && t < MaxColorAttachments:
			bufs[i] = uint32(AttachColor(t))
		default:
			return outOfRange("draw buffer %d targets colour attachment %d", i, t)
		}
	}
	f.Bind()
	f.drv.DrawBuffers(bufs)
	f.drawBuffers = append(f.drawBuffers[:0], targets...)
	f.recheck()
	return nil
}

// DrawBuffers returns the draw buffer routing last set.
func (f *FrameBuffer) DrawBuffers() []int {
	return append([]int(nil), f.drawBuffers...)
}

// ClearInt clears draw buffer i of a signed integer attachment.
func (f *FrameBuffer) ClearInt(i int, value [4]int32) {
	f.Bind()
	f.drv.ClearBufferiv(Color, int32(i), value[:])
}

// ClearUint clears draw buffer i of an unsigned or normalized attachment.
func (f *FrameBuffer) ClearUint(i int, value [4]uint32) {
	f.Bind()
	f.drv.ClearBufferuiv(Color, int32(i), value[:])
}

// ClearFloat clears draw buffer i of a float or normalized attachment.
func (f *FrameBuffer) ClearFloat(i int, value [4]float32) {
	f.Bind()
	f.drv.ClearBufferfv(Color, int32(i), value[:])
}

// ClearDepth clears the depth attachment.
func (f *FrameBuffer) ClearDepth(depth float32) {
	f.Bind()
	f.drv.ClearBufferfv(Depth, 0, []float32{depth})
}

// RenderBufferFormat is the storage format of a renderbuffer.
type RenderBufferFormat uint32

const (
	RenderRGBA8           = RenderBufferFormat(GLRGBA8)
	RenderDepth16         = RenderBufferFormat(DepthComponent16)
	RenderDepth24Stencil8 = RenderBufferFormat(Depth24Stencil8)
)

func (f RenderBufferFormat) String() string {
	switch f {
	case RenderRGBA8:
		return "RGBA8"
	case RenderDepth16:
		return "DEPTH16"
	case RenderDepth24Stencil8:
		return "DEPTH24_STENCIL8"
	default:
		return fmt.Sprintf("RenderBufferFormat(%#x)", uint32(f))
	}
}

// RenderBuffer owns a renderbuffer object. It has no storage until Alloc.
type RenderBuffer struct {
	handle
	width, height int
	format        RenderBufferFormat
	samples       int
}

func NewRenderBuffer(drv Driver) *RenderBuffer {
	return NewRenderBuffers(drv, 1)[0]
}

// NewRenderBuffers allocates n renderbuffers in one driver call.
func NewRenderBuffers(drv Driver, n int) []*RenderBuffer {
	ids := genHandles(drv, KindRenderBuffer, n)
	out := make([]*RenderBuffer, n)
	for i, id := range ids {
		rb := &RenderBuffer{}
		rb.init(drv, KindRenderBuffer, id)
		out[i] = rb
	}
	return out
}

func (r *RenderBuffer) Bind() {
	r.drv.BindRenderbuffer(RenderbufferTarget, r.id)
}

// Alloc (re)allocates storage. samples 0 means single-sampled.
func (r *RenderBuffer) Alloc(width, height int, format RenderBufferFormat, samples int) error {
	if err := r.checkLive(); err != nil {
		return err
	}
	if width <= 0 || height <= 0 || samples < 0 {
		return outOfRange("renderbuffer %dx%d with %d samples", width, height, samples)
	}
	r.Bind()
	r.drv.RenderbufferStorageMultisample(RenderbufferTarget, int32(samples), uint32(format), int32(width), int32(height))
	r.width, r.height, r.format, r.samples = width, height, format, samples
	return nil
}

// Size returns width and height in pixels, zero before Alloc.
func (r *RenderBuffer) Size() (int, int) { return r.width, r.height }

func (r *RenderBuffer) Format() RenderBufferFormat { return r.format }

func (r *RenderBuffer) Samples() int { return r.samples }
