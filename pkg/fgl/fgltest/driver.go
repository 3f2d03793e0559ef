// Package fgltest provides an in-memory fgl.Driver that tracks GL object
// state closely enough to test code built on fgl without a GPU.
package fgltest

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/kjkrol/feywild/pkg/fgl"
)

type Buffer struct {
	Data  []byte
	Usage uint32
	// SubWrites counts BufferSubData calls.
	SubWrites int
}

type Attrib struct {
	Buffer     uint32
	Enabled    bool
	Components int32
	Type       uint32
	Normalized bool
	Stride     int32
	Offset     int
	Divisor    uint32
}

type VertexArray struct {
	Attribs map[uint32]Attrib
}

type Texture struct {
	Width, Height  int
	InternalFormat int32
	// Pixels are stored top row first in RGB or RGBA order according to
	// InternalFormat.
	Pixels     []byte
	Mipmaps    int
	MinFilter  int32
	MagFilter  int32
	Parameters map[uint32]int32
}

// BytesPerPixel of the stored pixels.
func (t *Texture) BytesPerPixel() int {
	if uint32(t.InternalFormat) == fgl.GLRGB8 {
		return 3
	}
	return 4
}

// Pixel returns the stored channels at (x, y).
func (t *Texture) Pixel(x, y int) []byte {
	bpp := t.BytesPerPixel()
	i := (y*t.Width + x) * bpp
	return t.Pixels[i : i+bpp]
}

type attachment struct {
	kind fgl.Kind
	id   uint32
}

type Framebuffer struct {
	Attachments map[uint32]attachment
	DrawBuffers []uint32
	Clears      []Clear
}

// Clear records one ClearBuffer* call.
type Clear struct {
	Buffer     uint32
	DrawBuffer int32
	Value      any
}

type Renderbuffer struct {
	Width, Height int
	Format        uint32
	Samples       int
}

type Shader struct {
	Type     uint32
	Source   string
	Compiled bool
	Log      string
}

type Program struct {
	Shaders  []uint32
	Linked   bool
	Log      string
	Uniforms map[string][]float32

	locations map[string]int32
	names     map[int32]string
}

// Draw records one DrawArrays or DrawArraysInstanced call together with the
// state it would have used.
type Draw struct {
	Instanced   bool
	First       int32
	Count       int32
	Instances   int32
	Program     uint32
	VertexArray uint32
	Framebuffer uint32
	Textures    map[uint32]uint32
	Attribs     map[uint32]Attrib
	Uniforms    map[string][]float32
}

// Driver emulates a GL 3.3 core context. The zero value is not usable; call
// New.
type Driver struct {
	// FailAllocations makes every Gen* call return zero names.
	FailAllocations bool
	// DefaultUndefined reports the default framebuffer as undefined.
	DefaultUndefined bool

	calls   int
	nextID  map[fgl.Kind]uint32
	deleted map[fgl.Kind][]uint32
	// DoubleDeletes counts deletes of names that were not live.
	DoubleDeletes int

	buffers       map[uint32]*Buffer
	vertexArrays  map[uint32]*VertexArray
	textures      map[uint32]*Texture
	framebuffers  map[uint32]*Framebuffer
	renderbuffers map[uint32]*Renderbuffer
	shaders       map[uint32]*Shader
	programs      map[uint32]*Program

	boundBuffer       uint32
	boundVertexArray  uint32
	activeUnit        uint32
	units             map[uint32]uint32
	boundFramebuffer  uint32
	boundRenderbuffer uint32
	currentProgram    uint32

	errors []uint32
	Draws  []Draw

	ViewportRect [4]int32
	ClearRGBA    [4]float32
	Cleared      []uint32
	Enabled      map[uint32]bool
	Blend        [2]uint32
}

func New() *Driver {
	return &Driver{
		nextID:        make(map[fgl.Kind]uint32),
		deleted:       make(map[fgl.Kind][]uint32),
		buffers:       make(map[uint32]*Buffer),
		vertexArrays:  make(map[uint32]*VertexArray),
		textures:      make(map[uint32]*Texture),
		framebuffers:  make(map[uint32]*Framebuffer),
		renderbuffers: make(map[uint32]*Renderbuffer),
		shaders:       make(map[uint32]*Shader),
		programs:      make(map[uint32]*Program),
		units:         make(map[uint32]uint32),
		Enabled:       make(map[uint32]bool),
	}
}

var _ fgl.Driver = (*Driver)(nil)

// Calls returns the number of driver calls made so far.
func (d *Driver) Calls() int { return d.calls }

// PushError queues codes for GetError.
func (d *Driver) PushError(codes ...uint32) {
	d.errors = append(d.errors, codes...)
}

// Deleted returns the names of kind deleted so far, in order.
func (d *Driver) Deleted(kind fgl.Kind) []uint32 {
	return append([]uint32(nil), d.deleted[kind]...)
}

// Live reports whether name id of kind exists.
func (d *Driver) Live(kind fgl.Kind, id uint32) bool {
	switch kind {
	case fgl.KindBuffer:
		return d.buffers[id] != nil
	case fgl.KindVertexArray:
		return d.vertexArrays[id] != nil
	case fgl.KindTexture:
		return d.textures[id] != nil
	case fgl.KindFrameBuffer:
		return d.framebuffers[id] != nil
	case fgl.KindRenderBuffer:
		return d.renderbuffers[id] != nil
	case fgl.KindShader:
		return d.shaders[id] != nil
	case fgl.KindProgram:
		return d.programs[id] != nil
	}
	return false
}

// LiveCount returns how many objects of kind exist.
func (d *Driver) LiveCount(kind fgl.Kind) int {
	switch kind {
	case fgl.KindBuffer:
		return len(d.buffers)
	case fgl.KindVertexArray:
		return len(d.vertexArrays)
	case fgl.KindTexture:
		return len(d.textures)
	case fgl.KindFrameBuffer:
		return len(d.framebuffers)
	case fgl.KindRenderBuffer:
		return len(d.renderbuffers)
	case fgl.KindShader:
		return len(d.shaders)
	case fgl.KindProgram:
		return len(d.programs)
	}
	return 0
}

func (d *Driver) Buffer(id uint32) *Buffer             { return d.buffers[id] }
func (d *Driver) VertexArray(id uint32) *VertexArray   { return d.vertexArrays[id] }
func (d *Driver) Texture(id uint32) *Texture           { return d.textures[id] }
func (d *Driver) Framebuffer(id uint32) *Framebuffer   { return d.framebuffers[id] }
func (d *Driver) Renderbuffer(id uint32) *Renderbuffer { return d.renderbuffers[id] }
func (d *Driver) Shader(id uint32) *Shader             { return d.shaders[id] }
func (d *Driver) Program(id uint32) *Program           { return d.programs[id] }

// BoundTexture returns the texture bound to unit.
func (d *Driver) BoundTexture(unit uint32) uint32 { return d.units[unit] }

// BoundFramebuffer returns the framebuffer currently bound.
func (d *Driver) BoundFramebuffer() uint32 { return d.boundFramebuffer }

// CurrentProgram returns the program in use.
func (d *Driver) CurrentProgram() uint32 { return d.currentProgram }

// ResetDraws forgets recorded draws.
func (d *Driver) ResetDraws() { d.Draws = nil }

func (d *Driver) gen(kind fgl.Kind, n int) []uint32 {
	d.calls++
	ids := make([]uint32, n)
	if d.FailAllocations {
		return ids
	}
	for i := range ids {
		d.nextID[kind]++
		ids[i] = d.nextID[kind]
	}
	return ids
}

func (d *Driver) markDeleted(kind fgl.Kind, id uint32, live bool) {
	if id == 0 {
		return
	}
	if !live {
		d.DoubleDeletes++
		return
	}
	d.deleted[kind] = append(d.deleted[kind], id)
}

func (d *Driver) fail(code uint32) {
	d.errors = append(d.errors, code)
}

func (d *Driver) GenBuffers(n int) []uint32 {
	ids := d.gen(fgl.KindBuffer, n)
	for _, id := range ids {
		if id != 0 {
			d.buffers[id] = &Buffer{}
		}
	}
	return ids
}

func (d *Driver) DeleteBuffers(ids ...uint32) {
	d.calls++
	for _, id := range ids {
		d.markDeleted(fgl.KindBuffer, id, d.buffers[id] != nil)
		delete(d.buffers, id)
		if d.boundBuffer == id {
			d.boundBuffer = 0
		}
	}
}

func (d *Driver) BindBuffer(target, id uint32) {
	d.calls++
	if id != 0 && d.buffers[id] == nil {
		d.fail(fgl.InvalidOperation)
		return
	}
	d.boundBuffer = id
}

func (d *Driver) BufferData(target uint32, size int, data []byte, usage uint32) {
	d.calls++
	buf := d.buffers[d.boundBuffer]
	if buf == nil {
		d.fail(fgl.InvalidOperation)
		return
	}
	buf.Data = make([]byte, size)
	copy(buf.Data, data)
	buf.Usage = usage
}

func (d *Driver) BufferSubData(target uint32, offset int, data []byte) {
	d.calls++
	buf := d.buffers[d.boundBuffer]
	if buf == nil {
		d.fail(fgl.InvalidOperation)
		return
	}
	if offset < 0 || offset+len(data) > len(buf.Data) {
		d.fail(fgl.InvalidValue)
		return
	}
	copy(buf.Data[offset:], data)
	buf.SubWrites++
}

func (d *Driver) GenVertexArrays(n int) []uint32 {
	ids := d.gen(fgl.KindVertexArray, n)
	for _, id := range ids {
		if id != 0 {
			d.vertexArrays[id] = &VertexArray{Attribs: make(map[uint32]Attrib)}
		}
	}
	return ids
}

func (d *Driver) DeleteVertexArrays(ids ...uint32) {
	d.calls++
	for _, id := range ids {
		d.markDeleted(fgl.KindVertexArray, id, d.vertexArrays[id] != nil)
		delete(d.vertexArrays, id)
		if d.boundVertexArray == id {
			d.boundVertexArray = 0
		}
	}
}

func (d *Driver) BindVertexArray(id uint32) {
	d.calls++
	if id != 0 && d.vertexArrays[id] == nil {
		d.fail(fgl.InvalidOperation)
		return
	}
	d.boundVertexArray = id
}

func (d *Driver) boundVAO() *VertexArray {
	va := d.vertexArrays[d.boundVertexArray]
	if va == nil {
		d.fail(fgl.InvalidOperation)
	}
	return va
}

func (d *Driver) EnableVertexAttribArray(index uint32) {
	d.calls++
	if va := d.boundVAO(); va != nil {
		a := va.Attribs[index]
		a.Enabled = true
		va.Attribs[index] = a
	}
}

func (d *Driver) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset int) {
	d.calls++
	va := d.boundVAO()
	if va == nil {
		return
	}
	if d.boundBuffer == 0 {
		d.fail(fgl.InvalidOperation)
		return
	}
	a := va.Attribs[index]
	a.Buffer = d.boundBuffer
	a.Components = size
	a.Type = xtype
	a.Normalized = normalized
	a.Stride = stride
	a.Offset = offset
	va.Attribs[index] = a
}

func (d *Driver) VertexAttribDivisor(index, divisor uint32) {
	d.calls++
	if va := d.boundVAO(); va != nil {
		a := va.Attribs[index]
		a.Divisor = divisor
		va.Attribs[index] = a
	}
}

func (d *Driver) GenTextures(n int) []uint32 {
	ids := d.gen(fgl.KindTexture, n)
	for _, id := range ids {
		if id != 0 {
			d.textures[id] = &Texture{Parameters: make(map[uint32]int32)}
		}
	}
	return ids
}

func (d *Driver) DeleteTextures(ids ...uint32) {
	d.calls++
	for _, id := range ids {
		d.markDeleted(fgl.KindTexture, id, d.textures[id] != nil)
		delete(d.textures, id)
		for unit, bound := range d.units {
			if bound == id {
				delete(d.units, unit)
			}
		}
	}
}

func (d *Driver) ActiveTexture(unit uint32) {
	d.calls++
	d.activeUnit = unit - fgl.Texture0
}

func (d *Driver) BindTexture(target, id uint32) {
	d.calls++
	if id != 0 && d.textures[id] == nil {
		d.fail(fgl.InvalidOperation)
		return
	}
	d.units[d.activeUnit] = id
}

func (d *Driver) boundTexture() *Texture {
	t := d.textures[d.units[d.activeUnit]]
	if t == nil {
		d.fail(fgl.InvalidOperation)
	}
	return t
}

// canonical converts client pixels to RGB or RGBA order.
func canonical(format uint32, pixels []byte) []byte {
	out := append([]byte(nil), pixels...)
	var bpp int
	switch format {
	case fgl.BGR:
		bpp = 3
	case fgl.BGRA:
		bpp = 4
	default:
		return out
	}
	for i := 0; i+bpp <= len(out); i += bpp {
		out[i], out[i+2] = out[i+2], out[i]
	}
	return out
}

func channels(format uint32) int {
	if format == fgl.RGB || format == fgl.BGR {
		return 3
	}
	return 4
}

func (d *Driver) TexImage2D(target uint32, level, internalFormat, width, height int32, format, xtype uint32, pixels []byte) {
	d.calls++
	t := d.boundTexture()
	if t == nil {
		return
	}
	if width <= 0 || height <= 0 {
		d.fail(fgl.InvalidValue)
		return
	}
	t.Width, t.Height = int(width), int(height)
	t.InternalFormat = internalFormat
	t.Pixels = make([]byte, t.Width*t.Height*t.BytesPerPixel())
	if pixels != nil {
		d.writePixels(t, 0, 0, int(width), int(height), format, pixels)
	}
}

func (d *Driver) writePixels(t *Texture, x, y, w, h int, format uint32, pixels []byte) {
	src := canonical(format, pixels)
	in, out := channels(format), t.BytesPerPixel()
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			s := (row*w + col) * in
			p := t.Pixel(x+col, y+row)
			for c := 0; c < out; c++ {
				if c < in {
					p[c] = src[s+c]
				} else {
					p[c] = 0xFF
				}
			}
		}
	}
}

func (d *Driver) TexSubImage2D(target uint32, level, x, y, width, height int32, format, xtype uint32, pixels []byte) {
	d.calls++
	t := d.boundTexture()
	if t == nil {
		return
	}
	if x < 0 || y < 0 || int(x+width) > t.Width || int(y+height) > t.Height {
		d.fail(fgl.InvalidValue)
		return
	}
	d.writePixels(t, int(x), int(y), int(width), int(height), format, pixels)
}

func (d *Driver) TexParameteri(target, pname uint32, param int32) {
	d.calls++
	t := d.boundTexture()
	if t == nil {
		return
	}
	t.Parameters[pname] = param
	switch pname {
	case fgl.TextureMinFilter:
		t.MinFilter = param
	case fgl.TextureMagFilter:
		t.MagFilter = param
	}
}

func (d *Driver) GenerateMipmap(target uint32) {
	d.calls++
	if t := d.boundTexture(); t != nil {
		t.Mipmaps++
	}
}

func (d *Driver) GenFramebuffers(n int) []uint32 {
	ids := d.gen(fgl.KindFrameBuffer, n)
	for _, id := range ids {
		if id != 0 {
			d.framebuffers[id] = &Framebuffer{
				Attachments: make(map[uint32]attachment),
				DrawBuffers: []uint32{fgl.ColorAttachment0},
			}
		}
	}
	return ids
}

func (d *Driver) DeleteFramebuffers(ids ...uint32) {
	d.calls++
	for _, id := range ids {
		d.markDeleted(fgl.KindFrameBuffer, id, d.framebuffers[id] != nil)
		delete(d.framebuffers, id)
		if d.boundFramebuffer == id {
			d.boundFramebuffer = 0
		}
	}
}

func (d *Driver) BindFramebuffer(target, id uint32) {
	d.calls++
	if id != 0 && d.framebuffers[id] == nil {
		d.fail(fgl.InvalidOperation)
		return
	}
	d.boundFramebuffer = id
}

func (d *Driver) boundFB() *Framebuffer {
	fb := d.framebuffers[d.boundFramebuffer]
	if fb == nil {
		d.fail(fgl.InvalidOperation)
	}
	return fb
}

func (d *Driver) FramebufferTexture(target, point, texture uint32, level int32) {
	d.calls++
	fb := d.boundFB()
	if fb == nil {
		return
	}
	if texture == 0 {
		delete(fb.Attachments, point)
		return
	}
	if d.textures[texture] == nil {
		d.fail(fgl.InvalidOperation)
		return
	}
	fb.Attachments[point] = attachment{kind: fgl.KindTexture, id: texture}
}

func (d *Driver) FramebufferRenderbuffer(target, point, renderbufferTarget, renderbuffer uint32) {
	d.calls++
	fb := d.boundFB()
	if fb == nil {
		return
	}
	if renderbuffer == 0 {
		delete(fb.Attachments, point)
		return
	}
	if d.renderbuffers[renderbuffer] == nil {
		d.fail(fgl.InvalidOperation)
		return
	}
	fb.Attachments[point] = attachment{kind: fgl.KindRenderBuffer, id: renderbuffer}
}

func isColor(point uint32) bool {
	return point >= fgl.ColorAttachment0 && point < fgl.ColorAttachment0+fgl.MaxColorAttachments
}

// CheckFramebufferStatus applies the GL 3.3 completeness rules to the bound
// framebuffer. Attachments of differing sizes are reported as unsupported.
func (d *Driver) CheckFramebufferStatus(target uint32) uint32 {
	d.calls++
	if d.boundFramebuffer == 0 {
		if d.DefaultUndefined {
			return fgl.FramebufferUndefined
		}
		return fgl.FramebufferComplete
	}
	fb := d.framebuffers[d.boundFramebuffer]
	if fb == nil {
		d.fail(fgl.InvalidOperation)
		return 0
	}
	if len(fb.Attachments) == 0 {
		return fgl.FramebufferIncompleteMissingAttachment
	}

	points := make([]uint32, 0, len(fb.Attachments))
	for p := range fb.Attachments {
		points = append(points, p)
	}
	sort.Slice(points, func(i, j int) bool { return points[i] < points[j] })

	width, height := -1, -1
	samples := -1
	sameSize := true
	for _, p := range points {
		a := fb.Attachments[p]
		var w, h, s int
		switch a.kind {
		case fgl.KindTexture:
			t := d.textures[a.id]
			if t == nil || t.Width == 0 || !isColor(p) {
				return fgl.FramebufferIncompleteAttachment
			}
			w, h = t.Width, t.Height
		case fgl.KindRenderBuffer:
			rb := d.renderbuffers[a.id]
			if rb == nil || rb.Width == 0 || !renderbufferFits(p, rb.Format) {
				return fgl.FramebufferIncompleteAttachment
			}
			w, h, s = rb.Width, rb.Height, rb.Samples
		}
		if width < 0 {
			width, height, samples = w, h, s
			continue
		}
		if w != width || h != height {
			sameSize = false
		}
		if s != samples {
			return fgl.FramebufferIncompleteMultisample
		}
	}
	for _, buf := range fb.DrawBuffers {
		if buf == fgl.None {
			continue
		}
		if _, ok := fb.Attachments[buf]; !ok {
			return fgl.FramebufferIncompleteDrawBuffer
		}
	}
	if !sameSize {
		return fgl.FramebufferUnsupported
	}
	return fgl.FramebufferComplete
}

func renderbufferFits(point, format uint32) bool {
	switch {
	case isColor(point):
		return format == fgl.GLRGBA8
	case point == fgl.DepthAttachment:
		return format == fgl.DepthComponent16 || format == fgl.Depth24Stencil8
	default:
		return format == fgl.Depth24Stencil8
	}
}

func (d *Driver) DrawBuffers(buffers []uint32) {
	d.calls++
	if fb := d.boundFB(); fb != nil {
		fb.DrawBuffers = append([]uint32(nil), buffers...)
	}
}

func (d *Driver) clear(buffer uint32, drawBuffer int32, value any) {
	d.calls++
	if d.boundFramebuffer == 0 {
		return
	}
	if fb := d.boundFB(); fb != nil {
		fb.Clears = append(fb.Clears, Clear{Buffer: buffer, DrawBuffer: drawBuffer, Value: value})
	}
}

func (d *Driver) ClearBufferiv(buffer uint32, drawBuffer int32, value []int32) {
	d.clear(buffer, drawBuffer, append([]int32(nil), value...))
}

func (d *Driver) ClearBufferuiv(buffer uint32, drawBuffer int32, value []uint32) {
	d.clear(buffer, drawBuffer, append([]uint32(nil), value...))
}

func (d *Driver) ClearBufferfv(buffer uint32, drawBuffer int32, value []float32) {
	d.clear(buffer, drawBuffer, append([]float32(nil), value...))
}

func (d *Driver) GenRenderbuffers(n int) []uint32 {
	ids := d.gen(fgl.KindRenderBuffer, n)
	for _, id := range ids {
		if id != 0 {
			d.renderbuffers[id] = &Renderbuffer{}
		}
	}
	return ids
}

func (d *Driver) DeleteRenderbuffers(ids ...uint32) {
	d.calls++
	for _, id := range ids {
		d.markDeleted(fgl.KindRenderBuffer, id, d.renderbuffers[id] != nil)
		delete(d.renderbuffers, id)
		if d.boundRenderbuffer == id {
			d.boundRenderbuffer = 0
		}
	}
}

func (d *Driver) BindRenderbuffer(target, id uint32) {
	d.calls++
	if id != 0 && d.renderbuffers[id] == nil {
		d.fail(fgl.InvalidOperation)
		return
	}
	d.boundRenderbuffer = id
}

func (d *Driver) RenderbufferStorageMultisample(target uint32, samples int32, internalFormat uint32, width, height int32) {
	d.calls++
	rb := d.renderbuffers[d.boundRenderbuffer]
	if rb == nil {
		d.fail(fgl.InvalidOperation)
		return
	}
	rb.Width, rb.Height = int(width), int(height)
	rb.Format = internalFormat
	rb.Samples = int(samples)
}

func (d *Driver) CreateShader(xtype uint32) uint32 {
	id := d.gen(fgl.KindShader, 1)[0]
	if id != 0 {
		d.shaders[id] = &Shader{Type: xtype}
	}
	return id
}

func (d *Driver) ShaderSource(shader uint32, source string) {
	d.calls++
	if sh := d.shaders[shader]; sh != nil {
		sh.Source = source
	}
}

// CompileShader fails empty sources and sources containing an #error
// directive; the log is the directive's message.
func (d *Driver) CompileShader(shader uint32) {
	d.calls++
	sh := d.shaders[shader]
	if sh == nil {
		d.fail(fgl.InvalidValue)
		return
	}
	sh.Compiled, sh.Log = true, ""
	if strings.TrimSpace(sh.Source) == "" {
		sh.Compiled, sh.Log = false, "0:1: empty shader source"
		return
	}
	for n, line := range strings.Split(sh.Source, "\n") {
		if i := strings.Index(line, "#error"); i >= 0 {
			msg := strings.TrimSpace(line[i+len("#error"):])
			sh.Compiled, sh.Log = false, fmt.Sprintf("0:%d: error: %s", n+1, msg)
			return
		}
	}
}

func (d *Driver) GetShaderiv(shader, pname uint32) int32 {
	d.calls++
	sh := d.shaders[shader]
	if sh == nil {
		return 0
	}
	switch pname {
	case fgl.CompileStatus:
		if sh.Compiled {
			return fgl.True
		}
		return 0
	case fgl.InfoLogLength:
		return int32(len(sh.Log))
	}
	return 0
}

func (d *Driver) GetShaderInfoLog(shader uint32) string {
	d.calls++
	if sh := d.shaders[shader]; sh != nil {
		return sh.Log
	}
	return ""
}

func (d *Driver) DeleteShader(shader uint32) {
	d.calls++
	d.markDeleted(fgl.KindShader, shader, d.shaders[shader] != nil)
	delete(d.shaders, shader)
}

func (d *Driver) CreateProgram() uint32 {
	id := d.gen(fgl.KindProgram, 1)[0]
	if id != 0 {
		d.programs[id] = &Program{Uniforms: make(map[string][]float32)}
	}
	return id
}

func (d *Driver) AttachShader(program, shader uint32) {
	d.calls++
	p := d.programs[program]
	if p == nil || d.shaders[shader] == nil {
		d.fail(fgl.InvalidValue)
		return
	}
	p.Shaders = append(p.Shaders, shader)
}

func (d *Driver) DetachShader(program, shader uint32) {
	d.calls++
	p := d.programs[program]
	if p == nil {
		d.fail(fgl.InvalidValue)
		return
	}
	for i, id := range p.Shaders {
		if id == shader {
			p.Shaders = append(p.Shaders[:i], p.Shaders[i+1:]...)
			return
		}
	}
}

var uniformDecl = regexp.MustCompile(`uniform\s+\w+\s+(\w+)\s*(?:\[\s*\d+\s*\])?\s*;`)

// LinkProgram requires one compiled vertex and one compiled fragment stage.
// Uniform locations are assigned in declaration order.
func (d *Driver) LinkProgram(program uint32) {
	d.calls++
	p := d.programs[program]
	if p == nil {
		d.fail(fgl.InvalidValue)
		return
	}
	p.Linked, p.Log = false, ""
	var vertex, fragment bool
	var sources []string
	for _, id := range p.Shaders {
		sh := d.shaders[id]
		if !sh.Compiled {
			p.Log = fmt.Sprintf("error: shader %d is not compiled", id)
			return
		}
		switch sh.Type {
		case fgl.VertexShader:
			vertex = true
		case fgl.FragmentShader:
			fragment = true
		}
		sources = append(sources, sh.Source)
	}
	switch {
	case !vertex:
		p.Log = "error: missing vertex shader"
		return
	case !fragment:
		p.Log = "error: missing fragment shader"
		return
	}
	p.Linked = true
	p.locations = make(map[string]int32)
	p.names = make(map[int32]string)
	for _, src := range sources {
		for _, m := range uniformDecl.FindAllStringSubmatch(src, -1) {
			if _, ok := p.locations[m[1]]; ok {
				continue
			}
			loc := int32(len(p.locations))
			p.locations[m[1]] = loc
			p.names[loc] = m[1]
		}
	}
}

func (d *Driver) GetProgramiv(program, pname uint32) int32 {
	d.calls++
	p := d.programs[program]
	if p == nil {
		return 0
	}
	switch pname {
	case fgl.LinkStatus:
		if p.Linked {
			return fgl.True
		}
		return 0
	case fgl.InfoLogLength:
		return int32(len(p.Log))
	}
	return 0
}

func (d *Driver) GetProgramInfoLog(program uint32) string {
	d.calls++
	if p := d.programs[program]; p != nil {
		return p.Log
	}
	return ""
}

func (d *Driver) DeleteProgram(program uint32) {
	d.calls++
	d.markDeleted(fgl.KindProgram, program, d.programs[program] != nil)
	delete(d.programs, program)
	if d.currentProgram == program {
		d.currentProgram = 0
	}
}

func (d *Driver) UseProgram(program uint32) {
	d.calls++
	if program != 0 {
		if p := d.programs[program]; p == nil || !p.Linked {
			d.fail(fgl.InvalidOperation)
			return
		}
	}
	d.currentProgram = program
}

func (d *Driver) GetUniformLocation(program uint32, name string) int32 {
	d.calls++
	p := d.programs[program]
	if p == nil || !p.Linked {
		d.fail(fgl.InvalidOperation)
		return -1
	}
	if loc, ok := p.locations[name]; ok {
		return loc
	}
	return -1
}

func (d *Driver) setUniform(location int32, values ...float32) {
	d.calls++
	if location < 0 {
		return
	}
	p := d.programs[d.currentProgram]
	if p == nil {
		d.fail(fgl.InvalidOperation)
		return
	}
	name, ok := p.names[location]
	if !ok {
		d.fail(fgl.InvalidOperation)
		return
	}
	p.Uniforms[name] = values
}

func (d *Driver) Uniform1i(location, v0 int32) {
	d.setUniform(location, float32(v0))
}

func (d *Driver) Uniform2i(location, v0, v1 int32) {
	d.setUniform(location, float32(v0), float32(v1))
}

func (d *Driver) Uniform3i(location, v0, v1, v2 int32) {
	d.setUniform(location, float32(v0), float32(v1), float32(v2))
}

func (d *Driver) Uniform4i(location, v0, v1, v2, v3 int32) {
	d.setUniform(location, float32(v0), float32(v1), float32(v2), float32(v3))
}

func (d *Driver) Uniform1f(location int32, v0 float32) {
	d.setUniform(location, v0)
}

func (d *Driver) Uniform2f(location int32, v0, v1 float32) {
	d.setUniform(location, v0, v1)
}

func (d *Driver) Uniform3f(location int32, v0, v1, v2 float32) {
	d.setUniform(location, v0, v1, v2)
}

func (d *Driver) Uniform4f(location int32, v0, v1, v2, v3 float32) {
	d.setUniform(location, v0, v1, v2, v3)
}

func (d *Driver) UniformMatrix3fv(location int32, transpose bool, value []float32) {
	d.setUniform(location, append([]float32(nil), value...)...)
}

func (d *Driver) UniformMatrix4fv(location int32, transpose bool, value []float32) {
	d.setUniform(location, append([]float32(nil), value...)...)
}

func (d *Driver) record(instanced bool, first, count, instances int32) {
	d.calls++
	p := d.programs[d.currentProgram]
	va := d.vertexArrays[d.boundVertexArray]
	if p == nil || va == nil {
		d.fail(fgl.InvalidOperation)
		return
	}
	draw := Draw{
		Instanced:   instanced,
		First:       first,
		Count:       count,
		Instances:   instances,
		Program:     d.currentProgram,
		VertexArray: d.boundVertexArray,
		Framebuffer: d.boundFramebuffer,
		Textures:    make(map[uint32]uint32, len(d.units)),
		Attribs:     make(map[uint32]Attrib, len(va.Attribs)),
		Uniforms:    make(map[string][]float32, len(p.Uniforms)),
	}
	for unit, tex := range d.units {
		draw.Textures[unit] = tex
	}
	for slot, a := range va.Attribs {
		draw.Attribs[slot] = a
	}
	for name, v := range p.Uniforms {
		draw.Uniforms[name] = v
	}
	d.Draws = append(d.Draws, draw)
}

func (d *Driver) DrawArrays(mode uint32, first, count int32) {
	d.record(false, first, count, 1)
}

func (d *Driver) DrawArraysInstanced(mode uint32, first, count, instances int32) {
	d.record(true, first, count, instances)
}

func (d *Driver) Viewport(x, y, width, height int32) {
	d.calls++
	d.ViewportRect = [4]int32{x, y, width, height}
}

func (d *Driver) ClearColor(r, g, b, a float32) {
	d.calls++
	d.ClearRGBA = [4]float32{r, g, b, a}
}

func (d *Driver) Clear(mask uint32) {
	d.calls++
	d.Cleared = append(d.Cleared, mask)
}

func (d *Driver) Enable(capability uint32) {
	d.calls++
	d.Enabled[capability] = true
}

func (d *Driver) Disable(capability uint32) {
	d.calls++
	d.Enabled[capability] = false
}

func (d *Driver) BlendFunc(sfactor, dfactor uint32) {
	d.calls++
	d.Blend = [2]uint32{sfactor, dfactor}
}

// GetError pops the oldest queued error code.
func (d *Driver) GetError() uint32 {
	if len(d.errors) == 0 {
		return fgl.NoError
	}
	code := d.errors[0]
	d.errors = d.errors[1:]
	return code
}
