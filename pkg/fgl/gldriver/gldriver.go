//go:build !js

// Package gldriver implements fgl.Driver on top of go-gl's OpenGL 3.3 core
// bindings.
package gldriver

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v3.3-core/gl"

	"github.com/kjkrol/feywild/pkg/fgl"
)

type Driver struct{}

var _ fgl.Driver = Driver{}

// New loads the GL entry points for the context current on this thread.
func New() (Driver, error) {
	if err := gl.Init(); err != nil {
		return Driver{}, fmt.Errorf("gl.Init error: %w", err)
	}
	// Pixels are tightly packed, RGB8 rows included.
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	fgl.Logger().Info("gldriver: context ready",
		"version", gl.GoStr(gl.GetString(gl.VERSION)),
		"renderer", gl.GoStr(gl.GetString(gl.RENDERER)))
	return Driver{}, nil
}

func ptr(data []byte) unsafe.Pointer {
	if len(data) == 0 {
		return nil
	}
	return unsafe.Pointer(&data[0])
}

func gen(n int, fn func(int32, *uint32)) []uint32 {
	ids := make([]uint32, n)
	if n > 0 {
		fn(int32(n), &ids[0])
	}
	return ids
}

func del(ids []uint32, fn func(int32, *uint32)) {
	if len(ids) > 0 {
		fn(int32(len(ids)), &ids[0])
	}
}

func (Driver) GenBuffers(n int) []uint32        { return gen(n, gl.GenBuffers) }
func (Driver) DeleteBuffers(ids ...uint32)      { del(ids, gl.DeleteBuffers) }
func (Driver) BindBuffer(target, id uint32)     { gl.BindBuffer(target, id) }
func (Driver) GenVertexArrays(n int) []uint32   { return gen(n, gl.GenVertexArrays) }
func (Driver) DeleteVertexArrays(ids ...uint32) { del(ids, gl.DeleteVertexArrays) }
func (Driver) BindVertexArray(id uint32)        { gl.BindVertexArray(id) }

func (Driver) BufferData(target uint32, size int, data []byte, usage uint32) {
	gl.BufferData(target, size, ptr(data), usage)
}

func (Driver) BufferSubData(target uint32, offset int, data []byte) {
	gl.BufferSubData(target, offset, len(data), ptr(data))
}

func (Driver) EnableVertexAttribArray(index uint32) {
	gl.EnableVertexAttribArray(index)
}

func (Driver) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset int) {
	gl.VertexAttribPointer(index, size, xtype, normalized, stride, gl.PtrOffset(offset))
}

func (Driver) VertexAttribDivisor(index, divisor uint32) {
	gl.VertexAttribDivisor(index, divisor)
}

func (Driver) GenTextures(n int) []uint32    { return gen(n, gl.GenTextures) }
func (Driver) DeleteTextures(ids ...uint32)  { del(ids, gl.DeleteTextures) }
func (Driver) ActiveTexture(unit uint32)     { gl.ActiveTexture(unit) }
func (Driver) BindTexture(target, id uint32) { gl.BindTexture(target, id) }
func (Driver) GenerateMipmap(target uint32)  { gl.GenerateMipmap(target) }

func (Driver) TexImage2D(target uint32, level, internalFormat, width, height int32, format, xtype uint32, pixels []byte) {
	gl.TexImage2D(target, level, internalFormat, width, height, 0, format, xtype, ptr(pixels))
}

func (Driver) TexSubImage2D(target uint32, level, x, y, width, height int32, format, xtype uint32, pixels []byte) {
	gl.TexSubImage2D(target, level, x, y, width, height, format, xtype, ptr(pixels))
}

func (Driver) TexParameteri(target, pname uint32, param int32) {
	gl.TexParameteri(target, pname, param)
}

func (Driver) GenFramebuffers(n int) []uint32    { return gen(n, gl.GenFramebuffers) }
func (Driver) DeleteFramebuffers(ids ...uint32)  { del(ids, gl.DeleteFramebuffers) }
func (Driver) BindFramebuffer(target, id uint32) { gl.BindFramebuffer(target, id) }

func (Driver) FramebufferTexture(target, attachment, texture uint32, level int32) {
	gl.FramebufferTexture(target, attachment, texture, level)
}

func (Driver) FramebufferRenderbuffer(target, attachment, renderbufferTarget, renderbuffer uint32) {
	gl.FramebufferRenderbuffer(target, attachment, renderbufferTarget, renderbuffer)
}

func (Driver) CheckFramebufferStatus(target uint32) uint32 {
	return gl.CheckFramebufferStatus(target)
}

func (Driver) DrawBuffers(buffers []uint32) {
	if len(buffers) == 0 {
		gl.DrawBuffers(0, nil)
		return
	}
	gl.DrawBuffers(int32(len(buffers)), &buffers[0])
}

func (Driver) ClearBufferiv(buffer uint32, drawBuffer int32, value []int32) {
	gl.ClearBufferiv(buffer, drawBuffer, &value[0])
}

func (Driver) ClearBufferuiv(buffer uint32, drawBuffer int32, value []uint32) {
	gl.ClearBufferuiv(buffer, drawBuffer, &value[0])
}

func (Driver) ClearBufferfv(buffer uint32, drawBuffer int32, value []float32) {
	gl.ClearBufferfv(buffer, drawBuffer, &value[0])
}

func (Driver) GenRenderbuffers(n int) []uint32    { return gen(n, gl.GenRenderbuffers) }
func (Driver) DeleteRenderbuffers(ids ...uint32)  { del(ids, gl.DeleteRenderbuffers) }
func (Driver) BindRenderbuffer(target, id uint32) { gl.BindRenderbuffer(target, id) }

func (Driver) RenderbufferStorageMultisample(target uint32, samples int32, internalFormat uint32, width, height int32) {
	gl.RenderbufferStorageMultisample(target, samples, internalFormat, width, height)
}

func (Driver) CreateShader(xtype uint32) uint32 { return gl.CreateShader(xtype) }
func (Driver) CompileShader(shader uint32)      { gl.CompileShader(shader) }
func (Driver) DeleteShader(shader uint32)       { gl.DeleteShader(shader) }

func (Driver) ShaderSource(shader uint32, source string) {
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
}

func (Driver) GetShaderiv(shader, pname uint32) int32 {
	var v int32
	gl.GetShaderiv(shader, pname, &v)
	return v
}

func (d Driver) GetShaderInfoLog(shader uint32) string {
	logLength := d.GetShaderiv(shader, gl.INFO_LOG_LENGTH)
	log := strings.Repeat("\x00", int(logLength+1))
	gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
	return log
}

func (Driver) CreateProgram() uint32               { return gl.CreateProgram() }
func (Driver) AttachShader(program, shader uint32) { gl.AttachShader(program, shader) }
func (Driver) DetachShader(program, shader uint32) { gl.DetachShader(program, shader) }
func (Driver) LinkProgram(program uint32)          { gl.LinkProgram(program) }
func (Driver) DeleteProgram(program uint32)        { gl.DeleteProgram(program) }
func (Driver) UseProgram(program uint32)           { gl.UseProgram(program) }

func (Driver) GetProgramiv(program, pname uint32) int32 {
	var v int32
	gl.GetProgramiv(program, pname, &v)
	return v
}

func (d Driver) GetProgramInfoLog(program uint32) string {
	logLength := d.GetProgramiv(program, gl.INFO_LOG_LENGTH)
	log := strings.Repeat("\x00", int(logLength+1))
	gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
	return log
}

func (Driver) GetUniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (Driver) Uniform1i(location, v0 int32)             { gl.Uniform1i(location, v0) }
func (Driver) Uniform2i(location, v0, v1 int32)         { gl.Uniform2i(location, v0, v1) }
func (Driver) Uniform3i(location, v0, v1, v2 int32)     { gl.Uniform3i(location, v0, v1, v2) }
func (Driver) Uniform4i(location, v0, v1, v2, v3 int32) { gl.Uniform4i(location, v0, v1, v2, v3) }
func (Driver) Uniform1f(location int32, v0 float32)     { gl.Uniform1f(location, v0) }
func (Driver) Uniform2f(location int32, v0, v1 float32) { gl.Uniform2f(location, v0, v1) }

func (Driver) Uniform3f(location int32, v0, v1, v2 float32) {
	gl.Uniform3f(location, v0, v1, v2)
}

func (Driver) Uniform4f(location int32, v0, v1, v2, v3 float32) {
	gl.Uniform4f(location, v0, v1, v2, v3)
}

func (Driver) UniformMatrix3fv(location int32, transpose bool, value []float32) {
	gl.UniformMatrix3fv(location, int32(len(value)/9), transpose, &value[0])
}

func (Driver) UniformMatrix4fv(location int32, transpose bool, value []float32) {
	gl.UniformMatrix4fv(location, int32(len(value)/16), transpose, &value[0])
}

func (Driver) DrawArrays(mode uint32, first, count int32) {
	gl.DrawArrays(mode, first, count)
}

func (Driver) DrawArraysInstanced(mode uint32, first, count, instances int32) {
	gl.DrawArraysInstanced(mode, first, count, instances)
}

func (Driver) Viewport(x, y, width, height int32) { gl.Viewport(x, y, width, height) }
func (Driver) ClearColor(r, g, b, a float32)      { gl.ClearColor(r, g, b, a) }
func (Driver) Clear(mask uint32)                  { gl.Clear(mask) }
func (Driver) Enable(capability uint32)           { gl.Enable(capability) }
func (Driver) Disable(capability uint32)          { gl.Disable(capability) }
func (Driver) BlendFunc(sfactor, dfactor uint32)  { gl.BlendFunc(sfactor, dfactor) }
func (Driver) GetError() uint32                   { return gl.GetError() }
