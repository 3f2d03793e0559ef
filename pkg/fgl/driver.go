package fgl

// Driver is the OpenGL surface fgl depends on. Methods mirror the GL entry
// points one to one but take Go slices and strings instead of raw pointers.
//
// All calls must happen on the goroutine that owns the current GL context.
// Bound objects (buffer, vertex array, texture unit, framebuffer, program) are
// global driver state, so fgl re-binds before every operation instead of
// trusting whatever the previous caller left bound.
type Driver interface {
	GenBuffers(n int) []uint32
	DeleteBuffers(ids ...uint32)
	BindBuffer(target, id uint32)
	// BufferData allocates size bytes; data may be nil or exactly size bytes long.
	BufferData(target uint32, size int, data []byte, usage uint32)
	BufferSubData(target uint32, offset int, data []byte)

	GenVertexArrays(n int) []uint32
	DeleteVertexArrays(ids ...uint32)
	BindVertexArray(id uint32)
	EnableVertexAttribArray(index uint32)
	VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset int)
	VertexAttribDivisor(index, divisor uint32)

	GenTextures(n int) []uint32
	DeleteTextures(ids ...uint32)
	ActiveTexture(unit uint32)
	BindTexture(target, id uint32)
	TexImage2D(target uint32, level, internalFormat, width, height int32, format, xtype uint32, pixels []byte)
	TexSubImage2D(target uint32, level, x, y, width, height int32, format, xtype uint32, pixels []byte)
	TexParameteri(target, pname uint32, param int32)
	GenerateMipmap(target uint32)

	GenFramebuffers(n int) []uint32
	DeleteFramebuffers(ids ...uint32)
	BindFramebuffer(target, id uint32)
	FramebufferTexture(target, attachment, texture uint32, level int32)
	FramebufferRenderbuffer(target, attachment, renderbufferTarget, renderbuffer uint32)
	CheckFramebufferStatus(target uint32) uint32
	DrawBuffers(buffers []uint32)
	ClearBufferiv(buffer uint32, drawBuffer int32, value []int32)
	ClearBufferuiv(buffer uint32, drawBuffer int32, value []uint32)
	ClearBufferfv(buffer uint32, drawBuffer int32, value []float32)

	GenRenderbuffers(n int) []uint32
	DeleteRenderbuffers(ids ...uint32)
	BindRenderbuffer(target, id uint32)
	RenderbufferStorageMultisample(target uint32, samples int32, internalFormat uint32, width, height int32)

	CreateShader(xtype uint32) uint32
	ShaderSource(shader uint32, source string)
	CompileShader(shader uint32)
	GetShaderiv(shader, pname uint32) int32
	GetShaderInfoLog(shader uint32) string
	DeleteShader(shader uint32)

	CreateProgram() uint32
	AttachShader(program, shader uint32)
	DetachShader(program, shader uint32)
	LinkProgram(program uint32)
	GetProgramiv(program, pname uint32) int32
	GetProgramInfoLog(program uint32) string
	DeleteProgram(program uint32)
	UseProgram(program uint32)
	GetUniformLocation(program uint32, name string) int32
	Uniform1i(location, v0 int32)
	Uniform2i(location, v0, v1 int32)
	Uniform3i(location, v0, v1, v2 int32)
	Uniform4i(location, v0, v1, v2, v3 int32)
	Uniform1f(location int32, v0 float32)
	Uniform2f(location int32, v0, v1 float32)
	Uniform3f(location int32, v0, v1, v2 float32)
	Uniform4f(location int32, v0, v1, v2, v3 float32)
	UniformMatrix3fv(location int32, transpose bool, value []float32)
	UniformMatrix4fv(location int32, transpose bool, value []float32)

	DrawArrays(mode uint32, first, count int32)
	DrawArraysInstanced(mode uint32, first, count, instances int32)

	Viewport(x, y, width, height int32)
	ClearColor(r, g, b, a float32)
	Clear(mask uint32)
	Enable(capability uint32)
	Disable(capability uint32)
	BlendFunc(sfactor, dfactor uint32)
	GetError() uint32
}
