package fgl

import (
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// ProgramBuilder collects compiled stages for a single Link.
type ProgramBuilder struct {
	drv     Driver
	shaders []*Shader
}

func NewProgramBuilder(drv Driver) *ProgramBuilder {
	return &ProgramBuilder{drv: drv}
}

// Attach hands ownership of the shaders to the builder.
func (b *ProgramBuilder) Attach(shaders ...*Shader) *ProgramBuilder {
	b.shaders = append(b.shaders, shaders...)
	return b
}

// Link links the attached stages into a program. The stages are detached and
// released whether or not linking succeeds; on failure the linker log comes
// back as a *LinkError and no program exists.
func (b *ProgramBuilder) Link() (*Program, error) {
	shaders := b.shaders
	b.shaders = nil
	defer func() {
		for _, sh := range shaders {
			sh.Release()
		}
	}()

	id := b.drv.CreateProgram()
	if id == 0 {
		allocationFailed(KindProgram, 1)
	}
	for _, sh := range shaders {
		b.drv.AttachShader(id, sh.ID())
	}
	b.drv.LinkProgram(id)
	ok := b.drv.GetProgramiv(id, LinkStatus) == True
	for _, sh := range shaders {
		b.drv.DetachShader(id, sh.ID())
	}
	if !ok {
		log := strings.TrimRight(b.drv.GetProgramInfoLog(id), "\x00\n ")
		b.drv.DeleteProgram(id)
		return nil, &LinkError{Log: log}
	}

	p := &Program{}
	p.init(b.drv, KindProgram, id)
	Logger().Debug("fgl: program linked", "id", id, "stages", len(shaders))
	return p, nil
}

// BuildProgram compiles a vertex and a fragment stage and links them.
func BuildProgram(drv Driver, vertexSource, fragmentSource string) (*Program, error) {
	vs, err := CompileShader(drv, StageVertex, vertexSource)
	if err != nil {
		return nil, err
	}
	fs, err := CompileShader(drv, StageFragment, fragmentSource)
	if err != nil {
		vs.Release()
		return nil, err
	}
	return NewProgramBuilder(drv).Attach(vs, fs).Link()
}

// Program is a linked shader program. Only uniform values change after Link.
//
// Uniform setters bind the program and look the location up by name on every
// call. Names the program does not declare are ignored.
type Program struct {
	handle
}

func (p *Program) Bind() {
	p.drv.UseProgram(p.id)
}

func (p *Program) location(name string) (int32, bool) {
	p.Bind()
	loc := p.drv.GetUniformLocation(p.id, name)
	return loc, loc >= 0
}

func (p *Program) SetInt(name string, v int32) {
	if loc, ok := p.location(name); ok {
		p.drv.Uniform1i(loc, v)
	}
}

func (p *Program) SetIVec2(name string, x, y int32) {
	if loc, ok := p.location(name); ok {
		p.drv.Uniform2i(loc, x, y)
	}
}

func (p *Program) SetIVec3(name string, x, y, z int32) {
	if loc, ok := p.location(name); ok {
		p.drv.Uniform3i(loc, x, y, z)
	}
}

func (p *Program) SetIVec4(name string, x, y, z, w int32) {
	if loc, ok := p.location(name); ok {
		p.drv.Uniform4i(loc, x, y, z, w)
	}
}

func (p *Program) SetFloat(name string, v float32) {
	if loc, ok := p.location(name); ok {
		p.drv.Uniform1f(loc, v)
	}
}

func (p *Program) SetVec2(name string, v mgl32.Vec2) {
	if loc, ok := p.location(name); ok {
		p.drv.Uniform2f(loc, v[0], v[1])
	}
}

func (p *Program) SetVec3(name string, v mgl32.Vec3) {
	if loc, ok := p.location(name); ok {
		p.drv.Uniform3f(loc, v[0], v[1], v[2])
	}
}

func (p *Program) SetVec4(name string, v mgl32.Vec4) {
	if loc, ok := p.location(name); ok {
		p.drv.Uniform4f(loc, v[0], v[1], v[2], v[3])
	}
}

func (p *Program) SetMat3(name string, m mgl32.Mat3) {
	if loc, ok := p.location(name); ok {
		p.drv.UniformMatrix3fv(loc, false, m[:])
	}
}

func (p *Program) SetMat4(name string, m mgl32.Mat4) {
	if loc, ok := p.location(name); ok {
		p.drv.UniformMatrix4fv(loc, false, m[:])
	}
}
