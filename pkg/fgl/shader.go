package fgl

import (
	"fmt"
	"strings"
)

type ShaderStage uint8

const (
	StageVertex ShaderStage = iota
	StageFragment
)

func (s ShaderStage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	default:
		return fmt.Sprintf("stage(%d)", uint8(s))
	}
}

func (s ShaderStage) Enum() uint32 {
	if s == StageFragment {
		return FragmentShader
	}
	return VertexShader
}

// Shader is one compiled stage waiting to be linked.
type Shader struct {
	handle
	stage ShaderStage
}

// CompileShader compiles source for stage. On failure the shader object is
// deleted and the compiler log comes back as a *CompileError.
func CompileShader(drv Driver, stage ShaderStage, source string) (*Shader, error) {
	id := drv.CreateShader(stage.Enum())
	if id == 0 {
		allocationFailed(KindShader, 1)
	}
	sh := &Shader{stage: stage}
	sh.init(drv, KindShader, id)

	drv.ShaderSource(id, source)
	drv.CompileShader(id)
	if drv.GetShaderiv(id, CompileStatus) != True {
		log := strings.TrimRight(drv.GetShaderInfoLog(id), "\x00\n ")
		sh.Release()
		return nil, &CompileError{Stage: stage, Log: log}
	}
	return sh, nil
}

func (s *Shader) Stage() ShaderStage { return s.stage }
