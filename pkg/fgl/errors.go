package fgl

import (
	"errors"
	"fmt"
)

var (
	// ErrAllocation reports that the driver returned no object name. There is
	// no way forward without a valid context, so fgl panics with it.
	ErrAllocation = errors.New("fgl: driver object allocation failed")
	// ErrOutOfRange is returned before any driver call when a write or lookup
	// falls outside allocated bounds.
	ErrOutOfRange = errors.New("fgl: out of range")
	// ErrUnsupportedFormat marks pixel data that skipped normalization.
	ErrUnsupportedFormat = errors.New("fgl: unsupported pixel format")
	// ErrReleased is returned when an operation targets a released handle.
	ErrReleased = errors.New("fgl: handle released")
	// ErrIncomplete matches every *IncompleteError.
	ErrIncomplete = errors.New("fgl: framebuffer incomplete")
	// ErrInvalidBinding is returned for malformed vertex attribute bindings.
	ErrInvalidBinding = errors.New("fgl: invalid attribute binding")
)

// CompileError carries the shader compiler log.
type CompileError struct {
	Stage ShaderStage
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compile error (%s): %s", e.Stage, e.Log)
}

// LinkError carries the program linker log.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("link error: %s", e.Log)
}

// IncompleteError is the non-nil result of FrameBuffer.Status.
type IncompleteError struct {
	Reason Incompleteness
}

func (e *IncompleteError) Error() string {
	return "framebuffer incomplete: " + e.Reason.String()
}

func (e *IncompleteError) Is(target error) bool {
	return target == ErrIncomplete
}

func outOfRange(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrOutOfRange}, args...)...)
}
