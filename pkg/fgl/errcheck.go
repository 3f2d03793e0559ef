package fgl

import (
	"fmt"
	"strings"
)

// maxDrain bounds one Check; a lost context can report errors forever.
const maxDrain = 64

// ErrorName returns the GL name of an error code.
func ErrorName(code uint32) string {
	switch code {
	case NoError:
		return "GL_NO_ERROR"
	case InvalidEnum:
		return "GL_INVALID_ENUM"
	case InvalidValue:
		return "GL_INVALID_VALUE"
	case InvalidOperation:
		return "GL_INVALID_OPERATION"
	case OutOfMemory:
		return "GL_OUT_OF_MEMORY"
	case InvalidFramebufferOperation:
		return "GL_INVALID_FRAMEBUFFER_OPERATION"
	default:
		return fmt.Sprintf("GL_ERROR(%#x)", code)
	}
}

// ErrorMonitor collects driver error codes once per frame. Errors are logged
// and never stop the frame. In Strict mode errors that persist for Threshold
// consecutive frames panic.
type ErrorMonitor struct {
	drv       Driver
	Strict    bool
	Threshold int

	streak int
	total  int
}

func NewErrorMonitor(drv Driver, strict bool) *ErrorMonitor {
	return &ErrorMonitor{drv: drv, Strict: strict, Threshold: 3}
}

// Check drains the driver error queue and returns what it found.
func (m *ErrorMonitor) Check() []uint32 {
	var codes []uint32
	for i := 0; i < maxDrain; i++ {
		code := m.drv.GetError()
		if code == NoError {
			break
		}
		codes = append(codes, code)
		Logger().Warn("fgl: driver error", "code", ErrorName(code))
	}
	if len(codes) == 0 {
		m.streak = 0
		return nil
	}
	m.streak++
	m.total += len(codes)
	if m.Strict && m.Threshold > 0 && m.streak >= m.Threshold {
		names := make([]string, len(codes))
		for i, c := range codes {
			names[i] = ErrorName(c)
		}
		panic(fmt.Sprintf("fgl: driver errors for %d consecutive frames: %s",
			m.streak, strings.Join(names, ", ")))
	}
	return codes
}

// Streak returns the number of consecutive frames that reported errors.
func (m *ErrorMonitor) Streak() int { return m.streak }

// Total returns every error code seen so far.
func (m *ErrorMonitor) Total() int { return m.total }
