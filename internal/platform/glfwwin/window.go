//go:build !js

// Package glfwwin implements platform.PlatformWindowWrapper with GLFW and a
// GL 3.3 core context.
package glfwwin

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/kjkrol/feywild/internal/platform"
	"github.com/kjkrol/feywild/pkg/fgl"
)

type Window struct {
	win    *glfw.Window
	events []platform.Event
	closed bool
}

var _ platform.PlatformWindowWrapper = (*Window)(nil)

// New creates a hidden window and makes its context current on the calling
// thread, which stays locked to it until Close.
//
// GLFW reference: https://www.glfw.org/docs/latest/window_guide.html
func New(conf platform.WindowConfig) (*Window, error) {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("glfwwin: init: %w", err)
	}
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.Visible, glfw.False)

	win, err := glfw.CreateWindow(conf.Width, conf.Height, conf.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("glfwwin: create window: %w", err)
	}
	win.MakeContextCurrent()
	if conf.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
	if conf.PositionX != 0 || conf.PositionY != 0 {
		win.SetPos(conf.PositionX, conf.PositionY)
	}

	w := &Window{win: win}
	w.registerCallbacks()

	fw, fh := win.GetFramebufferSize()
	fgl.Logger().Info("glfwwin: window created", "title", conf.Title, "width", fw, "height", fh)
	return w, nil
}

func (w *Window) push(e platform.Event) {
	w.events = append(w.events, e)
}

// cursor converts window coordinates to framebuffer pixels, which differ on
// high-DPI displays.
func (w *Window) cursor(x, y float64) (int, int) {
	ww, wh := w.win.GetSize()
	fw, fh := w.win.GetFramebufferSize()
	if ww > 0 && wh > 0 {
		x *= float64(fw) / float64(ww)
		y *= float64(fh) / float64(wh)
	}
	return int(x), int(y)
}

func (w *Window) registerCallbacks() {
	w.win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, _ glfw.ModifierKey) {
		label := keyLabel(key, scancode)
		switch action {
		case glfw.Press, glfw.Repeat:
			w.push(platform.KeyPress{Code: uint64(key), Label: label})
		case glfw.Release:
			w.push(platform.KeyRelease{Code: uint64(key), Label: label})
		}
	})
	w.win.SetMouseButtonCallback(func(win *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		b, ok := buttons[button]
		if !ok {
			return
		}
		x, y := w.cursor(win.GetCursorPos())
		switch action {
		case glfw.Press:
			w.push(platform.ButtonPress{Button: b, X: x, Y: y})
		case glfw.Release:
			w.push(platform.ButtonRelease{Button: b, X: x, Y: y})
		}
	})
	w.win.SetCursorPosCallback(func(_ *glfw.Window, xpos, ypos float64) {
		x, y := w.cursor(xpos, ypos)
		w.push(platform.MotionNotify{X: x, Y: y})
	})
	w.win.SetScrollCallback(func(win *glfw.Window, xoff, yoff float64) {
		x, y := w.cursor(win.GetCursorPos())
		w.push(platform.MouseWheel{DeltaX: xoff, DeltaY: yoff, X: x, Y: y})
	})
	w.win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.push(platform.Resize{Width: width, Height: height})
	})
	w.win.SetCursorEnterCallback(func(_ *glfw.Window, entered bool) {
		if entered {
			w.push(platform.EnterNotify{})
		} else {
			w.push(platform.LeaveNotify{})
		}
	})
	w.win.SetCloseCallback(func(_ *glfw.Window) {
		if !w.closed {
			w.closed = true
			w.push(platform.DestroyNotify{})
		}
	})
}

var buttons = map[glfw.MouseButton]uint32{
	glfw.MouseButtonLeft:   platform.ButtonLeft,
	glfw.MouseButtonMiddle: platform.ButtonMiddle,
	glfw.MouseButtonRight:  platform.ButtonRight,
}

var keyNames = map[glfw.Key]string{
	glfw.KeyEscape:    "Escape",
	glfw.KeySpace:     "space",
	glfw.KeyEnter:     "Return",
	glfw.KeyTab:       "Tab",
	glfw.KeyBackspace: "BackSpace",
	glfw.KeyLeft:      "Left",
	glfw.KeyRight:     "Right",
	glfw.KeyUp:        "Up",
	glfw.KeyDown:      "Down",
	glfw.KeyHome:      "Home",
	glfw.KeyF5:        "F5",
}

func keyLabel(key glfw.Key, scancode int) string {
	if name, ok := keyNames[key]; ok {
		return name
	}
	if name := glfw.GetKeyName(key, scancode); name != "" {
		return name
	}
	return fmt.Sprintf("key%d", int(key))
}

func (w *Window) Show() {
	w.win.Show()
}

func (w *Window) NextEventTimeout(timeoutMs int) platform.Event {
	if len(w.events) == 0 {
		if timeoutMs > 0 {
			glfw.WaitEventsTimeout(float64(timeoutMs) / 1000)
		} else {
			glfw.PollEvents()
		}
	}
	if len(w.events) == 0 {
		return platform.TimeoutEvent{}
	}
	e := w.events[0]
	w.events = w.events[1:]
	return e
}

func (w *Window) BeginFrame() {
	w.win.MakeContextCurrent()
}

func (w *Window) EndFrame() {
	w.win.SwapBuffers()
}

func (w *Window) FramebufferSize() (int, int) {
	return w.win.GetFramebufferSize()
}

func (w *Window) Close() {
	w.win.Destroy()
	glfw.Terminate()
	runtime.UnlockOSThread()
}
