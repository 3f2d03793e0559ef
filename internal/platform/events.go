package platform

// Pointer coordinates are framebuffer pixels with the origin at the top-left.

type Event interface{}

// Mouse buttons, numbered as X11 does.
const (
	ButtonLeft   uint32 = 1
	ButtonMiddle uint32 = 2
	ButtonRight  uint32 = 3
)

type KeyPress struct {
	Code  uint64
	Label string
}
type KeyRelease struct {
	Code  uint64
	Label string
}
type ButtonPress struct {
	Button uint32
	X, Y   int
}
type ButtonRelease struct {
	Button uint32
	X, Y   int
}
type MotionNotify struct {
	X, Y int
}
type MouseWheel struct {
	DeltaX float64
	DeltaY float64
	X, Y   int
}

// Resize reports a new framebuffer size in pixels.
type Resize struct {
	Width, Height int
}
type EnterNotify struct{}
type LeaveNotify struct{}

// DestroyNotify is sent once when the user asks to close the window.
type DestroyNotify struct{}
type TimeoutEvent struct{}
