package gfx

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/kjkrol/feywild/internal/platform"
	"github.com/kjkrol/feywild/pkg/fgl"
)

// Window runs the event and frame loop over a platform window. Every GL call
// happens on the goroutine running ListenEvents.
type Window struct {
	platformWinWrapper platform.PlatformWindowWrapper
	renderer           Renderer
	viewport           *Viewport
	refreshDelay       time.Duration
	width              int
	height             int
	frames             uint64
	ctx                context.Context
	cancel             context.CancelFunc

	updates chan func()
}

const maxEventWait = 50 * time.Millisecond

// NewWindow wraps an open platform window. factory, when set, builds the
// renderer once the window is usable.
func NewWindow(wrapper platform.PlatformWindowWrapper, factory RendererFactory) (*Window, error) {
	if wrapper == nil {
		panic("platform window wrapper is required")
	}
	width, height := wrapper.FramebufferSize()
	w := &Window{
		platformWinWrapper: wrapper,
		viewport:           NewViewport(width, height),
		updates:            make(chan func(), 1024),
		width:              width,
		height:             height,
	}
	w.ctx, w.cancel = context.WithCancel(context.Background())
	if factory != nil {
		r, err := factory(w)
		if err != nil {
			return nil, fmt.Errorf("gfx: renderer: %w", err)
		}
		w.renderer = r
	}
	return w, nil
}

func (w *Window) Size() (int, int) {
	if w == nil {
		return 0, 0
	}
	return w.width, w.height
}

func (w *Window) Viewport() *Viewport {
	return w.viewport
}

// Frames returns how many frames have been rendered.
func (w *Window) Frames() uint64 {
	return w.frames
}

func (w *Window) Show() {
	w.platformWinWrapper.Show()
}

func (w *Window) RefreshRate(fps int) {
	if fps <= 0 {
		fps = 60
	}
	w.refreshDelay = time.Second / time.Duration(fps)
}

func (w *Window) Stop() {
	w.cancel()
}

// Post queues fn to run on the render goroutine before the next frame. It
// may be called from any goroutine.
func (w *Window) Post(fn func()) {
	w.updates <- fn
}

func (w *Window) Close() {
	if w.renderer != nil {
		w.renderer.Close()
		w.renderer = nil
	}
	w.platformWinWrapper.Close()
}

func (w *Window) Renderer() Renderer {
	return w.renderer
}

// SetRenderer swaps in r and closes the renderer it replaces. Call it on the
// goroutine running ListenEvents, from an event handler or a Post callback.
func (w *Window) SetRenderer(r Renderer) {
	old := w.renderer
	w.renderer = r
	if old != nil && old != r {
		old.Close()
	}
	fgl.Logger().Info("gfx: renderer replaced", "width", w.width, "height", w.height)
}

func (w *Window) resize(width, height int) {
	if width == w.width && height == w.height {
		return
	}
	w.width, w.height = width, height
	w.viewport.Resize(width, height)
	if w.renderer != nil && width > 0 && height > 0 {
		w.renderer.Resize(width, height)
	}
	fgl.Logger().Info("gfx: resized", "width", width, "height", height)
}

// ListenEvents runs until Stop is called or the window is closed. Resize
// events are applied to the viewport and renderer before handleEvent sees
// them.
func (w *Window) ListenEvents(handleEvent func(event Event), strategy EventsConsumerStrategy) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	delay := w.refreshDelay
	if delay == 0 {
		delay = time.Second / 60
	}
	if strategy == nil {
		strategy = DrainAll()
	}
	poll := func(timeoutMs int) (Event, bool) {
		platformEvent := w.platformWinWrapper.NextEventTimeout(timeoutMs)
		if _, ok := platformEvent.(platform.TimeoutEvent); ok {
			return nil, false
		}
		return convert(platformEvent), true
	}
	handle := func(e Event) {
		switch ev := e.(type) {
		case Resize:
			w.resize(ev.Width, ev.Height)
		case DestroyNotify:
			defer w.Stop()
		}
		if handleEvent != nil {
			handleEvent(e)
		}
	}

	nextRender := time.Now().Add(delay)

	for {
		select {
		case <-w.ctx.Done():
			return
		default:
		}

		timeout := time.Until(nextRender)
		if timeout < 0 {
			timeout = 0
		}
		if timeout > maxEventWait {
			timeout = maxEventWait
		}
		timeoutMs := int(timeout / time.Millisecond)
		if timeout > 0 && timeoutMs == 0 {
			timeoutMs = 1
		}

		strategy.Consume(poll, handle, timeoutMs)
		if w.ctx.Err() != nil {
			return
		}

		now := time.Now()
		if now.Before(nextRender) {
			continue
		}
		w.drainUpdates()
		w.platformWinWrapper.BeginFrame()
		if w.renderer != nil && w.width > 0 && w.height > 0 {
			w.renderer.Render(w)
		}
		w.frames++
		w.platformWinWrapper.EndFrame()
		nextRender = now.Add(delay)
	}
}

func (w *Window) drainUpdates() {
	for {
		select {
		case upd := <-w.updates:
			upd()
		default:
			return
		}
	}
}
