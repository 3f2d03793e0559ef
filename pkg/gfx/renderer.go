package gfx

// Renderer draws one frame into the window's current context.
type Renderer interface {
	Render(w *Window)
	// Resize is called with the new framebuffer size before the next Render.
	Resize(width, height int)
	Close()
}

type RendererFactory func(w *Window) (Renderer, error)
