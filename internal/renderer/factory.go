package renderer

import (
	"github.com/kjkrol/feywild/pkg/fgl"
	"github.com/kjkrol/feywild/pkg/gfx"
	"github.com/kjkrol/feywild/pkg/hex"
)

// NewRendererFactory builds a FrameRenderer sized to the window. The grid and
// token manager are created by build once the window's context exists.
func NewRendererFactory(drv fgl.Driver, build func() (*hex.Grid, *hex.TokenManager, error), opts ...Option) gfx.RendererFactory {
	return func(w *gfx.Window) (gfx.Renderer, error) {
		grid, tokens, err := build()
		if err != nil {
			return nil, err
		}
		width, height := w.Size()
		r, err := New(drv, width, height, grid, tokens, opts...)
		if err != nil {
			grid.Release()
			tokens.Release()
			return nil, err
		}
		return r, nil
	}
}
