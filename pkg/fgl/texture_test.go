package fgl_test

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/kjkrol/feywild/pkg/fgl"
	"github.com/kjkrol/feywild/pkg/fgl/fgltest"
)

func solid(w, h int, format fgl.PixelFormat, fill byte) *fgl.Pixels {
	px := fgl.NewPixels(w, h, format)
	for i := range px.Data {
		px.Data[i] = fill
	}
	return px
}

func TestTexture_RoundTrip(t *testing.T) {
	for _, format := range []fgl.PixelFormat{fgl.RGB8, fgl.RGBA8, fgl.BGR8, fgl.BGRA8} {
		for _, dims := range [][2]int{{1, 1}, {3, 5}, {64, 17}} {
			drv := fgltest.New()
			tex := fgl.NewTexture2DFromPixels(drv, solid(dims[0], dims[1], format, 7))
			if tex.Width() != dims[0] || tex.Height() != dims[1] || tex.Format() != format {
				t.Errorf("%s %v: got %dx%d %s", format, dims, tex.Width(), tex.Height(), tex.Format())
			}
			state := drv.Texture(tex.ID())
			if state.Width != dims[0] || state.Height != dims[1] {
				t.Errorf("%s %v: driver storage %dx%d", format, dims, state.Width, state.Height)
			}
			if state.Mipmaps != 1 || !tex.HasMipmaps() {
				t.Errorf("%s %v: mip chain not generated", format, dims)
			}
			if drv.BoundTexture(0) != tex.ID() {
				t.Errorf("%s %v: texture not left bound to unit 0", format, dims)
			}
		}
	}
}

func TestTexture_BGRUploadIsSwizzled(t *testing.T) {
	drv := fgltest.New()
	px := &fgl.Pixels{Width: 1, Height: 1, Format: fgl.BGRA8, Data: []byte{1, 2, 3, 4}}
	tex := fgl.NewTexture2DFromPixels(drv, px)
	if got := drv.Texture(tex.ID()).Pixel(0, 0); !bytes.Equal(got, []byte{3, 2, 1, 4}) {
		t.Errorf("stored pixel = %v", got)
	}
}

func TestTexture_UnsupportedUploadPanics(t *testing.T) {
	cases := map[string]*fgl.Pixels{
		"unknown format": {Width: 1, Height: 1, Format: fgl.PixelFormat(42), Data: []byte{0}},
		"short data":     {Width: 2, Height: 2, Format: fgl.RGBA8, Data: make([]byte, 15)},
		"empty":          {Width: 0, Height: 2, Format: fgl.RGB8},
	}
	for name, px := range cases {
		t.Run(name, func(t *testing.T) {
			drv := fgltest.New()
			defer func() {
				err, _ := recover().(error)
				if !errors.Is(err, fgl.ErrUnsupportedFormat) {
					t.Errorf("expected ErrUnsupportedFormat panic, got %v", err)
				}
				if drv.Calls() != 0 {
					t.Errorf("driver called %d times", drv.Calls())
				}
			}()
			fgl.NewTexture2DFromPixels(drv, px)
		})
	}
}

func TestTexture_ReplaceRegionBounds(t *testing.T) {
	drv := fgltest.New()
	tex := fgl.NewTexture2DFromPixels(drv, solid(8, 4, fgl.RGBA8, 0))

	tests := []struct {
		name string
		x, y int
		w, h int
	}{
		{"too wide", 5, 0, 4, 1},
		{"too tall", 0, 2, 1, 3},
		{"negative x", -1, 0, 1, 1},
		{"negative y", 0, -1, 1, 1},
	}
	for _, tt := range tests {
		before := drv.Calls()
		err := tex.ReplaceRegion(tt.x, tt.y, solid(tt.w, tt.h, fgl.RGBA8, 1))
		if !errors.Is(err, fgl.ErrOutOfRange) {
			t.Errorf("%s: expected ErrOutOfRange, got %v", tt.name, err)
		}
		if drv.Calls() != before {
			t.Errorf("%s: driver called before bounds check", tt.name)
		}
	}
}

func TestTexture_ReplaceRegionLeavesOutsideUntouched(t *testing.T) {
	drv := fgltest.New()
	tex := fgl.NewTexture2DFromPixels(drv, solid(6, 5, fgl.RGBA8, 10))
	if err := tex.ReplaceRegion(2, 1, solid(3, 2, fgl.RGBA8, 200)); err != nil {
		t.Fatal(err)
	}
	state := drv.Texture(tex.ID())
	for y := 0; y < 5; y++ {
		for x := 0; x < 6; x++ {
			inside := x >= 2 && x < 5 && y >= 1 && y < 3
			want := byte(10)
			if inside {
				want = 200
			}
			if got := state.Pixel(x, y)[0]; got != want {
				t.Errorf("pixel (%d,%d) = %d, want %d", x, y, got, want)
			}
		}
	}
	if state.Mipmaps != 2 {
		t.Errorf("mipmaps regenerated %d times, want 2", state.Mipmaps)
	}
}

func TestTexture_FilterConfigurations(t *testing.T) {
	tests := []struct {
		min  fgl.MinFilter
		want int32
	}{
		{fgl.MinFilter{Filter: fgl.Nearest}, fgl.GLNearest},
		{fgl.MinFilter{Filter: fgl.Linear}, fgl.GLLinear},
		{fgl.MinFilter{Filter: fgl.Nearest, Mip: fgl.MipNearest}, fgl.NearestMipmapNearest},
		{fgl.MinFilter{Filter: fgl.Linear, Mip: fgl.MipNearest}, fgl.LinearMipmapNearest},
		{fgl.MinFilter{Filter: fgl.Nearest, Mip: fgl.MipLinear}, fgl.NearestMipmapLinear},
		{fgl.MinFilter{Filter: fgl.Linear, Mip: fgl.MipLinear}, fgl.LinearMipmapLinear},
	}
	drv := fgltest.New()
	tex := fgl.NewTexture2D(drv, 2, 2, fgl.RGB8)
	for _, tt := range tests {
		tex.SetFilter(tt.min, fgl.Nearest)
		state := drv.Texture(tex.ID())
		if state.MinFilter != tt.want || state.MagFilter != fgl.GLNearest {
			t.Errorf("%+v: min=%#x mag=%#x", tt.min, state.MinFilter, state.MagFilter)
		}
	}
}

func TestTexture_BindUnits(t *testing.T) {
	drv := fgltest.New()
	a := fgl.NewTexture2D(drv, 1, 1, fgl.RGBA8)
	b := fgl.NewTexture2D(drv, 1, 1, fgl.RGBA8)
	a.Bind(3)
	b.BindCurrent()
	if drv.BoundTexture(3) != b.ID() {
		t.Errorf("BindCurrent did not use active unit 3")
	}
	if drv.BoundTexture(0) != b.ID() {
		// b was left on unit 0 by allocation
		t.Errorf("unit 0 = %d", drv.BoundTexture(0))
	}
}

func TestNormalize(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 2, 1))
	gray.SetGray(1, 0, color.Gray{Y: 99})

	nrgba := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	nrgba.SetNRGBA(1, 1, color.NRGBA{R: 1, G: 2, B: 3, A: 4})

	paletted := image.NewPaletted(image.Rect(0, 0, 1, 1), color.Palette{color.RGBA{R: 255, A: 255}})

	rgba64 := image.NewRGBA64(image.Rect(0, 0, 1, 1))
	rgba64.SetRGBA64(0, 0, color.RGBA64{R: 0xFFFF, G: 0x8000, A: 0xFFFF})

	tests := []struct {
		name   string
		img    image.Image
		format fgl.PixelFormat
		x, y   int
		want   []byte
	}{
		{"gray widens to rgb", gray, fgl.RGB8, 1, 0, []byte{99, 99, 99}},
		{"nrgba passes through", nrgba, fgl.RGBA8, 1, 1, []byte{1, 2, 3, 4}},
		{"sub image keeps origin", nrgba.SubImage(image.Rect(1, 1, 2, 2)), fgl.RGBA8, 0, 0, []byte{1, 2, 3, 4}},
		{"paletted collapses", paletted, fgl.RGBA8, 0, 0, []byte{255, 0, 0, 255}},
		{"16-bit collapses", rgba64, fgl.RGBA8, 0, 0, []byte{255, 128, 0, 255}},
	}
	for _, tt := range tests {
		px := fgl.Normalize(tt.img)
		if px.Format != tt.format {
			t.Errorf("%s: format %s, want %s", tt.name, px.Format, tt.format)
			continue
		}
		if err := px.Validate(); err != nil {
			t.Errorf("%s: %v", tt.name, err)
			continue
		}
		if got := px.Pixel(tt.x, tt.y); !bytes.Equal(got, tt.want) {
			t.Errorf("%s: pixel = %v, want %v", tt.name, got, tt.want)
		}
	}
}
