package fgl

import (
	"fmt"
	"image"
)

// Filter is the sampling policy within one mip level.
type Filter uint8

const (
	Nearest Filter = iota
	Linear
)

func (f Filter) String() string {
	if f == Linear {
		return "linear"
	}
	return "nearest"
}

func (f Filter) Enum() int32 {
	if f == Linear {
		return GLLinear
	}
	return GLNearest
}

// MipMode selects how minification blends between mip levels.
type MipMode uint8

const (
	MipNone MipMode = iota
	MipNearest
	MipLinear
)

// MinFilter is one of the six valid minification configurations.
type MinFilter struct {
	Filter Filter
	Mip    MipMode
}

func (m MinFilter) Enum() int32 {
	switch m.Mip {
	case MipNearest:
		if m.Filter == Linear {
			return LinearMipmapNearest
		}
		return NearestMipmapNearest
	case MipLinear:
		if m.Filter == Linear {
			return LinearMipmapLinear
		}
		return NearestMipmapLinear
	default:
		return m.Filter.Enum()
	}
}

// Texture2D owns one 2D texture object. Size and format never change after
// allocation.
type Texture2D struct {
	handle
	width, height int
	format        PixelFormat
	mipmaps       bool
	min           MinFilter
	mag           Filter
}

// NewTexture2D allocates uninitialised storage with a full mip chain. The
// texture is left bound to unit 0.
func NewTexture2D(drv Driver, width, height int, format PixelFormat) *Texture2D {
	if !format.Supported() {
		panic(fmt.Errorf("%w: %s", ErrUnsupportedFormat, format))
	}
	if width <= 0 || height <= 0 {
		panic(fmt.Errorf("%w: empty %dx%d texture", ErrUnsupportedFormat, width, height))
	}
	return newTexture(drv, width, height, format, nil)
}

// NewTexture2DFromPixels uploads already normalized pixels. Data in any other
// layout is a caller bug and panics before the driver is touched.
func NewTexture2DFromPixels(drv Driver, px *Pixels) *Texture2D {
	if err := px.Validate(); err != nil {
		panic(err)
	}
	return newTexture(drv, px.Width, px.Height, px.Format, px.Data)
}

// NewTexture2DFromImage normalizes img and uploads it.
func NewTexture2DFromImage(drv Driver, img image.Image) *Texture2D {
	return NewTexture2DFromPixels(drv, Normalize(img))
}

func newTexture(drv Driver, width, height int, format PixelFormat, data []byte) *Texture2D {
	t := &Texture2D{
		width:   width,
		height:  height,
		format:  format,
		mipmaps: true,
		min:     MinFilter{Filter: Linear, Mip: MipLinear},
		mag:     Linear,
	}
	t.init(drv, KindTexture, genHandles(drv, KindTexture, 1)[0])
	t.Bind(0)
	drv.TexImage2D(Texture2DTarget, 0, int32(format.internalFormat()), int32(width), int32(height),
		format.externalFormat(), UnsignedByte, data)
	drv.TexParameteri(Texture2DTarget, TextureWrapS, ClampToEdge)
	drv.TexParameteri(Texture2DTarget, TextureWrapT, ClampToEdge)
	drv.TexParameteri(Texture2DTarget, TextureMinFilter, t.min.Enum())
	drv.TexParameteri(Texture2DTarget, TextureMagFilter, t.mag.Enum())
	drv.GenerateMipmap(Texture2DTarget)
	return t
}

func (t *Texture2D) Width() int { return t.width }

func (t *Texture2D) Height() int { return t.height }

// Size returns width and height in pixels.
func (t *Texture2D) Size() (int, int) { return t.width, t.height }

func (t *Texture2D) Format() PixelFormat { return t.format }

func (t *Texture2D) HasMipmaps() bool { return t.mipmaps }

func (t *Texture2D) MinFilter() MinFilter { return t.min }

func (t *Texture2D) MagFilter() Filter { return t.mag }

// Bind makes unit active and binds the texture to it.
func (t *Texture2D) Bind(unit uint32) {
	t.drv.ActiveTexture(Texture0 + unit)
	t.drv.BindTexture(Texture2DTarget, t.id)
}

// BindCurrent binds the texture to whichever unit is already active.
func (t *Texture2D) BindCurrent() {
	t.drv.BindTexture(Texture2DTarget, t.id)
}

// ReplaceRegion overwrites the rectangle at (x, y) with px and rebuilds the
// mip chain. A region reaching past the texture edge is rejected before any
// driver call.
func (t *Texture2D) ReplaceRegion(x, y int, px *Pixels) error {
	if err := t.checkLive(); err != nil {
		return err
	}
	if err := px.Validate(); err != nil {
		panic(err)
	}
	if x < 0 || y < 0 || x+px.Width > t.width || y+px.Height > t.height {
		return outOfRange("region %dx%d at (%d,%d) exceeds %dx%d texture",
			px.Width, px.Height, x, y, t.width, t.height)
	}
	t.Bind(0)
	t.drv.TexSubImage2D(Texture2DTarget, 0, int32(x), int32(y), int32(px.Width), int32(px.Height),
		px.Format.externalFormat(), UnsignedByte, px.Data)
	if t.mipmaps {
		t.drv.GenerateMipmap(Texture2DTarget)
	}
	return nil
}

func (t *Texture2D) SetFilter(min MinFilter, mag Filter) {
	t.SetMinFilter(min)
	t.SetMagFilter(mag)
}

func (t *Texture2D) SetMinFilter(min MinFilter) {
	t.Bind(0)
	t.drv.TexParameteri(Texture2DTarget, TextureMinFilter, min.Enum())
	t.min = min
}

func (t *Texture2D) SetMagFilter(mag Filter) {
	t.Bind(0)
	t.drv.TexParameteri(Texture2DTarget, TextureMagFilter, mag.Enum())
	t.mag = mag
}
