package fgl

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// PixelFormat is the channel layout of texture data. Every format stores one
// byte per channel.
type PixelFormat uint8

const (
	RGB8 PixelFormat = iota + 1
	RGBA8
	BGR8
	BGRA8
)

func (f PixelFormat) String() string {
	switch f {
	case RGB8:
		return "RGB8"
	case RGBA8:
		return "RGBA8"
	case BGR8:
		return "BGR8"
	case BGRA8:
		return "BGRA8"
	default:
		return fmt.Sprintf("PixelFormat(%d)", uint8(f))
	}
}

// Supported reports whether f can be uploaded as is.
func (f PixelFormat) Supported() bool {
	return f >= RGB8 && f <= BGRA8
}

// BytesPerPixel returns the stride of one pixel, 0 for unsupported formats.
func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case RGB8, BGR8:
		return 3
	case RGBA8, BGRA8:
		return 4
	default:
		return 0
	}
}

// internalFormat is the sized GL storage format.
func (f PixelFormat) internalFormat() uint32 {
	if f.BytesPerPixel() == 3 {
		return GLRGB8
	}
	return GLRGBA8
}

// externalFormat is the GL channel order of client data.
func (f PixelFormat) externalFormat() uint32 {
	switch f {
	case RGB8:
		return RGB
	case BGR8:
		return BGR
	case BGRA8:
		return BGRA
	default:
		return RGBA
	}
}

// Pixels is tightly packed, top row first, 8-bit pixel data.
type Pixels struct {
	Width  int
	Height int
	Format PixelFormat
	Data   []byte
}

// NewPixels allocates zeroed pixel data.
func NewPixels(width, height int, format PixelFormat) *Pixels {
	return &Pixels{
		Width:  width,
		Height: height,
		Format: format,
		Data:   make([]byte, width*height*format.BytesPerPixel()),
	}
}

// Validate reports data that cannot be uploaded. The error wraps
// ErrUnsupportedFormat.
func (p *Pixels) Validate() error {
	if p == nil {
		return fmt.Errorf("%w: nil pixels", ErrUnsupportedFormat)
	}
	if !p.Format.Supported() {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, p.Format)
	}
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("%w: empty %dx%d image", ErrUnsupportedFormat, p.Width, p.Height)
	}
	if want := p.Width * p.Height * p.Format.BytesPerPixel(); len(p.Data) != want {
		return fmt.Errorf("%w: %s %dx%d needs %d bytes, got %d",
			ErrUnsupportedFormat, p.Format, p.Width, p.Height, want, len(p.Data))
	}
	return nil
}

// Pixel returns the channels of the pixel at (x, y).
func (p *Pixels) Pixel(x, y int) []byte {
	bpp := p.Format.BytesPerPixel()
	i := (y*p.Width + x) * bpp
	return p.Data[i : i+bpp]
}

// Normalize converts any decoded image into uploadable pixels. Grayscale
// images widen to RGB8; everything else collapses to straight-alpha RGBA8.
func Normalize(img image.Image) *Pixels {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	switch src := img.(type) {
	case *image.NRGBA:
		out := NewPixels(w, h, RGBA8)
		for y := 0; y < h; y++ {
			row := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(out.Data[y*w*4:(y+1)*w*4], src.Pix[row:row+w*4])
		}
		return out
	case *image.Gray:
		out := NewPixels(w, h, RGB8)
		for y := 0; y < h; y++ {
			row := src.PixOffset(b.Min.X, b.Min.Y+y)
			for x := 0; x < w; x++ {
				v := src.Pix[row+x]
				i := (y*w + x) * 3
				out.Data[i], out.Data[i+1], out.Data[i+2] = v, v, v
			}
		}
		return out
	case *image.Gray16:
		out := NewPixels(w, h, RGB8)
		for y := 0; y < h; y++ {
			row := src.PixOffset(b.Min.X, b.Min.Y+y)
			for x := 0; x < w; x++ {
				v := src.Pix[row+x*2] // high byte
				i := (y*w + x) * 3
				out.Data[i], out.Data[i+1], out.Data[i+2] = v, v, v
			}
		}
		return out
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return &Pixels{Width: w, Height: h, Format: RGBA8, Data: dst.Pix}
}
