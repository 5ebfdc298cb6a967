package netpbm

import (
	"image"
	"image/color"
)

// Pixel is one decoded RGB pixel. A is always 1.0.
type Pixel struct {
	R, G, B uint8
	A       float64
}

// RGBA converts the pixel to an 8-bit color
func (p Pixel) RGBA() color.RGBA {
	return color.RGBA{R: p.R, G: p.G, B: p.B, A: uint8(p.A*0xFF + 0.5)}
}

// Image is a fully decoded netpbm image. Pixels are row-major from the top
// left and len(Pixels) == Width*Height. Images returned by Decode are not
// modified afterwards and may be shared read-only.
type Image struct {
	Format   PixelFormat
	Width    int
	Height   int
	MaxValue int // 1 for bitmaps
	Pixels   []Pixel
}

var _ image.Image = (*Image)(nil)

// ColorModel implements image.Image
func (i *Image) ColorModel() color.Model {
	return color.RGBAModel
}

// Bounds implements image.Image
func (i *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, i.Width, i.Height)
}

// At implements image.Image; points outside the bounds are transparent
func (i *Image) At(x, y int) color.Color {
	p, ok := i.PixelAt(x, y)
	if !ok {
		return color.RGBA{}
	}
	return p.RGBA()
}

// PixelAt returns the pixel at (x, y) and whether it is in bounds
func (i *Image) PixelAt(x, y int) (Pixel, bool) {
	if x < 0 || y < 0 || x >= i.Width || y >= i.Height {
		return Pixel{}, false
	}
	idx := y*i.Width + x
	if idx >= len(i.Pixels) {
		return Pixel{}, false
	}
	return i.Pixels[idx], true
}

// RGBA copies the pixels into a new RGBA8 image
func (i *Image) RGBA() *image.RGBA {
	out := image.NewRGBA(i.Bounds())
	for idx, p := range i.Pixels {
		out.SetRGBA(idx%i.Width, idx/i.Width, p.RGBA())
	}
	return out
}
