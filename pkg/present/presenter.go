// Package present hands decoded netpbm images to something that shows them.
// Presenters hold their own state and only ever read the Image.
package present

import (
	"context"
	"fmt"

	"github.com/jpfielding/netpbm.go/pkg/netpbm"
)

// Presenter consumes a decoded image
type Presenter interface {
	Present(ctx context.Context, img *netpbm.Image) error
}

// Framebuffer renders an image into an RGBA8 frame the way a window surface
// expects it: row-major, 4 bytes per pixel, opaque alpha.
type Framebuffer struct {
	Title string

	img   *netpbm.Image
	pix   []byte
	drawn bool
}

var _ Presenter = (*Framebuffer)(nil)

// NewFramebuffer creates an empty framebuffer; Present fills it
func NewFramebuffer(title string) *Framebuffer {
	return &Framebuffer{Title: title}
}

// Present draws img into a freshly sized frame
func (f *Framebuffer) Present(_ context.Context, img *netpbm.Image) error {
	pix := make([]byte, img.Width*img.Height*4)
	if err := draw(img, pix); err != nil {
		return err
	}
	f.img = img
	f.pix = pix
	f.drawn = true
	return nil
}

// Draw copies the presented image into a caller owned frame, such as a
// window surface of Size() pixels.
func (f *Framebuffer) Draw(frame []byte) error {
	if f.img == nil {
		return fmt.Errorf("framebuffer: nothing presented")
	}
	return draw(f.img, frame)
}

// Size is the window size needed to show the image 1:1
func (f *Framebuffer) Size() (width, height int) {
	if f.img == nil {
		return 0, 0
	}
	return f.img.Width, f.img.Height
}

// Pix is the last drawn frame
func (f *Framebuffer) Pix() []byte {
	return f.pix
}

// Drawn reports whether a frame has been rendered
func (f *Framebuffer) Drawn() bool {
	return f.drawn
}

func draw(img *netpbm.Image, frame []byte) error {
	if len(frame) != len(img.Pixels)*4 {
		return fmt.Errorf("framebuffer: frame is %d bytes, need %d for %dx%d", len(frame), len(img.Pixels)*4, img.Width, img.Height)
	}
	for i, p := range img.Pixels {
		c := p.RGBA()
		frame[i*4] = c.R
		frame[i*4+1] = c.G
		frame[i*4+2] = c.B
		frame[i*4+3] = c.A
	}
	return nil
}

// WindowTitle is the title a viewer window shows for a file
func WindowTitle(name string, img *netpbm.Image) string {
	return fmt.Sprintf("PPMViewer - %s (%s %dx%d)", name, img.Format, img.Width, img.Height)
}
