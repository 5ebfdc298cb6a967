package netpbm

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImage_ImplementsImage(t *testing.T) {
	img := &Image{
		Format:   PixmapASCII,
		Width:    2,
		Height:   2,
		MaxValue: 255,
		Pixels:   []Pixel{rgb(255, 0, 0), rgb(0, 255, 0), rgb(0, 0, 255), rgb(255, 255, 0)},
	}

	assert.Equal(t, image.Rect(0, 0, 2, 2), img.Bounds())
	assert.Equal(t, color.RGBAModel, img.ColorModel())
	assert.Equal(t, color.RGBA{R: 0, G: 0, B: 255, A: 255}, img.At(0, 1))
	assert.Equal(t, color.RGBA{}, img.At(2, 0))
	assert.Equal(t, color.RGBA{}, img.At(0, -1))

	p, ok := img.PixelAt(1, 1)
	require.True(t, ok)
	assert.Equal(t, rgb(255, 255, 0), p)

	fb := img.RGBA()
	assert.Equal(t, []uint8{
		255, 0, 0, 255, 0, 255, 0, 255,
		0, 0, 255, 255, 255, 255, 0, 255,
	}, fb.Pix)
}
