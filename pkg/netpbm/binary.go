package netpbm

import (
	"fmt"
	"io"
)

// decodeBinary reads width*height pixels of raw samples (P4, P5, P6) from a
// cursor positioned at the pixel data offset.
func decodeBinary(c *ByteCursor, hdr *Image) ([]Pixel, error) {
	if hdr.Format == BitmapBinary {
		return decodeBitmapRows(c, hdr)
	}

	codec := formats[hdr.Format]
	total := hdr.Width * hdr.Height
	pixels := make([]Pixel, 0, initialCapacity(total))
	raw := make([]byte, codec.samplesPerPixel)
	samples := make([]int, codec.samplesPerPixel)

	// the cursor is buffered, so one pixel per read is cheap
	for len(pixels) < total {
		if _, err := io.ReadFull(c, raw); err != nil {
			return nil, pixelReadError(err, len(pixels), hdr, c)
		}
		for i, b := range raw {
			samples[i] = int(b)
		}
		pixels = append(pixels, codec.pixel(samples, hdr.MaxValue))
	}
	return pixels, nil
}

// decodeBitmapRows unpacks P4 data: one bit per pixel, MSB first, 1 is
// black. Every row starts on a byte boundary; trailing bits are padding.
func decodeBitmapRows(c *ByteCursor, hdr *Image) ([]Pixel, error) {
	codec := formats[hdr.Format]
	pixels := make([]Pixel, 0, initialCapacity(hdr.Width*hdr.Height))
	br := NewBitReader(c)
	sample := make([]int, 1)

	for y := 0; y < hdr.Height; y++ {
		for x := 0; x < hdr.Width; x++ {
			bit, err := br.ReadBit()
			if err != nil {
				return nil, pixelReadError(err, len(pixels), hdr, c)
			}
			sample[0] = bit
			pixels = append(pixels, codec.pixel(sample, hdr.MaxValue))
		}
		br.Align()
	}
	return pixels, nil
}

// maxInitialPixels caps the capacity reserved from header dimensions alone;
// larger images grow as their pixel data actually arrives.
const maxInitialPixels = 1 << 16

func initialCapacity(total int) int {
	return min(total, maxInitialPixels)
}

func pixelReadError(err error, decoded int, hdr *Image, c *ByteCursor) error {
	if isEOF(err) {
		return fmt.Errorf("%w: %d of %d pixels at offset %d", ErrInsufficientPixelData, decoded, hdr.Width*hdr.Height, c.Position())
	}
	return err
}
