package netpbm

import (
	"errors"
	"fmt"
	"io"
)

// decodeASCII reads width*height pixels of whitespace/comment delimited
// integer samples (P1, P2, P3) from a cursor positioned after the header.
func decodeASCII(c *ByteCursor, hdr *Image) ([]Pixel, error) {
	codec := formats[hdr.Format]
	total := hdr.Width * hdr.Height
	pixels := make([]Pixel, 0, initialCapacity(total))
	samples := make([]int, codec.samplesPerPixel)

	for len(pixels) < total {
		for i := range samples {
			tok, off, err := c.Token()
			if errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("%w: %d of %d pixels at offset %d", ErrInsufficientPixelData, len(pixels), total, c.Position())
			}
			if err != nil {
				return nil, err
			}
			v, err := parseToken(tok, off, "sample")
			if err != nil {
				return nil, err
			}
			samples[i] = v
		}
		pixels = append(pixels, codec.pixel(samples, hdr.MaxValue))
	}
	return pixels, nil
}
