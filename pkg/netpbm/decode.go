package netpbm

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"log/slog"
	"os"
)

// Options configures decoding
type Options struct {
	// MaxPixels bounds width*height; headers above it are rejected before
	// any pixel storage is allocated. Zero means DefaultMaxPixels.
	MaxPixels int
}

// DefaultMaxPixels is the pixel budget used when Options.MaxPixels is zero
const DefaultMaxPixels = 1 << 28

func (o *Options) maxPixels() int {
	if o == nil || o.MaxPixels <= 0 {
		return DefaultMaxPixels
	}
	return o.MaxPixels
}

// Decode reads a complete P1-P6 image. Either the whole image is returned
// or an error matching one of the Err* kinds; partial images never escape.
func Decode(r io.Reader) (*Image, error) {
	return DecodeWithOptions(r, nil)
}

// DecodeWithOptions is Decode with explicit options; nil uses defaults
func DecodeWithOptions(r io.Reader, opts *Options) (*Image, error) {
	c := NewByteCursor(r)
	res, err := ReadHeader(c)
	if err != nil {
		return nil, err
	}
	hdr := res.Header
	if n := int64(hdr.Width) * int64(hdr.Height); n > int64(opts.maxPixels()) {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrMalformedToken, hdr.Width, hdr.Height, opts.maxPixels())
	}
	slog.Debug("netpbm header",
		"format", hdr.Format.String(), "width", hdr.Width, "height", hdr.Height,
		"max_value", hdr.MaxValue, "offset", res.PixelDataOffset)

	var pixels []Pixel
	if hdr.Format.Binary() {
		if err := c.SeekTo(res.PixelDataOffset); err != nil {
			return nil, err
		}
		pixels, err = decodeBinary(c, &hdr)
	} else {
		pixels, err = decodeASCII(c, &hdr)
	}
	if err != nil {
		return nil, err
	}

	hdr.Pixels = pixels
	return &hdr, nil
}

// DecodeFile opens, decodes and closes the file at path
func DecodeFile(path string) (*Image, error) {
	return DecodeFileWithOptions(path, nil)
}

// DecodeFileWithOptions is DecodeFile with explicit options
func DecodeFileWithOptions(path string, opts *Options) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ioError(err)
	}
	defer f.Close()
	return DecodeWithOptions(f, opts)
}

// DecodeHeader reads only the header of r
func DecodeHeader(r io.Reader) (*HeaderParseResult, error) {
	return ReadHeader(NewByteCursor(r))
}

// DecodeConfig returns the image configuration without decoding pixels
func DecodeConfig(r io.Reader) (image.Config, error) {
	res, err := DecodeHeader(r)
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{
		Width:      res.Header.Width,
		Height:     res.Header.Height,
		ColorModel: color.RGBAModel,
	}, nil
}

// decodeImage adapts Decode to the image.RegisterFormat signature
func decodeImage(r io.Reader) (image.Image, error) {
	img, err := Decode(r)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// Register formats with image package
func init() {
	for f, codec := range formats {
		image.RegisterFormat(f.Name(), codec.magic, decodeImage, DecodeConfig)
	}
}
