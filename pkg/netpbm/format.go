package netpbm

// PixelFormat identifies one of the six netpbm variants
type PixelFormat int

const (
	Invalid       PixelFormat = iota
	BitmapASCII               // P1
	GraymapASCII              // P2
	PixmapASCII               // P3
	BitmapBinary              // P4
	GraymapBinary             // P5
	PixmapBinary              // P6
)

// formatCodec is the per-format decoding strategy. Both the ASCII and the
// binary decoders look the format up here instead of branching on it.
type formatCodec struct {
	magic           string
	binary          bool
	hasMaxValue     bool
	samplesPerPixel int
	// pixel maps one pixel's samples to an output pixel
	pixel func(samples []int, maxValue int) Pixel
}

var formats = map[PixelFormat]formatCodec{
	BitmapASCII:   {magic: "P1", samplesPerPixel: 1, pixel: bitmapPixel},
	GraymapASCII:  {magic: "P2", hasMaxValue: true, samplesPerPixel: 1, pixel: graymapPixel},
	PixmapASCII:   {magic: "P3", hasMaxValue: true, samplesPerPixel: 3, pixel: pixmapPixel},
	BitmapBinary:  {magic: "P4", binary: true, samplesPerPixel: 1, pixel: bitmapPixel},
	GraymapBinary: {magic: "P5", binary: true, hasMaxValue: true, samplesPerPixel: 1, pixel: graymapPixel},
	PixmapBinary:  {magic: "P6", binary: true, hasMaxValue: true, samplesPerPixel: 3, pixel: pixmapPixel},
}

// formatFromMagic maps the two leading bytes of a file to a format
func formatFromMagic(magic [2]byte) PixelFormat {
	for f, codec := range formats {
		if codec.magic == string(magic[:]) {
			return f
		}
	}
	return Invalid
}

// String returns the magic number of the format ("P1".."P6") or "Invalid"
func (f PixelFormat) String() string {
	if codec, ok := formats[f]; ok {
		return codec.magic
	}
	return "Invalid"
}

// Name returns the conventional family name: pbm, pgm or ppm
func (f PixelFormat) Name() string {
	switch f {
	case BitmapASCII, BitmapBinary:
		return "pbm"
	case GraymapASCII, GraymapBinary:
		return "pgm"
	case PixmapASCII, PixmapBinary:
		return "ppm"
	}
	return "invalid"
}

// Binary reports whether pixel data is raw bytes (P4, P5, P6)
func (f PixelFormat) Binary() bool {
	return formats[f].binary
}

// HasMaxValue reports whether the header carries a max value token
func (f PixelFormat) HasMaxValue() bool {
	return formats[f].hasMaxValue
}

// SamplesPerPixel is 3 for pixmaps and 1 otherwise, 0 for Invalid
func (f PixelFormat) SamplesPerPixel() int {
	return formats[f].samplesPerPixel
}

// bitmapPixel: 0 is white, anything else is black
func bitmapPixel(samples []int, _ int) Pixel {
	if samples[0] == 0 {
		return gray(0xFF)
	}
	return gray(0)
}

// graymapPixel scales by max value; samples above it clamp to white
func graymapPixel(samples []int, maxValue int) Pixel {
	return gray(Scale(samples[0], maxValue))
}

// pixmapPixel passes channels through unscaled, whatever the max value.
// Channels above 255 clamp.
func pixmapPixel(samples []int, _ int) Pixel {
	return Pixel{R: clampByte(samples[0]), G: clampByte(samples[1]), B: clampByte(samples[2]), A: 1.0}
}

func gray(v uint8) Pixel {
	return Pixel{R: v, G: v, B: v, A: 1.0}
}

func clampByte(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 0xFF {
		return 0xFF
	}
	return uint8(v)
}
