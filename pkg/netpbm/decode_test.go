package netpbm

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	black = Pixel{R: 0, G: 0, B: 0, A: 1.0}
	white = Pixel{R: 255, G: 255, B: 255, A: 1.0}
)

func rgb(r, g, b uint8) Pixel {
	return Pixel{R: r, G: g, B: b, A: 1.0}
}

func decodeString(t *testing.T, s string) (*Image, error) {
	t.Helper()
	return Decode(bytes.NewReader([]byte(s)))
}

func TestDecode_Formats(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		format   PixelFormat
		width    int
		height   int
		maxValue int
		pixels   []Pixel
	}{
		{
			name:     "P3 passes channels through",
			input:    "P3\n2 2\n255\n255 0 0 0 255 0 0 0 255 255 255 0\n",
			format:   PixmapASCII,
			width:    2,
			height:   2,
			maxValue: 255,
			pixels:   []Pixel{rgb(255, 0, 0), rgb(0, 255, 0), rgb(0, 0, 255), rgb(255, 255, 0)},
		},
		{
			name:     "P1 zero is white",
			input:    "P1\n2 1\n1 0\n",
			format:   BitmapASCII,
			width:    2,
			height:   1,
			maxValue: 1,
			pixels:   []Pixel{black, white},
		},
		{
			name:     "P1 any nonzero is black",
			input:    "P1\n3 1\n0 7 1",
			format:   BitmapASCII,
			width:    3,
			height:   1,
			maxValue: 1,
			pixels:   []Pixel{white, black, black},
		},
		{
			name:     "P2 scales to 8 bit",
			input:    "P2\n1 1\n255\n128\n",
			format:   GraymapASCII,
			width:    1,
			height:   1,
			maxValue: 255,
			pixels:   []Pixel{rgb(128, 128, 128)},
		},
		{
			name:     "P2 low max value",
			input:    "P2\n3 1\n15\n0 7 15\n",
			format:   GraymapASCII,
			width:    3,
			height:   1,
			maxValue: 15,
			pixels:   []Pixel{rgb(0, 0, 0), rgb(119, 119, 119), rgb(255, 255, 255)},
		},
		{
			// P3 ignores max value while P2 and P5 scale by it
			name:     "P3 does not scale by max value",
			input:    "P3\n1 1\n15\n15 0 7\n",
			format:   PixmapASCII,
			width:    1,
			height:   1,
			maxValue: 15,
			pixels:   []Pixel{rgb(15, 0, 7)},
		},
		{
			name:     "P3 channels above max value pass through",
			input:    "P3\n1 1\n15\n200 0 0\n",
			format:   PixmapASCII,
			width:    1,
			height:   1,
			maxValue: 15,
			pixels:   []Pixel{rgb(200, 0, 0)},
		},
		{
			name:     "P6 channels above max value pass through",
			input:    "P6\n1 1\n15\n\xc8\x00\x00",
			format:   PixmapBinary,
			width:    1,
			height:   1,
			maxValue: 15,
			pixels:   []Pixel{rgb(200, 0, 0)},
		},
		{
			name:     "P3 clamps channels above 255",
			input:    "P3\n1 1\n1000\n256 0 0\n",
			format:   PixmapASCII,
			width:    1,
			height:   1,
			maxValue: 1000,
			pixels:   []Pixel{rgb(255, 0, 0)},
		},
		{
			name:     "P2 clamps samples above max value",
			input:    "P2\n1 1\n10\n11\n",
			format:   GraymapASCII,
			width:    1,
			height:   1,
			maxValue: 10,
			pixels:   []Pixel{white},
		},
		{
			name:     "P4 single byte",
			input:    "P4\n8 1\n\x80",
			format:   BitmapBinary,
			width:    8,
			height:   1,
			maxValue: 1,
			pixels:   []Pixel{black, white, white, white, white, white, white, white},
		},
		{
			name:     "P5 scales to 8 bit",
			input:    "P5\n3 1\n15\n\x00\x07\x0f",
			format:   GraymapBinary,
			width:    3,
			height:   1,
			maxValue: 15,
			pixels:   []Pixel{rgb(0, 0, 0), rgb(119, 119, 119), rgb(255, 255, 255)},
		},
		{
			name:     "P5 clamps samples above max value",
			input:    "P5\n1 1\n15\n\xff",
			format:   GraymapBinary,
			width:    1,
			height:   1,
			maxValue: 15,
			pixels:   []Pixel{white},
		},
		{
			name:     "P6 raw triples",
			input:    "P6\n2 1\n255\n\x01\x02\x03\xc8\x64\x32",
			format:   PixmapBinary,
			width:    2,
			height:   1,
			maxValue: 255,
			pixels:   []Pixel{rgb(1, 2, 3), rgb(200, 100, 50)},
		},
		{
			name:     "tabs and CRLF separators",
			input:    "P2\r\n2\t1\r\n255\r\n\t0   255\r\n",
			format:   GraymapASCII,
			width:    2,
			height:   1,
			maxValue: 255,
			pixels:   []Pixel{rgb(0, 0, 0), rgb(255, 255, 255)},
		},
		{
			name:     "comment right after magic number",
			input:    "P2# made by hand\n1 1 255 7",
			format:   GraymapASCII,
			width:    1,
			height:   1,
			maxValue: 255,
			pixels:   []Pixel{rgb(7, 7, 7)},
		},
		{
			name:     "comments between pixel tokens",
			input:    "P1\n2 1\n1 # first\r0 # second",
			format:   BitmapASCII,
			width:    2,
			height:   1,
			maxValue: 1,
			pixels:   []Pixel{black, white},
		},
		{
			name:     "trailing data is ignored",
			input:    "P5\n1 1\n255\n\x10garbage",
			format:   GraymapBinary,
			width:    1,
			height:   1,
			maxValue: 255,
			pixels:   []Pixel{rgb(16, 16, 16)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := decodeString(t, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.format, img.Format)
			assert.Equal(t, tt.width, img.Width)
			assert.Equal(t, tt.height, img.Height)
			assert.Equal(t, tt.maxValue, img.MaxValue)
			assert.Equal(t, tt.pixels, img.Pixels)
			assert.Len(t, img.Pixels, img.Width*img.Height)
		})
	}
}

func TestDecode_CommentLineMatchesPlainHeader(t *testing.T) {
	withComment, err := decodeString(t, "P3\n# a comment\n2 1\n255\n10 10 10 20 20 20\n")
	require.NoError(t, err)
	plain, err := decodeString(t, "P3\n2 1\n255\n10 10 10 20 20 20\n")
	require.NoError(t, err)
	assert.Equal(t, plain, withComment)
}

// Rows of a P4 image start on a byte boundary. Width 3 leaves 5 padding bits
// per row; reading the stream flat would pull row 1 out of byte 0.
func TestDecode_BitmapRowPadding(t *testing.T) {
	img, err := decodeString(t, "P4\n3 2\n\xa0\x40")
	require.NoError(t, err)
	assert.Equal(t, []Pixel{
		black, white, black,
		white, black, white,
	}, img.Pixels)
}

func TestDecode_BitmapWideRow(t *testing.T) {
	// 10 pixels per row: two bytes per row, 6 padding bits
	img, err := decodeString(t, "P4\n10 1\n\xff\xc0")
	require.NoError(t, err)
	require.Len(t, img.Pixels, 10)
	for i, p := range img.Pixels {
		assert.Equal(t, black, p, "pixel %d", i)
	}
}

// Only one separator follows the last header token; whitespace-valued bytes
// after it are pixel data.
func TestDecode_BinaryDataStartsAfterOneSeparator(t *testing.T) {
	img, err := decodeString(t, "P5\n2 1\n255\n\n ")
	require.NoError(t, err)
	assert.Equal(t, []Pixel{rgb(10, 10, 10), rgb(32, 32, 32)}, img.Pixels)

	img, err = decodeString(t, "P6\n1 1\n255\n#\n\r")
	require.NoError(t, err)
	assert.Equal(t, []Pixel{rgb('#', '\n', '\r')}, img.Pixels)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		err   error
	}{
		{"empty", "", ErrTruncatedHeader},
		{"bad magic", "XY 1 1\n", ErrInvalidMagicNumber},
		{"P7", "P7\n1 1\n", ErrInvalidMagicNumber},
		{"magic runs into width", "P32 2\n255\n0 0 0", ErrInvalidMagicNumber},
		{"lowercase p", "p3\n1 1\n255\n0 0 0", ErrInvalidMagicNumber},
		{"magic only", "P1", ErrTruncatedHeader},
		{"missing height", "P1\n2", ErrTruncatedHeader},
		{"missing max value", "P2\n2 2\n", ErrTruncatedHeader},
		{"comment to end of input", "P2\n2 2 # 255", ErrTruncatedHeader},
		{"non numeric width", "P2\nx 2\n255\n", ErrMalformedToken},
		{"negative height", "P2\n2 -2\n255\n", ErrMalformedToken},
		{"signed width", "P2\n+2 2\n255\n", ErrMalformedToken},
		{"zero width", "P1\n0 1\n", ErrMalformedToken},
		{"zero height", "P4\n1 0\n", ErrMalformedToken},
		{"huge width", "P1\n99999999999 1\n", ErrMalformedToken},
		{"zero max value", "P2\n1 1\n0\n0\n", ErrOutOfRangeMaxValue},
		{"max value too large", "P3\n1 1\n65536\n0 0 0\n", ErrOutOfRangeMaxValue},
		{"binary 16 bit max value", "P5\n1 1\n256\n\x00\x00", ErrOutOfRangeMaxValue},
		{"malformed ascii sample", "P2\n1 1\n255\nabc\n", ErrMalformedToken},
		{"short ascii data", "P2\n2 2\n255\n1 2 3\n", ErrInsufficientPixelData},
		{"short P3 triple", "P3\n1 1\n255\n1 2\n", ErrInsufficientPixelData},
		{"short P6 data", "P6\n2 2\n255\n" + string(make([]byte, 11)), ErrInsufficientPixelData},
		{"short P5 data", "P5\n2 1\n255\n\x01", ErrInsufficientPixelData},
		{"short P4 data", "P4\n9 2\n\xff\xff\xff", ErrInsufficientPixelData},
		{"no pixel data", "P6\n1 1\n255", ErrInsufficientPixelData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := decodeString(t, tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.err)
			assert.Nil(t, img)
		})
	}
}

// A header may claim far more pixels than the stream carries; the decoder
// must fail on the missing data without first reserving memory for all of it.
func TestDecode_LargeClaimedSizeAllocatesLittle(t *testing.T) {
	const limit = 8 << 20
	for _, in := range []string{
		"P5\n16777216 1\n255\n",
		"P6\n16777216 1\n255\n\x01\x02",
		"P2\n16777216 1\n255\n1 2 3\n",
		"P4\n16777216 1\n\xff",
	} {
		t.Run(in[:2], func(t *testing.T) {
			var before, after runtime.MemStats
			runtime.GC()
			runtime.ReadMemStats(&before)
			img, err := decodeString(t, in)
			runtime.ReadMemStats(&after)

			assert.ErrorIs(t, err, ErrInsufficientPixelData)
			assert.Nil(t, img)
			assert.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(limit))
		})
	}
}

func TestDecode_GrowsPastInitialCapacity(t *testing.T) {
	w := maxInitialPixels + 3
	data := append([]byte(fmt.Sprintf("P5\n%d 1\n255\n", w)), bytes.Repeat([]byte{0x40}, w)...)
	img, err := Decode(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, img.Pixels, w)
	assert.Equal(t, rgb(64, 64, 64), img.Pixels[w-1])
}

func TestDecode_Idempotent(t *testing.T) {
	inputs := []string{
		"P3\n2 2\n255\n255 0 0 0 255 0 0 0 255 255 255 0\n",
		"P4\n3 2\n\xa0\x40",
		"P5\n2 1\n200\n\x10\xc8",
	}
	for _, in := range inputs {
		first, err := decodeString(t, in)
		require.NoError(t, err)
		second, err := decodeString(t, in)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	}
}

func TestDecode_SourceKinds(t *testing.T) {
	data := []byte("P6\n1 2\n255\n\x01\x02\x03\x04\x05\x06")
	want := []Pixel{rgb(1, 2, 3), rgb(4, 5, 6)}

	t.Run("forward only", func(t *testing.T) {
		img, err := Decode(struct{ io.Reader }{bytes.NewReader(data)})
		require.NoError(t, err)
		assert.Equal(t, want, img.Pixels)
	})

	t.Run("seekable with leading bytes", func(t *testing.T) {
		r := bytes.NewReader(append([]byte("JUNK"), data...))
		_, err := r.Seek(4, io.SeekStart)
		require.NoError(t, err)
		img, err := Decode(r)
		require.NoError(t, err)
		assert.Equal(t, want, img.Pixels)
	})
}

type failingReader struct {
	data []byte
	err  error
}

func (f *failingReader) Read(p []byte) (int, error) {
	if len(f.data) == 0 {
		return 0, f.err
	}
	n := copy(p, f.data)
	f.data = f.data[n:]
	return n, nil
}

func TestDecode_ReadFailure(t *testing.T) {
	cause := errors.New("disk on fire")
	for _, in := range []string{"P2\n2 2", "P5\n2 2\n255\n\x01"} {
		img, err := Decode(&failingReader{data: []byte(in), err: cause})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrIO)
		assert.ErrorIs(t, err, cause)
		assert.Nil(t, img)
	}
}

func TestDecodeWithOptions_MaxPixels(t *testing.T) {
	in := "P5\n2 2\n255\n\x00\x00\x00\x00"
	_, err := DecodeWithOptions(bytes.NewReader([]byte(in)), &Options{MaxPixels: 3})
	assert.ErrorIs(t, err, ErrMalformedToken)

	img, err := DecodeWithOptions(bytes.NewReader([]byte(in)), &Options{MaxPixels: 4})
	require.NoError(t, err)
	assert.Len(t, img.Pixels, 4)
}

func TestDecodeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiny.pgm")
	require.NoError(t, os.WriteFile(path, []byte("P2\n1 1\n255\n128\n"), 0644))

	img, err := DecodeFile(path)
	require.NoError(t, err)
	assert.Equal(t, []Pixel{rgb(128, 128, 128)}, img.Pixels)

	_, err = DecodeFile(filepath.Join(t.TempDir(), "missing.ppm"))
	assert.ErrorIs(t, err, ErrIO)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDecodeHeader(t *testing.T) {
	res, err := DecodeHeader(bytes.NewReader([]byte("P5\n2 1\n255\n\x00\x00")))
	require.NoError(t, err)
	assert.Equal(t, int64(11), res.PixelDataOffset)
	assert.Equal(t, GraymapBinary, res.Header.Format)
	assert.Equal(t, 2, res.Header.Width)
	assert.Equal(t, 1, res.Header.Height)
	assert.Equal(t, 255, res.Header.MaxValue)
	assert.Empty(t, res.Header.Pixels)

	res, err = DecodeHeader(bytes.NewReader([]byte("P4 # c\n8 1\n\x80")))
	require.NoError(t, err)
	assert.Equal(t, int64(11), res.PixelDataOffset)
	assert.Equal(t, 1, res.Header.MaxValue)
}

func TestRegisteredWithImagePackage(t *testing.T) {
	tests := []struct {
		input string
		name  string
	}{
		{"P1\n1 1\n1\n", "pbm"},
		{"P4\n1 1\n\x80", "pbm"},
		{"P2\n1 1\n255\n9\n", "pgm"},
		{"P5\n1 1\n255\n\x09", "pgm"},
		{"P3\n1 1\n255\n1 2 3\n", "ppm"},
		{"P6\n1 1\n255\n\x01\x02\x03", "ppm"},
	}
	for _, tt := range tests {
		t.Run(tt.input[:2], func(t *testing.T) {
			img, name, err := image.Decode(bytes.NewReader([]byte(tt.input)))
			require.NoError(t, err)
			assert.Equal(t, tt.name, name)
			assert.Equal(t, image.Rect(0, 0, 1, 1), img.Bounds())

			cfg, name, err := image.DecodeConfig(bytes.NewReader([]byte(tt.input)))
			require.NoError(t, err)
			assert.Equal(t, tt.name, name)
			assert.Equal(t, 1, cfg.Width)
			assert.Equal(t, 1, cfg.Height)
		})
	}
}
