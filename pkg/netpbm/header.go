package netpbm

import (
	"errors"
	"fmt"
	"io"
	"strconv"
)

const (
	// MaxValueLimit is the largest max value a header may declare
	MaxValueLimit = 65535
	// maxBinaryValue bounds binary max values to single byte samples
	maxBinaryValue = 0xFF
)

// HeaderParseResult is the header of a file and where its pixels begin
type HeaderParseResult struct {
	PixelDataOffset int64
	Header          Image // Pixels is empty
}

type headerState int

const (
	expectMagic headerState = iota
	expectWidth
	expectHeight
	expectMaxValue
	headerDone
)

func (s headerState) String() string {
	switch s {
	case expectMagic:
		return "magic number"
	case expectWidth:
		return "width"
	case expectHeight:
		return "height"
	case expectMaxValue:
		return "max value"
	}
	return "done"
}

// ReadHeader tokenizes the header from a cursor at position 0. On return the
// cursor sits at PixelDataOffset.
func ReadHeader(c *ByteCursor) (*HeaderParseResult, error) {
	var magic [2]byte
	for i := range magic {
		b, err := c.ReadByte()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: missing %s at offset %d", ErrTruncatedHeader, expectMagic, c.Position())
		}
		if err != nil {
			return nil, err
		}
		magic[i] = b
	}
	format := formatFromMagic(magic)
	if format == Invalid {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMagicNumber, magic[:])
	}
	if b, err := c.peek(); err == nil && !IsWhitespace(b) && !IsCommentStart(b) {
		return nil, fmt.Errorf("%w: %q followed by %q", ErrInvalidMagicNumber, magic[:], b)
	}

	hdr := Image{Format: format, MaxValue: 1}
	for state := expectWidth; state != headerDone; {
		tok, off, err := c.Token()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: missing %s at offset %d", ErrTruncatedHeader, state, c.Position())
		}
		if err != nil {
			return nil, err
		}
		v, err := parseToken(tok, off, state.String())
		if err != nil {
			return nil, err
		}

		switch state {
		case expectWidth:
			if v == 0 {
				return nil, fmt.Errorf("%w: zero width at offset %d", ErrMalformedToken, off)
			}
			hdr.Width = v
			state = expectHeight
		case expectHeight:
			if v == 0 {
				return nil, fmt.Errorf("%w: zero height at offset %d", ErrMalformedToken, off)
			}
			hdr.Height = v
			state = headerDone
			if format.HasMaxValue() {
				state = expectMaxValue
			}
		case expectMaxValue:
			if err := checkMaxValue(format, v); err != nil {
				return nil, fmt.Errorf("%w at offset %d", err, off)
			}
			hdr.MaxValue = v
			state = headerDone
		}
	}
	return &HeaderParseResult{PixelDataOffset: c.Position(), Header: hdr}, nil
}

func checkMaxValue(format PixelFormat, v int) error {
	switch {
	case v == 0:
		return fmt.Errorf("%w: zero", ErrOutOfRangeMaxValue)
	case v > MaxValueLimit:
		return fmt.Errorf("%w: %d exceeds %d", ErrOutOfRangeMaxValue, v, MaxValueLimit)
	case format.Binary() && v > maxBinaryValue:
		return fmt.Errorf("%w: %d needs 2-byte samples", ErrOutOfRangeMaxValue, v)
	}
	return nil
}

// parseToken parses a token as a non-negative decimal integer
func parseToken(tok []byte, off int64, field string) (int, error) {
	v, err := strconv.ParseUint(string(tok), 10, 31)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q at offset %d", ErrMalformedToken, field, tok, off)
	}
	return int(v), nil
}
