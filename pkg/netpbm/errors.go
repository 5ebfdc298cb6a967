package netpbm

import (
	"errors"
	"fmt"
	"io"
)

var (
	// ErrIO signals the source could not be opened or a read failed
	ErrIO = errors.New("netpbm: i/o error")
	// ErrInvalidMagicNumber signals the first two bytes are not P1..P6
	ErrInvalidMagicNumber = errors.New("netpbm: invalid magic number")
	// ErrTruncatedHeader signals end of input before the header resolved
	ErrTruncatedHeader = errors.New("netpbm: truncated header")
	// ErrMalformedToken signals a token that is not a usable non-negative integer
	ErrMalformedToken = errors.New("netpbm: malformed token")
	// ErrOutOfRangeMaxValue signals a max value of 0 or one the format cannot carry
	ErrOutOfRangeMaxValue = errors.New("netpbm: max value out of range")
	// ErrInsufficientPixelData signals end of input before width*height pixels
	ErrInsufficientPixelData = errors.New("netpbm: insufficient pixel data")
)

// ioError wraps a transport failure so it matches both ErrIO and the cause
func ioError(err error) error {
	return fmt.Errorf("%w: %w", ErrIO, err)
}

// isEOF covers a clean end of input and one in the middle of a fixed size read
func isEOF(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}
