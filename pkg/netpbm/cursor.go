package netpbm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

const (
	lf    = '\n'
	cr    = '\r'
	space = ' '
	tab   = '\t'
	hash  = '#'
)

// IsWhitespace reports whether b separates tokens
func IsWhitespace(b byte) bool {
	return b == space || b == tab || b == cr || b == lf
}

// IsCommentStart reports whether b opens a comment running to end of line
func IsCommentStart(b byte) bool {
	return b == hash
}

// ByteCursor reads a byte source sequentially and tracks the offset of the
// next unread byte. Header tokenizing and ASCII pixel decoding share its
// Token method so both stages apply the same whitespace and comment rules.
type ByteCursor struct {
	src  io.Reader
	r    *bufio.Reader
	pos  int64
	base int64 // source offset of position 0, for seekable sources
}

// NewByteCursor creates a cursor at position 0 of r
func NewByteCursor(r io.Reader) *ByteCursor {
	c := &ByteCursor{src: r, r: bufio.NewReader(r)}
	if s, ok := r.(io.Seeker); ok {
		if off, err := s.Seek(0, io.SeekCurrent); err == nil {
			c.base = off
		}
	}
	return c
}

// Position is the offset of the next byte to be read
func (c *ByteCursor) Position() int64 {
	return c.pos
}

// ReadByte returns the next byte. io.EOF is returned bare, every other
// failure is wrapped as ErrIO.
func (c *ByteCursor) ReadByte() (byte, error) {
	b, err := c.r.ReadByte()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, io.EOF
		}
		return 0, ioError(err)
	}
	c.pos++
	return b, nil
}

// Read implements io.Reader for the binary pixel stage
func (c *ByteCursor) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.pos += int64(n)
	if err != nil && !errors.Is(err, io.EOF) {
		err = ioError(err)
	}
	return n, err
}

// peek returns the next byte without consuming it
func (c *ByteCursor) peek() (byte, error) {
	bs, err := c.r.Peek(1)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, io.EOF
		}
		return 0, ioError(err)
	}
	return bs[0], nil
}

// PeekIsWhitespace reports whether the next byte is a separator
func (c *ByteCursor) PeekIsWhitespace() bool {
	b, err := c.peek()
	return err == nil && IsWhitespace(b)
}

// PeekIsCommentStart reports whether the next byte opens a comment
func (c *ByteCursor) PeekIsCommentStart() bool {
	b, err := c.peek()
	return err == nil && IsCommentStart(b)
}

// SkipComment consumes a comment through its terminating CR or LF. The
// opening '#' must already be consumed. End of input ends the comment.
func (c *ByteCursor) SkipComment() error {
	for {
		b, err := c.ReadByte()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if b == lf || b == cr {
			return nil
		}
	}
}

// Token skips separators and comments, then returns the next maximal run of
// token bytes and the offset it started at. Exactly one terminating byte is
// consumed after the token: a separator, or a whole comment when the token
// runs straight into '#'. A token cut short by end of input is returned
// without error; io.EOF is returned only when no token byte was found.
func (c *ByteCursor) Token() ([]byte, int64, error) {
	for c.PeekIsWhitespace() || c.PeekIsCommentStart() {
		comment := c.PeekIsCommentStart()
		if _, err := c.ReadByte(); err != nil {
			return nil, c.pos, err
		}
		if !comment {
			continue
		}
		if err := c.SkipComment(); err != nil {
			return nil, c.pos, err
		}
	}

	start := c.pos
	b, err := c.ReadByte()
	if err != nil {
		return nil, start, err
	}
	tok := []byte{b}
	for {
		b, err = c.ReadByte()
		if errors.Is(err, io.EOF) {
			return tok, start, nil
		}
		if err != nil {
			return nil, start, err
		}
		switch {
		case IsWhitespace(b):
			return tok, start, nil
		case IsCommentStart(b):
			return tok, start, c.SkipComment()
		}
		tok = append(tok, b)
	}
}

// SeekTo moves the cursor to offset. Seekable sources are repositioned and
// the buffer discarded; other sources can only move forward.
func (c *ByteCursor) SeekTo(offset int64) error {
	if offset == c.pos {
		return nil
	}
	if s, ok := c.src.(io.Seeker); ok {
		if _, err := s.Seek(c.base+offset, io.SeekStart); err != nil {
			return ioError(err)
		}
		c.r.Reset(c.src)
		c.pos = offset
		return nil
	}
	if offset < c.pos {
		return ioError(fmt.Errorf("cannot rewind from %d to %d", c.pos, offset))
	}
	n, err := c.r.Discard(int(offset - c.pos))
	c.pos += int64(n)
	if err != nil && !errors.Is(err, io.EOF) {
		return ioError(err)
	}
	return nil
}
