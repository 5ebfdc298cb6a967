package netpbm

import "io"

// BitReader reads bits MSB first from a byte stream
type BitReader struct {
	r    io.ByteReader
	buf  byte // current byte
	bits int  // number of unread bits in buf (0-8)
}

// NewBitReader creates a new bit reader
func NewBitReader(r io.ByteReader) *BitReader {
	return &BitReader{r: r}
}

// ReadBit reads a single bit
func (b *BitReader) ReadBit() (int, error) {
	if b.bits == 0 {
		c, err := b.r.ReadByte()
		if err != nil {
			return 0, err
		}
		b.buf = c
		b.bits = 8
	}
	b.bits--
	return int((b.buf >> b.bits) & 1), nil
}

// Align discards bits to reach byte boundary
func (b *BitReader) Align() {
	b.bits = 0
	b.buf = 0
}
