package netpbm

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitReader_ReadBit(t *testing.T) {
	br := NewBitReader(bytes.NewReader([]byte{0xA5, 0x80}))

	var got []int
	for i := 0; i < 8; i++ {
		bit, err := br.ReadBit()
		require.NoError(t, err)
		got = append(got, bit)
	}
	assert.Equal(t, []int{1, 0, 1, 0, 0, 1, 0, 1}, got)

	bit, err := br.ReadBit()
	require.NoError(t, err)
	assert.Equal(t, 1, bit)

	br.Align()
	_, err = br.ReadBit()
	assert.ErrorIs(t, err, io.EOF)
}

func TestBitReader_AlignSkipsRemainder(t *testing.T) {
	br := NewBitReader(bytes.NewReader([]byte{0x7F, 0x80}))

	bit, err := br.ReadBit()
	require.NoError(t, err)
	assert.Equal(t, 0, bit)

	br.Align()
	bit, err = br.ReadBit()
	require.NoError(t, err)
	assert.Equal(t, 1, bit, "first bit of the second byte")
}
