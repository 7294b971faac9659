package stego

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withHeader writes length into the LSBs of the first 32 samples
func withHeader(buf *PixelBuffer, length uint32) {
	var header [HeaderSize]byte
	binary.BigEndian.PutUint32(header[:], length)
	for i, bit := range BytesToBits(header[:]) {
		buf.Pix[i] = (buf.Pix[i] & 0xFE) | bit
	}
}

func TestExtractEmptyPayload(t *testing.T) {
	buf := noisyBuffer(16, 16, 3, 5)
	out, err := Embed(buf, []byte{})
	require.NoError(t, err)

	got, err := Extract(out)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestExtractRejectsOversizedHeader(t *testing.T) {
	buf := NewPixelBuffer(10, 10, 1) // 100 samples, 8 bytes after header
	withHeader(buf, 9)

	_, err := Extract(buf)
	assert.ErrorIs(t, err, ErrInvalidOrAbsentPayload)

	withHeader(buf, 8)
	got, err := Extract(buf)
	require.NoError(t, err)
	assert.Len(t, got, 8)
}

func TestExtractAllOnesHeader(t *testing.T) {
	buf := NewPixelBuffer(32, 32, 3)
	for i := range buf.Pix {
		buf.Pix[i] = 0x01
	}

	_, err := Extract(buf)
	assert.ErrorIs(t, err, ErrInvalidOrAbsentPayload)
}

func TestExtractTooFewSamples(t *testing.T) {
	buf := NewPixelBuffer(5, 5, 1)
	_, err := Extract(buf)
	assert.ErrorIs(t, err, ErrInvalidOrAbsentPayload)
}

func TestExtractDoesNotMutate(t *testing.T) {
	buf := noisyBuffer(30, 30, 4, 11)
	out, err := Embed(buf, []byte("payload"))
	require.NoError(t, err)

	before := out.Clone()
	_, err = Extract(out)
	require.NoError(t, err)
	assert.Equal(t, before.Pix, out.Pix)
}

func TestReadHeader(t *testing.T) {
	buf := NewPixelBuffer(8, 8, 1)
	withHeader(buf, 0xDEADBEEF)

	n, err := ReadHeader(buf)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xDEADBEEF), n)

	_, err = ReadHeader(NewPixelBuffer(2, 2, 1))
	assert.ErrorIs(t, err, ErrInvalidOrAbsentPayload)
}
