package stego

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	assert.NoError(t, NewPixelBuffer(4, 3, 3).Validate())
	assert.NoError(t, NewPixelBuffer(0, 0, 3).Validate())

	bad := &PixelBuffer{Pix: make([]uint8, 10), Width: 4, Height: 3, Channels: 3}
	assert.ErrorIs(t, bad.Validate(), ErrInvalidBuffer)

	var nilBuf *PixelBuffer
	assert.ErrorIs(t, nilBuf.Validate(), ErrInvalidBuffer)
}

func TestCloneIsDeep(t *testing.T) {
	buf := NewPixelBuffer(2, 2, 1)
	clone := buf.Clone()
	clone.Pix[0] = 7

	assert.Equal(t, uint8(0), buf.Pix[0])
	assert.True(t, buf.SameShape(clone))
}
