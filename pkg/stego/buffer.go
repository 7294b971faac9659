/*
Package stego implements least-significant-bit steganography over raw pixel
buffers: framing a payload with a length header, writing it into the LSB of
each channel sample, reading it back and computing how much a buffer can hold.

Every function here is a pure transformation. Nothing is read from or written
to disk; decoding and encoding image files happens in pkg/raster.
*/
package stego

import "fmt"

// PixelBuffer holds 8-bit channel samples in raster order: row-major,
// channel-interleaved (R,G,B[,A] per pixel, or a single L sample for gray).
type PixelBuffer struct {
	Pix      []uint8
	Width    int
	Height   int
	Channels int
}

// NewPixelBuffer allocates a zeroed buffer of the given shape
func NewPixelBuffer(width, height, channels int) *PixelBuffer {
	n := width * height * channels
	if width <= 0 || height <= 0 || channels <= 0 {
		n = 0
	}
	return &PixelBuffer{
		Pix:      make([]uint8, n),
		Width:    width,
		Height:   height,
		Channels: channels,
	}
}

// Validate checks that the sample slice length agrees with the declared shape
func (b *PixelBuffer) Validate() error {
	if b == nil {
		return fmt.Errorf("%w: nil buffer", ErrInvalidBuffer)
	}
	if b.Width < 0 || b.Height < 0 || b.Channels < 0 {
		return fmt.Errorf("%w: negative dimension %dx%dx%d", ErrInvalidBuffer, b.Width, b.Height, b.Channels)
	}
	if want := b.Width * b.Height * b.Channels; len(b.Pix) != want {
		return fmt.Errorf("%w: have %d samples, shape %dx%dx%d needs %d",
			ErrInvalidBuffer, len(b.Pix), b.Width, b.Height, b.Channels, want)
	}
	return nil
}

// Clone returns a deep copy of the buffer
func (b *PixelBuffer) Clone() *PixelBuffer {
	pix := make([]uint8, len(b.Pix))
	copy(pix, b.Pix)
	return &PixelBuffer{
		Pix:      pix,
		Width:    b.Width,
		Height:   b.Height,
		Channels: b.Channels,
	}
}

// Capacity returns how many frame bytes (header included) the buffer can hold
func (b *PixelBuffer) Capacity() int {
	return Capacity(b.Width, b.Height, b.Channels)
}

// SameShape reports whether two buffers have identical dimensions and channel layout
func (b *PixelBuffer) SameShape(other *PixelBuffer) bool {
	return b.Width == other.Width && b.Height == other.Height && b.Channels == other.Channels
}
