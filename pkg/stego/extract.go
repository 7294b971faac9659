package stego

import (
	"encoding/binary"
	"fmt"
)

// Extract reads a frame written by Embed and returns the payload bytes.
//
// The only validation possible is that the decoded length fits in what is
// left of the buffer after the header. An image that never carried a payload
// usually fails that check with ErrInvalidOrAbsentPayload, but a random header
// that happens to fit decodes to garbage without error.
func Extract(buf *PixelBuffer) ([]byte, error) {
	if buf == nil {
		return nil, fmt.Errorf("%w: nil buffer", ErrInvalidBuffer)
	}

	if len(buf.Pix) < HeaderBits {
		return nil, fmt.Errorf("%w: buffer has %d samples, header needs %d",
			ErrInvalidOrAbsentPayload, len(buf.Pix), HeaderBits)
	}

	header, err := BitsToBytes(readLSBs(buf.Pix, 0, HeaderBits))
	if err != nil {
		return nil, err
	}
	payloadLen := uint64(binary.BigEndian.Uint32(header))

	available := uint64(len(buf.Pix)-HeaderBits) / 8
	if payloadLen > available {
		return nil, fmt.Errorf("%w: header declares %d bytes, only %d available",
			ErrInvalidOrAbsentPayload, payloadLen, available)
	}

	bitCount := int(payloadLen) * 8
	payload, err := BitsToBytes(readLSBs(buf.Pix, HeaderBits, bitCount))
	if err != nil {
		return nil, err
	}

	return payload, nil
}

// ReadHeader returns the payload length declared by the first 32 LSBs of buf
// without validating it against the buffer size.
func ReadHeader(buf *PixelBuffer) (uint32, error) {
	if buf == nil || len(buf.Pix) < HeaderBits {
		return 0, ErrInvalidOrAbsentPayload
	}
	header, err := BitsToBytes(readLSBs(buf.Pix, 0, HeaderBits))
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(header), nil
}

// readLSBs collects the low bit of count samples starting at offset
func readLSBs(pix []uint8, offset, count int) []uint8 {
	bits := make([]uint8, count)
	for i := range bits {
		bits[i] = pix[offset+i] & 1
	}
	return bits
}
