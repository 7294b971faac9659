package stego

import (
	"encoding/binary"
	"fmt"
	"math"
)

const (
	// HeaderSize is the length prefix width in bytes
	HeaderSize = 4
	// HeaderBits is the number of samples the length prefix occupies
	HeaderBits = HeaderSize * 8
)

// Frame prefixes payload with its length as a big-endian uint32.
// The payload bytes are copied, never aliased.
func Frame(payload []byte) ([]byte, error) {
	if err := checkPayloadLen(uint64(len(payload))); err != nil {
		return nil, err
	}

	frame := make([]byte, HeaderSize+len(payload))
	binary.BigEndian.PutUint32(frame[:HeaderSize], uint32(len(payload)))
	copy(frame[HeaderSize:], payload)
	return frame, nil
}

// FrameSize returns the framed length of an n-byte payload
func FrameSize(n int) int {
	return HeaderSize + n
}

func checkPayloadLen(n uint64) error {
	if n > math.MaxUint32 {
		return fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, n)
	}
	return nil
}
