package stego

import "fmt"

// Embed writes payload into the least significant bits of buf and returns the
// modified copy. Bits are written in flat sample order starting at index 0:
// the 32-bit length header first, then the payload, MSB first per byte.
//
// buf itself is never modified. On error no buffer is returned.
func Embed(buf *PixelBuffer, payload []byte) (*PixelBuffer, error) {
	if buf == nil {
		return nil, fmt.Errorf("%w: nil buffer", ErrInvalidBuffer)
	}

	frame, err := Frame(payload)
	if err != nil {
		return nil, err
	}

	capacity := buf.Capacity()
	if len(frame) > capacity {
		return nil, fmt.Errorf("%w: frame needs %d bytes, image holds %d (max payload %d)",
			ErrInsufficientCapacity, len(frame), capacity, MaxPayload(buf.Width, buf.Height, buf.Channels))
	}

	bits := BytesToBits(frame)

	// Shape and sample count can disagree on a hand-built buffer
	if len(bits) > len(buf.Pix) {
		return nil, fmt.Errorf("%w: frame needs %d samples, buffer has %d",
			ErrInsufficientCapacity, len(bits), len(buf.Pix))
	}

	out := buf.Clone()
	for i, bit := range bits {
		out.Pix[i] = (out.Pix[i] & 0xFE) | bit
	}

	return out, nil
}
