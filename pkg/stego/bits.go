package stego

import "fmt"

// BytesToBits expands data into one 0/1 value per bit, most significant bit first
func BytesToBits(data []byte) []uint8 {
	bits := make([]uint8, 0, len(data)*8)
	for _, b := range data {
		for shift := 7; shift >= 0; shift-- {
			bits = append(bits, (b>>uint(shift))&1)
		}
	}
	return bits
}

// BitsToBytes packs a bit sequence produced by BytesToBits back into bytes.
// Only the lowest bit of each element is used.
func BitsToBytes(bits []uint8) ([]byte, error) {
	if len(bits)%8 != 0 {
		return nil, fmt.Errorf("%w: got %d bits", ErrMalformedBitLength, len(bits))
	}

	out := make([]byte, len(bits)/8)
	for i, bit := range bits {
		out[i/8] = (out[i/8] << 1) | (bit & 1)
	}
	return out, nil
}
