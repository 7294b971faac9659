package stego

// Capacity returns the maximum frame size in bytes for an image of the given
// shape. Each channel sample carries exactly one bit.
func Capacity(width, height, channels int) int {
	if width <= 0 || height <= 0 || channels <= 0 {
		return 0
	}
	return (width * height * channels) / 8
}

// MaxPayload returns the largest payload that fits once the header is accounted for
func MaxPayload(width, height, channels int) int {
	n := Capacity(width, height, channels) - HeaderSize
	if n < 0 {
		return 0
	}
	return n
}
