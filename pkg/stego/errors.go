package stego

import "errors"

var (
	// Embedding errors
	ErrPayloadTooLarge      = errors.New("payload length does not fit in the 32-bit header")
	ErrInsufficientCapacity = errors.New("insufficient capacity for framed payload")

	// Extraction errors
	ErrInvalidOrAbsentPayload = errors.New("invalid or absent payload")

	// Invariant violations
	ErrMalformedBitLength = errors.New("bit sequence length is not a multiple of 8")
	ErrInvalidBuffer      = errors.New("pixel buffer length does not match its shape")
)
