// Package payload prepares data before it is framed into an image and
// restores it after extraction. Packing is optional and invisible to the
// frame format: a compressed payload is just opaque bytes to the embedder.
//
// A packed payload is the 4-byte Marker followed by a zstd stream. Data
// embedded without packing is never decompressed, even when it happens to
// be a zstd stream itself.
package payload

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// DefaultLevel is the zstd level used when Options.Level is zero
const DefaultLevel = 3

var (
	ErrInvalidLevel = errors.New("compression level must be between 1 and 22")
	ErrTooLarge     = errors.New("decompressed payload exceeds size limit")

	zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}
)

// Marker prefixes payloads written by Pack with compression enabled
var Marker = []byte{'S', 'T', 'Z', 0x01}

// Options controls payload packing
type Options struct {
	Compress bool
	Level    int
}

// Pack returns data unchanged, or zstd-compressed when opts.Compress is set
func Pack(data []byte, opts Options) ([]byte, error) {
	if !opts.Compress {
		return data, nil
	}

	level := opts.Level
	if level == 0 {
		level = DefaultLevel
	}
	if level < 1 || level > 22 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLevel, level)
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
	if err != nil {
		return nil, fmt.Errorf("failed to create compressor: %w", err)
	}
	defer enc.Close()

	out := make([]byte, 0, len(Marker)+len(data)/2)
	out = append(out, Marker...)
	return enc.EncodeAll(data, out), nil
}

// IsCompressed reports whether data was produced by Pack with compression
func IsCompressed(data []byte) bool {
	return bytes.HasPrefix(data, Marker) && bytes.HasPrefix(data[len(Marker):], zstdMagic)
}

// Unpack decompresses payloads written by Pack and passes everything else
// through. maxSize caps the decompressed size; zero means no limit. A payload
// that only looks packed is returned as-is.
func Unpack(data []byte, maxSize int) ([]byte, bool, error) {
	if !IsCompressed(data) {
		return data, false, nil
	}

	opts := []zstd.DOption{zstd.WithDecoderConcurrency(1)}
	if maxSize > 0 {
		opts = append(opts, zstd.WithDecoderMaxMemory(uint64(maxSize)))
	}

	dec, err := zstd.NewReader(nil, opts...)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create decompressor: %w", err)
	}
	defer dec.Close()

	out, err := dec.DecodeAll(data[len(Marker):], nil)
	if errors.Is(err, zstd.ErrDecoderSizeExceeded) || errors.Is(err, zstd.ErrWindowSizeExceeded) {
		return nil, false, fmt.Errorf("%w: limit %d bytes", ErrTooLarge, maxSize)
	}
	if err != nil {
		return data, false, nil
	}
	return out, true, nil
}
