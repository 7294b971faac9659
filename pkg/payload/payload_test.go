package payload

import (
	"bytes"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackPassthrough(t *testing.T) {
	data := []byte("plain")
	out, err := Pack(data, Options{})
	require.NoError(t, err)
	assert.Equal(t, data, out)
}

func TestPackUnpackRoundTrip(t *testing.T) {
	data := bytes.Repeat([]byte("hidden message "), 200)

	packed, err := Pack(data, Options{Compress: true})
	require.NoError(t, err)
	assert.True(t, IsCompressed(packed))
	assert.Less(t, len(packed), len(data))

	out, compressed, err := Unpack(packed, 0)
	require.NoError(t, err)
	assert.True(t, compressed)
	assert.Equal(t, data, out)
}

func TestPackInvalidLevel(t *testing.T) {
	_, err := Pack([]byte("x"), Options{Compress: true, Level: 40})
	assert.ErrorIs(t, err, ErrInvalidLevel)
}

func TestUnpackPlainData(t *testing.T) {
	out, compressed, err := Unpack([]byte("hello world"), 0)
	require.NoError(t, err)
	assert.False(t, compressed)
	assert.Equal(t, "hello world", string(out))
}

func TestUnpackFakeMarker(t *testing.T) {
	data := append(append([]byte{}, Marker...), 0x28, 0xB5, 0x2F, 0xFD)
	data = append(data, []byte("not really zstd")...)
	out, compressed, err := Unpack(data, 0)
	require.NoError(t, err)
	assert.False(t, compressed)
	assert.Equal(t, data, out)
}

func TestUnpackSizeLimit(t *testing.T) {
	packed, err := Pack(make([]byte, 1<<20), Options{Compress: true})
	require.NoError(t, err)

	_, _, err = Unpack(packed, 1024)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestUnpackRawZstdStream(t *testing.T) {
	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	raw := enc.EncodeAll(make([]byte, 4096), nil)
	require.NoError(t, enc.Close())
	require.True(t, bytes.HasPrefix(raw, zstdMagic))

	out, compressed, err := Unpack(raw, 1024)
	require.NoError(t, err)
	assert.False(t, compressed)
	assert.Equal(t, raw, out)
	assert.False(t, IsCompressed(raw))
}

func TestPackWritesMarker(t *testing.T) {
	packed, err := Pack([]byte("abc"), Options{Compress: true})
	require.NoError(t, err)
	assert.Equal(t, Marker, packed[:len(Marker)])
	assert.Equal(t, zstdMagic, packed[len(Marker):len(Marker)+4])
}
