package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	// Registered for image.Decode
	_ "image/gif"
	_ "image/jpeg"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"StegoTool/pkg/stego"
)

/*
raster.go converts between image files and stego.PixelBuffer.
Decode: accepts any registered format (png, bmp, tiff, gif, jpeg) and flattens it into 8-bit samples.
Encode: writes a buffer back out, but only to lossless formats (png, bmp, tiff); anything else would destroy the hidden frame.
Channel layout: gray images (and gray palettes) become 1 channel, opaque colour images 3 channels (RGB) and images with any translucent pixel 4 channels (RGBA, non-premultiplied).
*/

var (
	ErrLossyFormat         = errors.New("output format is lossy or palette based")
	ErrUnsupportedFormat   = errors.New("unsupported image format")
	ErrUnsupportedChannels = errors.New("unsupported channel count")
	ErrAlphaUnsupported    = errors.New("output format does not keep an alpha channel")
)

// LosslessFormats maps the formats a buffer can be encoded to
var LosslessFormats = map[string]bool{
	"png":  true,
	"bmp":  true,
	"tiff": true,
}

// CheckOutput reports whether a buffer with the given channel count can be
// written as format and read back with the same samples. BMP files are
// decoded without alpha, so 4-channel buffers must go to png or tiff.
func CheckOutput(format string, channels int) error {
	format = NormalizeFormat(format)
	if !LosslessFormats[format] {
		if format == "jpeg" || format == "gif" {
			return fmt.Errorf("%w: %s", ErrLossyFormat, format)
		}
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if format == "bmp" && channels == 4 {
		return fmt.Errorf("%w: %s with %s samples", ErrAlphaUnsupported, format, ChannelLayout(channels))
	}
	return nil
}

// Decode reads an image and returns its pixel buffer and format name
func Decode(r io.Reader) (*stego.PixelBuffer, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	return FromImage(img), format, nil
}

// Load opens and decodes the image at path
func Load(path string) (*stego.PixelBuffer, string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	return Decode(file)
}

// FromImage flattens img into a pixel buffer in raster order
func FromImage(img image.Image) *stego.PixelBuffer {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	if isGray(img) {
		buf := stego.NewPixelBuffer(width, height, 1)
		i := 0
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				buf.Pix[i] = color.GrayModel.Convert(img.At(x, y)).(color.Gray).Y
				i++
			}
		}
		return buf
	}

	// Collect non-premultiplied samples first; the channel count depends on
	// whether any pixel is translucent.
	rgba := make([]uint8, 0, width*height*4)
	opaque := true
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if c.A != 0xFF {
				opaque = false
			}
			rgba = append(rgba, c.R, c.G, c.B, c.A)
		}
	}

	if !opaque {
		return &stego.PixelBuffer{Pix: rgba, Width: width, Height: height, Channels: 4}
	}

	buf := stego.NewPixelBuffer(width, height, 3)
	for p := 0; p < width*height; p++ {
		copy(buf.Pix[p*3:p*3+3], rgba[p*4:p*4+3])
	}
	return buf
}

// isGray reports whether img stores a single luminance channel
func isGray(img image.Image) bool {
	switch m := img.(type) {
	case *image.Gray, *image.Gray16:
		return true
	case *image.Paletted:
		// 8-bit gray BMPs decode as paletted images with a gray ramp
		for _, c := range m.Palette {
			r, g, b, a := c.RGBA()
			if r != g || g != b || a != 0xFFFF {
				return false
			}
		}
		return len(m.Palette) > 0
	}
	return false
}

// ToImage rebuilds an image from a pixel buffer
func ToImage(buf *stego.PixelBuffer) (image.Image, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}

	rect := image.Rect(0, 0, buf.Width, buf.Height)
	switch buf.Channels {
	case 1:
		img := image.NewGray(rect)
		for y := 0; y < buf.Height; y++ {
			copy(img.Pix[y*img.Stride:y*img.Stride+buf.Width], buf.Pix[y*buf.Width:(y+1)*buf.Width])
		}
		return img, nil
	case 3:
		img := image.NewNRGBA(rect)
		for p := 0; p < buf.Width*buf.Height; p++ {
			y, x := p/buf.Width, p%buf.Width
			o := y*img.Stride + x*4
			copy(img.Pix[o:o+3], buf.Pix[p*3:p*3+3])
			img.Pix[o+3] = 0xFF
		}
		return img, nil
	case 4:
		img := image.NewNRGBA(rect)
		for y := 0; y < buf.Height; y++ {
			row := buf.Width * 4
			copy(img.Pix[y*img.Stride:y*img.Stride+row], buf.Pix[y*row:(y+1)*row])
		}
		return img, nil
	}

	return nil, fmt.Errorf("%w: %d", ErrUnsupportedChannels, buf.Channels)
}

// Encode writes buf to w in the given lossless format
func Encode(w io.Writer, buf *stego.PixelBuffer, format string) error {
	format = NormalizeFormat(format)
	if err := CheckOutput(format, buf.Channels); err != nil {
		return err
	}

	img, err := ToImage(buf)
	if err != nil {
		return err
	}

	switch format {
	case "png":
		err = png.Encode(w, img)
	case "bmp":
		err = bmp.Encode(w, img)
	case "tiff":
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", format, err)
	}
	return nil
}

// Save encodes buf to path, choosing the format from the file extension
func Save(path string, buf *stego.PixelBuffer) error {
	format := FormatFromPath(path)
	if format == "" {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}

	// Validate before creating the file so a bad call leaves nothing behind
	if err := CheckOutput(format, buf.Channels); err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if err := Encode(file, buf, format); err != nil {
		file.Close()
		os.Remove(path)
		return err
	}
	return file.Close()
}

// FormatFromPath maps a file extension to a format name
func FormatFromPath(path string) string {
	return NormalizeFormat(strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."))
}

// NormalizeFormat folds format aliases onto a single name
func NormalizeFormat(format string) string {
	switch strings.ToLower(format) {
	case "png":
		return "png"
	case "bmp":
		return "bmp"
	case "tif", "tiff":
		return "tiff"
	case "jpg", "jpeg":
		return "jpeg"
	case "gif":
		return "gif"
	}
	return ""
}

// ChannelLayout names the sample layout for a channel count
func ChannelLayout(channels int) string {
	switch channels {
	case 1:
		return "L"
	case 3:
		return "RGB"
	case 4:
		return "RGBA"
	}
	return fmt.Sprintf("%d-channel", channels)
}
