package lsb

import (
	"errors"
	"fmt"

	"StegoTool/pkg/diff"
	"StegoTool/pkg/embedder"
	"StegoTool/pkg/models"
	"StegoTool/pkg/payload"
	"StegoTool/pkg/raster"
	"StegoTool/pkg/stego"
)

// LSBEmbedder writes length-prefixed payloads into sample LSBs
type LSBEmbedder struct{}

// NewLSBEmbedder creates a new LSB embedder
func NewLSBEmbedder() *LSBEmbedder {
	return &LSBEmbedder{}
}

// Name returns the embedder name
func (e *LSBEmbedder) Name() string {
	return "LSB Embedder"
}

// CanEmbed reports whether format survives a round trip without touching LSBs
func (e *LSBEmbedder) CanEmbed(format string) bool {
	return raster.LosslessFormats[raster.NormalizeFormat(format)]
}

// Embed implements the DataEmbedder interface. Nothing is written when the
// payload does not fit or the output format cannot keep the carrier intact.
func (e *LSBEmbedder) Embed(srcPath, dstPath string, data []byte, options embedder.EmbedOptions) (*models.EmbedResult, error) {
	format := raster.FormatFromPath(dstPath)
	if !e.CanEmbed(format) {
		return nil, fmt.Errorf("%w: %q, use .png, .bmp or .tiff", raster.ErrLossyFormat, dstPath)
	}

	buf, srcFormat, err := raster.Load(srcPath)
	if err != nil {
		return nil, err
	}

	if err := raster.CheckOutput(format, buf.Channels); err != nil {
		return nil, fmt.Errorf("cannot write %s carrier to %q: %w", raster.ChannelLayout(buf.Channels), dstPath, err)
	}

	if options.Verbose {
		fmt.Printf("Carrier %s: %s %dx%d %s, capacity %d bytes\n",
			srcPath, srcFormat, buf.Width, buf.Height, raster.ChannelLayout(buf.Channels), buf.Capacity())
	}

	out, result, err := e.EmbedBuffer(buf, data, options)
	if err != nil {
		return nil, err
	}

	if err := raster.Save(dstPath, out); err != nil {
		return nil, err
	}

	result.Source = srcPath
	result.Output = dstPath
	result.Format = format
	return result, nil
}

// EmbedBuffer implements the BufferEmbedder interface
func (e *LSBEmbedder) EmbedBuffer(buf *stego.PixelBuffer, data []byte, options embedder.EmbedOptions) (*stego.PixelBuffer, *models.EmbedResult, error) {
	if buf == nil {
		return nil, nil, errors.New("nil pixel buffer provided")
	}

	packed, err := payload.Pack(data, options.Packing)
	if err != nil {
		return nil, nil, err
	}

	out, err := stego.Embed(buf, packed)
	if err != nil {
		return nil, nil, err
	}

	report, err := diff.Compare(buf, out)
	if err != nil {
		return nil, nil, err
	}

	return out, &models.EmbedResult{
		PayloadSize: len(packed),
		RawSize:     len(data),
		FrameSize:   stego.FrameSize(len(packed)),
		Capacity:    buf.Capacity(),
		Compressed:  options.Packing.Compress,
		Diff:        report,
	}, nil
}
