package embedder

import (
	"StegoTool/pkg/models"
	"StegoTool/pkg/payload"
	"StegoTool/pkg/stego"
)

// EmbedOptions contains configuration for the embedding process
type EmbedOptions struct {
	Packing payload.Options
	Verbose bool
}

// DataEmbedder is the interface that all embedders must implement
type DataEmbedder interface {
	// CanEmbed checks if this embedder can write the given output format
	CanEmbed(format string) bool

	// Embed hides data in the image at srcPath and writes the carrier to dstPath
	Embed(srcPath, dstPath string, data []byte, options EmbedOptions) (*models.EmbedResult, error)

	// Name returns the name of the embedder
	Name() string
}

// BufferEmbedder embeds into an already decoded pixel buffer
type BufferEmbedder interface {
	DataEmbedder

	// EmbedBuffer returns a modified copy of buf; buf is left untouched
	EmbedBuffer(buf *stego.PixelBuffer, data []byte, options EmbedOptions) (*stego.PixelBuffer, *models.EmbedResult, error)
}
