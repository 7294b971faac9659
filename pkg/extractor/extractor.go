// Package extractor recovers hidden payloads from carrier files. Concrete
// extractors live in subpackages and are looked up by image format through a
// Registry.
package extractor

import (
	"strings"

	"StegoTool/pkg/models"
	"StegoTool/pkg/raster"
	"StegoTool/pkg/stego"
)

// ExtractionOptions contains configuration for extraction process
type ExtractionOptions struct {
	OutputDir     string // empty: do not write the payload to disk
	MaxOutputSize int    // bytes after decompression, 0 for no limit
	Verbose       bool
}

// DataExtractor is implemented by every extractor
type DataExtractor interface {
	Name() string
	CanExtract(format string) bool
	SupportedFormats() []string
	SupportedAlgorithms() []string

	// Extract decodes filePath and returns the payload it carries
	Extract(filePath string, options ExtractionOptions) (*models.ExtractionResult, error)
}

// BufferExtractor also works on pixels that are already decoded
type BufferExtractor interface {
	DataExtractor

	// ExtractFromBuffer reads the payload from buf; name is used for output files
	ExtractFromBuffer(buf *stego.PixelBuffer, name string, options ExtractionOptions) (*models.ExtractionResult, error)
}

// BaseExtractor carries the name, formats and algorithms of an extractor
type BaseExtractor struct {
	name       string
	formats    map[string]bool
	formatList []string
	algorithms []string
}

// NewBaseExtractor creates a BaseExtractor. Format aliases such as "tif"
// are folded onto their canonical name.
func NewBaseExtractor(name string, formats []string, algorithms []string) BaseExtractor {
	b := BaseExtractor{
		name:       name,
		formats:    make(map[string]bool, len(formats)),
		algorithms: algorithms,
	}
	for _, f := range formats {
		f = normalizeFormat(f)
		if !b.formats[f] {
			b.formats[f] = true
			b.formatList = append(b.formatList, f)
		}
	}
	return b
}

func (b *BaseExtractor) Name() string {
	return b.name
}

func (b *BaseExtractor) SupportedFormats() []string {
	return b.formatList
}

func (b *BaseExtractor) SupportedAlgorithms() []string {
	return b.algorithms
}

// CanExtract reports whether format, or one of its aliases, is supported
func (b *BaseExtractor) CanExtract(format string) bool {
	return b.formats[normalizeFormat(format)]
}

func normalizeFormat(format string) string {
	if f := raster.NormalizeFormat(format); f != "" {
		return f
	}
	return strings.ToLower(format)
}
