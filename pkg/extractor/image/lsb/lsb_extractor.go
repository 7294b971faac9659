package lsb

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"StegoTool/pkg/extractor"
	"StegoTool/pkg/filehandler"
	"StegoTool/pkg/models"
	"StegoTool/pkg/payload"
	"StegoTool/pkg/raster"
	"StegoTool/pkg/stego"
)

// signature maps a payload prefix to the extension and MIME type used when
// the payload is written out.
type signature struct {
	magic  string
	ext    string
	mime   string
	minLen int
}

var signatures = []signature{
	{magic: "\x89PNG", ext: "png", mime: "image/png"},
	{magic: "\xff\xd8\xff", ext: "jpg", mime: "image/jpeg"},
	{magic: "%PDF", ext: "pdf", mime: "application/pdf"},
	{magic: "PK\x03\x04", ext: "zip", mime: "application/zip"},
	{magic: "GIF8", ext: "gif", mime: "image/gif"},
	{magic: "\x28\xb5\x2f\xfd", ext: "zst", mime: "application/zstd"},
	{magic: "BM", ext: "bmp", mime: "image/bmp", minLen: 14},
}

// Algorithm is the name reported for length-prefixed sequential LSB frames
const Algorithm = "lsb-sequential"

// LSBExtractor implements the BufferExtractor interface for length-prefixed LSB frames
type LSBExtractor struct {
	extractor.BaseExtractor
}

// NewLSBExtractor creates a new LSB extractor
func NewLSBExtractor() *LSBExtractor {
	formats := []string{"png", "bmp", "tiff"}
	algorithms := []string{Algorithm}
	base := extractor.NewBaseExtractor("LSB Extractor", formats, algorithms)

	return &LSBExtractor{
		BaseExtractor: base,
	}
}

// Extract implements the DataExtractor interface
func (e *LSBExtractor) Extract(filePath string, options extractor.ExtractionOptions) (*models.ExtractionResult, error) {
	buf, format, err := raster.Load(filePath)
	if err != nil {
		return nil, err
	}

	if options.Verbose {
		fmt.Printf("Decoded %s as %s, %dx%d %s\n", filePath, format, buf.Width, buf.Height, raster.ChannelLayout(buf.Channels))
	}

	name := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	return e.ExtractFromBuffer(buf, name, options)
}

// ExtractFromBuffer implements the BufferExtractor interface. name is used
// for the output file and may be empty.
func (e *LSBExtractor) ExtractFromBuffer(buf *stego.PixelBuffer, name string, options extractor.ExtractionOptions) (*models.ExtractionResult, error) {
	if buf == nil {
		return nil, errors.New("nil pixel buffer provided")
	}

	raw, err := stego.Extract(buf)
	if err != nil {
		return nil, err
	}

	data, compressed, err := payload.Unpack(raw, options.MaxOutputSize)
	if err != nil {
		return nil, err
	}
	if options.MaxOutputSize > 0 && len(data) > options.MaxOutputSize {
		return nil, fmt.Errorf("%w: %d bytes", payload.ErrTooLarge, len(data))
	}

	if options.Verbose {
		fmt.Printf("Recovered %d payload bytes (compressed=%v)\n", len(data), compressed)
	}

	return processExtractedData(data, raw, compressed, name, options)
}

// sniff returns the signature the payload starts with, if any.
func sniff(data []byte) (signature, bool) {
	for _, sig := range signatures {
		if len(data) >= sig.minLen && bytes.HasPrefix(data, []byte(sig.magic)) {
			return sig, true
		}
	}
	return signature{}, false
}

// evaluateAsText scores how text-like data is, from 0 to 1
func evaluateAsText(data []byte) float64 {
	if len(data) == 0 || !utf8.Valid(data) {
		return 0.0
	}

	printable := 0
	control := 0
	total := 0

	for _, r := range string(data) {
		total++
		switch {
		case r == '\t' || r == '\n' || r == '\r':
			printable++
		case r < 32 || r == 127:
			control++
		default:
			printable++
		}
	}

	textScore := float64(printable)/float64(total) - float64(control)/float64(total)*2
	return math.Max(0, math.Min(1, textScore))
}

// IsText reports whether data should be presented as text
func IsText(data []byte) bool {
	return evaluateAsText(data) > 0.9
}

// calculateDataEntropy calculates Shannon entropy of the data in bits per byte
func calculateDataEntropy(data []byte) float64 {
	if len(data) == 0 {
		return 0.0
	}

	var counts [256]int
	for _, b := range data {
		counts[b]++
	}

	entropy := 0.0
	for _, count := range counts {
		if count == 0 {
			continue
		}
		p := float64(count) / float64(len(data))
		entropy -= p * math.Log2(p)
	}

	return entropy
}

// processExtractedData classifies the payload and saves it when an output directory is set
func processExtractedData(data, raw []byte, compressed bool, name string, options extractor.ExtractionOptions) (*models.ExtractionResult, error) {
	kind := signature{ext: "bin", mime: "application/octet-stream"}
	dataType := "binary"
	sig, known := sniff(data)
	switch {
	case known:
		kind = sig
	case IsText(data):
		kind = signature{ext: "txt", mime: "text/plain"}
		dataType = "text"
	}

	result := &models.ExtractionResult{
		Algorithm:     Algorithm,
		Success:       true,
		ExtractedData: data,
		DataSize:      len(data),
		Compressed:    compressed,
		MimeType:      kind.mime,
		DataType:      dataType,
		Details: map[string]interface{}{
			"frame_payload_size": len(raw),
			"text_quality":       evaluateAsText(data),
			"entropy":            calculateDataEntropy(data),
		},
	}
	if known {
		result.FileType = sig.ext
	}

	if options.OutputDir == "" {
		return result, nil
	}
	if name == "" {
		name = "payload"
	}

	out := filepath.Join(options.OutputDir, "extracted_"+name+"."+kind.ext)
	if err := filehandler.SaveFile(data, out); err != nil {
		return nil, fmt.Errorf("saving extracted payload: %w", err)
	}
	result.OutputFiles = []string{out}
	return result, nil
}
