package analyzer

import (
	"strings"

	"StegoTool/pkg/analyzer/image/lsb"
	"StegoTool/pkg/models"
	"StegoTool/pkg/raster"
	"StegoTool/pkg/stego"
)

/*
Analyzer.go contains the interfaces and base implementation for file analyzers.
FileAnalyzer: every analyzer can check a format and analyze a file on disk.
BufferAnalyzer: extends FileAnalyzer with analysis of an already decoded pixel buffer, so callers that hold a buffer do not decode twice.
BaseAnalyzer: name, description and the set of formats shared by concrete analyzers; format aliases (jpg, tif) are folded on registration.
AnalysisOptions: verbosity, the detected format and the detection thresholds to apply.
*/

// AnalysisOptions holds configuration options for analysis
type AnalysisOptions struct {
	Verbose    bool
	Format     string
	Thresholds lsb.Thresholds
}

// DefaultOptions returns options with the standard detection thresholds
func DefaultOptions() AnalysisOptions {
	return AnalysisOptions{Thresholds: lsb.DefaultThresholds()}
}

// FileAnalyzer is the interface that all file analyzers must implement
type FileAnalyzer interface {
	Name() string
	Description() string
	SupportedFormats() []string
	CanAnalyze(format string) bool

	// Analyze decodes filePath and reports on its LSB statistics
	Analyze(filePath string, options AnalysisOptions) (*models.AnalysisResult, error)
}

// BufferAnalyzer is an interface for analyzers that work on decoded pixel data
type BufferAnalyzer interface {
	FileAnalyzer

	// AnalyzeBuffer performs analysis directly on a pixel buffer
	AnalyzeBuffer(buf *stego.PixelBuffer, options AnalysisOptions) (*models.AnalysisResult, error)
}

// BaseAnalyzer provides common functionality for analyzers
type BaseAnalyzer struct {
	name        string
	description string
	formats     []string
	formatSet   map[string]bool
}

// NewBaseAnalyzer creates a new BaseAnalyzer
func NewBaseAnalyzer(name, description string, formats []string) BaseAnalyzer {
	b := BaseAnalyzer{
		name:        name,
		description: description,
		formatSet:   make(map[string]bool, len(formats)),
	}
	for _, f := range formats {
		f = normalizeFormat(f)
		if !b.formatSet[f] {
			b.formatSet[f] = true
			b.formats = append(b.formats, f)
		}
	}
	return b
}

// Name returns the analyzer name
func (b *BaseAnalyzer) Name() string {
	return b.name
}

// Description returns the analyzer description
func (b *BaseAnalyzer) Description() string {
	return b.description
}

// SupportedFormats returns the canonical format names, in declaration order
func (b *BaseAnalyzer) SupportedFormats() []string {
	return b.formats
}

// CanAnalyze checks if the analyzer supports format or one of its aliases
func (b *BaseAnalyzer) CanAnalyze(format string) bool {
	return b.formatSet[normalizeFormat(format)]
}

func normalizeFormat(format string) string {
	if f := raster.NormalizeFormat(format); f != "" {
		return f
	}
	return strings.ToLower(format)
}
