package raster

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"StegoTool/pkg/analyzer"
	"StegoTool/pkg/analyzer/image/lsb"
	"StegoTool/pkg/models"
	imgraster "StegoTool/pkg/raster"
	"StegoTool/pkg/stego"
)

/*
Summary of this file:
- RasterAnalyzer implements analyzer.BufferAnalyzer for every decodable raster format.
- Analyze decodes the file into a pixel buffer and hands it to AnalyzeBuffer.
- AnalyzeBuffer runs the mean-LSB detector and the LSB distribution, then checks whether the first 32 LSBs form a length header that fits the image.
- Lossy formats are still analyzed; a recommendation notes that they cannot carry an LSB frame through re-encoding.
*/

// RasterAnalyzer implements LSB analysis for decoded raster images
type RasterAnalyzer struct {
	analyzer.BaseAnalyzer
}

// NewRasterAnalyzer creates a new raster analyzer
func NewRasterAnalyzer() *RasterAnalyzer {
	return &RasterAnalyzer{
		BaseAnalyzer: analyzer.NewBaseAnalyzer(
			"LSB Raster Analyzer",
			"Flags images whose mean least significant bit departs from 0.5",
			[]string{"png", "bmp", "tiff", "gif", "jpeg"},
		),
	}
}

// Analyze performs analysis on an image file
func (a *RasterAnalyzer) Analyze(filePath string, options analyzer.AnalysisOptions) (*models.AnalysisResult, error) {
	start := time.Now()

	buf, format, err := imgraster.Load(filePath)
	if err != nil {
		return nil, err
	}

	result, err := a.AnalyzeBuffer(buf, options)
	if err != nil {
		return nil, err
	}

	result.FileType = format
	result.Filename = filePath
	result.Image.Filename = filepath.Base(filePath)
	result.Image.Format = format
	if info, err := os.Stat(filePath); err == nil {
		result.Image.FileSize = info.Size()
	}

	if !imgraster.LosslessFormats[format] {
		result.Recommendations = append(result.Recommendations,
			fmt.Sprintf("%s is not lossless; an LSB frame does not survive re-encoding in this format", format))
	}

	result.AnalysisDuration = time.Since(start)
	return result, nil
}

// AnalyzeBuffer analyzes a decoded pixel buffer
func (a *RasterAnalyzer) AnalyzeBuffer(buf *stego.PixelBuffer, options analyzer.AnalysisOptions) (*models.AnalysisResult, error) {
	if buf == nil {
		return nil, errors.New("nil pixel buffer provided")
	}

	start := time.Now()
	result := models.NewAnalysisResult(options.Format, "")
	result.Image = models.ImageInfo{
		Width:         buf.Width,
		Height:        buf.Height,
		Channels:      buf.Channels,
		ChannelLayout: imgraster.ChannelLayout(buf.Channels),
		Capacity:      buf.Capacity(),
		MaxPayload:    stego.MaxPayload(buf.Width, buf.Height, buf.Channels),
	}

	thresholds := options.Thresholds
	if thresholds == (lsb.Thresholds{}) {
		thresholds = lsb.DefaultThresholds()
	}

	detection := lsb.DetectWith(buf, thresholds)
	result.MeanLSB = detection.MeanLSB
	result.Anomalous = detection.Anomalous
	result.Note = detection.Note

	dist, err := lsb.AnalyzeDistribution(buf)
	if err != nil {
		return nil, fmt.Errorf("LSB analysis failed: %w", err)
	}
	result.Details["distribution"] = dist

	if detection.Anomalous {
		// Distance from the 0.5 baseline, scaled so the threshold edge maps to 0
		confidence := deviationConfidence(detection.MeanLSB, thresholds)
		result.AddFinding("Unusual LSB distribution", confidence,
			fmt.Sprintf("mean LSB=%.4f (expected within [%.2f, %.2f])", detection.MeanLSB, thresholds.Low, thresholds.High))
		result.Recommendations = append(result.Recommendations,
			"Try extracting a length-prefixed LSB payload",
			"Mean-LSB detection is a first-order heuristic; confirm before acting on it")
	}

	if dist.Overall.Entropy < 0.3 && len(buf.Pix) > 0 {
		result.AddFinding("Abnormally low LSB entropy", 0.5,
			fmt.Sprintf("LSB entropy=%.4f (unnaturally low randomness)", dist.Overall.Entropy))
	}

	// A header that fits is weak evidence; a header that does not rules out our frame format
	if declared, err := stego.ReadHeader(buf); err == nil {
		result.Details["declaredPayloadLength"] = declared
		if int64(declared) <= int64(result.Image.MaxPayload) {
			result.AddFinding("Consistent length header", 0.3,
				fmt.Sprintf("first 32 LSBs declare %d payload bytes, image holds up to %d", declared, result.Image.MaxPayload))
		}
	}

	if options.Verbose {
		for name, stats := range dist.Channels {
			result.Details["entropy_"+name] = stats.Entropy
		}
	}

	result.AnalysisDuration = time.Since(start)
	return result, nil
}

// deviationConfidence maps how far mean sits outside the thresholds onto [0.5, 1.0]
func deviationConfidence(mean float64, th lsb.Thresholds) float64 {
	var dist float64
	switch {
	case mean < th.Low:
		dist = (th.Low - mean) / th.Low
	case mean > th.High:
		dist = (mean - th.High) / (1 - th.High)
	}
	if dist > 1 {
		dist = 1
	}
	return 0.5 + dist/2
}
