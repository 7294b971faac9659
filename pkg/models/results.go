package models

import (
	"time"

	"github.com/google/uuid"
)

// ImageInfo describes a decoded carrier image
type ImageInfo struct {
	Filename      string `json:"filename"`
	Format        string `json:"format"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	Channels      int    `json:"channels"`
	ChannelLayout string `json:"channelLayout"` // L, RGB or RGBA
	FileSize      int64  `json:"fileSize"`
	Capacity      int    `json:"capacity"`   // frame bytes, header included
	MaxPayload    int    `json:"maxPayload"` // capacity minus the 4-byte header
}

// AnalysisResult contains the results of a steganography analysis
type AnalysisResult struct {
	ID               string                 `json:"id"`
	FileType         string                 `json:"fileType"`
	Filename         string                 `json:"filename"`
	MeanLSB          float64                `json:"meanLsb"`
	Anomalous        bool                   `json:"anomalous"` // advisory only
	Note             string                 `json:"note,omitempty"`
	Image            ImageInfo              `json:"image"`
	Details          map[string]interface{} `json:"details"`
	Findings         []Finding              `json:"findings"`
	Recommendations  []string               `json:"recommendations"`
	AnalysisTime     time.Time              `json:"analysisTime"`
	AnalysisDuration time.Duration          `json:"analysisDuration"`
}

// Finding represents a specific detection or discovery during analysis
type Finding struct {
	Description string  `json:"description"`
	Confidence  float64 `json:"confidence"` // 0.0-1.0
	Details     string  `json:"details"`
}

// ExtractionResult contains the results of an extraction attempt
type ExtractionResult struct {
	Success       bool                   `json:"success"`
	FileType      string                 `json:"fileType"`
	Algorithm     string                 `json:"algorithm"`
	DataType      string                 `json:"dataType"`      // text or binary
	ExtractedData []byte                 `json:"extractedData"` // The raw extracted data
	DataSize      int                    `json:"dataSize"`
	Compressed    bool                   `json:"compressed"` // payload was zstd packed
	Details       map[string]interface{} `json:"details"`
	OutputFiles   []string               `json:"outputFiles"` // Paths to any saved output files
	MimeType      string                 `json:"mimeType"`
}

// EmbedResult summarises a completed embedding
type EmbedResult struct {
	Source      string     `json:"source"`
	Output      string     `json:"output"`
	Format      string     `json:"format"`
	PayloadSize int        `json:"payloadSize"` // bytes after optional compression
	RawSize     int        `json:"rawSize"`     // bytes before compression
	FrameSize   int        `json:"frameSize"`
	Capacity    int        `json:"capacity"`
	Compressed  bool       `json:"compressed"`
	Diff        DiffReport `json:"diff"`
}

// DiffReport holds pixel difference statistics between two equally shaped images
type DiffReport struct {
	Samples        int     `json:"samples"`
	ChangedSamples int     `json:"changedSamples"`
	ChangedPixels  int     `json:"changedPixels"`
	MaxDelta       int     `json:"maxDelta"`
	MeanDelta      float64 `json:"meanDelta"`
}

// ScanSummary aggregates a batch of analyses
type ScanSummary struct {
	ID        string           `json:"id"`
	Started   time.Time        `json:"started"`
	Duration  time.Duration    `json:"duration"`
	Total     int              `json:"total"`
	Clean     int              `json:"clean"`
	Anomalous int              `json:"anomalous"`
	Failed    int              `json:"failed"`
	Results   []AnalysisResult `json:"results"`
	Errors    []string         `json:"errors,omitempty"`
}

// NewAnalysisResult creates an empty result with a fresh ID
func NewAnalysisResult(fileType, filename string) *AnalysisResult {
	return &AnalysisResult{
		ID:              uuid.NewString(),
		FileType:        fileType,
		Filename:        filename,
		Details:         map[string]interface{}{},
		Findings:        []Finding{},
		Recommendations: []string{},
		AnalysisTime:    time.Now(),
	}
}

// NewScanSummary starts a batch summary
func NewScanSummary() *ScanSummary {
	return &ScanSummary{
		ID:      uuid.NewString(),
		Started: time.Now(),
	}
}

// AddFinding adds a finding to the analysis result
func (r *AnalysisResult) AddFinding(description string, confidence float64, details string) {
	r.Findings = append(r.Findings, Finding{
		Description: description,
		Confidence:  confidence,
		Details:     details,
	})
}

// Add records one analysis outcome. A nil result counts as a failure.
func (s *ScanSummary) Add(result *AnalysisResult, err error) {
	s.Total++
	switch {
	case err != nil:
		s.Failed++
		s.Errors = append(s.Errors, err.Error())
	case result == nil:
		s.Failed++
	case result.Anomalous:
		s.Anomalous++
		s.Results = append(s.Results, *result)
	default:
		s.Clean++
		s.Results = append(s.Results, *result)
	}
}

// Finish stamps the summary duration
func (s *ScanSummary) Finish() {
	s.Duration = time.Since(s.Started)
}
