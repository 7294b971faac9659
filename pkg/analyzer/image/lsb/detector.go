package lsb

import (
	"fmt"

	"StegoTool/pkg/stego"
)

// Heuristic bounds on the mean LSB of an unmodified natural image. They are
// kept for compatibility with existing reports and are not a rigorous test.
const (
	LowThreshold  = 0.49
	HighThreshold = 0.51
)

// Thresholds bounds the mean LSB considered normal
type Thresholds struct {
	Low  float64 `yaml:"low" json:"low"`
	High float64 `yaml:"high" json:"high"`
}

// DefaultThresholds returns the standard 0.49/0.51 bounds
func DefaultThresholds() Thresholds {
	return Thresholds{Low: LowThreshold, High: HighThreshold}
}

// DetectionResult is an advisory signal, never a verdict
type DetectionResult struct {
	MeanLSB   float64 `json:"meanLsb"`
	Anomalous bool    `json:"anomalous"`
	Note      string  `json:"note,omitempty"`
}

// Detect flags buf when its mean LSB falls outside the default thresholds
func Detect(buf *stego.PixelBuffer) DetectionResult {
	return DetectWith(buf, DefaultThresholds())
}

// DetectWith is Detect with caller supplied bounds
func DetectWith(buf *stego.PixelBuffer, th Thresholds) DetectionResult {
	if buf == nil || len(buf.Pix) == 0 {
		return DetectionResult{Note: "empty pixel buffer, nothing to analyze"}
	}

	ones := 0
	for _, s := range buf.Pix {
		ones += int(s & 1)
	}
	mean := float64(ones) / float64(len(buf.Pix))

	result := DetectionResult{
		MeanLSB:   mean,
		Anomalous: mean < th.Low || mean > th.High,
	}
	if result.Anomalous {
		result.Note = fmt.Sprintf("unusual LSB distribution: mean %.4f outside [%.2f, %.2f], may contain hidden data",
			mean, th.Low, th.High)
	}
	return result
}
