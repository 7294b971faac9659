// Package diff compares an original pixel buffer with its embedded copy.
package diff

import (
	"errors"
	"fmt"

	"StegoTool/pkg/models"
	"StegoTool/pkg/stego"
)

var ErrShapeMismatch = errors.New("buffers differ in shape")

// Compare counts how many samples and pixels differ between a and b
func Compare(a, b *stego.PixelBuffer) (models.DiffReport, error) {
	if a == nil || b == nil {
		return models.DiffReport{}, errors.New("nil pixel buffer provided")
	}
	if !a.SameShape(b) || len(a.Pix) != len(b.Pix) {
		return models.DiffReport{}, fmt.Errorf("%w: %dx%dx%d vs %dx%dx%d", ErrShapeMismatch,
			a.Width, a.Height, a.Channels, b.Width, b.Height, b.Channels)
	}

	report := models.DiffReport{Samples: len(a.Pix)}
	if a.Channels <= 0 {
		return report, nil
	}

	total := 0
	pixelChanged := false
	for i := range a.Pix {
		d := int(a.Pix[i]) - int(b.Pix[i])
		if d < 0 {
			d = -d
		}
		if d > 0 {
			report.ChangedSamples++
			pixelChanged = true
		}
		if d > report.MaxDelta {
			report.MaxDelta = d
		}
		total += d

		// last channel of a pixel
		if i%a.Channels == a.Channels-1 {
			if pixelChanged {
				report.ChangedPixels++
			}
			pixelChanged = false
		}
	}

	if report.Samples > 0 {
		report.MeanDelta = float64(total) / float64(report.Samples)
	}
	return report, nil
}
