package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StegoTool/pkg/stego"
)

func TestCompareIdentical(t *testing.T) {
	buf := stego.NewPixelBuffer(4, 4, 3)
	report, err := Compare(buf, buf.Clone())
	require.NoError(t, err)

	assert.Equal(t, 48, report.Samples)
	assert.Zero(t, report.ChangedSamples)
	assert.Zero(t, report.ChangedPixels)
	assert.Zero(t, report.MeanDelta)
}

func TestCompareCountsPixelsOnce(t *testing.T) {
	a := stego.NewPixelBuffer(2, 2, 3)
	b := a.Clone()
	b.Pix[0] = 1  // pixel 0, R
	b.Pix[1] = 1  // pixel 0, G
	b.Pix[11] = 3 // pixel 3, B

	report, err := Compare(a, b)
	require.NoError(t, err)

	assert.Equal(t, 3, report.ChangedSamples)
	assert.Equal(t, 2, report.ChangedPixels)
	assert.Equal(t, 3, report.MaxDelta)
	assert.InDelta(t, 5.0/12.0, report.MeanDelta, 1e-9)
}

func TestCompareAfterEmbed(t *testing.T) {
	a := stego.NewPixelBuffer(20, 20, 4)
	b, err := stego.Embed(a, []byte("0123456789"))
	require.NoError(t, err)

	report, err := Compare(a, b)
	require.NoError(t, err)
	assert.Equal(t, 1, report.MaxDelta)
	assert.LessOrEqual(t, report.ChangedSamples, stego.FrameSize(10)*8)
}

func TestCompareShapeMismatch(t *testing.T) {
	_, err := Compare(stego.NewPixelBuffer(2, 2, 3), stego.NewPixelBuffer(2, 2, 4))
	assert.ErrorIs(t, err, ErrShapeMismatch)
}
