package analyzer

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StegoTool/pkg/filehandler"
	"StegoTool/pkg/models"
)

type stubAnalyzer struct {
	BaseAnalyzer
	anomalous bool
	err       error
}

func (s *stubAnalyzer) Analyze(filePath string, options AnalysisOptions) (*models.AnalysisResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	result := models.NewAnalysisResult(options.Format, filePath)
	result.Anomalous = s.anomalous
	result.Note = s.Name()
	return result, nil
}

func newStub(name string, formats ...string) *stubAnalyzer {
	return &stubAnalyzer{BaseAnalyzer: NewBaseAnalyzer(name, "stub", formats)}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	a := newStub("a", "png", "bmp")
	b := newStub("b", "png")

	r.Register(a)
	r.Register(b)
	r.Register(a)

	assert.Len(t, r.GetAnalyzersForFormat("png"), 2)
	assert.Len(t, r.GetAnalyzersForFormat("BMP"), 1)
	assert.Empty(t, r.GetAnalyzersForFormat("gif"))
	assert.Equal(t, []string{"bmp", "png"}, r.GetSupportedFormats())

	assert.Equal(t, b, r.GetAnalyzerByName("b", "png"))
	assert.Nil(t, r.GetAnalyzerByName("b", "bmp"))
}

func TestBaseAnalyzer(t *testing.T) {
	a := newStub("x", "tif", "jpg", "tiff")
	assert.True(t, a.CanAnalyze("tiff"))
	assert.True(t, a.CanAnalyze("JPEG"))
	assert.False(t, a.CanAnalyze("png"))
	assert.Equal(t, []string{"tiff", "jpeg"}, a.SupportedFormats())
	assert.Equal(t, "x", a.Name())
	assert.Equal(t, "stub", a.Description())
}

func TestAnalyzeFilePrefersAnomalous(t *testing.T) {
	r := NewRegistry()
	clean := newStub("clean", "png")
	flagged := newStub("flagged", "png")
	flagged.anomalous = true
	broken := newStub("broken", "png")
	broken.err = errors.New("boom")

	r.Register(broken)
	r.Register(clean)
	r.Register(flagged)

	result, err := r.AnalyzeFile("carrier.png", DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "flagged", result.Note)
	assert.Equal(t, "png", result.FileType)
}

func TestAnalyzeFileErrors(t *testing.T) {
	r := NewRegistry()
	broken := newStub("broken", "png")
	broken.err = errors.New("boom")
	r.Register(broken)

	_, err := r.AnalyzeFile("carrier.png", DefaultOptions())
	assert.EqualError(t, err, "broken: boom")

	_, err = r.AnalyzeFile("carrier.gif", DefaultOptions())
	assert.ErrorIs(t, err, filehandler.ErrUnsupportedFormat)

	notes := filepath.Join(t.TempDir(), "notes")
	require.NoError(t, os.WriteFile(notes, []byte("plain text"), 0644))
	_, err = r.AnalyzeFile(notes, DefaultOptions())
	assert.ErrorIs(t, err, filehandler.ErrUnsupportedFormat)
}
