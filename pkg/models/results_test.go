package models

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewAnalysisResultHasID(t *testing.T) {
	a := NewAnalysisResult("png", "a.png")
	b := NewAnalysisResult("png", "b.png")

	_, err := uuid.Parse(a.ID)
	assert.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
	assert.NotNil(t, a.Details)
}

func TestScanSummaryAdd(t *testing.T) {
	s := NewScanSummary()

	clean := NewAnalysisResult("png", "clean.png")
	dirty := NewAnalysisResult("png", "dirty.png")
	dirty.Anomalous = true

	s.Add(clean, nil)
	s.Add(dirty, nil)
	s.Add(nil, errors.New("decode failed"))
	s.Add(nil, nil)
	s.Finish()

	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 1, s.Clean)
	assert.Equal(t, 1, s.Anomalous)
	assert.Equal(t, 2, s.Failed)
	assert.Len(t, s.Results, 2)
	assert.Equal(t, []string{"decode failed"}, s.Errors)
}

func TestAddFinding(t *testing.T) {
	r := NewAnalysisResult("bmp", "x.bmp")
	r.AddFinding("desc", 0.5, "details")
	assert.Len(t, r.Findings, 1)
	assert.Equal(t, 0.5, r.Findings[0].Confidence)
}
