package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stegotool.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, 0.49, cfg.Detection.Thresholds.Low)
	assert.Equal(t, 0.51, cfg.Detection.Thresholds.High)
	assert.Equal(t, 1, cfg.Workers)
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
output_dir: out
workers: 4
detection:
  thresholds:
    low: 0.45
    high: 0.55
compression:
  enabled: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 0.45, cfg.Detection.Thresholds.Low)
	assert.True(t, cfg.Compression.Enabled)
	assert.Equal(t, 3, cfg.Compression.Level)
	assert.True(t, cfg.Color)
}

func TestLoadRejectsInvertedThresholds(t *testing.T) {
	path := writeConfig(t, "detection:\n  thresholds:\n    low: 0.6\n    high: 0.4\n")
	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "workers: [1, 2"))
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Workers = 8
	cfg.Color = false

	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, cfg.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Workers = 0
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

	cfg = Default()
	cfg.Compression.Level = 0
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
}

func TestEncodeUsesYAMLKeys(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Default().Encode(&out))
	assert.Contains(t, out.String(), "output_dir:")
	assert.Contains(t, out.String(), "max_output_size:")
}
