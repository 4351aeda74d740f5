package extraction

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/critex/critex/pkg/criteria"
)

func sampleCriteria() *criteria.DesignCriteria {
	return &criteria.DesignCriteria{
		Loads: []criteria.LoadSpecification{
			{LoadType: "live_load", Magnitude: 40, Unit: "psf", Description: "Live Load, 40 psf", Confidence: 0.92, Page: 1},
		},
		Metadata: criteria.DocumentMetadata{
			Filename:    "drawing.pdf",
			PageCount:   2,
			ProcessedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
			EntityCount: 1,
		},
		RawText: "Live Load, 40 psf",
	}
}

func TestWriteResultRoundTrip(t *testing.T) {
	dir := t.TempDir()
	dc := sampleCriteria()

	path, err := WriteResult(dc, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ResultFilename), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got criteria.DesignCriteria
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, dc.Loads, got.Loads)
	assert.Equal(t, dc.Metadata.Filename, got.Metadata.Filename)
	assert.True(t, dc.Metadata.ProcessedAt.Equal(got.Metadata.ProcessedAt))
	assert.Equal(t, dc.RawText, got.RawText)
}

func TestWriteResultLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	_, err := WriteResult(sampleCriteria(), dir)
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ResultFilename, entries[0].Name())
}

func TestWriteResultOverwrites(t *testing.T) {
	dir := t.TempDir()

	first := sampleCriteria()
	_, err := WriteResult(first, dir)
	require.NoError(t, err)

	second := sampleCriteria()
	second.Metadata.Filename = "revised.pdf"
	path, err := WriteResult(second, dir)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got criteria.DesignCriteria
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "revised.pdf", got.Metadata.Filename)
}

func TestWriteResultMissingDir(t *testing.T) {
	_, err := WriteResult(sampleCriteria(), filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}

func TestWriteText(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteText(sampleCriteria(), dir))

	data, err := os.ReadFile(filepath.Join(dir, TextFilename))
	require.NoError(t, err)
	assert.Equal(t, "Live Load, 40 psf", string(data))
}

func TestWriteTextSkipsEmpty(t *testing.T) {
	dir := t.TempDir()
	dc := sampleCriteria()
	dc.RawText = ""
	require.NoError(t, WriteText(dc, dir))

	_, err := os.Stat(filepath.Join(dir, TextFilename))
	assert.True(t, os.IsNotExist(err))
}
