package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/critex/critex/pkg/criteria"
)

func sampleCriteria() *criteria.DesignCriteria {
	return &criteria.DesignCriteria{
		Loads: []criteria.LoadSpecification{
			{LoadType: "live_load", Magnitude: 40, Unit: "psf", Description: "Live Load, 40 psf", Confidence: 0.92, Page: 1},
		},
		SeismicForces: []criteria.SeismicForce{
			{Magnitude: 0.32, Description: "Sds = 0.32", Confidence: 0.88, Page: 1},
		},
		Tables: []criteria.TableData{
			{
				ID:         "table_0",
				Page:       1,
				HeaderRows: [][]string{{"Load", "Value"}},
				Rows:       [][]string{{"Live", "40 psf"}, {"Dead", "20 psf"}},
				Confidence: 0.9,
			},
			{
				ID:   "table_1",
				Page: 2,
				Rows: [][]string{{"single", "row"}},
			},
		},
		Metadata: criteria.DocumentMetadata{
			Filename:    "drawing.pdf",
			PageCount:   2,
			ProcessedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
			EntityCount: 3,
		},
	}
}

func TestWriteSummaryPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), SummaryFilename)
	require.NoError(t, WriteSummaryPDF(sampleCriteria(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(data), 4)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestWriteSummaryPDFBadPath(t *testing.T) {
	err := WriteSummaryPDF(sampleCriteria(), filepath.Join(t.TempDir(), "missing", SummaryFilename))
	require.Error(t, err)
}

func TestWriteTablesXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), TablesFilename)
	require.NoError(t, WriteTablesXLSX(sampleCriteria(), path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	require.Equal(t, []string{"Table 1 (p1)", "Table 2 (p2)"}, sheets)

	rows, err := f.GetRows("Table 1 (p1)")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Load", "Value"}, rows[0])
	assert.Equal(t, []string{"Live", "40 psf"}, rows[1])
	assert.Equal(t, []string{"Dead", "20 psf"}, rows[2])

	rows, err = f.GetRows("Table 2 (p2)")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"single", "row"}, rows[0])
}

func TestWriteTablesXLSXNoTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), TablesFilename)
	dc := sampleCriteria()
	dc.Tables = nil

	require.NoError(t, WriteTablesXLSX(dc, path))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
