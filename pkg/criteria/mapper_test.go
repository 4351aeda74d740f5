package criteria

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/critex/critex/pkg/docai"
)

func sampleResult() *docai.Result {
	return &docai.Result{
		Text:      "General Notes",
		PageCount: 2,
		Entities: []docai.Entity{
			{Label: "Live Load, 40 psf", Text: "Live Load, 40 psf", Confidence: 0.92, Page: 1},
			{Label: "seismic", Text: "Sds = 0.32", Confidence: 0.88, Page: 1},
			{Label: "design_vehicle", Text: "12.5 + 12.5 + 6.0t", Confidence: 0.85, Page: 2},
			{Label: "design_crane", Text: "capacity 25t", Confidence: 0.8, Page: 2},
			{Label: "live_load", Text: "low confidence", Confidence: 0.3, Page: 1},
			{Label: "project_number", Text: "P-1234", Confidence: 0.99, Page: 1},
		},
		Tables: []docai.Table{
			{Page: 1, Confidence: 0.9, BodyRows: [][]string{{"a", "b"}}},
		},
		Figures: []docai.Figure{
			{Page: 2, Kind: "figure", Confidence: 0.7},
		},
	}
}

func TestMapClassifiesEntities(t *testing.T) {
	dc := Map(sampleResult(), Options{
		Filename:    "drawing.pdf",
		Processor:   "projects/p/locations/us/processors/x",
		ProcessedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	})

	require.Len(t, dc.Loads, 1)
	load := dc.Loads[0]
	assert.Equal(t, "live_load", load.LoadType)
	assert.Equal(t, 40.0, load.Magnitude)
	assert.Equal(t, "psf", load.Unit)
	assert.Equal(t, "Live Load, 40 psf", load.Description)
	assert.Equal(t, 1, load.Page)

	require.Len(t, dc.SeismicForces, 1)
	assert.Equal(t, 0.32, dc.SeismicForces[0].Magnitude)

	require.Len(t, dc.DesignVehicles, 1)
	assert.Equal(t, []float64{12.5, 12.5, 6}, dc.DesignVehicles[0].AxleLoads)
	assert.Equal(t, "t", dc.DesignVehicles[0].Unit)

	require.Len(t, dc.DesignCranes, 1)
	assert.Equal(t, 25.0, dc.DesignCranes[0].Capacity)
	assert.Equal(t, "t", dc.DesignCranes[0].Unit)

	assert.Equal(t, 6, dc.Metadata.EntityCount)
	assert.Equal(t, 1, dc.Metadata.LowConfidence)
	require.Len(t, dc.Metadata.Unclassified, 1)
	assert.Equal(t, "project_number", dc.Metadata.Unclassified[0].Label)

	assert.Equal(t, "drawing.pdf", dc.Metadata.Filename)
	assert.Equal(t, 2, dc.Metadata.PageCount)
}

func TestMapSingleLoadEntity(t *testing.T) {
	res := &docai.Result{Entities: []docai.Entity{
		{Label: "Live Load, 40 psf", Text: "Live Load, 40 psf", Confidence: 0.9, Page: 1},
	}}
	dc := Map(res, Options{})

	require.Len(t, dc.Loads, 1)
	assert.Equal(t, 40.0, dc.Loads[0].Magnitude)
	assert.Equal(t, "psf", dc.Loads[0].Unit)
	assert.Empty(t, dc.SeismicForces)
	assert.Empty(t, dc.DesignVehicles)
	assert.Empty(t, dc.DesignCranes)
	assert.Empty(t, dc.Metadata.Unclassified)
}

func TestMapBelowThresholdExcluded(t *testing.T) {
	res := &docai.Result{Entities: []docai.Entity{
		{Label: "live_load", Text: "40 psf", Confidence: 0.49},
	}}
	dc := Map(res, Options{})

	assert.Empty(t, dc.Loads)
	assert.Equal(t, 1, dc.Metadata.EntityCount)
	assert.Equal(t, 1, dc.Metadata.LowConfidence)
	assert.Empty(t, dc.Metadata.Unclassified)
}

func TestMapCustomThreshold(t *testing.T) {
	res := &docai.Result{Entities: []docai.Entity{
		{Label: "live_load", Text: "40 psf", Confidence: 0.49},
	}}
	dc := Map(res, Options{Threshold: 0.4})
	require.Len(t, dc.Loads, 1)
	assert.Equal(t, 0, dc.Metadata.LowConfidence)
}

func TestMapTablesAndFigures(t *testing.T) {
	dc := Map(sampleResult(), Options{})

	require.Len(t, dc.Tables, 1)
	assert.Equal(t, "table_0", dc.Tables[0].ID)
	assert.Equal(t, [][]string{{"a", "b"}}, dc.Tables[0].Rows)
	assert.Empty(t, dc.Tables[0].CropFile)

	require.Len(t, dc.Images, 1)
	assert.Equal(t, "image_0", dc.Images[0].ID)
	assert.Equal(t, "figure", dc.Images[0].Label)
}

func TestMapDeterministic(t *testing.T) {
	opts := Options{
		Filename:    "drawing.pdf",
		ProcessedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	first, err := json.Marshal(Map(sampleResult(), opts))
	require.NoError(t, err)
	second, err := json.Marshal(Map(sampleResult(), opts))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestLoadTypeFor(t *testing.T) {
	assert.Equal(t, "live_load", loadTypeFor("Live Load, 40 psf"))
	assert.Equal(t, "seismic_load", loadTypeFor("seismic_load"))
	assert.Equal(t, "other", loadTypeFor("design_loads"))
}
