package regions

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/critex/critex/pkg/criteria"
	"github.com/critex/critex/pkg/docai"
)

// testRaster renders a 100x100 PNG with a distinct color per quadrant.
func testRaster(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			c := color.RGBA{A: 255}
			if x >= 50 {
				c.R = 255
			}
			if y >= 50 {
				c.G = 255
			}
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func testInput(t *testing.T) (*docai.Result, *criteria.DesignCriteria) {
	t.Helper()
	res := &docai.Result{
		Pages: []docai.PageImage{
			{Number: 1, MimeType: "image/png", Width: 100, Height: 100, Content: testRaster(t)},
		},
	}
	dc := &criteria.DesignCriteria{
		Tables: []criteria.TableData{
			{ID: "table_0", Page: 1, Box: &docai.BoundingBox{X: 0, Y: 0, Width: 0.5, Height: 0.5}},
		},
		Images: []criteria.ImageData{
			{ID: "image_0", Page: 1, Box: &docai.BoundingBox{X: 0.5, Y: 0.5, Width: 0.5, Height: 0.5}},
		},
	}
	return res, dc
}

func TestExtractWritesCrops(t *testing.T) {
	dir := t.TempDir()
	res, dc := testInput(t)

	files, err := Extract(res, dc, dir)
	require.NoError(t, err)
	require.Len(t, files, 2)

	assert.Equal(t, "region_000.png", dc.Tables[0].CropFile)
	assert.Equal(t, "region_001.png", dc.Images[0].CropFile)

	for _, f := range files {
		data, err := os.ReadFile(f.Path)
		require.NoError(t, err)
		img, err := png.Decode(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, 50, img.Bounds().Dx())
		assert.Equal(t, 50, img.Bounds().Dy())
	}
}

func TestExtractIdempotentNames(t *testing.T) {
	dir := t.TempDir()
	res, dc := testInput(t)

	first, err := Extract(res, dc, dir)
	require.NoError(t, err)
	second, err := Extract(res, dc, dir)
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Path, second[i].Path)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestExtractSkipsRegionsWithoutBoxOrRaster(t *testing.T) {
	dir := t.TempDir()
	res := &docai.Result{
		Pages: []docai.PageImage{
			{Number: 1, Content: testRaster(t)},
		},
	}
	dc := &criteria.DesignCriteria{
		Tables: []criteria.TableData{
			{ID: "table_0", Page: 1}, // no bounding box
			{ID: "table_1", Page: 7, Box: &docai.BoundingBox{X: 0, Y: 0, Width: 0.5, Height: 0.5}}, // no raster
		},
	}

	files, err := Extract(res, dc, dir)
	require.NoError(t, err)
	assert.Empty(t, files)
	assert.Empty(t, dc.Tables[0].CropFile)
	assert.Empty(t, dc.Tables[1].CropFile)
}

func TestExtractFailsOnBadRaster(t *testing.T) {
	dir := t.TempDir()
	res := &docai.Result{
		Pages: []docai.PageImage{
			{Number: 1, Content: []byte("not an image")},
		},
	}
	dc := &criteria.DesignCriteria{
		Tables: []criteria.TableData{
			{ID: "table_0", Page: 1, Box: &docai.BoundingBox{X: 0, Y: 0, Width: 0.5, Height: 0.5}},
		},
	}

	_, err := Extract(res, dc, dir)
	require.Error(t, err)
	assert.Empty(t, dc.Tables[0].CropFile)
}

func TestExtractFailsOnUnwritableDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "occupied")
	require.NoError(t, os.WriteFile(dir, []byte("a file, not a dir"), 0644))

	res, dc := testInput(t)
	_, err := Extract(res, dc, dir)
	require.Error(t, err)
}

func TestCropBoxClampsOutOfRange(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	crop := cropBox(img, &docai.BoundingBox{X: 0.9, Y: 0.9, Width: 0.5, Height: 0.5})
	assert.Equal(t, 10, crop.Bounds().Dx())
	assert.Equal(t, 10, crop.Bounds().Dy())

	crop = cropBox(img, &docai.BoundingBox{X: -0.5, Y: -0.5, Width: 0.6, Height: 0.6})
	assert.LessOrEqual(t, crop.Bounds().Dx(), 100)
	assert.GreaterOrEqual(t, crop.Bounds().Dx(), 1)
}
