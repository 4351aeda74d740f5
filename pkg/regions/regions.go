// Package regions crops table and figure bounding boxes out of the page
// rasters returned by Document AI and saves them as PNG files in a job's
// output directory.
//
// File names are derived from the region index alone, so re-running the same
// job overwrites its previous crops instead of accumulating duplicates. Any
// failure to create the directory or write a crop aborts the whole pass; a
// job must never report success while a referenced crop is missing.
package regions

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	_ "image/jpeg" // page rasters may arrive as JPEG

	"github.com/critex/critex/pkg/criteria"
	"github.com/critex/critex/pkg/docai"
)

// File records one saved crop.
type File struct {
	RegionID string
	Path     string
}

// Extract crops every table and image region in dc from the page rasters in
// res and writes them under dir, recording each crop file back onto the
// matching TableData/ImageData entry. Regions without a bounding box or
// without a raster for their page are skipped; they keep an empty CropFile.
func Extract(res *docai.Result, dc *criteria.DesignCriteria, dir string) ([]File, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	var files []File
	index := 0

	for i := range dc.Tables {
		t := &dc.Tables[i]
		saved, err := saveRegion(res, t.Page, t.Box, dir, index)
		if err != nil {
			return nil, err
		}
		index++
		if saved == "" {
			continue
		}
		t.CropFile = filepath.Base(saved)
		files = append(files, File{RegionID: t.ID, Path: saved})
	}

	for i := range dc.Images {
		img := &dc.Images[i]
		saved, err := saveRegion(res, img.Page, img.Box, dir, index)
		if err != nil {
			return nil, err
		}
		index++
		if saved == "" {
			continue
		}
		img.CropFile = filepath.Base(saved)
		files = append(files, File{RegionID: img.ID, Path: saved})
	}

	return files, nil
}

// saveRegion crops one box from its page raster and writes it. An empty path
// with a nil error means the region had nothing to crop.
func saveRegion(res *docai.Result, page int, box *docai.BoundingBox, dir string, index int) (string, error) {
	if box == nil {
		return "", nil
	}
	raster := res.PageRaster(page)
	if raster == nil {
		return "", nil
	}

	src, _, err := image.Decode(bytes.NewReader(raster.Content))
	if err != nil {
		return "", fmt.Errorf("failed to decode raster for page %d: %w", page, err)
	}

	crop := cropBox(src, box)
	path := filepath.Join(dir, fmt.Sprintf("region_%03d.png", index))

	var buf bytes.Buffer
	if err := png.Encode(&buf, crop); err != nil {
		return "", fmt.Errorf("failed to encode crop for page %d: %w", page, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// cropBox converts the normalized box to pixel coordinates, clamps it to the
// image bounds and returns the sub-image.
func cropBox(src image.Image, box *docai.BoundingBox) image.Image {
	bounds := src.Bounds()
	w := float64(bounds.Dx())
	h := float64(bounds.Dy())

	x0 := bounds.Min.X + clamp(int(box.X*w), 0, bounds.Dx()-1)
	y0 := bounds.Min.Y + clamp(int(box.Y*h), 0, bounds.Dy()-1)
	x1 := bounds.Min.X + clamp(int((box.X+box.Width)*w), x0-bounds.Min.X+1, bounds.Dx())
	y1 := bounds.Min.Y + clamp(int((box.Y+box.Height)*h), y0-bounds.Min.Y+1, bounds.Dy())

	rect := image.Rect(x0, y0, x1, y1)
	if sub, ok := src.(interface {
		SubImage(image.Rectangle) image.Image
	}); ok {
		return sub.SubImage(rect)
	}

	// Fallback for decoders without SubImage support.
	out := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	for y := 0; y < rect.Dy(); y++ {
		for x := 0; x < rect.Dx(); x++ {
			out.Set(x, y, src.At(rect.Min.X+x, rect.Min.Y+y))
		}
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
