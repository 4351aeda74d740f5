package docai

import (
	"strings"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
)

// BoundingBox is a normalized page region, all coordinates in [0,1].
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Entity is one labeled piece of information found by the processor.
type Entity struct {
	Label      string       `json:"label"`
	Text       string       `json:"text"`
	Confidence float64      `json:"confidence"`
	Page       int          `json:"page"`
	Box        *BoundingBox `json:"box,omitempty"`
}

// Table is a detected table with its cell text, when the processor provides it.
type Table struct {
	Page       int          `json:"page"`
	Confidence float64      `json:"confidence"`
	Box        *BoundingBox `json:"box,omitempty"`
	HeaderRows [][]string   `json:"header_rows,omitempty"`
	BodyRows   [][]string   `json:"body_rows,omitempty"`
}

// Figure is a detected non-table visual element (image, chart, ...).
type Figure struct {
	Page       int          `json:"page"`
	Kind       string       `json:"kind"`
	Confidence float64      `json:"confidence"`
	Box        *BoundingBox `json:"box,omitempty"`
}

// PageImage is the raster the processor returned for one page, used for
// cropping regions out of the document.
type PageImage struct {
	Number   int    `json:"number"`
	MimeType string `json:"mime_type"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Content  []byte `json:"-"`
}

// Result is the converted response for one processed document.
type Result struct {
	Raw       *documentaipb.Document `json:"-"`
	Text      string                 `json:"text"`
	Entities  []Entity               `json:"entities"`
	Tables    []Table                `json:"tables"`
	Figures   []Figure               `json:"figures"`
	Pages     []PageImage            `json:"pages"`
	PageCount int                    `json:"page_count"`
	Processor string                 `json:"processor"`
	Attempts  int                    `json:"attempts"`
}

// ResultFromProto converts a Document AI response into a Result.
// Entity, table and figure order follows the proto, so conversion is
// deterministic for a given response.
func ResultFromProto(doc *documentaipb.Document) *Result {
	res := &Result{
		Raw:  doc,
		Text: doc.GetText(),
	}
	if doc == nil {
		return res
	}
	res.PageCount = len(doc.Pages)

	for _, entity := range doc.Entities {
		if entity.Type == "" {
			continue
		}
		e := Entity{
			Label:      entity.Type,
			Text:       strings.TrimSpace(entity.MentionText),
			Confidence: float64(entity.Confidence),
			Page:       1,
		}
		if anchor := entity.PageAnchor; anchor != nil && len(anchor.PageRefs) > 0 {
			ref := anchor.PageRefs[0]
			e.Page = int(ref.Page) + 1 // proto page refs are zero-based
			e.Box = boxFromPoly(ref.BoundingPoly)
		}
		res.Entities = append(res.Entities, e)
	}

	for _, page := range doc.Pages {
		pageNum := int(page.PageNumber)

		for _, table := range page.Tables {
			t := Table{Page: pageNum}
			if layout := table.Layout; layout != nil {
				t.Confidence = float64(layout.Confidence)
				t.Box = boxFromPoly(layout.BoundingPoly)
			}
			for _, row := range table.HeaderRows {
				t.HeaderRows = append(t.HeaderRows, cellTexts(row, doc.Text))
			}
			for _, row := range table.BodyRows {
				t.BodyRows = append(t.BodyRows, cellTexts(row, doc.Text))
			}
			res.Tables = append(res.Tables, t)
		}

		for _, elem := range page.VisualElements {
			f := Figure{Page: pageNum, Kind: elem.Type}
			if layout := elem.Layout; layout != nil {
				f.Confidence = float64(layout.Confidence)
				f.Box = boxFromPoly(layout.BoundingPoly)
			}
			res.Figures = append(res.Figures, f)
		}

		if img := page.GetImage(); img != nil && len(img.GetContent()) > 0 {
			res.Pages = append(res.Pages, PageImage{
				Number:   pageNum,
				MimeType: img.GetMimeType(),
				Width:    int(img.GetWidth()),
				Height:   int(img.GetHeight()),
				Content:  img.GetContent(),
			})
		}
	}

	return res
}

// PageRaster returns the raster for a 1-based page number, or nil.
func (r *Result) PageRaster(page int) *PageImage {
	for i := range r.Pages {
		if r.Pages[i].Number == page {
			return &r.Pages[i]
		}
	}
	return nil
}

// boxFromPoly reduces a bounding polygon to an axis-aligned normalized box.
// Polygons without normalized vertices yield nil rather than a fabricated box.
func boxFromPoly(poly *documentaipb.BoundingPoly) *BoundingBox {
	if poly == nil || len(poly.NormalizedVertices) < 3 {
		return nil
	}
	minX, minY := float64(poly.NormalizedVertices[0].X), float64(poly.NormalizedVertices[0].Y)
	maxX, maxY := minX, minY
	for _, v := range poly.NormalizedVertices[1:] {
		x, y := float64(v.X), float64(v.Y)
		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
	}
	return &BoundingBox{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

func cellTexts(row *documentaipb.Document_Page_Table_TableRow, fullText string) []string {
	cells := make([]string, 0, len(row.Cells))
	for _, cell := range row.Cells {
		cells = append(cells, strings.TrimSpace(textFromLayout(cell.Layout, fullText)))
	}
	return cells
}

// textFromLayout extracts text from a layout's text anchor segments.
func textFromLayout(layout *documentaipb.Document_Page_Layout, fullText string) string {
	if layout == nil || layout.TextAnchor == nil {
		return ""
	}
	runes := []rune(fullText)
	result := strings.Builder{}
	totalRunes := len(runes)

	for _, seg := range layout.TextAnchor.TextSegments {
		start := int(seg.StartIndex)
		end := int(seg.EndIndex)
		if start < 0 {
			start = 0
		}
		if end > totalRunes {
			end = totalRunes
		}
		if start > end {
			start = end
		}
		result.WriteString(string(runes[start:end]))
	}
	return result.String()
}
