// Package report renders human-readable artifacts for a completed extraction:
// a PDF summary of the design criteria and an XLSX workbook of the extracted
// tables.
package report

import (
	"fmt"

	"codeberg.org/go-pdf/fpdf"

	"github.com/critex/critex/pkg/criteria"
)

// SummaryFilename is the per-job summary report name.
const SummaryFilename = "summary.pdf"

// WriteSummaryPDF renders a one-document extraction report to path.
func WriteSummaryPDF(dc *criteria.DesignCriteria, path string) error {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(true, 36)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 24, "Engineering Design Criteria Extraction Report", "", 1, "L", false, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 16, "Document", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	line(pdf, "Filename: %s", dc.Metadata.Filename)
	line(pdf, "Pages: %d", dc.Metadata.PageCount)
	line(pdf, "Processed: %s", dc.Metadata.ProcessedAt.Format("2006-01-02 15:04:05 MST"))
	line(pdf, "Entities: %d (%d below confidence threshold, %d unclassified)",
		dc.Metadata.EntityCount, dc.Metadata.LowConfidence, len(dc.Metadata.Unclassified))
	pdf.Ln(8)

	section(pdf, fmt.Sprintf("Loads (%d)", len(dc.Loads)))
	for i, load := range dc.Loads {
		item(pdf, i, "%s: %g %s", load.LoadType, load.Magnitude, load.Unit)
		detail(pdf, load.Description, load.Confidence)
	}

	section(pdf, fmt.Sprintf("Seismic Forces (%d)", len(dc.SeismicForces)))
	for i, sf := range dc.SeismicForces {
		item(pdf, i, "%g %s", sf.Magnitude, sf.Unit)
		detail(pdf, sf.Description, sf.Confidence)
	}

	section(pdf, fmt.Sprintf("Design Vehicles (%d)", len(dc.DesignVehicles)))
	for i, dv := range dc.DesignVehicles {
		item(pdf, i, "axles %v %s", dv.AxleLoads, dv.Unit)
		detail(pdf, dv.Description, dv.Confidence)
	}

	section(pdf, fmt.Sprintf("Design Cranes (%d)", len(dc.DesignCranes)))
	for i, cr := range dc.DesignCranes {
		item(pdf, i, "capacity %g %s", cr.Capacity, cr.Unit)
		detail(pdf, cr.Description, cr.Confidence)
	}

	section(pdf, fmt.Sprintf("Tables (%d)", len(dc.Tables)))
	for i, t := range dc.Tables {
		item(pdf, i, "page %d, %d rows", t.Page, len(t.Rows))
	}

	section(pdf, fmt.Sprintf("Images (%d)", len(dc.Images)))
	for i, img := range dc.Images {
		item(pdf, i, "page %d %s", img.Page, img.Label)
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func section(pdf *fpdf.Fpdf, title string) {
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 16, title, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
}

func line(pdf *fpdf.Fpdf, format string, args ...interface{}) {
	pdf.CellFormat(0, 14, fmt.Sprintf(format, args...), "", 1, "L", false, 0, "")
}

func item(pdf *fpdf.Fpdf, index int, format string, args ...interface{}) {
	line(pdf, "  %d. %s", index+1, fmt.Sprintf(format, args...))
}

func detail(pdf *fpdf.Fpdf, description string, confidence float64) {
	if description != "" {
		line(pdf, "     %s", description)
	}
	line(pdf, "     confidence %.0f%%", confidence*100)
}
