package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter renders datasets into a basic tabular PDF.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a PDF document with an optional title and table body.
func (e *PDFExporter) Render(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	if title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, strings.ToUpper(title), "", 1, "C", false, 0, "")
		pdf.Ln(5)
	}

	pdf.SetFont("Arial", "B", 10)
	colWidth := 190.0 / float64(len(data.Headers))
	for _, header := range data.Headers {
		pdf.CellFormat(colWidth, 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range data.Rows {
		for _, header := range data.Headers {
			value := row[header]
			pdf.CellFormat(colWidth, 7, value, "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderRecap renders a monthly attendance grid: one row per person, one
// narrow column per day of month, landscape so 31 day columns fit on A4.
func (e *PDFExporter) RenderRecap(data RecapSheet) ([]byte, error) {
	if data.DaysInMonth < 28 || data.DaysInMonth > 31 {
		return nil, fmt.Errorf("invalid days in month: %d", data.DaysInMonth)
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(8, 12, 8)
	pdf.AddPage()

	if data.Title != "" {
		pdf.SetFont("Arial", "B", 13)
		pdf.CellFormat(0, 8, strings.ToUpper(data.Title), "", 1, "C", false, 0, "")
	}
	if data.Subtitle != "" {
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 6, data.Subtitle, "", 1, "C", false, 0, "")
	}
	pdf.Ln(3)

	nameWidth := 55.0
	dayWidth := (281.0 - nameWidth - 40.0) / float64(data.DaysInMonth)

	pdf.SetFont("Arial", "B", 8)
	pdf.CellFormat(nameWidth, 7, "Nama", "1", 0, "C", false, 0, "")
	for day := 1; day <= data.DaysInMonth; day++ {
		pdf.CellFormat(dayWidth, 7, fmt.Sprintf("%d", day), "1", 0, "C", false, 0, "")
	}
	for _, status := range []string{"H", "I", "S", "A"} {
		pdf.CellFormat(10, 7, status, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 7)
	for _, row := range data.Rows {
		pdf.CellFormat(nameWidth, 6, row.Name, "1", 0, "", false, 0, "")
		for day := 1; day <= data.DaysInMonth; day++ {
			pdf.CellFormat(dayWidth, 6, row.Days[day], "1", 0, "C", false, 0, "")
		}
		pdf.CellFormat(10, 6, fmt.Sprintf("%d", row.Totals["H"]), "1", 0, "C", false, 0, "")
		pdf.CellFormat(10, 6, fmt.Sprintf("%d", row.Totals["I"]), "1", 0, "C", false, 0, "")
		pdf.CellFormat(10, 6, fmt.Sprintf("%d", row.Totals["S"]), "1", 0, "C", false, 0, "")
		pdf.CellFormat(10, 6, fmt.Sprintf("%d", row.Totals["A"]), "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render recap pdf: %w", err)
	}
	return buf.Bytes(), nil
}
