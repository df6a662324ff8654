package export

import (
	"errors"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
)

const (
	pdfRowHeight    = 7.0
	pdfBottomMargin = 15.0
)

// WritePDF renders the dataset as a landscape A4 table. Column widths are
// shared equally; the header row repeats on every page.
func WritePDF(w io.Writer, d Dataset, generated time.Time) error {
	if len(d.Headers) == 0 {
		return errors.New("export: dataset has no columns")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(d.Title, true)
	pdf.SetAutoPageBreak(false, pdfBottomMargin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, pageH := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	colW := (pageW - left - right) / float64(len(d.Headers))

	header := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(225, 235, 220)
		for _, h := range d.Headers {
			pdf.CellFormat(colW, pdfRowHeight, tr(h), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 9)
	}

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, tr(d.Title), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(0, 5, "Generated "+generated.Format("2006-01-02 15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(2)
	header()

	for _, row := range d.Rows {
		if pdf.GetY()+pdfRowHeight > pageH-pdfBottomMargin {
			pdf.AddPage()
			header()
		}
		for i := range d.Headers {
			var v any
			if i < len(row) {
				v = row[i]
			}
			align := "L"
			switch v.(type) {
			case float64, int:
				align = "R"
			}
			pdf.CellFormat(colW, pdfRowHeight, tr(cellText(v)), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	if len(d.Rows) == 0 {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.CellFormat(0, pdfRowHeight, "No records.", "", 1, "L", false, 0, "")
	}

	return pdf.Output(w)
}
