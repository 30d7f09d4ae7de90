package report

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// writePDF lays the findings out as a simple A4 table. Core fonts only cover
// cp1252, so text goes through gofpdf's translator; characters outside it
// are replaced.
func writePDF(w io.Writer, r Report) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	title := r.Title
	if title == "" {
		title = "Abbreviations"
	}
	pdf.SetTitle(title, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, tr(title), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("%d inputs (%d failed), %d segments, %d phrases",
		r.Summary.Inputs, r.Summary.Failed, r.Summary.Segments, r.Summary.Phrases), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	widths := []float64{60, 16, 74, 24, 16}
	table(pdf, tr, widths, []string{"Source", "Segment", "Phrase", "Acronym", "Common"}, findingRows(r.Findings))

	if len(r.Definitions) > 0 {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 7, "Definitions", "", 1, "L", false, 0, "")
		table(pdf, tr, []float64{50, 74, 24, 20, 22},
			[]string{"Source", "Long form", "Acronym", "Origin", "Consistent"}, definitionRows(r.Definitions))
	}
	return pdf.Output(w)
}

func table(pdf *gofpdf.Fpdf, tr func(string) string, widths []float64, header []string, rows [][]string) {
	pdf.SetFont("Helvetica", "B", 9)
	for i, h := range header {
		pdf.CellFormat(widths[i], 6, h, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 9)
	for _, row := range rows {
		for i, v := range row {
			pdf.CellFormat(widths[i], 6, fit(pdf, tr(v), widths[i]-2), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
}

// fit shortens s with an ellipsis until it fits width.
func fit(pdf *gofpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"...") > width {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}

func findingRows(findings []Finding) [][]string {
	rows := make([][]string, 0, len(findings))
	for _, f := range findings {
		phrase, acro := f.Phrase, f.Acronym
		if !f.Found {
			phrase, acro = "(none)", ""
		}
		rows = append(rows, []string{f.Source, fmt.Sprint(f.Segment), phrase, acro, fmt.Sprint(f.CommonWords)})
	}
	return rows
}

func definitionRows(defs []Definition) [][]string {
	rows := make([][]string, 0, len(defs))
	for _, d := range defs {
		consistent := "no"
		if d.Consistent {
			consistent = "yes"
		}
		rows = append(rows, []string{d.Source, d.LongForm, d.Acronym, d.Origin, consistent})
	}
	return rows
}
