package report

import (
	"fmt"
	"io"

	"inventory-tracker/internal/i18n"

	"github.com/go-pdf/fpdf"
)

const (
	pageMargin = 10.0
	rowHeight  = 7.0
	fontFamily = "Helvetica"
)

var (
	columnWidths    = []float64{55, 40, 30, 25, 30, 97}
	columnAligns    = []string{"L", "L", "R", "L", "R", "L"}
	lowColumnWidths = []float64{80, 40, 40}
	lowColumnAligns = []string{"L", "R", "R"}
)

// RenderPDF writes r as a landscape A4 document with a summary, the full
// item table, the low-stock table and a page counter in the footer.
func RenderPDF(w io.Writer, r Report, tr *i18n.Translator) error {
	l := newLabels(tr)

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AliasNbPages("")
	pdf.SetTitle(l.Title, true)

	// core fonts are cp1252
	enc := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont(fontFamily, "", 9)
		pdf.SetTextColor(100, 100, 100)
		footer := tr.T("page_of", i18n.Params{"page": pdf.PageNo(), "total": "{nb}"})
		pdf.CellFormat(0, 6, enc(footer), "", 0, "R", false, 0, "")
	})

	pdf.AddPage()
	pageWidth, _ := pdf.GetPageSize()

	pdf.SetFont(fontFamily, "B", 18)
	pdf.CellFormat(0, 10, enc(l.Title), "", 1, "L", false, 0, "")

	pdf.SetFont(fontFamily, "", 11)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(0, 6, enc(l.GeneratedOn+": "+tr.DateTime(r.GeneratedAt)), "", 1, "L", false, 0, "")
	y := pdf.GetY() + 2
	pdf.Line(pageMargin, y, pageWidth-pageMargin, y)
	pdf.Ln(8)

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont(fontFamily, "B", 13)
	pdf.CellFormat(0, 8, enc(l.Summary), "", 1, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", 11)
	pdf.CellFormat(0, 6, enc("• "+l.TotalProducts+": "+tr.Number(float64(r.TotalProducts))), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, enc("• "+l.TotalQuantity+": "+tr.Number(r.TotalQuantity)), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	rows := make([][]string, len(r.Rows))
	for i, row := range r.Rows {
		rows[i] = []string{
			orPlaceholder(row.Name),
			orPlaceholder(row.Category),
			tr.Number(row.Quantity),
			row.Unit,
			formatMin(tr, row.MinStock),
			orPlaceholder(row.Description),
		}
	}
	table(pdf, enc, l.Headers, columnWidths, columnAligns, rows, [3]int{40, 40, 40})

	pdf.Ln(8)
	pdf.SetFont(fontFamily, "B", 13)
	pdf.CellFormat(0, 8, enc(l.LowStock), "", 1, "L", false, 0, "")

	if len(r.LowStock) == 0 {
		pdf.SetFont(fontFamily, "", 11)
		pdf.CellFormat(0, 6, enc(l.AllGood), "", 1, "L", false, 0, "")
	} else {
		low := make([][]string, len(r.LowStock))
		for i, row := range r.LowStock {
			low[i] = []string{orPlaceholder(row.Name), tr.Number(row.Quantity), formatMin(tr, row.MinStock)}
		}
		table(pdf, enc, l.LowHeaders, lowColumnWidths, lowColumnAligns, low, [3]int{200, 50, 50})
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	return nil
}

// table draws a grid with a filled header row. The header is repeated when
// the body breaks onto a new page.
func table(pdf *fpdf.Fpdf, enc func(string) string, headers []string, widths []float64, aligns []string, rows [][]string, headFill [3]int) {
	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()

	head := func() {
		pdf.SetFont(fontFamily, "B", 10)
		pdf.SetFillColor(headFill[0], headFill[1], headFill[2])
		pdf.SetTextColor(255, 255, 255)
		for i, h := range headers {
			pdf.CellFormat(widths[i], rowHeight, enc(h), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont(fontFamily, "", 10)
		pdf.SetTextColor(0, 0, 0)
	}

	head()
	for _, row := range rows {
		if pdf.GetY()+rowHeight > pageHeight-bottom {
			pdf.AddPage()
			head()
		}
		for i, cell := range row {
			pdf.CellFormat(widths[i], rowHeight, enc(fit(pdf, cell, widths[i])), "1", 0, aligns[i], false, 0, "")
		}
		pdf.Ln(-1)
	}
}

// fit truncates s so it fits in a cell of width w
func fit(pdf *fpdf.Fpdf, s string, w float64) string {
	const padding = 2
	if pdf.GetStringWidth(s) <= w-padding {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)+"...") > w-padding {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}
