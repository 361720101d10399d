package report

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"inventory-tracker/internal/i18n"
)

//go:embed templates/*.html
var templateFS embed.FS

var inventoryTemplate = template.Must(template.New("inventory.html").
	Funcs(template.FuncMap{"dash": orPlaceholder}).
	ParseFS(templateFS, "templates/inventory.html"))

type htmlRow struct {
	Name        string
	Category    string
	Quantity    string
	Unit        string
	MinStock    string
	Description string
}

type htmlPage struct {
	Lang          string
	L             labels
	GeneratedAt   string
	TotalProducts string
	TotalQuantity string
	Rows          []htmlRow
	LowStock      []htmlRow
}

// RenderHTML writes a printable page for r. All item values are escaped.
func RenderHTML(w io.Writer, r Report, tr *i18n.Translator) error {
	page := htmlPage{
		Lang:          tr.Locale(),
		L:             newLabels(tr),
		GeneratedAt:   tr.DateTime(r.GeneratedAt),
		TotalProducts: tr.Number(float64(r.TotalProducts)),
		TotalQuantity: tr.Number(r.TotalQuantity),
		Rows:          htmlRows(r.Rows, tr),
		LowStock:      htmlRows(r.LowStock, tr),
	}

	if err := inventoryTemplate.Execute(w, page); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}

func htmlRows(rows []Row, tr *i18n.Translator) []htmlRow {
	out := make([]htmlRow, len(rows))
	for i, row := range rows {
		out[i] = htmlRow{
			Name:        row.Name,
			Category:    row.Category,
			Quantity:    tr.Number(row.Quantity),
			Unit:        row.Unit,
			MinStock:    formatMin(tr, row.MinStock),
			Description: row.Description,
		}
	}
	return out
}
