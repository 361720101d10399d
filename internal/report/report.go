// Package report builds inventory reports and renders them as a printable
// HTML page or a PDF document.
package report

import (
	"strings"
	"time"

	"inventory-tracker/internal/domain"
	"inventory-tracker/internal/i18n"
	"inventory-tracker/internal/stock"
)

const placeholder = "-"

// Row is one item as it appears in a report
type Row struct {
	Name        string
	Category    string
	Quantity    float64
	Unit        string
	MinStock    *float64
	Description string
}

// Report is a point-in-time snapshot of an inventory
type Report struct {
	GeneratedAt   time.Time
	TotalProducts int
	TotalQuantity float64
	Rows          []Row
	LowStock      []Row
}

// Build snapshots items in their given order
func Build(items []domain.Item, now time.Time) Report {
	r := Report{
		GeneratedAt:   now,
		TotalProducts: len(items),
		Rows:          make([]Row, 0, len(items)),
	}

	for _, item := range items {
		row := Row{
			Name:        item.Name,
			Category:    item.Category,
			Quantity:    stock.ParseQuantity(item.Quantity),
			Unit:        item.Unit,
			MinStock:    item.MinStock,
			Description: item.Description,
		}
		r.TotalQuantity += row.Quantity
		r.Rows = append(r.Rows, row)
		if stock.IsLowStock(item) {
			r.LowStock = append(r.LowStock, row)
		}
	}
	return r
}

// Filename returns the download name of a report generated at now
func Filename(now time.Time) string {
	return "inventory-" + now.UTC().Format("2006-01-02") + ".pdf"
}

// labels are the localized strings shared by both renderers
type labels struct {
	Title         string
	GeneratedOn   string
	Summary       string
	TotalProducts string
	TotalQuantity string
	LowStock      string
	AllGood       string
	Headers       []string
	LowHeaders    []string
}

func newLabels(tr *i18n.Translator) labels {
	item := tr.T("table_item", nil)
	qty := tr.T("table_quantity", nil)
	min := tr.T("table_min_stock", nil)

	return labels{
		Title:         tr.T("inventory_report_title", nil),
		GeneratedOn:   tr.T("generated_on", nil),
		Summary:       tr.T("summary", nil),
		TotalProducts: tr.T("total_products_label", nil),
		TotalQuantity: tr.T("total_quantity_label", nil),
		LowStock:      tr.T("low_stock_alerts", nil),
		AllGood:       tr.T("all_good", nil),
		Headers: []string{
			item,
			tr.T("table_category", nil),
			qty,
			tr.T("table_unit", nil),
			min,
			tr.T("table_description", nil),
		},
		LowHeaders: []string{item, qty, min},
	}
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return s
}

func formatMin(tr *i18n.Translator, min *float64) string {
	if min == nil {
		return placeholder
	}
	return tr.Number(*min)
}
