package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"inventory-tracker/internal/domain"
	"inventory-tracker/internal/stock"

	"github.com/google/uuid"
)

// fileItem is an item as written by hand or exported from a spreadsheet.
// Numbers may be strings or missing.
type fileItem struct {
	Name        string      `json:"name"`
	Quantity    interface{} `json:"quantity"`
	Unit        string      `json:"unit"`
	Category    string      `json:"category"`
	Description string      `json:"description"`
	MinStock    interface{} `json:"min_stock"`
}

// loadItems reads a JSON array of items from path, or stdin when path is "-"
func loadItems(path string) ([]domain.Item, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open items file: %w", err)
		}
		defer f.Close()
		r = f
	}

	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw []fileItem
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse items file: %w", err)
	}

	items := make([]domain.Item, 0, len(raw))
	for _, in := range raw {
		item := domain.Item{
			ID:          uuid.New(),
			Name:        strings.TrimSpace(in.Name),
			Quantity:    stock.ParseQuantity(in.Quantity),
			Unit:        strings.TrimSpace(in.Unit),
			Category:    strings.TrimSpace(in.Category),
			Description: in.Description,
			MinStock:    stock.ParseThreshold(in.MinStock),
		}
		item.Unit = item.UnitOrDefault()
		items = append(items, item)
	}
	return items, nil
}
