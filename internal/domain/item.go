package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultUnit is used when an item is saved without a unit.
const DefaultUnit = "pcs"

// Uncategorized is the display category for items without one.
const Uncategorized = "uncategorized"

// Item represents a stock record owned by a single user
type Item struct {
	ID          uuid.UUID `json:"id" db:"id"`
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	Name        string    `json:"name" db:"name"`
	Quantity    float64   `json:"quantity" db:"quantity"`
	Unit        string    `json:"unit" db:"unit"`
	Category    string    `json:"category" db:"category"`
	Description string    `json:"description" db:"description"`
	MinStock    *float64  `json:"min_stock" db:"min_stock"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// UnitOrDefault returns the item's unit, or DefaultUnit when it is blank
func (i Item) UnitOrDefault() string {
	if i.Unit == "" {
		return DefaultUnit
	}
	return i.Unit
}

// CategoryOrDefault returns the item's category, or Uncategorized when it is blank
func (i Item) CategoryOrDefault() string {
	if i.Category == "" {
		return Uncategorized
	}
	return i.Category
}
