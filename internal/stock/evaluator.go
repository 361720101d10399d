// Package stock classifies items against their configured minimum stock.
//
// The predicates are independent of each other: each one applies its own
// guards, so callers must not derive one from another.
package stock

import (
	"math"

	"inventory-tracker/internal/domain"
)

const (
	// DefaultApproachPercent sizes the band above the minimum that counts as
	// "approaching".
	DefaultApproachPercent = 0.25

	// OverstockFactor is the multiple of the minimum at which an item is
	// considered overstocked (slow-moving).
	OverstockFactor = 5
)

// Status holds the three independent classifications of an item
type Status struct {
	Low         bool `json:"low"`
	Approaching bool `json:"approaching"`
	Overstocked bool `json:"overstocked"`
}

// Buckets groups items by classification, preserving input order
type Buckets struct {
	Below       []domain.Item
	Approaching []domain.Item
	Slow        []domain.Item
}

// IsLowStock reports whether the item is at or below its minimum. Items
// without a threshold are never low.
func IsLowStock(item domain.Item) bool {
	m, ok := threshold(item)
	if !ok {
		return false
	}
	return quantity(item) <= m
}

// IsApproachingMin reports whether the item sits at or just above its
// minimum, within max(1, floor(min*percent)) units. A zero minimum is never
// approached.
func IsApproachingMin(item domain.Item, percent float64) bool {
	m, ok := threshold(item)
	if !ok || m == 0 {
		return false
	}
	q := quantity(item)
	band := math.Max(1, math.Floor(m*percent))
	return q >= m && q-m <= band
}

// IsOverstocked reports whether the item holds at least OverstockFactor
// times its minimum.
func IsOverstocked(item domain.Item) bool {
	m, ok := threshold(item)
	if !ok {
		return false
	}
	return quantity(item) >= m*OverstockFactor
}

// Evaluate runs all three predicates with the default approach band
func Evaluate(item domain.Item) Status {
	return Status{
		Low:         IsLowStock(item),
		Approaching: IsApproachingMin(item, DefaultApproachPercent),
		Overstocked: IsOverstocked(item),
	}
}

// Partition splits items into the below, approaching and slow buckets. An
// item can appear in more than one bucket.
func Partition(items []domain.Item) Buckets {
	var b Buckets
	for _, item := range items {
		if IsLowStock(item) {
			b.Below = append(b.Below, item)
		}
		if IsApproachingMin(item, DefaultApproachPercent) {
			b.Approaching = append(b.Approaching, item)
		}
		if IsOverstocked(item) {
			b.Slow = append(b.Slow, item)
		}
	}
	return b
}

// LowStock returns the low items in input order
func LowStock(items []domain.Item) []domain.Item {
	var low []domain.Item
	for _, item := range items {
		if IsLowStock(item) {
			low = append(low, item)
		}
	}
	return low
}

// Shortfall is how much must be ordered to bring the item back to its
// minimum; zero when there is no threshold or nothing is missing.
func Shortfall(item domain.Item) float64 {
	m, ok := threshold(item)
	if !ok {
		return 0
	}
	return math.Max(0, m-quantity(item))
}

func quantity(item domain.Item) float64 {
	if !finite(item.Quantity) {
		return 0
	}
	return item.Quantity
}

func threshold(item domain.Item) (float64, bool) {
	if item.MinStock == nil || !finite(*item.MinStock) {
		return 0, false
	}
	return *item.MinStock, true
}
