package domain

import (
	"time"

	"github.com/google/uuid"
)

// ActivityAction identifies what happened in an activity log entry
type ActivityAction string

const (
	ActionAdd              ActivityAction = "ADD"
	ActionUpdate           ActivityAction = "UPDATE"
	ActionDelete           ActivityAction = "DELETE"
	ActionLowStock         ActivityAction = "LOW_STOCK"
	ActionAssistantSuggest ActivityAction = "ASSISTANT_SUGGEST"
)

// Valid reports whether a is one of the known actions
func (a ActivityAction) Valid() bool {
	switch a {
	case ActionAdd, ActionUpdate, ActionDelete, ActionLowStock, ActionAssistantSuggest:
		return true
	}
	return false
}

// ActivityPayload is the structured half of an activity entry. Kind selects
// which of the other fields are meaningful.
type ActivityPayload struct {
	Kind     ActivityAction `json:"kind"`
	Count    *float64       `json:"count,omitempty"`
	Unit     string         `json:"unit,omitempty"`
	Quantity *float64       `json:"quantity,omitempty"`
	MinStock *float64       `json:"min_stock,omitempty"`
	Lines    []string       `json:"lines,omitempty"`
}

// ActivityLogEntry is an append-only record of an item mutation or alert
type ActivityLogEntry struct {
	ID        uuid.UUID        `json:"id" db:"id"`
	UserID    uuid.UUID        `json:"user_id" db:"user_id"`
	Action    ActivityAction   `json:"action" db:"action"`
	ItemName  string           `json:"item_name" db:"item_name"`
	Details   string           `json:"details" db:"details"`
	Payload   *ActivityPayload `json:"payload,omitempty" db:"payload"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
}

func AddedPayload(count float64, unit string) *ActivityPayload {
	return &ActivityPayload{Kind: ActionAdd, Count: &count, Unit: unit}
}

func UpdatedPayload(count float64, unit string) *ActivityPayload {
	return &ActivityPayload{Kind: ActionUpdate, Count: &count, Unit: unit}
}

func DeletedPayload() *ActivityPayload {
	return &ActivityPayload{Kind: ActionDelete}
}

func LowStockPayload(quantity, minStock float64) *ActivityPayload {
	return &ActivityPayload{Kind: ActionLowStock, Quantity: &quantity, MinStock: &minStock}
}

func SuggestionPayload(lines []string) *ActivityPayload {
	return &ActivityPayload{Kind: ActionAssistantSuggest, Lines: lines}
}
