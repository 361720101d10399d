// Package activity renders activity log entries for display.
package activity

import (
	"strings"
	"time"

	"inventory-tracker/internal/domain"
	"inventory-tracker/internal/i18n"

	"github.com/google/uuid"
)

// View is an activity entry rendered for one locale
type View struct {
	ID        uuid.UUID             `json:"id"`
	Action    domain.ActivityAction `json:"action"`
	ItemName  string                `json:"item_name"`
	Label     string                `json:"label"`
	Summary   string                `json:"summary"`
	TimeAgo   string                `json:"time_ago"`
	CreatedAt time.Time             `json:"created_at"`
}

var actionLabels = map[domain.ActivityAction]string{
	domain.ActionAdd:              "activity_add",
	domain.ActionUpdate:           "activity_update",
	domain.ActionDelete:           "activity_delete",
	domain.ActionLowStock:         "activity_low_stock",
	domain.ActionAssistantSuggest: "activity_assistant_suggest",
}

// Label returns the localized name of an action. Unknown actions are
// returned unchanged.
func Label(action domain.ActivityAction, tr *i18n.Translator) string {
	if id, ok := actionLabels[action]; ok {
		return tr.T(id, nil)
	}
	return string(action)
}

// Summary renders the details of an entry from its payload. Entries written
// without a payload show their stored details text.
func Summary(entry domain.ActivityLogEntry, tr *i18n.Translator) string {
	if p := entry.Payload; p != nil {
		switch p.Kind {
		case domain.ActionAdd:
			if p.Count != nil {
				return tr.T("activity_added_details", i18n.Params{"count": tr.Number(*p.Count), "unit": p.Unit})
			}
		case domain.ActionUpdate:
			if p.Count != nil {
				return tr.T("activity_updated_details", i18n.Params{"count": tr.Number(*p.Count), "unit": p.Unit})
			}
		case domain.ActionDelete:
			return tr.T("activity_deleted_details", nil)
		case domain.ActionLowStock:
			if p.Quantity != nil && p.MinStock != nil {
				return tr.T("activity_lowstock_details", i18n.Params{"qty": tr.Number(*p.Quantity), "min": tr.Number(*p.MinStock)})
			}
		case domain.ActionAssistantSuggest:
			if len(p.Lines) > 0 {
				return strings.Join(p.Lines, "\n")
			}
		}
	}

	details := strings.TrimSpace(entry.Details)
	if details == "" {
		return tr.T("activity_no_details", nil)
	}
	if entry.Action == domain.ActionAssistantSuggest {
		return joinSuggestions(details)
	}
	return details
}

func joinSuggestions(details string) string {
	var lines []string
	for _, s := range strings.Split(details, ";") {
		if s = strings.TrimSpace(s); s != "" {
			lines = append(lines, s)
		}
	}
	return strings.Join(lines, "\n")
}

// TimeAgo renders how long before now t happened: "just now" under a
// minute, then whole minutes, hours and days. The zero time renders empty.
func TimeAgo(t, now time.Time, tr *i18n.Translator) string {
	if t.IsZero() {
		return ""
	}

	elapsed := now.Sub(t)
	switch {
	case elapsed < time.Minute:
		return tr.T("just_now", nil)
	case elapsed < time.Hour:
		return tr.Plural("minutes_ago", int(elapsed/time.Minute), nil)
	case elapsed < 24*time.Hour:
		return tr.Plural("hours_ago", int(elapsed/time.Hour), nil)
	default:
		return tr.Plural("days_ago", int(elapsed/(24*time.Hour)), nil)
	}
}

// Present renders entries in their given order
func Present(entries []domain.ActivityLogEntry, now time.Time, tr *i18n.Translator) []View {
	views := make([]View, 0, len(entries))
	for _, e := range entries {
		views = append(views, View{
			ID:        e.ID,
			Action:    e.Action,
			ItemName:  e.ItemName,
			Label:     Label(e.Action, tr),
			Summary:   Summary(e, tr),
			TimeAgo:   TimeAgo(e.CreatedAt, now, tr),
			CreatedAt: e.CreatedAt,
		})
	}
	return views
}
