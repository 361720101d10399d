// Package assistant answers free-text questions about stock levels using
// ordered keyword rules and the stock classifications. It performs no I/O
// and keeps no state between calls.
package assistant

import (
	"strings"

	"inventory-tracker/internal/domain"
	"inventory-tracker/internal/i18n"
	"inventory-tracker/internal/stock"
)

const (
	// ResponseTypeText is the only response type produced
	ResponseTypeText = "text"

	// ListLimit caps the items listed in a reply
	ListLimit = 10

	// FallbackListLimit caps the low-stock items appended to a fallback reply
	FallbackListLimit = 5

	listSeparator = "\n• "
)

// Response is the assistant reply
type Response struct {
	Type   string `json:"type"`
	Text   string `json:"text"`
	Intent Intent `json:"intent"`
}

// Engine generates replies. It is safe for concurrent use.
type Engine struct {
	bundle *i18n.Bundle
	rules  []Rule
}

// NewEngine creates an engine using DefaultRules
func NewEngine(bundle *i18n.Bundle) *Engine {
	return &Engine{bundle: bundle, rules: DefaultRules}
}

// Intro returns the greeting shown before the first question
func (e *Engine) Intro(locale string) string {
	return e.bundle.Translator(locale).T("assistant_intro", nil)
}

// GenerateResponse answers message about items. locale selects the catalog
// and number formatting; unsupported locales fall back to English.
func (e *Engine) GenerateResponse(items []domain.Item, message, locale string) Response {
	tr := e.bundle.Translator(locale)
	text := Normalize(message)

	if text == "" {
		return reply(IntentNone, tr.T("assistant_help", nil))
	}

	buckets := stock.Partition(items)
	intent := Classify(e.rules, text)

	switch intent {
	case IntentLow:
		if len(buckets.Below) == 0 {
			return reply(intent, tr.T("assistant_no_low", nil))
		}
		return reply(intent, lowList(tr, buckets.Below, ListLimit))

	case IntentApproaching:
		if len(buckets.Approaching) == 0 {
			return reply(intent, tr.T("assistant_no_approach", nil))
		}
		return reply(intent, tr.T("assistant_approaching_list", i18n.Params{
			"items": shortList(tr, buckets.Approaching, ListLimit),
		}))

	case IntentRestock:
		if len(buckets.Below) == 0 {
			if len(buckets.Slow) == 0 {
				return reply(intent, tr.T("assistant_no_reorder", nil))
			}
			return reply(intent, tr.T("assistant_overstock_suggest", i18n.Params{
				"items": shortList(tr, buckets.Slow, ListLimit),
			}))
		}
		lines := restockLines(tr, buckets.Below)
		return reply(intent, tr.T("assistant_reorder_header", nil)+"\n"+strings.Join(lines, "\n"))

	case IntentSlow:
		if len(buckets.Slow) == 0 {
			return reply(intent, tr.T("assistant_no_slow", nil))
		}
		return reply(intent, tr.T("assistant_slow_list", i18n.Params{
			"items": shortList(tr, buckets.Slow, ListLimit),
		}))

	case IntentSummary:
		return reply(intent, tr.T("assistant_summary", i18n.Params{
			"total":    len(items),
			"low":      len(buckets.Below),
			"approach": len(buckets.Approaching),
			"slow":     len(buckets.Slow),
		}))
	}

	var low string
	if len(buckets.Below) == 0 {
		low = tr.T("assistant_low_list", i18n.Params{
			"count": 0,
			"items": tr.T("assistant_no_low", nil),
		})
	} else {
		low = lowList(tr, buckets.Below, FallbackListLimit)
	}
	return reply(IntentNone, tr.T("assistant_fallback", nil)+"\n\n"+low)
}

// RestockPlan returns one localized reorder line per low item, in input
// order. It is empty when nothing is low.
func (e *Engine) RestockPlan(items []domain.Item, locale string) []string {
	below := stock.LowStock(items)
	if len(below) == 0 {
		return nil
	}
	return restockLines(e.bundle.Translator(locale), below)
}

func reply(intent Intent, text string) Response {
	return Response{Type: ResponseTypeText, Text: text, Intent: intent}
}

func lowList(tr *i18n.Translator, below []domain.Item, limit int) string {
	return tr.T("assistant_low_list", i18n.Params{
		"count": len(below),
		"items": shortList(tr, below, limit),
	})
}

func restockLines(tr *i18n.Translator, below []domain.Item) []string {
	lines := make([]string, 0, len(below))
	for _, item := range below {
		target := 0.0
		if item.MinStock != nil {
			target = *item.MinStock
		}
		lines = append(lines, tr.T("assistant_reorder_line", i18n.Params{
			"name":   item.Name,
			"qty":    tr.Number(item.Quantity),
			"unit":   item.UnitOrDefault(),
			"need":   tr.Number(stock.Shortfall(item)),
			"target": tr.Number(target),
		}))
	}
	return lines
}

func shortList(tr *i18n.Translator, items []domain.Item, limit int) string {
	if len(items) > limit {
		items = items[:limit]
	}
	lines := make([]string, len(items))
	for i, item := range items {
		min := "N/A"
		if item.MinStock != nil {
			min = tr.Number(*item.MinStock)
		}
		lines[i] = tr.T("assistant_item_line", i18n.Params{
			"name": item.Name,
			"qty":  tr.Number(item.Quantity),
			"unit": item.UnitOrDefault(),
			"min":  min,
		})
	}
	return strings.Join(lines, listSeparator)
}
