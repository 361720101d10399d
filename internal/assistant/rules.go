package assistant

import "strings"

// Intent is the classified purpose of a message
type Intent string

const (
	IntentNone        Intent = "none"
	IntentLow         Intent = "low"
	IntentApproaching Intent = "approaching"
	IntentRestock     Intent = "restock"
	IntentSlow        Intent = "slow"
	IntentSummary     Intent = "summary"
)

// Rule maps a set of keywords to an intent. A keyword matches when it is a
// substring of the normalized message; word boundaries are not considered.
type Rule struct {
	Intent   Intent
	Keywords []string
}

// DefaultRules is checked in order and the first matching rule wins, so a
// message mentioning both "low" and "summary" is a low-stock question.
var DefaultRules = []Rule{
	{
		Intent:   IntentLow,
		Keywords: []string{"low stock", "low", "running low", "out of stock", "low stock?", "stock faible", "faible", "bas"},
	},
	{
		Intent:   IntentApproaching,
		Keywords: []string{"approach", "almost", "soon", "within", "presque", "proche", "bientôt"},
	},
	{
		Intent:   IntentRestock,
		Keywords: []string{"restock", "buy now", "what should i buy", "what to buy", "reorder", "commander", "acheter", "que dois-je", "que dois je"},
	},
	{
		Intent:   IntentSlow,
		Keywords: []string{"slow", "not moving", "stagnant", "lent", "rotation lente"},
	},
	{
		Intent:   IntentSummary,
		Keywords: []string{"explain", "status", "overview", "how am i doing", "summary", "résumé", "état"},
	},
}

// Normalize lower-cases and trims a message
func Normalize(message string) string {
	return strings.ToLower(strings.TrimSpace(message))
}

// Classify returns the intent of the first rule with a keyword contained in
// text, or IntentNone. text is expected to be normalized.
func Classify(rules []Rule, text string) Intent {
	for _, rule := range rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(text, kw) {
				return rule.Intent
			}
		}
	}
	return IntentNone
}
