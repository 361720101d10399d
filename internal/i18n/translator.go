package i18n

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/locales"
)

// maxFractionDigits matches the default precision of browser number formatting
const maxFractionDigits = 3

// Params are the named values substituted into {{name}} placeholders
type Params map[string]any

// Translator renders catalog messages and numbers for one locale
type Translator struct {
	locale   string
	rules    locales.Translator
	messages map[string]string
	fallback map[string]string
}

// Locale returns the resolved locale
func (t *Translator) Locale() string {
	return t.locale
}

// Has reports whether the message id exists in this locale or the fallback
func (t *Translator) Has(id string) bool {
	_, ok := t.lookup(id)
	return ok
}

// T renders the message id with params. Unknown ids render as the id itself.
func (t *Translator) T(id string, params Params) string {
	tmpl, ok := t.lookup(id)
	if !ok {
		return id
	}
	return interpolate(tmpl, params)
}

// Plural renders id_one or id_other depending on count under the locale's
// cardinal plural rules. count is also available as {{count}}.
func (t *Translator) Plural(id string, count int, params Params) string {
	key := id + pluralSuffix(t.rules.CardinalPluralRule(float64(count), 0))
	if !t.Has(key) {
		key = id + "_other"
	}

	p := Params{"count": t.Number(float64(count))}
	for k, v := range params {
		p[k] = v
	}
	return t.T(key, p)
}

// Number formats n with the locale's grouping and decimal separators,
// keeping at most three fraction digits.
func (t *Translator) Number(n float64) string {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		n = 0
	}
	n = math.Round(n*1000) / 1000
	return t.rules.FmtNumber(n, fractionDigits(n))
}

// DateTime formats a timestamp with the locale's medium date and short time
func (t *Translator) DateTime(ts time.Time) string {
	return t.rules.FmtDateMedium(ts) + " " + t.rules.FmtTimeShort(ts)
}

func (t *Translator) lookup(id string) (string, bool) {
	if tmpl, ok := t.messages[id]; ok {
		return tmpl, true
	}
	tmpl, ok := t.fallback[id]
	return tmpl, ok
}

func fractionDigits(n float64) uint64 {
	s := strconv.FormatFloat(math.Abs(n), 'f', -1, 64)
	i := strings.IndexByte(s, '.')
	if i < 0 {
		return 0
	}
	digits := uint64(len(s) - i - 1)
	if digits > maxFractionDigits {
		digits = maxFractionDigits
	}
	return digits
}

func interpolate(tmpl string, params Params) string {
	if len(params) == 0 || !strings.Contains(tmpl, "{{") {
		return tmpl
	}
	pairs := make([]string, 0, len(params)*2)
	for k, v := range params {
		pairs = append(pairs, "{{"+k+"}}", fmt.Sprint(v))
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}
