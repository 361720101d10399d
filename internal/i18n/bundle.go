// Package i18n loads the message catalogs and formats numbers and dates for
// the supported locales.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/go-playground/locales"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/fr"
	ut "github.com/go-playground/universal-translator"
	"golang.org/x/text/language"
)

// DefaultLocale is used when no requested locale is supported
const DefaultLocale = "en"

//go:embed locales/*.json
var catalogFS embed.FS

// Bundle holds every loaded catalog. It is immutable after construction and
// safe for concurrent use.
type Bundle struct {
	uni      *ut.UniversalTranslator
	catalogs map[string]map[string]string
	fallback string
	// locales[i] is the catalog name of the matcher's i-th tag
	locales []string
	matcher language.Matcher
}

// NewBundle loads the embedded catalogs for all supported locales
func NewBundle() (*Bundle, error) {
	fallback := en.New()
	uni := ut.New(fallback, fallback, fr.New())

	entries, err := catalogFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("failed to read catalogs: %w", err)
	}

	catalogs := make(map[string]map[string]string, len(entries))
	names := []string{DefaultLocale}
	tags := []language.Tag{language.Make(DefaultLocale)}
	for _, entry := range entries {
		name := entry.Name()
		locale := strings.TrimSuffix(name, path.Ext(name))

		if _, ok := uni.GetTranslator(locale); !ok {
			return nil, fmt.Errorf("catalog %s has no matching locale rules", name)
		}

		data, err := catalogFS.ReadFile(path.Join("locales", name))
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog %s: %w", name, err)
		}

		messages := map[string]string{}
		if err := json.Unmarshal(data, &messages); err != nil {
			return nil, fmt.Errorf("failed to parse catalog %s: %w", name, err)
		}
		catalogs[locale] = messages

		if locale != DefaultLocale {
			tag, err := language.Parse(locale)
			if err != nil {
				return nil, fmt.Errorf("catalog %s is not a language tag: %w", name, err)
			}
			names = append(names, locale)
			tags = append(tags, tag)
		}
	}

	if _, ok := catalogs[DefaultLocale]; !ok {
		return nil, fmt.Errorf("missing %s catalog", DefaultLocale)
	}

	return &Bundle{
		uni:      uni,
		catalogs: catalogs,
		fallback: DefaultLocale,
		locales:  names,
		matcher:  language.NewMatcher(tags),
	}, nil
}

// MustBundle is like NewBundle but panics on error. The catalogs are
// embedded, so an error here is a build defect.
func MustBundle() *Bundle {
	b, err := NewBundle()
	if err != nil {
		panic(err)
	}
	return b
}

// Supported returns the locales that have a catalog, sorted
func (b *Bundle) Supported() []string {
	out := make([]string, 0, len(b.catalogs))
	for locale := range b.catalogs {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// Resolve returns the supported locale of the first requested tag that has
// one, so "fr-CA" and "FR_be" resolve to "fr". Malformed and unsupported
// tags are skipped; DefaultLocale is used when none match.
func (b *Bundle) Resolve(requested ...string) string {
	for _, r := range requested {
		tag, err := language.Parse(strings.TrimSpace(r))
		if err != nil {
			continue
		}
		if _, i, confidence := b.matcher.Match(tag); confidence != language.No {
			return b.locales[i]
		}
	}
	return b.fallback
}

// Translator returns a translator for the best match of the requested locales
func (b *Bundle) Translator(requested ...string) *Translator {
	locale := b.Resolve(requested...)
	trans, _ := b.uni.GetTranslator(locale)
	return &Translator{
		locale:   locale,
		rules:    trans,
		messages: b.catalogs[locale],
		fallback: b.catalogs[b.fallback],
	}
}

// ParseAcceptLanguage returns the language tags of an Accept-Language header
// ordered by weight. Zero weights and the "*" wildcard are dropped; a
// malformed header yields no tags.
func ParseAcceptLanguage(header string) []string {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil {
		return nil
	}

	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		// "*" parses as mul
		if name := tag.String(); name != "mul" && name != "und" {
			out = append(out, name)
		}
	}
	return out
}

// pluralSuffix maps a CLDR cardinal rule to the catalog key suffix
func pluralSuffix(rule locales.PluralRule) string {
	if rule == locales.PluralRuleOne {
		return "_one"
	}
	return "_other"
}
