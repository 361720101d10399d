package middleware

import (
	"context"
	"net/http"

	"inventory-tracker/internal/i18n"
)

type localeKey struct{}

type negotiated struct {
	bundle *i18n.Bundle
	locale string
}

// LocaleParam overrides Accept-Language when present in the query string
const LocaleParam = "locale"

// LocaleMiddleware resolves the request locale from the locale query
// parameter, then Accept-Language, then fallback, and stores it in the
// request context. The resolved locale is echoed in Content-Language.
func LocaleMiddleware(bundle *i18n.Bundle, fallback string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requested := []string{r.URL.Query().Get(LocaleParam)}
			requested = append(requested, i18n.ParseAcceptLanguage(r.Header.Get("Accept-Language"))...)
			requested = append(requested, fallback)

			locale := bundle.Resolve(requested...)
			w.Header().Set("Content-Language", locale)

			ctx := context.WithValue(r.Context(), localeKey{}, negotiated{bundle: bundle, locale: locale})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Locale returns the locale for the request. A supported explicit locale,
// such as one sent in a request body, wins over the negotiated one.
func Locale(ctx context.Context, explicit string) string {
	n, ok := ctx.Value(localeKey{}).(negotiated)
	if !ok {
		if explicit != "" {
			return explicit
		}
		return i18n.DefaultLocale
	}
	if explicit == "" {
		return n.locale
	}
	return n.bundle.Resolve(explicit, n.locale)
}
