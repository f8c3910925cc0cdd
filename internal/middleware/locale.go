package middleware

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

type localeKey struct{}

var supportedLocales = []language.Tag{
	language.English, // first entry is the matcher fallback
	language.Spanish,
	language.French,
	language.German,
	language.Russian,
}

var localeMatcher = language.NewMatcher(supportedLocales)

// Locale negotiates the response language from the X-Locale override or the
// Accept-Language header and stores the base language code in the context.
func Locale(defaultLocale string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			locale := negotiate(r, defaultLocale)
			ctx := context.WithValue(r.Context(), localeKey{}, locale)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// LocaleFromContext returns the negotiated locale, or "en" when unset.
func LocaleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(localeKey{}).(string); ok && v != "" {
		return v
	}
	return "en"
}

func negotiate(r *http.Request, fallback string) string {
	header := r.Header.Get("Accept-Language")
	if override := strings.TrimSpace(r.Header.Get("X-Locale")); override != "" {
		header = override
	}
	if header == "" {
		if fallback != "" {
			return fallback
		}
		return "en"
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		if fallback != "" {
			return fallback
		}
		return "en"
	}
	_, index, _ := localeMatcher.Match(tags...)
	base, _ := supportedLocales[index].Base()
	return base.String()
}
