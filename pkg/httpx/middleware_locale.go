package httpx

import (
	"context"
	"net/http"

	"github.com/nabdaotp/dashboard/pkg/routes"
	"golang.org/x/text/language"
)

// LocaleCookie holds an explicit locale choice made by the user.
const LocaleCookie = "NEXT_LOCALE"

type localeKey struct{}

var (
	supportedTags = []language.Tag{language.Arabic, language.English}
	localeMatcher = language.NewMatcher(supportedTags)
)

// NegotiateLocale picks a supported locale for r: the locale cookie if it
// names one, then Accept-Language, then fallback.
func NegotiateLocale(r *http.Request, fallback string) string {
	if c, err := r.Cookie(LocaleCookie); err == nil && routes.IsLocale(c.Value) {
		return c.Value
	}

	if accept := r.Header.Get("Accept-Language"); accept != "" {
		tags, _, err := language.ParseAcceptLanguage(accept)
		if err == nil && len(tags) > 0 {
			_, i, conf := localeMatcher.Match(tags...)
			if conf != language.No {
				base, _ := supportedTags[i].Base()
				return base.String()
			}
		}
	}

	if !routes.IsLocale(fallback) {
		return routes.DefaultLocale
	}
	return fallback
}

// LocaleMiddleware moves unprefixed page requests under a negotiated locale
// and records the locale of prefixed ones on the request context.
func LocaleMiddleware(fallback string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if routes.Bypass(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			locale, _ := routes.SplitLocale(r.URL.Path)
			if locale == "" {
				target := routes.Localize(NegotiateLocale(r, fallback), r.URL.Path)
				Redirect(w, r, target)
				return
			}

			ctx := context.WithValue(r.Context(), localeKey{}, locale)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// LocaleFromContext returns the locale recorded by LocaleMiddleware, or the
// default locale.
func LocaleFromContext(ctx context.Context) string {
	if l, ok := ctx.Value(localeKey{}).(string); ok {
		return l
	}
	return routes.DefaultLocale
}
