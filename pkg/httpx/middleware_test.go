package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nabdaotp/dashboard/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func serve(h http.Handler, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func credential(v string) *http.Cookie {
	return &http.Cookie{Name: "nadba-token", Value: v}
}

func TestChainOrder(t *testing.T) {
	var order []string
	mw := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := httpx.Chain(okHandler, mw("outer"), mw("inner"))
	serve(h, "/")
	require.Equal(t, []string{"outer", "inner"}, order)
}

func TestAccessGate(t *testing.T) {
	gate := httpx.AccessGate(httpx.DefaultGateConfig())(okHandler)

	tests := []struct {
		name     string
		path     string
		cookie   *http.Cookie
		status   int
		location string
	}{
		{"protected without cookie", "/en/dashboard", nil, http.StatusTemporaryRedirect, "/en/login"},
		{"protected sub-path without cookie", "/ar/messages/42", nil, http.StatusTemporaryRedirect, "/ar/login"},
		{"unprefixed protected", "/settings", nil, http.StatusTemporaryRedirect, "/ar/login"},
		{"unknown prefix", "/fr/billing", nil, http.StatusOK, ""},
		{"protected with cookie", "/en/dashboard", credential("T"), http.StatusOK, ""},
		{"auth-only with cookie", "/en/login", credential("T"), http.StatusTemporaryRedirect, "/en/dashboard"},
		{"auth-only sub-path with cookie", "/ar/reset-password/abc", credential("T"), http.StatusTemporaryRedirect, "/ar/dashboard"},
		{"auth-only without cookie", "/en/signup", nil, http.StatusOK, ""},
		{"empty cookie", "/en/faq", credential(""), http.StatusTemporaryRedirect, "/en/login"},
		{"prefix lookalike", "/en/dashboards", nil, http.StatusOK, ""},
		{"api bypass", "/api/v1/messages", nil, http.StatusOK, ""},
		{"static asset", "/en/dashboard/logo.png", nil, http.StatusOK, ""},
		{"health probe", "/livez", nil, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cookies []*http.Cookie
			if tt.cookie != nil {
				cookies = append(cookies, tt.cookie)
			}
			rec := serve(gate, tt.path, cookies...)
			require.Equal(t, tt.status, rec.Code)
			require.Equal(t, tt.location, rec.Header().Get("Location"))
		})
	}
}

func TestAccessGateKeepsQuery(t *testing.T) {
	gate := httpx.AccessGate(httpx.DefaultGateConfig())(okHandler)
	rec := serve(gate, "/en/billing?plan=pro")
	require.Equal(t, "/en/login?plan=pro", rec.Header().Get("Location"))
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestAccessGateUnprefixedUsesDefaultLocale(t *testing.T) {
	gate := httpx.AccessGate(httpx.DefaultGateConfig())(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, req)
	require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	require.Equal(t, "/ar/login", rec.Header().Get("Location"))

	req = httptest.NewRequest(http.MethodGet, "/login", nil)
	req.Header.Set("Accept-Language", "en")
	req.AddCookie(&http.Cookie{Name: httpx.LocaleCookie, Value: "en"})
	req.AddCookie(credential("T"))
	rec = httptest.NewRecorder()
	gate.ServeHTTP(rec, req)
	require.Equal(t, "/ar/dashboard", rec.Header().Get("Location"))
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)})
	s, err := tok.SignedString([]byte("k"))
	require.NoError(t, err)
	return s
}

func TestAccessGateExpiry(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	expired := signedToken(t, now.Add(-time.Hour))
	valid := signedToken(t, now.Add(time.Hour))

	t.Run("cookie trusted by default", func(t *testing.T) {
		gate := httpx.AccessGate(httpx.DefaultGateConfig())(okHandler)
		require.Equal(t, http.StatusOK, serve(gate, "/en/dashboard", credential(expired)).Code)

		rec := serve(gate, "/en/login", credential(expired))
		require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
		require.Equal(t, "/en/dashboard", rec.Header().Get("Location"))
	})

	t.Run("opt-in expiry check", func(t *testing.T) {
		cfg := httpx.DefaultGateConfig()
		cfg.CheckExpiry = true
		cfg.Now = func() time.Time { return now }
		gate := httpx.AccessGate(cfg)(okHandler)

		require.Equal(t, "/en/login", serve(gate, "/en/dashboard", credential(expired)).Header().Get("Location"))
		require.Equal(t, http.StatusOK, serve(gate, "/en/login", credential(expired)).Code)
		require.Equal(t, http.StatusOK, serve(gate, "/en/dashboard", credential(valid)).Code)
		require.Equal(t, http.StatusOK, serve(gate, "/en/dashboard", credential("opaque-token")).Code)
	})
}

func TestNegotiateLocale(t *testing.T) {
	tests := []struct {
		name   string
		cookie string
		accept string
		want   string
	}{
		{"cookie wins", "en", "ar", "en"},
		{"bad cookie ignored", "fr", "en-US,en;q=0.9", "en"},
		{"accept arabic region", "", "ar-SA", "ar"},
		{"accept english", "", "en-GB", "en"},
		{"unsupported falls back", "", "fr-FR", "ar"},
		{"nothing", "", "", "ar"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: httpx.LocaleCookie, Value: tt.cookie})
			}
			if tt.accept != "" {
				req.Header.Set("Accept-Language", tt.accept)
			}
			require.Equal(t, tt.want, httpx.NegotiateLocale(req, "ar"))
		})
	}
}

func TestLocaleMiddleware(t *testing.T) {
	var seen string
	h := httpx.LocaleMiddleware("ar")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = httpx.LocaleFromContext(r.Context())
	}))

	rec := serve(h, "/en/messages")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "en", seen)

	rec = serve(h, "/")
	require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	require.Equal(t, "/ar", rec.Header().Get("Location"))

	req := httptest.NewRequest(http.MethodGet, "/pricing?x=1", nil)
	req.Header.Set("Accept-Language", "en")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, "/en/pricing?x=1", rec.Header().Get("Location"))

	rec = serve(h, "/api/v1/plans")
	require.Equal(t, http.StatusOK, rec.Code)
}
