package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	httpapi "github.com/nabdaotp/dashboard/internal/dashboard/http"
	"github.com/nabdaotp/dashboard/pkg/httpx"
	"github.com/nabdaotp/dashboard/pkg/idx"
	"github.com/nabdaotp/dashboard/pkg/slogx"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	path      string
	query     string
	requestID string
	forwarded string
	auth      string
}

func newRouter(t *testing.T, backend http.Handler) (*httpapi.Router, chan recorded) {
	t.Helper()

	seen := make(chan recorded, 16)
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen <- recorded{
			path:      r.URL.Path,
			query:     r.URL.RawQuery,
			requestID: r.Header.Get(idx.HeaderRequestID),
			forwarded: r.Header.Get("X-Forwarded-For"),
			auth:      r.Header.Get("Authorization"),
		}
		backend.ServeHTTP(w, r)
	}))
	t.Cleanup(api.Close)

	u, err := url.Parse(api.URL)
	require.NoError(t, err)

	router := httpapi.NewRouter(u, "test", slogx.Discard())
	return router, seen
}

func get(h http.Handler, method, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for _, c := range cookies {
		if c != nil {
			req.AddCookie(c)
		}
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

var signedIn = &http.Cookie{Name: "nadba-token", Value: "opaque-token"}

func TestPages(t *testing.T) {
	router, _ := newRouter(t, http.NotFoundHandler())
	router.ApplyRoutes()

	tests := []struct {
		name     string
		path     string
		cookie   *http.Cookie
		status   int
		location string
		contains []string
	}{
		{"root negotiates locale", "/", nil, http.StatusTemporaryRedirect, "/ar", nil},
		{"locale root goes to dashboard", "/en", signedIn, http.StatusTemporaryRedirect, "/en/dashboard", nil},
		{"locale root with slash", "/en/", signedIn, http.StatusTemporaryRedirect, "/en/dashboard", nil},
		{"gate runs before page", "/en/messages", nil, http.StatusTemporaryRedirect, "/en/login", nil},
		{"unprefixed protected goes to login", "/billing", nil, http.StatusTemporaryRedirect, "/ar/login", nil},
		{"unprefixed page gets a locale", "/login", nil, http.StatusTemporaryRedirect, "/ar/login", nil},
		{"unprefixed signed in goes to dashboard", "/signup", signedIn, http.StatusTemporaryRedirect, "/ar/dashboard", nil},
		{"english shell", "/en/messages", signedIn, http.StatusOK, "", []string{`lang="en"`, `dir="ltr"`, "Messages"}},
		{"arabic shell is rtl", "/ar/settings", signedIn, http.StatusOK, "", []string{`lang="ar"`, `dir="rtl"`}},
		{"nested billing page", "/en/billing/success", signedIn, http.StatusOK, "", []string{"Payment successful"}},
		{"login renders anonymous", "/en/login", nil, http.StatusOK, "", []string{"Sign in"}},
		{"signed in skips login", "/en/login", signedIn, http.StatusTemporaryRedirect, "/en/dashboard", nil},
		{"unknown page", "/en/nope", nil, http.StatusNotFound, "", []string{"Page not found", `href="/en/dashboard"`}},
		{"unknown locale is treated as a page", "/fr/dashboard", nil, http.StatusTemporaryRedirect, "/ar/fr/dashboard", nil},
		{"page under the default locale", "/ar/fr/dashboard", nil, http.StatusNotFound, "", []string{`lang="ar"`, `dir="rtl"`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(router, http.MethodGet, tt.path, tt.cookie)
			require.Equal(t, tt.status, rec.Code)
			require.Equal(t, tt.location, rec.Header().Get("Location"))
			for _, s := range tt.contains {
				require.Contains(t, rec.Body.String(), s)
			}
			require.NotEmpty(t, rec.Header().Get(idx.HeaderRequestID))
		})
	}
}

func TestPagesAreNotCached(t *testing.T) {
	router, _ := newRouter(t, http.NotFoundHandler())
	router.ApplyRoutes()

	rec := get(router, http.MethodGet, "/en/dashboard", signedIn)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	require.Contains(t, rec.Header().Get("Content-Type"), "text/html")
}

func TestPagesRejectWrites(t *testing.T) {
	router, _ := newRouter(t, http.NotFoundHandler())
	router.ApplyRoutes()

	rec := get(router, http.MethodPost, "/en/dashboard", signedIn)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	head := get(router, http.MethodHead, "/en/dashboard", signedIn)
	require.Equal(t, http.StatusOK, head.Code)
	require.Empty(t, head.Body.String())
}

func TestGateExpiredCookie(t *testing.T) {
	// header.{"exp":1}.sig; the signature is never checked.
	expired := &http.Cookie{Name: "nadba-token", Value: "eyJhbGciOiJIUzI1NiJ9.eyJleHAiOjF9.c2ln"}

	t.Run("trusted by default", func(t *testing.T) {
		router, _ := newRouter(t, http.NotFoundHandler())
		router.ApplyRoutes()

		require.Equal(t, http.StatusOK, get(router, http.MethodGet, "/en/dashboard", expired).Code)

		rec := get(router, http.MethodGet, "/en/login", expired)
		require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
		require.Equal(t, "/en/dashboard", rec.Header().Get("Location"))
	})

	t.Run("expiry check enabled", func(t *testing.T) {
		router, _ := newRouter(t, http.NotFoundHandler())
		router.Gate.CheckExpiry = true
		router.ApplyRoutes()

		rec := get(router, http.MethodGet, "/en/dashboard", expired)
		require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
		require.Equal(t, "/en/login", rec.Header().Get("Location"))
	})
}

func TestProxyForwardsAPI(t *testing.T) {
	router, seen := newRouter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"success":true,"data":{"id":"u1"}}`)
	}))
	router.ApplyRoutes()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me?x=1", nil)
	req.Header.Set("Authorization", "Bearer T")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"success":true,"data":{"id":"u1"}}`, rec.Body.String())

	got := <-seen
	require.Equal(t, "/api/v1/users/me", got.path)
	require.Equal(t, "x=1", got.query)
	require.Equal(t, "Bearer T", got.auth)
	require.NotEmpty(t, got.forwarded)
	require.Equal(t, rec.Header().Get(idx.HeaderRequestID), got.requestID)
}

func TestProxyIgnoresGate(t *testing.T) {
	router, seen := newRouter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	router.ApplyRoutes()

	rec := get(router, http.MethodGet, "/api/v1/messages")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Empty(t, rec.Header().Get("Location"))
	require.Equal(t, "/api/v1/messages", (<-seen).path)
}

func TestProxyBackendDown(t *testing.T) {
	u, err := url.Parse("http://127.0.0.1:1")
	require.NoError(t, err)

	router := httpapi.NewRouter(u, "test", slogx.Discard())
	router.ApplyRoutes()

	rec := get(router, http.MethodGet, "/api/v1/users/me")
	require.Equal(t, http.StatusBadGateway, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, false, body["success"])
	require.Equal(t, "Backend unavailable", body["message"])
}

func TestAuthEndpointsRateLimited(t *testing.T) {
	router, _ := newRouter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	router.AuthLimit = httpx.RateLimitConfig{RequestsPerWindow: 2, Window: time.Minute, Burst: 2}
	router.ApplyRoutes()

	for range 2 {
		rec := get(router, http.MethodPost, "/api/v1/auth/login")
		require.Equal(t, http.StatusBadRequest, rec.Code)
	}

	rec := get(router, http.MethodPost, "/api/v1/auth/login")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))

	// Other API calls use their own budget.
	rec = get(router, http.MethodGet, "/api/v1/users/me")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth(t *testing.T) {
	router, _ := newRouter(t, http.NotFoundHandler())
	router.ApplyRoutes()

	rec := get(router, http.MethodGet, "/livez")
	require.Equal(t, http.StatusOK, rec.Code)

	var live httpapi.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &live))
	require.Equal(t, "ok", live.Status)
	require.Equal(t, "test", live.Version)
	require.Nil(t, live.Checks)

	rec = get(router, http.MethodGet, "/readyz")
	require.Equal(t, http.StatusOK, rec.Code)

	var ready httpapi.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ready))
	require.Equal(t, "ok", ready.Status)
	require.Equal(t, "ok", ready.Checks.Backend)
}

func TestReadyzBackendDown(t *testing.T) {
	u, err := url.Parse("http://127.0.0.1:1")
	require.NoError(t, err)

	router := httpapi.NewRouter(u, "test", slogx.Discard())
	router.ApplyRoutes()

	rec := get(router, http.MethodGet, "/readyz")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var ready httpapi.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ready))
	require.Equal(t, "degraded", ready.Status)
	require.True(t, strings.HasPrefix(ready.Checks.Backend, "error: "))
}

func TestSwaggerDocs(t *testing.T) {
	router, _ := newRouter(t, http.NotFoundHandler())
	router.ApplyRoutes()

	rec := get(router, http.MethodGet, "/swagger/doc.json")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "/messages/send")
}
