package slogx_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nabdaotp/dashboard/pkg/idx"
	"github.com/nabdaotp/dashboard/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, slogx.ParseLevel("DEBUG"))
	require.Equal(t, slog.LevelWarn, slogx.ParseLevel("warning"))
	require.Equal(t, slog.LevelError, slogx.ParseLevel("error"))
	require.Equal(t, slog.LevelInfo, slogx.ParseLevel("nonsense"))
}

func TestRedact(t *testing.T) {
	require.Equal(t, "", slogx.Redact("").String())

	v := slogx.Redact("super-secret-token")
	require.True(t, strings.HasPrefix(v.String(), "sha256:"))
	require.NotContains(t, v.String(), "secret")
	require.Equal(t, v.String(), slogx.Redact("super-secret-token").String())
}

func TestHTTPMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	var seen idx.ID
	h := slogx.HTTPMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = idx.FromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	t.Run("mints and echoes a request id", func(t *testing.T) {
		buf.Reset()
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/en/dashboard", nil))

		require.Equal(t, http.StatusTeapot, rec.Code)
		require.False(t, seen.IsZero())
		require.Equal(t, seen.String(), rec.Header().Get(idx.HeaderRequestID))

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		require.Equal(t, "http_request", line["msg"])
		require.Equal(t, float64(http.StatusTeapot), line["status"])
		require.Equal(t, seen.String(), line["req_id"])
	})

	t.Run("keeps a valid inbound request id", func(t *testing.T) {
		id := idx.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(idx.HeaderRequestID, id.String())

		h.ServeHTTP(httptest.NewRecorder(), req)
		require.Equal(t, id, seen)
	})
}
