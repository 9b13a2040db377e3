package nabdasdk_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/nabdaotp/dashboard/pkg/nabdasdk"
	"github.com/nabdaotp/dashboard/pkg/slogx"
	"github.com/nabdaotp/dashboard/pkg/tokenstore"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

// backend is a fake Nabda API that counts calls per route.
type backend struct {
	srv *httptest.Server
	mux *http.ServeMux

	mu       sync.Mutex
	calls    map[string]int
	requests []recordedRequest
}

func newBackend(t *testing.T) *backend {
	t.Helper()

	b := &backend{
		mux:   http.NewServeMux(),
		calls: make(map[string]int),
	}
	b.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		b.mu.Lock()
		b.calls[r.Method+" "+r.URL.Path]++
		b.requests = append(b.requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Header: r.Header.Clone(),
			Body:   body,
		})
		b.mu.Unlock()

		b.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(b.srv.Close)
	return b
}

func (b *backend) handle(pattern string, h http.HandlerFunc) {
	b.mux.HandleFunc(pattern, h)
}

func (b *backend) count(method, path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[method+" "+path]
}

func (b *backend) last() recordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.requests) == 0 {
		return recordedRequest{}
	}
	return b.requests[len(b.requests)-1]
}

func reply(status int, v any) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(status)
		if v != nil {
			_ = json.NewEncoder(w).Encode(v)
		}
	}
}

func envelope(data any) map[string]any {
	return map[string]any{"success": true, "data": data}
}

var testUser = map[string]any{
	"id":               "u1",
	"name":             "Layla",
	"email":            "layla@example.com",
	"phone":            "+966500000000",
	"twoFactorEnabled": false,
}

type harness struct {
	backend *backend
	storage *tokenstore.MemoryStorage
	cookies *tokenstore.RecordingSink
	store   *tokenstore.Store
	client  *nabdasdk.Client
	session *nabdasdk.Session
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		backend: newBackend(t),
		storage: tokenstore.NewMemoryStorage(),
		cookies: &tokenstore.RecordingSink{},
	}
	h.store = tokenstore.New(h.storage, h.cookies, tokenstore.WithLogger(slogx.Discard()))
	h.client = nabdasdk.NewClient(h.backend.srv.URL, h.store, nabdasdk.WithLogger(slogx.Discard()))
	h.session = nabdasdk.NewSession(h.client)
	return h
}
