package http

import (
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/nabdaotp/dashboard/pkg/httpx"
	"github.com/nabdaotp/dashboard/pkg/idx"
	"github.com/nabdaotp/dashboard/pkg/slogx"
)

// NewBackendProxy forwards /api/... unchanged to the same path on backend.
func NewBackendProxy(backend *url.URL, transport http.RoundTripper, logger *slog.Logger) http.Handler {
	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(backend)
			pr.SetXForwarded()

			if id := idx.FromContext(pr.In.Context()); !id.IsZero() {
				pr.Out.Header.Set(idx.HeaderRequestID, id.String())
			}
		},
		Transport: transport,
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			slogx.FromContext(r.Context()).Error("backend proxy failed", "err", err)
			httpx.WriteError(w, http.StatusBadGateway, "Backend unavailable")
		},
		ErrorLog: slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}
}
