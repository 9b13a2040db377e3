package http

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/nabdaotp/dashboard/pkg/httpx"
)

// HealthResponse is returned by the probe endpoints.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Backend string `json:"backend"`
}

// LivezHandler always reports ok while the process is serving.
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}

// ReadyzHandler reports degraded when the backend cannot be reached. Any HTTP
// response counts as reachable.
func ReadyzHandler(startTime time.Time, version string, backend *url.URL, probe *http.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &HealthChecks{Backend: "ok"}
		status := "ok"
		code := http.StatusOK

		if err := pingBackend(r.Context(), probe, backend); err != nil {
			checks.Backend = "error: " + err.Error()
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, code, HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}

func pingBackend(ctx context.Context, probe *http.Client, backend *url.URL) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, backend.String(), nil)
	if err != nil {
		return err
	}
	resp, err := probe.Do(req)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}
