package nabdasdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/nabdaotp/dashboard/pkg/idx"
	"github.com/nabdaotp/dashboard/pkg/slogx"
)

// Do performs one backend call. body is JSON encoded when non-nil; out
// receives the unwrapped payload when non-nil. No retries are attempted.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token := c.tokens.Load(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	reqID := idx.FromContext(ctx)
	if reqID.IsZero() {
		reqID = idx.New()
	}
	req.Header.Set(idx.HeaderRequestID, reqID.String())

	logger := c.log(ctx)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.DebugContext(ctx, "backend request failed",
			"method", method, "path", path, "req_id", reqID.String(), "err", err)
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	logger.DebugContext(ctx, "backend request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
		"req_id", reqID.String(),
	)

	if resp.StatusCode == http.StatusUnauthorized {
		_, _ = io.Copy(io.Discard, resp.Body)
		c.tokens.Clear(ctx)
		logger.InfoContext(ctx, "backend rejected credential, session cleared", "path", path)
		return newUnauthorized()
	}

	raw, err := readJSON(resp)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var obj map[string]any
		if raw != nil {
			// A non-object error body leaves obj nil.
			_ = json.Unmarshal(raw, &obj)
		}
		return newAPIError(resp.StatusCode, obj)
	}

	if raw == nil || out == nil {
		return nil
	}
	if err := json.Unmarshal(unwrapEnvelope(raw), out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Get issues a GET through Do.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST through Do with body JSON encoded.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

// Put issues a PUT through Do with body JSON encoded.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

// Patch issues a PATCH through Do with body JSON encoded.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPatch, path, body, out)
}

// Delete issues a DELETE through Do.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, out)
}

func (c *Client) log(ctx context.Context) *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return slogx.FromContext(ctx)
}

// readJSON returns the raw body when the response declares JSON, nil
// otherwise. An empty JSON body is treated as absent.
func readJSON(resp *http.Response) (json.RawMessage, error) {
	if !strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}
	if !json.Valid(data) {
		if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
			return nil, fmt.Errorf("failed to decode response: invalid JSON body")
		}
		return nil, nil
	}
	return json.RawMessage(data), nil
}

// unwrapEnvelope returns the data member of a {success, data} envelope, or
// raw unchanged for any other shape. The value of success is not consulted.
func unwrapEnvelope(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 || raw[0] != '{' {
		return raw
	}

	var env map[string]json.RawMessage
	if err := json.Unmarshal(raw, &env); err != nil {
		return raw
	}
	_, hasSuccess := env["success"]
	data, hasData := env["data"]
	if !hasSuccess || !hasData {
		return raw
	}
	return data
}
