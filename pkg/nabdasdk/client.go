package nabdasdk

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/nabdaotp/dashboard/pkg/tokenstore"
)

// DefaultBaseURL is the production backend origin.
const DefaultBaseURL = "https://api.nabdaotp.com"

// Client is the HTTP gateway to the Nabda backend. Every backend call goes
// through it: it attaches the stored credential, unwraps success envelopes
// and turns failures into typed errors. A 401 clears the token store before
// the error is returned.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     *tokenstore.Store
	logger     *slog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger used for request tracing. Without it the logger
// carried on the request context is used.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithTimeout sets the per-request timeout of the underlying HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if c.httpClient == nil {
			c.httpClient = &http.Client{}
		}
		c.httpClient.Timeout = d
	}
}

// NewClient creates a gateway for baseURL. An empty baseURL falls back to
// DefaultBaseURL; a nil token store behaves as one with no durable storage.
func NewClient(baseURL string, tokens *tokenstore.Store, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if tokens == nil {
		tokens = tokenstore.New(nil, nil)
	}

	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		tokens: tokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend origin without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// Tokens returns the token store the client reads credentials from.
func (c *Client) Tokens() *tokenstore.Store { return c.tokens }

func (c *Client) url(path string) string {
	return c.baseURL + path
}
