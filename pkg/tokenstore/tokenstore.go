// Package tokenstore is the single owner of the dashboard credential and the
// selected tenant instance.
//
// The credential lives in two places: durable storage, which survives process
// restarts and is what the client reads, and a cookie projection, which only
// the edge gate ever reads. Both are written here and nowhere else.
package tokenstore

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/nabdaotp/dashboard/pkg/slogx"
)

const (
	// CookieName is the name of the cookie the edge gate inspects.
	CookieName = "nadba-token"

	// CookiePath ensures the cookie is sent with every dashboard page.
	CookiePath = "/"

	// CookieMaxAge is the cookie lifetime (7 days = 604800 seconds).
	CookieMaxAge = 7 * 24 * 60 * 60

	// TokenKey and InstanceKey are the durable storage keys.
	TokenKey    = "nadba-token"
	InstanceKey = "nadba-instance"
)

// Storage is a durable key/value store. Implementations return ok=false for
// missing keys rather than an error.
type Storage interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// CookieSink receives the cookie projection of the credential.
type CookieSink interface {
	SetCookie(c *http.Cookie)
}

// Store persists the credential and selected instance. Every method is best
// effort: storage failures are logged and read as "no credential", never
// returned.
type Store struct {
	storage Storage
	cookies CookieSink
	logger  *slog.Logger
}

type Option func(*Store)

// WithLogger overrides the logger used when the context carries none.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// New builds a Store. A nil storage behaves like an environment without
// durable storage: nothing is ever loaded. A nil cookie sink skips the
// projection.
func New(storage Storage, cookies CookieSink, opts ...Option) *Store {
	s := &Store{storage: storage, cookies: cookies}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewCookie builds the credential cookie.
func NewCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     CookiePath,
		MaxAge:   CookieMaxAge,
		SameSite: http.SameSiteLaxMode,
	}
}

// ExpiredCookie builds a cookie that removes the credential cookie
// immediately (Max-Age=0 on the wire).
func ExpiredCookie() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     CookiePath,
		MaxAge:   -1,
		SameSite: http.SameSiteLaxMode,
	}
}

func (s *Store) log(ctx context.Context) *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return slogx.FromContext(ctx)
}

// Save writes token to durable storage and projects it into the cookie.
func (s *Store) Save(ctx context.Context, token string) {
	if s.storage != nil {
		if err := s.storage.Set(ctx, TokenKey, token); err != nil {
			s.log(ctx).Warn("token store: failed to persist credential", "err", err)
		}
	}
	s.MirrorCookie(token)
}

// MirrorCookie projects an already stored credential into the cookie.
func (s *Store) MirrorCookie(token string) {
	if s.cookies == nil || token == "" {
		return
	}
	s.cookies.SetCookie(NewCookie(token))
}

// Load reads the credential from durable storage. The cookie is never read.
func (s *Store) Load(ctx context.Context) string {
	return s.get(ctx, TokenKey)
}

// SelectedInstance reads the persisted tenant instance id.
func (s *Store) SelectedInstance(ctx context.Context) string {
	return s.get(ctx, InstanceKey)
}

// SelectInstance persists a tenant instance id. The cookie is untouched.
func (s *Store) SelectInstance(ctx context.Context, id string) {
	if s.storage == nil {
		return
	}
	if err := s.storage.Set(ctx, InstanceKey, id); err != nil {
		s.log(ctx).Warn("token store: failed to persist instance", "err", err)
	}
}

// Clear removes the credential and selected instance and expires the cookie.
func (s *Store) Clear(ctx context.Context) {
	if s.storage != nil {
		if err := s.storage.Delete(ctx, TokenKey, InstanceKey); err != nil {
			s.log(ctx).Warn("token store: failed to clear credential", "err", err)
		}
	}
	if s.cookies != nil {
		s.cookies.SetCookie(ExpiredCookie())
	}
}

func (s *Store) get(ctx context.Context, key string) string {
	if s.storage == nil {
		return ""
	}
	v, ok, err := s.storage.Get(ctx, key)
	if err != nil {
		s.log(ctx).Warn("token store: read failed, treating as empty", "key", key, "err", err)
		return ""
	}
	if !ok {
		return ""
	}
	return v
}
