package httpx

import (
	"net/http"
	"time"

	"github.com/nabdaotp/dashboard/pkg/jwtx"
	"github.com/nabdaotp/dashboard/pkg/routes"
	"github.com/nabdaotp/dashboard/pkg/slogx"
	"github.com/nabdaotp/dashboard/pkg/tokenstore"
)

// GateConfig configures AccessGate.
type GateConfig struct {
	// CookieName is the credential cookie. Defaults to tokenstore.CookieName.
	CookieName string

	// CheckExpiry treats a cookie holding a JWT whose exp has passed as
	// absent. Opaque tokens are never considered expired. Off by default:
	// the gate trusts the cookie and leaves expiry to the backend.
	CheckExpiry bool

	// Now is the clock used for CheckExpiry. Defaults to time.Now.
	Now func() time.Time
}

// DefaultGateConfig returns the configuration the dashboard runs with.
func DefaultGateConfig() GateConfig {
	return GateConfig{
		CookieName: tokenstore.CookieName,
		Now:        time.Now,
	}
}

// AccessGate redirects navigations before any page renders: protected pages
// without a credential cookie go to login, sign-in pages with one go to the
// dashboard. It only looks at the cookie; the backend still authorizes every
// API call.
func AccessGate(cfg GateConfig) Middleware {
	if cfg.CookieName == "" {
		cfg.CookieName = tokenstore.CookieName
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if routes.Bypass(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			d := routes.Decide(r.URL.Path, hasCredential(r, cfg))
			if d.Action == routes.Allow {
				next.ServeHTTP(w, r)
				return
			}

			// Paths without a locale segment redirect under the default
			// locale; negotiation is LocaleMiddleware's job.
			slogx.FromContext(r.Context()).Debug("access gate redirect",
				"action", d.Action.String(),
				"location", d.Location,
			)
			Redirect(w, r, d.Location)
		})
	}
}

func hasCredential(r *http.Request, cfg GateConfig) bool {
	c, err := r.Cookie(cfg.CookieName)
	if err != nil || c.Value == "" {
		return false
	}
	if cfg.CheckExpiry && jwtx.Expired(c.Value, cfg.Now()) {
		return false
	}
	return true
}
