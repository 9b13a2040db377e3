package tokenstore

import (
	"net/http"
	"net/url"
	"sync"
)

// JarSink projects the credential cookie into a cookie jar for the dashboard
// origin, so any client sharing the jar presents it to the edge gate.
type JarSink struct {
	Jar http.CookieJar
	URL *url.URL
}

func (j JarSink) SetCookie(c *http.Cookie) {
	j.Jar.SetCookies(j.URL, []*http.Cookie{c})
}

// RecordingSink remembers every cookie it is handed. The latest cookie
// reflects what a browser would currently hold.
type RecordingSink struct {
	mu      sync.Mutex
	cookies []*http.Cookie
}

func (r *RecordingSink) SetCookie(c *http.Cookie) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cookies = append(r.cookies, c)
}

// Last returns the most recent cookie, or nil.
func (r *RecordingSink) Last() *http.Cookie {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.cookies) == 0 {
		return nil
	}
	return r.cookies[len(r.cookies)-1]
}

// Active reports whether the most recent cookie still carries a credential.
func (r *RecordingSink) Active() bool {
	c := r.Last()
	return c != nil && c.Value != "" && c.MaxAge > 0
}
