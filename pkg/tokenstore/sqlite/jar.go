package sqlite

import (
	"context"
	"database/sql"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var _ http.CookieJar = (*Jar)(nil)

// Jar is an http.CookieJar backed by the state file. It keeps the dashboard
// cookie projection alive between invocations of a command line client.
type Jar struct {
	s *Store
}

// Jar returns a cookie jar sharing the store's database.
func (s *Store) Jar() *Jar {
	return &Jar{s: s}
}

func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	ctx := context.Background()
	now := j.s.now()

	for _, c := range cookies {
		if c == nil || c.Name == "" {
			continue
		}

		domain, hostOnly := cookieDomain(u, c)
		path := c.Path
		if path == "" || !strings.HasPrefix(path, "/") {
			path = defaultPath(u)
		}

		if c.MaxAge < 0 || (!c.Expires.IsZero() && !c.Expires.After(now) && c.MaxAge == 0) {
			if _, err := j.s.db.ExecContext(ctx,
				`DELETE FROM cookies WHERE domain = ? AND path = ? AND name = ?`,
				domain, path, c.Name,
			); err != nil {
				j.s.logger.Warn("cookie jar: failed to delete cookie", "name", c.Name, "err", err)
			}
			continue
		}

		var expiresAt sql.NullInt64
		switch {
		case c.MaxAge > 0:
			expiresAt = sql.NullInt64{Int64: now.Add(time.Duration(c.MaxAge) * time.Second).Unix(), Valid: true}
		case !c.Expires.IsZero():
			expiresAt = sql.NullInt64{Int64: c.Expires.Unix(), Valid: true}
		}

		value, err := j.s.seal(c.Value)
		if err != nil {
			j.s.logger.Warn("cookie jar: failed to seal cookie", "name", c.Name, "err", err)
			continue
		}

		if _, err := j.s.db.ExecContext(ctx,
			`INSERT INTO cookies (domain, path, name, value, secure, http_only, host_only, same_site, expires_at, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT (domain, path, name) DO UPDATE SET
			   value = excluded.value,
			   secure = excluded.secure,
			   http_only = excluded.http_only,
			   host_only = excluded.host_only,
			   same_site = excluded.same_site,
			   expires_at = excluded.expires_at`,
			domain, path, c.Name, value, c.Secure, c.HttpOnly, hostOnly, int(c.SameSite), expiresAt, now.Unix(),
		); err != nil {
			j.s.logger.Warn("cookie jar: failed to store cookie", "name", c.Name, "err", err)
		}
	}
}

func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	ctx := context.Background()
	now := j.s.now().Unix()
	host := canonicalHost(u)
	secure := u.Scheme == "https"

	requestPath := u.EscapedPath()
	if requestPath == "" {
		requestPath = "/"
	}

	rows, err := j.s.db.QueryContext(ctx,
		`SELECT domain, path, name, value, secure, host_only
		 FROM cookies
		 WHERE expires_at IS NULL OR expires_at > ?
		 ORDER BY length(path) DESC, created_at ASC`,
		now,
	)
	if err != nil {
		j.s.logger.Warn("cookie jar: failed to read cookies", "err", err)
		return nil
	}
	defer rows.Close()

	var out []*http.Cookie
	for rows.Next() {
		var (
			domain, path, name, stored string
			isSecure, hostOnly         bool
		)
		if err := rows.Scan(&domain, &path, &name, &stored, &isSecure, &hostOnly); err != nil {
			j.s.logger.Warn("cookie jar: failed to scan cookie", "err", err)
			return nil
		}
		if !domainMatch(host, domain, hostOnly) || !pathMatch(requestPath, path) {
			continue
		}
		if isSecure && !secure {
			continue
		}

		value, err := j.s.open(stored)
		if err != nil {
			j.s.logger.Warn("cookie jar: unreadable cookie, skipping", "name", name, "err", err)
			continue
		}
		out = append(out, &http.Cookie{Name: name, Value: value})
	}
	return out
}

// Purge removes expired cookies.
func (j *Jar) Purge(ctx context.Context) (int64, error) {
	res, err := j.s.db.ExecContext(ctx,
		`DELETE FROM cookies WHERE expires_at IS NOT NULL AND expires_at <= ?`, j.s.now().Unix())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func canonicalHost(u *url.URL) string {
	return strings.ToLower(u.Hostname())
}

func cookieDomain(u *url.URL, c *http.Cookie) (domain string, hostOnly bool) {
	host := canonicalHost(u)
	d := strings.ToLower(strings.TrimPrefix(c.Domain, "."))
	if d == "" || !domainMatch(host, d, false) {
		return host, true
	}
	return d, false
}

func domainMatch(host, domain string, hostOnly bool) bool {
	if host == domain {
		return true
	}
	return !hostOnly && strings.HasSuffix(host, "."+domain)
}

func defaultPath(u *url.URL) string {
	p := u.EscapedPath()
	if p == "" || p[0] != '/' {
		return "/"
	}
	i := strings.LastIndex(p, "/")
	if i == 0 {
		return "/"
	}
	return p[:i]
}

func pathMatch(requestPath, cookiePath string) bool {
	if requestPath == cookiePath {
		return true
	}
	if !strings.HasPrefix(requestPath, cookiePath) {
		return false
	}
	return strings.HasSuffix(cookiePath, "/") || requestPath[len(cookiePath)] == '/'
}
