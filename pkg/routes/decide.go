package routes

import "strings"

// Action is the outcome of the edge gate for one navigation.
type Action int

const (
	Allow Action = iota
	RedirectLogin
	RedirectDashboard
)

func (a Action) String() string {
	switch a {
	case RedirectLogin:
		return "redirect_login"
	case RedirectDashboard:
		return "redirect_dashboard"
	default:
		return "allow"
	}
}

// Decision is what the gate should do with a request.
type Decision struct {
	Action Action

	// Locale is the detected locale prefix, empty if the path had none.
	Locale string

	// Path is the locale-stripped path the decision was made on.
	Path string

	// Target is the unlocalized redirect target; empty for Allow.
	Target string

	// Location is Target under the detected locale, or the default locale
	// when the path had none. Empty for Allow.
	Location string
}

// Decide runs the gate algorithm on a request path given whether a credential
// cookie is present. It is pure so it can be exercised without HTTP.
func Decide(path string, hasCredential bool) Decision {
	locale, rest := SplitLocale(path)
	d := Decision{Action: Allow, Locale: locale, Path: rest}

	switch {
	case IsProtected(rest) && !hasCredential:
		d.Action = RedirectLogin
		d.Target = LoginPath
		d.Location = Localize(locale, LoginPath)
	case IsAuthOnly(rest) && hasCredential:
		d.Action = RedirectDashboard
		d.Target = DashboardPath
		d.Location = Localize(locale, DashboardPath)
	}
	return d
}

// Bypass reports whether path is outside the gate entirely: backend proxy,
// API docs assets, health probes and anything that looks like a static file.
func Bypass(path string) bool {
	switch {
	case path == "/api" || strings.HasPrefix(path, "/api/"):
		return true
	case strings.HasPrefix(path, "/swagger/"):
		return true
	case path == "/livez" || path == "/readyz":
		return true
	}
	last := path[strings.LastIndex(path, "/")+1:]
	return strings.Contains(last, ".")
}
