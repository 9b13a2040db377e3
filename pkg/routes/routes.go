// Package routes is the one place the dashboard's locale and access lists are
// declared. The edge gate and the page router both read from here so the two
// cannot drift apart.
package routes

import (
	"slices"
	"strings"
)

const (
	LocaleArabic  = "ar"
	LocaleEnglish = "en"

	// DefaultLocale is used when a path carries no recognized locale segment.
	DefaultLocale = LocaleArabic

	LoginPath     = "/login"
	DashboardPath = "/dashboard"
)

// Locales lists the supported locale prefixes, default first.
var Locales = []string{LocaleArabic, LocaleEnglish}

// Protected pages need a credential cookie.
var Protected = []string{
	"/dashboard",
	"/instances",
	"/api-docs",
	"/faq",
	"/contact",
	"/messages",
	"/settings",
	"/billing",
}

// AuthOnly pages are pointless once signed in.
var AuthOnly = []string{
	"/login",
	"/signup",
	"/verify-otp",
	"/forgot-password",
	"/reset-password",
}

// IsLocale reports whether s is a supported locale prefix.
func IsLocale(s string) bool {
	return slices.Contains(Locales, s)
}

// IsRTL reports whether locale is written right to left.
func IsRTL(locale string) bool {
	return locale == LocaleArabic
}

// SplitLocale strips a recognized locale prefix from path. When the first
// segment is not a known locale, the path is returned untouched with an empty
// locale.
func SplitLocale(path string) (locale, rest string) {
	segments := strings.SplitN(path, "/", 3)
	if len(segments) < 2 || !IsLocale(segments[1]) {
		return "", path
	}
	if len(segments) == 2 {
		return segments[1], "/"
	}
	return segments[1], "/" + segments[2]
}

// Localize prefixes path with locale, falling back to DefaultLocale.
func Localize(locale, path string) string {
	if !IsLocale(locale) {
		locale = DefaultLocale
	}
	if path == "" || path == "/" {
		return "/" + locale
	}
	return "/" + locale + path
}

// MatchesAny reports whether path equals one of prefixes or lies beneath it.
func MatchesAny(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

// IsProtected reports whether the locale-stripped path needs a credential.
func IsProtected(path string) bool { return MatchesAny(path, Protected) }

// IsAuthOnly reports whether the locale-stripped path is a sign-in flow page.
func IsAuthOnly(path string) bool { return MatchesAny(path, AuthOnly) }
