package http

import (
	"bytes"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/nabdaotp/dashboard/pkg/httpx"
	"github.com/nabdaotp/dashboard/pkg/routes"
	"github.com/nabdaotp/dashboard/pkg/slogx"
)

// page is one dashboard route. Titles are keyed by locale.
type page struct {
	Path   string
	Titles map[string]string
}

var pages = []page{
	{"/dashboard", map[string]string{"ar": "لوحة التحكم", "en": "Dashboard"}},
	{"/instances", map[string]string{"ar": "الأجهزة", "en": "Instances"}},
	{"/messages", map[string]string{"ar": "الرسائل", "en": "Messages"}},
	{"/api-docs", map[string]string{"ar": "توثيق الواجهة", "en": "API Docs"}},
	{"/billing", map[string]string{"ar": "الفوترة", "en": "Billing"}},
	{"/billing/success", map[string]string{"ar": "تم الدفع", "en": "Payment successful"}},
	{"/billing/cancel", map[string]string{"ar": "تم إلغاء الدفع", "en": "Payment cancelled"}},
	{"/settings", map[string]string{"ar": "الإعدادات", "en": "Settings"}},
	{"/faq", map[string]string{"ar": "الأسئلة الشائعة", "en": "FAQ"}},
	{"/contact", map[string]string{"ar": "تواصل معنا", "en": "Contact"}},
	{"/login", map[string]string{"ar": "تسجيل الدخول", "en": "Sign in"}},
	{"/signup", map[string]string{"ar": "إنشاء حساب", "en": "Sign up"}},
	{"/verify-otp", map[string]string{"ar": "تأكيد البريد", "en": "Verify email"}},
	{"/forgot-password", map[string]string{"ar": "نسيت كلمة المرور", "en": "Forgot password"}},
	{"/reset-password", map[string]string{"ar": "إعادة تعيين كلمة المرور", "en": "Reset password"}},
}

var notFoundTitles = map[string]string{
	"ar": "الصفحة غير موجودة",
	"en": "Page not found",
}

var shell = template.Must(template.New("shell").Parse(`<!DOCTYPE html>
<html lang="{{.Locale}}" dir="{{.Dir}}">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}} | Nabda OTP</title>
</head>
<body>
<main id="app" data-page="{{.Path}}" data-locale="{{.Locale}}">
<h1>{{.Title}}</h1>
{{- if .NotFound}}
<p><a href="/{{.Locale}}/dashboard">{{.Home}}</a></p>
{{- end}}
</main>
</body>
</html>
`))

type shellData struct {
	Locale   string
	Dir      string
	Title    string
	Path     string
	Home     string
	NotFound bool
}

// PagesHandler renders the page shells under /{locale}/...
type PagesHandler struct {
	Logger *slog.Logger
}

// HandleLocaleRoot sends /{locale} to that locale's dashboard.
func (h *PagesHandler) HandleLocaleRoot(w http.ResponseWriter, r *http.Request) {
	locale := r.PathValue("locale")
	if !routes.IsLocale(locale) {
		h.render(w, r, routes.DefaultLocale, r.URL.Path, http.StatusNotFound)
		return
	}
	httpx.Redirect(w, r, routes.Localize(locale, routes.DashboardPath))
}

// HandlePage renders the shell for a known page, or the not-found page.
func (h *PagesHandler) HandlePage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		httpx.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	locale := r.PathValue("locale")
	if !routes.IsLocale(locale) {
		h.render(w, r, routes.DefaultLocale, r.URL.Path, http.StatusNotFound)
		return
	}

	path := "/" + r.PathValue("page")
	if path == "/" {
		httpx.Redirect(w, r, routes.Localize(locale, routes.DashboardPath))
		return
	}

	h.render(w, r, locale, path, http.StatusOK)
}

func (h *PagesHandler) render(w http.ResponseWriter, r *http.Request, locale, path string, code int) {
	data := shellData{
		Locale: locale,
		Dir:    "ltr",
		Path:   path,
		Home:   pageTitle("/dashboard", locale),
	}
	if routes.IsRTL(locale) {
		data.Dir = "rtl"
	}

	title, ok := lookupPage(path, locale)
	if code == http.StatusOK && !ok {
		code = http.StatusNotFound
	}
	if code == http.StatusNotFound {
		data.NotFound = true
		title = notFoundTitles[locale]
	}
	data.Title = title

	var buf bytes.Buffer
	if err := shell.Execute(&buf, data); err != nil {
		slogx.FromContext(r.Context()).Error("render page shell", "path", path, "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	httpx.NoCache(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	if r.Method != http.MethodHead {
		_, _ = w.Write(buf.Bytes())
	}
}

func lookupPage(path, locale string) (string, bool) {
	for _, p := range pages {
		if p.Path == path {
			return p.Titles[locale], true
		}
	}
	return "", false
}

func pageTitle(path, locale string) string {
	title, _ := lookupPage(path, locale)
	return title
}
