package http

import (
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/nabdaotp/dashboard/pkg/httpx"
	"github.com/nabdaotp/dashboard/pkg/routes"
	"github.com/nabdaotp/dashboard/pkg/slogx"
	"github.com/nabdaotp/dashboard/pkg/tokenstore"

	_ "github.com/nabdaotp/dashboard/api/otp" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router is the dashboard web server: the access gate and locale resolution
// in front of the page shells, plus the /api proxy to the backend.
type Router struct {
	Mux     *http.ServeMux
	handler http.Handler

	backend      *url.URL
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	// Gate configures the access gate. Defaults to httpx.DefaultGateConfig.
	Gate httpx.GateConfig

	// DefaultLocale is used when negotiation finds nothing better.
	DefaultLocale string

	// AuthLimit and ProxyLimit rate limit the /api proxy.
	AuthLimit  httpx.RateLimitConfig
	ProxyLimit httpx.RateLimitConfig

	// Probe is the client used by the readiness check.
	Probe *http.Client

	// Transport is used by the /api proxy. Nil means http.DefaultTransport.
	Transport http.RoundTripper
}

func NewRouter(backend *url.URL, buildVersion string, logger *slog.Logger) *Router {
	return &Router{
		Mux:           http.NewServeMux(),
		backend:       backend,
		buildVersion:  buildVersion,
		startTime:     time.Now(),
		logger:        logger,
		Gate:          httpx.DefaultGateConfig(),
		DefaultLocale: routes.DefaultLocale,
		AuthLimit:     httpx.AuthLimit,
		ProxyLimit:    httpx.ProxyLimit,
		Probe:         &http.Client{Timeout: 3 * time.Second},
	}
}

// ApplyRoutes registers every route and builds the middleware chain. It must
// be called once, after any field overrides.
func (r *Router) ApplyRoutes() {
	r.registerProxy()
	r.registerSystem()
	r.registerPages()

	r.Mux.Handle("/swagger/", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// The gate runs before locale resolution so unprefixed protected paths
	// are redirected to login without an extra hop.
	r.handler = httpx.Chain(r.Mux,
		httpx.Middleware(slogx.HTTPMiddleware(r.logger)),
		httpx.AccessGate(r.Gate),
		httpx.LocaleMiddleware(r.DefaultLocale),
	)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.handler.ServeHTTP(w, req)
}

func (r *Router) registerProxy() {
	proxy := NewBackendProxy(r.backend, r.Transport, r.logger)

	// Sign-in endpoints get a strict per IP limit against credential guessing.
	r.Mux.Handle("/api/v1/auth/",
		httpx.Chain(proxy,
			httpx.RateLimitByIP(r.AuthLimit),
		),
	)

	r.Mux.Handle("/api/",
		httpx.Chain(proxy,
			httpx.RateLimitByCredential(r.ProxyLimit, tokenstore.CookieName),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.backend, r.Probe))
}

func (r *Router) registerPages() {
	pages := &PagesHandler{Logger: r.logger}

	r.Mux.HandleFunc("/{locale}", pages.HandleLocaleRoot)
	r.Mux.HandleFunc("/{locale}/{page...}", pages.HandlePage)
}
