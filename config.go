package geo

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"

	"github.com/geo-dev/geo/pkg/middleware"
	"github.com/geo-dev/geo/pkg/router"
	"github.com/geo-dev/geo/pkg/server"
	"github.com/geo-dev/geo/pkg/vdom"
	"github.com/geo-dev/geo/pkg/view"
)

// Config configures an App.
type Config struct {
	// Title is appended to every page title. Default: "GEO".
	Title string

	// API is mounted at "api/" under the base path. May be nil.
	API http.Handler

	// Chrome wraps every page body (navigation, footer). May be nil.
	Chrome func(table *router.Table, current string) func(outlet *vdom.VNode) *vdom.VNode

	// NotFound renders paths no route matches. Default: a bare 404 page.
	NotFound func(table *router.Table, path string) view.Page

	// Failure renders views that fail to load or render.
	Failure func(err error) view.Page

	// StyleSheets are linked in every page after the console stylesheet.
	StyleSheets []string

	// Static configures static file serving.
	Static StaticConfig

	// Live configures live navigation connections.
	Live server.LiveConfig

	// Security configures the live endpoint origin check.
	Security SecurityConfig

	// Metrics records request and navigation metrics. Nil disables the
	// metrics middleware and the /metrics endpoint.
	Metrics *middleware.Metrics

	// MetricsGatherer backs /metrics. Default: prometheus.DefaultGatherer.
	MetricsGatherer prometheus.Gatherer

	// TracerProvider creates request spans. Default: the global provider.
	TracerProvider trace.TracerProvider

	// DevMode enables pretty HTML output and disables asset caching.
	DevMode bool

	// Logger is the structured logger for the application.
	// If nil, slog.Default() is used.
	Logger *slog.Logger
}

// StaticConfig configures static file serving.
type StaticConfig struct {
	// Dir is the directory containing static files (e.g., "public").
	Dir string

	// Prefix is the URL path prefix for static files, relative to the base
	// path. Default: "/static/".
	Prefix string

	// CacheControl determines caching behavior for static files.
	// Default: CacheControlNone (no caching headers).
	CacheControl CacheControlStrategy

	// Headers are custom headers to add to all static file responses.
	Headers map[string]string
}

// SecurityConfig configures the origin check of the live endpoint.
type SecurityConfig struct {
	// AllowedOrigins lists origins allowed to open live connections.
	// Example: []string{"https://geo.example.com"}
	AllowedOrigins []string

	// AllowSameOrigin accepts connections whose Origin matches the Host
	// header when AllowedOrigins is empty. Default: true.
	AllowSameOrigin bool
}

// CacheControlStrategy determines caching behavior for static files.
type CacheControlStrategy int

const (
	// CacheControlNone adds no caching headers.
	// Use in development for instant updates.
	CacheControlNone CacheControlStrategy = iota

	// CacheControlProduction uses appropriate caching:
	// - Fingerprinted files (*.abc123.css): immutable, 1 year max-age
	// - Other files: short cache with revalidation
	CacheControlProduction
)

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Title:    "GEO",
		Static:   DefaultStaticConfig(),
		Live:     server.DefaultLiveConfig(),
		Security: SecurityConfig{AllowSameOrigin: true},
	}
}

// DefaultStaticConfig returns a StaticConfig with sensible defaults.
func DefaultStaticConfig() StaticConfig {
	return StaticConfig{
		Prefix:       "/static/",
		CacheControl: CacheControlNone,
	}
}

// buildLiveConfig applies the security settings to the live configuration.
func buildLiveConfig(cfg Config) server.LiveConfig {
	live := cfg.Live
	if live.ReadTimeout == 0 {
		live = server.DefaultLiveConfig()
	}
	switch {
	case cfg.DevMode:
		live.CheckOrigin = func(*http.Request) bool { return true }
	case len(cfg.Security.AllowedOrigins) > 0:
		origins := make(map[string]bool, len(cfg.Security.AllowedOrigins))
		for _, o := range cfg.Security.AllowedOrigins {
			origins[o] = true
		}
		live.CheckOrigin = func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true // non-browser client
			}
			return origins[origin]
		}
	case cfg.Security.AllowSameOrigin:
		live.CheckOrigin = sameOriginCheck
	}
	return live
}

func sameOriginCheck(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return u.Host == r.Host
}
