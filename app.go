package geo

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	clientdist "github.com/geo-dev/geo/client/dist"
	"github.com/geo-dev/geo/pkg/middleware"
	"github.com/geo-dev/geo/pkg/render"
	"github.com/geo-dev/geo/pkg/routepath"
	"github.com/geo-dev/geo/pkg/router"
	"github.com/geo-dev/geo/pkg/server"
	"github.com/geo-dev/geo/pkg/vdom"
	"github.com/geo-dev/geo/pkg/view"
)

// Paths of the built-in endpoints, relative to the base path.
const (
	LivePath    = "/_geo/live"
	ScriptPath  = "/_geo/geo.js"
	StylePath   = "/_geo/geo.css"
	APIPath     = "/api"
	MetricsPath = "/metrics"
)

// HealthPath is the liveness endpoint. It is served at the server root,
// outside the base path, so probes need not know the deployment base.
const HealthPath = "/health"

// App serves the console: server-rendered pages for every route table entry,
// live navigation, the JSON API, metrics and static assets, all under the
// base path of the table's history.
//
// Create an App with geo.New:
//
//	table := router.MustNew(router.NewWebHistory("/console/"), views.Routes(deps)...)
//	app := geo.New(cfg, table)
//	http.ListenAndServe(":8080", app)
type App struct {
	table     *router.Table
	navigator *router.Navigator
	renderer  *render.Renderer
	live      *server.LiveHandler
	handler   http.Handler
	base      string

	// Static file serving
	staticDir    string
	staticPrefix string
	staticFS     http.FileSystem

	config Config
	logger *slog.Logger
}

// New creates an application serving table.
func New(cfg Config, table *router.Table) *App {
	defaults := DefaultConfig()
	if cfg.Title == "" {
		cfg.Title = defaults.Title
	}
	if cfg.Static.Prefix == "" {
		cfg.Static.Prefix = defaults.Static.Prefix
	}
	if cfg.NotFound == nil {
		cfg.NotFound = defaultNotFound
	}
	if cfg.Failure == nil {
		cfg.Failure = defaultFailure
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	a := &App{
		table:        table,
		navigator:    router.NewNavigator(table),
		renderer:     render.NewRenderer(render.RendererConfig{Pretty: cfg.DevMode}),
		base:         table.History().Base(),
		staticDir:    cfg.Static.Dir,
		staticPrefix: cfg.Static.Prefix,
		config:       cfg,
		logger:       logger.With("component", "app"),
	}
	if cfg.Static.Dir != "" {
		a.staticFS = http.Dir(cfg.Static.Dir)
	}
	if cfg.Metrics != nil {
		table.Observe(cfg.Metrics)
	}

	liveOpts := []server.LiveOption{
		server.WithLiveConfig(buildLiveConfig(cfg)),
		server.WithLiveLogger(logger),
	}
	if cfg.Metrics != nil {
		liveOpts = append(liveOpts, server.WithLiveObserver(cfg.Metrics))
	}
	a.live = server.NewLiveHandler(a.navigator, a, liveOpts...)
	a.handler = a.routes()
	return a
}

// routes builds the chi router.
func (a *App) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(a.logger))
	var tracing []middleware.OTelOption
	if a.config.TracerProvider != nil {
		tracing = append(tracing, middleware.WithTracerProvider(a.config.TracerProvider))
	}
	tracing = append(tracing, middleware.WithRequestFilter(func(r *http.Request) bool {
		// live sockets would hold a span open for the whole connection
		return !strings.HasSuffix(r.URL.Path, LivePath)
	}))
	r.Use(middleware.Tracing(tracing...))
	if a.config.Metrics != nil {
		r.Use(a.config.Metrics.Handler)
	}
	r.Use(chimw.Recoverer)

	join := func(p string) string { return routepath.JoinBase(a.base, p) }

	r.Get(HealthPath, serveHealth)

	if a.config.Metrics != nil {
		gatherer := a.config.MetricsGatherer
		if gatherer == nil {
			gatherer = prometheus.DefaultGatherer
		}
		r.Handle(join(MetricsPath), promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	if a.config.API != nil {
		r.Mount(join(APIPath), a.config.API)
	}
	r.Get(join(LivePath), a.live.ServeHTTP)
	r.Get(join(ScriptPath), server.ClientHandler(clientdist.GeoJS, a.config.DevMode).ServeHTTP)
	r.Get(join(StylePath), server.AssetHandler(clientdist.GeoCSS, "text/css; charset=utf-8", a.config.DevMode).ServeHTTP)
	if a.staticFS != nil {
		prefix := strings.TrimSuffix(join(a.staticPrefix), "/")
		r.Get(prefix+"/*", a.serveStatic)
		r.Head(prefix+"/*", a.serveStatic)
	}

	r.NotFound(a.servePage)
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	})
	return r
}

func serveHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	io.WriteString(w, `{"status":"ok"}`)
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

// Handler returns the App as an http.Handler.
func (a *App) Handler() http.Handler {
	return a
}

// Table returns the route table.
func (a *App) Table() *router.Table {
	return a.table
}

// Shutdown closes live connections. Register it with the server's shutdown
// hooks.
func (a *App) Shutdown() {
	a.live.Shutdown()
}

// servePage renders the route table entry matching the request path.
func (a *App) servePage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()

	rawPath := r.URL.EscapedPath()
	appPath, ok := routepath.StripBase(a.base, rawPath)
	if !ok && rawPath == "/" {
		http.Redirect(w, r, a.base, http.StatusFound)
		return
	}
	if !ok {
		middleware.SetRoute(ctx, "not_found")
		a.renderView(w, r, "", a.config.NotFound(a.table, rawPath), nil)
		return
	}

	canon, err := routepath.CanonicalizePath(appPath)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if canon.Changed {
		target := routepath.JoinBase(a.base, canon.Path)
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}
		http.Redirect(w, r, target, http.StatusPermanentRedirect)
		return
	}

	location := canon.Path
	if r.URL.RawQuery != "" {
		location += "?" + r.URL.RawQuery
	}
	m, err := a.table.Match(location)
	if err != nil {
		middleware.SetRoute(ctx, "not_found")
		a.renderView(w, r, "", a.config.NotFound(a.table, canon.Path), nil)
		return
	}
	middleware.SetRoute(ctx, m.Entry.Name)

	page, err := m.Page(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		a.logger.Error("view load failed", "route", m.Entry.Name, "error", err)
		a.renderView(w, r, m.Entry.Name, a.config.Failure(err), m)
		return
	}
	a.renderView(w, r, m.Entry.Name, page, m)
}

// renderView renders page inside the page shell. m is nil for pages outside
// the table.
func (a *App) renderView(w http.ResponseWriter, r *http.Request, name string, page view.Page, m *router.Match) {
	vc := a.viewCtx(r.Context(), name, m)
	body, err := page(vc)
	if err != nil {
		a.logger.Error("render failed", "route", name, "path", r.URL.Path, "error", err)
		vc = a.viewCtx(r.Context(), name, m)
		if body, err = a.config.Failure(err)(vc); err != nil {
			http.Error(w, "Render error", http.StatusInternalServerError)
			return
		}
	}

	var buf bytes.Buffer
	href := ""
	if m != nil {
		href = a.table.History().Href(m.Location())
	}
	err = a.renderer.RenderPage(&buf, render.PageData{
		Body:        body,
		Chrome:      a.chrome(name),
		Title:       a.pageTitle(vc, m),
		StyleSheets: append([]string{routepath.JoinBase(a.base, StylePath)}, a.config.StyleSheets...),
		Scripts:     []render.ScriptTag{{Src: routepath.JoinBase(a.base, ScriptPath), Defer: true}},
		Boot: bootData{
			Live:  routepath.JoinBase(a.base, LivePath),
			Mode:  a.table.History().Mode(),
			Base:  a.base,
			Route: name,
			Href:  href,
		},
	})
	if err != nil {
		a.logger.Error("render failed", "route", name, "error", err)
		http.Error(w, "Render error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(vc.Status())
	if r.Method == http.MethodHead {
		return
	}
	w.Write(buf.Bytes())
}

// bootData is handed to the client script.
type bootData struct {
	Live  string `json:"live"`
	Mode  string `json:"mode"`
	Base  string `json:"base"`
	Route string `json:"route,omitempty"`
	Href  string `json:"href,omitempty"`
}

func (a *App) viewCtx(ctx context.Context, name string, m *router.Match) *view.Ctx {
	if m == nil {
		return view.NewCtx(ctx, name, nil, nil, a.table)
	}
	return view.NewCtx(ctx, name, m.Params, m.Query, a.table)
}

func (a *App) chrome(name string) func(*vdom.VNode) *vdom.VNode {
	if a.config.Chrome == nil {
		return nil
	}
	return a.config.Chrome(a.table, name)
}

// pageTitle prefers the title the view set, then the entry title.
func (a *App) pageTitle(vc *view.Ctx, m *router.Match) string {
	title := vc.Title()
	if title == "" && m != nil {
		title = m.Entry.Title
	}
	if title == "" {
		return a.config.Title
	}
	return title + " · " + a.config.Title
}

// RenderNavigation implements server.LiveRenderer.
func (a *App) RenderNavigation(ctx context.Context, nav *router.Navigation) (server.LivePage, error) {
	page, err := nav.Future.Wait(ctx)
	if err != nil {
		return server.LivePage{}, err
	}
	m := nav.Match
	vc := a.viewCtx(ctx, m.Entry.Name, m)
	body, err := page(vc)
	if err != nil {
		return server.LivePage{}, err
	}
	html, err := a.renderer.RenderToString(body)
	if err != nil {
		return server.LivePage{}, err
	}
	return server.LivePage{Title: a.pageTitle(vc, m), HTML: html, Status: vc.Status()}, nil
}

// RenderError implements server.LiveRenderer.
func (a *App) RenderError(ctx context.Context, path string, err error) server.LivePage {
	page := a.config.Failure(err)
	if errors.Is(err, router.ErrNoRoute) {
		page = a.config.NotFound(a.table, path)
	}
	vc := a.viewCtx(ctx, "", nil)
	body, rerr := page(vc)
	if rerr != nil {
		return server.LivePage{Title: a.config.Title, HTML: render.EscapeHTML(err.Error()), Status: http.StatusInternalServerError}
	}
	html, rerr := a.renderer.RenderToString(body)
	if rerr != nil {
		html = render.EscapeHTML(err.Error())
	}
	return server.LivePage{Title: a.pageTitle(vc, nil), HTML: html, Status: vc.Status()}
}

func defaultNotFound(_ *router.Table, path string) view.Page {
	return func(c *view.Ctx) (*vdom.VNode, error) {
		c.SetStatus(http.StatusNotFound)
		c.SetTitle("Page not found")
		return vdom.Section(vdom.H1("Page not found"), vdom.P("Nothing is declared at ", vdom.Code(path), ".")), nil
	}
}

func defaultFailure(err error) view.Page {
	return func(c *view.Ctx) (*vdom.VNode, error) {
		c.SetStatus(http.StatusInternalServerError)
		c.SetTitle("Something went wrong")
		return vdom.Section(vdom.H1("Something went wrong"), vdom.P(err.Error())), nil
	}
}
