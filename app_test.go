package geo

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sugawarayuuta/sonnet"

	"github.com/geo-dev/geo/pkg/middleware"
	"github.com/geo-dev/geo/pkg/router"
	"github.com/geo-dev/geo/pkg/vdom"
	"github.com/geo-dev/geo/pkg/view"
)

func textView(s string) view.Loader {
	return view.Of(func(c *view.Ctx) (*vdom.VNode, error) {
		return vdom.Div(vdom.Class("view"), s+c.Param("id")), nil
	})
}

func consoleEntries() []router.Entry {
	return []router.Entry{
		{Path: "/", Name: "home", Title: "Overview", Load: textView("Home")},
		{Path: "/prompts", Name: "prompts", Title: "Prompts", Load: textView("Prompts")},
		{Path: "/articles", Name: "articles", Title: "Articles", Load: textView("Articles")},
		{Path: "/articles/generate", Name: "article-generate", Title: "Generate", Load: textView("ArticleGenerate")},
		{Path: "/articles/edit/:id", Name: "article-edit", Title: "Edit", Load: textView("ArticleEdit ")},
	}
}

func newTestApp(t *testing.T, cfg Config, entries ...router.Entry) *App {
	t.Helper()
	if len(entries) == 0 {
		entries = consoleEntries()
	}
	table, err := router.New(router.NewWebHistory("/console/"), entries...)
	if err != nil {
		t.Fatalf("router.New() error = %v", err)
	}
	return New(cfg, table)
}

func get(app http.Handler, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "http://example.com"+target, nil)
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)
	return rr
}

func TestAppServesDeclaredRoutes(t *testing.T) {
	app := newTestApp(t, Config{})

	tests := []struct {
		path      string
		wantText  string
		wantTitle string
	}{
		{"/console/", "Home", "<title>Overview · GEO</title>"},
		{"/console/prompts", "Prompts", "<title>Prompts · GEO</title>"},
		{"/console/articles", "Articles", "<title>Articles · GEO</title>"},
		{"/console/articles/generate", "ArticleGenerate", "<title>Generate · GEO</title>"},
		{"/console/articles/edit/42", "ArticleEdit 42", "<title>Edit · GEO</title>"},
	}
	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			rr := get(app, http.MethodGet, tc.path)
			if rr.Code != http.StatusOK {
				t.Fatalf("GET %s status = %d, want 200", tc.path, rr.Code)
			}
			body := rr.Body.String()
			if !strings.Contains(body, tc.wantText) || !strings.Contains(body, tc.wantTitle) {
				t.Errorf("GET %s body = %s", tc.path, body)
			}
			if !strings.Contains(body, `id="geo-outlet"`) || !strings.Contains(body, `src="/console/_geo/geo.js"`) {
				t.Error("page shell missing outlet or client script")
			}
			if !strings.Contains(body, `"live":"/console/_geo/live"`) {
				t.Error("boot data missing live endpoint")
			}
		})
	}
}

func TestAppCanonicalRedirects(t *testing.T) {
	app := newTestApp(t, Config{})

	tests := []struct {
		path         string
		wantLocation string
	}{
		{"/console/prompts/", "/console/prompts"},
		{"/console/articles//generate", "/console/articles/generate"},
		{"/console/articles/./generate", "/console/articles/generate"},
		{"/console/articles/edit/../generate", "/console/articles/generate"},
		{"/console/articles/?status=pending", "/console/articles?status=pending"},
		{"/console/articles/edit/", "/console/articles/edit"},
	}
	for _, tc := range tests {
		rr := get(app, http.MethodGet, tc.path)
		if rr.Code != http.StatusPermanentRedirect {
			t.Fatalf("GET %s status = %d, want 308", tc.path, rr.Code)
		}
		if got := rr.Header().Get("Location"); got != tc.wantLocation {
			t.Errorf("GET %s Location = %q, want %q", tc.path, got, tc.wantLocation)
		}
	}
}

func TestAppNotFound(t *testing.T) {
	app := newTestApp(t, Config{
		NotFound: func(table *router.Table, path string) view.Page {
			return func(c *view.Ctx) (*vdom.VNode, error) {
				c.SetStatus(http.StatusNotFound)
				c.SetTitle("Missing")
				return vdom.P("missing " + path + " suggest " + table.SuggestPath(path)), nil
			}
		},
	})

	tests := []struct {
		path string
		want string
	}{
		{"/console/nonexistent", "missing /nonexistent"},
		{"/console/articles/edit", "missing /articles/edit"},
		{"/console/promts", "suggest /prompts"},
		{"/elsewhere", "missing /elsewhere"},
	}
	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			rr := get(app, http.MethodGet, tc.path)
			if rr.Code != http.StatusNotFound {
				t.Fatalf("status = %d, want 404", rr.Code)
			}
			if !strings.Contains(rr.Body.String(), tc.want) {
				t.Errorf("body = %s, want %q", rr.Body.String(), tc.want)
			}
		})
	}
}

func TestAppRequestHandling(t *testing.T) {
	app := newTestApp(t, Config{})

	if rr := get(app, http.MethodGet, "/"); rr.Code != http.StatusFound || rr.Header().Get("Location") != "/console/" {
		t.Errorf("GET / = %d %q", rr.Code, rr.Header().Get("Location"))
	}
	if rr := get(app, http.MethodPost, "/console/prompts"); rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST status = %d, want 405", rr.Code)
	}
	if rr := get(app, http.MethodGet, "/console/../secret"); rr.Code != http.StatusBadRequest {
		t.Errorf("escaping path status = %d, want 400", rr.Code)
	}
	rr := get(app, http.MethodHead, "/console/prompts")
	if rr.Code != http.StatusOK || rr.Body.Len() != 0 {
		t.Errorf("HEAD = %d with %d bytes", rr.Code, rr.Body.Len())
	}
	if id := rr.Header().Get(middleware.RequestIDHeader); id == "" {
		t.Error("missing request id header")
	}
}

func TestAppAssets(t *testing.T) {
	app := newTestApp(t, Config{})

	rr := get(app, http.MethodGet, "/console/_geo/geo.js")
	if rr.Code != http.StatusOK || !strings.HasPrefix(rr.Header().Get("Content-Type"), "application/javascript") {
		t.Errorf("geo.js = %d %q", rr.Code, rr.Header().Get("Content-Type"))
	}
	rr = get(app, http.MethodGet, "/console/_geo/geo.css")
	if rr.Code != http.StatusOK || !strings.HasPrefix(rr.Header().Get("Content-Type"), "text/css") {
		t.Errorf("geo.css = %d %q", rr.Code, rr.Header().Get("Content-Type"))
	}
}

func TestAppStaticFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "logo.svg"), []byte("<svg/>"), 0o644); err != nil {
		t.Fatal(err)
	}
	app := newTestApp(t, Config{Static: StaticConfig{Dir: dir, CacheControl: CacheControlProduction}})

	rr := get(app, http.MethodGet, "/console/static/logo.svg")
	if rr.Code != http.StatusOK || rr.Body.String() != "<svg/>" {
		t.Fatalf("static = %d %q", rr.Code, rr.Body.String())
	}
	if got := rr.Header().Get("Cache-Control"); got != "public, max-age=3600, must-revalidate" {
		t.Errorf("Cache-Control = %q", got)
	}
	if rr := get(app, http.MethodGet, "/console/static/missing.svg"); rr.Code != http.StatusNotFound {
		t.Errorf("missing static = %d, want 404", rr.Code)
	}
}

func TestAppMountsAPI(t *testing.T) {
	api := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "api:"+r.URL.Path)
	})
	app := newTestApp(t, Config{API: api})

	rr := get(app, http.MethodGet, "/console/api/health")
	if rr.Code != http.StatusOK || !strings.HasPrefix(rr.Body.String(), "api:") {
		t.Errorf("api = %d %q", rr.Code, rr.Body.String())
	}
}

func TestAppHealth(t *testing.T) {
	for _, base := range []string{"/", "/console/"} {
		table := router.MustNew(router.NewWebHistory(base), consoleEntries()...)
		app := New(Config{}, table)

		rr := get(app, http.MethodGet, "/health")
		if rr.Code != http.StatusOK {
			t.Fatalf("base %s: GET /health status = %d, want 200", base, rr.Code)
		}
		if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
			t.Errorf("base %s: Content-Type = %q", base, ct)
		}
		if got := strings.TrimSpace(rr.Body.String()); got != `{"status":"ok"}` {
			t.Errorf("base %s: body = %q", base, got)
		}
	}
}

func TestAppMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := middleware.NewMetrics(middleware.WithRegistry(reg))
	app := newTestApp(t, Config{Metrics: metrics, MetricsGatherer: reg})

	get(app, http.MethodGet, "/console/prompts")
	get(app, http.MethodGet, "/console/nonexistent")

	rr := get(app, http.MethodGet, "/console/metrics")
	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{
		`geo_http_requests_total{code="200",method="GET",route="prompts"} 1`,
		`geo_http_requests_total{code="404",method="GET",route="not_found"} 1`,
		`geo_view_loads_total{route="prompts",status="success"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %s", want)
		}
	}
}

func TestAppViewFailure(t *testing.T) {
	var calls atomic.Int32
	entries := []router.Entry{
		{Path: "/", Name: "home", Load: func(context.Context) (view.Page, error) {
			if calls.Add(1) == 1 {
				return nil, errors.New("warming up")
			}
			return func(*view.Ctx) (*vdom.VNode, error) { return vdom.Text("ready"), nil }, nil
		}},
		{Path: "/broken", Name: "broken", Load: view.Of(func(*view.Ctx) (*vdom.VNode, error) {
			return nil, errors.New("render exploded")
		})},
	}
	app := newTestApp(t, Config{}, entries...)

	if rr := get(app, http.MethodGet, "/console/"); rr.Code != http.StatusInternalServerError {
		t.Errorf("first load = %d, want 500", rr.Code)
	}
	if rr := get(app, http.MethodGet, "/console/"); rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "ready") {
		t.Errorf("retry = %d %s", rr.Code, rr.Body.String())
	}
	rr := get(app, http.MethodGet, "/console/broken")
	if rr.Code != http.StatusInternalServerError || !strings.Contains(rr.Body.String(), "render exploded") {
		t.Errorf("broken = %d %s", rr.Code, rr.Body.String())
	}
}

func TestAppLiveNavigation(t *testing.T) {
	app := newTestApp(t, Config{})
	srv := httptest.NewServer(app)
	defer srv.Close()
	defer app.Shutdown()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/console/_geo/live", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	type message struct {
		Type   string            `json:"type"`
		Seq    uint64            `json:"seq"`
		Name   string            `json:"name"`
		Params map[string]string `json:"params"`
		Href   string            `json:"href"`
		Title  string            `json:"title"`
		HTML   string            `json:"html"`
		Status int               `json:"status"`
	}
	roundTrip := func(req string) message {
		t.Helper()
		if err := conn.WriteMessage(websocket.TextMessage, []byte(req)); err != nil {
			t.Fatalf("write: %v", err)
		}
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		var m message
		if err := sonnet.Unmarshal(data, &m); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return m
	}

	m := roundTrip(`{"type":"navigate","seq":1,"href":"/console/articles/edit/7"}`)
	if m.Type != "page" || m.Name != "article-edit" || m.Params["id"] != "7" {
		t.Fatalf("page = %+v", m)
	}
	if !strings.Contains(m.HTML, "ArticleEdit 7") || m.Title != "Edit · GEO" || m.Href != "/console/articles/edit/7" {
		t.Errorf("page = %+v", m)
	}
	if strings.Contains(m.HTML, "<html") {
		t.Error("live page carries the document shell")
	}

	m = roundTrip(`{"type":"navigate","seq":2,"href":"/console/nonexistent"}`)
	if m.Type != "error" || m.Status != http.StatusNotFound || !strings.Contains(m.HTML, "Page not found") {
		t.Errorf("not found = %+v", m)
	}

	m = roundTrip(`{"type":"navigate","seq":3,"name":"article-edit"}`)
	if m.Type != "error" || m.Status != http.StatusInternalServerError {
		t.Errorf("missing param = %+v", m)
	}
}

func TestSameOriginCheck(t *testing.T) {
	tests := []struct {
		origin string
		want   bool
	}{
		{"", true},
		{"http://example.com", true},
		{"https://evil.example", false},
		{"::bad", false},
	}
	for _, tc := range tests {
		req := httptest.NewRequest(http.MethodGet, "http://example.com/console/_geo/live", nil)
		if tc.origin != "" {
			req.Header.Set("Origin", tc.origin)
		}
		if got := sameOriginCheck(req); got != tc.want {
			t.Errorf("sameOriginCheck(%q) = %v, want %v", tc.origin, got, tc.want)
		}
	}
}
