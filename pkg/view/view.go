package view

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/geo-dev/geo/pkg/vdom"
)

// Page renders a view for one activation of its route.
type Page func(c *Ctx) (*vdom.VNode, error)

// Loader produces the Page of a route. It is called lazily, at most once per
// successful load.
type Loader func(ctx context.Context) (Page, error)

// Of returns a Loader that yields page immediately.
func Of(page Page) Loader {
	return func(context.Context) (Page, error) {
		return page, nil
	}
}

// Linker resolves named routes into hrefs.
type Linker interface {
	Href(name string, params map[string]string) (string, error)
}

// Ctx carries the state of one page render.
type Ctx struct {
	ctx    context.Context
	route  string
	params map[string]string
	query  url.Values
	links  Linker
	logger *slog.Logger

	status int
	title  string
}

// NewCtx creates a render context for the named route.
func NewCtx(ctx context.Context, route string, params map[string]string, query url.Values, links Linker) *Ctx {
	if params == nil {
		params = map[string]string{}
	}
	if query == nil {
		query = url.Values{}
	}
	return &Ctx{
		ctx:    ctx,
		route:  route,
		params: params,
		query:  query,
		links:  links,
		logger: slog.Default().With("component", "view", "route", route),
		status: http.StatusOK,
	}
}

// Context returns the request context.
func (c *Ctx) Context() context.Context { return c.ctx }

// Route returns the name of the route being rendered.
func (c *Ctx) Route() string { return c.route }

// Param returns a path parameter, or "" if it is not set.
func (c *Ctx) Param(name string) string { return c.params[name] }

// Params returns all path parameters.
func (c *Ctx) Params() map[string]string { return c.params }

// Query returns the query parameters.
func (c *Ctx) Query() url.Values { return c.query }

// Logger returns a logger scoped to the route.
func (c *Ctx) Logger() *slog.Logger { return c.logger }

// Href resolves a named route. On failure it logs the error and returns "#",
// so a broken link never fails a whole page.
func (c *Ctx) Href(name string, params map[string]string) string {
	if c.links == nil {
		return "#"
	}
	href, err := c.links.Href(name, params)
	if err != nil {
		c.logger.Warn("unresolvable link", "target", name, "error", err)
		return "#"
	}
	return href
}

// SetStatus sets the HTTP status of the rendered page.
func (c *Ctx) SetStatus(code int) { c.status = code }

// Status returns the HTTP status of the rendered page.
func (c *Ctx) Status() int { return c.status }

// SetTitle overrides the route title for this render.
func (c *Ctx) SetTitle(title string) { c.title = title }

// Title returns the title set during render, if any.
func (c *Ctx) Title() string { return c.title }
