package views

import (
	"errors"
	"net/http"
	"strings"

	"github.com/geo-dev/geo/pkg/router"
	. "github.com/geo-dev/geo/pkg/vdom"
	"github.com/geo-dev/geo/pkg/view"
)

// NotFound returns the page shown for a path no entry matches. It suggests
// the closest declared path when there is one and otherwise lists the
// parameterless routes.
func NotFound(table *router.Table, path string) view.Page {
	return func(c *view.Ctx) (*VNode, error) {
		c.SetStatus(http.StatusNotFound)
		c.SetTitle("Page not found")

		var suggestion *VNode
		if s := table.SuggestPath(path); s != "" && !strings.Contains(s, ":") {
			suggestion = P(Class("geo-suggestion"),
				"Did you mean ",
				A(Href(table.History().Href(s)), Data("geo-link", ""), s),
				"?",
			)
		}

		var routes []router.Entry
		for _, e := range table.Entries() {
			if !strings.Contains(e.Path, ":") {
				routes = append(routes, e)
			}
		}

		return Section(Class("geo-not-found"),
			H1("Page not found"),
			P("Nothing is declared at ", Code(path), "."),
			suggestion,
			If(suggestion == nil, Ul(Class("geo-route-list"),
				Range(routes, func(e router.Entry, _ int) *VNode {
					return Li(link(c, e.Name, nil, e.Title))
				}),
			)),
		), nil
	}
}

// Failure returns the page shown when a view cannot be loaded or rendered.
func Failure(err error) view.Page {
	return func(c *view.Ctx) (*VNode, error) {
		status := http.StatusInternalServerError
		title := "Something went wrong"
		if errors.Is(err, router.ErrUnknownRoute) || errors.Is(err, router.ErrMissingParam) || errors.Is(err, router.ErrInvalidParam) {
			status = http.StatusBadRequest
			title = "Bad navigation"
		}
		c.SetStatus(status)
		c.SetTitle(title)
		return Section(Class("geo-failure"),
			H1(title),
			errorBox(err),
			P(link(c, "home", nil, "Back to overview")),
		), nil
	}
}
