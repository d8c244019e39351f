package views

import (
	"strings"

	"github.com/geo-dev/geo/pkg/router"
	. "github.com/geo-dev/geo/pkg/vdom"
)

// navRoutes are the entries shown in the navigation bar.
var navRoutes = []string{"home", "prompts", "articles", "article-generate"}

// Chrome returns the page frame around the outlet, with the entry named
// current marked active.
func Chrome(table *router.Table, current string) func(outlet *VNode) *VNode {
	return func(outlet *VNode) *VNode {
		return Div(Class("geo-app"),
			Header(Class("geo-header"),
				Div(Class("geo-brand"), "GEO console"),
				Nav(Class("geo-nav"), AriaLabel("Main"),
					Range(navRoutes, func(name string, _ int) *VNode {
						return navLink(table, name, current)
					}),
				),
			),
			outlet,
			Footer(Class("geo-footer"), "Brand exposure monitor"),
		)
	}
}

func navLink(table *router.Table, name, current string) *VNode {
	e, ok := table.Lookup(name)
	if !ok {
		return nil
	}
	href, err := table.Resolve(name, nil)
	if err != nil {
		return nil
	}
	active := name == current || (name == "articles" && strings.HasPrefix(current, "article-") && current != "article-generate")
	return A(Href(href), Data("geo-link", name), Class("geo-nav-link"),
		If(active, Class("active")),
		If(active, AriaCurrent("page")),
		e.Title,
	)
}
