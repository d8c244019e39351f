// Package views holds the console's route table and the views it loads.
package views

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/geo-dev/geo/internal/highlight"
	"github.com/geo-dev/geo/internal/service"
	"github.com/geo-dev/geo/pkg/router"
	"github.com/geo-dev/geo/pkg/vdom"
	"github.com/geo-dev/geo/pkg/view"
)

// Deps are the services views read from.
type Deps struct {
	Service *service.Service

	// APIBase is the URL prefix of the JSON API forms submit to.
	APIBase string

	// HighlightStyle names the chroma style for analysis reports.
	HighlightStyle string

	Logger *slog.Logger
}

// Routes returns the console's route table entries, in match order.
func Routes(deps Deps) []router.Entry {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.APIBase == "" {
		deps.APIBase = "/api"
	}
	return []router.Entry{
		{Path: "/", Name: "home", Title: "Overview", Load: deps.loadHome},
		{Path: "/prompts", Name: "prompts", Title: "Prompts", Load: view.Of(deps.prompts)},
		{Path: "/articles", Name: "articles", Title: "Articles", Load: view.Of(deps.articles)},
		{Path: "/articles/generate", Name: "article-generate", Title: "Generate article", Load: view.Of(deps.generate)},
		{Path: "/articles/edit/:id", Name: "article-edit", Title: "Edit article", Load: view.Of(deps.edit)},
	}
}

// loadHome builds the report highlighter on first use of the home view.
func (d Deps) loadHome(context.Context) (view.Page, error) {
	h := highlight.New(d.HighlightStyle)
	return func(c *view.Ctx) (*vdom.VNode, error) {
		return d.home(c, h)
	}, nil
}

func (d Deps) api(path string) string {
	return d.APIBase + path
}

func (d Deps) apiID(path string, id int64) string {
	return d.APIBase + path + "/" + strconv.FormatInt(id, 10)
}
