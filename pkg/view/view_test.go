package view

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"
)

type stubLinker map[string]string

func (s stubLinker) Href(name string, _ map[string]string) (string, error) {
	href, ok := s[name]
	if !ok {
		return "", errors.New("unknown route")
	}
	return href, nil
}

func TestCtxAccessors(t *testing.T) {
	q := url.Values{"tab": {"seo"}}
	c := NewCtx(context.Background(), "article-edit", map[string]string{"id": "42"}, q, stubLinker{"articles": "/articles"})

	if c.Route() != "article-edit" {
		t.Errorf("Route() = %q", c.Route())
	}
	if c.Param("id") != "42" {
		t.Errorf("Param(id) = %q, want 42", c.Param("id"))
	}
	if c.Param("missing") != "" {
		t.Errorf("Param(missing) = %q, want empty", c.Param("missing"))
	}
	if c.Query().Get("tab") != "seo" {
		t.Errorf("Query().Get(tab) = %q", c.Query().Get("tab"))
	}
	if c.Status() != http.StatusOK {
		t.Errorf("Status() = %d, want 200", c.Status())
	}
	c.SetStatus(http.StatusNotFound)
	c.SetTitle("Missing")
	if c.Status() != http.StatusNotFound || c.Title() != "Missing" {
		t.Errorf("Status/Title = %d/%q", c.Status(), c.Title())
	}
}

func TestCtxHref(t *testing.T) {
	c := NewCtx(context.Background(), "home", nil, nil, stubLinker{"articles": "/console/articles"})
	if got := c.Href("articles", nil); got != "/console/articles" {
		t.Errorf("Href(articles) = %q", got)
	}
	if got := c.Href("nope", nil); got != "#" {
		t.Errorf("Href(nope) = %q, want #", got)
	}

	bare := NewCtx(context.Background(), "home", nil, nil, nil)
	if got := bare.Href("articles", nil); got != "#" {
		t.Errorf("Href without linker = %q, want #", got)
	}
	if bare.Params() == nil || bare.Query() == nil {
		t.Error("nil params or query on bare ctx")
	}
}
