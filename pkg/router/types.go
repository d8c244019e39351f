package router

import (
	"context"
	"net/url"
	"time"

	"github.com/geo-dev/geo/pkg/view"
)

// Entry binds a path pattern to a named, lazily-loaded view.
type Entry struct {
	// Path is the URL pattern (e.g., "/articles/edit/:id").
	Path string

	// Name identifies the entry for programmatic navigation.
	Name string

	// Title is shown in the page shell and the navigation bar.
	Title string

	// Load produces the view on first activation.
	Load view.Loader

	// LoadTimeout bounds a single load. Zero selects view.DefaultLoadTimeout.
	LoadTimeout time.Duration
}

// Params holds the decoded path parameters of a match.
type Params map[string]string

// Get returns a parameter value, or "" if it is not set.
func (p Params) Get(name string) string {
	return p[name]
}

// Bind copies parameters into the `param` tagged fields of target.
func (p Params) Bind(target any) error {
	return NewParamParser().Parse(p, target)
}

// Match is the result of matching a path against a table.
type Match struct {
	// Entry is the first entry whose pattern matched.
	Entry Entry

	// Params are the extracted, percent-decoded parameters.
	Params Params

	// Path is the canonical application path.
	Path string

	// Query holds the parsed query string.
	Query url.Values

	lazy *view.Lazy
}

// Start triggers the deferred load of the matched view.
func (m *Match) Start(ctx context.Context) *view.Future {
	return m.lazy.Start(ctx)
}

// Page waits for the matched view to load.
func (m *Match) Page(ctx context.Context) (view.Page, error) {
	return m.lazy.Resolve(ctx)
}

// Location returns the canonical path with its query string.
func (m *Match) Location() string {
	if len(m.Query) == 0 {
		return m.Path
	}
	return m.Path + "?" + m.Query.Encode()
}
