package router

import (
	"context"
	"net/url"

	"github.com/geo-dev/geo/pkg/routepath"
	"github.com/geo-dev/geo/pkg/view"
)

// Target is a navigation destination: either a site-relative path or a named
// route with parameters.
type Target struct {
	path   string
	name   string
	params map[string]string
}

// At targets a site-relative application path such as "/articles/edit/42".
func At(path string) Target {
	return Target{path: path}
}

// To targets a named route.
func To(name string, params map[string]string) Target {
	return Target{name: name, params: params}
}

// String returns the path or route name of the target.
func (t Target) String() string {
	if t.name != "" {
		return t.name
	}
	return t.path
}

// NavigateOptions configures navigation behavior.
type NavigateOptions struct {
	// Replace replaces the current history entry instead of pushing.
	Replace bool

	// Query is merged into the query string of the target.
	Query url.Values
}

// NavigateOption is a functional option for Navigate.
type NavigateOption func(*NavigateOptions)

// WithReplace replaces the current history entry instead of pushing.
func WithReplace() NavigateOption {
	return func(o *NavigateOptions) {
		o.Replace = true
	}
}

// WithQuery adds query parameters to the navigation URL.
func WithQuery(q url.Values) NavigateOption {
	return func(o *NavigateOptions) {
		if o.Query == nil {
			o.Query = url.Values{}
		}
		for k, vs := range q {
			o.Query[k] = append(o.Query[k], vs...)
		}
	}
}

// Navigation is a resolved navigation request whose view load has started.
type Navigation struct {
	Match   *Match
	Href    string
	Replace bool
	Future  *view.Future
}

// Navigator resolves navigation requests against a table.
type Navigator struct {
	table *Table
}

// NewNavigator creates a navigator for t.
func NewNavigator(t *Table) *Navigator {
	return &Navigator{table: t}
}

// Table returns the table the navigator resolves against.
func (n *Navigator) Table() *Table {
	return n.table
}

// Navigate resolves target, matches it and starts loading its view. Path
// targets must be site-relative; absolute URLs are rejected.
func (n *Navigator) Navigate(ctx context.Context, target Target, opts ...NavigateOption) (*Navigation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var options NavigateOptions
	for _, opt := range opts {
		opt(&options)
	}

	var (
		path string
		err  error
	)
	if target.name != "" {
		path, err = n.table.Path(target.name, target.params)
	} else {
		path, err = routepath.CanonicalizeAndValidateNavPath(target.path)
		if err != nil {
			return nil, n.table.noRoute(target.path, err)
		}
	}
	if err != nil {
		return nil, err
	}

	if len(options.Query) > 0 {
		p, q := routepath.SplitPathAndQuery(path)
		merged, _ := url.ParseQuery(q)
		for k, vs := range options.Query {
			merged[k] = append(merged[k], vs...)
		}
		path = p + "?" + merged.Encode()
	}

	m, err := n.table.Match(path)
	if err != nil {
		return nil, err
	}
	return &Navigation{
		Match:   m,
		Href:    n.table.history.Href(m.Location()),
		Replace: options.Replace,
		Future:  m.Start(ctx),
	}, nil
}
