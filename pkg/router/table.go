package router

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	geoerrors "github.com/geo-dev/geo/internal/errors"
	"github.com/geo-dev/geo/pkg/routepath"
	"github.com/geo-dev/geo/pkg/view"
)

// Routing errors. Errors returned by the table are *geoerrors.GeoError values
// wrapping one of these.
var (
	ErrNoRoute       = errors.New("no route matches path")
	ErrDuplicateName = errors.New("duplicate route name")
	ErrInvalidEntry  = errors.New("invalid route entry")
	ErrUnknownRoute  = errors.New("unknown route name")
	ErrMissingParam  = errors.New("missing route parameter")
	ErrInvalidParam  = errors.New("invalid route parameter")
)

// Table is an ordered, immutable route table.
type Table struct {
	history  History
	entries  []Entry
	patterns []pattern
	lazies   []*view.Lazy
	byName   map[string]int
}

// New validates entries and builds a table. Entries are matched in the order
// given.
func New(history History, entries ...Entry) (*Table, error) {
	if history == nil {
		return nil, geoerrors.New("E102").WithDetail("nil history").Wrap(ErrInvalidEntry)
	}
	t := &Table{
		history:  history,
		entries:  make([]Entry, 0, len(entries)),
		patterns: make([]pattern, 0, len(entries)),
		lazies:   make([]*view.Lazy, 0, len(entries)),
		byName:   make(map[string]int, len(entries)),
	}
	for i, e := range entries {
		if e.Name == "" {
			return nil, geoerrors.New("E102").
				WithDetailf("entry %d (%s) has no name", i, e.Path).
				Wrap(ErrInvalidEntry)
		}
		if _, dup := t.byName[e.Name]; dup {
			return nil, geoerrors.New("E101").
				WithDetailf("%q is declared more than once", e.Name).
				WithSuggestion("Give every route entry a distinct name.").
				Wrap(ErrDuplicateName)
		}
		if e.Load == nil {
			return nil, geoerrors.New("E102").
				WithDetailf("route %q has no loader", e.Name).
				Wrap(ErrInvalidEntry)
		}
		p, err := parsePattern(e.Path)
		if err != nil {
			return nil, geoerrors.New("E102").
				WithDetailf("route %q: %v", e.Name, err).
				Wrap(fmt.Errorf("%w: %w", ErrInvalidEntry, err))
		}
		t.byName[e.Name] = len(t.entries)
		t.entries = append(t.entries, e)
		t.patterns = append(t.patterns, p)
		t.lazies = append(t.lazies, view.NewLazy(e.Name, e.Load, view.WithTimeout(e.LoadTimeout)))
	}
	return t, nil
}

// MustNew is like New but panics on error.
func MustNew(history History, entries ...Entry) *Table {
	t, err := New(history, entries...)
	if err != nil {
		panic(err)
	}
	return t
}

// History returns the table's history strategy.
func (t *Table) History() History { return t.history }

// Entries returns a copy of the entries in declaration order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Lookup returns the entry with the given name.
func (t *Table) Lookup(name string) (Entry, bool) {
	i, ok := t.byName[name]
	if !ok {
		return Entry{}, false
	}
	return t.entries[i], true
}

// Lazy returns the deferred loader of the named route, or nil.
func (t *Table) Lazy(name string) *view.Lazy {
	i, ok := t.byName[name]
	if !ok {
		return nil
	}
	return t.lazies[i]
}

// Observe reports every view load of the table to o. Call it before serving.
func (t *Table) Observe(o view.Observer) {
	for _, l := range t.lazies {
		l.SetObserver(o)
	}
}

// Preload loads every view concurrently.
func (t *Table) Preload(ctx context.Context) error {
	return view.Preload(ctx, t.lazies...)
}

// Match finds the first entry matching an application path. The path may
// carry a query string. It does not start the view load; use Match.Start.
func (t *Table) Match(path string) (*Match, error) {
	canon, err := routepath.CanonicalizePath(path)
	if err != nil {
		return nil, t.noRoute(path, err)
	}

	parts := routepath.Segments(canon.Path)
	for i, p := range t.patterns {
		params, ok := p.match(parts)
		if !ok {
			continue
		}
		query, _ := url.ParseQuery(canon.Query)
		return &Match{
			Entry:  t.entries[i],
			Params: params,
			Path:   canon.Path,
			Query:  query,
			lazy:   t.lazies[i],
		}, nil
	}

	ge := geoerrors.New("E100").WithDetail(canon.Path).Wrap(ErrNoRoute)
	if s := t.SuggestPath(canon.Path); s != "" {
		ge.WithSuggestion(fmt.Sprintf("Did you mean %s?", s))
	}
	return nil, ge
}

func (t *Table) noRoute(path string, cause error) error {
	return geoerrors.New("E100").
		WithDetailf("%q: %v", path, cause).
		Wrap(fmt.Errorf("%w: %w", ErrNoRoute, cause))
}

// SuggestPath returns the declared pattern closest to path, or "".
func (t *Table) SuggestPath(path string) string {
	candidates := make([]string, len(t.entries))
	for i, e := range t.entries {
		candidates[i] = e.Path
	}
	return closest(path, candidates)
}

// Path builds the application path of a named route.
func (t *Table) Path(name string, params map[string]string) (string, error) {
	i, ok := t.byName[name]
	if !ok {
		ge := geoerrors.New("E103").WithDetailf("%q", name).Wrap(ErrUnknownRoute)
		names := make([]string, len(t.entries))
		for j, e := range t.entries {
			names[j] = e.Name
		}
		if s := closest(name, names); s != "" {
			ge.WithSuggestion(fmt.Sprintf("Did you mean %q?", s))
		}
		return "", ge
	}

	out, err := t.patterns[i].build(params)
	if err != nil {
		var pe *paramError
		if errors.As(err, &pe) && pe.missing {
			return "", geoerrors.New("E104").
				WithDetailf("route %q needs %q", name, pe.name).
				Wrap(ErrMissingParam)
		}
		return "", geoerrors.New("E105").
			WithDetailf("route %q: %v", name, err).
			Wrap(fmt.Errorf("%w: %w", ErrInvalidParam, err))
	}
	return out, nil
}

// Resolve builds the browser href of a named route through the table's
// history.
func (t *Table) Resolve(name string, params map[string]string) (string, error) {
	p, err := t.Path(name, params)
	if err != nil {
		return "", err
	}
	return t.history.Href(p), nil
}

// Href implements view.Linker.
func (t *Table) Href(name string, params map[string]string) (string, error) {
	return t.Resolve(name, params)
}
