// Package geo serves the brand-exposure console: a declarative route table of
// lazily loaded views, rendered on the server and navigated live over a
// WebSocket.
//
// This is the recommended import for wiring an application:
//
//	import "github.com/geo-dev/geo"
//
// Usage:
//
//	table := geo.MustTable(geo.NewWebHistory("/console/"),
//	    geo.Entry{Path: "/", Name: "home", Load: geo.Of(homePage)},
//	)
//	app := geo.New(geo.DefaultConfig(), table)
package geo

import (
	"github.com/geo-dev/geo/pkg/router"
	"github.com/geo-dev/geo/pkg/vdom"
	"github.com/geo-dev/geo/pkg/view"
)

// =============================================================================
// Route table (re-export from pkg/router)
// =============================================================================

// Entry binds a path pattern to a named, lazily loaded view.
type Entry = router.Entry

// Table is an ordered, immutable route table.
type Table = router.Table

// History maps application paths to browser URLs.
type History = router.History

// NewTable validates entries and builds a table.
var NewTable = router.New

// MustTable is like NewTable but panics on error.
var MustTable = router.MustNew

// NewWebHistory serves routes as real URL paths under base.
var NewWebHistory = router.NewWebHistory

// NewHashHistory serves routes as fragment URLs under base.
var NewHashHistory = router.NewHashHistory

// Routing errors.
var (
	ErrNoRoute       = router.ErrNoRoute
	ErrDuplicateName = router.ErrDuplicateName
	ErrUnknownRoute  = router.ErrUnknownRoute
)

// =============================================================================
// Views (re-export from pkg/view)
// =============================================================================

// Page renders a view.
type Page = view.Page

// Loader produces a Page on first activation of its route.
type Loader = view.Loader

// Ctx carries the state of one page render.
type Ctx = view.Ctx

// VNode is a virtual DOM node.
type VNode = vdom.VNode

// Of returns a Loader that yields page immediately.
var Of = view.Of
