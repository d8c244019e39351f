// Package router maps URL paths to lazily-loaded views.
//
// A Table is an ordered, immutable list of entries built once at start-up:
//
//	table, err := router.New(router.NewWebHistory(cfg.BaseURL),
//	    router.Entry{Path: "/", Name: "home", Load: loadHome},
//	    router.Entry{Path: "/articles/edit/:id", Name: "article-edit", Load: loadEdit},
//	)
//
// Match tests entries in declaration order and the first match wins. Paths
// are canonicalized first (see pkg/routepath), so "/articles/" and
// "/articles" are the same request.
//
// # Patterns
//
// A pattern is a list of slash separated segments:
//
//	articles        static segment, matched literally
//	:id             named parameter, matches one non-empty segment
//	:id:int         named parameter with a type (int, uint, uuid, string)
//	*rest           catch-all, last segment only, matches the remaining path
//
// # History
//
// A History decides how application paths appear in the browser: WebHistory
// uses real URL paths under a base path, HashHistory keeps them in the
// fragment. Resolve builds hrefs through the table's history, so links stay
// correct when the console is mounted under a prefix.
package router
