package router

import (
	"strings"

	"github.com/geo-dev/geo/pkg/routepath"
)

// History decides how application paths map to browser URLs.
type History interface {
	// Mode names the strategy ("web" or "hash").
	Mode() string

	// Base returns the normalized base path ("/", "/console/").
	Base() string

	// Href turns an application path (with optional query) into a browser URL.
	Href(path string) string

	// Location extracts the application path from a browser URL. It reports
	// false when the URL lies outside the base path.
	Location(rawURL string) (string, bool)
}

// NewWebHistory returns a history that keeps application paths in the real
// URL path under base.
func NewWebHistory(base string) History {
	return webHistory{base: routepath.NormalizeBase(base)}
}

type webHistory struct {
	base string
}

func (h webHistory) Mode() string { return "web" }

func (h webHistory) Base() string { return h.base }

func (h webHistory) Href(path string) string {
	p, q := routepath.SplitPathAndQuery(path)
	href := routepath.JoinBase(h.base, p)
	if q != "" {
		href += "?" + q
	}
	return href
}

func (h webHistory) Location(rawURL string) (string, bool) {
	rawURL, _, _ = strings.Cut(rawURL, "#")
	p, q := routepath.SplitPathAndQuery(rawURL)
	p, ok := routepath.StripBase(h.base, p)
	if !ok {
		return "", false
	}
	if q != "" {
		p += "?" + q
	}
	return p, true
}

// NewHashHistory returns a history that keeps application paths in the URL
// fragment: "/console/#/prompts".
func NewHashHistory(base string) History {
	return hashHistory{base: routepath.NormalizeBase(base)}
}

type hashHistory struct {
	base string
}

func (h hashHistory) Mode() string { return "hash" }

func (h hashHistory) Base() string { return h.base }

func (h hashHistory) Href(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return h.base + "#" + path
}

func (h hashHistory) Location(rawURL string) (string, bool) {
	doc, frag, _ := strings.Cut(rawURL, "#")
	doc, _ = routepath.SplitPathAndQuery(doc)
	if _, ok := routepath.StripBase(h.base, doc); !ok {
		return "", false
	}
	if frag == "" {
		return "/", true
	}
	if !strings.HasPrefix(frag, "/") {
		frag = "/" + frag
	}
	return frag, true
}

// HistoryFor returns the history for a mode name. Unknown modes select web
// history.
func HistoryFor(mode, base string) History {
	if mode == "hash" {
		return NewHashHistory(base)
	}
	return NewWebHistory(base)
}
