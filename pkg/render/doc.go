// Package render provides server-side rendering (SSR) for view trees.
//
// To render a node to a string:
//
//	r := render.NewRenderer(render.RendererConfig{})
//	html, err := r.RenderToString(node)
//
// To render a complete HTML document:
//
//	err := r.RenderPage(w, render.PageData{
//	    Title:   "Prompts",
//	    Body:    node,
//	    Scripts: []render.ScriptTag{{Src: "/_geo/geo.js", Defer: true}},
//	})
//
// All text content and attribute values are escaped. KindRaw nodes are
// written unchanged and must only carry trusted HTML.
package render
