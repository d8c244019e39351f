// Package vdom provides the node tree that views build and pkg/render turns
// into HTML.
//
// Elements are created using variadic factory functions:
//
//	Div(Class("card"), ID("main"),
//	    H1(Text("Title")),
//	    P(Text("Content")),
//	)
//
// Arguments may be attributes, child nodes, slices of either, strings (text
// children) or nil, which is skipped so conditionals read naturally:
//
//	Li(If(active, Class("active")), A(Href(href), Text(title)))
package vdom
