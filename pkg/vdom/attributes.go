package vdom

import (
	"fmt"
	"strings"
)

func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// Global attributes
func ID(id string) Attr                { return attr("id", id) }
func Class(classes ...string) Attr     { return attr("class", strings.Join(classes, " ")) }
func StyleAttr(style string) Attr      { return attr("style", style) }
func Data(key, value string) Attr      { return attr("data-"+key, value) }
func Role(role string) Attr            { return attr("role", role) }
func AriaLabel(label string) Attr      { return attr("aria-label", label) }
func AriaCurrent(value string) Attr    { return attr("aria-current", value) }
func TitleAttr(title string) Attr      { return attr("title", title) }
func Lang(lang string) Attr            { return attr("lang", lang) }
func Hidden() Attr                     { return attr("hidden", true) }
func Attribute(key string, v any) Attr { return attr(key, v) }

// Links
func Href(url string) Attr      { return attr("href", url) }
func Target(target string) Attr { return attr("target", target) }
func Rel(rel string) Attr       { return attr("rel", rel) }

// Forms
func Name(name string) Attr        { return attr("name", name) }
func Value(value string) Attr      { return attr("value", value) }
func Type(t string) Attr           { return attr("type", t) }
func Placeholder(text string) Attr { return attr("placeholder", text) }
func Action(url string) Attr       { return attr("action", url) }
func Method(m string) Attr         { return attr("method", m) }
func For(id string) Attr           { return attr("for", id) }
func Rows(n int) Attr              { return attr("rows", n) }
func Disabled() Attr               { return attr("disabled", true) }
func Required() Attr               { return attr("required", true) }
func Selected() Attr               { return attr("selected", true) }
func Readonly() Attr               { return attr("readonly", true) }

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
