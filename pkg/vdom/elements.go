package vdom

// voidElements are elements that cannot have children.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoidElement returns true if the tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// El creates an element with an arbitrary tag.
func El(tag string, args ...any) *VNode {
	node := &VNode{
		Kind:  KindElement,
		Tag:   tag,
		Props: make(Props),
	}
	for _, arg := range args {
		apply(node, arg)
	}
	return node
}

func apply(node *VNode, arg any) {
	switch v := arg.(type) {
	case nil:
	case Attr:
		if v.Key == "class" {
			if prev, ok := node.Props["class"].(string); ok && prev != "" {
				v.Value = prev + " " + toString(v.Value)
			}
		}
		if v.Key != "" {
			node.Props[v.Key] = v.Value
		}
	case []Attr:
		for _, a := range v {
			apply(node, a)
		}
	case *VNode:
		if v == nil {
			return
		}
		// attribute-only fragments (from If with an Attr) are flattened
		if v.Kind == KindFragment && v.Tag == attrCarrier {
			for k, val := range v.Props {
				apply(node, Attr{Key: k, Value: val})
			}
			return
		}
		node.Children = append(node.Children, v)
	case []*VNode:
		for _, c := range v {
			if c != nil {
				node.Children = append(node.Children, c)
			}
		}
	case string:
		node.Children = append(node.Children, Text(v))
	}
}

// Document structure
func Html(args ...any) *VNode   { return El("html", args...) }
func Head(args ...any) *VNode   { return El("head", args...) }
func Body(args ...any) *VNode   { return El("body", args...) }
func Header(args ...any) *VNode { return El("header", args...) }
func Footer(args ...any) *VNode { return El("footer", args...) }
func Main(args ...any) *VNode   { return El("main", args...) }
func Nav(args ...any) *VNode    { return El("nav", args...) }
func Section(args ...any) *VNode {
	return El("section", args...)
}
func Article(args ...any) *VNode { return El("article", args...) }

// Content
func Div(args ...any) *VNode    { return El("div", args...) }
func Span(args ...any) *VNode   { return El("span", args...) }
func P(args ...any) *VNode      { return El("p", args...) }
func H1(args ...any) *VNode     { return El("h1", args...) }
func H2(args ...any) *VNode     { return El("h2", args...) }
func H3(args ...any) *VNode     { return El("h3", args...) }
func A(args ...any) *VNode      { return El("a", args...) }
func Strong(args ...any) *VNode { return El("strong", args...) }
func Em(args ...any) *VNode     { return El("em", args...) }
func Code(args ...any) *VNode   { return El("code", args...) }
func Pre(args ...any) *VNode    { return El("pre", args...) }
func Br() *VNode                { return El("br") }
func Hr() *VNode                { return El("hr") }

// Lists
func Ul(args ...any) *VNode { return El("ul", args...) }
func Ol(args ...any) *VNode { return El("ol", args...) }
func Li(args ...any) *VNode { return El("li", args...) }
func Dl(args ...any) *VNode { return El("dl", args...) }
func Dt(args ...any) *VNode { return El("dt", args...) }
func Dd(args ...any) *VNode { return El("dd", args...) }

// Tables
func Table(args ...any) *VNode { return El("table", args...) }
func Thead(args ...any) *VNode { return El("thead", args...) }
func Tbody(args ...any) *VNode { return El("tbody", args...) }
func Tr(args ...any) *VNode    { return El("tr", args...) }
func Th(args ...any) *VNode    { return El("th", args...) }
func Td(args ...any) *VNode    { return El("td", args...) }

// Forms
func Form(args ...any) *VNode     { return El("form", args...) }
func Label(args ...any) *VNode    { return El("label", args...) }
func Input(args ...any) *VNode    { return El("input", args...) }
func Textarea(args ...any) *VNode { return El("textarea", args...) }
func Button(args ...any) *VNode   { return El("button", args...) }
func Select(args ...any) *VNode   { return El("select", args...) }
func Option(args ...any) *VNode   { return El("option", args...) }
