package service

import (
	"strings"

	"github.com/geo-dev/geo/pkg/vdom"
)

// ArticleBody converts article content to a node tree. Content uses a small
// markdown subset: "#" headings, "-" or "*" list items and blank-line
// separated paragraphs. Everything else is text.
func ArticleBody(title, content string) *vdom.VNode {
	children := []any{vdom.Class("geo-article")}
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")

	hasH1 := false
	var para []string
	var items []any
	flushPara := func() {
		if len(para) > 0 {
			children = append(children, vdom.P(strings.Join(para, " ")))
			para = nil
		}
	}
	flushList := func() {
		if len(items) > 0 {
			children = append(children, vdom.Ul(items...))
			items = nil
		}
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
			flushPara()
			flushList()
		case strings.HasPrefix(line, "#"):
			flushPara()
			flushList()
			level := len(line) - len(strings.TrimLeft(line, "#"))
			text := strings.TrimSpace(line[level:])
			switch level {
			case 1:
				hasH1 = true
				children = append(children, vdom.H1(text))
			case 2:
				children = append(children, vdom.H2(text))
			default:
				children = append(children, vdom.H3(text))
			}
		case strings.HasPrefix(line, "- "), strings.HasPrefix(line, "* "):
			flushPara()
			items = append(items, vdom.Li(strings.TrimSpace(line[2:])))
		default:
			flushList()
			para = append(para, line)
		}
	}
	flushPara()
	flushList()

	if !hasH1 && title != "" {
		children = append([]any{children[0], vdom.H1(title)}, children[1:]...)
	}
	return vdom.Article(children...)
}
