package vdom

import "fmt"

// attrCarrier tags the fragment If returns for a conditional attribute.
const attrCarrier = "\x00attr"

// Text creates a text node.
func Text(content string) *VNode {
	return &VNode{
		Kind: KindText,
		Text: content,
	}
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) *VNode {
	return Text(fmt.Sprintf(format, args...))
}

// Raw creates an unescaped HTML node. Only pass trusted HTML, such as output
// of the syntax highlighter.
func Raw(html string) *VNode {
	return &VNode{
		Kind: KindRaw,
		Text: html,
	}
}

// Fragment groups children without a wrapper element.
func Fragment(children ...any) *VNode {
	node := &VNode{Kind: KindFragment}
	for _, child := range children {
		switch v := child.(type) {
		case *VNode:
			if v != nil {
				node.Children = append(node.Children, v)
			}
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
	return node
}

// If returns arg when condition is true and nil otherwise. arg may be a node
// or an attribute.
func If(condition bool, arg any) *VNode {
	if !condition {
		return nil
	}
	switch v := arg.(type) {
	case *VNode:
		return v
	case Attr:
		return &VNode{Kind: KindFragment, Tag: attrCarrier, Props: Props{v.Key: v.Value}}
	}
	return nil
}

// IfElse returns ifTrue when condition is true, ifFalse otherwise.
func IfElse(condition bool, ifTrue, ifFalse *VNode) *VNode {
	if condition {
		return ifTrue
	}
	return ifFalse
}

// Range maps a slice to VNodes.
func Range[T any](items []T, fn func(item T, index int) *VNode) []*VNode {
	result := make([]*VNode, 0, len(items))
	for i, item := range items {
		if node := fn(item, i); node != nil {
			result = append(result, node)
		}
	}
	return result
}
