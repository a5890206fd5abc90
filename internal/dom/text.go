package dom

import "strings"

// TextContent concatenates the text below n in document order. Comments are
// skipped and br elements count as a newline.
func TextContent(n *Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	textContent(&b, n)
	return b.String()
}

func textContent(b *strings.Builder, n *Node) {
	switch n.Type {
	case TextNode:
		b.WriteString(n.Data)
	case ElementNode:
		if n.Tag == "br" {
			b.WriteByte('\n')
			return
		}
		for _, c := range n.children {
			textContent(b, c)
		}
	}
}

// SetText replaces the children of n with a single text node. An empty s
// leaves n empty.
func SetText(n *Node, s string) error {
	if s == "" {
		return SetChildren(n)
	}
	return SetChildren(n, NewText(s))
}

// IsBlank reports whether n holds no text other than white space and no
// element other than br.
func IsBlank(n *Node) bool {
	if n.Type == TextNode {
		return strings.TrimSpace(n.Data) == ""
	}
	if n.Type == CommentNode {
		return true
	}
	for _, c := range n.children {
		if c.IsElement() && c.Tag != "br" && c.Tag != "span" {
			return false
		}
		if !IsBlank(c) {
			return false
		}
	}
	return true
}
