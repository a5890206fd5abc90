package dom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseFragment parses markup in a body context and converts the result to
// unattached nodes. A style attribute is split into the node's Style map;
// white-space-only text between elements is kept as is.
func ParseFragment(markup string) ([]*Node, error) {
	context := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	parsed, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return nil, err
	}
	var out []*Node
	for _, p := range parsed {
		if n := fromHTML(p); n != nil {
			out = append(out, n)
		}
	}
	return out, nil
}

func fromHTML(h *html.Node) *Node {
	switch h.Type {
	case html.TextNode:
		if h.Data == "" {
			return nil
		}
		return NewText(h.Data)
	case html.CommentNode:
		return NewComment(h.Data)
	case html.ElementNode:
		n := NewElement(h.Data)
		for _, a := range h.Attr {
			if a.Key == "style" {
				n.Style = ParseStyle(a.Val)
				continue
			}
			n.SetAttr(a.Key, a.Val)
		}
		for c := h.FirstChild; c != nil; c = c.NextSibling {
			if k := fromHTML(c); k != nil {
				n.children = append(n.children, k)
				k.parent = n
			}
		}
		return n
	default:
		return nil
	}
}

// ParseStyle reads a CSS declaration list such as "color: red; margin: 0".
// Malformed declarations are skipped.
func ParseStyle(s string) *Style {
	st := NewStyle()
	for _, decl := range strings.Split(s, ";") {
		k, v, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if k == "" {
			continue
		}
		st.Set(k, v)
	}
	return st
}
