package dom

import (
	"strconv"
	"strings"
)

// Path describes the location of n from its root, for error messages:
// "/html/body/section[2]/h2". A step carries a 1-based index only when the
// parent has more than one child of the same kind. Text and comment steps
// are written text() and comment().
func Path(n *Node) string {
	if n == nil {
		return ""
	}
	var steps []string
	for c := n; c != nil; c = c.parent {
		steps = append(steps, step(c))
	}
	var b strings.Builder
	for i := len(steps) - 1; i >= 0; i-- {
		b.WriteByte('/')
		b.WriteString(steps[i])
	}
	return b.String()
}

func step(n *Node) string {
	name := stepName(n)
	p := n.parent
	if p == nil {
		return name
	}
	pos, total := 0, 0
	for _, s := range p.children {
		if sameKind(s, n) {
			total++
			if s == n {
				pos = total
			}
		}
	}
	if total < 2 {
		return name
	}
	return name + "[" + strconv.Itoa(pos) + "]"
}

func stepName(n *Node) string {
	switch n.Type {
	case TextNode:
		return "text()"
	case CommentNode:
		return "comment()"
	default:
		return n.Tag
	}
}

func sameKind(a, b *Node) bool {
	if a.Type != b.Type {
		return false
	}
	return a.Type != ElementNode || a.Tag == b.Tag
}
