package dom

import "strings"

// NodeType identifies the variant of a Node.
type NodeType uint8

// Node variants.
const (
	ElementNode NodeType = iota + 1
	TextNode
	CommentNode
)

func (t NodeType) String() string {
	switch t {
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	case CommentNode:
		return "comment"
	default:
		return "unknown"
	}
}

// Attr is a single element attribute.
type Attr struct {
	Key string
	Val string
}

// Node is an element, a text run, or a comment.
//
// Tag is set for elements only. Data is the payload of text and comment
// nodes. Style holds the presentational properties carried over from the
// source document; it is nil until something sets a property.
type Node struct {
	Type  NodeType
	Tag   string
	Data  string
	Style *Style

	attrs    []Attr
	children []*Node
	parent   *Node
}

// NewElement allocates an unattached element and appends the given
// children, skipping nil entries. Children that already have a parent are
// moved.
func NewElement(tag string, children ...*Node) *Node {
	n := &Node{Type: ElementNode, Tag: tag}
	for _, c := range children {
		if c == nil {
			continue
		}
		c.Detach()
		c.parent = n
		n.children = append(n.children, c)
	}
	return n
}

// NewText allocates an unattached text node.
func NewText(s string) *Node {
	return &Node{Type: TextNode, Data: s}
}

// NewComment allocates an unattached comment node.
func NewComment(s string) *Node {
	return &Node{Type: CommentNode, Data: s}
}

// WithAttr sets an attribute and returns n, for building trees inline.
func (n *Node) WithAttr(key, val string) *Node {
	n.SetAttr(key, val)
	return n
}

// WithClass adds a class and returns n.
func (n *Node) WithClass(class string) *Node {
	n.AddClass(class)
	return n
}

// WithStyle sets a style property and returns n.
func (n *Node) WithStyle(key, val string) *Node {
	n.SetStyle(key, val)
	return n
}

// IsElement reports whether n is an element, optionally with one of the
// given tag names.
func (n *Node) IsElement(tags ...string) bool {
	if n == nil || n.Type != ElementNode {
		return false
	}
	if len(tags) == 0 {
		return true
	}
	for _, t := range tags {
		if n.Tag == t {
			return true
		}
	}
	return false
}

// IsText reports whether n is a text node.
func (n *Node) IsText() bool {
	return n != nil && n.Type == TextNode
}

// IsSpace reports whether n is a text node made only of white space.
func (n *Node) IsSpace() bool {
	return n.IsText() && strings.TrimSpace(n.Data) == ""
}

// Parent returns the parent element, or nil for a root or detached node.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the child slice. Callers must treat it as read-only;
// use the mutation methods to change it.
func (n *Node) Children() []*Node {
	return n.children
}

// ChildCount returns the number of children.
func (n *Node) ChildCount() int {
	return len(n.children)
}

// Child returns the i-th child or nil when i is out of range.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// FirstChild returns the first child or nil.
func (n *Node) FirstChild() *Node {
	return n.Child(0)
}

// LastChild returns the last child or nil.
func (n *Node) LastChild() *Node {
	return n.Child(len(n.children) - 1)
}

// Index returns the position of n among its parent's children, or -1.
func (n *Node) Index() int {
	if n.parent == nil {
		return -1
	}
	for i, c := range n.parent.children {
		if c == n {
			return i
		}
	}
	return -1
}

// PrevSibling returns the previous sibling or nil.
func (n *Node) PrevSibling() *Node {
	if i := n.Index(); i > 0 {
		return n.parent.children[i-1]
	}
	return nil
}

// NextSibling returns the next sibling or nil.
func (n *Node) NextSibling() *Node {
	if i := n.Index(); i >= 0 && i+1 < len(n.parent.children) {
		return n.parent.children[i+1]
	}
	return nil
}

// FirstElementChild returns the first child element, skipping text and
// comments.
func (n *Node) FirstElementChild() *Node {
	for _, c := range n.children {
		if c.Type == ElementNode {
			return c
		}
	}
	return nil
}

// ElementChildren returns the child elements, optionally filtered by tag.
// The returned slice is a copy, so callers may mutate n while ranging over it.
func (n *Node) ElementChildren(tags ...string) []*Node {
	var out []*Node
	for _, c := range n.children {
		if c.IsElement(tags...) {
			out = append(out, c)
		}
	}
	return out
}

// Ancestor returns the nearest ancestor with one of the given tags.
func (n *Node) Ancestor(tags ...string) *Node {
	for p := n.parent; p != nil; p = p.parent {
		if p.IsElement(tags...) {
			return p
		}
	}
	return nil
}

// Contains reports whether d is n or a descendant of n.
func (n *Node) Contains(d *Node) bool {
	for p := d; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

// Clone returns an unattached deep copy of n.
func (n *Node) Clone() *Node {
	c := &Node{Type: n.Type, Tag: n.Tag, Data: n.Data}
	if n.Style != nil {
		c.Style = n.Style.Clone()
	}
	if len(n.attrs) > 0 {
		c.attrs = append([]Attr(nil), n.attrs...)
	}
	for _, k := range n.children {
		kc := k.Clone()
		kc.parent = c
		c.children = append(c.children, kc)
	}
	return c
}

// SetStyle sets a style property, allocating the Style map if needed.
func (n *Node) SetStyle(key, val string) {
	if n.Style == nil {
		n.Style = NewStyle()
	}
	n.Style.Set(key, val)
}

// StyleValue returns a style property or "".
func (n *Node) StyleValue(key string) string {
	return n.Style.Value(key)
}
