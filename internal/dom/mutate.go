package dom

// checkAdopt verifies that child may become a child of parent.
func checkAdopt(op string, parent, child *Node) error {
	if parent == nil || child == nil {
		return structureErr(op, parent, "nil node")
	}
	if parent.Type != ElementNode {
		return structureErr(op, parent, "%s node cannot have children", parent.Type)
	}
	if child.Contains(parent) {
		return structureErr(op, parent, "<%s> would become its own ancestor", child.Tag)
	}
	return nil
}

// Detach removes n from its parent, if any.
func (n *Node) Detach() {
	p := n.parent
	if p == nil {
		return
	}
	if i := n.Index(); i >= 0 {
		p.children = append(p.children[:i], p.children[i+1:]...)
	}
	n.parent = nil
}

// AppendChild moves child to the end of parent's children.
func AppendChild(parent, child *Node) error {
	if err := checkAdopt("append", parent, child); err != nil {
		return err
	}
	child.Detach()
	child.parent = parent
	parent.children = append(parent.children, child)
	return nil
}

// InsertBefore moves child in front of ref, which must be a child of parent.
// A nil ref appends.
func InsertBefore(parent, child, ref *Node) error {
	if ref == nil {
		return AppendChild(parent, child)
	}
	if err := checkAdopt("insert", parent, child); err != nil {
		return err
	}
	if child == ref {
		return nil
	}
	if ref.parent != parent {
		return structureErr("insert", parent, "reference node is not a child")
	}
	child.Detach()
	return insertAt(parent, ref.Index(), child)
}

// InsertAfter moves child behind ref, which must be a child of parent.
func InsertAfter(parent, child, ref *Node) error {
	if ref == nil {
		return structureErr("insert", parent, "nil reference node")
	}
	if ref.parent != parent {
		return structureErr("insert", parent, "reference node is not a child")
	}
	return InsertBefore(parent, child, ref.NextSibling())
}

// RemoveChild detaches child from parent.
func RemoveChild(parent, child *Node) error {
	if parent == nil || child == nil {
		return structureErr("remove", parent, "nil node")
	}
	if child.parent != parent {
		return structureErr("remove", parent, "node is not a child")
	}
	child.Detach()
	return nil
}

// ReplaceChild puts repl where old was. old is detached.
func ReplaceChild(parent, old, repl *Node) error {
	if old == nil || old.parent != parent || parent == nil {
		return structureErr("replace", parent, "node is not a child")
	}
	if old == repl {
		return nil
	}
	if err := checkAdopt("replace", parent, repl); err != nil {
		return err
	}
	repl.Detach()
	i := old.Index()
	parent.children[i] = repl
	repl.parent = parent
	old.parent = nil
	return nil
}

// InsertAt moves child to position i of parent. i may equal ChildCount.
func InsertAt(parent *Node, i int, child *Node) error {
	if err := checkAdopt("insert", parent, child); err != nil {
		return err
	}
	if child.parent == parent && child.Index() < i {
		i--
	}
	child.Detach()
	return insertAt(parent, i, child)
}

func insertAt(parent *Node, i int, child *Node) error {
	if i < 0 || i > len(parent.children) {
		return structureErr("insert", parent, "index %d out of range [0,%d]", i, len(parent.children))
	}
	parent.children = append(parent.children, nil)
	copy(parent.children[i+1:], parent.children[i:])
	parent.children[i] = child
	child.parent = parent
	return nil
}

// RemoveAt detaches and returns the i-th child.
func RemoveAt(parent *Node, i int) (*Node, error) {
	c := parent.Child(i)
	if c == nil {
		return nil, structureErr("remove", parent, "index %d out of range", i)
	}
	c.Detach()
	return c, nil
}

// Splice replaces children [i, j) of parent with repl and returns the
// removed nodes, detached.
func Splice(parent *Node, i, j int, repl ...*Node) ([]*Node, error) {
	if parent == nil || parent.Type != ElementNode {
		return nil, structureErr("splice", parent, "not an element")
	}
	if i < 0 || j < i || j > len(parent.children) {
		return nil, structureErr("splice", parent, "range [%d,%d) out of bounds", i, j)
	}
	for _, r := range repl {
		if err := checkAdopt("splice", parent, r); err != nil {
			return nil, err
		}
		if r.parent == parent {
			if k := r.Index(); k < i || k >= j {
				return nil, structureErr("splice", parent, "replacement is a sibling outside the range")
			}
		}
	}
	removed := append([]*Node(nil), parent.children[i:j]...)
	for _, r := range removed {
		r.parent = nil
	}
	tail := append([]*Node(nil), parent.children[j:]...)
	parent.children = parent.children[:i]
	for _, r := range repl {
		r.Detach()
		r.parent = parent
		parent.children = append(parent.children, r)
	}
	parent.children = append(parent.children, tail...)
	return removed, nil
}

// SetChildren replaces all children of parent.
func SetChildren(parent *Node, children ...*Node) error {
	_, err := Splice(parent, 0, parent.ChildCount(), children...)
	return err
}

// RemoveChildren detaches and returns all children of n.
func (n *Node) RemoveChildren() []*Node {
	out := n.children
	for _, c := range out {
		c.parent = nil
	}
	n.children = nil
	return out
}

// Wrap puts wrapper in place of n and moves n into it as the last child.
func Wrap(n, wrapper *Node) error {
	if n == nil || wrapper == nil {
		return structureErr("wrap", n, "nil node")
	}
	if wrapper.Contains(n) {
		return structureErr("wrap", n, "wrapper already contains the node")
	}
	if p := n.parent; p != nil {
		if err := ReplaceChild(p, n, wrapper); err != nil {
			return err
		}
	}
	return AppendChild(wrapper, n)
}

// WrapRange moves children [i, j) of parent into wrapper and puts wrapper
// at position i.
func WrapRange(parent *Node, i, j int, wrapper *Node) error {
	removed, err := Splice(parent, i, j, wrapper)
	if err != nil {
		return err
	}
	for _, r := range removed {
		if err := AppendChild(wrapper, r); err != nil {
			return err
		}
	}
	return nil
}

// Unwrap replaces n with its children.
func Unwrap(n *Node) error {
	p := n.parent
	if p == nil {
		return structureErr("unwrap", n, "node has no parent")
	}
	i := n.Index()
	_, err := Splice(p, i, i+1, n.RemoveChildren()...)
	return err
}

// AppendText appends s to n, merging with a trailing text child. Empty
// strings are ignored so that no empty text node is ever created.
func AppendText(n *Node, s string) error {
	if s == "" {
		return nil
	}
	if last := n.LastChild(); last.IsText() {
		last.Data += s
		return nil
	}
	return AppendChild(n, NewText(s))
}

// Normalize merges adjacent text nodes and drops empty ones below n.
func Normalize(n *Node) {
	if n.Type != ElementNode {
		return
	}
	kept := n.children[:0]
	for _, c := range n.children {
		switch {
		case c.IsText() && c.Data == "":
			c.parent = nil
		case c.IsText() && len(kept) > 0 && kept[len(kept)-1].IsText():
			kept[len(kept)-1].Data += c.Data
			c.parent = nil
		default:
			kept = append(kept, c)
		}
	}
	for i := len(kept); i < len(n.children); i++ {
		n.children[i] = nil
	}
	n.children = kept
	for _, c := range n.children {
		Normalize(c)
	}
}
