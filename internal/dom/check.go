package dom

// Check verifies the structural invariants of the tree below root: every
// child points back at its parent, no node appears twice (which also rules
// out cycles), attribute keys are unique, only elements have children or
// attributes, and no text node is empty. It returns the first violation.
func Check(root *Node) error {
	if root == nil {
		return structureErr("check", nil, "nil root")
	}
	seen := make(map[*Node]bool)
	return check(root, seen)
}

func check(n *Node, seen map[*Node]bool) error {
	if seen[n] {
		return structureErr("check", n, "node reachable twice")
	}
	seen[n] = true

	switch n.Type {
	case ElementNode:
		if n.Tag == "" {
			return structureErr("check", n, "element without tag")
		}
	case TextNode:
		if n.Data == "" {
			return structureErr("check", n, "empty text node")
		}
		fallthrough
	case CommentNode:
		if len(n.children) > 0 || len(n.attrs) > 0 {
			return structureErr("check", n, "%s node has children or attributes", n.Type)
		}
	default:
		return structureErr("check", n, "unknown node type %d", n.Type)
	}

	if len(n.attrs) > 1 {
		keys := make(map[string]bool, len(n.attrs))
		for _, a := range n.attrs {
			if keys[a.Key] {
				return structureErr("check", n, "duplicate attribute %q", a.Key)
			}
			keys[a.Key] = true
		}
	}
	for _, c := range n.children {
		if c == nil {
			return structureErr("check", n, "nil child")
		}
		if c.parent != n {
			return structureErr("check", c, "parent reference does not match owner")
		}
		if err := check(c, seen); err != nil {
			return err
		}
	}
	return nil
}
