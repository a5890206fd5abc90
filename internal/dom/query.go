package dom

import "iter"

// Predicate selects nodes in a query.
type Predicate func(*Node) bool

// FindAll yields the descendants of n matching pred in depth-first
// pre-order. n itself is not visited. The sequence is lazy and may be
// ranged over any number of times; its behavior is undefined if the tree is
// mutated while it is being consumed. Collect with slices.Collect first when
// a caller needs to mutate.
func FindAll(n *Node, pred Predicate) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		if n == nil {
			return
		}
		walk(n, pred, yield)
	}
}

func walk(n *Node, pred Predicate, yield func(*Node) bool) bool {
	for _, c := range n.children {
		if pred == nil || pred(c) {
			if !yield(c) {
				return false
			}
		}
		if !walk(c, pred, yield) {
			return false
		}
	}
	return true
}

// FindFirst returns the first descendant of n matching pred, or nil.
func FindFirst(n *Node, pred Predicate) *Node {
	for m := range FindAll(n, pred) {
		return m
	}
	return nil
}

// Descendants yields every descendant of n.
func Descendants(n *Node) iter.Seq[*Node] {
	return FindAll(n, nil)
}

// Elements matches any element.
func Elements(n *Node) bool {
	return n.Type == ElementNode
}

// Texts matches any text node.
func Texts(n *Node) bool {
	return n.Type == TextNode
}

// ByTag matches elements with one of the given tags.
func ByTag(tags ...string) Predicate {
	return func(n *Node) bool { return n.IsElement(tags...) }
}

// ByClass matches elements carrying class.
func ByClass(class string) Predicate {
	return func(n *Node) bool { return n.HasClass(class) }
}

// ByAttr matches elements carrying the attribute key.
func ByAttr(key string) Predicate {
	return func(n *Node) bool { return n.Type == ElementNode && n.HasAttr(key) }
}

// And matches nodes accepted by every predicate.
func And(preds ...Predicate) Predicate {
	return func(n *Node) bool {
		for _, p := range preds {
			if !p(n) {
				return false
			}
		}
		return true
	}
}

// Not inverts a predicate.
func Not(p Predicate) Predicate {
	return func(n *Node) bool { return !p(n) }
}
