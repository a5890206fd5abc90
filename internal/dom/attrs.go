package dom

import "strings"

// Attr returns the value of the attribute key and whether it is present.
func (n *Node) Attr(key string) (string, bool) {
	for _, a := range n.attrs {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// GetAttr returns the value of the attribute key, or "" when absent.
func (n *Node) GetAttr(key string) string {
	v, _ := n.Attr(key)
	return v
}

// HasAttr reports whether the attribute key is present.
func (n *Node) HasAttr(key string) bool {
	_, ok := n.Attr(key)
	return ok
}

// SetAttr sets an attribute. An existing key keeps its position; a new key
// is appended.
func (n *Node) SetAttr(key, val string) {
	for i := range n.attrs {
		if n.attrs[i].Key == key {
			n.attrs[i].Val = val
			return
		}
	}
	n.attrs = append(n.attrs, Attr{Key: key, Val: val})
}

// RemoveAttr deletes an attribute and reports whether it was present.
func (n *Node) RemoveAttr(key string) bool {
	for i, a := range n.attrs {
		if a.Key == key {
			n.attrs = append(n.attrs[:i], n.attrs[i+1:]...)
			return true
		}
	}
	return false
}

// Attrs returns a copy of the attributes in insertion order.
func (n *Node) Attrs() []Attr {
	if len(n.attrs) == 0 {
		return nil
	}
	return append([]Attr(nil), n.attrs...)
}

// AttrCount returns the number of attributes.
func (n *Node) AttrCount() int {
	return len(n.attrs)
}

// Classes returns the space-separated tokens of the class attribute.
func (n *Node) Classes() []string {
	return strings.Fields(n.GetAttr("class"))
}

// HasClass reports whether class is one of the element's classes.
func (n *Node) HasClass(class string) bool {
	if n == nil || n.Type != ElementNode {
		return false
	}
	for _, c := range n.Classes() {
		if c == class {
			return true
		}
	}
	return false
}

// AddClass appends class to the class attribute unless already present.
func (n *Node) AddClass(class string) {
	if n.HasClass(class) {
		return
	}
	if cur := n.GetAttr("class"); cur != "" {
		n.SetAttr("class", cur+" "+class)
		return
	}
	n.SetAttr("class", class)
}

// RemoveClass removes class, dropping the attribute when nothing is left.
func (n *Node) RemoveClass(class string) {
	var kept []string
	for _, c := range n.Classes() {
		if c != class {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		n.RemoveAttr("class")
		return
	}
	n.SetAttr("class", strings.Join(kept, " "))
}
