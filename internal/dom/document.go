package dom

// Document owns one tree for the duration of a conversion.
type Document struct {
	root *Node
}

// NewDocument returns a document rooted at root.
func NewDocument(root *Node) *Document {
	return &Document{root: root}
}

// NewHTMLDocument returns a document with an empty html > head + body
// skeleton.
func NewHTMLDocument() *Document {
	return NewDocument(NewElement("html", NewElement("head"), NewElement("body")))
}

// Root returns the top-level node.
func (d *Document) Root() *Node {
	return d.root
}

// SetRoot replaces the top-level node. root is detached from any parent.
func (d *Document) SetRoot(root *Node) {
	root.Detach()
	d.root = root
}

// Head returns the head element directly below the root, or nil.
func (d *Document) Head() *Node {
	return d.topLevel("head")
}

// Body returns the body element directly below the root, or nil.
func (d *Document) Body() *Node {
	return d.topLevel("body")
}

func (d *Document) topLevel(tag string) *Node {
	if d.root == nil {
		return nil
	}
	for _, c := range d.root.children {
		if c.IsElement(tag) {
			return c
		}
	}
	return nil
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	if d.root == nil {
		return &Document{}
	}
	return &Document{root: d.root.Clone()}
}
