package fixups

import (
	"slices"
	"strings"
	"unicode"

	"github.com/alnah/go-docx2html/internal/dom"
)

// Inline wrappers dropped when spacing leaves them empty.
var droppable = map[string]bool{"span": true, "i": true, "b": true, "sub": true, "sup": true}

// elementSpacing moves leading and trailing white space out of inline
// elements and drops it at the edges of blocks.
func elementSpacing(_ *Env, doc *dom.Document) error {
	_, body, err := skeleton("element_spacing", doc)
	if err != nil {
		return err
	}
	return spaceOut(body)
}

func spaceOut(e *dom.Node) error {
	for _, k := range e.ElementChildren() {
		if k.IsElement("pre") || isMarker(k) {
			continue
		}
		if err := spaceOut(k); err != nil {
			return err
		}
		if err := spaceEdges(k); err != nil {
			return err
		}
	}
	dom.Normalize(e)
	return nil
}

// spaceEdges trims k and, when k is inline, re-inserts the white space
// next to it in its parent.
func spaceEdges(k *dom.Node) error {
	discard := dom.IsBlock(k.Tag)
	first := 0
	if leadingMarker(k) != nil {
		first = 1
	}
	if c := k.Child(first); c.IsText() {
		trimmed := strings.TrimLeftFunc(c.Data, unicode.IsSpace)
		if lead := c.Data[:len(c.Data)-len(trimmed)]; lead != "" {
			c.Data = trimmed
			if !discard {
				if err := dom.InsertBefore(k.Parent(), dom.NewText(lead), k); err != nil {
					return err
				}
			}
		}
	}
	if c := k.LastChild(); c.IsText() && c.Index() >= first {
		trimmed := strings.TrimRightFunc(c.Data, unicode.IsSpace)
		if trail := c.Data[len(trimmed):]; trail != "" {
			c.Data = trimmed
			if !discard {
				if err := dom.InsertAfter(k.Parent(), dom.NewText(trail), k); err != nil {
					return err
				}
			}
		}
	}
	dom.Normalize(k)

	if droppable[k.Tag] && k.AttrCount() == 0 && k.ChildCount() == 0 {
		k.Detach()
		return nil
	}
	if k.IsElement("p") && k.ChildCount() == 0 {
		moveBookmarks(k)
		k.Detach()
	}
	return nil
}

// bubbleHR splits paragraphs around the page breaks they contain.
func bubbleHR(_ *Env, doc *dom.Document) error {
	_, body, err := skeleton("hr", doc)
	if err != nil {
		return err
	}
	paras := slices.Collect(dom.FindAll(body, func(n *dom.Node) bool {
		return n.IsElement("p") && slices.ContainsFunc(n.Children(), func(c *dom.Node) bool { return c.IsElement("hr") })
	}))
	for _, p := range paras {
		parent, at := p.Parent(), p.Index()
		parts := splitAtHR(p)
		if _, err := dom.Splice(parent, at, at+1, parts...); err != nil {
			return err
		}
	}
	return nil
}

// splitAtHR returns the pieces of p: paragraphs with content and the hr
// elements that separated them. Bookmarks go to the first paragraph kept.
func splitAtHR(p *dom.Node) []*dom.Node {
	bookmarks := p.GetAttr(attrBookmark)
	p.RemoveAttr(attrBookmark)
	template := p.Clone()
	template.RemoveChildren()

	var out []*dom.Node
	cur := template.Clone()
	flush := func() {
		if cur.ChildCount() > 0 && !dom.IsBlank(cur) {
			if bookmarks != "" {
				cur.SetAttr(attrBookmark, bookmarks)
				bookmarks = ""
			}
			out = append(out, cur)
		}
		cur = template.Clone()
	}
	for _, c := range p.RemoveChildren() {
		if c.IsElement("hr") {
			flush()
			out = append(out, c)
			continue
		}
		_ = dom.AppendChild(cur, c)
	}
	flush()
	if bookmarks != "" {
		// Nothing but page breaks: keep the bookmark on the first hr.
		out[0].SetAttr(attrBookmark, bookmarks)
	}
	return out
}
