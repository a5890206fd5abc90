package fixups

import (
	"slices"
	"strconv"

	"github.com/alnah/go-docx2html/internal/dom"
)

// footnotes numbers footnote references in reading order and moves the
// bodies into a trailing section#footnotes with back links.
func footnotes(_ *Env, doc *dom.Document) error {
	const pass = "footnotes"
	_, body, err := skeleton(pass, doc)
	if err != nil {
		return err
	}
	refs := slices.Collect(dom.FindAll(body, dom.ByAttr(attrFootnoteRef)))
	notes := slices.Collect(dom.FindAll(body, dom.ByAttr(attrFootnote)))
	if len(refs) == 0 && len(notes) == 0 {
		return nil
	}
	if existing := dom.FindFirst(body, func(n *dom.Node) bool {
		return n.IsElement("section") && n.GetAttr("id") == "footnotes"
	}); existing != nil {
		return mismatch(pass, existing, "no footnote section before footnotes are collected", "%s", describe(existing))
	}

	byID := make(map[string]*dom.Node, len(notes))
	for _, n := range notes {
		byID[n.GetAttr(attrFootnote)] = n
	}
	number := make(map[string]int)
	var order []string
	for _, ref := range refs {
		id := ref.GetAttr(attrFootnoteRef)
		if _, ok := byID[id]; !ok {
			return mismatch(pass, ref, "a footnote body for every reference", "reference to missing footnote %s", id)
		}
		n, seen := number[id]
		if !seen {
			order = append(order, id)
			n = len(order)
			number[id] = n
		}
		num := strconv.Itoa(n)
		a := dom.NewElement("a", dom.NewText(num)).WithAttr("href", "#fn-"+num)
		if !seen {
			a.SetAttr("id", "fnref-"+num)
		}
		ref.RemoveAttr(attrFootnoteRef)
		if err := dom.SetChildren(ref, a); err != nil {
			return err
		}
	}
	for _, n := range notes {
		if _, ok := number[n.GetAttr(attrFootnote)]; !ok {
			return mismatch(pass, n, "a reference for every footnote body", "unreferenced footnote %s", n.GetAttr(attrFootnote))
		}
	}

	ol := dom.NewElement("ol")
	for i, id := range order {
		num := strconv.Itoa(i + 1)
		note := byID[id]
		note.Detach()
		li := dom.NewElement("li", note.RemoveChildren()...).WithAttr("id", "fn-"+num)
		back := dom.NewElement("a", dom.NewText("↩")).
			WithClass("footnote-backref").
			WithAttr("href", "#fnref-"+num)
		at := li
		if last := li.LastChild(); last.IsElement("p") {
			at = last
			_ = dom.AppendText(at, " ")
		}
		if err := dom.AppendChild(at, back); err != nil {
			return err
		}
		if err := dom.AppendChild(ol, li); err != nil {
			return err
		}
	}
	return dom.AppendChild(body, dom.NewElement("section", ol).WithAttr("id", "footnotes"))
}
