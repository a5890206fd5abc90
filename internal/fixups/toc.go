package fixups

import (
	"slices"

	"github.com/alnah/go-docx2html/internal/dom"
)

// generateTOC fills the empty section#contents left by strip_toc with a
// nested list of links to the sections.
func generateTOC(env *Env, doc *dom.Document) error {
	const pass = "generate_toc"
	_, body, err := skeleton(pass, doc)
	if err != nil {
		return err
	}
	if err := requireResolvedStyles(pass, body); err != nil {
		return err
	}
	if err := requireSections(pass, body); err != nil {
		return err
	}
	var placeholder *dom.Node
	for _, k := range body.ElementChildren("section") {
		if isContents(k) {
			placeholder = k
			break
		}
	}
	if placeholder == nil || placeholder.ChildCount() > 0 {
		return nil
	}

	title := dom.NewElement("h1", dom.NewText(env.Options.TOCTitle))
	if err := dom.AppendChild(placeholder, title); err != nil {
		return err
	}
	if ol := tocList(body, 1, env.Options.TOCMaxDepth); ol != nil {
		return dom.AppendChild(placeholder, ol)
	}
	return nil
}

// tocList lists the sections directly below parent, or returns nil.
func tocList(parent *dom.Node, depth, maxDepth int) *dom.Node {
	ol := dom.NewElement("ol").WithClass("toc")
	for _, sec := range parent.ElementChildren("section") {
		h := sectionHeading(sec)
		id := sec.GetAttr("id")
		if h == nil || id == "" || isContents(sec) {
			continue
		}
		a := dom.NewElement("a", tocEntry(h)...).WithAttr("href", "#"+id)
		li := dom.NewElement("li", a)
		if depth < maxDepth {
			if sub := tocList(sec, depth+1, maxDepth); sub != nil {
				_ = dom.AppendChild(li, sub)
			}
		}
		_ = dom.AppendChild(ol, li)
	}
	if ol.ChildCount() == 0 {
		return nil
	}
	return ol
}

// tocEntry copies the content of a heading without its links, ids and
// redirect anchors.
func tocEntry(h *dom.Node) []*dom.Node {
	c := h.Clone()
	drop := slices.Collect(dom.FindAll(c, func(n *dom.Node) bool {
		return n.IsElement("span") && n.HasClass("redirect")
	}))
	for _, n := range drop {
		n.Detach()
	}
	links := slices.Collect(dom.FindAll(c, dom.ByTag("a")))
	for _, a := range slices.Backward(links) {
		_ = dom.Unwrap(a)
	}
	for n := range dom.FindAll(c, dom.ByAttr("id")) {
		n.RemoveAttr("id")
	}
	dom.Normalize(c)
	return c.RemoveChildren()
}

// sticky wraps the front matter of sections that have subsections in
// div.front, so the heading can stay in view while it is read.
func sticky(_ *Env, doc *dom.Document) error {
	const pass = "sticky"
	_, body, err := skeleton(pass, doc)
	if err != nil {
		return err
	}
	if err := requireSections(pass, body); err != nil {
		return err
	}
	secs := slices.Collect(dom.FindAll(body, dom.ByTag("section")))
	for _, sec := range secs {
		first := sec.FirstElementChild()
		if tagLevel(tagOf(first)) == 0 {
			continue
		}
		sub := sec.ElementChildren("section")
		if len(sub) == 0 {
			continue
		}
		if err := dom.WrapRange(sec, 0, sub[0].Index(), dom.NewElement("div").WithClass("front")); err != nil {
			return err
		}
	}
	return nil
}
