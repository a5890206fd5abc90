package fixups

import (
	"slices"
	"strings"

	"github.com/alnah/go-docx2html/internal/docx"
	"github.com/alnah/go-docx2html/internal/dom"
)

// symbols replaces w:sym markers by the characters they draw.
func symbols(_ *Env, doc *dom.Document) error {
	const pass = "symbols"
	_, body, err := skeleton(pass, doc)
	if err != nil {
		return err
	}
	syms := slices.Collect(dom.FindAll(body, dom.ByAttr(attrSymbol)))
	for _, s := range syms {
		font, code, _ := strings.Cut(s.GetAttr(attrSymbol), ":")
		r, ok := docx.SymbolRune(font, code)
		if !ok {
			return mismatch(pass, s, "a symbol with a Unicode equivalent", "%s character %s", font, code)
		}
		parent := s.Parent()
		if err := dom.ReplaceChild(parent, s, dom.NewText(string(r))); err != nil {
			return err
		}
		dom.Normalize(parent)
	}
	return nil
}

func isPicture(n *dom.Node) bool {
	return n.IsElement("div") && n.HasAttr(attrPicture)
}

// removePicts dissolves picture markers: images stay inline where the
// picture was, text boxes become paragraphs of their own after splitting
// the paragraph that anchored them. A picture with neither is dropped.
func removePicts(env *Env, doc *dom.Document) error {
	const pass = "remove_picts"
	_, body, err := skeleton(pass, doc)
	if err != nil {
		return err
	}
	markers := slices.Collect(dom.FindAll(body, isPicture))
	// Innermost first: a text box may anchor pictures of its own.
	slices.Reverse(markers)
	for _, m := range markers {
		switch {
		case m.ChildCount() == 0:
			env.Logger.Warn().
				Str("kind", m.GetAttr(attrPicture)).
				Str("path", dom.Path(m)).
				Msg("picture without image or text dropped")
			m.Detach()
		case !slices.ContainsFunc(m.Children(), isBlockNode):
			if err := dom.Unwrap(m); err != nil {
				return err
			}
		default:
			if err := hoistPicture(pass, m); err != nil {
				return err
			}
		}
	}
	return nil
}

func isBlockNode(n *dom.Node) bool {
	return n.IsElement() && dom.IsBlock(n.Tag)
}

// hoistPicture replaces the paragraph holding m by the content before m,
// the content of m and the content after m. Inline runs of m get a
// paragraph like the anchoring one.
func hoistPicture(pass string, m *dom.Node) error {
	p := m.Parent()
	if !p.IsElement("p") {
		return mismatch(pass, m, "a text box directly inside a paragraph", "inside %s", describe(p))
	}
	bookmarks := p.GetAttr(attrBookmark)
	p.RemoveAttr(attrBookmark)
	template := p.Clone()
	template.RemoveChildren()

	at := m.Index()
	kids := p.RemoveChildren()
	var out []*dom.Node
	keep := func(n *dom.Node) {
		if n.ChildCount() > 0 && !dom.IsBlank(n) {
			out = append(out, n)
		}
	}

	before := template.Clone()
	for _, c := range kids[:at] {
		_ = dom.AppendChild(before, c)
	}
	keep(before)

	run := template.Clone()
	for _, c := range m.RemoveChildren() {
		if isBlockNode(c) {
			keep(run)
			run = template.Clone()
			out = append(out, c)
			continue
		}
		_ = dom.AppendChild(run, c)
	}
	keep(run)

	after := template.Clone()
	for _, c := range kids[at+1:] {
		_ = dom.AppendChild(after, c)
	}
	keep(after)

	if bookmarks != "" {
		if prev := out[0].GetAttr(attrBookmark); prev != "" {
			bookmarks += " " + prev
		}
		out[0].SetAttr(attrBookmark, bookmarks)
	}
	parent, i := p.Parent(), p.Index()
	_, err := dom.Splice(parent, i, i+1, out...)
	return err
}
