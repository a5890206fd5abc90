package fixups

import (
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/alnah/go-docx2html/internal/dom"
)

var tocStyle = regexp.MustCompile(`^(?:TOC[1-9]|TOCHeading)$`)

// stripTOC replaces Word's generated table of contents by an empty
// section#contents that generate_toc fills in later.
func stripTOC(_ *Env, doc *dom.Document) error {
	const pass = "strip_toc"
	_, body, err := skeleton(pass, doc)
	if err != nil {
		return err
	}
	entries := slices.Collect(dom.FindAll(body, func(n *dom.Node) bool {
		return n.IsElement("p") && tocStyle.MatchString(n.GetAttr(attrStyle))
	}))
	if len(entries) == 0 {
		return nil
	}
	if existing := dom.FindFirst(body, isContents); existing != nil {
		return mismatch(pass, existing, "at most one table of contents", "a second one")
	}
	for _, p := range entries {
		if p.Parent() != body {
			return mismatch(pass, p, "table of contents entries at the top level", "entry inside %s", describe(p.Parent()))
		}
	}
	placeholder := dom.NewElement("section").WithAttr("id", "contents")
	if err := dom.ReplaceChild(body, entries[0], placeholder); err != nil {
		return err
	}
	for _, p := range entries[1:] {
		moveBookmarks(p)
		p.Detach()
	}
	return nil
}

func isContents(n *dom.Node) bool {
	return n.IsElement("section") && n.GetAttr("id") == "contents"
}

// paragraphClasses turns Word paragraph styles into tags and classes.
func paragraphClasses(env *Env, doc *dom.Document) error {
	_, body, err := skeleton("paragraph_classes", doc)
	if err != nil {
		return err
	}
	unknown := make(map[string]int)
	for n := range dom.FindAll(body, dom.ByAttr(attrStyle)) {
		id := n.GetAttr(attrStyle)
		n.RemoveAttr(attrStyle)
		t, ok := env.styleMap[id]
		if !ok {
			unknown[id]++
			continue
		}
		if n.IsElement("li") {
			continue
		}
		switch {
		case t.Grammar != "":
			n.Tag = "div"
			n.SetAttr(attrGrammar, t.Grammar)
		case t.Tag != "":
			n.Tag = t.Tag
		}
		if t.Class != "" {
			n.AddClass(t.Class)
		}
	}
	if len(unknown) > 0 {
		ids := make([]string, 0, len(unknown))
		for id := range unknown {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			env.Logger.Warn().Str("style", id).Int("count", unknown[id]).Msg("unknown paragraph style")
		}
	}
	return nil
}

// removeEmptyHeadings drops headings with no visible text.
func removeEmptyHeadings(_ *Env, doc *dom.Document) error {
	_, body, err := skeleton("remove_empty_headings", doc)
	if err != nil {
		return err
	}
	empty := slices.Collect(dom.FindAll(body, func(n *dom.Node) bool {
		return tagLevel(tagOf(n)) > 0 && emptyHeading(n)
	}))
	for _, h := range empty {
		moveBookmarks(h)
		h.Detach()
	}
	return nil
}

func emptyHeading(h *dom.Node) bool {
	for _, c := range h.Children() {
		switch {
		case isMarker(c):
		case c.IsText():
			if strings.TrimSpace(c.Data) != "" {
				return false
			}
		case c.IsElement("span", "br", "i", "b"):
			if !emptyHeading(c) {
				return false
			}
		case c.IsElement():
			return false
		}
	}
	return true
}
