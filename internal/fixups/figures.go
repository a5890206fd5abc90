package fixups

import (
	"regexp"
	"slices"
	"strings"
	"unicode"

	"github.com/alnah/go-docx2html/internal/dom"
)

// captionLabel matches the "Table 3" or "Figure A.1" that opens a caption.
var captionLabel = regexp.MustCompile(`^(Table|Figure)\s+([0-9]+(?:[.-][0-9]+)*|[A-Z](?:[.-][0-9]+)*)\b`)

// labelID matches the ids figures gives caption labels.
var labelID = regexp.MustCompile(`^(?:table|figure)-`)

// figures wraps each caption paragraph and the table or image it
// describes into a figure with a figcaption. A caption opening with
// "Table N" or "Figure N" gets that label as a span with id table-N or
// figure-N, for links. Captions next to nothing they can describe stay
// paragraphs.
func figures(env *Env, doc *dom.Document) error {
	const pass = "figures"
	_, body, err := skeleton(pass, doc)
	if err != nil {
		return err
	}
	if err := requireResolvedStyles(pass, body); err != nil {
		return err
	}
	ids := make(map[string]bool)
	for n := range dom.FindAll(doc.Root(), dom.ByAttr("id")) {
		ids[n.GetAttr("id")] = true
	}

	captions := slices.Collect(dom.FindAll(body, func(n *dom.Node) bool {
		return n.IsElement("p") && n.HasClass("caption") && n.Ancestor("figure") == nil
	}))
	for _, c := range captions {
		kind := ""
		if m := captionLabel.FindStringSubmatch(strings.TrimSpace(dom.TextContent(c))); m != nil {
			kind = m[1]
		}
		subject, first := captionSubject(c, kind)
		if subject == nil {
			env.Logger.Debug().Str("path", dom.Path(c)).Msg("caption describes no table or image")
			continue
		}
		if err := labelCaption(pass, c, ids); err != nil {
			return err
		}
		if err := buildFigure(c, subject, first); err != nil {
			return err
		}
	}
	return nil
}

// captionSubject picks the sibling a caption describes and reports whether
// the caption comes first. Tables are captioned above, images below; an
// unlabelled caption takes whichever neighbour fits, the next one first.
func captionSubject(c *dom.Node, kind string) (subject *dom.Node, captionFirst bool) {
	next, prev := nextElement(c), prevElement(c)
	isTable := func(n *dom.Node) bool { return n.IsElement("table") }
	isAny := func(n *dom.Node) bool { return isTable(n) || isImageParagraph(n) }

	switch kind {
	case "Table":
		if isTable(next) {
			return next, true
		}
		if isTable(prev) {
			return prev, false
		}
	case "Figure":
		if isImageParagraph(prev) {
			return prev, false
		}
		if isImageParagraph(next) {
			return next, true
		}
	default:
		if isAny(next) {
			return next, true
		}
		if isAny(prev) {
			return prev, false
		}
	}
	return nil, false
}

// isImageParagraph reports whether n is a paragraph holding only images.
func isImageParagraph(n *dom.Node) bool {
	if !n.IsElement("p") {
		return false
	}
	images := 0
	for _, c := range n.Children() {
		switch {
		case c.IsElement("img"):
			images++
		case c.IsElement("br"), c.IsText() && dom.IsBlank(c):
		default:
			return false
		}
	}
	return images > 0
}

// labelCaption wraps a leading "Table N" or "Figure N" of the caption's
// first text in a span carrying the label id.
func labelCaption(pass string, c *dom.Node, ids map[string]bool) error {
	t := dom.FindFirst(c, func(n *dom.Node) bool { return n.IsText() && !dom.IsBlank(n) })
	if t == nil {
		return nil
	}
	lead := len(t.Data) - len(strings.TrimLeftFunc(t.Data, unicode.IsSpace))
	loc := captionLabel.FindStringSubmatchIndex(t.Data[lead:])
	if loc == nil {
		return nil
	}
	kind, num := t.Data[lead+loc[2]:lead+loc[3]], t.Data[lead+loc[4]:lead+loc[5]]
	id := strings.ToLower(kind) + "-" + num
	if ids[id] {
		return mismatch(pass, c, "caption labels used once", "a second %s %s", kind, num)
	}
	ids[id] = true

	var out []*dom.Node
	if lead > 0 {
		out = append(out, dom.NewText(t.Data[:lead]))
	}
	out = append(out, dom.NewElement("span", dom.NewText(t.Data[lead:lead+loc[1]])).WithAttr("id", id))
	if rest := t.Data[lead+loc[1]:]; rest != "" {
		out = append(out, dom.NewText(rest))
	}
	parent, at := t.Parent(), t.Index()
	_, err := dom.Splice(parent, at, at+1, out...)
	return err
}

// buildFigure puts a figure where subject was, holding subject (or the
// images of an image paragraph) and the caption as figcaption.
func buildFigure(c, subject *dom.Node, captionFirst bool) error {
	figure := dom.NewElement("figure")
	if err := dom.ReplaceChild(subject.Parent(), subject, figure); err != nil {
		return err
	}
	c.Detach()
	c.Tag = "figcaption"
	c.RemoveClass("caption")

	if captionFirst {
		if err := dom.AppendChild(figure, c); err != nil {
			return err
		}
	}
	if subject.IsElement("p") {
		if names := subject.GetAttr(attrBookmark); names != "" {
			figure.SetAttr(attrBookmark, names)
		}
		for _, k := range subject.RemoveChildren() {
			if k.IsElement("img") {
				if err := dom.AppendChild(figure, k); err != nil {
					return err
				}
			}
		}
	} else if err := dom.AppendChild(figure, subject); err != nil {
		return err
	}
	if !captionFirst {
		return dom.AppendChild(figure, c)
	}
	return nil
}

// figureLabelID returns the label id of the figure holding n, or "".
func figureLabelID(n *dom.Node) string {
	fig := n
	if !fig.IsElement("figure") {
		fig = n.Ancestor("figure")
	}
	if fig == nil {
		return ""
	}
	label := dom.FindFirst(fig, isCaptionLabel)
	if label == nil {
		return ""
	}
	return label.GetAttr("id")
}

func isCaptionLabel(n *dom.Node) bool {
	return n.IsElement("span") && labelID.MatchString(n.GetAttr("id")) && n.Ancestor("figcaption") != nil
}
