package fixups

import (
	"strings"

	"github.com/alnah/go-docx2html/internal/docx"
	"github.com/alnah/go-docx2html/internal/dom"
)

// Transient markers. Builder markers are re-exported from docx; the rest
// are written by passes and consumed by later ones.
const (
	attrStyle       = docx.AttrStyle
	attrBookmark    = docx.AttrBookmark
	attrRef         = docx.AttrRef
	attrFootnoteRef = docx.AttrFootnoteRef
	attrFootnote    = docx.AttrFootnote
	attrSymbol      = docx.AttrSymbol
	attrPicture     = docx.AttrPicture
	attrMarker      = "data-docx-marker"
	attrGrammar     = "data-docx-grammar"

	keyNumID  = docx.KeyNumID
	keyIlvl   = docx.KeyIlvl
	keyIndent = "-docx-indent"

	transientAttrPrefix  = "data-docx-"
	transientStylePrefix = "-docx-"
)

// tagLevel returns 1 to 6 for h1 to h6, or 0.
func tagLevel(tag string) int {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 0
}

var headingTags = []string{"h1", "h2", "h3", "h4", "h5", "h6"}

func isMarker(n *dom.Node) bool {
	return n.IsElement("span") && n.HasAttr(attrMarker)
}

// leadingMarker returns the list marker span at the start of n, or nil.
func leadingMarker(n *dom.Node) *dom.Node {
	if first := n.FirstChild(); isMarker(first) {
		return first
	}
	return nil
}

// unwrapMarker replaces a marker span by its text.
func unwrapMarker(m *dom.Node) error {
	p := m.Parent()
	if err := dom.Unwrap(m); err != nil {
		return err
	}
	dom.Normalize(p)
	return nil
}

// skeleton asserts the html > head + body shape every pass relies on.
func skeleton(pass string, doc *dom.Document) (head, body *dom.Node, err error) {
	root := doc.Root()
	if !root.IsElement("html") {
		return nil, nil, mismatch(pass, root, "<html> root", "%s", describe(root))
	}
	head, body = doc.Head(), doc.Body()
	if head == nil || body == nil {
		return nil, nil, mismatch(pass, root, "<head> and <body> children", "%d children", root.ChildCount())
	}
	return head, body, nil
}

// requireResolvedStyles fails when paragraph_classes has not run yet.
func requireResolvedStyles(pass string, root *dom.Node) error {
	if n := dom.FindFirst(root, dom.ByAttr(attrStyle)); n != nil {
		return mismatch(pass, n, "Word paragraph styles resolved by paragraph_classes",
			"%s with %s=%q", describe(n), attrStyle, n.GetAttr(attrStyle))
	}
	return nil
}

// paragraphContainers returns the elements whose children are paragraphs:
// body, table cells and footnote bodies.
func paragraphContainers(body *dom.Node) []*dom.Node {
	out := []*dom.Node{body}
	for n := range dom.FindAll(body, dom.Elements) {
		if n.IsElement("td", "th") || (n.IsElement("div") && n.HasAttr(attrFootnote)) {
			out = append(out, n)
		}
	}
	return out
}

// moveBookmarks hands the bookmarks of a node about to disappear to the
// nearest surviving sibling.
func moveBookmarks(from *dom.Node) {
	names := from.GetAttr(attrBookmark)
	if names == "" {
		return
	}
	to := nextElement(from)
	if to == nil {
		to = prevElement(from)
	}
	if to == nil {
		to = from.Parent()
	}
	if to == nil || !to.IsElement() {
		return
	}
	if prev := to.GetAttr(attrBookmark); prev != "" {
		names = prev + " " + names
	}
	to.SetAttr(attrBookmark, names)
	from.RemoveAttr(attrBookmark)
}

func nextElement(n *dom.Node) *dom.Node {
	for s := n.NextSibling(); s != nil; s = s.NextSibling() {
		if s.IsElement() {
			return s
		}
	}
	return nil
}

func prevElement(n *dom.Node) *dom.Node {
	for s := n.PrevSibling(); s != nil; s = s.PrevSibling() {
		if s.IsElement() {
			return s
		}
	}
	return nil
}

// normalizeSpace collapses runs of white space to single spaces.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// sectionHeading returns the heading that opens sec: its first element,
// or the first element of a leading div.front.
func sectionHeading(sec *dom.Node) *dom.Node {
	first := sec.FirstElementChild()
	if first.IsElement("div") && first.HasClass("front") {
		first = first.FirstElementChild()
	}
	if tagLevel(tagOf(first)) > 0 {
		return first
	}
	return nil
}

func tagOf(n *dom.Node) string {
	if !n.IsElement() {
		return ""
	}
	return n.Tag
}

// headingParts splits a section heading into its number and title text.
func headingParts(h *dom.Node) (secnum, title string) {
	var b strings.Builder
	for _, c := range h.Children() {
		switch {
		case c.IsElement("span") && c.HasClass("secnum"):
			secnum = strings.TrimSpace(dom.TextContent(c))
		case isMarker(c), c.IsElement("span") && c.HasClass("redirect"):
		default:
			b.WriteString(dom.TextContent(c))
		}
	}
	return secnum, normalizeSpace(b.String())
}

// nearestID returns the id of the closest section at or above n.
func nearestID(n *dom.Node) string {
	for p := n; p != nil; p = p.Parent() {
		if p.IsElement("section") {
			if id := p.GetAttr("id"); id != "" {
				return id
			}
		}
	}
	return ""
}

// ignoredHeading reports whether h lives in a region the section passes
// leave alone: tables, list items and the inserted notice.
func ignoredHeading(h *dom.Node) bool {
	for p := h.Parent(); p != nil; p = p.Parent() {
		if p.IsElement("table", "li") || p.GetAttr("id") == "unofficial" {
			return true
		}
	}
	return false
}
