package fixups

import (
	"regexp"
	"slices"
	"unicode/utf8"

	"github.com/alnah/go-docx2html/internal/docx"
	"github.com/alnah/go-docx2html/internal/dom"
)

// listMarker matches the markers of paragraphs that become list items.
var listMarker = regexp.MustCompile(`^(?:•|[1-9][0-9]*\.|[a-z]\.?|[ivxlcdm]+\.)\t$`)

// bulletListOffset is how far, in points, a non-list paragraph must be
// indented past a list to stay inside it.
const bulletListOffset = 36

// nestedProcOffset is how far a "1." list must be indented past its parent
// to count as a nested procedure.
const nestedProcOffset = 27

type openList struct {
	node   *dom.Node // nil for the container itself
	margin float64
	bullet bool
	depth  int
}

// lists groups numbered paragraphs into ol and ul elements and unwraps
// every marker that does not start a list item.
func lists(env *Env, doc *dom.Document) error {
	const pass = "lists"
	_, body, err := skeleton(pass, doc)
	if err != nil {
		return err
	}
	for _, c := range paragraphContainers(body) {
		if !slices.ContainsFunc(c.ElementChildren("p"), func(p *dom.Node) bool { return isListItem(env, p) }) {
			continue
		}
		if err := buildLists(env, pass, c); err != nil {
			return err
		}
	}

	// Markers left over belong to plain paragraphs. Heading markers stay
	// for the section numbering.
	markers := slices.Collect(dom.FindAll(body, isMarker))
	for _, m := range markers {
		p := m.Parent()
		if m.Index() == 0 && p.IsElement("p") && env.isHeadingStyle(p.GetAttr(attrStyle)) {
			continue
		}
		if err := unwrapMarker(m); err != nil {
			return err
		}
	}
	return nil
}

func isListItem(env *Env, p *dom.Node) bool {
	if !p.IsElement("p") {
		return false
	}
	numID, ok := p.Style.Get(keyNumID)
	if !ok || numID == "0" || env.isHeadingStyle(p.GetAttr(attrStyle)) {
		return false
	}
	m := leadingMarker(p)
	return m != nil && listMarker.MatchString(dom.TextContent(m))
}

func itemMargin(p *dom.Node) float64 {
	v, _ := docx.Points(p.StyleValue(keyIndent))
	return v
}

func buildLists(env *Env, pass string, c *dom.Node) error {
	kids := c.RemoveChildren()
	stack := []openList{{margin: -1000}}
	top := func() *openList { return &stack[len(stack)-1] }

	appendItem := func(n *dom.Node) error {
		t := top()
		if t.node == nil {
			return dom.AppendChild(c, n)
		}
		li := t.node.LastChild()
		if !li.IsElement("li") {
			return mismatch(pass, t.node, "a list item to continue", "%s", describe(li))
		}
		return dom.AppendChild(li, n)
	}

	for _, k := range kids {
		if !isListItem(env, k) {
			margin := -float64(bulletListOffset)
			if k.IsElement("p") {
				margin = itemMargin(k) - bulletListOffset
			}
			for len(stack) > 1 && top().margin > margin {
				stack = stack[:len(stack)-1]
			}
			if err := appendItem(k); err != nil {
				return err
			}
			continue
		}

		margin := itemMargin(k)
		marker := leadingMarker(k)
		text := dom.TextContent(marker)
		bullet := text == "•\t"
		for len(stack) > 1 && top().margin > margin {
			stack = stack[:len(stack)-1]
		}
		if margin > top().margin || (top().bullet && !bullet) {
			var list *dom.Node
			depth := 0
			t := top()
			switch {
			case bullet:
				list = dom.NewElement("ul")
			case t.node == nil || t.bullet:
				list = dom.NewElement("ol").WithClass("proc")
			case margin > t.margin+nestedProcOffset && text == "1.\t":
				list = dom.NewElement("ol").WithClass("nested").WithClass("proc")
			default:
				list = dom.NewElement("ol").WithClass("block")
				depth = t.depth + 1
			}
			if err := appendItem(list); err != nil {
				return err
			}
			stack = append(stack, openList{node: list, margin: margin, bullet: bullet, depth: depth})
		}
		if margin != top().margin {
			return mismatch(pass, c, "list items indented like their list",
				"item %q at %s against list at %s", truncate(dom.TextContent(k), 40),
				docx.FormatPoints(margin), docx.FormatPoints(top().margin))
		}

		marker.Detach()
		k.Tag = "li"
		k.Style.Delete(keyNumID)
		k.Style.Delete(keyIlvl)
		if err := dom.AppendChild(top().node, k); err != nil {
			return err
		}
	}
	return nil
}

// longItemLength is the average item length, in characters, past which a
// bullet list reads as a list of paragraphs.
const longItemLength = 80

// listParagraphs wraps the leading inline content of every item of a long
// top-level bullet list in a paragraph, so that items space like the
// paragraphs they are.
func listParagraphs(_ *Env, doc *dom.Document) error {
	const pass = "list_paragraphs"
	_, body, err := skeleton(pass, doc)
	if err != nil {
		return err
	}
	uls := slices.Collect(dom.FindAll(body, func(n *dom.Node) bool {
		return n.IsElement("ul") && n.Ancestor("li") == nil
	}))
	for _, ul := range uls {
		items := ul.ElementChildren("li")
		if len(items) == 0 {
			continue
		}
		total := 0
		inline := true
		for _, li := range items {
			if first := li.FirstChild(); first == nil || isBlockNode(first) {
				inline = false
				break
			}
			total += utf8.RuneCountInString(normalizeSpace(dom.TextContent(li)))
		}
		if !inline || total/len(items) <= longItemLength {
			continue
		}
		for _, li := range items {
			end := slices.IndexFunc(li.Children(), isBlockNode)
			if end < 0 {
				end = li.ChildCount()
			}
			if err := dom.WrapRange(li, 0, end, dom.NewElement("p")); err != nil {
				return err
			}
		}
	}
	return nil
}
