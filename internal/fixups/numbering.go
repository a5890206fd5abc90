package fixups

import (
	"slices"
	"strconv"

	"github.com/alnah/go-docx2html/internal/docx"
	"github.com/alnah/go-docx2html/internal/dom"
)

// stripEmptyParagraphs removes paragraphs without any content.
func stripEmptyParagraphs(_ *Env, doc *dom.Document) error {
	_, body, err := skeleton("strip_empty_paragraphs", doc)
	if err != nil {
		return err
	}
	empty := slices.Collect(dom.FindAll(body, func(n *dom.Node) bool {
		return n.IsElement("p") && n.ChildCount() == 0
	}))
	for _, p := range empty {
		moveBookmarks(p)
		p.Detach()
	}
	return nil
}

// numberingRef is the numbering instance a paragraph points at.
type numberingRef struct {
	numID string
	ilvl  int
}

// addNumbering computes the list marker of every numbered paragraph and
// records its effective indentation for the lists pass.
func addNumbering(env *Env, doc *dom.Document) error {
	const pass = "add_numbering"
	_, body, err := skeleton(pass, doc)
	if err != nil {
		return err
	}
	counters := make(map[string][]int) // abstractNumId -> current numbers
	seen := make(map[string]bool)      // numIds already started

	for _, c := range paragraphContainers(body) {
		for _, p := range c.ElementChildren("p") {
			if !p.HasAttr(attrStyle) || leadingMarker(p) != nil || p.Style.Has(keyIndent) {
				continue
			}
			css, ref, err := computedStyle(env, pass, p)
			if err != nil {
				return err
			}
			if ref.numID != "" {
				levels, _ := env.Source.Numbering.Levels(ref.numID)
				abs, _ := env.Source.Numbering.AbstractID(ref.numID)
				cur := counters[abs]
				switch {
				case len(cur) < ref.ilvl+1:
					for i := len(cur); i <= ref.ilvl; i++ {
						cur = append(cur, levels[i].Start)
					}
				default:
					cur = cur[:ref.ilvl+1]
					if !seen[ref.numID] {
						cur[ref.ilvl] = levels[ref.ilvl].Start
					} else {
						cur[ref.ilvl]++
					}
				}
				counters[abs] = cur
				seen[ref.numID] = true

				if marker := docx.RenderMarker(levels, cur); marker != "" {
					m := dom.NewElement("span", dom.NewText(marker)).WithAttr(attrMarker, "")
					if err := dom.InsertAt(p, 0, m); err != nil {
						return err
					}
				}
				p.SetStyle(keyNumID, ref.numID)
				p.SetStyle(keyIlvl, strconv.Itoa(ref.ilvl))
			}
			margin, _ := docx.Points(css.Value("margin-left"))
			indent, _ := docx.Points(css.Value("text-indent"))
			p.SetStyle(keyIndent, docx.FormatPoints(margin+indent))
		}
	}
	return nil
}

// computedStyle merges, from weakest to strongest, the numbering level of
// the paragraph style, the paragraph style itself, the numbering level of
// the paragraph and the paragraph's own properties.
func computedStyle(env *Env, pass string, p *dom.Node) (*dom.Style, numberingRef, error) {
	id := p.GetAttr(attrStyle)
	st, ok := env.Source.Styles.Lookup(id)
	if !ok && id != "" {
		return nil, numberingRef{}, mismatch(pass, p, "a paragraph style defined in styles.xml", "unknown style %q", id)
	}
	var full *dom.Style
	if st != nil {
		full = st.Full
	}

	css := dom.NewStyle()
	var ref numberingRef
	apply := func(src *dom.Style) error {
		numID, ok := src.Get(keyNumID)
		if !ok {
			return nil
		}
		ilvl, _ := strconv.Atoi(src.Value(keyIlvl))
		if numID == "0" {
			ref = numberingRef{}
			return nil
		}
		lvl, ok := env.Source.Numbering.Level(numID, ilvl)
		if !ok {
			return mismatch(pass, p, "a numbering definition in numbering.xml",
				"numId %s level %d", numID, ilvl)
		}
		css.Update(lvl.Style)
		ref = numberingRef{numID: numID, ilvl: ilvl}
		return nil
	}
	if err := apply(full); err != nil {
		return nil, ref, err
	}
	css.Update(full)
	if err := apply(p.Style); err != nil {
		return nil, ref, err
	}
	css.Update(p.Style)
	return css, ref, nil
}
