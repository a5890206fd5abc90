package fixups

import (
	"slices"
	"strconv"
	"strings"

	"github.com/alnah/go-docx2html/internal/dom"
)

// sections nests top-level content into section elements by heading
// level and splits each heading's number into span.secnum.
func sections(env *Env, doc *dom.Document) error {
	const pass = "sections"
	_, body, err := skeleton(pass, doc)
	if err != nil {
		return err
	}
	if err := requireResolvedStyles(pass, body); err != nil {
		return err
	}

	topLevel := false
	for h := range dom.FindAll(body, dom.ByTag(headingTags...)) {
		if ignoredHeading(h) {
			continue
		}
		if h.Parent() == body {
			topLevel = true
			continue
		}
		if !placedHeading(h) {
			return mismatch(pass, h, "a heading at the top level or opening its section",
				"heading inside %s", describe(h.Parent()))
		}
	}

	// Heading markers carry the section numbers Word computed.
	for _, m := range slices.Collect(dom.FindAll(body, isMarker)) {
		if err := unwrapMarker(m); err != nil {
			return err
		}
	}
	if !topLevel {
		return nil
	}

	if err := checkLevels(pass, body); err != nil {
		return err
	}

	type open struct {
		level int
		sec   *dom.Node
	}
	var stack []open
	var numbers *numberingState
	if env.Options.NumberSections {
		numbers = newNumberingState()
	}

	for _, k := range body.RemoveChildren() {
		level := dom.HeadingLevel(k)
		switch {
		case level > 0:
			for len(stack) > 0 && stack[len(stack)-1].level >= level {
				stack = stack[:len(stack)-1]
			}
			if err := splitSecnum(k, numbers, level); err != nil {
				return err
			}
			k.Style.Delete(keyNumID)
			k.Style.Delete(keyIlvl)
			sec := dom.NewElement("section", k)
			parent := body
			if len(stack) > 0 {
				parent = stack[len(stack)-1].sec
			}
			if err := dom.AppendChild(parent, sec); err != nil {
				return err
			}
			stack = append(stack, open{level: level, sec: sec})
			continue
		case k.IsElement("section"), k.IsElement("div") && k.HasAttr(attrFootnote):
			stack = nil
		}
		parent := body
		if len(stack) > 0 {
			parent = stack[len(stack)-1].sec
		}
		if err := dom.AppendChild(parent, k); err != nil {
			return err
		}
	}
	return nil
}

// placedHeading reports whether h opens a section, directly or through
// the section's div.front.
func placedHeading(h *dom.Node) bool {
	p := h.Parent()
	if p.FirstElementChild() != h {
		return false
	}
	if p.IsElement("section") {
		return true
	}
	if p.IsElement("div") && p.HasClass("front") {
		return p.Parent().IsElement("section") && p.Parent().FirstElementChild() == p
	}
	return false
}

// checkLevels rejects headings more than one level below the heading that
// encloses them.
func checkLevels(pass string, body *dom.Node) error {
	var levels []int
	for _, k := range body.Children() {
		level := dom.HeadingLevel(k)
		switch {
		case level > 0:
			for len(levels) > 0 && levels[len(levels)-1] >= level {
				levels = levels[:len(levels)-1]
			}
			if len(levels) > 0 && level > levels[len(levels)-1]+1 {
				return mismatch(pass, k, "a heading at most one level below the enclosing one",
					"h%d under h%d", level, levels[len(levels)-1])
			}
			levels = append(levels, level)
		case k.IsElement("section"), k.IsElement("div") && k.HasAttr(attrFootnote):
			levels = nil
		}
	}
	return nil
}

// splitSecnum turns a leading "7.9<TAB>" into span.secnum. Without one,
// and when numbers is set, a generated number is inserted.
func splitSecnum(h *dom.Node, numbers *numberingState, level int) error {
	if first := h.FirstChild(); first.IsText() {
		s := strings.TrimLeft(first.Data, " ")
		if num, title, ok := strings.Cut(s, "\t"); ok && strings.TrimSpace(num) != "" {
			repl := []*dom.Node{dom.NewElement("span", dom.NewText(strings.TrimSpace(num))).WithClass("secnum")}
			if title = strings.TrimLeft(title, " \t"); title != "" || h.ChildCount() > 1 {
				repl = append(repl, dom.NewText(" "+title))
			}
			_, err := dom.Splice(h, 0, 1, repl...)
			return err
		}
	}
	if numbers == nil {
		return nil
	}
	num, _ := numbers.next(level)
	span := dom.NewElement("span", dom.NewText(strings.TrimSuffix(num, "."))).WithClass("secnum")
	if _, err := dom.Splice(h, 0, 0, span, dom.NewText(" ")); err != nil {
		return err
	}
	dom.Normalize(h)
	return nil
}

// numberingState tracks hierarchical section numbers. The first heading
// seen is level 1 and skipped levels count as direct children.
type numberingState struct {
	counters     [6]int // counters[0] = level 1 count, etc.
	minLevelSeen int    // 0 = not set
	lastLevel    int
}

func newNumberingState() *numberingState {
	return &numberingState{}
}

// next returns the number string ("1.2.3.") and effective depth for a
// heading of the given level.
func (n *numberingState) next(level int) (numStr string, effectiveDepth int) {
	if n.minLevelSeen == 0 {
		n.minLevelSeen = level
	}
	effectiveDepth = max(level-n.minLevelSeen+1, 1)
	if n.lastLevel > 0 && effectiveDepth > n.lastLevel+1 {
		effectiveDepth = n.lastLevel + 1
	}
	for i := effectiveDepth; i < 6; i++ {
		n.counters[i] = 0
	}
	n.counters[effectiveDepth-1]++
	n.lastLevel = effectiveDepth

	parts := make([]string, 0, effectiveDepth)
	for i := range effectiveDepth {
		parts = append(parts, strconv.Itoa(n.counters[i]))
	}
	return strings.Join(parts, ".") + ".", effectiveDepth
}
