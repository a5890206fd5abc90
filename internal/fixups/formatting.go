package fixups

import (
	"slices"
	"strings"

	"github.com/alnah/go-docx2html/internal/dom"
)

const monospace = "monospace"

// formatting rewrites the flat run spans the builder emits into nested
// spans that carry only the properties differing from the paragraph.
func formatting(env *Env, doc *dom.Document) error {
	const pass = "formatting"
	_, body, err := skeleton(pass, doc)
	if err != nil {
		return err
	}
	paras := slices.Collect(dom.FindAll(body, func(n *dom.Node) bool {
		return n.IsElement("p") && n.HasAttr(attrStyle)
	}))
	for _, p := range paras {
		id := p.GetAttr(attrStyle)
		st, ok := env.Source.Styles.Lookup(id)
		if !ok {
			return mismatch(pass, p, "a paragraph style defined in styles.xml", "unknown style %q", id)
		}
		inherited := st.Full.Clone()
		for _, k := range inherited.Keys() {
			if strings.HasPrefix(k, transientStylePrefix) {
				inherited.Delete(k)
			}
		}
		start := 0
		if leadingMarker(p) != nil {
			start = 1
		}
		if err := formatRuns(p, start, inherited, nil); err != nil {
			return err
		}
	}
	return nil
}

type runItem struct {
	content []*dom.Node
	style   *dom.Style
}

// formatRuns rewrites the children of n from index start on. A nil
// paraStyle means n is a paragraph and its own style is derived here.
func formatRuns(n *dom.Node, start int, inherited, paraStyle *dom.Style) error {
	old, err := dom.Splice(n, start, n.ChildCount())
	if err != nil {
		return err
	}

	var items []runItem
	for _, k := range old {
		if k.IsElement("span") && k.AttrCount() == 0 {
			s := inherited.Clone()
			s.Update(k.Style)
			if kids := k.RemoveChildren(); len(kids) > 0 {
				items = append(items, runItem{content: kids, style: s})
			}
			continue
		}
		// Links, refs, breaks and footnote marks stay whole.
		items = append(items, runItem{content: []*dom.Node{k}, style: inherited})
	}
	for len(items) > 0 && blankItem(items[len(items)-1]) {
		items = items[:len(items)-1]
	}

	if paraStyle == nil {
		paraStyle = inherited.Clone()
		if paraStyle.Value("font-family") == monospace {
			paraStyle.Delete("font-family")
		}
		if len(items) > 0 {
			first := items[0].style.Value("font-family")
			last := items[len(items)-1].style.Value("font-family")
			if first != "" && first != monospace && first == last {
				paraStyle.Set("font-family", first)
			}
		}
	}

	// Nested links get the same treatment relative to the paragraph.
	for _, it := range items {
		for _, k := range it.content {
			if k.IsElement("a") || (k.IsElement("span") && k.HasAttr(attrRef)) {
				if err := formatRuns(k, 0, it.style, paraStyle); err != nil {
					return err
				}
			}
		}
	}

	var all []*dom.Node
	ranges := newRangeSet()
	current := newOpenProps()
	for _, it := range items {
		current.moveTo(it.style, paraStyle, len(all), ranges)
		all = append(all, it.content...)
	}
	current.moveTo(dom.NewStyle(), paraStyle, len(all), ranges)

	for _, r := range buildRanges(ranges.sorted(), all, 0, len(all)) {
		if err := dom.AppendChild(n, r); err != nil {
			return err
		}
	}
	dom.Normalize(n)
	return nil
}

func blankItem(it runItem) bool {
	for _, c := range it.content {
		if !c.IsSpace() {
			return false
		}
	}
	return true
}

// styleRange is a half-open span of content positions sharing properties.
type styleRange struct {
	start, stop int
	style       *dom.Style
}

type rangeSet struct {
	order []styleRange
	index map[[2]int]int
}

func newRangeSet() *rangeSet {
	return &rangeSet{index: make(map[[2]int]int)}
}

func (s *rangeSet) add(start, stop int, key, val string) {
	if start >= stop {
		return
	}
	k := [2]int{start, stop}
	i, ok := s.index[k]
	if !ok {
		i = len(s.order)
		s.index[k] = i
		s.order = append(s.order, styleRange{start: start, stop: stop, style: dom.NewStyle()})
	}
	s.order[i].style.Set(key, val)
}

// sorted orders ranges by start, widest first.
func (s *rangeSet) sorted() []styleRange {
	out := slices.Clone(s.order)
	sortRanges(out)
	return out
}

func sortRanges(rs []styleRange) {
	slices.SortStableFunc(rs, func(a, b styleRange) int {
		if a.start != b.start {
			return a.start - b.start
		}
		return b.stop - a.stop
	})
}

// openProps tracks, per property, the value in force and where it began.
type openProps struct {
	keys  []string
	start map[string]int
	val   map[string]string
}

func newOpenProps() *openProps {
	return &openProps{start: make(map[string]int), val: make(map[string]string)}
}

func (o *openProps) moveTo(style, paraStyle *dom.Style, here int, out *rangeSet) {
	kept := o.keys[:0]
	for _, k := range o.keys {
		if v, ok := style.Get(k); ok && v == o.val[k] {
			kept = append(kept, k)
			continue
		}
		out.add(o.start[k], here, k, o.val[k])
		delete(o.start, k)
		delete(o.val, k)
	}
	o.keys = kept
	for _, k := range style.Keys() {
		v := style.Value(k)
		if pv, ok := paraStyle.Get(k); ok && pv == v {
			continue
		}
		if _, open := o.val[k]; open {
			continue
		}
		o.keys = append(o.keys, k)
		o.start[k] = here
		o.val[k] = v
	}
}

// buildRanges wraps all[i0:i1] into nested spans. Ranges must be sorted
// and lie within [i0, i1).
func buildRanges(ranges []styleRange, all []*dom.Node, i0, i1 int) []*dom.Node {
	var out []*dom.Node
	i := i0
	for len(ranges) > 0 {
		r := ranges[0]
		ranges = ranges[1:]
		out = append(out, all[i:r.start]...)

		var inside, after []styleRange
		for _, q := range ranges {
			switch {
			case q.start >= r.stop:
				after = append(after, q)
			case q.stop <= r.stop:
				inside = append(inside, q)
			default:
				// q straddles the end of r: split it in two.
				inside = append(inside, styleRange{q.start, r.stop, q.style})
				after = append(after, styleRange{r.stop, q.stop, q.style})
			}
		}
		sortRanges(after)
		span := dom.NewElement("span", buildRanges(inside, all, r.start, r.stop)...)
		span.Style = r.style.Clone()
		out = append(out, span)
		ranges = after
		i = r.stop
	}
	return append(out, all[i:i1]...)
}
