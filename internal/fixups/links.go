package fixups

import (
	"regexp"
	"slices"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/alnah/go-docx2html/internal/dom"
)

// sectionRef matches a section number as prose cites it.
const sectionRef = `([Cc]lause\s+[1-9A-Z][0-9]*(?:\.[0-9]+)*|[Aa]nnex\s+[A-Z](?:\.[0-9]+)*|[1-9A-Z][0-9]*(?:\.[0-9]+)+)`

// sectionCitation finds section numbers in running text. Group 1 is the
// link text and group 2 the cited number.
type sectionCitation struct {
	re       *regexp.Regexp
	anchored bool // only tried at the start of a text node
}

var sectionCitations = []sectionCitation{
	{re: regexp.MustCompile(` \(((?:see )?` + sectionRef + `)\)`)},
	{re: regexp.MustCompile(`^(See ` + sectionRef + `)$`), anchored: true},
	{re: regexp.MustCompile(`(?:see|See|in|of|to|from|below|and) (` + sectionRef + `)(?:$|\.$|[,:) ]|\.[^0-9])`)},
	{re: regexp.MustCompile(`(?i)\((?:but )?((?:see\s+(?:also\s+)?)?(clause\s+[1-9][0-9]*))\)`)},
	{re: regexp.MustCompile(`\((` + sectionRef + `), `)},
	{re: regexp.MustCompile(`^(` + sectionRef + `)[,:]`), anchored: true},
	{re: regexp.MustCompile(`, (` + sectionRef + `)[,):]`)},
	{re: regexp.MustCompile(` (` + sectionRef + `) and\b`)},
}

var urlPattern = regexp.MustCompile(`https?://[0-9A-Za-z;/?:@&=+$,_.!~*()'%#-]*[0-9A-Za-z;/?:@&=+$_!~*'%#-]`)

var sectionWord = regexp.MustCompile(`(?i)^(?:clause|annex)\s+`)

// linkIndex maps what prose can cite to section ids.
type linkIndex struct {
	byNumber  map[string]string
	byTitle   map[string]string
	bookmarks map[string]string
	labels    map[string]string // "Table 3" -> caption label id
	phrases   map[string]string // phrase -> id, for textual linking
	sorted    []string          // phrases, longest first
}

// links resolves explicit cross references and links section numbers,
// algorithm names and URLs found in running text.
func links(env *Env, doc *dom.Document) error {
	const pass = "links"
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
	idx, err := buildLinkIndex(env, pass, doc.Root(), body)
	if err != nil {
		return err
	}

	refs := slices.Collect(dom.FindAll(body, dom.ByAttr(attrRef)))
	for _, ref := range refs {
		target := ref.GetAttr(attrRef)
		id := idx.resolve(target)
		if id == "" {
			id = idx.resolve(normalizeSpace(dom.TextContent(ref)))
		}
		if id == "" {
			return mismatch(pass, ref, "a cross reference to a known bookmark, title or number",
				"unresolved reference %q", target)
		}
		ref.RemoveAttr(attrRef)
		ref.Tag = "a"
		ref.SetAttr("href", "#"+id)
	}

	texts := slices.Collect(dom.FindAll(body, func(n *dom.Node) bool {
		return n.IsText() && !noAutoLink(n)
	}))
	for _, t := range texts {
		if err := idx.linkify(t); err != nil {
			return err
		}
	}
	return nil
}

func buildLinkIndex(env *Env, pass string, root, body *dom.Node) (*linkIndex, error) {
	idx := &linkIndex{
		byNumber:  make(map[string]string),
		byTitle:   make(map[string]string),
		bookmarks: make(map[string]string),
		labels:    make(map[string]string),
		phrases:   make(map[string]string),
	}
	ambiguous := make(map[string]bool)
	algorithms := make(map[string]string)
	for sec := range dom.FindAll(body, dom.ByTag("section")) {
		h := sectionHeading(sec)
		if h == nil {
			continue
		}
		id := sec.GetAttr("id")
		if id == "" {
			return nil, mismatch(pass, sec, "sections with ids", "section without id")
		}
		secnum, title := headingParts(h)
		if secnum != "" {
			idx.byNumber[secnum] = id
		}
		if title != "" {
			if _, dup := idx.byTitle[title]; dup {
				ambiguous[title] = true
			}
			idx.byTitle[title] = id
		}
		if alg := titleAlgorithm(title); alg != "" {
			if _, dup := algorithms[alg]; dup {
				ambiguous[alg] = true
			}
			algorithms[alg] = id
		}
	}
	for t := range ambiguous {
		delete(idx.byTitle, t)
		delete(algorithms, t)
	}
	for alg, id := range algorithms {
		idx.phrases[alg] = id
	}
	for phrase, title := range env.Options.LinkPhrases {
		id, ok := idx.byTitle[title]
		if !ok {
			env.Logger.Warn().Str("phrase", phrase).Str("title", title).Msg("link phrase names no section")
			continue
		}
		idx.phrases[phrase] = id
	}
	for label := range dom.FindAll(body, isCaptionLabel) {
		text, id := normalizeSpace(dom.TextContent(label)), label.GetAttr("id")
		idx.labels[text] = id
		idx.phrases[text] = id
	}
	for p := range idx.phrases {
		idx.sorted = append(idx.sorted, p)
	}
	sort.Slice(idx.sorted, func(i, j int) bool {
		a, b := idx.sorted[i], idx.sorted[j]
		if len(a) != len(b) {
			return len(a) > len(b)
		}
		return a < b
	})

	marked := slices.Collect(dom.FindAll(root, dom.ByAttr(attrBookmark)))
	for _, n := range marked {
		id := figureLabelID(n)
		if id == "" {
			id = nearestID(n)
		}
		for _, name := range strings.Fields(n.GetAttr(attrBookmark)) {
			if id != "" {
				idx.bookmarks[name] = id
			}
		}
		n.RemoveAttr(attrBookmark)
	}
	return idx, nil
}

// resolve maps a reference target to a section or caption label id.
func (idx *linkIndex) resolve(target string) string {
	if target == "" {
		return ""
	}
	if id, ok := idx.bookmarks[target]; ok {
		return id
	}
	if id, ok := idx.byTitle[target]; ok {
		return id
	}
	if id, ok := idx.labels[target]; ok {
		return id
	}
	if id, ok := idx.byNumber[sectionWord.ReplaceAllString(target, "")]; ok {
		return id
	}
	return ""
}

// noAutoLink reports whether text under n must stay unlinked.
func noAutoLink(n *dom.Node) bool {
	for p := n.Parent(); p != nil; p = p.Parent() {
		switch {
		case p.IsElement("a", "pre", "code", "head", "figcaption"), tagLevel(tagOf(p)) > 0:
			return true
		case p.IsElement("div") && (p.HasClass("gp") || p.GetAttr("id") == "unofficial"):
			return true
		case p.IsElement("ol") && p.HasClass("toc"), isContents(p):
			return true
		}
	}
	return nearestID(n) == ""
}

type linkHit struct {
	start, stop int
	href        string
}

func (h linkHit) before(o linkHit) bool {
	if h.start != o.start {
		return h.start < o.start
	}
	if h.stop != o.stop {
		return h.stop < o.stop
	}
	return h.href < o.href
}

// linkify splits text node t around every link found in it.
func (idx *linkIndex) linkify(t *dom.Node) error {
	current := nearestID(t)
	s := t.Data
	var out []*dom.Node
	for {
		hit, ok := idx.find(s, current)
		if !ok {
			break
		}
		if hit.start > 0 {
			out = append(out, dom.NewText(s[:hit.start]))
		}
		out = append(out, dom.NewElement("a", dom.NewText(s[hit.start:hit.stop])).WithAttr("href", hit.href))
		s = s[hit.stop:]
	}
	if len(out) == 0 {
		return nil
	}
	if s != "" {
		out = append(out, dom.NewText(s))
	}
	parent, at := t.Parent(), t.Index()
	_, err := dom.Splice(parent, at, at+1, out...)
	return err
}

// find returns the first link in s that does not point at current.
func (idx *linkIndex) find(s, current string) (linkHit, bool) {
	var best linkHit
	found := false
	consider := func(h linkHit) {
		if "#"+current == h.href {
			return
		}
		if !found || h.before(best) {
			best, found = h, true
		}
	}

	for _, phrase := range idx.sorted {
		from := 0
		for {
			i := strings.Index(s[from:], phrase)
			if i < 0 {
				break
			}
			start := from + i
			stop := start + len(phrase)
			if wordBreaks(s, start, stop) {
				consider(linkHit{start, stop, "#" + idx.phrases[phrase]})
				break
			}
			from = start + 1
		}
	}

	for _, c := range sectionCitations {
		pos := 0
		for pos <= len(s) && (!found || pos <= best.start) {
			if c.anchored && pos > 0 {
				break
			}
			m := c.re.FindStringSubmatchIndex(s[pos:])
			if m == nil {
				break
			}
			start, stop := pos+m[2], pos+m[3]
			num := strings.TrimSpace(sectionWord.ReplaceAllString(s[pos+m[4]:pos+m[5]], ""))
			if id, ok := idx.byNumber[num]; ok {
				consider(linkHit{start, stop, "#" + id})
				break
			}
			pos += max(m[3], 1)
		}
	}

	if m := urlPattern.FindStringIndex(s); m != nil {
		consider(linkHit{m[0], m[1], s[m[0]:m[1]]})
	}
	return best, found
}

// wordBreaks reports whether s[start:stop] is a whole word or phrase.
func wordBreaks(s string, start, stop int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:start])
		if r == '.' || isWordRune(r) {
			return false
		}
	}
	if stop < len(s) {
		r, _ := utf8.DecodeRuneInString(s[stop:])
		if isWordRune(r) {
			return false
		}
		// "Table 3" is not a phrase of "Table 3.1".
		if r == '.' && stop+1 < len(s) && s[stop+1] >= '0' && s[stop+1] <= '9' {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
