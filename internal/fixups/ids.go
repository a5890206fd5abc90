package fixups

import (
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/alnah/go-docx2html/internal/dom"
)

// algorithmName matches titles such as "Array.prototype.map ( fn )".
var algorithmName = regexp.MustCompile(`^([A-Za-z_$][A-Za-z0-9_$]*(?:\.[A-Za-z0-9_$]+|\s*\[\s*@@[A-Za-z]+\s*\])*)\s*\(`)

var nonID = regexp.MustCompile(`[^a-z0-9.]+`)

// titleAlgorithm returns the function name a section title documents.
func titleAlgorithm(title string) string {
	if m := algorithmName.FindStringSubmatch(title); m != nil {
		return strings.Join(strings.Fields(m[1]), "")
	}
	return ""
}

// mangle turns text into an id fragment.
func mangle(s string) string {
	return strings.Trim(nonID.ReplaceAllString(strings.ToLower(s), "-"), "-.")
}

type idCandidate struct {
	sec        *dom.Node
	secnum     string
	candidates []string
}

// sectionIDs gives every section a stable id derived from its title and
// links the section number to it.
func sectionIDs(_ *Env, doc *dom.Document) error {
	const pass = "section_ids"
	root := doc.Root()
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

	taken := make(map[string]bool)
	for n := range dom.FindAll(root, dom.ByAttr("id")) {
		taken[n.GetAttr("id")] = true
	}

	var todo []*idCandidate
	bySec := make(map[*dom.Node]*idCandidate)
	counts := make(map[string]int)
	for sec := range dom.FindAll(body, dom.ByTag("section")) {
		h := sectionHeading(sec)
		if h == nil {
			continue
		}
		secnum, title := headingParts(h)
		c := &idCandidate{sec: sec, secnum: secnum}
		if id := sec.GetAttr("id"); id != "" {
			// Already named: only serves as a parent qualifier.
			c.candidates = []string{strings.TrimPrefix(id, "sec-")}
			bySec[sec] = c
			continue
		}
		add := func(s string) {
			if s != "" && !slices.Contains(c.candidates, s) {
				c.candidates = append(c.candidates, s)
			}
		}
		add(mangle(titleAlgorithm(title)))
		add(mangle(title))
		if parent := sec.Ancestor("section"); parent != nil && len(c.candidates) > 0 {
			if pc := bySec[parent]; pc != nil {
				base := c.candidates[len(c.candidates)-1]
				for _, p := range pc.candidates {
					add(p + "-" + base)
				}
			}
		}
		if secnum != "" && len(c.candidates) > 0 {
			add(mangle(secnum) + "-" + c.candidates[0])
		}
		for _, s := range c.candidates {
			counts[s]++
		}
		bySec[sec] = c
		todo = append(todo, c)
	}

	for i, c := range todo {
		id := ""
		for _, s := range c.candidates {
			if counts[s] == 1 && !taken["sec-"+s] {
				id = "sec-" + s
				break
			}
		}
		if id == "" {
			base := "section"
			if len(c.candidates) > 0 {
				base = c.candidates[0]
			}
			for n := i + 1; ; n++ {
				if try := fmt.Sprintf("sec-%s-%d", base, n); !taken[try] {
					id = try
					break
				}
			}
		}
		taken[id] = true
		c.sec.SetAttr("id", id)
		if err := linkSecnum(c.sec, id); err != nil {
			return err
		}
	}
	return nil
}

// linkSecnum makes the section number a self link.
func linkSecnum(sec *dom.Node, id string) error {
	h := sectionHeading(sec)
	num := dom.FindFirst(h, dom.And(dom.ByTag("span"), dom.ByClass("secnum")))
	if num == nil || dom.FindFirst(num, dom.ByTag("a")) != nil {
		return nil
	}
	a := dom.NewElement("a", num.RemoveChildren()...).
		WithAttr("href", "#"+id).
		WithAttr("title", "link to this section")
	return dom.AppendChild(num, a)
}

// requireSections fails when a heading is still a direct body child.
func requireSections(pass string, body *dom.Node) error {
	for _, k := range body.Children() {
		if dom.HeadingLevel(k) > 0 {
			return mismatch(pass, k, "headings nested into sections", "heading at the top level")
		}
	}
	return nil
}

// sectionRedirects keeps obsolete section ids working by planting an
// empty span.redirect with that id in the section that replaced it.
func sectionRedirects(env *Env, doc *dom.Document) error {
	const pass = "section_redirects"
	if len(env.Options.Redirects) == 0 {
		return nil
	}
	_, body, err := skeleton(pass, doc)
	if err != nil {
		return err
	}
	if err := requireSections(pass, body); err != nil {
		return err
	}
	ids := make(map[string]*dom.Node)
	for n := range dom.FindAll(doc.Root(), dom.ByAttr("id")) {
		ids[n.GetAttr("id")] = n
	}

	obsolete := make([]string, 0, len(env.Options.Redirects))
	for id := range env.Options.Redirects {
		obsolete = append(obsolete, id)
	}
	sort.Strings(obsolete)
	for _, old := range obsolete {
		target := env.Options.Redirects[old]
		if target == "" {
			continue
		}
		sec, ok := ids[target]
		if !ok {
			return mismatch(pass, body, "an element with the redirect target id", "no id %q", target)
		}
		if n, exists := ids[old]; exists {
			if n.IsElement("span") && n.HasClass("redirect") && sec.Contains(n) {
				continue
			}
			return mismatch(pass, n, "obsolete id "+old+" unused", "%s carrying it", describe(n))
		}
		at := sec
		if h := sectionHeading(sec); h != nil {
			at = h
		}
		span := dom.NewElement("span").WithClass("redirect").WithAttr("id", old)
		if err := dom.AppendChild(at, span); err != nil {
			return err
		}
		ids[old] = span
	}
	return nil
}
