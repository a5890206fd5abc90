package fixups

import (
	"regexp"
	"slices"
	"strings"

	"github.com/alnah/go-docx2html/internal/dom"
)

// grammarPre joins consecutive grammar paragraphs into pre.syntax blocks
// of plain grammar text.
func grammarPre(_ *Env, doc *dom.Document) error {
	const pass = "grammar_pre"
	_, body, err := skeleton(pass, doc)
	if err != nil {
		return err
	}
	if err := requireResolvedStyles(pass, body); err != nil {
		return err
	}
	firsts := slices.Collect(dom.FindAll(body, func(n *dom.Node) bool {
		return isGrammar(n) && !isGrammar(prevElement(n))
	}))
	for _, first := range firsts {
		if span := dom.FindFirst(first, func(n *dom.Node) bool {
			return n.IsElement("span") && n.AttrCount() == 0 && n.Style.Len() > 0
		}); span != nil {
			return mismatch(pass, span, "formatting simplified", "styled %s", describe(span))
		}
		if first.GetAttr(attrGrammar) != "lhs" {
			return mismatch(pass, first, "a grammar block opening with its left-hand side",
				"%s line %q", first.GetAttr(attrGrammar), truncate(dom.TextContent(first), 40))
		}
		parent, at := first.Parent(), first.Index()
		end := at
		var lines, bookmarks []string
		for ; end < parent.ChildCount(); end++ {
			k := parent.Child(end)
			if k.IsSpace() {
				continue
			}
			if !isGrammar(k) {
				break
			}
			line := strings.TrimSpace(grammarText(k))
			if k.GetAttr(attrGrammar) == "lhs" {
				if len(lines) > 0 {
					lines = append(lines, "")
				}
				lines = append(lines, line)
			} else {
				lines = append(lines, "    "+line)
			}
			if b := k.GetAttr(attrBookmark); b != "" {
				bookmarks = append(bookmarks, b)
			}
		}
		block := dom.NewElement("pre", dom.NewText(strings.Join(lines, "\n"))).WithClass("syntax")
		if len(bookmarks) > 0 {
			block.SetAttr(attrBookmark, strings.Join(bookmarks, " "))
		}
		if _, err := dom.Splice(parent, at, end, block); err != nil {
			return err
		}
	}
	return nil
}

func isGrammar(n *dom.Node) bool {
	return n.IsElement("div") && n.HasAttr(attrGrammar)
}

// grammarText flattens simplified grammar markup into its text form:
// subscripts become "_opt" or "_[Param]" suffixes.
func grammarText(n *dom.Node) string {
	var b strings.Builder
	for _, c := range n.Children() {
		switch {
		case c.IsText():
			b.WriteString(strings.ReplaceAll(c.Data, "\t", " "))
		case c.IsElement("br"):
			b.WriteByte(' ')
		case c.IsElement("sub"):
			b.WriteString("_" + strings.TrimSpace(dom.TextContent(c)))
		case c.IsElement("code"):
			b.WriteString(grammarText(c))
			if next := c.NextSibling(); next.IsText() && next.Data != "" && !strings.HasPrefix(next.Data, " ") {
				b.WriteByte(' ')
			}
		case c.IsElement():
			b.WriteString(grammarText(c))
		}
	}
	return b.String()
}

// Grammar tokens, tried in order at each position.
var grammarTokens = []struct {
	kind string
	re   *regexp.Regexp
}{
	{"see", regexp.MustCompile(`^See (?:clause )?[0-9A-Z.]+`)},
	{"mod", regexp.MustCompile(`^(?:but not one of|one of|but not|or)\b`)},
	{"prose", regexp.MustCompile(`^\[desc [^\]]*\]`)},
	{"annot", regexp.MustCompile(`^\[(?:no LineTerminator here|empty|Lexical goal [A-Z][A-Za-z]*|match only if [^\]]*|lookahead [^\]]*)\]`)},
	{"params", regexp.MustCompile(`^\[(?:[+~?]?[A-Z][a-z]+(?:, )?)+\]`)},
	{"char", regexp.MustCompile(`^<[A-Z]+>`)},
	{"nt", regexp.MustCompile(`^((?:[A-Z]+[a-z]|uri)[A-Za-z0-9]*(?:_[A-Z][A-Za-z0-9]*)*)(?:_(\[[^\]]*\]))?(_opt)?`)},
	{"other", regexp.MustCompile(`^[^ ]+`)},
}

var blankLine = regexp.MustCompile(`\n[ \t]*\n`)

// grammarPost marks up pre.syntax blocks as div.gp productions.
func grammarPost(_ *Env, doc *dom.Document) error {
	_, body, err := skeleton("grammar_post", doc)
	if err != nil {
		return err
	}
	blocks := slices.Collect(dom.FindAll(body, func(n *dom.Node) bool {
		return n.IsElement("pre") && n.HasClass("syntax")
	}))
	for _, block := range blocks {
		var out []*dom.Node
		for _, prod := range blankLine.Split(strings.Trim(dom.TextContent(block), "\n"), -1) {
			lines := strings.Split(prod, "\n")
			if len(lines) == 1 {
				out = append(out, dom.NewElement("div", markupGrammar(lines[0], "prod")...).WithClass("gp").WithClass("prod"))
				continue
			}
			gp := dom.NewElement("div").WithClass("gp")
			_ = dom.AppendChild(gp, dom.NewElement("div", markupGrammar(lines[0], "lhs")...).WithClass("lhs"))
			for _, l := range lines[1:] {
				_ = dom.AppendChild(gp, dom.NewElement("div", markupGrammar(strings.TrimSpace(l), "rhs")...).WithClass("rhs"))
			}
			out = append(out, gp)
		}
		if len(out) == 0 {
			block.Detach()
			continue
		}
		if b := block.GetAttr(attrBookmark); b != "" {
			out[0].SetAttr(attrBookmark, b)
		}
		parent, at := block.Parent(), block.Index()
		if _, err := dom.Splice(parent, at, at+1, out...); err != nil {
			return err
		}
	}
	return nil
}

// markupGrammar turns one grammar line into nodes. mode is "lhs", "rhs"
// or "prod"; colons are only the production sign outside "rhs".
func markupGrammar(line, mode string) []*dom.Node {
	var out []*dom.Node
	s := strings.TrimSpace(line)
	for s != "" {
		if len(out) > 0 {
			out = append(out, dom.NewText(" "))
		}
		kind, m := matchToken(s)
		tok := s[m[0]:m[1]]
		s = strings.TrimLeft(s[m[1]:], " ")
		switch kind {
		case "see", "annot", "params":
			out = append(out, classed("span", "grhsannot", tok))
		case "mod":
			out = append(out, classed("span", "grhsmod", tok))
		case "prose":
			out = append(out, classed("span", "gprose", strings.TrimSpace(tok[len("[desc "):len(tok)-1])))
		case "char":
			out = append(out, classed("span", "gprose", tok))
		case "nt":
			out = append(out, classed("span", "nt", tok[m[2]:m[3]]))
			if m[4] >= 0 {
				out = append(out, classed("sub", "bnf-params", tok[m[4]:m[5]]))
			}
			if m[6] >= 0 {
				out = append(out, classed("sub", "bnf-opt", "opt"))
			}
		default:
			if mode != "rhs" && strings.Trim(tok, ":") == "" {
				out = append(out, classed("span", "geq", tok))
				continue
			}
			if t, ok := strings.CutSuffix(tok, "_opt"); ok && t != "" {
				out = append(out, classed("code", "t", t), classed("sub", "bnf-opt", "opt"))
				continue
			}
			out = append(out, classed("code", "t", tok))
		}
	}
	return out
}

// matchToken returns the kind of the token at the start of s and its
// submatch indexes relative to s.
func matchToken(s string) (string, []int) {
	for _, t := range grammarTokens {
		if m := t.re.FindStringSubmatchIndex(s); m != nil && m[1] > 0 {
			return t.kind, m
		}
	}
	return "other", []int{0, len(s)}
}

func classed(tag, class, text string) *dom.Node {
	return dom.NewElement(tag, dom.NewText(text)).WithClass(class)
}
