package fixups

import (
	"regexp"
	"slices"
	"strings"

	"github.com/alnah/go-docx2html/internal/dom"
)

const timesNewRoman = "Times New Roman"

// grammarSubscript matches the parameter and opt subscripts of grammar
// nonterminals.
var grammarSubscript = regexp.MustCompile(`^(?:opt|\[[A-Za-z?~+, ]+\]|[A-Za-z?~+, ]+)$`)

var nonterminalWords = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*(?: [A-Z][A-Za-z0-9]*)*$`)

// simplifyFormatting replaces styled spans by the semantic elements their
// properties stand for.
func simplifyFormatting(_ *Env, doc *dom.Document) error {
	const pass = "simplify_formatting"
	_, body, err := skeleton(pass, doc)
	if err != nil {
		return err
	}
	if err := requireResolvedStyles(pass, body); err != nil {
		return err
	}
	spans := slices.Collect(dom.FindAll(body, func(n *dom.Node) bool {
		return n.IsElement("span") && n.AttrCount() == 0
	}))
	// Innermost first so outer spans see simplified content.
	for _, s := range slices.Backward(spans) {
		parent, at := s.Parent(), s.Index()
		if _, err := dom.Splice(parent, at, at+1, simplifySpan(s)...); err != nil {
			return err
		}
	}
	dom.Normalize(body)
	return nil
}

// simplifySpan returns the nodes that replace s.
func simplifySpan(s *dom.Node) []*dom.Node {
	style := s.Style
	if style.Len() == 0 {
		return s.RemoveChildren()
	}
	text := dom.TextContent(s)
	onlyText := s.ChildCount() == 1 && s.FirstChild().IsText()
	switch {
	case style.Equal(dom.StyleOf("font-family", "sans-serif", "vertical-align", "sub")) &&
		grammarSubscript.MatchString(text):
		return one(dom.NewElement("sub", s.RemoveChildren()...))
	case style.Equal(dom.StyleOf("font-family", monospace)),
		style.Equal(dom.StyleOf("font-family", monospace, "font-weight", "bold")):
		return one(dom.NewElement("code", s.RemoveChildren()...))
	case style.Equal(dom.StyleOf("font-family", timesNewRoman, "font-style", "italic")) && onlyText:
		if nonterminalWords.MatchString(text) {
			return nonterminalSpans(text)
		}
		return one(dom.NewElement("var", s.RemoveChildren()...))
	case style.Equal(dom.StyleOf("font-family", timesNewRoman, "font-weight", "bold")):
		return one(dom.NewElement("span", s.RemoveChildren()...).WithClass("value"))
	}

	rest := style.Clone()
	inner := s.RemoveChildren()
	wrap := func(tag string) {
		inner = []*dom.Node{dom.NewElement(tag, inner...)}
	}
	if rest.Value("font-style") == "italic" {
		rest.Delete("font-style")
		wrap("i")
	}
	if rest.Value("font-weight") == "bold" {
		rest.Delete("font-weight")
		wrap("b")
	}
	switch rest.Value("vertical-align") {
	case "super":
		rest.Delete("vertical-align")
		wrap("sup")
	case "sub":
		rest.Delete("vertical-align")
		wrap("sub")
	}
	switch {
	case rest.Len() == 0:
		return inner
	case rest.Equal(dom.StyleOf("font-family", monospace)):
		return one(dom.NewElement("code", inner...))
	}
	out := dom.NewElement("span", inner...)
	out.Style = rest
	return one(out)
}

func one(n *dom.Node) []*dom.Node { return []*dom.Node{n} }

// nonterminalSpans renders "Assignment Expression" as one span.nt per
// word separated by spaces.
func nonterminalSpans(text string) []*dom.Node {
	var out []*dom.Node
	for i, w := range strings.Fields(text) {
		if i > 0 {
			out = append(out, dom.NewText(" "))
		}
		out = append(out, dom.NewElement("span", dom.NewText(w)).WithClass("nt"))
	}
	return out
}

// removeMarginStyle drops the layout properties the output does not use
// and every transient style key.
func removeMarginStyle(_ *Env, doc *dom.Document) error {
	_, body, err := skeleton("remove_margin_style", doc)
	if err != nil {
		return err
	}
	for n := range dom.FindAll(body, dom.Elements) {
		if n.Style == nil {
			continue
		}
		for _, k := range n.Style.Keys() {
			if strings.HasPrefix(k, "margin-") || k == "text-indent" || strings.HasPrefix(k, transientStylePrefix) {
				n.Style.Delete(k)
			}
		}
		if n.Style.Len() == 0 {
			n.Style = nil
		}
	}
	return nil
}
