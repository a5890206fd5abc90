package fixups

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/alnah/go-docx2html/internal/dom"
)

// pre turns paragraphs made of a single monospace run into pre blocks.
func pre(_ *Env, doc *dom.Document) error {
	const pass = "pre"
	_, body, err := skeleton(pass, doc)
	if err != nil {
		return err
	}
	if err := requireResolvedStyles(pass, body); err != nil {
		return err
	}
	paras := slices.Collect(dom.FindAll(body, func(n *dom.Node) bool {
		if !n.IsElement("p") || n.ChildCount() != 1 || n.Ancestor("table") != nil {
			return false
		}
		span := n.FirstChild()
		return span.IsElement("span") && span.AttrCount() == 0 &&
			span.StyleValue("font-family") == monospace && span.Style.Len() == 1
	}))
	for _, p := range paras {
		if err := dom.Unwrap(p.FirstChild()); err != nil {
			return err
		}
		p.Tag = "pre"
		p.Style = nil
	}
	return nil
}

// highlightCode tokenizes pre blocks and wraps tokens in chroma classed
// spans.
func highlightCode(env *Env, doc *dom.Document) error {
	_, body, err := skeleton("highlight_code", doc)
	if err != nil {
		return err
	}
	for _, p := range slices.Collect(dom.FindAll(body, dom.ByTag("pre"))) {
		if len(p.Classes()) > 0 || p.FirstElementChild() != nil {
			continue
		}
		text := dom.TextContent(p)
		lexer := lexers.Get(env.Options.CodeLanguage)
		if lexer == nil {
			lexer = lexers.Analyse(text)
		}
		if lexer == nil {
			lexer = lexers.Fallback
		}
		kids, err := tokenize(chroma.Coalesce(lexer), text)
		if err != nil {
			env.Logger.Warn().Err(err).Str("path", dom.Path(p)).Msg("code left unhighlighted")
			p.AddClass("chroma")
			continue
		}
		if err := dom.SetChildren(p, kids...); err != nil {
			return err
		}
		p.AddClass("chroma")
	}
	return nil
}

func tokenize(lexer chroma.Lexer, text string) ([]*dom.Node, error) {
	it, err := lexer.Tokenise(nil, text)
	if err != nil {
		return nil, err
	}
	tokens := it.Tokens()
	// Lexers end the stream with a newline the source may not have.
	if n := len(tokens); n > 0 && !strings.HasSuffix(text, "\n") {
		tokens[n-1].Value = strings.TrimSuffix(tokens[n-1].Value, "\n")
	}
	holder := dom.NewElement("pre")
	for _, tok := range tokens {
		if tok.Value == "" {
			continue
		}
		class := chroma.StandardTypes[tok.Type]
		if class == "" {
			_ = dom.AppendText(holder, tok.Value)
			continue
		}
		_ = dom.AppendChild(holder, dom.NewElement("span", dom.NewText(tok.Value)).WithClass(class))
	}
	return holder.RemoveChildren(), nil
}

// codeCSS returns the class rules of a chroma style.
func codeCSS(name string) (string, error) {
	style := styles.Get(name)
	if style == nil {
		style = styles.Fallback
	}
	var b strings.Builder
	if err := chromahtml.New(chromahtml.WithClasses(true)).WriteCSS(&b, style); err != nil {
		return "", fmt.Errorf("writing %s code style: %w", name, err)
	}
	return b.String(), nil
}

// noteLabel matches the "NOTE 1<TAB>" and "EXAMPLE<TAB>" lead-ins.
var noteLabel = regexp.MustCompile(`^((?:NOTE|EXAMPLE)(?: [0-9]+)?)\s*\t(.*)$`)

var lowerStart = regexp.MustCompile(`^[a-z]`)

// notes marks note lead-ins with span.nh and groups each note with the
// blocks that continue it into div.note.
func notes(_ *Env, doc *dom.Document) error {
	const pass = "notes"
	_, body, err := skeleton(pass, doc)
	if err != nil {
		return err
	}
	if err := requireResolvedStyles(pass, body); err != nil {
		return err
	}
	heads := slices.Collect(dom.FindAll(body, func(n *dom.Node) bool {
		return n.IsElement("p") && n.Parent().IsElement() && !n.Parent().HasClass("note")
	}))
	for _, p := range heads {
		first := p.FirstChild()
		if !first.IsText() {
			continue
		}
		m := noteLabel.FindStringSubmatch(strings.TrimLeft(first.Data, " "))
		if m == nil {
			continue
		}
		repl := []*dom.Node{dom.NewElement("span", dom.NewText(m[1])).WithClass("nh")}
		if m[2] != "" || p.ChildCount() > 1 {
			repl = append(repl, dom.NewText(" "+m[2]))
		}
		if _, err := dom.Splice(p, 0, 1, repl...); err != nil {
			return err
		}
		p.RemoveClass("Note")

		parent, at := p.Parent(), p.Index()
		end := at + 1
		for ; end < parent.ChildCount(); end++ {
			if !continuesNote(parent.Child(end)) {
				break
			}
		}
		for _, k := range parent.Children()[at+1 : end] {
			if k.IsElement() {
				k.RemoveClass("Note")
			}
		}
		if err := dom.WrapRange(parent, at, end, dom.NewElement("div").WithClass("note")); err != nil {
			return err
		}
	}
	return nil
}

func continuesNote(n *dom.Node) bool {
	switch {
	case n.IsSpace():
		return true
	case n.IsElement("pre"):
		return true
	case n.IsElement("ul"):
		return true
	case n.IsElement("ol"):
		return n.ChildCount() == 1
	case n.IsElement("p"):
		first := n.FirstChild()
		if first.IsElement("span") && first.HasClass("nh") {
			return false
		}
		if first.IsText() && noteLabel.MatchString(strings.TrimLeft(first.Data, " ")) {
			return false
		}
		return n.HasClass("Note") || lowerStart.MatchString(dom.TextContent(n))
	}
	return false
}
