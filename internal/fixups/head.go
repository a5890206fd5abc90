package fixups

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/alnah/go-docx2html/internal/dom"
	"github.com/alnah/go-docx2html/internal/markdown"
)

// notice renders the configured Markdown notice into div#unofficial at
// the top of the body.
func notice(env *Env, doc *dom.Document) error {
	const pass = "notice"
	_, body, err := skeleton(pass, doc)
	if err != nil {
		return err
	}
	if strings.TrimSpace(env.Options.Notice) == "" {
		return nil
	}
	if first := body.FirstElementChild(); first.IsElement("div") && first.GetAttr("id") == "unofficial" {
		return nil
	}
	markup, err := markdown.New().Render(context.Background(), env.Options.Notice)
	if err != nil {
		return fmt.Errorf("rendering notice: %w", err)
	}
	kids, err := dom.ParseFragment(markup)
	if err != nil {
		return fmt.Errorf("parsing notice: %w", err)
	}
	div := dom.NewElement("div", kids...).WithAttr("id", "unofficial")
	// Lay the fragment out the way element_spacing would.
	if err := spaceOut(dom.NewElement("body", div)); err != nil {
		return err
	}
	div.Detach()
	return dom.InsertAt(body, 0, div)
}

// htmlHead fills in the head: charset, title, stylesheet and the code
// highlighting rules, and sets the document language.
func htmlHead(env *Env, doc *dom.Document) error {
	head, body, err := skeleton("html_head", doc)
	if err != nil {
		return err
	}
	root := doc.Root()
	if !root.HasAttr("lang") && env.Options.Lang != "" {
		root.SetAttr("lang", env.Options.Lang)
	}

	if dom.FindFirst(head, func(n *dom.Node) bool { return n.IsElement("meta") && n.HasAttr("charset") }) == nil {
		if err := dom.InsertAt(head, 0, dom.NewElement("meta").WithAttr("charset", "utf-8")); err != nil {
			return err
		}
	}
	if dom.FindFirst(head, dom.ByTag("title")) == nil {
		title := documentTitle(env, body)
		if err := dom.AppendChild(head, dom.NewElement("title", dom.NewText(title))); err != nil {
			return err
		}
	}
	if href := env.Options.StylesheetHref; href != "" {
		if dom.FindFirst(head, func(n *dom.Node) bool {
			return n.IsElement("link") && n.GetAttr("rel") == "stylesheet" && n.GetAttr("href") == href
		}) == nil {
			link := dom.NewElement("link").WithAttr("rel", "stylesheet").WithAttr("href", href)
			if err := dom.AppendChild(head, link); err != nil {
				return err
			}
		}
	}
	if env.Options.CodeStyle != "" && dom.FindFirst(body, dom.And(dom.ByTag("pre"), dom.ByClass("chroma"))) != nil &&
		dom.FindFirst(head, dom.And(dom.ByTag("style"), dom.ByClass("chroma"))) == nil {
		css, err := codeCSS(env.Options.CodeStyle)
		if err != nil {
			return err
		}
		if err := dom.AppendChild(head, dom.NewElement("style", dom.NewText(css)).WithClass("chroma")); err != nil {
			return err
		}
	}
	return nil
}

// documentTitle picks the configured title, else the first top-level
// heading, else the input file name.
func documentTitle(env *Env, body *dom.Node) string {
	if env.Options.Title != "" {
		return env.Options.Title
	}
	for h := range dom.FindAll(body, dom.ByTag("h1")) {
		if ignoredHeading(h) || isContents(h.Parent()) {
			continue
		}
		if _, title := headingParts(h); title != "" {
			return title
		}
	}
	if env.Source.Path != "" {
		base := filepath.Base(env.Source.Path)
		return strings.TrimSuffix(base, filepath.Ext(base))
	}
	return "Untitled"
}

// checkTransient fails if any builder or pass marker survived.
func checkTransient(_ *Env, doc *dom.Document) error {
	const pass = "check_transient"
	root := doc.Root()
	for n := range dom.FindAll(root, dom.Elements) {
		for _, a := range n.Attrs() {
			if strings.HasPrefix(a.Key, transientAttrPrefix) {
				return mismatch(pass, n, "no transient markers", "attribute %s=%q", a.Key, a.Val)
			}
		}
		for _, k := range n.Style.Keys() {
			if strings.HasPrefix(k, transientStylePrefix) {
				return mismatch(pass, n, "no transient markers", "style property %s", k)
			}
		}
	}
	return nil
}
