// Package htmlout serializes a finished document tree to HTML text.
//
// Layout rules: block elements start on their own line, indented by depth
// except below html, body and section; a block whose children are all
// inline is written on one line; inline content is never reflowed; pre
// content is written verbatim. Attributes keep their order and the Style
// map is written last as a sorted style attribute. White-space-only text
// between block siblings is layout and is not written: it is the one
// content the writer drops. Comment payloads have "--" split so that they
// cannot end the comment.
package htmlout

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/alnah/go-docx2html/internal/dom"
)

// ErrSerialize wraps every write failure.
var ErrSerialize = errors.New("serialization failed")

const indentUnit = "  "

// Tags whose children are not indented.
var flatTags = map[string]bool{"html": true, "body": true, "section": true}

// Write writes the doctype followed by the document's root.
func Write(w io.Writer, doc *dom.Document) error {
	if doc == nil || doc.Root() == nil {
		return fmt.Errorf("%w: empty document", ErrSerialize)
	}
	bw := bufio.NewWriter(w)
	s := &serializer{w: bw}
	s.str("<!doctype html>\n")
	s.node(doc.Root(), 0)
	s.str("\n")
	if s.err == nil {
		s.err = bw.Flush()
	}
	if s.err != nil {
		return fmt.Errorf("%w: %v", ErrSerialize, s.err)
	}
	return nil
}

// String renders a whole document, ignoring write errors which cannot occur
// on a strings.Builder.
func String(doc *dom.Document) string {
	var b strings.Builder
	_ = Write(&b, doc)
	return b.String()
}

// Node renders one subtree without a doctype.
func Node(n *dom.Node) string {
	var b strings.Builder
	bw := bufio.NewWriter(&b)
	s := &serializer{w: bw}
	s.node(n, 0)
	_ = bw.Flush()
	return b.String()
}

type serializer struct {
	w   *bufio.Writer
	err error
}

func (s *serializer) str(v string) {
	if s.err != nil {
		return
	}
	_, s.err = s.w.WriteString(v)
}

func (s *serializer) node(n *dom.Node, depth int) {
	switch n.Type {
	case dom.TextNode:
		if n.Parent().IsElement("style", "script") {
			s.str(n.Data)
			return
		}
		s.str(html.EscapeString(n.Data))
	case dom.CommentNode:
		s.str("<!--" + commentText(n.Data) + "-->")
	case dom.ElementNode:
		s.element(n, depth)
	}
}

// commentText keeps a comment payload from closing the comment early:
// "--" sequences are split and a leading ">" or trailing "-" padded.
func commentText(v string) string {
	for strings.Contains(v, "--") {
		v = strings.ReplaceAll(v, "--", "- -")
	}
	if strings.HasPrefix(v, ">") || strings.HasPrefix(v, "->") {
		v = " " + v
	}
	if strings.HasSuffix(v, "-") || strings.HasSuffix(v, "<!") {
		v += " "
	}
	return v
}

func (s *serializer) element(n *dom.Node, depth int) {
	s.startTag(n)
	if dom.IsVoid(n.Tag) {
		return
	}
	if n.Tag == "pre" || !hasBlockChild(n) {
		for _, c := range n.Children() {
			s.node(c, depth)
		}
		s.str("</" + n.Tag + ">")
		return
	}

	inner := depth + 1
	if flatTags[n.Tag] {
		inner = depth
	}
	for _, run := range runs(n.Children()) {
		if len(run) == 1 && run[0].IsElement() && dom.IsBlock(run[0].Tag) {
			s.newline(inner)
			s.node(run[0], inner)
			continue
		}
		if blankRun(run) {
			continue
		}
		s.newline(inner)
		for _, c := range run {
			s.node(c, inner)
		}
	}
	s.newline(depth)
	s.str("</" + n.Tag + ">")
}

func (s *serializer) startTag(n *dom.Node) {
	s.str("<" + n.Tag)
	for _, a := range n.Attrs() {
		s.str(" " + a.Key + `="` + html.EscapeString(a.Val) + `"`)
	}
	if n.Style.Len() > 0 {
		s.str(` style="` + html.EscapeString(n.Style.String()) + `"`)
	}
	s.str(">")
}

func (s *serializer) newline(depth int) {
	s.str("\n" + strings.Repeat(indentUnit, depth))
}

func hasBlockChild(n *dom.Node) bool {
	for _, c := range n.Children() {
		if c.IsElement() && dom.IsBlock(c.Tag) {
			return true
		}
	}
	return false
}

// runs splits children into single block elements and maximal runs of
// inline nodes.
func runs(children []*dom.Node) [][]*dom.Node {
	var out [][]*dom.Node
	var cur []*dom.Node
	for _, c := range children {
		if c.IsElement() && dom.IsBlock(c.Tag) {
			if len(cur) > 0 {
				out = append(out, cur)
				cur = nil
			}
			out = append(out, []*dom.Node{c})
			continue
		}
		cur = append(cur, c)
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}

func blankRun(run []*dom.Node) bool {
	for _, c := range run {
		if !c.IsSpace() {
			return false
		}
	}
	return true
}
