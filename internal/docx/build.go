package docx

import (
	"archive/zip"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/alnah/go-docx2html/internal/dom"
)

const documentPart = "word/document.xml"

// Build reads the .docx file at path and returns its raw tree.
func Build(path string) (*dom.Document, *Source, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrBuild, err)
	}
	defer func() { _ = zr.Close() }()

	doc, src, err := build(&zr.Reader)
	if err != nil {
		return nil, nil, err
	}
	src.Path = path
	return doc, src, nil
}

// BuildReader is Build for an archive already in memory or on another
// random-access medium.
func BuildReader(r io.ReaderAt, size int64) (*dom.Document, *Source, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrBuild, err)
	}
	return build(zr)
}

func build(zr *zip.Reader) (*dom.Document, *Source, error) {
	a := newArchive(zr)
	wrap := func(err error) error { return fmt.Errorf("%w: %w", ErrBuild, err) }

	document, err := a.part(documentPart, true)
	if err != nil {
		return nil, nil, wrap(err)
	}
	stylesXML, err := a.part("word/styles.xml", false)
	if err != nil {
		return nil, nil, wrap(err)
	}
	numberingXML, err := a.part("word/numbering.xml", false)
	if err != nil {
		return nil, nil, wrap(err)
	}
	footnotesXML, err := a.part("word/footnotes.xml", false)
	if err != nil {
		return nil, nil, wrap(err)
	}
	rels, err := a.relationships(documentPart)
	if err != nil {
		return nil, nil, wrap(err)
	}

	src := &Source{Numbering: parseNumbering(numberingXML), Media: map[string][]byte{}}
	if stylesXML != nil {
		if src.Styles, err = parseStyles(stylesXML); err != nil {
			return nil, nil, wrap(err)
		}
	} else {
		src.Styles, _ = NewStyleSheet("")
	}

	body := document.child("body")
	if document.name != "document" || body == nil {
		return nil, nil, wrap(fmt.Errorf("%s: no w:document/w:body", documentPart))
	}

	b := &builder{styles: src.Styles, rels: rels, archive: a, media: src.Media}
	doc := dom.NewHTMLDocument()
	out := doc.Body()
	b.blocks(out, body.children)
	b.flushBookmarks(out)

	if footnotesXML != nil {
		for _, fn := range footnotesXML.all("footnote") {
			if t, _ := fn.attr("type"); t == "separator" || t == "continuationSeparator" || t == "continuationNotice" {
				continue
			}
			id, _ := fn.attr("id")
			div := dom.NewElement("div").WithAttr(AttrFootnote, id)
			b.blocks(div, fn.children)
			b.flushBookmarks(div)
			if err := dom.AppendChild(out, div); err != nil {
				return nil, nil, wrap(err)
			}
		}
	}
	if b.err != nil {
		return nil, nil, wrap(b.err)
	}
	return doc, src, nil
}

// field is an open complex field (w:fldChar begin ... end).
type field struct {
	instr    strings.Builder
	inResult bool
	link     *dom.Node // ref span or anchor holding the field result
}

type builder struct {
	styles  *StyleSheet
	rels    *relations
	archive *archive
	media   map[string][]byte

	fields    []*field
	bookmarks []string
	// containers receives run output; the innermost is last.
	containers []*dom.Node
	err        error
}

func (b *builder) add(parent, child *dom.Node) {
	if b.err == nil {
		b.err = dom.AppendChild(parent, child)
	}
}

func (b *builder) addText(parent *dom.Node, s string) {
	if b.err == nil {
		b.err = dom.AppendText(parent, s)
	}
}

func (b *builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// blocks converts block-level WordprocessingML content.
func (b *builder) blocks(out *dom.Node, xs []*xnode) {
	for _, x := range xs {
		switch x.name {
		case "p":
			b.add(out, b.paragraph(x))
		case "tbl":
			b.add(out, b.table(x))
		case "bookmarkStart":
			b.bookmark(x)
		case "sdt":
			b.blocks(out, x.child("sdtContent").childrenOrNil())
		case "customXml", "ins":
			b.blocks(out, x.children)
		}
	}
}

func (x *xnode) childrenOrNil() []*xnode {
	if x == nil {
		return nil
	}
	return x.children
}

func (b *builder) bookmark(x *xnode) {
	name, _ := x.attr("name")
	if name == "" || name == "_GoBack" {
		return
	}
	b.bookmarks = append(b.bookmarks, name)
}

// flushBookmarks attaches bookmarks that no paragraph followed to the last
// paragraph of out.
func (b *builder) flushBookmarks(out *dom.Node) {
	if len(b.bookmarks) == 0 {
		return
	}
	ps := out.ElementChildren("p")
	if len(ps) == 0 {
		return
	}
	b.attachBookmarks(ps[len(ps)-1])
}

func (b *builder) attachBookmarks(p *dom.Node) {
	if len(b.bookmarks) == 0 {
		return
	}
	names := b.bookmarks
	if prev := p.GetAttr(AttrBookmark); prev != "" {
		names = append(strings.Fields(prev), names...)
	}
	p.SetAttr(AttrBookmark, strings.Join(names, " "))
	b.bookmarks = nil
}

func (b *builder) paragraph(x *xnode) *dom.Node {
	props, ref := parseProps(x.child("pPr"))
	if ref == "" {
		ref = b.styles.DefaultParagraph()
	}
	p := dom.NewElement("p")
	if ref != "" {
		p.SetAttr(AttrStyle, ref)
	}
	if props.Len() > 0 {
		p.Style = props
	}

	b.containers = []*dom.Node{p}
	b.inline(x.children)
	b.attachBookmarks(p)
	// A field still open here keeps the rest of its result inline in the
	// following paragraphs.
	for _, f := range b.fields {
		f.link = nil
	}
	b.containers = nil
	return p
}

func (b *builder) container() *dom.Node {
	return b.containers[len(b.containers)-1]
}

func (b *builder) push(n *dom.Node) {
	b.add(b.container(), n)
	b.containers = append(b.containers, n)
}

func (b *builder) pop(n *dom.Node) {
	for i := len(b.containers) - 1; i > 0; i-- {
		if b.containers[i] == n {
			b.containers = b.containers[:i]
			return
		}
	}
}

// inInstruction reports whether output is currently suppressed because an
// open field is still in its instruction part.
func (b *builder) inInstruction() bool {
	for _, f := range b.fields {
		if !f.inResult {
			return true
		}
	}
	return false
}

func (b *builder) inline(xs []*xnode) {
	for _, x := range xs {
		switch x.name {
		case "r":
			b.run(x)
		case "hyperlink":
			b.hyperlink(x)
		case "fldSimple":
			instr, _ := x.attr("instr")
			link := b.fieldLink(instr)
			if link != nil {
				b.push(link)
			}
			b.inline(x.children)
			if link != nil {
				b.pop(link)
			}
		case "bookmarkStart":
			b.bookmark(x)
		case "ins", "smartTag", "customXml":
			b.inline(x.children)
		case "sdt":
			b.inline(x.child("sdtContent").childrenOrNil())
		}
	}
}

func (b *builder) hyperlink(x *xnode) {
	var link *dom.Node
	if anchor, ok := x.attr("anchor"); ok && anchor != "" {
		link = dom.NewElement("span").WithAttr(AttrRef, anchor)
	} else if target, ok := b.rels.links[x.attrNS(nsRels, "id")]; ok {
		link = dom.NewElement("a").WithAttr("href", target)
	}
	if link == nil {
		b.inline(x.children)
		return
	}
	b.push(link)
	b.inline(x.children)
	b.pop(link)
}

var (
	refField       = regexp.MustCompile(`^\s*REF\s+(\S+)`)
	anchorField    = regexp.MustCompile(`^\s*HYPERLINK\b.*\\l\s+"([^"]+)"`)
	hyperlinkField = regexp.MustCompile(`^\s*HYPERLINK\s+"([^"]+)"`)
)

// fieldLink returns the element that should hold the result of a field
// with the given instruction, or nil when the result stays inline.
func (b *builder) fieldLink(instr string) *dom.Node {
	if m := refField.FindStringSubmatch(instr); m != nil {
		return dom.NewElement("span").WithAttr(AttrRef, m[1])
	}
	if m := anchorField.FindStringSubmatch(instr); m != nil {
		return dom.NewElement("span").WithAttr(AttrRef, m[1])
	}
	if m := hyperlinkField.FindStringSubmatch(instr); m != nil {
		return dom.NewElement("a").WithAttr("href", m[1])
	}
	return nil
}

func (b *builder) fieldChar(x *xnode) {
	switch t, _ := x.attr("fldCharType"); t {
	case "begin":
		b.fields = append(b.fields, &field{})
	case "separate":
		if len(b.fields) == 0 {
			return
		}
		f := b.fields[len(b.fields)-1]
		f.inResult = true
		if f.link = b.fieldLink(f.instr.String()); f.link != nil {
			b.push(f.link)
		}
	case "end":
		if len(b.fields) == 0 {
			return
		}
		f := b.fields[len(b.fields)-1]
		b.fields = b.fields[:len(b.fields)-1]
		if f.link != nil {
			b.pop(f.link)
		}
	}
}

func (b *builder) run(x *xnode) {
	direct, ref := parseProps(x.child("rPr"))
	style := dom.NewStyle()
	if cs, ok := b.styles.Lookup(ref); ok && ref != "" {
		style.Update(cs.Full)
		style.Delete(KeyNumID)
		style.Delete(KeyIlvl)
	}
	style.Update(direct)

	out := b.container()
	var span *dom.Node
	target := func() *dom.Node {
		if style.Len() == 0 {
			return out
		}
		if span == nil {
			span = dom.NewElement("span")
			span.Style = style
			b.add(out, span)
		}
		return span
	}

	for _, k := range runContent(x.children) {
		if k.name == "fldChar" {
			b.fieldChar(k)
			// Output after a separate goes into the new link container.
			out = b.container()
			span = nil
			continue
		}
		if k.name == "instrText" {
			if len(b.fields) > 0 {
				b.fields[len(b.fields)-1].instr.WriteString(k.text)
			}
			continue
		}
		if b.inInstruction() {
			continue
		}
		switch k.name {
		case "t":
			b.addText(target(), k.text)
		case "tab", "ptab":
			b.addText(target(), "\t")
		case "noBreakHyphen":
			b.addText(target(), "‑")
		case "softHyphen":
			b.addText(target(), "\u00ad")
		case "br", "cr":
			if t, _ := k.attr("type"); t == "page" {
				// Page breaks stay direct paragraph children so the hr pass
				// can split the paragraph around them.
				b.add(out, dom.NewElement("hr"))
				span = nil
			} else {
				b.add(target(), dom.NewElement("br"))
			}
		case "footnoteReference":
			id, _ := k.attr("id")
			b.add(target(), dom.NewElement("sup").WithAttr(AttrFootnoteRef, id))
		case "sym":
			font, _ := k.attr("font")
			code, _ := k.attr("char")
			b.add(target(), dom.NewElement("span").WithAttr(AttrSymbol, font+":"+strings.ToUpper(code)))
		case "drawing", "pict", "object":
			// Like page breaks, pictures stay direct children so the
			// remove_picts pass can hoist text boxes out of the paragraph.
			b.add(out, b.picture(k))
			span = nil
		default:
			if k.space == nsMain && !ignoredRunContent[k.name] {
				b.fail(fmt.Errorf("%w: <w:%s> in a run", ErrUnsupported, k.name))
			}
		}
	}
}

// ignoredRunContent is run content with nothing to show in a page body.
// Other unknown elements of the main namespace fail the build.
var ignoredRunContent = map[string]bool{
	"rPr":                   true,
	"lastRenderedPageBreak": true,
	"commentReference":      true,
	"annotationRef":         true,
	"footnoteRef":           true,
	"endnoteRef":            true,
	"separator":             true,
	"continuationSeparator": true,
	"delText":               true,
	"delInstrText":          true,
	// Header and footer fields.
	"pgNum":      true,
	"dayShort":   true,
	"dayLong":    true,
	"monthShort": true,
	"monthLong":  true,
	"yearShort":  true,
	"yearLong":   true,
}

// runContent expands mc:AlternateContent to the content of its first
// choice, or of its fallback when it offers no choice.
func runContent(xs []*xnode) []*xnode {
	var out []*xnode
	for _, x := range xs {
		if x.name != "AlternateContent" {
			out = append(out, x)
			continue
		}
		alt := x.child("Choice")
		if alt == nil {
			alt = x.child("Fallback")
		}
		out = append(out, runContent(alt.childrenOrNil())...)
	}
	return out
}

// emuPerPixel converts DrawingML extents to CSS pixels.
const emuPerPixel = 9525

// picture converts a w:drawing, w:pict or w:object to a marker div holding
// one img per referenced image and the blocks of its text boxes.
func (b *builder) picture(x *xnode) *dom.Node {
	div := dom.NewElement("div").WithAttr(AttrPicture, x.name)
	alt := pictureAlt(x)
	var width, height string
	if ext := find(x, "extent"); ext != nil {
		width, height = emuPixels(ext, "cx"), emuPixels(ext, "cy")
	}

	var walk func(n *xnode)
	walk = func(n *xnode) {
		for _, c := range n.children {
			switch c.name {
			case "Fallback":
				continue
			case "txbxContent":
				b.textBox(div, c)
				continue
			case "blip", "imagedata":
				if img := b.image(c, alt, width, height); img != nil {
					b.add(div, img)
				}
			}
			walk(c)
		}
	}
	walk(x)
	return div
}

// image resolves a:blip (r:embed or r:link) and v:imagedata (r:id).
func (b *builder) image(x *xnode, alt, width, height string) *dom.Node {
	var src string
	switch {
	case x.attrNS(nsRels, "embed") != "":
		src = b.embedded(x.attrNS(nsRels, "embed"))
	case x.attrNS(nsRels, "id") != "":
		src = b.embedded(x.attrNS(nsRels, "id"))
	case x.attrNS(nsRels, "link") != "":
		target, ok := b.rels.links[x.attrNS(nsRels, "link")]
		if !ok {
			b.fail(fmt.Errorf("%w: image link %q", ErrMissingPart, x.attrNS(nsRels, "link")))
		}
		src = target
	}
	if src == "" {
		return nil
	}
	if alt == "" {
		alt = attrLocal(x, "title")
	}
	img := dom.NewElement("img").WithAttr("src", src).WithAttr("alt", alt)
	if width != "" && height != "" {
		img.SetAttr("width", width)
		img.SetAttr("height", height)
	}
	return img
}

// embedded returns the relative src of an image stored in the archive and
// records its bytes in the media map.
func (b *builder) embedded(id string) string {
	name, ok := b.rels.images[id]
	if !ok {
		b.fail(fmt.Errorf("%w: image relationship %q", ErrMissingPart, id))
		return ""
	}
	src := strings.TrimPrefix(name, "word/")
	if strings.HasPrefix(src, "../") || src == ".." {
		b.fail(fmt.Errorf("%w: image outside the archive: %s", ErrUnsupported, name))
		return ""
	}
	if _, seen := b.media[src]; !seen {
		data, err := b.archive.file(name)
		if err != nil {
			b.fail(err)
			return ""
		}
		b.media[src] = data
	}
	return src
}

// textBox builds the paragraphs of a w:txbxContent into div. The enclosing
// paragraph's containers, fields and pending bookmarks are kept aside.
func (b *builder) textBox(div *dom.Node, x *xnode) {
	containers, fields, bookmarks := b.containers, b.fields, b.bookmarks
	b.containers, b.fields, b.bookmarks = nil, nil, nil
	b.blocks(div, x.children)
	b.flushBookmarks(div)
	b.containers, b.fields = containers, fields
	b.bookmarks = append(bookmarks, b.bookmarks...)
}

// pictureAlt is the description or title of a drawing, or the alt text of
// a VML shape.
func pictureAlt(x *xnode) string {
	if pr := find(x, "docPr"); pr != nil {
		if d := attrLocal(pr, "descr"); d != "" {
			return d
		}
		return attrLocal(pr, "title")
	}
	if shape := find(x, "shape"); shape != nil {
		return attrLocal(shape, "alt")
	}
	return ""
}

func emuPixels(x *xnode, local string) string {
	v, err := strconv.ParseInt(attrLocal(x, local), 10, 64)
	if err != nil || v <= 0 {
		return ""
	}
	return strconv.FormatInt((v+emuPerPixel/2)/emuPerPixel, 10)
}

// find returns the first descendant with the given local name.
func find(x *xnode, name string) *xnode {
	for _, c := range x.children {
		if c.name == name {
			return c
		}
		if d := find(c, name); d != nil {
			return d
		}
	}
	return nil
}

// attrLocal returns an attribute by local name in any namespace.
func attrLocal(x *xnode, local string) string {
	for _, a := range x.attrs {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

func (b *builder) table(x *xnode) *dom.Node {
	table := dom.NewElement("table")
	for _, row := range x.all("tr") {
		tr := dom.NewElement("tr")
		for _, cell := range row.all("tc") {
			b.add(tr, b.cell(cell))
		}
		b.add(table, tr)
	}
	return table
}

func (b *builder) cell(x *xnode) *dom.Node {
	td := dom.NewElement("td")
	pr := x.child("tcPr")
	if span := pr.child("gridSpan"); span != nil && span.val() != "1" && span.val() != "" {
		td.SetAttr("colspan", span.val())
	}
	if shd := pr.child("shd"); shd != nil {
		if c := shading(shd); c != "" {
			td.SetStyle("background-color", c)
		}
	}
	b.blocks(td, x.children)
	return td
}
