package dom

var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"body": true, "caption": true, "dd": true, "div": true, "dl": true,
	"dt": true, "figcaption": true, "figure": true, "footer": true, "h1": true, "h2": true,
	"h3": true, "h4": true, "h5": true, "h6": true, "head": true,
	"header": true, "hr": true, "html": true, "li": true, "link": true,
	"meta": true, "nav": true, "ol": true, "p": true, "pre": true,
	"script": true, "section": true, "style": true, "table": true,
	"tbody": true, "td": true, "tfoot": true, "th": true, "thead": true,
	"title": true, "tr": true, "ul": true,
}

var voidTags = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// IsBlock reports whether tag lays out as a block.
func IsBlock(tag string) bool {
	return blockTags[tag]
}

// IsVoid reports whether tag never has content or an end tag.
func IsVoid(tag string) bool {
	return voidTags[tag]
}

// HeadingLevel returns 1 to 6 for h1 to h6, or 0.
func HeadingLevel(n *Node) int {
	if n == nil || n.Type != ElementNode || len(n.Tag) != 2 || n.Tag[0] != 'h' {
		return 0
	}
	if l := int(n.Tag[1] - '0'); l >= 1 && l <= 6 {
		return l
	}
	return 0
}
