package fixups

import (
	"slices"
	"strings"

	"github.com/alnah/go-docx2html/internal/dom"
)

// Cell shadings Word templates use for header rows.
var headerShading = map[string]bool{
	"#C0C0C0": true, "#D8D8D8": true, "#BFBFBF": true, "#D9D9D9": true,
}

// tables turns shaded cells into th and unwraps the single paragraph
// Word puts in every cell when it carries nothing worth keeping.
func tables(_ *Env, doc *dom.Document) error {
	const pass = "tables"
	_, body, err := skeleton(pass, doc)
	if err != nil {
		return err
	}
	if err := requireResolvedStyles(pass, body); err != nil {
		return err
	}
	cells := slices.Collect(dom.FindAll(body, dom.ByTag("td", "th")))
	for _, td := range cells {
		tr := td.Parent()
		if !tr.IsElement("tr") {
			return mismatch(pass, td, "a cell inside <tr>", "%s", describe(tr))
		}
		if !tr.Parent().IsElement("table", "tbody", "thead", "tfoot") {
			return mismatch(pass, tr, "a row inside <table>", "%s", describe(tr.Parent()))
		}
		header := takeShading(td)
		if p := td.FirstChild(); td.ChildCount() == 1 && p.IsElement("p") && p.AttrCount() == 0 {
			header = takeShading(p) || header
			if negligible(p.Style) {
				if err := dom.Unwrap(p); err != nil {
					return err
				}
			}
		}
		if span := td.FirstChild(); td.ChildCount() == 1 && span.IsElement("span") && span.AttrCount() == 0 {
			header = takeShading(span) || header
			if header {
				// Header cells are bold already.
				span.Style.Delete("font-weight")
			}
			if negligible(span.Style) {
				if err := dom.Unwrap(span); err != nil {
					return err
				}
			}
		}
		if header {
			td.Tag = "th"
		}
	}
	return nil
}

// takeShading removes a header background from n and reports whether it
// had one.
func takeShading(n *dom.Node) bool {
	if headerShading[strings.ToUpper(n.StyleValue("background-color"))] {
		n.Style.Delete("background-color")
		return true
	}
	return false
}

// negligible reports whether style holds only layout the output drops.
func negligible(style *dom.Style) bool {
	for _, k := range style.Keys() {
		if !strings.HasPrefix(k, "margin-") && k != "text-indent" && !strings.HasPrefix(k, transientStylePrefix) {
			return false
		}
	}
	return true
}

// tableFormatting classifies tables as real grids or layout tables.
func tableFormatting(_ *Env, doc *dom.Document) error {
	_, body, err := skeleton("table_formatting", doc)
	if err != nil {
		return err
	}
	for table := range dom.FindAll(body, dom.ByTag("table")) {
		if len(table.Classes()) > 0 {
			continue
		}
		grid := dom.FindFirst(table, func(n *dom.Node) bool {
			return n.IsElement("th") || (n.IsElement("td") && (n.Style.Has("background-color") || n.Style.Has("border")))
		}) != nil
		if grid {
			table.AddClass("real-table")
		} else {
			table.AddClass("lightweight-table")
		}
	}
	return nil
}
