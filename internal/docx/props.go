package docx

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/alnah/go-docx2html/internal/dom"
)

// Transient style keys written by the builder.
const (
	KeyNumID = "-docx-num-id"
	KeyIlvl  = "-docx-ilvl"
)

var hexColor = regexp.MustCompile(`^[0-9a-fA-F]{6}$`)

// fontFamily maps Word font names to the CSS family the passes reason
// about. An empty result drops the font.
func fontFamily(font string) string {
	switch font {
	case "Symbol", "Mistral":
		return ""
	case "Courier", "Courier New", "Consolas", "Lucida Console":
		return "monospace"
	case "Arial", "Helvetica":
		return "sans-serif"
	case "CG Times":
		return "Times New Roman"
	default:
		return font
	}
}

// parseProps converts a w:pPr, w:rPr or w:tcPr element to style
// properties. ref is the referenced paragraph or character style id.
func parseProps(pr *xnode) (style *dom.Style, ref string) {
	style = dom.NewStyle()
	if pr == nil {
		return style, ""
	}
	for _, k := range pr.children {
		switch k.name {
		case "i":
			if k.on() {
				style.Set("font-style", "italic")
			}
		case "b":
			if k.on() {
				style.Set("font-weight", "bold")
			}
		case "rFonts":
			font, ok := k.attr("ascii")
			if !ok {
				font, ok = k.attr("cs")
			}
			if ok {
				if f := fontFamily(font); f != "" {
					style.Set("font-family", f)
				}
			}
		case "vertAlign":
			switch k.val() {
			case "superscript":
				style.Set("vertical-align", "super")
			case "subscript":
				style.Set("vertical-align", "sub")
			}
		case "shd":
			if c := shading(k); c != "" {
				style.Set("background-color", c)
			}
		case "numPr":
			numID := k.child("numId")
			if numID == nil {
				continue
			}
			style.Set(KeyNumID, numID.val())
			if ilvl := k.child("ilvl"); ilvl != nil {
				style.Set(KeyIlvl, ilvl.val())
			}
		case "ind":
			indentation(k, style)
		case "pStyle", "rStyle":
			ref = k.val()
		}
	}
	return style, ref
}

// shading returns the CSS color of a w:shd element, or "".
func shading(k *xnode) string {
	val := k.val()
	fill, _ := k.attr("fill")
	color, _ := k.attr("color")
	if val == "solid" && strings.EqualFold(fill, "FFFFFF") && hexColor.MatchString(color) {
		return "#" + strings.ToUpper(color)
	}
	if hexColor.MatchString(fill) && !strings.EqualFold(fill, "FFFFFF") {
		return "#" + strings.ToUpper(fill)
	}
	return ""
}

// indentation converts w:ind twips to margin-left and text-indent points.
func indentation(k *xnode, style *dom.Style) {
	left, ok := k.attr("left")
	if !ok {
		left, ok = k.attr("start")
	}
	if ok {
		style.Set("margin-left", twipsToPoints(left))
	}
	if h, ok := k.attr("hanging"); ok {
		style.Set("text-indent", negate(twipsToPoints(h)))
	} else if f, ok := k.attr("firstLine"); ok {
		style.Set("text-indent", twipsToPoints(f))
	}
}

func twipsToPoints(s string) string {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v/20, 'f', -1, 64) + "pt"
}

func negate(pt string) string {
	if pt == "0" {
		return pt
	}
	if strings.HasPrefix(pt, "-") {
		return pt[1:]
	}
	return "-" + pt
}

// Points parses a length written by the builder ("0" or "<n>pt").
func Points(s string) (float64, bool) {
	if s == "0" || s == "" {
		return 0, true
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "pt"), 64)
	if err != nil || !strings.HasSuffix(s, "pt") {
		return 0, false
	}
	return v, true
}

// FormatPoints writes a length in the form Points reads.
func FormatPoints(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64) + "pt"
}
