package docx

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/alnah/go-docx2html/internal/dom"
)

// Level is one w:lvl of an abstract numbering definition.
type Level struct {
	Ilvl   int
	Start  int
	NumFmt string // decimal, lowerLetter, upperLetter, lowerRoman, upperRoman, bullet, none
	Text   string // lvlText, e.g. "%1.%2."
	Suffix string // text written after the marker
	Style  *dom.Style
}

// Numbering holds the definitions of numbering.xml.
type Numbering struct {
	abstracts map[string][]Level
	nums      map[string]numInstance
}

type numInstance struct {
	abstract  string
	overrides map[int]int // ilvl -> start
}

// AbstractID returns the abstract numbering definition a numId refers to.
func (n *Numbering) AbstractID(numID string) (string, bool) {
	if n == nil {
		return "", false
	}
	inst, ok := n.nums[numID]
	if !ok {
		return "", false
	}
	_, ok = n.abstracts[inst.abstract]
	return inst.abstract, ok
}

// Levels returns the levels of numID with start overrides applied.
func (n *Numbering) Levels(numID string) ([]Level, bool) {
	abs, ok := n.AbstractID(numID)
	if !ok {
		return nil, false
	}
	src := n.abstracts[abs]
	out := make([]Level, len(src))
	copy(out, src)
	for ilvl, start := range n.nums[numID].overrides {
		if ilvl >= 0 && ilvl < len(out) {
			out[ilvl].Start = start
		}
	}
	return out, true
}

// Level returns one level of numID.
func (n *Numbering) Level(numID string, ilvl int) (Level, bool) {
	levels, ok := n.Levels(numID)
	if !ok || ilvl < 0 || ilvl >= len(levels) {
		return Level{}, false
	}
	return levels[ilvl], true
}

// NewNumbering returns numbering definitions built in code. abstracts maps
// abstractNumId to levels ordered by ilvl; nums maps numId to abstractNumId.
func NewNumbering(abstracts map[string][]Level, nums map[string]string) *Numbering {
	n := &Numbering{abstracts: abstracts, nums: make(map[string]numInstance, len(nums))}
	for id, abs := range nums {
		n.nums[id] = numInstance{abstract: abs}
	}
	return n
}

func parseNumbering(root *xnode) *Numbering {
	n := &Numbering{abstracts: make(map[string][]Level), nums: make(map[string]numInstance)}
	if root == nil {
		return n
	}
	for _, a := range root.all("abstractNum") {
		id, _ := a.attr("abstractNumId")
		var levels []Level
		for _, l := range a.all("lvl") {
			levels = append(levels, parseLevel(l))
		}
		n.abstracts[id] = levels
	}
	for _, x := range root.all("num") {
		id, _ := x.attr("numId")
		inst := numInstance{overrides: make(map[int]int)}
		if a := x.child("abstractNumId"); a != nil {
			inst.abstract = a.val()
		}
		for _, o := range x.all("lvlOverride") {
			ilvl, err := strconv.Atoi(attrOr(o, "ilvl", ""))
			if err != nil {
				continue
			}
			if so := o.child("startOverride"); so != nil {
				if v, err := strconv.Atoi(so.val()); err == nil {
					inst.overrides[ilvl] = v
				}
			}
		}
		n.nums[id] = inst
	}
	return n
}

func parseLevel(l *xnode) Level {
	lvl := Level{Start: 1, NumFmt: "decimal", Suffix: "\t"}
	lvl.Ilvl, _ = strconv.Atoi(attrOr(l, "ilvl", "0"))
	if s := l.child("start"); s != nil {
		if v, err := strconv.Atoi(s.val()); err == nil {
			lvl.Start = v
		}
	}
	if f := l.child("numFmt"); f != nil {
		lvl.NumFmt = f.val()
	}
	if t := l.child("lvlText"); t != nil {
		lvl.Text = t.val()
	}
	if s := l.child("suff"); s != nil {
		switch s.val() {
		case "space":
			lvl.Suffix = " "
		case "nothing":
			lvl.Suffix = ""
		}
	}
	lvl.Style, _ = parseProps(l.child("pPr"))
	return lvl
}

func attrOr(x *xnode, key, def string) string {
	if v, ok := x.attr(key); ok {
		return v
	}
	return def
}

var levelRef = regexp.MustCompile(`%([1-9])`)

// RenderMarker formats the marker of the deepest level in numbers. numbers
// holds the current counter of every level from 0 down to that level.
func RenderMarker(levels []Level, numbers []int) string {
	if len(numbers) == 0 || len(numbers) > len(levels) {
		return ""
	}
	this := levels[len(numbers)-1]
	text := levelRef.ReplaceAllStringFunc(this.Text, func(m string) string {
		i := int(m[1] - '1')
		if i >= len(numbers) {
			return ""
		}
		return FormatNumber(levels[i].NumFmt, numbers[i])
	})
	if this.NumFmt == "bullet" {
		text = "•"
	}
	return text + this.Suffix
}

// FormatNumber renders n in a Word number format.
func FormatNumber(format string, n int) string {
	switch format {
	case "lowerLetter":
		return letters(n)
	case "upperLetter":
		return strings.ToUpper(letters(n))
	case "lowerRoman":
		return roman(n)
	case "upperRoman":
		return strings.ToUpper(roman(n))
	case "bullet":
		return "•"
	case "none":
		return ""
	default:
		return strconv.Itoa(n)
	}
}

// letters follows Word: a..z, then aa..zz, then aaa..
func letters(n int) string {
	if n < 1 {
		return strconv.Itoa(n)
	}
	c := byte('a' + (n-1)%26)
	return strings.Repeat(string(c), (n-1)/26+1)
}

func roman(n int) string {
	if n < 1 || n > 3999 {
		return strconv.Itoa(n)
	}
	vals := []int{1000, 900, 500, 400, 100, 90, 50, 40, 10, 9, 5, 4, 1}
	syms := []string{"m", "cm", "d", "cd", "c", "xc", "l", "xl", "x", "ix", "v", "iv", "i"}
	var b strings.Builder
	for i, v := range vals {
		for n >= v {
			b.WriteString(syms[i])
			n -= v
		}
	}
	return b.String()
}
