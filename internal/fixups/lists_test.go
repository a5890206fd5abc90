package fixups

import (
	"testing"

	"github.com/alnah/go-docx2html/internal/dom"
)

// numbered runs add_numbering and lists, then drops the style keys so the
// result reads as plain markup.
func numbered(t *testing.T, doc *dom.Document) error {
	t.Helper()

	env := testEnv(t, Options{})
	if err := addNumbering(env, doc); err != nil {
		return err
	}
	if err := lists(env, doc); err != nil {
		return err
	}
	return removeMarginStyle(env, doc)
}

func TestLists(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		paras []*dom.Node
		want  string
	}{
		{
			name: "nested block list",
			paras: []*dom.Node{
				item("1", "0", "one"),
				item("1", "1", "one a"),
				item("1", "0", "two"),
				para("Normal", txt("after")),
			},
			want: `<body><ol class="proc"><li data-docx-style="ListParagraph">one<ol class="block"><li data-docx-style="ListParagraph">one a</li></ol></li>` +
				`<li data-docx-style="ListParagraph">two</li></ol><p data-docx-style="Normal">after</p></body>`,
		},
		{
			name: "bullets",
			paras: []*dom.Node{
				item("2", "0", "x"),
				item("2", "0", "y"),
			},
			want: `<body><ul><li data-docx-style="ListParagraph">x</li><li data-docx-style="ListParagraph">y</li></ul></body>`,
		},
		{
			name: "indented paragraph continues the item",
			paras: []*dom.Node{
				item("1", "0", "one"),
				indented(para("Normal", txt("more about one")), "54pt"),
				item("1", "0", "two"),
			},
			want: `<body><ol class="proc"><li data-docx-style="ListParagraph">one<p data-docx-style="Normal">more about one</p></li>` +
				`<li data-docx-style="ListParagraph">two</li></ol></body>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := page(tt.paras...)
			if err := numbered(t, doc); err != nil {
				t.Fatalf("lists() error = %v", err)
			}
			if got := flat(doc.Body()); got != tt.want {
				t.Errorf("lists()\n got: %s\nwant: %s", got, tt.want)
			}
		})
	}
}

// indented gives p a left margin of its own.
func indented(p *dom.Node, margin string) *dom.Node {
	p.SetStyle("margin-left", margin)
	return p
}

func TestLists_HeadingMarkerKept(t *testing.T) {
	t.Parallel()

	h := para("Heading1", txt("Scope"))
	h.SetStyle(keyNumID, "1")
	h.SetStyle(keyIlvl, "0")
	doc := page(h)
	if err := numbered(t, doc); err != nil {
		t.Fatalf("lists() error = %v", err)
	}
	if !h.IsElement("p") || leadingMarker(h) == nil {
		t.Errorf("heading lost its number: %s", flat(h))
	}
}
