package dom

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sampleTree() *Node {
	return NewElement("html",
		NewElement("head"),
		NewElement("body",
			NewElement("section",
				NewElement("h1", NewText("Introduction")),
				NewElement("p", NewText("one")).WithClass("note"),
			),
			NewElement("section",
				NewElement("h1", NewText("Grammar")),
				NewElement("p", NewText("two"), NewElement("b", NewText("!"))),
			),
		),
	)
}

func TestFindAll(t *testing.T) {
	t.Parallel()

	root := sampleTree()

	var got []string
	for n := range FindAll(root, Elements) {
		got = append(got, n.Tag)
	}
	want := []string{"head", "body", "section", "h1", "p", "section", "h1", "p", "b"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("pre-order mismatch (-want +got):\n%s", diff)
	}

	// Restartable: a second pass yields the same sequence.
	seq := FindAll(root, ByTag("h1"))
	first := slices.Collect(seq)
	second := slices.Collect(seq)
	if len(first) != 2 || len(second) != 2 {
		t.Errorf("got %d then %d headings, want 2 both times", len(first), len(second))
	}

	// Lazy: stopping early does not visit the rest.
	visited := 0
	for range FindAll(root, func(*Node) bool { visited++; return true }) {
		break
	}
	if visited != 1 {
		t.Errorf("visited %d nodes before break, want 1", visited)
	}
}

func TestFindFirst(t *testing.T) {
	t.Parallel()

	root := sampleTree()

	tests := []struct {
		name string
		pred Predicate
		want string
	}{
		{name: "by class", pred: ByClass("note"), want: "one"},
		{name: "by tag", pred: ByTag("b"), want: "!"},
		{name: "and", pred: And(ByTag("p"), Not(ByClass("note"))), want: "two!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			n := FindFirst(root, tt.pred)
			if n == nil {
				t.Fatal("FindFirst() = nil")
			}
			if got := TextContent(n); got != tt.want {
				t.Errorf("TextContent() = %q, want %q", got, tt.want)
			}
		})
	}

	if n := FindFirst(root, ByTag("table")); n != nil {
		t.Errorf("FindFirst(table) = %v, want nil", n)
	}
}

func TestPath(t *testing.T) {
	t.Parallel()

	root := sampleTree()
	headings := slices.Collect(FindAll(root, ByTag("h1")))

	if got, want := Path(headings[1]), "/html/body/section[2]/h1"; got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
	text := headings[0].FirstChild()
	if got, want := Path(text), "/html/body/section[1]/h1/text()"; got != want {
		t.Errorf("Path(text) = %q, want %q", got, want)
	}
}

func TestAttributes(t *testing.T) {
	t.Parallel()

	n := NewElement("a")
	n.SetAttr("href", "#x")
	n.SetAttr("id", "y")
	n.SetAttr("href", "#z")
	n.AddClass("toc")
	n.AddClass("toc")
	n.AddClass("ref")

	want := []Attr{{"href", "#z"}, {"id", "y"}, {"class", "toc ref"}}
	if diff := cmp.Diff(want, n.Attrs()); diff != "" {
		t.Errorf("Attrs() mismatch (-want +got):\n%s", diff)
	}

	n.RemoveClass("toc")
	n.RemoveClass("ref")
	if n.HasAttr("class") {
		t.Error("empty class attribute not removed")
	}
	if !n.RemoveAttr("id") || n.RemoveAttr("id") {
		t.Error("RemoveAttr() reported wrong presence")
	}
}

func TestStyle(t *testing.T) {
	t.Parallel()

	s := ParseStyle("margin-left: 10pt; color:red;; bogus")
	if got, want := s.String(), "color: red; margin-left: 10pt"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if diff := cmp.Diff([]string{"margin-left", "color"}, s.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
	c := s.Clone()
	c.Delete("color")
	if !s.Has("color") {
		t.Error("Clone() shares state with the original")
	}
	var nilStyle *Style
	if nilStyle.Len() != 0 || nilStyle.Value("x") != "" {
		t.Error("nil Style reads are not empty")
	}
}

func TestParseFragment(t *testing.T) {
	t.Parallel()

	nodes, err := ParseFragment(`<p class="x" style="color: red">a <b>b</b></p><!--c-->`)
	if err != nil {
		t.Fatalf("ParseFragment() error = %v", err)
	}
	if len(nodes) != 2 {
		t.Fatalf("got %d nodes, want 2", len(nodes))
	}
	p := nodes[0]
	if !p.HasClass("x") || p.StyleValue("color") != "red" || p.HasAttr("style") {
		t.Errorf("attributes not converted: %v style=%q", p.Attrs(), p.Style)
	}
	if got := TextContent(p); got != "a b" {
		t.Errorf("TextContent() = %q, want %q", got, "a b")
	}
	if nodes[1].Type != CommentNode {
		t.Errorf("second node type = %v, want comment", nodes[1].Type)
	}
	if err := Check(p); err != nil {
		t.Errorf("Check() error = %v", err)
	}
}

func TestEqualAndClone(t *testing.T) {
	t.Parallel()

	a := sampleTree()
	b := a.Clone()
	if !Equal(a, b) {
		t.Fatal("clone differs from original")
	}
	FindFirst(b, ByTag("b")).SetAttr("id", "x")
	if Equal(a, b) {
		t.Error("Equal() ignores attribute change")
	}
}
