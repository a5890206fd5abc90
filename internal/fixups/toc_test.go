package fixups

import (
	"errors"
	"testing"

	"github.com/alnah/go-docx2html/internal/dom"
)

func TestGenerateTOC(t *testing.T) {
	t.Parallel()

	env := testEnv(t, Options{TOCMaxDepth: 2})
	doc := sectioned(t, env,
		el("section").WithAttr("id", "contents"),
		el("h1", txt("1\tScope")),
		el("h2", txt("1.1\tDetails")),
		el("h3", txt("1.1.1\tDeep")),
		el("h1", txt("2\tEnd")),
	)
	for range 2 {
		if err := generateTOC(env, doc); err != nil {
			t.Fatalf("generateTOC() error = %v", err)
		}
	}

	want := `<section id="contents"><h1>Contents</h1><ol class="toc">` +
		`<li><a href="#sec-scope"><span class="secnum">1</span> Scope</a>` +
		`<ol class="toc"><li><a href="#sec-details"><span class="secnum">1.1</span> Details</a></li></ol></li>` +
		`<li><a href="#sec-end"><span class="secnum">2</span> End</a></li>` +
		`</ol></section>`
	if got := flat(doc.Body().FirstChild()); got != want {
		t.Errorf("contents\n got: %s\nwant: %s", got, want)
	}
}

func TestGenerateTOC_WithoutPlaceholder(t *testing.T) {
	t.Parallel()

	env := testEnv(t, Options{})
	doc := sectioned(t, env, el("h1", txt("Only")))
	before := doc.Clone()
	if err := generateTOC(env, doc); err != nil {
		t.Fatalf("generateTOC() error = %v", err)
	}
	if !dom.Equal(before.Root(), doc.Root()) {
		t.Errorf("document changed without a contents placeholder: %s", flat(doc.Body()))
	}
}

func TestGenerateTOC_BeforeSections(t *testing.T) {
	t.Parallel()

	doc := page(el("section").WithAttr("id", "contents"), el("h1", txt("A")))
	if err := generateTOC(testEnv(t, Options{}), doc); !errors.Is(err, ErrAssertion) {
		t.Errorf("generateTOC() error = %v, want ErrAssertion", err)
	}
}

func TestTOCEntry(t *testing.T) {
	t.Parallel()

	h := el("h2",
		el("span", el("a", txt("4.2")).WithAttr("href", "#sec-x")).WithClass("secnum"),
		txt(" Values "),
		el("code", txt("x")).WithAttr("id", "def-x"),
		el("span").WithClass("redirect").WithAttr("id", "sec-old"),
	)
	got := flat(el("a", tocEntry(h)...))
	want := `<a><span class="secnum">4.2</span> Values <code>x</code></a>`
	if got != want {
		t.Errorf("tocEntry() = %s, want %s", got, want)
	}
	if h.ChildCount() != 4 {
		t.Errorf("tocEntry() modified the heading: %s", flat(h))
	}
}

func TestSticky(t *testing.T) {
	t.Parallel()

	env := testEnv(t, Options{})
	doc := sectioned(t, env,
		el("h1", txt("1\tA")),
		el("p", txt("intro")),
		el("h2", txt("1.1\tB")),
		el("p", txt("x")),
	)
	if err := sticky(env, doc); err != nil {
		t.Fatalf("sticky() error = %v", err)
	}

	sec := doc.Body().FirstElementChild()
	front := sec.FirstElementChild()
	if !front.IsElement("div") || !front.HasClass("front") || front.ChildCount() != 2 {
		t.Fatalf("front matter = %s, want div.front with heading and paragraph", flat(front))
	}
	if h := sectionHeading(sec); !h.IsElement("h1") {
		t.Errorf("sectionHeading() = %v, want the h1 inside div.front", h)
	}
	sub := sec.ElementChildren("section")
	if len(sub) != 1 || sub[0].FirstElementChild().IsElement("div") {
		t.Errorf("subsection wrapped: %s", flat(sec))
	}

	// Wrapped headings still count as placed.
	once := doc.Clone()
	if err := sticky(env, doc); err != nil {
		t.Fatalf("second sticky() error = %v", err)
	}
	if err := sections(env, doc); err != nil {
		t.Fatalf("sections() after sticky error = %v", err)
	}
	if !dom.Equal(once.Root(), doc.Root()) {
		t.Errorf("second run changed the document: %s", flat(doc.Body()))
	}
}
