package fixups

import (
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-docx2html/internal/dom"
)

func TestNotice(t *testing.T) {
	t.Parallel()

	env := testEnv(t, Options{Notice: "This is a **draft**.\n\nSee [the standard](https://example.com/)."})
	doc := page(el("section", el("h1", txt("A"))))
	for range 2 {
		if err := notice(env, doc); err != nil {
			t.Fatalf("notice() error = %v", err)
		}
	}

	want := `<div id="unofficial"><p>This is a <strong>draft</strong>.</p>` +
		`<p>See <a href="https://example.com/">the standard</a>.</p></div>`
	if got := flat(doc.Body().FirstChild()); got != want {
		t.Errorf("notice\n got: %s\nwant: %s", got, want)
	}
	if n := len(doc.Body().ElementChildren("div")); n != 1 {
		t.Errorf("%d notices, want 1", n)
	}
}

func TestNotice_Disabled(t *testing.T) {
	t.Parallel()

	doc := page(el("p", txt("x")))
	if err := notice(testEnv(t, Options{Notice: "  \n"}), doc); err != nil {
		t.Fatalf("notice() error = %v", err)
	}
	if got := flat(doc.Body()); got != `<body><p>x</p></body>` {
		t.Errorf("body = %s", got)
	}
}

func TestHTMLHead(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts Options
		body []*dom.Node
		want []string
	}{
		{
			name: "title from the first heading",
			opts: Options{StylesheetHref: "css/spec.css"},
			body: []*dom.Node{
				el("section", el("h1", txt("Contents"))).WithAttr("id", "contents"),
				el("section", el("h1", el("span", txt("1")).WithClass("secnum"), txt(" Scope"))),
			},
			want: []string{
				`<html lang="en">`,
				`<meta charset="utf-8">`,
				`<title>Scope</title>`,
				`<link rel="stylesheet" href="css/spec.css">`,
			},
		},
		{
			name: "configured title and language",
			opts: Options{Title: "ECMAScript", Lang: "fr"},
			body: []*dom.Node{el("h1", txt("Ignored"))},
			want: []string{`<html lang="fr">`, `<title>ECMAScript</title>`},
		},
		{
			name: "title from the file name",
			body: []*dom.Node{el("p", txt("x"))},
			want: []string{`<title>sample</title>`},
		},
		{
			name: "code rules inlined",
			opts: Options{CodeStyle: "github"},
			body: []*dom.Node{el("pre", el("span", txt("let")).WithClass("kd")).WithClass("chroma")},
			want: []string{`<style class="chroma">`, `.chroma`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := testEnv(t, tt.opts)
			doc := page(tt.body...)
			for range 2 {
				if err := htmlHead(env, doc); err != nil {
					t.Fatalf("htmlHead() error = %v", err)
				}
			}
			out := flat(doc.Root())
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("document missing %q:\n%s", want, out)
				}
			}
			if n := len(doc.Head().ElementChildren("title")); n != 1 {
				t.Errorf("%d title elements, want 1", n)
			}
		})
	}
}

func TestHTMLHead_NoCodeRulesWithoutCode(t *testing.T) {
	t.Parallel()

	doc := page(el("p", txt("x")))
	if err := htmlHead(testEnv(t, Options{CodeStyle: "github"}), doc); err != nil {
		t.Fatalf("htmlHead() error = %v", err)
	}
	if dom.FindFirst(doc.Head(), dom.ByTag("style")) != nil {
		t.Errorf("style added without highlighted code: %s", flat(doc.Head()))
	}
}

func TestCheckTransient(t *testing.T) {
	t.Parallel()

	marked := el("p", txt("x"))
	marked.SetStyle(keyIndent, "0")

	tests := []struct {
		name    string
		body    *dom.Node
		wantErr bool
	}{
		{name: "clean", body: el("p", txt("x")).WithClass("Note")},
		{name: "builder attribute", body: para("Normal", txt("x")), wantErr: true},
		{name: "pass attribute", body: el("div").WithAttr(attrGrammar, "lhs"), wantErr: true},
		{name: "style key", body: marked, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := checkTransient(testEnv(t, Options{}), page(tt.body))
			if got := errors.Is(err, ErrAssertion); got != tt.wantErr {
				t.Errorf("checkTransient() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
