package fixups

import (
	"errors"
	"testing"

	"github.com/alnah/go-docx2html/internal/dom"
)

func lhs(children ...*dom.Node) *dom.Node {
	return el("div", children...).WithAttr(attrGrammar, "lhs")
}

func rhs(children ...*dom.Node) *dom.Node {
	return el("div", children...).WithAttr(attrGrammar, "rhs")
}

func TestGrammar(t *testing.T) {
	t.Parallel()

	doc := page(
		el("p", txt("Intro.")),
		lhs(txt("Script :")),
		rhs(txt("ScriptBody"), el("sub", txt("opt"))),
		lhs(txt("StatementList :")),
		rhs(el("code", txt("let")), txt("Identifier")).WithAttr(attrBookmark, "_Ref6"),
		el("p", txt("Outro.")),
	)
	env := testEnv(t, Options{})
	if err := grammarPre(env, doc); err != nil {
		t.Fatalf("grammarPre() error = %v", err)
	}

	block := doc.Body().Child(1)
	if !block.IsElement("pre") || !block.HasClass("syntax") {
		t.Fatalf("grammar block = %s, want pre.syntax", flat(block))
	}
	wantText := "Script :\n    ScriptBody_opt\n\nStatementList :\n    let Identifier"
	if got := dom.TextContent(block); got != wantText {
		t.Errorf("grammar text = %q, want %q", got, wantText)
	}
	if got := block.GetAttr(attrBookmark); got != "_Ref6" {
		t.Errorf("bookmark = %q, want _Ref6", got)
	}

	if err := grammarPost(env, doc); err != nil {
		t.Fatalf("grammarPost() error = %v", err)
	}
	want := `<body><p>Intro.</p>` +
		`<div class="gp" data-docx-bookmark="_Ref6"><div class="lhs"><span class="nt">Script</span> <span class="geq">:</span></div>` +
		`<div class="rhs"><span class="nt">ScriptBody</span><sub class="bnf-opt">opt</sub></div></div>` +
		`<div class="gp"><div class="lhs"><span class="nt">StatementList</span> <span class="geq">:</span></div>` +
		`<div class="rhs"><code class="t">let</code> <span class="nt">Identifier</span></div></div>` +
		`<p>Outro.</p></body>`
	if got := flat(doc.Body()); got != want {
		t.Errorf("body\n got: %s\nwant: %s", got, want)
	}
}

func TestGrammarPre_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body []*dom.Node
	}{
		{name: "opens with a right-hand side", body: []*dom.Node{rhs(txt("X"))}},
		{name: "formatting not simplified", body: []*dom.Node{lhs(run("X", "font-style", "italic"), txt(" :"))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if err := grammarPre(testEnv(t, Options{}), page(tt.body...)); !errors.Is(err, ErrAssertion) {
				t.Errorf("grammarPre() error = %v, want ErrAssertion", err)
			}
		})
	}
}

func TestMarkupGrammar(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		line string
		mode string
		want string
	}{
		{
			name: "one line production",
			line: "Digit :: one of 0 1",
			mode: "prod",
			want: `<span class="nt">Digit</span> <span class="geq">::</span> <span class="grhsmod">one of</span> <code class="t">0</code> <code class="t">1</code>`,
		},
		{
			name: "parameters and optional",
			line: "Expression_[In] ,_opt",
			mode: "rhs",
			want: `<span class="nt">Expression</span><sub class="bnf-params">[In]</sub> <code class="t">,</code><sub class="bnf-opt">opt</sub>`,
		},
		{
			name: "annotations",
			line: "[no LineTerminator here] [desc any code point] <TAB>",
			mode: "rhs",
			want: `<span class="grhsannot">[no LineTerminator here]</span> <span class="gprose">any code point</span> <span class="gprose">&lt;TAB&gt;</span>`,
		},
		{
			name: "colons are terminals on the right",
			line: ":: or order",
			mode: "rhs",
			want: `<code class="t">::</code> <span class="grhsmod">or</span> <code class="t">order</code>`,
		},
		{
			name: "longest modifier first",
			line: "but not one of",
			mode: "rhs",
			want: `<span class="grhsmod">but not one of</span>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := flat(el("i", markupGrammar(tt.line, tt.mode)...))
			want := "<i>" + tt.want + "</i>"
			if got != want {
				t.Errorf("markupGrammar(%q)\n got: %s\nwant: %s", tt.line, got, want)
			}
		})
	}
}
