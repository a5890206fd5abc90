package dom

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// tags lists the tags (or "#text") of n's children.
func tags(n *Node) []string {
	var out []string
	for _, c := range n.Children() {
		if c.IsText() {
			out = append(out, "#"+c.Data)
			continue
		}
		out = append(out, c.Tag)
	}
	return out
}

func TestAppendChild(t *testing.T) {
	t.Parallel()

	t.Run("moves node from previous parent", func(t *testing.T) {
		t.Parallel()

		a, b := NewElement("div"), NewElement("div")
		p := NewElement("p")
		if err := AppendChild(a, p); err != nil {
			t.Fatalf("AppendChild() error = %v", err)
		}
		if err := AppendChild(b, p); err != nil {
			t.Fatalf("AppendChild() error = %v", err)
		}
		if a.ChildCount() != 0 {
			t.Errorf("old parent has %d children, want 0", a.ChildCount())
		}
		if p.Parent() != b {
			t.Error("Parent() is not the new parent")
		}
		if err := Check(b); err != nil {
			t.Errorf("Check() error = %v", err)
		}
	})

	t.Run("rejects cycle", func(t *testing.T) {
		t.Parallel()

		outer := NewElement("div")
		inner := NewElement("span")
		if err := AppendChild(outer, inner); err != nil {
			t.Fatal(err)
		}
		err := AppendChild(inner, outer)
		if !errors.Is(err, ErrStructure) {
			t.Fatalf("AppendChild() error = %v, want ErrStructure", err)
		}
		if outer.Parent() != nil {
			t.Error("failed append must not re-parent")
		}
	})

	t.Run("rejects self", func(t *testing.T) {
		t.Parallel()

		n := NewElement("div")
		if err := AppendChild(n, n); !errors.Is(err, ErrStructure) {
			t.Errorf("AppendChild(n, n) error = %v, want ErrStructure", err)
		}
	})

	t.Run("rejects text parent", func(t *testing.T) {
		t.Parallel()

		if err := AppendChild(NewText("x"), NewElement("b")); !errors.Is(err, ErrStructure) {
			t.Errorf("error = %v, want ErrStructure", err)
		}
	})
}

func TestInsertBefore(t *testing.T) {
	t.Parallel()

	a, b, c := NewElement("a"), NewElement("b"), NewElement("c")
	p := NewElement("div", a, c)

	if err := InsertBefore(p, b, c); err != nil {
		t.Fatalf("InsertBefore() error = %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, tags(p)); diff != "" {
		t.Errorf("children mismatch (-want +got):\n%s", diff)
	}

	// Moving within the same parent keeps every node exactly once.
	if err := InsertBefore(p, c, a); err != nil {
		t.Fatalf("InsertBefore() error = %v", err)
	}
	if diff := cmp.Diff([]string{"c", "a", "b"}, tags(p)); diff != "" {
		t.Errorf("children mismatch (-want +got):\n%s", diff)
	}

	stranger := NewElement("x")
	err := InsertBefore(p, NewElement("y"), stranger)
	var se *StructureError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v, want *StructureError", err)
	}
	if se.Path != "/div" {
		t.Errorf("Path = %q, want %q", se.Path, "/div")
	}
}

func TestRemoveAndReplaceChild(t *testing.T) {
	t.Parallel()

	a, b := NewElement("a"), NewElement("b")
	p := NewElement("div", a, b)

	if err := RemoveChild(p, NewElement("a")); !errors.Is(err, ErrStructure) {
		t.Errorf("RemoveChild(non-child) error = %v, want ErrStructure", err)
	}
	if err := RemoveChild(p, a); err != nil {
		t.Fatalf("RemoveChild() error = %v", err)
	}
	if a.Parent() != nil {
		t.Error("removed node still has a parent")
	}

	repl := NewElement("i")
	if err := ReplaceChild(p, b, repl); err != nil {
		t.Fatalf("ReplaceChild() error = %v", err)
	}
	if diff := cmp.Diff([]string{"i"}, tags(p)); diff != "" {
		t.Errorf("children mismatch (-want +got):\n%s", diff)
	}
	if b.Parent() != nil {
		t.Error("replaced node still has a parent")
	}
	if err := ReplaceChild(p, b, NewElement("u")); !errors.Is(err, ErrStructure) {
		t.Errorf("ReplaceChild(stale) error = %v, want ErrStructure", err)
	}
}

func TestSpliceWrapUnwrap(t *testing.T) {
	t.Parallel()

	p := NewElement("div", NewElement("a"), NewElement("b"), NewElement("c"), NewElement("d"))

	ol := NewElement("ol")
	if err := WrapRange(p, 1, 3, ol); err != nil {
		t.Fatalf("WrapRange() error = %v", err)
	}
	if diff := cmp.Diff([]string{"a", "ol", "d"}, tags(p)); diff != "" {
		t.Errorf("after WrapRange (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"b", "c"}, tags(ol)); diff != "" {
		t.Errorf("wrapper children (-want +got):\n%s", diff)
	}

	if err := Unwrap(ol); err != nil {
		t.Fatalf("Unwrap() error = %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b", "c", "d"}, tags(p)); diff != "" {
		t.Errorf("after Unwrap (-want +got):\n%s", diff)
	}

	if _, err := Splice(p, 3, 1); !errors.Is(err, ErrStructure) {
		t.Errorf("Splice(bad range) error = %v, want ErrStructure", err)
	}
	if err := Check(p); err != nil {
		t.Errorf("Check() error = %v", err)
	}
}

func TestAppendTextAndNormalize(t *testing.T) {
	t.Parallel()

	p := NewElement("p")
	for _, s := range []string{"a", "", "b"} {
		if err := AppendText(p, s); err != nil {
			t.Fatal(err)
		}
	}
	if diff := cmp.Diff([]string{"#ab"}, tags(p)); diff != "" {
		t.Errorf("AppendText (-want +got):\n%s", diff)
	}

	q := NewElement("p", NewText("x"), NewText(""), NewText("y"), NewElement("b"), NewText("z"))
	Normalize(q)
	if diff := cmp.Diff([]string{"#xy", "b", "#z"}, tags(q)); diff != "" {
		t.Errorf("Normalize (-want +got):\n%s", diff)
	}
	if err := Check(q); err != nil {
		t.Errorf("Check() error = %v", err)
	}
}

func TestCheck(t *testing.T) {
	t.Parallel()

	t.Run("empty text", func(t *testing.T) {
		t.Parallel()

		n := NewElement("p", NewText(""))
		if err := Check(n); !errors.Is(err, ErrStructure) {
			t.Errorf("Check() error = %v, want ErrStructure", err)
		}
	})

	t.Run("duplicate attribute", func(t *testing.T) {
		t.Parallel()

		n := NewElement("p")
		n.attrs = []Attr{{"id", "a"}, {"id", "b"}}
		if err := Check(n); !errors.Is(err, ErrStructure) {
			t.Errorf("Check() error = %v, want ErrStructure", err)
		}
	})

	t.Run("stale parent", func(t *testing.T) {
		t.Parallel()

		c := NewElement("b")
		n := NewElement("p", c)
		c.parent = nil
		if err := Check(n); !errors.Is(err, ErrStructure) {
			t.Errorf("Check() error = %v, want ErrStructure", err)
		}
	})
}
