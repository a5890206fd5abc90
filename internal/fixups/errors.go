package fixups

import (
	"errors"
	"fmt"

	"github.com/alnah/go-docx2html/internal/dom"
)

// ErrAssertion is matched by every *AssertionError.
var ErrAssertion = errors.New("fixup assertion failed")

// AssertionError reports input that does not have the shape a pass was
// written for.
type AssertionError struct {
	Pass     string
	Path     string // path of the offending node from the root
	Expected string
	Found    string
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("%s: at %s: expected %s, found %s", e.Pass, e.Path, e.Expected, e.Found)
}

// Is reports whether target is ErrAssertion.
func (e *AssertionError) Is(target error) bool {
	return target == ErrAssertion
}

func mismatch(pass string, n *dom.Node, expected, found string, args ...any) error {
	return &AssertionError{
		Pass:     pass,
		Path:     dom.Path(n),
		Expected: expected,
		Found:    fmt.Sprintf(found, args...),
	}
}

// describe names a node for Found fields.
func describe(n *dom.Node) string {
	switch {
	case n == nil:
		return "nothing"
	case n.IsText():
		return fmt.Sprintf("text %q", truncate(n.Data, 40))
	case n.IsElement():
		return "<" + n.Tag + ">"
	default:
		return n.Type.String()
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
