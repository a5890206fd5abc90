package dom

import (
	"errors"
	"fmt"
)

// ErrStructure is matched by every *StructureError.
var ErrStructure = errors.New("tree structure violated")

// StructureError reports a violated tree invariant: a cycle, a dangling
// reference, a node that is not where the caller claims it is.
type StructureError struct {
	Op     string // operation that detected the problem, e.g. "AppendChild"
	Path   string // path of the node the operation was applied to
	Reason string
}

func (e *StructureError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("dom: %s: %s", e.Op, e.Reason)
	}
	return fmt.Sprintf("dom: %s at %s: %s", e.Op, e.Path, e.Reason)
}

// Is reports whether target is ErrStructure.
func (e *StructureError) Is(target error) bool {
	return target == ErrStructure
}

func structureErr(op string, n *Node, format string, args ...any) error {
	return &StructureError{Op: op, Path: Path(n), Reason: fmt.Sprintf(format, args...)}
}
