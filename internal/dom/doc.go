// Package dom is the in-memory document tree shared by the builder, every
// fixup pass, and the serializer.
//
// A tree is made of *Node values of three kinds: elements (tag, ordered
// attributes, an optional Style map, ordered children), text, and comments.
// A parent owns its children through its child slice; the parent pointer on
// a child is a back-reference used for lookup and removal only.
//
// All structural mutation goes through methods that keep the invariants:
//
//   - the tree is acyclic;
//   - a non-root node has exactly one parent;
//   - attribute keys within one element are unique;
//   - child order is preserved unless a caller reorders explicitly.
//
// Violations are reported as *StructureError values (errors.Is(err,
// ErrStructure) reports true) and indicate a programming defect in the
// caller, never a recoverable condition.
//
// Queries (FindAll, FindFirst) are lazy depth-first pre-order walks over
// descendants built on iter.Seq. They can be restarted at will but must not
// be used while the tree is being mutated.
package dom
