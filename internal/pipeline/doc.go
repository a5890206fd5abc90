// Package pipeline runs an ordered list of named passes over one document
// tree.
//
// A Registry holds the passes in the order they were registered; that order
// is the execution order and nothing reorders it. A Runner executes them:
//   - strictly sequentially, one pass at a time
//   - verifying the tree's structural invariants after each pass (optional)
//   - writing a snapshot and a line diff after each pass when a debug
//     directory is configured and exists
//   - stopping at the first failure, reported as *PassError
//
// There is no retry and no rollback: a failed run leaves the tree in
// whatever state the failing pass left it.
package pipeline
