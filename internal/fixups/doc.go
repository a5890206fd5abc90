// Package fixups holds the ordered rewrite passes that turn the raw tree
// produced by package docx into the final semantic HTML document.
//
// Each pass is a function of an [Env] and the document. [Default] binds
// them, in execution order, into a pipeline registry. Passes assert the
// shape they were written for and report anything else as an
// [AssertionError]; a pass that runs before the ones it depends on fails
// the same way instead of producing wrong output.
//
// The builder and the early passes leave transient markers on the tree:
// data-docx-* attributes and -docx-* style keys. Later passes consume
// them and check_transient, the last pass, asserts that none survived.
//
// Running the full sequence over its own output changes nothing.
package fixups
