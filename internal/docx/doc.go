// Package docx reads a WordprocessingML archive and builds the raw document
// tree the fixup passes start from.
//
// The raw tree is deliberately low-fidelity: paragraphs become p elements
// carrying their Word style id in data-docx-style, runs become span elements
// whose Style holds the run's direct formatting, and numbering, bookmarks,
// cross-reference fields and footnotes are kept as transient data-docx-*
// attributes and -docx-* style keys for later passes to resolve. Nothing a
// pass might need is dropped here.
//
// The style sheet and numbering definitions are returned alongside the tree
// as a *Source, since several passes compute inherited formatting from them.
package docx
