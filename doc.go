// Package docx2html converts Word (.docx) specifications to semantic HTML.
//
// # Quick Start
//
// Create a converter, convert a document, and close when done:
//
//	conv, err := docx2html.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	result, err := conv.Convert(ctx, docx2html.Input{Path: "spec.docx"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("spec.html", result.HTML, 0644)
//
// # Conversion Pipeline
//
// The conversion process follows these stages:
//
//  1. Tree building from the archive (document, styles, numbering, footnotes)
//  2. Ordered rewrite passes (numbering, lists, sections, tables, grammar,
//     links, table of contents, head), each checked against the tree
//     invariants before the next one runs
//  3. Serialization to indented HTML
//  4. Optional PDF rendering via headless Chrome (go-rod)
//
// A failing pass stops the conversion. The returned error wraps ErrPipeline
// and a *pipeline.PassError naming the pass; errors.As with
// *fixups.AssertionError yields the node path and the expected shape.
//
// # Configuration
//
// Use functional options to customize the converter:
//
//	cfg, err := docx2html.LoadConfig("es2026")
//	conv, err := docx2html.NewConverter(
//	    docx2html.WithConfig(cfg),
//	    docx2html.WithDebugDir("_fixup_log"),
//	    docx2html.WithLogger(logger),
//	)
//
// With a debug directory, the converter writes the serialized tree before
// the first pass and after every pass, plus a line diff per pass.
//
// # Browser Requirements
//
// PDF generation requires Chrome/Chromium. The go-rod library automatically
// downloads a managed Chromium instance on first run (~/.cache/rod/browser/).
//
// For containers and CI environments, set ROD_NO_SANDBOX=1 to disable the
// Chrome sandbox. Use ROD_BROWSER_BIN to specify a custom Chrome binary.
package docx2html
