package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// documentFlags holds flags for the page head and the front matter.
type documentFlags struct {
	title  string
	lang   string
	notice string
}

// tocFlags holds table of contents flags.
type tocFlags struct {
	title string
	depth int
}

// sectionFlags holds section numbering flags.
type sectionFlags struct {
	number bool
}

// pageFlags holds PDF page layout flags.
type pageFlags struct {
	size        string
	orientation string
	margin      float64
}

// assetFlags holds stylesheet and asset directory flags.
type assetFlags struct {
	style     string // Name or path of the stylesheet
	assetPath string // Override asset directory
	noStyle   bool   // Link no stylesheet
}

// outputFlags holds output mode flags.
type outputFlags struct {
	pdf      bool   // Print a PDF next to the HTML
	debugDir string // Snapshot directory
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common     commonFlags
	output     string
	workers    int
	timeout    string
	version    bool
	document   documentFlags
	toc        tocFlags
	sections   sectionFlags
	page       pageFlags
	assets     assetFlags
	outputMode outputFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "log every pass with timings")
}

// addDocumentFlags adds head and front matter flags to a FlagSet.
func addDocumentFlags(fs *flag.FlagSet, f *documentFlags) {
	fs.StringVar(&f.title, "title", "", "page title (\"\" = first section heading)")
	fs.StringVar(&f.lang, "lang", "", "html lang attribute")
	fs.StringVar(&f.notice, "notice", "", "notice asset shown above the contents")
}

// addTOCFlags adds TOC flags to a FlagSet.
func addTOCFlags(fs *flag.FlagSet, f *tocFlags) {
	fs.StringVar(&f.title, "toc-title", "", "table of contents heading")
	fs.IntVar(&f.depth, "toc-depth", 0, "max heading depth listed (1-6)")
}

// addSectionFlags adds section flags to a FlagSet.
func addSectionFlags(fs *flag.FlagSet, f *sectionFlags) {
	fs.BoolVar(&f.number, "number-sections", false, "number headings that carry no number")
}

// addPageFlags adds PDF page layout flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVarP(&f.size, "page-size", "p", "", "PDF page size: letter, a4, legal")
	fs.StringVar(&f.orientation, "orientation", "", "PDF orientation: portrait, landscape")
	fs.Float64Var(&f.margin, "margin", 0, "PDF margin in inches (0.25-3.0)")
}

// addAssetFlags adds asset-related flags to a FlagSet.
func addAssetFlags(fs *flag.FlagSet, f *assetFlags) {
	fs.StringVar(&f.style, "style", "", "stylesheet name or .css file path")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
	fs.BoolVar(&f.noStyle, "no-style", false, "link no stylesheet")
}

// addOutputFlags adds output mode flags to a FlagSet.
func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.BoolVar(&f.pdf, "pdf", false, "also print a PDF with headless Chrome")
	fs.StringVar(&f.debugDir, "debug-dir", "", "write a snapshot and a diff after every pass")
}

// parseConvertFlags parses convert command flags and returns positional args.
// Usage and parse errors go to stderr.
func parseConvertFlags(args []string, stderr io.Writer) (*convertFlags, []string, error) {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SetOutput(stderr)
	f := &convertFlags{}

	// I/O flags
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "PDF generation timeout (e.g., 30s, 2m)")
	fs.BoolVar(&f.version, "version", false, "show version information")

	// Flag groups
	addCommonFlags(fs, &f.common)
	addDocumentFlags(fs, &f.document)
	addTOCFlags(fs, &f.toc)
	addSectionFlags(fs, &f.sections)
	addPageFlags(fs, &f.page)
	addAssetFlags(fs, &f.assets)
	addOutputFlags(fs, &f.outputMode)

	fs.Usage = func() { printConvertUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}

// parseConfigFlags parses the config command flags.
func parseConfigFlags(args []string, stderr io.Writer) (*commonFlags, error) {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(stderr)
	f := &commonFlags{}
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.Usage = func() { printConfigUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}
