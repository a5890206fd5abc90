package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"

	docx2html "github.com/alnah/go-docx2html"
	"github.com/alnah/go-docx2html/internal/assets"
	"github.com/alnah/go-docx2html/internal/config"
	"github.com/alnah/go-docx2html/internal/hints"
)

// palette holds the colors used on stderr and stdout.
type palette struct {
	fail *color.Color
	warn *color.Color
	ok   *color.Color
}

// newPalette returns colors that are switched off unless enabled, so
// output written to buffers and pipes stays plain.
func newPalette(enabled bool) *palette {
	p := &palette{
		fail: color.New(color.FgRed, color.Bold),
		warn: color.New(color.FgYellow),
		ok:   color.New(color.FgGreen),
	}
	for _, c := range []*color.Color{p.fail, p.warn, p.ok} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// printResults outputs conversion results and returns the tally.
func printResults(results []ConversionResult, quiet, verbose bool, env *Environment, debugDir string) ResultSummary {
	p := newPalette(env.Color)
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "%s %s: %v%s\n", p.fail.Sprint("FAILED"), r.InputPath, r.Err, hintFor(r.Err, debugDir))
			continue
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "%s %s\n", p.ok.Sprint("Created"), r.OutputPath)
		}
		if r.PDFPath != "" {
			fmt.Fprintf(env.Stdout, "%s %s\n", p.ok.Sprint("Created"), r.PDFPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary
}

// printError writes a single error line with its hint.
func printError(env *Environment, err error, debugDir string) {
	p := newPalette(env.Color)
	fmt.Fprintf(env.Stderr, "%s %v%s\n", p.fail.Sprint("error:"), err, hintFor(err, debugDir))
}

// hintFor picks the hint matching the error, or "".
func hintFor(err error, debugDir string) string {
	switch {
	case errors.Is(err, docx2html.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, docx2html.ErrPageLoad),
		errors.Is(err, docx2html.ErrPDF) && errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, docx2html.ErrPipeline):
		return hints.ForPass(debugDir)
	case errors.Is(err, docx2html.ErrStyleNotFound):
		return hints.ForStyleNotFound(assets.StyleNames())
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(config.SearchPaths("config"))
	case errors.Is(err, docx2html.ErrBuild):
		return hints.ForInput()
	case errors.Is(err, ErrWriteOutput):
		return hints.ForOutputDirectory()
	}
	return ""
}
