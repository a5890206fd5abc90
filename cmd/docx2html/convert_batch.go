package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	docx2html "github.com/alnah/go-docx2html"
	"github.com/alnah/go-docx2html/internal/fileutil"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// Sentinel errors for batch operations.
var (
	ErrWriteOutput = errors.New("failed to write output file")
	ErrServiceInit = errors.New("failed to initialize converter")
)

// CLIConverter is the interface for the conversion service.
type CLIConverter interface {
	Convert(ctx context.Context, input docx2html.Input) (*docx2html.Result, error)
}

// Compile-time interface implementation check.
var _ CLIConverter = (*docx2html.Converter)(nil)

// Pool abstracts converter pool operations for testability.
type Pool interface {
	Acquire() CLIConverter
	Release(CLIConverter)
	Size() int
}

// conversionParams groups parameters shared across batch/file conversion.
type conversionParams struct {
	pdf       bool
	stylePath string // cfg.Style, never overwritten by the copy next to the HTML
	debugDir  string
}

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath  string
	OutputPath string
	PDFPath    string
	Err        error
	Duration   time.Duration
}

// convertBatch processes files concurrently using the converter pool.
// Results keep the order of files.
func convertBatch(ctx context.Context, pool Pool, files []FileToConvert, params *conversionParams) []ConversionResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := min(pool.Size(), len(files))

	results := make([]ConversionResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for range concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()

			conv := pool.Acquire()
			if conv == nil {
				// Converter creation failed, mark remaining jobs as failed
				for idx := range jobs {
					results[idx] = ConversionResult{
						InputPath: files[idx].InputPath,
						Err:       ErrServiceInit,
					}
				}
				return
			}
			defer pool.Release(conv)

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = ConversionResult{
						InputPath: files[idx].InputPath,
						Err:       ctx.Err(),
					}
					continue
				}
				results[idx] = convertFile(ctx, conv, files[idx], params)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// convertFile converts one document and writes the page, its stylesheet,
// and the PDF when requested.
func convertFile(ctx context.Context, conv CLIConverter, f FileToConvert, params *conversionParams) ConversionResult {
	start := time.Now()
	result := ConversionResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}
	fail := func(err error) ConversionResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	outDir := filepath.Dir(f.OutputPath)
	if err := os.MkdirAll(outDir, dirPermissions); err != nil {
		return fail(fmt.Errorf("%w: creating output directory: %w", ErrWriteOutput, err))
	}

	res, err := conv.Convert(ctx, docx2html.Input{Path: f.InputPath, PDF: params.pdf})
	if err != nil {
		return fail(err)
	}

	if err := fileutil.WriteFileAtomic(f.OutputPath, res.HTML, filePermissions); err != nil {
		return fail(fmt.Errorf("%w: %w", ErrWriteOutput, err))
	}

	if err := writeStylesheet(outDir, res, params.stylePath); err != nil {
		return fail(err)
	}
	if err := writeMedia(outDir, res.Media); err != nil {
		return fail(err)
	}

	if params.pdf {
		pdfPath := fileutil.ReplaceExt(f.OutputPath, "pdf")
		if err := fileutil.WriteFileAtomic(pdfPath, res.PDF, filePermissions); err != nil {
			return fail(fmt.Errorf("%w: %w", ErrWriteOutput, err))
		}
		result.PDFPath = pdfPath
	}

	result.Duration = time.Since(start)
	return result
}

// writeStylesheet writes the resolved CSS where the HTML links it.
// Absolute hrefs and URLs are left to the user, as is the source file
// itself when the output lands next to it.
func writeStylesheet(outDir string, res *docx2html.Result, stylePath string) error {
	href := res.StylesheetHref
	if len(res.Stylesheet) == 0 || href == "" || fileutil.IsURL(href) || filepath.IsAbs(href) {
		return nil
	}

	target := filepath.Join(outDir, filepath.FromSlash(href))
	if stylePath != "" && samePath(target, stylePath) {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(target), dirPermissions); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	if err := fileutil.WriteFileAtomic(target, res.Stylesheet, filePermissions); err != nil {
		return fmt.Errorf("%w: stylesheet: %w", ErrWriteOutput, err)
	}
	return nil
}

// writeMedia writes the images extracted from the archive under outDir,
// at the relative paths the HTML references them by.
func writeMedia(outDir string, media map[string][]byte) error {
	for name, data := range media {
		rel := filepath.FromSlash(name)
		if !filepath.IsLocal(rel) {
			return fmt.Errorf("%w: media path %q leaves the output directory", ErrWriteOutput, name)
		}
		target := filepath.Join(outDir, rel)
		if err := os.MkdirAll(filepath.Dir(target), dirPermissions); err != nil {
			return fmt.Errorf("%w: %w", ErrWriteOutput, err)
		}
		if err := fileutil.WriteFileAtomic(target, data, filePermissions); err != nil {
			return fmt.Errorf("%w: media: %w", ErrWriteOutput, err)
		}
	}
	return nil
}

// samePath compares two paths after making them absolute.
func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}

// ResultSummary holds the count of succeeded and failed conversions.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed conversions.
func countResults(results []ConversionResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}
