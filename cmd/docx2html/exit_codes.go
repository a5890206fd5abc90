package main

import (
	"errors"
	"os"

	docx2html "github.com/alnah/go-docx2html"
	"github.com/alnah/go-docx2html/internal/config"
)

// Exit codes for the docx2html CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess  = 0 // Successful conversion
	ExitGeneral  = 1 // General/unexpected error
	ExitUsage    = 2 // Invalid flags, config, or options
	ExitIO       = 3 // Unreadable input, unwritable output
	ExitPipeline = 4 // A conversion pass rejected the document
	ExitBrowser  = 5 // Browser/Chrome errors while printing the PDF
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Every browser sentinel wraps ErrPDF.
	if errors.Is(err, docx2html.ErrPDF) {
		return ExitBrowser
	}

	if errors.Is(err, docx2html.ErrPipeline) ||
		errors.Is(err, docx2html.ErrSerialize) {
		return ExitPipeline
	}

	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, docx2html.ErrBuild) ||
		errors.Is(err, docx2html.ErrEmptyInput) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrNoDocuments) ||
		errors.Is(err, ErrWriteOutput) {
		return ExitIO
	}

	if errors.Is(err, ErrUsage) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidField) ||
		errors.Is(err, docx2html.ErrOptions) ||
		errors.Is(err, docx2html.ErrInvalidPage) ||
		errors.Is(err, docx2html.ErrStyleNotFound) ||
		errors.Is(err, docx2html.ErrInvalidAssetPath) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidTimeout) ||
		errors.Is(err, ErrDebugBatch) {
		return ExitUsage
	}

	return ExitGeneral
}
