package docx2html

import (
	"errors"
	"fmt"
)

// Sentinel errors for library operations.
var (
	ErrEmptyInput  = errors.New("no input document")
	ErrBuild       = errors.New("cannot read document")
	ErrOptions     = errors.New("invalid conversion options")
	ErrPipeline    = errors.New("conversion pass failed")
	ErrSerialize   = errors.New("HTML serialization failed")
	ErrPDF         = errors.New("PDF generation failed")
	ErrInvalidPage = errors.New("invalid page settings")

	// Browser errors wrap ErrPDF.
	ErrBrowserConnect = fmt.Errorf("%w: failed to connect to browser", ErrPDF)
	ErrPageCreate     = fmt.Errorf("%w: failed to create browser page", ErrPDF)
	ErrPageLoad       = fmt.Errorf("%w: failed to load page", ErrPDF)
	ErrPDFRender      = fmt.Errorf("%w: browser could not print page", ErrPDF)

	// Asset loading errors.
	ErrStyleNotFound    = errors.New("style not found")
	ErrInvalidAssetPath = errors.New("invalid asset path")
)
