package docx2html

import (
	"fmt"
	"strings"
	"time"

	"github.com/alnah/go-docx2html/internal/config"
	"github.com/alnah/go-docx2html/internal/dom"
)

// Config holds the conversion settings, usually loaded from YAML.
type Config = config.Config

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return config.DefaultConfig()
}

// LoadConfig reads a config file by path, or by name from the current
// directory and the user config directory.
func LoadConfig(nameOrPath string) (*Config, error) {
	return config.LoadConfig(nameOrPath)
}

// Page size constants.
const (
	PageSizeLetter = "letter"
	PageSizeA4     = "a4"
	PageSizeLegal  = "legal"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Margin bounds in inches.
const (
	MinMargin     = 0.25
	MaxMargin     = 3.0
	DefaultMargin = 0.5
)

// DefaultDebugDir is the snapshot directory used when it exists in the
// working directory and nothing else is configured.
const DefaultDebugDir = "_fixup_log"

// defaultTimeout bounds PDF rendering when no timeout is specified.
const defaultTimeout = 30 * time.Second

// PageSettings configures PDF page dimensions.
type PageSettings struct {
	Size        string  // "letter", "a4", "legal"
	Orientation string  // "portrait", "landscape"
	Margin      float64 // inches, applied to all sides
}

// DefaultPageSettings returns page settings with default values.
func DefaultPageSettings() *PageSettings {
	return &PageSettings{
		Size:        PageSizeLetter,
		Orientation: OrientationPortrait,
		Margin:      DefaultMargin,
	}
}

// Validate checks that page settings are valid.
// Returns nil if p is nil (nil means use defaults).
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}
	switch strings.ToLower(p.Size) {
	case PageSizeLetter, PageSizeA4, PageSizeLegal:
	default:
		return fmt.Errorf("%w: size %q", ErrInvalidPage, p.Size)
	}
	switch strings.ToLower(p.Orientation) {
	case OrientationPortrait, OrientationLandscape:
	default:
		return fmt.Errorf("%w: orientation %q", ErrInvalidPage, p.Orientation)
	}
	if p.Margin < MinMargin || p.Margin > MaxMargin {
		return fmt.Errorf("%w: margin %.2f (must be between %.2f and %.2f)", ErrInvalidPage, p.Margin, MinMargin, MaxMargin)
	}
	return nil
}

// dimensions returns the paper width and height in inches.
func (p *PageSettings) dimensions() (width, height float64) {
	switch strings.ToLower(p.Size) {
	case PageSizeA4:
		width, height = 8.27, 11.69
	case PageSizeLegal:
		width, height = 8.5, 14
	default:
		width, height = 8.5, 11
	}
	if strings.EqualFold(p.Orientation, OrientationLandscape) {
		width, height = height, width
	}
	return width, height
}

// Input names the document to convert. Exactly one of Path or Data is used;
// Path wins when both are set.
type Input struct {
	Path string // .docx file on disk
	Data []byte // .docx archive in memory
	Name string // file name for Data, used for the fallback title

	// BaseDir resolves relative links when rendering the PDF.
	// Defaults to the directory of Path.
	BaseDir string

	PDF  bool          // also render a PDF
	Page *PageSettings // PDF page settings (nil = config or defaults)
}

// Result holds the conversion output.
type Result struct {
	HTML []byte

	// Stylesheet is the CSS the HTML links to through StylesheetHref.
	// Both are empty when no style is configured; writing the file next to
	// the HTML is up to the caller.
	Stylesheet     []byte
	StylesheetHref string

	PDF []byte // nil unless Input.PDF

	// Media holds the images embedded in the archive, keyed by the relative
	// src their img elements use. Writing them next to the HTML is up to
	// the caller, as for the stylesheet.
	Media map[string][]byte

	// Document is the final tree, for callers that post-process it.
	Document *dom.Document
}
