package docx2html

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/alnah/go-docx2html/internal/assets"
	"github.com/alnah/go-docx2html/internal/config"
	"github.com/alnah/go-docx2html/internal/docx"
	"github.com/alnah/go-docx2html/internal/dom"
	"github.com/alnah/go-docx2html/internal/fixups"
	"github.com/alnah/go-docx2html/internal/htmlout"
	"github.com/alnah/go-docx2html/internal/pipeline"
)

// Converter runs documents through the fixup pipeline.
// Create with NewConverter, use Convert for each document, and Close when
// done. A Converter is not safe for concurrent use.
type Converter struct {
	cfg       *config.Config
	logger    zerolog.Logger
	debugDir  string
	style     string
	assetPath string
	timeout   time.Duration

	loader     assets.AssetLoader
	stylesheet string
	href       string
	opts       fixups.Options
	page       *PageSettings

	pdfConverter pdfConverter
}

// Option configures a Converter.
type Option func(*Converter)

// WithConfig sets the conversion settings. A nil config keeps the defaults.
func WithConfig(cfg *Config) Option {
	return func(c *Converter) {
		if cfg != nil {
			c.cfg = cfg
		}
	}
}

// WithLogger sets the logger used by the pipeline.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Converter) {
		c.logger = l
	}
}

// WithDebugDir writes a snapshot and a diff per pass under dir.
// Overrides debug.dir from the config.
func WithDebugDir(dir string) Option {
	return func(c *Converter) {
		c.debugDir = dir
	}
}

// WithStyle selects the stylesheet: an embedded style name, a name found
// under the asset path, or a path to a .css file. Overrides style from the
// config.
func WithStyle(nameOrPath string) Option {
	return func(c *Converter) {
		c.style = nameOrPath
	}
}

// WithAssetPath looks up styles and notices in dir before the embedded
// ones. Overrides assets.basePath from the config.
func WithAssetPath(dir string) Option {
	return func(c *Converter) {
		c.assetPath = dir
	}
}

// WithTimeout bounds PDF rendering. Overrides pdf.timeout from the config.
// Panics if d <= 0.
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic(fmt.Sprintf("docx2html: WithTimeout requires a positive duration, got %v", d))
	}
	return func(c *Converter) {
		c.timeout = d
	}
}

// withPDFConverter replaces the browser backend in tests.
func withPDFConverter(pc pdfConverter) Option {
	return func(c *Converter) {
		c.pdfConverter = pc
	}
}

// NewConverter validates the configuration and resolves the stylesheet and
// the notice once, so that Convert only does per-document work.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg:    config.DefaultConfig(),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOptions, err)
	}

	if c.debugDir == "" {
		c.debugDir = c.cfg.Debug.Dir
	}
	if c.style == "" {
		c.style = c.cfg.Style
	}
	if c.assetPath == "" {
		c.assetPath = c.cfg.Assets.BasePath
	}
	if c.timeout == 0 {
		c.timeout = c.cfg.PDFTimeout(defaultTimeout)
	}

	c.loader = assets.NewEmbeddedLoader()
	if c.assetPath != "" {
		resolver, err := assets.NewAssetResolver(c.assetPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
		}
		c.loader = resolver
	}

	if err := c.resolveStyle(); err != nil {
		return nil, err
	}
	notice, err := c.resolveNotice()
	if err != nil {
		return nil, err
	}

	c.opts = fixups.Options{
		Title:          c.cfg.Title,
		Lang:           c.cfg.Lang,
		StylesheetHref: c.href,
		Notice:         notice,
		TOCTitle:       c.cfg.TOC.Title,
		TOCMaxDepth:    c.cfg.TOC.MaxDepth,
		NumberSections: c.cfg.Sections.Number,
		Redirects:      c.cfg.Sections.Redirects,
		Styles:         c.cfg.Styles,
		CodeLanguage:   c.cfg.Code.Language,
		CodeStyle:      c.cfg.Code.Style,
		LinkPhrases:    c.cfg.Links.Phrases,
	}
	// Catch bad style targets here rather than on the first document.
	if _, err := fixups.NewEnv(nil, c.opts, c.logger); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOptions, err)
	}

	c.page = &PageSettings{
		Size:        c.cfg.PDF.PageSize,
		Orientation: c.cfg.PDF.Orientation,
		Margin:      c.cfg.PDF.Margin,
	}
	def := DefaultPageSettings()
	if c.page.Size == "" {
		c.page.Size = def.Size
	}
	if c.page.Orientation == "" {
		c.page.Orientation = def.Orientation
	}
	if c.page.Margin == 0 {
		c.page.Margin = def.Margin
	}

	return c, nil
}

// resolveStyle loads the stylesheet and derives the href the head links to.
func (c *Converter) resolveStyle() error {
	c.href = c.cfg.StylesheetHref
	if c.style == "" {
		return nil
	}

	if assets.IsAssetName(c.style) {
		css, err := c.loader.LoadStyle(c.style)
		if err != nil {
			if errors.Is(err, assets.ErrStyleNotFound) {
				return fmt.Errorf("%w: %q", ErrStyleNotFound, c.style)
			}
			return fmt.Errorf("loading style %q: %w", c.style, err)
		}
		c.stylesheet = css
		if c.href == "" {
			c.href = c.style + ".css"
		}
		return nil
	}

	data, err := os.ReadFile(c.style) // #nosec G304 -- user-provided path
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrStyleNotFound, c.style)
		}
		return fmt.Errorf("loading style file %q: %w", c.style, err)
	}
	c.stylesheet = string(data)
	if c.href == "" {
		c.href = filepath.Base(c.style)
	}
	return nil
}

// resolveNotice returns the inline notice, or loads the named one.
func (c *Converter) resolveNotice() (string, error) {
	if strings.TrimSpace(c.cfg.Notice) != "" || c.cfg.NoticeName == "" {
		return c.cfg.Notice, nil
	}
	md, err := c.loader.LoadNotice(c.cfg.NoticeName)
	if err != nil {
		return "", fmt.Errorf("%w: notice %q: %w", ErrOptions, c.cfg.NoticeName, err)
	}
	return md, nil
}

// Stylesheet returns the resolved CSS and the href the HTML links it by.
func (c *Converter) Stylesheet() (css, href string) {
	return c.stylesheet, c.href
}

// Convert builds the tree, runs every pass and serializes the result.
// Panics in a pass are returned as errors.
func (c *Converter) Convert(ctx context.Context, input Input) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := validateInput(input); err != nil {
		return nil, err
	}

	start := time.Now()
	doc, src, err := c.build(input)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	env, err := fixups.NewEnv(src, c.opts, c.logger)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOptions, err)
	}
	reg, err := fixups.Default(env)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOptions, err)
	}
	runner := pipeline.NewRunner(reg,
		pipeline.WithLogger(c.logger),
		pipeline.WithSnapshotDir(c.debugDir),
		pipeline.WithSerializer(htmlout.String),
	)
	if err := runner.Run(doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPipeline, err)
	}

	var buf bytes.Buffer
	if err := htmlout.Write(&buf, doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialize, err)
	}

	res := &Result{
		HTML:           buf.Bytes(),
		StylesheetHref: c.href,
		Media:          src.Media,
		Document:       doc,
	}
	if c.stylesheet != "" {
		res.Stylesheet = []byte(c.stylesheet)
	}

	c.logger.Info().
		Str("source", src.Path).
		Int("passes", reg.Len()).
		Dur("elapsed", time.Since(start)).
		Msg("converted")

	if !input.PDF {
		return res, nil
	}

	res.PDF, err = c.renderPDF(ctx, doc, input, src.Media)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// build reads the archive from disk or memory.
func (c *Converter) build(input Input) (*dom.Document, *docx.Source, error) {
	if input.Path != "" {
		doc, src, err := docx.Build(input.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrBuild, err)
		}
		return doc, src, nil
	}
	doc, src, err := docx.BuildReader(bytes.NewReader(input.Data), int64(len(input.Data)))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrBuild, err)
	}
	src.Path = input.Name
	return doc, src, nil
}

// renderPDF prints a self-contained copy of the finished tree.
func (c *Converter) renderPDF(ctx context.Context, doc *dom.Document, input Input, media map[string][]byte) ([]byte, error) {
	page := input.Page
	if page == nil {
		page = c.page
	}

	baseDir := input.BaseDir
	if baseDir == "" && input.Path != "" {
		baseDir = filepath.Dir(input.Path)
	}

	if c.pdfConverter == nil {
		c.pdfConverter = newRodConverter(c.timeout)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	html := htmlout.String(printable(doc, c.stylesheet, c.href, baseDir, media))
	pdf, err := c.pdfConverter.ToPDF(ctx, html, page)
	if err != nil {
		if errors.Is(err, ErrPDF) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrPDF, err)
	}
	return pdf, nil
}

// Close releases the browser, if one was started.
func (c *Converter) Close() error {
	if c.pdfConverter != nil {
		return c.pdfConverter.Close()
	}
	return nil
}

// validateInput checks what the library caller filled in.
func validateInput(input Input) error {
	if input.Path == "" && len(input.Data) == 0 {
		return ErrEmptyInput
	}
	if input.PDF {
		if err := input.Page.Validate(); err != nil {
			return err
		}
	}
	return nil
}
