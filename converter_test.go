package docx2html

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/alnah/go-docx2html/internal/config"
)

// ---------------------------------------------------------------------------
// Test documents
// ---------------------------------------------------------------------------

const sampleBody = `
<w:p><w:pPr><w:pStyle w:val="TOC1"/></w:pPr><w:r><w:t xml:space="preserve">Scope	1</w:t></w:r></w:p>
<w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr><w:r><w:t xml:space="preserve">1	Scope</w:t></w:r></w:p>
<w:p><w:r><w:t>This document defines a language.</w:t></w:r></w:p>
<w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr><w:r><w:t xml:space="preserve">2	Terms</w:t></w:r></w:p>
<w:p><w:r><w:t xml:space="preserve">See </w:t></w:r><w:hyperlink r:id="rId9"><w:r><w:t>the figure</w:t></w:r></w:hyperlink></w:p>
<w:sectPr/>`

const sampleStyles = `<?xml version="1.0"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/></w:style>
  <w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="heading 1"/><w:basedOn w:val="Normal"/></w:style>
  <w:style w:type="paragraph" w:styleId="TOC1"><w:name w:val="toc 1"/><w:basedOn w:val="Normal"/></w:style>
</w:styles>`

const sampleRels = `<?xml version="1.0"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId9" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink" Target="figures/one.svg" TargetMode="External"/>
</Relationships>`

// sampleDocx returns a small .docx archive with two numbered clauses.
func sampleDocx(tb testing.TB) []byte {
	tb.Helper()

	parts := map[string]string{
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8"?><w:document ` +
			`xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" ` +
			`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">` +
			`<w:body>` + sampleBody + `</w:body></w:document>`,
		"word/styles.xml":              sampleStyles,
		"word/_rels/document.xml.rels": sampleRels,
	}
	return docxArchive(tb, parts)
}

// docxArchive zips parts into a .docx archive.
func docxArchive(tb testing.TB, parts map[string]string) []byte {
	tb.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range parts {
		w, err := zw.Create(name)
		if err != nil {
			tb.Fatal(err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			tb.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		tb.Fatal(err)
	}
	return buf.Bytes()
}

// writeSample writes the sample archive into a fresh directory.
func writeSample(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "sample.docx")
	if err := os.WriteFile(path, sampleDocx(t), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// ---------------------------------------------------------------------------
// Mock Implementations
// ---------------------------------------------------------------------------

type mockPDFConverter struct {
	called    bool
	inputHTML string
	inputPage *PageSettings
	output    []byte
	err       error
	closed    bool
}

func (m *mockPDFConverter) ToPDF(ctx context.Context, htmlContent string, page *PageSettings) ([]byte, error) {
	m.called = true
	m.inputHTML = htmlContent
	m.inputPage = page
	if m.err != nil {
		return nil, m.err
	}
	if m.output != nil {
		return m.output, nil
	}
	return []byte("%PDF-1.4 mock"), nil
}

func (m *mockPDFConverter) Close() error {
	m.closed = true
	return nil
}

// ---------------------------------------------------------------------------
// NewConverter
// ---------------------------------------------------------------------------

func TestNewConverter(t *testing.T) {
	t.Parallel()

	cssPath := filepath.Join(t.TempDir(), "house.css")
	if err := os.WriteFile(cssPath, []byte("body { color: red; }"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		opts     []Option
		wantErr  error
		wantHref string
		wantCSS  string
	}{
		{
			name: "defaults link no stylesheet",
		},
		{
			name:     "embedded style",
			opts:     []Option{WithStyle("spec")},
			wantHref: "spec.css",
			wantCSS:  "font-family",
		},
		{
			name:     "style file",
			opts:     []Option{WithStyle(cssPath)},
			wantHref: "house.css",
			wantCSS:  "color: red",
		},
		{
			name:     "configured href wins",
			opts:     []Option{WithConfig(&config.Config{Style: "plain", StylesheetHref: "css/es.css"})},
			wantHref: "css/es.css",
		},
		{
			name:    "unknown style name",
			opts:    []Option{WithStyle("nonexistent")},
			wantErr: ErrStyleNotFound,
		},
		{
			name:    "missing style file",
			opts:    []Option{WithStyle(filepath.Join(t.TempDir(), "gone.css"))},
			wantErr: ErrStyleNotFound,
		},
		{
			name:    "invalid config",
			opts:    []Option{WithConfig(&config.Config{Lang: "not a tag"})},
			wantErr: ErrOptions,
		},
		{
			name:    "invalid style target",
			opts:    []Option{WithConfig(&config.Config{Styles: map[string]string{"Custom": "@both"}})},
			wantErr: ErrOptions,
		},
		{
			name:    "unknown notice",
			opts:    []Option{WithConfig(&config.Config{NoticeName: "nonexistent"})},
			wantErr: ErrOptions,
		},
		{
			name:    "asset path is a file",
			opts:    []Option{WithAssetPath(cssPath)},
			wantErr: ErrInvalidAssetPath,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, err := NewConverter(tt.opts...)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("NewConverter() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewConverter() unexpected error: %v", err)
			}
			defer func() { _ = c.Close() }()

			css, href := c.Stylesheet()
			if href != tt.wantHref {
				t.Errorf("href = %q, want %q", href, tt.wantHref)
			}
			if !strings.Contains(css, tt.wantCSS) {
				t.Errorf("stylesheet missing %q", tt.wantCSS)
			}
		})
	}
}

func TestNewConverter_CustomAssetPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for path, content := range map[string]string{
		"styles/house.css":    "h1 { color: navy; }",
		"notices/internal.md": "For **internal** use.",
	} {
		full := filepath.Join(dir, filepath.FromSlash(path))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	c, err := NewConverter(
		WithAssetPath(dir),
		WithStyle("house"),
		WithConfig(&config.Config{NoticeName: "internal"}),
	)
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}
	defer func() { _ = c.Close() }()

	if css, href := c.Stylesheet(); css != "h1 { color: navy; }" || href != "house.css" {
		t.Errorf("Stylesheet() = %q, %q", css, href)
	}
	if !strings.Contains(c.opts.Notice, "**internal**") {
		t.Errorf("notice = %q, want the custom notice", c.opts.Notice)
	}
}

func TestWithTimeout_PanicsOnNonPositive(t *testing.T) {
	t.Parallel()

	for _, d := range []time.Duration{0, -time.Second} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("WithTimeout(%v) did not panic", d)
				}
			}()
			WithTimeout(d)
		}()
	}
}

func TestNewConverter_TimeoutPrecedence(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.PDF.Timeout = "90s"

	tests := []struct {
		name string
		opts []Option
		want time.Duration
	}{
		{name: "default", want: defaultTimeout},
		{name: "config", opts: []Option{WithConfig(cfg)}, want: 90 * time.Second},
		{name: "option wins", opts: []Option{WithConfig(cfg), WithTimeout(5 * time.Second)}, want: 5 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, err := NewConverter(tt.opts...)
			if err != nil {
				t.Fatalf("NewConverter() error = %v", err)
			}
			if c.timeout != tt.want {
				t.Errorf("timeout = %v, want %v", c.timeout, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Convert
// ---------------------------------------------------------------------------

func TestConvert_FromPath(t *testing.T) {
	t.Parallel()

	c, err := NewConverter(WithStyle("spec"))
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}
	defer func() { _ = c.Close() }()

	res, err := c.Convert(context.Background(), Input{Path: writeSample(t)})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	out := string(res.HTML)
	for _, want := range []string{
		"<!doctype html>",
		`<html lang="en">`,
		`<title>Scope</title>`,
		`<link rel="stylesheet" href="spec.css">`,
		`<section id="contents">`,
		`<a href="#sec-scope">`,
		`<span class="secnum">`,
		`href="figures/one.svg"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("HTML missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "data-docx-") {
		t.Errorf("HTML kept builder attributes:\n%s", out)
	}
	if res.StylesheetHref != "spec.css" || len(res.Stylesheet) == 0 {
		t.Errorf("stylesheet = %q (%d bytes)", res.StylesheetHref, len(res.Stylesheet))
	}
	if res.PDF != nil {
		t.Error("PDF rendered without being requested")
	}
	if res.Document == nil || res.Document.Body() == nil {
		t.Error("Result.Document is empty")
	}
}

func TestConvert_FromData(t *testing.T) {
	t.Parallel()

	c, err := NewConverter()
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}

	data := sampleDocx(t)
	fromData, err := c.Convert(context.Background(), Input{Data: data, Name: "sample.docx"})
	if err != nil {
		t.Fatalf("Convert(Data) error = %v", err)
	}
	fromPath, err := c.Convert(context.Background(), Input{Path: writeSample(t)})
	if err != nil {
		t.Fatalf("Convert(Path) error = %v", err)
	}
	if diff := cmp.Diff(string(fromPath.HTML), string(fromData.HTML)); diff != "" {
		t.Errorf("in-memory and on-disk output differ (-path +data):\n%s", diff)
	}
	if fromData.Stylesheet != nil || fromData.StylesheetHref != "" {
		t.Errorf("stylesheet set without a style: %q", fromData.StylesheetHref)
	}
}

func TestConvert_EmbeddedMedia(t *testing.T) {
	t.Parallel()

	body := `<w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr><w:r><w:t xml:space="preserve">1	Scope</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t xml:space="preserve">See </w:t></w:r><w:r><w:drawing>` +
		`<wp:inline><wp:extent cx="952500" cy="476250"/><wp:docPr id="1" name="Picture 1" descr="Flow"/>` +
		`<a:graphic><a:graphicData><pic:pic><pic:blipFill><a:blip r:embed="rId5"/></pic:blipFill></pic:pic>` +
		`</a:graphicData></a:graphic></wp:inline></w:drawing></w:r></w:p><w:sectPr/>`
	rels := `<?xml version="1.0"?>` +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId5" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="media/image1.png"/>` +
		`</Relationships>`
	data := docxArchive(t, map[string]string{
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8"?><w:document ` +
			`xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" ` +
			`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" ` +
			`xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing" ` +
			`xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" ` +
			`xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture">` +
			`<w:body>` + body + `</w:body></w:document>`,
		"word/styles.xml":              sampleStyles,
		"word/_rels/document.xml.rels": rels,
		"word/media/image1.png":        "PNGDATA",
	})

	c, err := NewConverter()
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}
	res, err := c.Convert(context.Background(), Input{Data: data, Name: "pictures.docx"})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	if got := string(res.Media["media/image1.png"]); got != "PNGDATA" {
		t.Errorf("Media[media/image1.png] = %q, want %q", got, "PNGDATA")
	}
	want := `<img src="media/image1.png" alt="Flow" width="100" height="50">`
	if !strings.Contains(string(res.HTML), want) {
		t.Errorf("HTML missing %s:\n%s", want, res.HTML)
	}
}

func TestConvert_ConfigOptions(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Title = "Language Specification"
	cfg.Lang = "fr"
	cfg.Notice = "Draft **only**."
	cfg.TOC.Title = "Table"
	cfg.Sections.Redirects = map[string]string{"sec-old": "sec-terms"}

	c, err := NewConverter(WithConfig(cfg))
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}

	res, err := c.Convert(context.Background(), Input{Data: sampleDocx(t)})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	out := string(res.HTML)
	for _, want := range []string{
		`<html lang="fr">`,
		`<title>Language Specification</title>`,
		`<strong>only</strong>`,
		`>Table</h1>`,
		`id="sec-old"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("HTML missing %q:\n%s", want, out)
		}
	}
}

func TestConvert_Errors(t *testing.T) {
	t.Parallel()

	notZip := filepath.Join(t.TempDir(), "notes.docx")
	if err := os.WriteFile(notZip, []byte("plain text"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		input   Input
		wantErr error
	}{
		{name: "empty input", input: Input{}, wantErr: ErrEmptyInput},
		{name: "missing file", input: Input{Path: filepath.Join(t.TempDir(), "gone.docx")}, wantErr: ErrBuild},
		{name: "not an archive", input: Input{Path: notZip}, wantErr: ErrBuild},
		{name: "bad bytes", input: Input{Data: []byte("PK garbage")}, wantErr: ErrBuild},
		{
			name:    "bad page settings",
			input:   Input{Data: []byte("x"), PDF: true, Page: &PageSettings{Size: "a3", Orientation: "portrait", Margin: 1}},
			wantErr: ErrInvalidPage,
		},
	}

	c, err := NewConverter()
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}

	// Subtests share c, which is not safe for concurrent use.
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Convert(context.Background(), tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Convert() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConvert_CanceledContext(t *testing.T) {
	t.Parallel()

	c, err := NewConverter()
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.Convert(ctx, Input{Data: sampleDocx(t)}); !errors.Is(err, context.Canceled) {
		t.Errorf("Convert() error = %v, want context.Canceled", err)
	}
}

func TestConvert_DebugSnapshots(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	c, err := NewConverter(WithDebugDir(dir))
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}
	if _, err := c.Convert(context.Background(), Input{Data: sampleDocx(t)}); err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	htmlFiles, err := filepath.Glob(filepath.Join(dir, "*.html"))
	if err != nil {
		t.Fatal(err)
	}
	if len(htmlFiles) != 29 {
		t.Errorf("%d snapshots, want raw tree plus one per pass (29)", len(htmlFiles))
	}
	if _, err := os.Stat(filepath.Join(dir, "00-raw.html")); err != nil {
		t.Errorf("raw snapshot missing: %v", err)
	}
}

func TestConvert_PDF(t *testing.T) {
	t.Parallel()

	path := writeSample(t)
	mock := &mockPDFConverter{}
	c, err := NewConverter(WithStyle("spec"), withPDFConverter(mock))
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}

	res, err := c.Convert(context.Background(), Input{Path: path, PDF: true})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if string(res.PDF) != "%PDF-1.4 mock" {
		t.Errorf("PDF = %q", res.PDF)
	}

	if !mock.called {
		t.Fatal("PDF converter not called")
	}
	if strings.Contains(mock.inputHTML, `rel="stylesheet"`) || !strings.Contains(mock.inputHTML, "<style>") {
		t.Errorf("PDF input should inline the stylesheet:\n%s", mock.inputHTML)
	}
	wantLink := fileURL(filepath.Join(filepath.Dir(path), "figures", "one.svg"))
	if !strings.Contains(mock.inputHTML, wantLink) {
		t.Errorf("PDF input missing %q", wantLink)
	}
	if strings.Contains(string(res.HTML), "<style>") {
		t.Error("HTML output changed by the PDF step")
	}
	if diff := cmp.Diff(DefaultPageSettings(), mock.inputPage); diff != "" {
		t.Errorf("page settings mismatch (-want +got):\n%s", diff)
	}

	if err := c.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if !mock.closed {
		t.Error("Close() did not close the PDF converter")
	}
}

func TestConvert_PDFPageSettings(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.PDF = config.PDFConfig{PageSize: "a4", Orientation: "landscape", Margin: 1}
	override := &PageSettings{Size: PageSizeLegal, Orientation: OrientationPortrait, Margin: 2}

	tests := []struct {
		name string
		page *PageSettings
		want *PageSettings
	}{
		{name: "from config", want: &PageSettings{Size: "a4", Orientation: "landscape", Margin: 1}},
		{name: "from input", page: override, want: override},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mock := &mockPDFConverter{}
			c, err := NewConverter(WithConfig(cfg), withPDFConverter(mock))
			if err != nil {
				t.Fatalf("NewConverter() error = %v", err)
			}
			if _, err := c.Convert(context.Background(), Input{Data: sampleDocx(t), PDF: true, Page: tt.page}); err != nil {
				t.Fatalf("Convert() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, mock.inputPage); diff != "" {
				t.Errorf("page settings mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestConvert_PDFErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{name: "browser error kept", err: ErrBrowserConnect, wantErr: ErrBrowserConnect},
		{name: "other error wrapped", err: errors.New("boom"), wantErr: ErrPDF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, err := NewConverter(withPDFConverter(&mockPDFConverter{err: tt.err}))
			if err != nil {
				t.Fatalf("NewConverter() error = %v", err)
			}
			_, err = c.Convert(context.Background(), Input{Data: sampleDocx(t), PDF: true})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Convert() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
