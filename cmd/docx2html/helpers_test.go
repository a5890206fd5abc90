package main

// Notes:
// - Test helpers shared across the command tests: a .docx writer, a
//   buffered environment, and converter/pool mocks.
// No coverage gaps: this is test infrastructure, not production code.

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	docx2html "github.com/alnah/go-docx2html"
	"github.com/alnah/go-docx2html/internal/config"
)

// ---------------------------------------------------------------------------
// Test documents
// ---------------------------------------------------------------------------

const validBody = `
<w:p><w:pPr><w:pStyle w:val="TOC1"/></w:pPr><w:r><w:t xml:space="preserve">Scope	1</w:t></w:r></w:p>
<w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr><w:r><w:t xml:space="preserve">1	Scope</w:t></w:r></w:p>
<w:p><w:r><w:t>This document defines a language.</w:t></w:r></w:p>
<w:sectPr/>`

// deepBody nests a level 3 heading directly under a level 1 heading.
const deepBody = `
<w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr><w:r><w:t xml:space="preserve">1	Scope</w:t></w:r></w:p>
<w:p><w:pPr><w:pStyle w:val="Heading3"/></w:pPr><w:r><w:t xml:space="preserve">1.1.1	Deep</w:t></w:r></w:p>
<w:sectPr/>`

const testStyles = `<?xml version="1.0"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/></w:style>
  <w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="heading 1"/><w:basedOn w:val="Normal"/></w:style>
  <w:style w:type="paragraph" w:styleId="Heading3"><w:name w:val="heading 3"/><w:basedOn w:val="Normal"/></w:style>
  <w:style w:type="paragraph" w:styleId="TOC1"><w:name w:val="toc 1"/><w:basedOn w:val="Normal"/></w:style>
</w:styles>`

// docxBytes zips a document body with the test styles.
func docxBytes(t *testing.T, body string) []byte {
	t.Helper()

	parts := map[string]string{
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8"?><w:document ` +
			`xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
			`<w:body>` + body + `</w:body></w:document>`,
		"word/styles.xml": testStyles,
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range parts {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// writeDocx writes a document named name under dir and returns its path.
func writeDocx(t *testing.T, dir, name, body string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, docxBytes(t, body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// touch creates an empty file, creating parent directories.
func touch(t *testing.T, path string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
}

// ---------------------------------------------------------------------------
// Environment
// ---------------------------------------------------------------------------

// testEnv returns an environment writing to buffers.
func testEnv() (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	env := &Environment{
		Now:    func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) },
		Stdout: &stdout,
		Stderr: &stderr,
		Config: config.DefaultConfig(),
	}
	return env, &stdout, &stderr
}

// ---------------------------------------------------------------------------
// Mock Implementations
// ---------------------------------------------------------------------------

// mockConverter returns a fixed result and records the inputs it saw.
type mockConverter struct {
	mu     sync.Mutex
	result *docx2html.Result
	err    error
	inputs []docx2html.Input
}

func (m *mockConverter) Convert(_ context.Context, input docx2html.Input) (*docx2html.Result, error) {
	m.mu.Lock()
	m.inputs = append(m.inputs, input)
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

// mockPool hands out the same converter, or nil when conv is nil.
type mockPool struct {
	conv     CLIConverter
	size     int
	mu       sync.Mutex
	released int
}

func (p *mockPool) Acquire() CLIConverter {
	return p.conv
}

func (p *mockPool) Release(CLIConverter) {
	p.mu.Lock()
	p.released++
	p.mu.Unlock()
}

func (p *mockPool) Size() int {
	return p.size
}
