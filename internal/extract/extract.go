// Package extract converts source files into plain text ready for chunking.
// PDFs are handled by shelling out to pdftotext, markdown by a goldmark AST
// walk, and plain text files by a raw read.
package extract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned when a file's extension maps to no
// known extraction path.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// Document is the extracted text of a single source file, split into pages.
// PDFs produce one entry per page; other formats produce a single page.
type Document struct {
	Name  string
	Pages []string
}

// Extractor routes source files to a format-specific extraction path.
type Extractor struct {
	runner CommandRunner
}

// New creates an Extractor that invokes external tools directly.
func New() *Extractor {
	return &Extractor{runner: execRunner{}}
}

// NewWithRunner creates an Extractor with a custom command runner.
// Tests use this to stub out the pdftotext invocation.
func NewWithRunner(runner CommandRunner) *Extractor {
	return &Extractor{runner: runner}
}

// Extract reads the file at path and returns its text content.
func (e *Extractor) Extract(ctx context.Context, path string) (*Document, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return e.extractPDF(ctx, path)
	case ".md", ".markdown":
		return extractMarkdown(path)
	case ".txt", ".text":
		return extractPlainText(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

func extractPlainText(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return &Document{Name: filepath.Base(path), Pages: []string{string(data)}}, nil
}
