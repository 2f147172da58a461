package extract

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

const pdfTool = "pdftotext"

// ErrPDFToolNotFound is returned when the pdftotext binary is not in PATH.
var ErrPDFToolNotFound = fmt.Errorf("%s not found in PATH", pdfTool)

// CommandRunner executes an external command and returns its stdout.
// The indirection exists so tests can stub out the pdftotext invocation.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// CheckAvailable reports whether pdftotext can be found in PATH.
func CheckAvailable() error {
	if _, err := exec.LookPath(pdfTool); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// InstallInstructions explains how to install the pdftotext dependency.
func InstallInstructions() string {
	return "pdftotext is required for PDF extraction. Install it with:\n" +
		"  macOS:  brew install poppler\n" +
		"  Debian: apt install poppler-utils\n" +
		"  Fedora: dnf install poppler-utils"
}

// extractPDF runs pdftotext and splits its output into pages. pdftotext
// emits a form feed after every page, so the split also produces a trailing
// empty element that splitPages drops along with blank pages.
func (e *Extractor) extractPDF(ctx context.Context, path string) (*Document, error) {
	if err := CheckAvailable(); err != nil {
		return nil, err
	}
	out, err := e.runner.Run(ctx, pdfTool, "-enc", "UTF-8", path, "-")
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("%s: %s", pdfTool, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("%s: %w", pdfTool, err)
	}
	return &Document{Name: filepath.Base(path), Pages: splitPages(string(out))}, nil
}

func splitPages(text string) []string {
	raw := strings.Split(text, "\f")
	pages := make([]string, 0, len(raw))
	for _, page := range raw {
		if strings.TrimSpace(page) == "" {
			continue
		}
		pages = append(pages, page)
	}
	return pages
}
