package extract

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type mockRunner struct {
	output []byte
	err    error
	name   string
	args   []string
}

func (m *mockRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	m.name = name
	m.args = args
	return m.output, m.err
}

func TestExtractPDFWithMockRunner(t *testing.T) {
	// The availability check runs before the runner, so this needs
	// pdftotext in PATH even though the invocation itself is mocked.
	if err := CheckAvailable(); err != nil {
		t.Skip("pdftotext not in PATH, skipping mock runner test")
	}

	runner := &mockRunner{output: []byte("page one text\n\fpage two text\n\f")}
	extractor := NewWithRunner(runner)

	doc, err := extractor.Extract(context.Background(), "/tmp/report.pdf")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if doc.Name != "report.pdf" {
		t.Errorf("Expected name 'report.pdf', got %q", doc.Name)
	}
	if len(doc.Pages) != 2 {
		t.Fatalf("Expected 2 pages, got %d", len(doc.Pages))
	}
	if doc.Pages[0] != "page one text\n" {
		t.Errorf("Unexpected first page: %q", doc.Pages[0])
	}
	if doc.Pages[1] != "page two text\n" {
		t.Errorf("Unexpected second page: %q", doc.Pages[1])
	}

	if runner.name != "pdftotext" {
		t.Errorf("Expected pdftotext invocation, got %q", runner.name)
	}
	wantArgs := []string{"-enc", "UTF-8", "/tmp/report.pdf", "-"}
	if len(runner.args) != len(wantArgs) {
		t.Fatalf("Expected args %v, got %v", wantArgs, runner.args)
	}
	for i, arg := range wantArgs {
		if runner.args[i] != arg {
			t.Errorf("Arg %d: expected %q, got %q", i, arg, runner.args[i])
		}
	}
}

func TestExtractPDFRunnerError(t *testing.T) {
	if err := CheckAvailable(); err != nil {
		t.Skip("pdftotext not in PATH, skipping mock runner test")
	}

	runner := &mockRunner{err: errors.New("boom")}
	extractor := NewWithRunner(runner)

	_, err := extractor.Extract(context.Background(), "broken.pdf")
	if err == nil {
		t.Fatal("Expected error from failing runner")
	}
	if !strings.Contains(err.Error(), "pdftotext") {
		t.Errorf("Expected error to mention pdftotext, got %q", err.Error())
	}
}

func TestExtractPDFToolMissing(t *testing.T) {
	// Empty PATH makes the lookup fail no matter what is installed.
	t.Setenv("PATH", "")

	if err := CheckAvailable(); !errors.Is(err, ErrPDFToolNotFound) {
		t.Fatalf("Expected ErrPDFToolNotFound, got %v", err)
	}

	runner := &mockRunner{output: []byte("page text")}
	extractor := NewWithRunner(runner)

	_, err := extractor.Extract(context.Background(), "/tmp/report.pdf")
	if !errors.Is(err, ErrPDFToolNotFound) {
		t.Errorf("Expected ErrPDFToolNotFound from Extract, got %v", err)
	}
	if runner.name != "" {
		t.Errorf("Expected runner not to be invoked, got %q", runner.name)
	}
}

func TestExtractUnsupportedFormat(t *testing.T) {
	extractor := New()

	_, err := extractor.Extract(context.Background(), "slides.docx")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("Expected ErrUnsupportedFormat, got %v", err)
	}
	if !strings.Contains(err.Error(), ".docx") {
		t.Errorf("Expected error to name the extension, got %q", err.Error())
	}
}

func TestExtractPlainText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	content := "First line.\nSecond line.\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	doc, err := New().Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if doc.Name != "notes.txt" {
		t.Errorf("Expected name 'notes.txt', got %q", doc.Name)
	}
	if len(doc.Pages) != 1 {
		t.Fatalf("Expected 1 page, got %d", len(doc.Pages))
	}
	if doc.Pages[0] != content {
		t.Errorf("Expected page to hold file content verbatim, got %q", doc.Pages[0])
	}
}

func TestExtractMarkdownFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "guide.md")
	source := "# Guide\n\nSome **bold** text.\n"
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	doc, err := New().Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(doc.Pages) != 1 {
		t.Fatalf("Expected 1 page, got %d", len(doc.Pages))
	}
	if doc.Pages[0] != "Guide\n\nSome bold text." {
		t.Errorf("Unexpected markdown text: %q", doc.Pages[0])
	}
}

func TestMarkdownText(t *testing.T) {
	source := []byte(`# Title

Some **bold** text with [a link](https://example.com).

- item one
- item two

` + "```go\nfmt.Println(\"hi\")\n```\n")

	got, err := markdownText(source)
	if err != nil {
		t.Fatalf("markdownText failed: %v", err)
	}

	for _, want := range []string{
		"Title",
		"Some bold text with a link.",
		"item one",
		"item two",
		`fmt.Println("hi")`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected output to contain %q, got %q", want, got)
		}
	}
	for _, markup := range []string{"**", "#", "](", "```"} {
		if strings.Contains(got, markup) {
			t.Errorf("Expected markup %q to be stripped, got %q", markup, got)
		}
	}
}

func TestMarkdownTextEmpty(t *testing.T) {
	got, err := markdownText(nil)
	if err != nil {
		t.Fatalf("markdownText failed: %v", err)
	}
	if got != "" {
		t.Errorf("Expected empty output, got %q", got)
	}
}

func TestSplitPages(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "trailing form feed dropped",
			input: "one\fTwo\f",
			want:  []string{"one", "Two"},
		},
		{
			name:  "blank page dropped",
			input: "one\f  \n\ftwo",
			want:  []string{"one", "two"},
		},
		{
			name:  "no form feed",
			input: "just one page",
			want:  []string{"just one page"},
		},
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := splitPages(tc.input)
			if len(got) != len(tc.want) {
				t.Fatalf("Expected %d pages, got %d: %v", len(tc.want), len(got), got)
			}
			for i := range tc.want {
				if got[i] != tc.want[i] {
					t.Errorf("Page %d: expected %q, got %q", i, tc.want[i], got[i])
				}
			}
		})
	}
}

func TestInstallInstructions(t *testing.T) {
	instructions := InstallInstructions()
	for _, want := range []string{"pdftotext", "brew install poppler", "apt install poppler-utils"} {
		if !strings.Contains(instructions, want) {
			t.Errorf("Expected instructions to mention %q", want)
		}
	}
}
