package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/HackNC/resume-parser/internal/services/pdf"
)

// FakeExtractor returns the file's bytes after the "%PDF-" header as its
// text, so tests control extracted content by writing the file.
type FakeExtractor struct{}

var _ pdf.Extractor = FakeExtractor{}

func (FakeExtractor) ExtractFile(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	if !pdf.ValidatePDF(data) {
		return "", fmt.Errorf("%s: %w", path, pdf.ErrNotPDF)
	}
	return strings.TrimSpace(string(data[5:])), nil
}

// FakePDF returns file content FakeExtractor turns into text.
func FakePDF(text string) []byte {
	return []byte("%PDF-" + text)
}

// WritePDF writes a fake PDF with the given text into dir.
func WritePDF(t *testing.T, dir, name, text string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, FakePDF(text), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}
