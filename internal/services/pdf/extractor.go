// Package pdf provides PDF text extraction for uploaded résumés.
//
// We use the ledongthuc/pdf library for text extraction.
// It's a pure Go implementation with no CGO or external dependencies required.
// This makes deployment simpler (just a single binary). Deployments that
// already run an Apache Tika server can use TikaExtractor instead.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

var (
	// ErrNotPDF is returned when the file doesn't start with the PDF magic bytes.
	ErrNotPDF = errors.New("not a PDF file")
	// ErrEncrypted is returned for PDFs that cannot be opened with an empty password.
	ErrEncrypted = errors.New("PDF is encrypted")
)

// Extractor turns a PDF on disk into plain UTF-8 text.
type Extractor interface {
	ExtractFile(ctx context.Context, path string) (string, error)
}

// Native extracts text with the pure-Go ledongthuc/pdf parser.
type Native struct{}

// NewNative returns the built-in extractor.
func NewNative() *Native {
	return &Native{}
}

// ExtractFile reads every page of the PDF at path and returns the
// concatenated text. There is no page limit and no caching.
func (n *Native) ExtractFile(_ context.Context, path string) (text string, err error) {
	if err := checkMagic(path); err != nil {
		return "", err
	}

	// ledongthuc/pdf panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to parse PDF %s: %v", path, r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		if errors.Is(err, pdf.ErrInvalidPassword) {
			return "", fmt.Errorf("%s: %w", path, ErrEncrypted)
		}
		return "", fmt.Errorf("failed to open PDF %s: %w", path, err)
	}
	defer f.Close()

	return extractText(reader)
}

// extractText joins the plain text of every page with newlines.
func extractText(reader *pdf.Reader) (string, error) {
	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to extract text from page %d: %w", i, err)
		}
		pages = append(pages, strings.TrimSpace(text))
	}

	return strings.TrimSpace(strings.Join(pages, "\n")), nil
}

// checkMagic opens path and verifies the PDF header.
func checkMagic(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	head := make([]byte, 5)
	if _, err := io.ReadFull(f, head); err != nil {
		return fmt.Errorf("%s: %w", path, ErrNotPDF)
	}
	if !ValidatePDF(head) {
		return fmt.Errorf("%s: %w", path, ErrNotPDF)
	}
	return nil
}

// ValidatePDF checks if the data looks like a valid PDF by checking the magic bytes.
func ValidatePDF(data []byte) bool {
	// PDF files start with "%PDF-"
	return len(data) >= 5 && string(data[:5]) == "%PDF-"
}

// CountWords counts the number of words in a text string.
func CountWords(text string) int {
	return len(strings.Fields(text))
}
