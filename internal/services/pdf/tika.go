package pdf

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/go-tika/tika"
)

// TikaExtractor sends files to an Apache Tika server for text extraction.
type TikaExtractor struct {
	client *tika.Client
}

// NewTika creates an extractor for the Tika server at url.
func NewTika(url string) *TikaExtractor {
	return &TikaExtractor{
		client: tika.NewClient(&http.Client{Timeout: 2 * time.Minute}, url),
	}
}

// ExtractFile uploads the PDF at path to Tika and returns the parsed text.
func (t *TikaExtractor) ExtractFile(ctx context.Context, path string) (string, error) {
	if err := checkMagic(path); err != nil {
		return "", err
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	text, err := t.client.Parse(ctx, f)
	if err != nil {
		return "", fmt.Errorf("tika failed to parse %s: %w", path, err)
	}
	return strings.TrimSpace(text), nil
}

// New picks the Tika extractor when tikaURL is set, the native one otherwise.
func New(tikaURL string) Extractor {
	if tikaURL != "" {
		return NewTika(tikaURL)
	}
	return NewNative()
}
