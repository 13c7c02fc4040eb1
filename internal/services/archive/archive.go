// Package archive assembles zip downloads of uploaded résumés.
//
// The archive is built entirely in memory. Files that can't be added (a
// missing file, or a modification time the zip format can't represent)
// are skipped with a warning instead of failing the whole download.
package archive

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/sirupsen/logrus"
)

// ErrTimestamp is returned for files modified before 1980, which the zip
// format's MS-DOS timestamps can't encode.
var ErrTimestamp = errors.New("file timestamp predates 1980")

// zipEpoch is the earliest time a zip entry can carry.
var zipEpoch = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// Builder zips files from a single base directory.
type Builder struct {
	baseDir string
	log     logrus.FieldLogger
}

// NewBuilder creates a builder reading files from baseDir.
func NewBuilder(baseDir string, log logrus.FieldLogger) *Builder {
	return &Builder{baseDir: baseDir, log: log}
}

// Result is a finished archive plus what went into it.
type Result struct {
	Data    []byte
	Added   []string
	Skipped map[string]error
}

// Build zips the named files (relative to the base directory) with deflate
// compression. Duplicate names are added once. An empty list yields a valid,
// empty archive.
func (b *Builder) Build(filenames []string) (*Result, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	res := &Result{Skipped: make(map[string]error)}
	seen := make(map[string]bool, len(filenames))

	for _, name := range filenames {
		if seen[name] {
			continue
		}
		seen[name] = true

		if err := b.addFile(zw, name); err != nil {
			b.log.WithError(err).WithField("filename", name).Warn("skipping file in zip archive")
			res.Skipped[name] = err
			continue
		}
		res.Added = append(res.Added, name)
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish zip archive: %w", err)
	}
	res.Data = buf.Bytes()
	return res, nil
}

// addFile writes one file into the archive under its base name.
func (b *Builder) addFile(zw *zip.Writer, name string) error {
	clean := filepath.Base(filepath.Clean("/" + name))
	if clean == "/" || clean == "." {
		return fmt.Errorf("invalid filename %q", name)
	}

	path := filepath.Join(b.baseDir, clean)
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", clean)
	}
	if info.ModTime().Before(zipEpoch) {
		return ErrTimestamp
	}

	// Read before creating the header so a read failure leaves no half entry.
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = clean
	header.Method = zip.Deflate

	w, err := zw.CreateHeader(header)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// DownloadName returns the attachment filename for an archive selected by
// label (usually the search query). Quotes and control characters are
// replaced so the name can't break out of the Content-Disposition header.
func DownloadName(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "resumes.zip"
	}

	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r == '"' || r == '\\' || r == '/':
			return '-'
		case r < 0x20 || r == 0x7f:
			return -1
		}
		return r
	}, label)

	return "resumes-" + cleaned + ".zip"
}
