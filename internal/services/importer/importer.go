// Package importer bulk-loads candidates from a delimited file.
//
// Each row is {first name, last name, source}. The source is either
// "custom-<filename>" naming a file literally, or a path/URL whose last
// segment is the filename. Files are looked up in a source directory and
// copied into the upload store. Rows fail independently; the returned
// report says what happened to each one.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/HackNC/resume-parser/internal/models"
	"github.com/HackNC/resume-parser/internal/services/uploads"
)

// CustomPrefix marks a source field that names the file literally.
const CustomPrefix = "custom-"

var (
	errColumns = errors.New("expected 3 columns: first name, last name, source")
	errNoName  = errors.New("empty candidate name")
	errNotPDF  = errors.New("not a PDF")
)

// Creator creates a candidate from a file already in the upload store.
type Creator interface {
	Create(ctx context.Context, name, filename string) (*models.Candidate, error)
}

// Options control how the input file is read.
type Options struct {
	// SourceDir is where the referenced PDFs are found.
	SourceDir string
	// Comma is the field delimiter; zero means ','.
	Comma rune
	// HasHeader skips the first row.
	HasHeader bool
}

// Importer runs bulk imports.
type Importer struct {
	creator Creator
	files   *uploads.Store
	log     logrus.FieldLogger
}

// New returns an importer that copies files into files and creates
// candidates through creator.
func New(creator Creator, files *uploads.Store, log logrus.FieldLogger) *Importer {
	return &Importer{creator: creator, files: files, log: log}
}

// Run imports every row of r. The error is only non-nil when the input
// itself can't be read; row failures are reported in the report.
func (im *Importer) Run(ctx context.Context, r io.Reader, opts Options) (*models.ImportReport, error) {
	cr := csv.NewReader(r)
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	report := &models.ImportReport{}
	for line := 1; ; line++ {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				row := models.ImportRowResult{Line: line, Status: models.ImportFailed, Reason: err.Error()}
				im.logRow(row)
				report.Rows = append(report.Rows, row)
				continue
			}
			return report, fmt.Errorf("failed to read import file: %w", err)
		}
		if line == 1 && opts.HasHeader {
			continue
		}

		row := im.importRow(ctx, line, record, opts.SourceDir)
		im.logRow(row)
		report.Rows = append(report.Rows, row)
	}

	im.log.WithFields(logrus.Fields{
		"imported": report.Count(models.ImportImported),
		"skipped":  report.Count(models.ImportSkipped),
		"failed":   report.Count(models.ImportFailed),
	}).Info("import finished")
	return report, nil
}

func (im *Importer) importRow(ctx context.Context, line int, record []string, sourceDir string) models.ImportRowResult {
	row := models.ImportRowResult{Line: line}
	fail := func(status models.ImportStatus, err error) models.ImportRowResult {
		row.Status = status
		row.Reason = err.Error()
		return row
	}

	if len(record) < 3 {
		return fail(models.ImportFailed, errColumns)
	}

	row.Name = strings.TrimSpace(strings.TrimSpace(record[0]) + " " + strings.TrimSpace(record[1]))
	if row.Name == "" {
		return fail(models.ImportFailed, errNoName)
	}

	row.Filename = FilenameFromSource(record[2])
	if !strings.EqualFold(filepath.Ext(row.Filename), ".pdf") {
		return fail(models.ImportSkipped, errNotPDF)
	}

	src := filepath.Join(sourceDir, filepath.Base(filepath.Clean("/"+row.Filename)))
	stored, err := im.files.Import(src, row.Filename)
	if err != nil {
		return fail(models.ImportFailed, err)
	}
	row.Filename = stored

	c, err := im.creator.Create(ctx, row.Name, stored)
	if err != nil {
		if c != nil {
			row.CandidateID = c.ID
		}
		return fail(models.ImportFailed, err)
	}

	row.Status = models.ImportImported
	row.CandidateID = c.ID
	return row
}

func (im *Importer) logRow(row models.ImportRowResult) {
	entry := im.log.WithFields(logrus.Fields{
		"line":     row.Line,
		"name":     row.Name,
		"filename": row.Filename,
	})
	switch row.Status {
	case models.ImportImported:
		entry.WithField("candidate_id", row.CandidateID).Debug("row imported")
	case models.ImportSkipped:
		entry.WithField("reason", row.Reason).Warn("row skipped")
	default:
		entry.WithField("reason", row.Reason).Warn("row failed")
	}
}

// FilenameFromSource derives the stored filename from the third column.
// "custom-cv.pdf" gives "cv.pdf"; "https://host/files/42/cv.pdf?dl=1" and
// "exports/42/cv.pdf" both give "cv.pdf".
func FilenameFromSource(source string) string {
	source = strings.TrimSpace(source)
	if strings.HasPrefix(source, CustomPrefix) {
		return strings.TrimPrefix(source, CustomPrefix)
	}

	if u, err := url.Parse(source); err == nil && u.Path != "" {
		source = u.Path
	} else if i := strings.IndexAny(source, "?#"); i >= 0 {
		source = source[:i]
	}

	source = strings.ReplaceAll(source, "\\", "/")
	base := path.Base(strings.TrimRight(source, "/"))
	if base == "." || base == "/" {
		return ""
	}
	return base
}

// Open is a convenience for running an import straight from a file path.
func (im *Importer) Open(ctx context.Context, csvPath string, opts Options) (*models.ImportReport, error) {
	f, err := os.Open(csvPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return im.Run(ctx, f, opts)
}
