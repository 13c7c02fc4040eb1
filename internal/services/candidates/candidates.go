// Package candidates owns the résumé lifecycle: a stored PDF is turned into
// text, written to the database and mirrored into the search index.
//
// The database write and the index write are independent. If indexing fails
// after the row was created the row stays; Reindex rebuilds the index from
// the database.
package candidates

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/HackNC/resume-parser/internal/models"
	"github.com/HackNC/resume-parser/internal/services/pdf"
	"github.com/HackNC/resume-parser/internal/services/search"
	"github.com/HackNC/resume-parser/internal/services/uploads"
)

// Store is the candidate storage the service needs.
type Store interface {
	CreateCandidate(ctx context.Context, c *models.Candidate) error
	ListCandidates(ctx context.Context) ([]models.Candidate, error)
	DeleteCandidate(ctx context.Context, id string) error
}

// Service wires candidate storage, the search index and text extraction.
type Service struct {
	store     Store
	index     search.Index
	extractor pdf.Extractor
	files     *uploads.Store
	log       logrus.FieldLogger
}

// New creates a candidate service.
func New(store Store, index search.Index, extractor pdf.Extractor, files *uploads.Store, log logrus.FieldLogger) *Service {
	return &Service{
		store:     store,
		index:     index,
		extractor: extractor,
		files:     files,
		log:       log,
	}
}

// Files returns the upload store the service reads résumés from.
func (s *Service) Files() *uploads.Store {
	return s.files
}

// Upload saves r under the sanitized form of original, then creates the
// candidate from it. A file with the same name is overwritten.
func (s *Service) Upload(ctx context.Context, name, original string, r io.Reader) (*models.Candidate, error) {
	filename, err := s.files.Save(original, r)
	if err != nil {
		return nil, err
	}
	return s.Create(ctx, name, filename)
}

// Create extracts the text of an already stored file and records the
// candidate in the database and the search index.
func (s *Service) Create(ctx context.Context, name, filename string) (*models.Candidate, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("candidate name is required")
	}

	path, err := s.files.Path(filename)
	if err != nil {
		return nil, err
	}

	text, err := s.extractor.ExtractFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to extract %s: %w", filename, err)
	}

	c := &models.Candidate{
		Name:       name,
		Filename:   uploads.SanitizeFilename(filename),
		ResumeText: text,
	}
	if err := s.store.CreateCandidate(ctx, c); err != nil {
		return nil, err
	}

	if err := s.index.IndexDocument(ctx, models.DocumentFromCandidate(c)); err != nil {
		s.log.WithError(err).WithField("candidate_id", c.ID).Error("candidate stored but not indexed")
		return c, fmt.Errorf("failed to index candidate %s: %w", c.ID, err)
	}

	s.log.WithFields(logrus.Fields{
		"candidate_id": c.ID,
		"filename":     c.Filename,
		"words":        pdf.CountWords(text),
	}).Info("candidate created")
	return c, nil
}

// Search refreshes the index and returns matching documents. An empty
// query or matchAll returns every document up to the page size.
func (s *Service) Search(ctx context.Context, query string, matchAll bool) ([]models.SearchDocument, error) {
	if err := s.index.Refresh(ctx); err != nil {
		return nil, err
	}
	return s.index.Search(ctx, query, matchAll)
}

// Filenames returns the stored filenames of every document matching query.
func (s *Service) Filenames(ctx context.Context, query string) ([]string, error) {
	docs, err := s.Search(ctx, query, false)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(docs))
	for _, d := range docs {
		names = append(names, d.Filename)
	}
	return names, nil
}

// List returns every candidate row from the database.
func (s *Service) List(ctx context.Context) ([]models.Candidate, error) {
	return s.store.ListCandidates(ctx)
}

// Reindex creates the index if needed and re-indexes every candidate under
// its existing ID. It returns how many documents were written.
func (s *Service) Reindex(ctx context.Context) (int, error) {
	if err := s.index.EnsureIndex(ctx); err != nil {
		return 0, err
	}

	all, err := s.store.ListCandidates(ctx)
	if err != nil {
		return 0, err
	}

	n := 0
	for i := range all {
		if err := s.index.IndexDocument(ctx, models.DocumentFromCandidate(&all[i])); err != nil {
			return n, fmt.Errorf("failed to index candidate %s: %w", all[i].ID, err)
		}
		n++
	}

	if err := s.index.Refresh(ctx); err != nil {
		return n, err
	}
	s.log.WithField("documents", n).Info("search index rebuilt")
	return n, nil
}

// Delete removes a candidate row and its search document. The stored file
// is left in place. No route exposes this yet.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteCandidate(ctx, id); err != nil {
		return err
	}
	return s.index.DeleteDocument(ctx, id)
}
