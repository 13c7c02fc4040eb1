package search

import (
	"context"
	"errors"
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/HackNC/resume-parser/internal/models"
)

// Bleve is an Index stored in-process with blevesearch/bleve.
type Bleve struct {
	index    bleve.Index
	pageSize int
}

// OpenBleve opens the index at path, creating it when it doesn't exist.
func OpenBleve(path string, size int) (*Bleve, error) {
	idx, err := bleve.Open(path)
	if errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
		var m mapping.IndexMapping
		if m, err = newMapping(); err == nil {
			idx, err = bleve.New(path, m)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open bleve index %s: %w", path, err)
	}
	return &Bleve{index: idx, pageSize: pageSize(size)}, nil
}

// NewMemBleve returns a throwaway in-memory index.
func NewMemBleve(size int) (*Bleve, error) {
	m, err := newMapping()
	if err != nil {
		return nil, err
	}
	idx, err := bleve.NewMemOnly(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory index: %w", err)
	}
	return &Bleve{index: idx, pageSize: pageSize(size)}, nil
}

// textAnalyzer lowercases unicode word tokens and keeps stop words, like
// the Elasticsearch standard analyzer. Bleve's own "standard" analyzer drops
// English stop words, which would make them optional in an AND query.
const textAnalyzer = "resume_text"

// newMapping mirrors the Elasticsearch mapping: three stored text fields.
func newMapping() (mapping.IndexMapping, error) {
	m := bleve.NewIndexMapping()
	err := m.AddCustomAnalyzer(textAnalyzer, map[string]interface{}{
		"type":          custom.Name,
		"tokenizer":     unicode.Name,
		"token_filters": []string{lowercase.Name},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to register analyzer: %w", err)
	}

	text := bleve.NewTextFieldMapping()
	text.Analyzer = textAnalyzer
	text.Store = true

	doc := bleve.NewDocumentMapping()
	doc.AddFieldMappingsAt("name", text)
	doc.AddFieldMappingsAt("filename", text)
	doc.AddFieldMappingsAt("content", text)

	m.DefaultMapping = doc
	m.DefaultAnalyzer = textAnalyzer
	return m, nil
}

// EnsureIndex is a no-op: the index exists once it has been opened.
func (b *Bleve) EnsureIndex(context.Context) error { return nil }

// IndexDocument upserts the document under its ID.
func (b *Bleve) IndexDocument(_ context.Context, doc models.SearchDocument) error {
	if err := b.index.Index(doc.ID, doc); err != nil {
		return fmt.Errorf("failed to index document %s: %w", doc.ID, err)
	}
	return nil
}

// DeleteDocument removes a document. A missing document is not an error.
func (b *Bleve) DeleteDocument(_ context.Context, id string) error {
	if err := b.index.Delete(id); err != nil {
		return fmt.Errorf("failed to delete document %s: %w", id, err)
	}
	return nil
}

// Refresh is a no-op: bleve writes are visible as soon as Index returns.
func (b *Bleve) Refresh(context.Context) error { return nil }

// Search runs a match-all or an AND match query against content.
func (b *Bleve) Search(ctx context.Context, q string, matchAll bool) ([]models.SearchDocument, error) {
	var bq query.Query
	if isMatchAll(q, matchAll) {
		bq = bleve.NewMatchAllQuery()
	} else {
		mq := bleve.NewMatchQuery(q)
		mq.SetField("content")
		mq.SetOperator(query.MatchQueryOperatorAnd)
		bq = mq
	}

	req := bleve.NewSearchRequestOptions(bq, b.pageSize, 0, false)
	req.Fields = []string{"name", "filename", "content"}

	res, err := b.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	docs := make([]models.SearchDocument, 0, len(res.Hits))
	for _, hit := range res.Hits {
		docs = append(docs, models.SearchDocument{
			ID:       hit.ID,
			Name:     stringField(hit.Fields, "name"),
			Filename: stringField(hit.Fields, "filename"),
			Content:  stringField(hit.Fields, "content"),
		})
	}
	return docs, nil
}

// Ping always succeeds for an open index.
func (b *Bleve) Ping(context.Context) error { return nil }

// Close releases the index files.
func (b *Bleve) Close() error {
	return b.index.Close()
}

func stringField(fields map[string]interface{}, name string) string {
	s, _ := fields[name].(string)
	return s
}
