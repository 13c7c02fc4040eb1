// Package search wraps the full-text search engine that mirrors candidates.
//
// Two engines implement Index: a standalone Elasticsearch node (the
// production setup) and an embedded bleve index for single-binary
// deployments and tests. Both behave the same way:
//
//   - documents are keyed by the candidate ID, so indexing twice replaces
//   - an empty query (or matchAll) returns every document, up to the page size
//   - otherwise every query term must appear in the document content
package search

import (
	"context"
	"strings"

	"github.com/HackNC/resume-parser/internal/models"
)

// DefaultPageSize caps how many documents a single search returns.
const DefaultPageSize = 2000

// Index is the search engine surface used by the candidate service.
type Index interface {
	// EnsureIndex creates the index and its mapping if it doesn't exist yet.
	EnsureIndex(ctx context.Context) error
	// IndexDocument upserts doc under doc.ID.
	IndexDocument(ctx context.Context, doc models.SearchDocument) error
	// DeleteDocument removes the document with the given ID, if present.
	DeleteDocument(ctx context.Context, id string) error
	// Refresh makes recent writes visible to the next Search.
	Refresh(ctx context.Context) error
	// Search runs an AND term match on content, or match-all.
	Search(ctx context.Context, query string, matchAll bool) ([]models.SearchDocument, error)
	// Ping reports whether the engine is reachable.
	Ping(ctx context.Context) error
	Close() error
}

// isMatchAll reports whether a request should return every document.
func isMatchAll(query string, matchAll bool) bool {
	return matchAll || strings.TrimSpace(query) == ""
}

func pageSize(n int) int {
	if n < 1 {
		return DefaultPageSize
	}
	return n
}
