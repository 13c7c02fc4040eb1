package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/HackNC/resume-parser/internal/models"
)

// indexMapping gives the three document fields full-text analysis and keeps
// filename exact as well, so it can be used for lookups.
const indexMapping = `{
  "mappings": {
    "properties": {
      "name":     {"type": "text"},
      "filename": {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "content":  {"type": "text"}
    }
  }
}`

// Elastic is an Index backed by an Elasticsearch cluster.
type Elastic struct {
	es       *elasticsearch.Client
	index    string
	pageSize int
}

// NewElastic creates a client for the cluster at url using the named index.
func NewElastic(url, index string, size int) (*Elastic, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}
	return &Elastic{es: es, index: index, pageSize: pageSize(size)}, nil
}

// EnsureIndex creates the index with our mapping when it's missing.
func (e *Elastic) EnsureIndex(ctx context.Context) error {
	res, err := e.es.Indices.Exists([]string{e.index}, e.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to check index %s: %w", e.index, err)
	}
	res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
	default:
		return fmt.Errorf("failed to check index %s: %s", e.index, res.Status())
	}

	res, err = e.es.Indices.Create(e.index,
		e.es.Indices.Create.WithContext(ctx),
		e.es.Indices.Create.WithBody(strings.NewReader(indexMapping)),
	)
	if err != nil {
		return fmt.Errorf("failed to create index %s: %w", e.index, err)
	}
	return checkResponse(res, "create index")
}

// IndexDocument upserts the document under its ID.
func (e *Elastic) IndexDocument(ctx context.Context, doc models.SearchDocument) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document %s: %w", doc.ID, err)
	}

	res, err := e.es.Index(e.index, bytes.NewReader(body),
		e.es.Index.WithContext(ctx),
		e.es.Index.WithDocumentID(doc.ID),
	)
	if err != nil {
		return fmt.Errorf("failed to index document %s: %w", doc.ID, err)
	}
	return checkResponse(res, "index document "+doc.ID)
}

// DeleteDocument removes a document. A missing document is not an error.
func (e *Elastic) DeleteDocument(ctx context.Context, id string) error {
	res, err := e.es.Delete(e.index, id, e.es.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to delete document %s: %w", id, err)
	}
	if res.StatusCode == http.StatusNotFound {
		res.Body.Close()
		return nil
	}
	return checkResponse(res, "delete document "+id)
}

// Refresh forces a refresh so freshly indexed documents are searchable.
func (e *Elastic) Refresh(ctx context.Context) error {
	res, err := e.es.Indices.Refresh(
		e.es.Indices.Refresh.WithContext(ctx),
		e.es.Indices.Refresh.WithIndex(e.index),
	)
	if err != nil {
		return fmt.Errorf("failed to refresh index %s: %w", e.index, err)
	}
	return checkResponse(res, "refresh")
}

// searchResponse is the subset of the Elasticsearch search response we read.
type searchResponse struct {
	Hits struct {
		Hits []struct {
			ID     string                `json:"_id"`
			Source models.SearchDocument `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Search runs a match-all or an AND match query against content.
func (e *Elastic) Search(ctx context.Context, query string, matchAll bool) ([]models.SearchDocument, error) {
	body, err := json.Marshal(buildQuery(query, matchAll))
	if err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}

	res, err := e.es.Search(
		e.es.Search.WithContext(ctx),
		e.es.Search.WithIndex(e.index),
		e.es.Search.WithBody(bytes.NewReader(body)),
		e.es.Search.WithSize(e.pageSize),
	)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, responseError(res, "search")
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	docs := make([]models.SearchDocument, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		doc := hit.Source
		doc.ID = hit.ID
		docs = append(docs, doc)
	}
	return docs, nil
}

// buildQuery returns the Elasticsearch query DSL for a search request.
func buildQuery(query string, matchAll bool) map[string]any {
	if isMatchAll(query, matchAll) {
		return map[string]any{
			"query": map[string]any{"match_all": map[string]any{}},
		}
	}
	return map[string]any{
		"query": map[string]any{
			"match": map[string]any{
				"content": map[string]any{
					"query":    query,
					"operator": "and",
				},
			},
		},
	}
}

// Ping checks that the cluster answers.
func (e *Elastic) Ping(ctx context.Context) error {
	res, err := e.es.Ping(e.es.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch unreachable: %w", err)
	}
	return checkResponse(res, "ping")
}

// Close is a no-op; the HTTP transport has nothing to release.
func (e *Elastic) Close() error { return nil }

// checkResponse closes the body and turns error statuses into errors.
func checkResponse(res *esapi.Response, op string) error {
	defer res.Body.Close()
	if res.IsError() {
		return responseError(res, op)
	}
	return nil
}

func responseError(res *esapi.Response, op string) error {
	msg, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
	return fmt.Errorf("elasticsearch %s failed: %s: %s", op, res.Status(), strings.TrimSpace(string(msg)))
}
