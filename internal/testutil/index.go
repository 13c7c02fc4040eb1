package testutil

import (
	"context"
	"errors"
	"testing"

	"github.com/HackNC/resume-parser/internal/models"
	"github.com/HackNC/resume-parser/internal/services/search"
)

// NewIndex returns an in-memory bleve index closed at test cleanup.
func NewIndex(t *testing.T) *search.Bleve {
	t.Helper()
	idx, err := search.NewMemBleve(0)
	if err != nil {
		t.Fatalf("failed to create index: %v", err)
	}
	t.Cleanup(func() { idx.Close() })
	return idx
}

// ErrIndexDown is returned by a BrokenIndex.
var ErrIndexDown = errors.New("search engine unreachable")

// BrokenIndex fails every write and ping; reads go to the embedded index.
type BrokenIndex struct {
	search.Index
}

func (BrokenIndex) IndexDocument(context.Context, models.SearchDocument) error {
	return ErrIndexDown
}

func (BrokenIndex) Ping(context.Context) error {
	return ErrIndexDown
}
