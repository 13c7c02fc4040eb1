package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HackNC/resume-parser/internal/config"
	"github.com/HackNC/resume-parser/internal/models"
	"github.com/HackNC/resume-parser/internal/services/search"
)

func TestOpenIndexBleve(t *testing.T) {
	cfg := &config.Config{
		SearchBackend:  config.SearchBackendBleve,
		BlevePath:      filepath.Join(t.TempDir(), "hackers.bleve"),
		SearchPageSize: 10,
	}

	index, err := OpenIndex(context.Background(), cfg)
	require.NoError(t, err)
	defer index.Close()

	_, ok := index.(*search.Bleve)
	assert.True(t, ok)

	ctx := context.Background()
	require.NoError(t, index.IndexDocument(ctx, models.SearchDocument{ID: "c-1", Name: "Ada", Content: "golang"}))
	docs, err := index.Search(ctx, "golang", false)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestOpenIndexUnknownBackend(t *testing.T) {
	_, err := OpenIndex(context.Background(), &config.Config{SearchBackend: "solr"})
	assert.Error(t, err)
}
