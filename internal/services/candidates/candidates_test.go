package candidates

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HackNC/resume-parser/internal/logger"
	"github.com/HackNC/resume-parser/internal/services/pdf"
	"github.com/HackNC/resume-parser/internal/services/search"
	"github.com/HackNC/resume-parser/internal/services/uploads"
	"github.com/HackNC/resume-parser/internal/testutil"
)

type fixture struct {
	svc   *Service
	repo  *testutil.MemRepo
	index search.Index
	files *uploads.Store
}

func newFixture(t *testing.T, index search.Index) *fixture {
	t.Helper()
	files, err := uploads.NewStore(t.TempDir())
	require.NoError(t, err)
	if index == nil {
		index = testutil.NewIndex(t)
	}
	repo := testutil.NewMemRepo()
	return &fixture{
		svc:   New(repo, index, testutil.FakeExtractor{}, files, logger.Discard()),
		repo:  repo,
		index: index,
		files: files,
	}
}

func TestUploadStoresAndIndexes(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	c, err := f.svc.Upload(ctx, "Ada Lovelace", "resume.pdf", bytes.NewReader(testutil.FakePDF("analytical engine notes")))
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", c.Name)
	assert.Equal(t, "resume.pdf", c.Filename)
	assert.Equal(t, "analytical engine notes", c.ResumeText)

	rows, err := f.repo.ListCandidates(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, c.ID, rows[0].ID)

	docs, err := f.svc.Search(ctx, "engine", false)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, c.ID, docs[0].ID)
	assert.Equal(t, "Ada Lovelace", docs[0].Name)
	assert.Equal(t, "resume.pdf", docs[0].Filename)
	assert.Equal(t, "analytical engine notes", docs[0].Content)

	_, err = os.Stat(filepath.Join(f.files.Dir(), "resume.pdf"))
	assert.NoError(t, err)
}

func TestUploadSanitizesFilename(t *testing.T) {
	f := newFixture(t, nil)

	c, err := f.svc.Upload(context.Background(), "Grace Hopper", "../../My résumé.pdf", bytes.NewReader(testutil.FakePDF("cobol")))
	require.NoError(t, err)
	assert.Equal(t, "My_resume.pdf", c.Filename)
}

func TestUploadRejectsNonPDF(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.Upload(context.Background(), "Alan Turing", "resume.pdf", bytes.NewReader([]byte("plain text")))
	assert.ErrorIs(t, err, pdf.ErrNotPDF)

	rows, err := f.repo.ListCandidates(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestCreateRequiresName(t *testing.T) {
	f := newFixture(t, nil)
	testutil.WritePDF(t, f.files.Dir(), "a.pdf", "text")

	_, err := f.svc.Create(context.Background(), "  ", "a.pdf")
	assert.Error(t, err)
}

func TestCreateKeepsRowWhenIndexingFails(t *testing.T) {
	f := newFixture(t, testutil.BrokenIndex{Index: testutil.NewIndex(t)})
	testutil.WritePDF(t, f.files.Dir(), "a.pdf", "golang")

	c, err := f.svc.Create(context.Background(), "Ada Lovelace", "a.pdf")
	assert.ErrorIs(t, err, testutil.ErrIndexDown)
	require.NotNil(t, c)

	rows, err := f.repo.ListCandidates(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestSearchSemantics(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	for name, text := range map[string]string{
		"ada.pdf":   "golang kubernetes",
		"grace.pdf": "golang cobol",
		"alan.pdf":  "kubernetes cryptography",
	} {
		testutil.WritePDF(t, f.files.Dir(), name, text)
		_, err := f.svc.Create(ctx, name, name)
		require.NoError(t, err)
	}

	all, err := f.svc.Search(ctx, "", false)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	all, err = f.svc.Search(ctx, "cobol", true)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	both, err := f.svc.Filenames(ctx, "golang kubernetes")
	require.NoError(t, err)
	assert.Equal(t, []string{"ada.pdf"}, both)

	none, err := f.svc.Filenames(ctx, "rust")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestReindexReusesIDs(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	testutil.WritePDF(t, f.files.Dir(), "ada.pdf", "golang")
	c, err := f.svc.Create(ctx, "Ada Lovelace", "ada.pdf")
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		n, err := f.svc.Reindex(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	}

	docs, err := f.svc.Search(ctx, "", true)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, c.ID, docs[0].ID)
}

func TestDelete(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	testutil.WritePDF(t, f.files.Dir(), "ada.pdf", "golang")
	c, err := f.svc.Create(ctx, "Ada Lovelace", "ada.pdf")
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, c.ID))

	docs, err := f.svc.Search(ctx, "golang", false)
	require.NoError(t, err)
	assert.Empty(t, docs)
	rows, err := f.svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
