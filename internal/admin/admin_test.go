package admin

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/HackNC/resume-parser/internal/logger"
	"github.com/HackNC/resume-parser/internal/services/accounts"
	"github.com/HackNC/resume-parser/internal/services/candidates"
	"github.com/HackNC/resume-parser/internal/services/importer"
	"github.com/HackNC/resume-parser/internal/services/uploads"
	"github.com/HackNC/resume-parser/internal/testutil"
)

type fixture struct {
	cmd  *Commands
	repo *testutil.MemRepo
	out  *bytes.Buffer
}

func newFixture(t *testing.T, stdin string) *fixture {
	t.Helper()
	log := logger.Discard()
	repo := testutil.NewMemRepo()
	files, err := uploads.NewStore(t.TempDir())
	require.NoError(t, err)

	cands := candidates.New(repo, testutil.NewIndex(t), testutil.FakeExtractor{}, files, log)
	out := &bytes.Buffer{}
	return &fixture{
		cmd: &Commands{
			Accounts:   accounts.NewWithCost(repo, bcrypt.MinCost),
			Candidates: cands,
			Importer:   importer.New(cands, files, log),
			Files:      files,
			In:         strings.NewReader(stdin),
			Out:        out,
		},
		repo: repo,
		out:  out,
	}
}

func TestUsageErrors(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()

	for _, args := range [][]string{
		nil,
		{"frobnicate"},
		{"create-user"},
		{"create-candidate", "Ada"},
		{"import"},
		{"import", "-comma", ";;", "x.csv"},
		{"reindex", "now"},
	} {
		assert.ErrorIs(t, f.cmd.Run(ctx, args), ErrUsage, "%v", args)
	}

	require.NoError(t, f.cmd.Run(ctx, []string{"help"}))
	assert.Contains(t, f.out.String(), "create-user")
}

func TestCreateUser(t *testing.T) {
	t.Run("password argument", func(t *testing.T) {
		f := newFixture(t, "")
		require.NoError(t, f.cmd.Run(context.Background(), []string{"create-user", "organizer", "correct horse"}))
		assert.Contains(t, f.out.String(), "created user organizer")

		_, err := f.cmd.Accounts.VerifyUser(context.Background(), "organizer", "correct horse")
		assert.NoError(t, err)
	})

	t.Run("password from piped stdin", func(t *testing.T) {
		f := newFixture(t, "piped password\n")
		require.NoError(t, f.cmd.Run(context.Background(), []string{"create-user", "organizer"}))

		_, err := f.cmd.Accounts.VerifyUser(context.Background(), "organizer", "piped password")
		assert.NoError(t, err)
	})

	t.Run("duplicate name", func(t *testing.T) {
		f := newFixture(t, "")
		ctx := context.Background()
		require.NoError(t, f.cmd.Run(ctx, []string{"create-user", "organizer", "correct horse"}))
		err := f.cmd.Run(ctx, []string{"create-user", "organizer", "other password"})
		assert.ErrorIs(t, err, accounts.ErrNameTaken)
	})
}

func TestPromptPasswordFromTerminal(t *testing.T) {
	origRead, origTerm := readPassword, isTerminal
	t.Cleanup(func() { readPassword, isTerminal = origRead, origTerm })
	readPassword = func(int) ([]byte, error) { return []byte("typed secret"), nil }
	isTerminal = func(int) bool { return true }

	f := newFixture(t, "")
	f.cmd.In = os.Stdin
	require.NoError(t, f.cmd.Run(context.Background(), []string{"create-user", "organizer"}))
	assert.Contains(t, f.out.String(), "Password: ")

	_, err := f.cmd.Accounts.VerifyUser(context.Background(), "organizer", "typed secret")
	assert.NoError(t, err)
}

func TestCreateCandidateAndSearch(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()
	src := t.TempDir()
	ada := testutil.WritePDF(t, src, "ada.pdf", "golang kubernetes")
	grace := testutil.WritePDF(t, src, "grace.pdf", "golang cobol")

	require.NoError(t, f.cmd.Run(ctx, []string{"create-candidate", "Ada Lovelace", ada}))
	require.NoError(t, f.cmd.Run(ctx, []string{"create-candidate", "Grace Hopper", grace}))
	assert.Contains(t, f.out.String(), "created candidate Ada Lovelace")

	f.out.Reset()
	require.NoError(t, f.cmd.Run(ctx, []string{"search", "golang", "kubernetes"}))
	assert.Equal(t, "Ada Lovelace\n", f.out.String())

	f.out.Reset()
	require.NoError(t, f.cmd.Run(ctx, []string{"search", "-all"}))
	lines := strings.Split(strings.TrimSpace(f.out.String()), "\n")
	assert.ElementsMatch(t, []string{"Ada Lovelace", "Grace Hopper"}, lines)

	f.out.Reset()
	require.NoError(t, f.cmd.Run(ctx, []string{"reindex"}))
	assert.Equal(t, "indexed 2 candidates\n", f.out.String())

	err := f.cmd.Run(ctx, []string{"create-candidate", "Nobody", filepath.Join(src, "missing.pdf")})
	assert.Error(t, err)
}

func TestImport(t *testing.T) {
	f := newFixture(t, "")
	dir := t.TempDir()
	testutil.WritePDF(t, dir, "ada.pdf", "engines")
	testutil.WritePDF(t, dir, "grace.pdf", "compilers")

	csvPath := filepath.Join(dir, "hackers.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(strings.Join([]string{
		"first,last,resume",
		"Ada,Lovelace,https://files.example.com/1/ada.pdf",
		"Barbara,Liskov,custom-barbara.pdf",
		"Grace,Hopper,custom-grace.pdf",
		"Alan,Turing,https://files.example.com/alan.txt",
	}, "\n")), 0o644))

	require.NoError(t, f.cmd.Run(context.Background(), []string{"import", "-header", csvPath}))

	out := f.out.String()
	assert.Contains(t, out, "line 3: Barbara Liskov failed")
	assert.Contains(t, out, "line 5: Alan Turing skipped")
	assert.Contains(t, out, "imported 2, skipped 1, failed 1")

	rows, err := f.repo.ListCandidates(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}
