// Package uploads stores résumé files in the upload directory.
//
// Every file lives directly in one directory under a sanitized name.
// Saving a file with a name that already exists overwrites it.
package uploads

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// ErrInvalidName is returned when a filename sanitizes to nothing.
var ErrInvalidName = errors.New("invalid filename")

// Store is the upload directory.
type Store struct {
	dir string
}

// NewStore creates the directory if needed and returns a store for it.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the upload directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the on-disk path for a stored filename. The name is
// sanitized again so request paths can never leave the directory.
func (s *Store) Path(name string) (string, error) {
	clean := SanitizeFilename(name)
	if clean == "" {
		return "", ErrInvalidName
	}
	return filepath.Join(s.dir, clean), nil
}

// Save writes r to the upload directory under the sanitized form of
// original and returns the stored name.
func (s *Store) Save(original string, r io.Reader) (string, error) {
	name := SanitizeFilename(original)
	if name == "" {
		return "", fmt.Errorf("%q: %w", original, ErrInvalidName)
	}

	path := filepath.Join(s.dir, name)
	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to store %s: %w", name, err)
	}
	return name, nil
}

// Import copies a file from anywhere on disk into the store.
func (s *Store) Import(srcPath, name string) (string, error) {
	f, err := os.Open(srcPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	// Importing a file that already sits in the store is a no-op.
	if dst, err := s.Path(name); err == nil && sameFile(srcPath, dst) {
		return SanitizeFilename(name), nil
	}
	return s.Save(name, f)
}

func sameFile(a, b string) bool {
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}

// SanitizeFilename turns an arbitrary user-supplied name into a safe, flat
// ASCII filename: accents are folded, path separators become spaces,
// whitespace runs become underscores, anything outside [A-Za-z0-9_.-] is
// dropped and leading/trailing dots and underscores are trimmed.
// "../../etc/passwd" becomes "etc_passwd"; "My cool résumé.pdf" becomes
// "My_cool_resume.pdf".
func SanitizeFilename(name string) string {
	name = norm.NFKD.String(name)

	var ascii strings.Builder
	for _, r := range name {
		if r < unicode.MaxASCII {
			ascii.WriteRune(r)
		}
	}

	replaced := strings.NewReplacer("/", " ", "\\", " ").Replace(ascii.String())
	joined := strings.Join(strings.Fields(replaced), "_")

	var out strings.Builder
	for _, r := range joined {
		if r == '_' || r == '.' || r == '-' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			out.WriteRune(r)
		}
	}

	return strings.Trim(out.String(), "._")
}
