// Package models defines the data structures used throughout the application.
//
// Go Pattern: Models are plain structs with JSON tags for serialization.
// There is no ORM magic here: no password hashing in a constructor, no
// implicit saves. The database package handles persistence and the services
// package owns behavior.
//
// JSON tags (e.g., `json:"id"`) control how struct fields are serialized
// to/from JSON. The `db` tags work with sqlx for database column mapping.
package models

import "time"

// User is a staff account allowed to log into the app.
type User struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	PasswordHash string    `json:"-" db:"password_hash"` // "-" means never serialize to JSON
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Candidate is a hackathon applicant whose résumé has been uploaded.
// Filename is the sanitized on-disk name inside the upload directory.
type Candidate struct {
	ID         string    `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	Filename   string    `json:"filename" db:"filename"`
	ResumeText string    `json:"resume_text" db:"resume_text"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// SearchDocument mirrors a Candidate inside the search engine, keyed by the
// candidate's ID.
type SearchDocument struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

// DocumentFromCandidate builds the index representation of a candidate.
func DocumentFromCandidate(c *Candidate) SearchDocument {
	return SearchDocument{
		ID:       c.ID,
		Name:     c.Name,
		Filename: c.Filename,
		Content:  c.ResumeText,
	}
}

// --- Bulk import ---

// ImportStatus is the outcome of one bulk-import row.
type ImportStatus string

const (
	ImportImported ImportStatus = "imported"
	ImportSkipped  ImportStatus = "skipped"
	ImportFailed   ImportStatus = "failed"
)

// ImportRowResult describes what happened to a single row of an import file.
type ImportRowResult struct {
	Line        int          `json:"line"`
	Name        string       `json:"name"`
	Filename    string       `json:"filename,omitempty"`
	Status      ImportStatus `json:"status"`
	Reason      string       `json:"reason,omitempty"`
	CandidateID string       `json:"candidate_id,omitempty"`
}

// ImportReport aggregates the per-row results of a bulk import.
type ImportReport struct {
	Rows []ImportRowResult `json:"rows"`
}

// Count returns how many rows ended with the given status.
func (r *ImportReport) Count(status ImportStatus) int {
	n := 0
	for _, row := range r.Rows {
		if row.Status == status {
			n++
		}
	}
	return n
}

// --- Request/Response DTOs (Data Transfer Objects) ---
// Go Pattern: Separate structs for API input/output vs database models.

// LoginRequest is the JSON body for POST /api/v1/auth/login.
type LoginRequest struct {
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned after a successful API login.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// SearchParams holds query parameters for candidate search.
type SearchParams struct {
	Query string `form:"q"`
	All   bool   `form:"all"`
}

// SearchResponse wraps search hits for the JSON API.
type SearchResponse struct {
	Query   string           `json:"query"`
	Total   int              `json:"total"`
	Results []SearchDocument `json:"results"`
}

// ErrorResponse is a standard error format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Database string `json:"database"`
	Search   string `json:"search"`
}
