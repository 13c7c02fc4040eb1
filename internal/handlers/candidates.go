// candidates.go handles résumé upload, search and file download.
//
// HTML pages:
//
//	GET|POST /        search form plus results (everything when no term)
//	GET|POST /search  search results
//	GET      /all     every candidate
//	GET|POST /add     upload form
//	GET /uploads/:filename  the stored PDF
//
// JSON API:
//
//	GET  /api/v1/candidates?q=&all=
//	POST /api/v1/candidates (multipart: name, file)
package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/HackNC/resume-parser/internal/models"
	pdfservice "github.com/HackNC/resume-parser/internal/services/pdf"
	"github.com/HackNC/resume-parser/internal/services/uploads"
)

// defaultMaxUpload is used when no upload limit is configured (50MB).
const defaultMaxUpload = 50 << 20

var (
	errMissingName = errors.New("a candidate name is required")
	errMissingFile = errors.New("choose a PDF file to upload")
	errNotPDFName  = errors.New("only .pdf files are accepted")
)

// searchTerm reads the search term from a submitted form or the query string.
func searchTerm(c *gin.Context) string {
	if term, ok := c.GetPostForm("search"); ok {
		return strings.TrimSpace(term)
	}
	if term := c.Query("q"); term != "" {
		return strings.TrimSpace(term)
	}
	return strings.TrimSpace(c.Query("search"))
}

// downloadURL links to the zip of whatever a query matched. Routes match on
// the decoded path, so a term containing a slash goes in the query string.
func downloadURL(query string) string {
	if query == "" {
		return "/downloadzip"
	}
	if strings.Contains(query, "/") {
		return "/downloadzip?q=" + url.QueryEscape(query)
	}
	return "/downloadzip/" + url.PathEscape(query)
}

// renderResults runs the search and renders tmpl with the hits.
func (h *Handler) renderResults(c *gin.Context, tmpl, title, query string, matchAll bool) {
	results, err := h.Candidates.Search(c.Request.Context(), query, matchAll)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	if matchAll {
		query = ""
	}

	data := page(c, title)
	data["Query"] = query
	data["Results"] = results
	data["DownloadURL"] = downloadURL(query)
	c.HTML(http.StatusOK, tmpl, data)
}

// Index shows the search form and the candidates matching the submitted
// term, or every candidate when there is none.
// GET|POST /
func (h *Handler) Index(c *gin.Context) {
	h.renderResults(c, "index.html", "Candidates", searchTerm(c), false)
}

// Search renders the results page for a term.
// GET|POST /search
func (h *Handler) Search(c *gin.Context) {
	h.renderResults(c, "search.html", "Search results", searchTerm(c), false)
}

// All lists every indexed candidate.
// GET /all
func (h *Handler) All(c *gin.Context) {
	h.renderResults(c, "search.html", "All candidates", "", true)
}

// AddForm renders the upload form.
// GET /add
func (h *Handler) AddForm(c *gin.Context) {
	c.HTML(http.StatusOK, "add.html", page(c, "Add résumé"))
}

// AddCandidate stores an uploaded résumé and indexes it.
// POST /add (multipart: hacker-name, file-upload)
func (h *Handler) AddCandidate(c *gin.Context) {
	candidate, status, err := h.upload(c, "hacker-name", "file-upload")
	if err != nil {
		if status >= http.StatusInternalServerError {
			_ = c.AbortWithError(status, err)
			return
		}
		data := page(c, "Add résumé")
		data["Error"] = err.Error()
		c.HTML(status, "add.html", data)
		return
	}

	data := page(c, "Add résumé")
	data["Created"] = candidate
	c.HTML(http.StatusCreated, "add.html", data)
}

// upload handles a multipart résumé upload and reports the HTTP status
// that fits any error.
func (h *Handler) upload(c *gin.Context, nameField, fileField string) (*models.Candidate, int, error) {
	// Limit request body size
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadSize)

	header, err := c.FormFile(fileField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, http.StatusRequestEntityTooLarge, fmt.Errorf("file is larger than %d MB", h.MaxUploadSize>>20)
		}
		return nil, http.StatusBadRequest, errMissingFile
	}

	name := strings.TrimSpace(c.PostForm(nameField))
	if err := validateUpload(name, header); err != nil {
		return nil, http.StatusBadRequest, err
	}

	file, err := header.Open()
	if err != nil {
		return nil, http.StatusBadRequest, errMissingFile
	}
	defer file.Close()

	candidate, err := h.Candidates.Upload(c.Request.Context(), name, header.Filename, file)
	switch {
	case err == nil:
		return candidate, http.StatusCreated, nil
	case errors.Is(err, pdfservice.ErrNotPDF):
		return nil, http.StatusBadRequest, errors.New("the uploaded file does not appear to be a valid PDF")
	case errors.Is(err, pdfservice.ErrEncrypted):
		return nil, http.StatusBadRequest, errors.New("encrypted PDFs can't be indexed")
	case errors.Is(err, uploads.ErrInvalidName):
		return nil, http.StatusBadRequest, err
	default:
		h.Log.WithError(err).WithField("filename", header.Filename).Error("❌ upload failed")
		return nil, http.StatusInternalServerError, err
	}
}

func validateUpload(name string, header *multipart.FileHeader) error {
	if name == "" {
		return errMissingName
	}
	if !strings.EqualFold(filepath.Ext(header.Filename), ".pdf") {
		return errNotPDFName
	}
	return nil
}

// ServeUpload sends a stored résumé.
// GET /uploads/:filename
func (h *Handler) ServeUpload(c *gin.Context) {
	path, err := h.Candidates.Files().Path(c.Param("filename"))
	if err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	c.File(path)
}

// ListCandidates searches candidates for the JSON API.
// GET /api/v1/candidates?q=golang&all=false
func (h *Handler) ListCandidates(c *gin.Context) {
	var params models.SearchParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid query parameters: " + err.Error(),
			Code:    http.StatusBadRequest,
		})
		return
	}

	results, err := h.Candidates.Search(c.Request.Context(), params.Query, params.All)
	if err != nil {
		h.Log.WithError(err).Error("❌ search failed")
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "search_error",
			Message: "Search engine request failed",
			Code:    http.StatusBadGateway,
		})
		return
	}

	if results == nil {
		results = []models.SearchDocument{}
	}
	c.JSON(http.StatusOK, models.SearchResponse{
		Query:   params.Query,
		Total:   len(results),
		Results: results,
	})
}

// CreateCandidate uploads a résumé through the JSON API.
// POST /api/v1/candidates (multipart: name, file)
func (h *Handler) CreateCandidate(c *gin.Context) {
	candidate, status, err := h.upload(c, "name", "file")
	if err != nil {
		code := "invalid_request"
		message := err.Error()
		if status >= http.StatusInternalServerError {
			code = "upload_failed"
			message = "Failed to store the résumé"
		}
		c.JSON(status, models.ErrorResponse{Error: code, Message: message, Code: status})
		return
	}
	c.JSON(http.StatusCreated, candidate)
}
