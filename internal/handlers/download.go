// download.go streams zip archives of résumés.
package handlers

import (
	"mime"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/HackNC/resume-parser/internal/services/archive"
)

// DownloadAll zips every candidate's résumé, or only the matches of ?q=
// for terms that can't be a single path segment.
// GET /downloadzip
func (h *Handler) DownloadAll(c *gin.Context) {
	h.sendArchive(c, strings.TrimSpace(c.Query("q")))
}

// DownloadQuery zips the résumés matching a search term. A term that
// matches nothing yields an empty archive.
// GET /downloadzip/:query
func (h *Handler) DownloadQuery(c *gin.Context) {
	h.sendArchive(c, c.Param("query"))
}

// DownloadAPI is the JSON API flavor of the zip download.
// GET /api/v1/candidates/archive?q=golang
func (h *Handler) DownloadAPI(c *gin.Context) {
	h.sendArchive(c, c.Query("q"))
}

func (h *Handler) sendArchive(c *gin.Context, query string) {
	filenames, err := h.Candidates.Filenames(c.Request.Context(), query)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	res, err := h.Archive.Build(filenames)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	if len(res.Skipped) > 0 {
		h.Log.WithField("skipped", len(res.Skipped)).Warn("⚠️ zip archive is missing files")
	}

	// Go Pattern: mime.FormatMediaType quotes the name and switches to the
	// RFC 2231 form for non-ASCII search terms.
	disposition := mime.FormatMediaType("attachment", map[string]string{
		"filename": archive.DownloadName(query),
	})
	c.Header("Content-Disposition", disposition)
	c.Data(http.StatusOK, "application/zip", res.Data)
}
