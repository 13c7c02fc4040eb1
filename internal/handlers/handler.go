// Package handlers contains the HTTP handlers for the web pages and the
// JSON API.
//
// Go Pattern: Handlers in Gin receive a *gin.Context which provides:
// - Request data (params, query, form, files)
// - Response methods (HTML, JSON, Data, Redirect)
// - Middleware data (c.Get/c.Set)
//
// We group related handlers into a struct (Handler) that holds shared
// dependencies.
package handlers

import (
	"context"
	"embed"
	"html/template"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/sirupsen/logrus"

	"github.com/HackNC/resume-parser/internal/middleware"
	"github.com/HackNC/resume-parser/internal/services/accounts"
	"github.com/HackNC/resume-parser/internal/services/archive"
	"github.com/HackNC/resume-parser/internal/services/candidates"
)

// Version is reported by the health check.
const Version = "1.0.0"

//go:embed templates/*.html
var templateFiles embed.FS

// Templates parses the embedded HTML pages. Each page is addressed by its
// file name, e.g. "login.html".
func Templates() *template.Template {
	return template.Must(template.ParseFS(templateFiles, "templates/*.html"))
}

// HealthChecker reports whether a backing store is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Pinger reports whether the search engine is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the services the handlers need.
type Deps struct {
	Accounts      *accounts.Service
	Candidates    *candidates.Service
	Archive       *archive.Builder
	Sessions      sessions.Store
	DB            HealthChecker
	Index         Pinger
	JWTSecret     string
	MaxUploadSize int64
	Log           logrus.FieldLogger
}

// Handler holds shared dependencies for all HTTP handlers.
// Go Pattern: Dependency injection via struct fields. Instead of global
// variables or service locators, we pass dependencies explicitly.
type Handler struct {
	Deps
}

// NewHandler creates a new handler with all dependencies.
func NewHandler(d Deps) *Handler {
	if d.MaxUploadSize <= 0 {
		d.MaxUploadSize = defaultMaxUpload
	}
	if d.Log == nil {
		d.Log = logrus.StandardLogger()
	}
	return &Handler{Deps: d}
}

// page builds the template data shared by every HTML page.
func page(c *gin.Context, title string) gin.H {
	return gin.H{
		"Title": title,
		"User":  middleware.GetUser(c),
	}
}
