// Package router sets up all HTTP routes: the staff-facing HTML pages and
// the JSON API.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/HackNC/resume-parser/internal/handlers"
	"github.com/HackNC/resume-parser/internal/middleware"
)

// Options configures the pieces of the router that aren't handlers.
type Options struct {
	AllowedOrigins []string
	// LoginLimiter throttles POST /login and the API login; nil disables it.
	LoginLimiter *middleware.RateLimiter
	Log          logrus.FieldLogger
}

// Setup creates and configures the Gin router with all routes.
func Setup(h *handlers.Handler, opts Options) *gin.Engine {
	if opts.Log == nil {
		opts.Log = logrus.StandardLogger()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(opts.Log))
	if len(opts.AllowedOrigins) > 0 {
		r.Use(middleware.CORS(opts.AllowedOrigins))
	}
	r.SetHTMLTemplate(handlers.Templates())
	r.MaxMultipartMemory = 8 << 20

	loginLimit := func(onReject gin.HandlerFunc) gin.HandlerFunc {
		if opts.LoginLimiter == nil {
			return func(c *gin.Context) { c.Next() }
		}
		return opts.LoginLimiter.Limit(onReject)
	}

	// --- Public pages ---
	r.GET("/login", h.LoginForm)
	r.POST("/login", loginLimit(h.LoginThrottled), h.Login)
	r.GET("/logout", h.Logout)

	// --- Session-protected pages ---
	pages := r.Group("/")
	pages.Use(middleware.RequireSession(h.Sessions, h.Accounts))
	{
		pages.GET("/", h.Index)
		pages.POST("/", h.Index)
		pages.GET("/search", h.Search)
		pages.POST("/search", h.Search)
		pages.GET("/all", h.All)
		pages.GET("/add", h.AddForm)
		pages.POST("/add", h.AddCandidate)
		pages.GET("/uploads/:filename", h.ServeUpload)
		pages.GET("/downloadzip", h.DownloadAll)
		pages.GET("/downloadzip/:query", h.DownloadQuery)
	}

	// --- JSON API ---
	api := r.Group("/api/v1")
	{
		api.GET("/health", h.HealthCheck)
		api.GET("/docs", h.ServeSwaggerUI)
		api.GET("/docs/openapi.yaml", h.ServeOpenAPISpec)
		api.POST("/auth/login", loginLimit(nil), h.APILogin)
	}

	protected := api.Group("")
	protected.Use(middleware.APIAuth(h.Sessions, h.Accounts, h.JWTSecret))
	{
		protected.GET("/auth/me", h.GetMe)
		protected.POST("/auth/refresh", h.RefreshToken)
		protected.GET("/candidates", h.ListCandidates)
		protected.POST("/candidates", h.CreateCandidate)
		protected.GET("/candidates/archive", h.DownloadAPI)
	}

	return r
}
