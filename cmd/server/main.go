// Package main is the entry point for the résumé indexer web server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/HackNC/resume-parser/internal/app"
	"github.com/HackNC/resume-parser/internal/config"
	"github.com/HackNC/resume-parser/internal/handlers"
	"github.com/HackNC/resume-parser/internal/logger"
	"github.com/HackNC/resume-parser/internal/middleware"
	"github.com/HackNC/resume-parser/internal/router"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	// Step 1: Load Configuration
	cfg, cfgErr := config.Load()
	log := logger.New(cfg.LogLevel)
	if cfgErr != nil {
		log.WithError(cfgErr).Fatal("❌ Failed to load config")
	}

	log.WithField("version", Version).Info("🚀 Résumé indexer starting...")
	log.WithFields(logrus.Fields{
		"port":     cfg.Port,
		"gin_mode": cfg.GinMode,
		"search":   cfg.SearchBackend,
		"uploads":  cfg.UploadDir,
	}).Info("📋 Config loaded")

	gin.SetMode(cfg.GinMode)

	// Step 2: Connect to the database and search index, build services
	ctx := context.Background()
	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("❌ Failed to start services")
	}
	defer a.Close()

	// Step 3: Setup HTTP Router
	limiter := middleware.NewRateLimiter(cfg.LoginRateLimit)
	defer limiter.Stop()

	h := handlers.NewHandler(handlers.Deps{
		Accounts:      a.Accounts,
		Candidates:    a.Candidates,
		Archive:       a.Archive,
		Sessions:      middleware.NewSessionStore(cfg.SecretKey, cfg.GinMode == gin.ReleaseMode),
		DB:            a.DB,
		Index:         a.Index,
		JWTSecret:     cfg.JWTSecret,
		MaxUploadSize: cfg.MaxUploadSize,
		Log:           log,
	})
	r := router.Setup(h, router.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		LoginLimiter:   limiter,
		Log:            log,
	})

	// Step 4: Start the HTTP Server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  60 * time.Second, // large PDF uploads
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infof("🌐 Server listening on http://localhost:%s", cfg.Port)
		log.Infof("📖 Health check: http://localhost:%s/api/v1/health", cfg.Port)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("❌ Server failed")
		}
	}()

	// Step 5: Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	log.Infof("🛑 Received signal %v, shutting down gracefully...", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("⚠️  Server forced to shutdown")
	}

	log.Info("👋 Server stopped. Goodbye!")
}
