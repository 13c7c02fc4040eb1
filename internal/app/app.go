// Package app builds the application's object graph from configuration.
// Both the HTTP server and the admin tool start here, so they always talk
// to the same database, search index and upload directory.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/HackNC/resume-parser/internal/config"
	"github.com/HackNC/resume-parser/internal/database"
	"github.com/HackNC/resume-parser/internal/services/accounts"
	"github.com/HackNC/resume-parser/internal/services/archive"
	"github.com/HackNC/resume-parser/internal/services/candidates"
	"github.com/HackNC/resume-parser/internal/services/importer"
	"github.com/HackNC/resume-parser/internal/services/pdf"
	"github.com/HackNC/resume-parser/internal/services/search"
	"github.com/HackNC/resume-parser/internal/services/uploads"
)

// App holds the long-lived services.
type App struct {
	Config     *config.Config
	Log        logrus.FieldLogger
	DB         *database.DB
	Index      search.Index
	Files      *uploads.Store
	Accounts   *accounts.Service
	Candidates *candidates.Service
	Importer   *importer.Importer
	Archive    *archive.Builder
}

// New connects to the database (running migrations), opens the search
// index and wires the services.
func New(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*App, error) {
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	log.Info("✅ Database connected")

	if err := db.RunMigrations(log); err != nil {
		db.Close()
		return nil, err
	}

	index, err := OpenIndex(ctx, cfg)
	if err != nil {
		db.Close()
		return nil, err
	}
	log.WithField("backend", cfg.SearchBackend).Info("✅ Search index ready")

	files, err := uploads.NewStore(cfg.UploadDir)
	if err != nil {
		index.Close()
		db.Close()
		return nil, err
	}

	extractor := pdf.New(cfg.TikaURL)
	if cfg.TikaURL != "" {
		log.WithField("url", cfg.TikaURL).Info("✅ PDF extraction via Apache Tika")
	} else {
		log.Info("📄 PDF extraction via built-in parser (set TIKA_URL to use Apache Tika)")
	}

	return Wire(cfg, log, db, index, files, extractor), nil
}

// Wire assembles the services around already opened stores.
func Wire(cfg *config.Config, log logrus.FieldLogger, db *database.DB, index search.Index, files *uploads.Store, extractor pdf.Extractor) *App {
	cands := candidates.New(db, index, extractor, files, log)
	return &App{
		Config:     cfg,
		Log:        log,
		DB:         db,
		Index:      index,
		Files:      files,
		Accounts:   accounts.New(db),
		Candidates: cands,
		Importer:   importer.New(cands, files, log),
		Archive:    archive.NewBuilder(files.Dir(), log),
	}
}

// OpenIndex connects to the configured search backend and makes sure the
// index exists.
func OpenIndex(ctx context.Context, cfg *config.Config) (search.Index, error) {
	var (
		index search.Index
		err   error
	)
	switch cfg.SearchBackend {
	case config.SearchBackendBleve:
		index, err = search.OpenBleve(cfg.BlevePath, cfg.SearchPageSize)
	case config.SearchBackendElasticsearch:
		index, err = search.NewElastic(cfg.ElasticsearchURL, cfg.SearchIndex, cfg.SearchPageSize)
	default:
		err = fmt.Errorf("unknown search backend %q", cfg.SearchBackend)
	}
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := index.EnsureIndex(ctx); err != nil {
		index.Close()
		return nil, fmt.Errorf("failed to prepare search index: %w", err)
	}
	return index, nil
}

// Close releases the index and the database connection.
func (a *App) Close() error {
	indexErr := a.Index.Close()
	dbErr := a.DB.Close()
	if indexErr != nil {
		return indexErr
	}
	return dbErr
}
