// Package app wires configuration, logging, storage and the catalog together
// for the command line entry points.
package app

import (
	"errors"
	"fmt"

	"github.com/meur/modcatalog/internal/catalog"
	"github.com/meur/modcatalog/internal/config"
	"github.com/meur/modcatalog/internal/logging"
	"github.com/meur/modcatalog/internal/storage"
	"github.com/meur/modcatalog/internal/upload"
	"go.uber.org/zap"
)

// App holds the long-lived dependencies of a command
type App struct {
	Config *config.Config
	Logger *zap.Logger
	DB     *storage.Store
	Store  *catalog.Store
	Upload *upload.Client
}

// Open loads config, opens the database and loads the catalog.
// A malformed persisted catalog is logged and served from defaults.
func Open(configPath string) (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, err
	}

	db, err := storage.New(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Sync()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	store := catalog.New(db, cfg.Storage.StateKey, logger.Named("catalog"))
	mods, err := store.Load()
	if err != nil && !errors.Is(err, catalog.ErrCorruptState) {
		db.Close()
		logger.Sync()
		return nil, err
	}
	logger.Debug("Catalog loaded", zap.Int("mods", len(mods)), zap.String("db", cfg.Storage.DatabasePath))

	return &App{
		Config: cfg,
		Logger: logger,
		DB:     db,
		Store:  store,
		Upload: upload.NewClient(cfg.Upload.EndpointURL, cfg.GetUploadTimeout()),
	}, nil
}

// Attacher builds the admin attach flow from config
func (a *App) Attacher() *upload.Attacher {
	return upload.NewAttacher(a.Upload, a.Store, upload.Options{
		AdminModID:   a.Config.Upload.AdminModID,
		MaxFileBytes: a.Config.Upload.MaxFileBytes,
		Timeout:      a.Config.GetUploadTimeout(),
	}, a.Logger.Named("upload"))
}

// Close releases the database and flushes logs
func (a *App) Close() error {
	a.Upload.Close()
	err := a.DB.Close()
	_ = a.Logger.Sync()
	return err
}
