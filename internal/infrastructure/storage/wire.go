package storage

import (
	"context"
	"fmt"

	domainPlanner "github.com/focusplanner/backend/internal/domain/planner"
	"github.com/focusplanner/backend/internal/infrastructure/config"
	"github.com/focusplanner/backend/internal/infrastructure/log"
	"github.com/google/wire"
)

// ProviderSet Storage 基础设施层 ProviderSet
var ProviderSet = wire.NewSet(
	ProvideStore, // 按配置选择存储后端
)

// ProvideStore 按配置创建存储后端，返回的 cleanup 会关闭存储
func ProvideStore(cfg *config.StorageConfig) (domainPlanner.Store, func(), error) {
	store, err := OpenStore(context.Background(), cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := store.Close(); err != nil {
			log.NewModuleLogger("storage", "provider").Warn("Failed to close store", "error", err)
		}
	}
	return store, cleanup, nil
}

// OpenStore 按配置打开存储后端
func OpenStore(ctx context.Context, cfg *config.StorageConfig) (domainPlanner.Store, error) {
	logger := log.NewModuleLogger("storage", "provider")

	switch cfg.Backend {
	case config.BackendRelational:
		db, err := OpenDB(&cfg.Database)
		if err != nil {
			return nil, err
		}
		store, err := NewSQLStore(ctx, db, cfg.Database.Driver)
		if err != nil {
			db.Close()
			return nil, err
		}
		logger.Info("Relational store ready", "driver", cfg.Database.Driver)
		return store, nil

	case config.BackendFile:
		path := cfg.File.SnapshotPath()
		store, err := NewFileStore(path)
		if err != nil {
			return nil, err
		}
		logger.Info("File store ready", "path", path)
		return store, nil

	case config.BackendDocument:
		if cfg.CouchDB.UsesDefaultCredentials() {
			logger.Warn("Document store is using the built-in development credentials",
				"url", cfg.CouchDB.URL,
			)
		}
		store, err := NewDocumentStore(ctx, &cfg.CouchDB)
		if err != nil {
			return nil, err
		}
		logger.Info("Document store ready", "url", cfg.CouchDB.URL, "database", cfg.CouchDB.Database)
		return store, nil
	}

	return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
}
