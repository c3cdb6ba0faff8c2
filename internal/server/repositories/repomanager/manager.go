// Package repomanager selects and owns the storage backend and vends the
// repositories built on it.
package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/supportdesk/internal/logging"
	"github.com/dmitrijs2005/supportdesk/internal/server/config"
	"github.com/dmitrijs2005/supportdesk/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/supportdesk/internal/server/repositories/documents"
)

type RepositoryManager interface {
	Accounts() accounts.Repository
	Documents() documents.Repository
	// Migrate prepares the schema (tables, indexes) for the backend.
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Open connects to the backend named by cfg.StorageDriver and migrates it.
func Open(ctx context.Context, cfg *config.Config, logger logging.Logger) (RepositoryManager, error) {
	var (
		m   RepositoryManager
		err error
	)

	switch cfg.StorageDriver {
	case config.DriverPostgres:
		m, err = OpenPostgres(ctx, cfg.DatabaseDSN)
	case config.DriverMongo:
		m, err = OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	case config.DriverMemory:
		logger.Warn(ctx, "using in-memory storage, data will not survive a restart")
		m = NewMemoryRepositoryManager()
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
	if err != nil {
		return nil, fmt.Errorf("%s init error: %w", cfg.StorageDriver, err)
	}

	if err := m.Migrate(ctx); err != nil {
		_ = m.Close(ctx)
		return nil, fmt.Errorf("%s migration error: %w", cfg.StorageDriver, err)
	}

	logger.Info(ctx, "storage ready", "driver", cfg.StorageDriver)
	return m, nil
}
