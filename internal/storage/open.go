package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/AbdoulayeSG/site-antigravi/internal/config"
	"github.com/AbdoulayeSG/site-antigravi/internal/docstore"
	"github.com/AbdoulayeSG/site-antigravi/internal/kvstore"
	"github.com/AbdoulayeSG/site-antigravi/internal/logging"
)

// Stores is what Open hands to the rest of the application: the selected
// Backend plus the local kv store, which holds the session pointer and the
// carousel slides in both modes.
type Stores struct {
	Backend Backend
	KV      kvstore.Store

	dbs []*sql.DB
}

// Close releases every database handle opened by Open.
func (s *Stores) Close() error {
	var errs []error
	for _, db := range s.dbs {
		errs = append(errs, db.Close())
	}
	return errors.Join(errs...)
}

// seams for tests
var (
	openKV  = kvstore.Open
	openDoc = docstore.Open
)

// Open selects the backend variant named by cfg.Backend once, at startup.
func Open(ctx context.Context, cfg *config.Config, logger logging.Logger) (*Stores, error) {
	kvDB, err := openKV(ctx, cfg.LocalDSN)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}
	stores := &Stores{KV: kvstore.NewSQLiteRepository(kvDB), dbs: []*sql.DB{kvDB}}

	switch cfg.Backend {
	case config.BackendLocal, "":
		stores.Backend = NewLocal(kvDB, logger)
	case config.BackendRemote:
		docDB, err := openDoc(ctx, cfg.RemoteDSN)
		if err != nil {
			_ = stores.Close()
			return nil, fmt.Errorf("open remote store: %w", err)
		}
		stores.dbs = append(stores.dbs, docDB)
		stores.Backend = NewRemote(docstore.NewPostgresStore(docDB, cfg.RemoteDSN, logger), logger)
	default:
		_ = stores.Close()
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}

	logger.Info(ctx, "storage opened", "backend", stores.Backend.Name())
	return stores, nil
}
