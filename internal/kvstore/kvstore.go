// Package kvstore is the flat persistent key/value store behind the local
// backend. Values are opaque JSON blobs; there is no schema versioning.
package kvstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/AbdoulayeSG/site-antigravi/internal/kvstore/migrations"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// Fixed keys used by the marketplace.
const (
	KeyUsers       = "marketplace_users"
	KeyProducts    = "marketplace_products"
	KeyCurrentUser = "marketplace_current_user"
	KeySlides      = "carousel_slides"
)

// Store reads and writes whole values by key. Get returns (nil, nil) when the
// key is absent.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded schema.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return gooseUpContext(ctx, db, ".")
}

// Open opens the SQLite database at dsn and migrates it. The pool is limited
// to one connection so read-modify-write sequences inside a transaction are
// serialised.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate kv store: %w", err)
	}
	return db, nil
}
