package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/AbdoulayeSG/site-antigravi/internal/common"
	"github.com/AbdoulayeSG/site-antigravi/internal/dbx"
	"github.com/AbdoulayeSG/site-antigravi/internal/docstore/migrations"
	"github.com/AbdoulayeSG/site-antigravi/internal/logging"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// NotifyChannel is the channel the nodes trigger publishes changed paths on.
const NotifyChannel = "nodes_changed"

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded nodes schema.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return gooseUpContext(ctx, db, ".")
}

// Open connects to Postgres through the pgx stdlib driver and migrates.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %w", common.ErrBackendUnavailable, err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate document store: %w", err)
	}
	return db, nil
}

// listenConn is the part of *pgx.Conn used for LISTEN.
type listenConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	WaitForNotification(ctx context.Context) (*pgconn.Notification, error)
	Close(ctx context.Context) error
}

// connectListener is a seam for tests; production opens a dedicated pgx
// connection so LISTEN is not tied to a pooled database/sql connection.
var connectListener = func(ctx context.Context, dsn string) (listenConn, error) {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// PostgresStore keeps every node as a row of the nodes table.
type PostgresStore struct {
	db     dbx.DBTX
	dsn    string
	logger logging.Logger
}

func NewPostgresStore(db dbx.DBTX, dsn string, logger logging.Logger) *PostgresStore {
	return &PostgresStore{db: db, dsn: dsn, logger: logger.With("module", "docstore")}
}

func (s *PostgresStore) Get(ctx context.Context, path string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM nodes WHERE path = $1`, path).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return value, nil
}

func (s *PostgresStore) Children(ctx context.Context, parent string) (map[string][]byte, []string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT path, value FROM nodes WHERE parent = $1 ORDER BY path`, parent)
	if err != nil {
		return nil, nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]byte)
	keys := make([]string, 0)
	for rows.Next() {
		var path string
		var value []byte
		if err := rows.Scan(&path, &value); err != nil {
			return nil, nil, fmt.Errorf("db error: %w", err)
		}
		k := Base(path)
		out[k] = value
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("db error: %w", err)
	}
	return out, keys, nil
}

func (s *PostgresStore) Set(ctx context.Context, path string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO nodes (path, parent, value, updated_at) VALUES ($1, $2, $3, now())
		ON CONFLICT (path) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`, path, Parent(path), string(value))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, path string, fields map[string]any) error {
	patch, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("update %s: %w", path, err)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE nodes SET value = value || $2::jsonb, updated_at = now() WHERE path = $1`,
		path, string(patch))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("update %s: %w", path, common.ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) Push(ctx context.Context, parent string, value []byte) (string, error) {
	key := newPushKey()
	if err := s.Set(ctx, Join(parent, key), value); err != nil {
		return "", err
	}
	return key, nil
}

func (s *PostgresStore) Remove(ctx context.Context, path string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM nodes WHERE path = $1 OR path LIKE $2`,
		path, escapeLike(path)+"/%")
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Listen opens a dedicated connection, issues LISTEN and dispatches every
// notification whose path lies under prefix. The returned stop cancels the
// loop and waits for the connection to close.
func (s *PostgresStore) Listen(ctx context.Context, prefix string, fn func(path string)) (func(), error) {
	conn, err := connectListener(ctx, s.dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrBackendUnavailable, err)
	}
	if _, err := conn.Exec(ctx, "LISTEN "+NotifyChannel); err != nil {
		_ = conn.Close(context.Background())
		return nil, fmt.Errorf("%w: %w", common.ErrBackendUnavailable, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer conn.Close(context.Background())

		for {
			n, err := conn.WaitForNotification(ctx)
			if err != nil {
				if ctx.Err() == nil {
					s.logger.Warn(ctx, "listen stopped", "prefix", prefix, "error", err)
				}
				return
			}
			if under(n.Payload, prefix) {
				fn(n.Payload)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
