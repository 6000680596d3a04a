package storage

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/AbdoulayeSG/site-antigravi/internal/config"
	"github.com/AbdoulayeSG/site-antigravi/internal/logging"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(backend string) *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.Backend = backend
	cfg.LocalDSN = "file:open_test_" + backend + "?mode=memory&cache=shared"
	return cfg
}

func TestOpen_Local(t *testing.T) {
	stores, err := Open(context.Background(), testConfig(config.BackendLocal), logging.Nop())
	require.NoError(t, err)
	defer stores.Close()

	assert.Equal(t, NameLocal, stores.Backend.Name())
	require.NotNil(t, stores.KV)
}

func TestOpen_Remote(t *testing.T) {
	orig := openDoc
	t.Cleanup(func() { openDoc = orig })

	openDoc = func(ctx context.Context, dsn string) (*sql.DB, error) {
		db, _, err := sqlmock.New()
		return db, err
	}

	stores, err := Open(context.Background(), testConfig(config.BackendRemote), logging.Nop())
	require.NoError(t, err)
	defer stores.Close()

	assert.Equal(t, NameRemote, stores.Backend.Name())
}

func TestOpen_Errors(t *testing.T) {
	_, err := Open(context.Background(), testConfig("carrier-pigeon"), logging.Nop())
	assert.ErrorContains(t, err, "unknown backend")

	orig := openDoc
	t.Cleanup(func() { openDoc = orig })
	openDoc = func(ctx context.Context, dsn string) (*sql.DB, error) {
		return nil, errors.New("refused")
	}
	_, err = Open(context.Background(), testConfig(config.BackendRemote), logging.Nop())
	assert.ErrorContains(t, err, "refused")
}
