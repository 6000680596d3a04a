package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJson(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf.json")
	body := `{
		"backend": "remote",
		"remote_dsn": "postgres://db/market",
		"carousel_interval": "3s",
		"admin_token_validity": 60000000000,
		"s3_bucket": "pics"
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, []string{"--config=" + path})

	assert.Equal(t, BackendRemote, cfg.Backend)
	assert.Equal(t, "postgres://db/market", cfg.RemoteDSN)
	assert.Equal(t, 3*time.Second, cfg.CarouselInterval)
	assert.Equal(t, time.Minute, cfg.AdminTokenValidity)
	assert.Equal(t, "pics", cfg.S3Bucket)
	// untouched
	assert.Equal(t, "admin@yombleh.com", cfg.AdminEmail)
}

func TestParseJson_NoPath(t *testing.T) {
	cfg := &Config{Backend: "local"}
	require.NotPanics(t, func() { parseJson(cfg, []string{"-b", "remote"}) })
	assert.Equal(t, "local", cfg.Backend)
}

func TestParseJson_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{nope"), 0o600))

	require.Panics(t, func() { parseJson(&Config{}, []string{"-c", bad}) })
	require.Panics(t, func() { parseJson(&Config{}, []string{"-c", filepath.Join(dir, "missing.json")}) })
}
