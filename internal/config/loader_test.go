package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConf(t *testing.T, body string) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "conf"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "conf", "app.yaml"), []byte(body), 0o644))
	t.Setenv("AGROCMS_ROOT", root)
	return root
}

func TestLoad_YAMLAndEnvOverlay(t *testing.T) {
	root := writeConf(t, `
app:
  env: staging
http:
  listen_addr: ":9000"
session:
  secret: "0123456789abcdef0123456789abcdef"
  ttl: 2h
uploads:
  dir: /srv/uploads
`)
	t.Setenv("AGROCMS_HTTP__FORCE_HTTPS", "true")
	t.Setenv("AGROCMS_DATABASE__DSN", "u:p@tcp(db:3306)/agro?parseTime=true")

	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.App.Env)
	assert.Equal(t, ":9000", cfg.HTTP.ListenAddr)
	assert.True(t, cfg.HTTP.ForceHTTPS)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "/srv/uploads", cfg.Uploads.Dir)
	assert.Equal(t, "u:p@tcp(db:3306)/agro?parseTime=true", cfg.Database.DSN)
	assert.Equal(t, root, cfg.Paths.Root)
	// untouched defaults survive
	assert.Equal(t, "agro_session", cfg.Session.CookieName)
	assert.Same(t, cfg, Get())
}

func TestLoad_PlatformAliases(t *testing.T) {
	writeConf(t, `
session:
  secret: "0123456789abcdef0123456789abcdef"
`)
	t.Setenv("PORT", "3000")
	t.Setenv("APP_ENV", "development")
	t.Setenv("AGROCMS_HTTP__LISTEN_ADDR", "")
	t.Setenv("AGROCMS_APP__ENV", "")

	cfg, err := Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ":3000", cfg.HTTP.ListenAddr)
	assert.True(t, cfg.IsDevelopment())
	assert.Empty(t, cfg.Database.DSN, "a missing DSN is not fatal")
}

func TestLoad_RejectsShortSecret(t *testing.T) {
	writeConf(t, `
session:
  secret: "short"
`)
	_, err := Load(context.Background())
	require.Error(t, err)
}

func TestLoad_ProductionRejectsDevSettings(t *testing.T) {
	writeConf(t, `
app:
  env: production
session:
  secret: "`+devSessionSecret+`"
view:
  watch: true
`)
	_, err := Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Config.Session.Secret")
	assert.Contains(t, err.Error(), "Config.View.Watch")
}
