// internal/config/loader.go
//
// Configuration loader.
//
/*
Context
--------
`Load()` builds one immutable `Config` from four layers (highest
precedence last):

  1. Defaults() compiled into the binary.
  2. `conf/app.yaml` when present.
  3. Optional `conf/.env`, then `.env` in the working directory.
  4. Environment variables prefixed `AGROCMS_`, where `__` maps to "."
     (e.g., `AGROCMS_HTTP__LISTEN_ADDR → http.listen_addr`).  The
     platform conventions `PORT`, `APP_ENV`, and `DATABASE_URL` are
     honoured when their AGROCMS_ counterparts are unset.

After merging, the tree is unmarshalled over Defaults(), `vault:` values
are resolved, the struct is validated, and the result is cached in an
`atomic.Pointer` for lock-free reads.

Instrumentation
---------------
  • DEBUG spans for root discovery and each layer.
  • ERROR spans for parse, unmarshal, vault, and validation failures.
  • INFO span "config loaded" with key highlights.
  • Logs use the global sugared logger (`zap.S()`), because the file
    logger is built from the loaded config.
*/
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"

	"github.com/yanizio/agrocms/internal/vault"
)

const envPrefix = "AGROCMS_"

var current atomic.Pointer[Config]

/*──────────────────────────── root discovery ───────────────────────────────*/

// RootDir resolves AGROCMS_ROOT or climbs directories until conf/app.yaml
// is found.  Falls back to the bin/ layout, then the working directory.
func RootDir() string {
	if r := os.Getenv("AGROCMS_ROOT"); r != "" {
		return r
	}

	wd, _ := os.Getwd()
	dir := wd
	for {
		if _, err := os.Stat(filepath.Join(dir, "conf", "app.yaml")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	exe, _ := os.Executable()
	if filepath.Base(filepath.Dir(exe)) == "bin" {
		return filepath.Dir(filepath.Dir(exe))
	}
	return wd
}

/*─────────────────────────────── loader ───────────────────────────────────*/

// Load reads every layer, resolves secrets, validates, and caches Config.
func Load(ctx context.Context) (*Config, error) {
	root := RootDir()
	zap.S().Debugw("config root resolved", "root", root)

	_ = godotenv.Load(filepath.Join(root, "conf", ".env"))
	_ = godotenv.Load()

	k := koanf.New(".")

	yamlPath := filepath.Join(root, "conf", "app.yaml")
	if _, err := os.Stat(yamlPath); err == nil {
		if err := k.Load(file.Provider(yamlPath), yaml.Parser()); err != nil {
			zap.S().Errorw("config yaml load failed", "file", yamlPath, "err", err)
			return nil, fmt.Errorf("load %s: %w", yamlPath, err)
		}
		zap.S().Debugw("config yaml loaded", "file", yamlPath)
	}

	applyPlatformEnv()
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.ReplaceAll(strings.TrimPrefix(s, envPrefix), "__", "."))
	}), nil); err != nil {
		zap.S().Errorw("config env overlay failed", "err", err)
		return nil, err
	}

	cfg := Defaults()
	if err := k.Unmarshal("", &cfg); err != nil {
		zap.S().Errorw("config unmarshal failed", "err", err)
		return nil, err
	}
	cfg.Paths.Root = root

	if err := resolveSecrets(ctx, &cfg); err != nil {
		zap.S().Errorw("config vault resolve failed", "err", err)
		return nil, err
	}

	if cfg.Session.Secret == "" && cfg.IsDevelopment() {
		cfg.Session.Secret = devSessionSecret
		zap.S().Warnw("session.secret unset, using development secret")
	}

	if err := validateStruct(&cfg); err != nil {
		zap.S().Errorw("config validation failed", "err", err)
		return nil, err
	}

	if cfg.Database.DSN == "" {
		zap.S().Warnw("database.dsn is not set; DB-backed routes will answer 503")
	}

	current.Store(&cfg)
	zap.S().Infow("config loaded",
		"env", cfg.App.Env,
		"listen_addr", cfg.HTTP.ListenAddr,
		"force_https", cfg.HTTP.ForceHTTPS,
		"root", cfg.Paths.Root,
	)
	return &cfg, nil
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

// devSessionSecret is only ever used with app.env=development.
const devSessionSecret = "development-only-session-secret-change-me"

// Get returns the last successfully loaded Config, or nil.
func Get() *Config { return current.Load() }

// applyPlatformEnv maps PORT, APP_ENV, and DATABASE_URL onto their
// AGROCMS_ names when those are unset.
func applyPlatformEnv() {
	alias := map[string]func(string) string{
		"PORT":         func(v string) string { return ":" + v },
		"APP_ENV":      func(v string) string { return v },
		"DATABASE_URL": func(v string) string { return v },
	}
	target := map[string]string{
		"PORT":         envPrefix + "HTTP__LISTEN_ADDR",
		"APP_ENV":      envPrefix + "APP__ENV",
		"DATABASE_URL": envPrefix + "DATABASE__DSN",
	}
	for src, conv := range alias {
		v := os.Getenv(src)
		if v == "" || os.Getenv(target[src]) != "" {
			continue
		}
		_ = os.Setenv(target[src], conv(v))
	}
}

// resolveSecrets replaces `vault:<mount>/<path>#<key>` values.  The Vault
// client is only built when at least one field needs it.
func resolveSecrets(ctx context.Context, cfg *Config) error {
	fields := []*string{&cfg.Database.DSN, &cfg.Session.Secret}

	var need bool
	for _, f := range fields {
		if vault.IsRef(*f) {
			need = true
			break
		}
	}
	if !need {
		return nil
	}

	cli, err := vault.New(ctx)
	if err != nil {
		return err
	}
	for _, f := range fields {
		if !vault.IsRef(*f) {
			continue
		}
		val, err := cli.Resolve(ctx, *f, 10*time.Minute)
		if err != nil {
			return err
		}
		if val == "" {
			return errors.New("vault returned empty secret for " + *f)
		}
		*f = val
	}
	return nil
}
