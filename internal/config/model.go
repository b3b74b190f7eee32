// internal/config/model.go
//
// Typed configuration model.
//
// Context
// -------
// These structs define the tree that `loader.go` builds from, in order of
// precedence (lowest first):
//
//   • Defaults()                       – compiled-in values,
//   • `conf/app.yaml`                  – primary static file,
//   • optional `.env`                  – dotenv values,
//   • `AGROCMS_`-prefixed environment  – highest precedence.
//
// Any string beginning with `vault:` is resolved through Vault after
// unmarshalling, so the model only ever holds plain secrets.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`; Koanf ignores `yaml` tags.
//   • `Database.DSN` is optional.  Without it the server still boots and
//     DB-backed routes answer 503.
//   • The `Paths` block is filled at runtime.
package config

import "time"

// App holds deployment-level switches.
type App struct {
	Env     string `koanf:"env"      validate:"oneof=development staging production"`
	BaseURL string `koanf:"base_url" validate:"omitempty,url"`
	Name    string `koanf:"name"`
}

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr string `koanf:"listen_addr" validate:"required,hostname_port"`
	ForceHTTPS bool   `koanf:"force_https"`
}

// Database holds the connection string and pool sizes.
type Database struct {
	DSN     string `koanf:"dsn"`
	MaxOpen int    `koanf:"max_open" validate:"gte=1"`
	MaxIdle int    `koanf:"max_idle" validate:"gte=0"`
}

// Session configures the admin session token.
type Session struct {
	Secret     string        `koanf:"secret"      validate:"required,min=32"`
	TTL        time.Duration `koanf:"ttl"         validate:"gt=0"`
	CookieName string        `koanf:"cookie_name" validate:"required"`
}

// Uploads configures the public upload directory.
type Uploads struct {
	Dir      string `koanf:"dir"       validate:"required"`
	MaxBytes int64  `koanf:"max_bytes" validate:"gt=0"`
}

// View configures template lookup.
type View struct {
	Theme   string        `koanf:"theme"    validate:"required"`
	Dir     string        `koanf:"dir"      validate:"required"` // parent of theme directories
	Watch   bool          `koanf:"watch"`                        // purge template cache on file change
	PageTTL time.Duration `koanf:"page_ttl" validate:"gt=0"`
}

// GeoIP points at an optional GeoLite2-City database.
type GeoIP struct {
	Path string `koanf:"path"`
}

// Mail configures outbound notifications.
type Mail struct {
	From   string   `koanf:"from"   validate:"omitempty,email"`
	Notify []string `koanf:"notify" validate:"dive,email"`
}

// Cache tunes the content cache janitor.
type Cache struct {
	JanitorInterval time.Duration `koanf:"janitor_interval" validate:"gt=0"`
}

// Routing configures the alias-rewrite middleware.
type Routing struct {
	Mode     string        `koanf:"mode"      validate:"oneof=absolute alias both"`
	AliasTTL time.Duration `koanf:"alias_ttl" validate:"gt=0"`
}

// Paths is resolved at runtime, never read from config files.
type Paths struct {
	Root string // AGROCMS_ROOT or discovered parent
}

// Config is the immutable aggregate returned by Load().
type Config struct {
	App      App      `koanf:"app"`
	HTTP     HTTP     `koanf:"http"`
	Database Database `koanf:"database"`
	Session  Session  `koanf:"session"`
	Uploads  Uploads  `koanf:"uploads"`
	View     View     `koanf:"view"`
	GeoIP    GeoIP    `koanf:"geoip"`
	Mail     Mail     `koanf:"mail"`
	Cache    Cache    `koanf:"cache"`
	Routing  Routing  `koanf:"routing"`
	Log      Log      `koanf:"log"`
	Paths    Paths    `koanf:"-"`
}

// Log selects the logger level.
type Log struct {
	Level string `koanf:"level" validate:"omitempty,oneof=debug info warn error"`
}

// Defaults returns the compiled-in baseline.  Session.Secret has no default
// on purpose; production must set it.
func Defaults() Config {
	return Config{
		App:      App{Env: "production", Name: "agrocms"},
		HTTP:     HTTP{ListenAddr: ":8080"},
		Database: Database{MaxOpen: 15, MaxIdle: 5},
		Session:  Session{TTL: 12 * time.Hour, CookieName: "agro_session"},
		Uploads:  Uploads{Dir: "public/uploads", MaxBytes: 10 << 20},
		View:     View{Theme: "default", Dir: "themes", PageTTL: 10 * time.Minute},
		Cache:    Cache{JanitorInterval: 5 * time.Minute},
		Routing:  Routing{Mode: "both", AliasTTL: 10 * time.Minute},
		Log:      Log{Level: "info"},
	}
}

// IsDevelopment reports App.Env == "development".
func (c *Config) IsDevelopment() bool { return c.App.Env == "development" }
