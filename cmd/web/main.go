// cmd/web/main.go
//
// AgroCMS – HTTP entry point.
//
// Start-up
// --------
//
//  1. Load configuration (defaults → conf/app.yaml → .env → AGROCMS_ env,
//     vault: references resolved).
//
//  2. Start the daily rotating logger (tees to console when running in a
//     TTY).
//
//  3. Build shared services: DB pool (lazy), cache store, content service,
//     theme and view engine, forms, uploads, sessions, outbox.
//
//  4. Register components and mount their public and admin routes.
//
//  5. Wrap everything in the middleware chain and serve until SIGINT or
//     SIGTERM, then shut down gracefully.
//
// If any start-up step fails, the error goes to startup-error.log and the
// listen address answers every request with a static 503 page, so a broken
// deploy is visible without shell access.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/yanizio/agrocms/components/admin"
	"github.com/yanizio/agrocms/components/auth"
	"github.com/yanizio/agrocms/components/blog"
	"github.com/yanizio/agrocms/components/careers"
	"github.com/yanizio/agrocms/components/catalog"
	"github.com/yanizio/agrocms/components/company"
	"github.com/yanizio/agrocms/components/contact"
	"github.com/yanizio/agrocms/components/gallery"
	"github.com/yanizio/agrocms/components/home"
	"github.com/yanizio/agrocms/components/pages"
	"github.com/yanizio/agrocms/components/uploads"
	"github.com/yanizio/agrocms/internal/api"
	authn "github.com/yanizio/agrocms/internal/auth"
	"github.com/yanizio/agrocms/internal/cache"
	"github.com/yanizio/agrocms/internal/component"
	"github.com/yanizio/agrocms/internal/config"
	"github.com/yanizio/agrocms/internal/content"
	"github.com/yanizio/agrocms/internal/database"
	"github.com/yanizio/agrocms/internal/form"
	"github.com/yanizio/agrocms/internal/i18n"
	"github.com/yanizio/agrocms/internal/logger"
	"github.com/yanizio/agrocms/internal/message"
	"github.com/yanizio/agrocms/internal/middleware"
	"github.com/yanizio/agrocms/internal/requestinfo"
	"github.com/yanizio/agrocms/internal/routing"
	"github.com/yanizio/agrocms/internal/server"
	"github.com/yanizio/agrocms/internal/session"
	"github.com/yanizio/agrocms/internal/site"
	"github.com/yanizio/agrocms/internal/theme"
	"github.com/yanizio/agrocms/internal/upload"
	"github.com/yanizio/agrocms/internal/view"
	"github.com/yanizio/agrocms/internal/widget"
)

const (
	startupLog   = "startup-error.log"
	fallbackAddr = ":8080"
	outboxSize   = 256
)

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := build(ctx)
	if err != nil {
		serveStartupError(ctx, err)
		return
	}
	defer a.close()

	a.start(ctx)
	a.log.Infow("listening", "addr", a.cfg.HTTP.ListenAddr)
	if err := server.Run(ctx, server.New(a.cfg.HTTP.ListenAddr, a.handler)); err != nil {
		a.log.Errorw("http server", "err", err)
	}
	a.log.Info("shutdown complete")
}

/*──────────────────────────── wiring ───────────────────────────────────*/

// app is everything main owns after a successful start.
type app struct {
	cfg     *config.Config
	log     *zap.SugaredLogger
	pool    *database.Pool
	geo     *requestinfo.GeoDB
	store   *cache.Store
	outbox  *message.Outbox
	views   *view.Engine
	handler http.Handler
}

func build(ctx context.Context) (*app, error) {
	root := config.RootDir()

	//
	// ── 1.  Config and logger ───────────────────────────────────────────
	//
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	log, err := logger.New(logger.Options{RootDir: root, Tee: runningInTTY(), Level: cfg.Log.Level})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	//
	// ── 2.  Storage and shared services ─────────────────────────────────
	//
	dbOpts := database.DefaultOptions()
	dbOpts.MaxOpenConns = cfg.Database.MaxOpen
	dbOpts.MaxIdleConns = cfg.Database.MaxIdle
	pool := database.NewPool(cfg.Database.DSN, dbOpts)

	store := cache.New()
	svc := content.NewService(pool, store)

	th, err := (&theme.Manager{BaseDir: abs(root, cfg.View.Dir)}).Load(cfg.View.Theme)
	if err != nil {
		return nil, fmt.Errorf("theme: %w", err)
	}
	widgets := widget.NewRegistry()
	views := view.New(view.Options{Theme: th, Widgets: widgets, Pages: store, PageTTL: cfg.View.PageTTL})

	geo, err := requestinfo.OpenGeo(cfg.GeoIP.Path)
	if err != nil {
		// GeoIP only enriches; run without it.
		log.Warnw("geoip disabled", "err", err)
		geo = nil
	}

	outbox := message.NewOutbox(message.LogSender{L: log.Desugar()}, outboxSize, cfg.Mail.From)
	forms := form.NewEngine([]byte(cfg.Session.Secret), outbox, cfg.Mail.Notify)
	forms.MaxUpload = cfg.Uploads.MaxBytes
	if err := forms.LoadDir(root); err != nil {
		return nil, fmt.Errorf("forms: %w", err)
	}

	sessions, err := session.NewManager(session.Options{
		Secret:     cfg.Session.Secret,
		TTL:        cfg.Session.TTL,
		CookieName: cfg.Session.CookieName,
		Secure:     cfg.HTTP.ForceHTTPS,
	})
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	admins := authn.NewStore(pool)

	d := &component.Deps{
		Config:   cfg,
		Log:      log,
		Pool:     pool,
		Cache:    store,
		Content:  svc,
		View:     views,
		Site:     site.NewFactory(svc, th, siteName(cfg), cfg.App.BaseURL),
		Forms:    forms,
		Widgets:  widgets,
		Uploads:  upload.New(abs(root, cfg.Uploads.Dir), cfg.Uploads.MaxBytes),
		Sessions: sessions,
		Auth:     authn.NewAuthenticator(admins),
		Admins:   admins,
		Outbox:   outbox,
	}

	//
	// ── 3.  Components ──────────────────────────────────────────────────
	//
	reg := component.NewRegistry()
	reg.Register(
		home.New(d),
		catalog.New(d),
		blog.New(d),
		pages.New(d),
		careers.New(d),
		contact.New(d),
		gallery.New(d),
		company.New(d),
		uploads.New(d),
		auth.New(d),
		admin.New(d),
	)
	forms.RegisterWidgets(widgets)

	a := &app{cfg: cfg, log: log, pool: pool, geo: geo, store: store, outbox: outbox, views: views}
	a.handler = a.router(reg, d, th)
	return a, nil
}

// router builds the middleware chain and the route tree.
func (a *app) router(reg *component.Registry, d *component.Deps, th *theme.Theme) http.Handler {
	aliases := routing.NewAliasCache(a.pool, a.cfg.Routing.AliasTTL)

	r := chi.NewRouter()
	r.Use(
		chimw.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.ForceHTTPS(a.cfg.HTTP.ForceHTTPS),
		middleware.Security(a.cfg.HTTP.ForceHTTPS),
		middleware.AccessLog(a.log),
		requestinfo.Enrich(a.geo),
		i18n.Middleware,
		d.Sessions.Middleware,
		routing.Middleware(aliases, a.cfg.Routing.Mode),
	)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", a.healthz)
	r.Handle("/assets/*", http.StripPrefix("/assets/", th.AssetHandler()))

	admin.Mount(r, reg)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		d.View.Error(w, d.Site.New(r), content.ErrNotFound)
	})
	return r
}

// start launches the background workers; they stop with ctx.
func (a *app) start(ctx context.Context) {
	go a.outbox.Run(ctx)
	go a.store.RunJanitor(ctx, a.cfg.Cache.JanitorInterval)
	if a.cfg.View.Watch {
		go func() {
			if err := a.views.Watch(ctx); err != nil {
				a.log.Warnw("template watcher disabled", "err", err)
			}
		}()
	}
}

func (a *app) close() {
	if err := a.pool.Close(); err != nil {
		a.log.Warnw("database close", "err", err)
	}
	if err := a.geo.Close(); err != nil {
		a.log.Warnw("geoip close", "err", err)
	}
	_ = a.log.Sync()
}

// healthz reports liveness plus a DB ping.
func (a *app) healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	w.Header().Set("Cache-Control", "no-store")
	if err := a.pool.Ping(ctx); err != nil {
		logger.FromContext(r.Context()).Warnw("healthz: database ping failed", "err", err)
		api.Fail(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	api.WriteJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func siteName(cfg *config.Config) string {
	if cfg.App.Name != "" {
		return cfg.App.Name
	}
	return "AgroCMS"
}

// abs resolves p against root unless it is already absolute.
func abs(root, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

/*──────────────────────────── start-up failure ─────────────────────────*/

const unavailablePage = `<!doctype html>
<html lang="en"><head><meta charset="utf-8"><title>Service unavailable</title></head>
<body><h1>Service unavailable</h1><p>The site is temporarily unavailable. Please try again later.</p>
<p dir="rtl" lang="ar">الموقع غير متاح مؤقتًا. يرجى المحاولة لاحقًا.</p></body></html>`

// serveStartupError records err and answers 503 until ctx is done.
func serveStartupError(ctx context.Context, err error) {
	root := config.RootDir()
	line := fmt.Sprintf("%s start-up failed: %v\n", time.Now().Format(time.RFC3339), err)
	if f, ferr := os.OpenFile(filepath.Join(root, startupLog), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); ferr == nil {
		_, _ = f.WriteString(line)
		_ = f.Close()
	}
	fmt.Fprint(os.Stderr, line)

	addr := fallbackAddr
	if cfg := config.Get(); cfg != nil {
		addr = cfg.HTTP.ListenAddr
	} else if p := os.Getenv("PORT"); p != "" {
		addr = ":" + p
	}

	h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Retry-After", "60")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(unavailablePage))
	})
	if serr := server.Run(ctx, server.New(addr, h)); serr != nil && !errors.Is(serr, http.ErrServerClosed) {
		fmt.Fprintf(os.Stderr, "fallback server: %v\n", serr)
	}
}
