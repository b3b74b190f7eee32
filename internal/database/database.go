// Package database centralises sqlx connection helpers.  The driver is
// go-sql-driver/mysql, which also works with MariaDB.
//
// Public entry points:
//
//	OpenWithOptions(ctx, dsn, opts) – open, tune, and ping with retries.
//	NewPool(dsn, opts)              – lazy process-wide handle.
//
// The Pool defers the real connect until the first query so the HTTP server
// can boot without a database.  A missing DSN or a failed connect surfaces
// as ErrUnavailable, which handlers map to 503.
package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// ErrUnavailable is returned when no DSN is configured or the server cannot
// be reached.
var ErrUnavailable = errors.New("database unavailable")

// Options tunes one connection pool.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	Retries         int
	RetryBackoff    time.Duration
}

// DefaultOptions returns 15 max open, 5 idle, a 30-minute lifetime, and two
// ping retries half a second apart.
func DefaultOptions() Options {
	return Options{
		MaxOpenConns:    15,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
		Retries:         2,
		RetryBackoff:    500 * time.Millisecond,
	}
}

// OpenWithOptions opens a *sqlx.DB, applies opts, and pings it.  The ping is
// retried opts.Retries times before giving up.
func OpenWithOptions(ctx context.Context, dsn string, opts Options) (*sqlx.DB, error) {
	db, err := sqlx.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxIdleConns)
	db.SetConnMaxLifetime(opts.ConnMaxLifetime)

	for attempt := 0; ; attempt++ {
		err = db.PingContext(ctx)
		if err == nil {
			return db, nil
		}
		if attempt >= opts.Retries {
			break
		}
		select {
		case <-ctx.Done():
			_ = db.Close()
			return nil, ctx.Err()
		case <-time.After(opts.RetryBackoff):
		}
	}
	_ = db.Close()
	return nil, err
}

/*──────────────────────────── lazy pool ────────────────────────────────────*/

// Pool owns the process-wide *sqlx.DB.  It connects on first use and keeps
// retrying on later calls until a connect succeeds.  Safe for concurrent use.
type Pool struct {
	dsn  string
	opts Options

	mu sync.Mutex
	db *sqlx.DB
}

// NewPool returns a Pool that will dial dsn on first use.  An empty dsn is
// allowed; every call then fails with ErrUnavailable.
func NewPool(dsn string, opts Options) *Pool {
	return &Pool{dsn: dsn, opts: opts}
}

// NewPoolFromDB wraps an already-open handle (tests, CLI tools).
func NewPoolFromDB(db *sqlx.DB) *Pool {
	return &Pool{db: db}
}

// DB returns the live handle, connecting if needed.
func (p *Pool) DB(ctx context.Context) (*sqlx.DB, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.db != nil {
		return p.db, nil
	}
	if p.dsn == "" {
		return nil, fmt.Errorf("%w: no DSN configured", ErrUnavailable)
	}

	db, err := OpenWithOptions(ctx, p.dsn, p.opts)
	if err != nil {
		zap.L().Error("database connect failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	zap.L().Info("database online",
		zap.Int("max_open", p.opts.MaxOpenConns),
		zap.Int("max_idle", p.opts.MaxIdleConns))
	p.db = db
	return db, nil
}

// Ping reports whether the database answers.  Used by /healthz.
func (p *Pool) Ping(ctx context.Context) error {
	db, err := p.DB(ctx)
	if err != nil {
		return err
	}
	return db.PingContext(ctx)
}

// Close releases the handle if one was opened.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.db == nil {
		return nil
	}
	err := p.db.Close()
	p.db = nil
	return err
}
