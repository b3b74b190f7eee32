// internal/content/content.go
//
// Content service: repositories, cached public accessors, and admin
// mutations for every content type.
//
// Context
// -------
// Components never touch SQL.  They call Service methods, which read through
// cache.Fetch with a fixed key, TTL, and content tag, and write through one
// business check, one write, and one Invalidate call.
//
// Workflow
// --------
//   read:   Fetch(key, ttl, tags) ─ miss → query → cached until TTL or tag bump
//   write:  check → INSERT/UPDATE/DELETE → Invalidate(tag) + InvalidatePaths
//
// Notes
// -----
// • Every error is propagated.  The HTTP boundary decides whether to degrade.
// • Cached values are shared between requests.  Treat them as read-only.
// • Oxford commas, two spaces after periods.

package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/yanizio/agrocms/internal/cache"
	"github.com/yanizio/agrocms/internal/database"
	"github.com/yanizio/agrocms/internal/routing"
)

/*──────────────────────────── errors ──────────────────────────────────────*/

var (
	ErrNotFound      = errors.New("content: not found")
	ErrSlugTaken     = errors.New("content: slug already in use")
	ErrInvalidSlug   = errors.New("content: slug must be lower-case a-z, 0-9, and dashes")
	ErrHasChildren   = errors.New("content: record still has children")
	ErrInvalidParent = errors.New("content: parent does not exist")
	ErrInvalidStatus = errors.New("content: unknown application status")
	ErrJobClosed     = errors.New("content: job offer is closed")
)

/*──────────────────────────── tags & TTLs ─────────────────────────────────*/

// Cache tags, one per content type.
const (
	TagCategories   = "categories"
	TagProducts     = "products"
	TagBlog         = "blog"
	TagPages        = "pages"
	TagJobs         = "jobs"
	TagCertificates = "certificates"
	TagAwards       = "awards"
	TagCompany      = "company"
	TagHeadquarters = "headquarters"
	TagDocuments    = "documents"
)

const (
	ttlShort  = 10 * time.Second
	ttlBlog   = 60 * time.Second
	ttlJobs   = 120 * time.Second
	ttlList   = 300 * time.Second
	ttlTree   = 600 * time.Second
	ttlStatic = 3600 * time.Second
)

/*──────────────────────────── service ─────────────────────────────────────*/

// Service is safe for concurrent use.
type Service struct {
	pool  *database.Pool
	cache *cache.Store
	now   func() time.Time
}

// NewService wires a Service to the shared pool and cache store.
func NewService(pool *database.Pool, store *cache.Store) *Service {
	return &Service{pool: pool, cache: store, now: time.Now}
}

// Cache exposes the store so page handlers can cache rendered HTML under the
// same tags.
func (s *Service) Cache() *cache.Store { return s.cache }

func (s *Service) db(ctx context.Context) (*sqlx.DB, error) { return s.pool.DB(ctx) }

// invalidate bumps tags and the given page paths.
func (s *Service) invalidate(tags []string, paths ...string) {
	s.cache.Invalidate(tags...)
	if len(paths) > 0 {
		s.cache.InvalidatePaths(paths...)
	}
	zap.L().Debug("content invalidated",
		zap.Strings("tags", tags), zap.Strings("paths", paths))
}

/*──────────────────────────── shared helpers ──────────────────────────────*/

// notFound maps sql.ErrNoRows to ErrNotFound and wraps everything else.
func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", what, err)
}

// writeErr maps MySQL constraint failures onto content errors.
func writeErr(err error, what string) error {
	switch {
	case database.IsDuplicate(err):
		return ErrSlugTaken
	case database.IsReferenced(err):
		return ErrHasChildren
	case database.IsMissingParent(err):
		return ErrInvalidParent
	}
	return fmt.Errorf("%s: %w", what, err)
}

// resolveSlug derives a slug from fallback when slug is empty and checks the
// final form.
func resolveSlug(slug, fallback string) (string, error) {
	if slug == "" {
		slug = routing.MakeSlug(fallback)
	}
	if !routing.ValidSlug(slug) {
		return "", ErrInvalidSlug
	}
	return slug, nil
}

// slugTables maps the admin slug-check type to its table.  Table names are
// constants, never user input, so they are safe to splice into SQL.
var slugTables = map[string]string{
	"categories": "category",
	"products":   "product",
	"blog":       "blog_post",
	"pages":      "page",
	"jobs":       "job_offer",
	"documents":  "document",
}

// ensureSlugFree returns ErrSlugTaken when another row of table (id ≠
// exclude) already owns slug.
func ensureSlugFree(ctx context.Context, q sqlx.QueryerContext, table, slug string, exclude uint64) error {
	var n int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE slug = ? AND id <> ?`, table)
	if err := sqlx.GetContext(ctx, q, &n, query, slug, exclude); err != nil {
		return fmt.Errorf("slug lookup %s: %w", table, err)
	}
	if n > 0 {
		return ErrSlugTaken
	}
	return nil
}

// deleteByID removes one row and reports ErrNotFound when nothing matched.
func deleteByID(ctx context.Context, db sqlx.ExecerContext, table string, id uint64) error {
	res, err := db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, table), id)
	if err != nil {
		return writeErr(err, "delete "+table)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// prefixed qualifies every column in a column list with alias.
func prefixed(alias, cols string) string {
	parts := strings.Split(cols, ",")
	for i, c := range parts {
		parts[i] = alias + strings.TrimSpace(c)
	}
	return strings.Join(parts, ", ")
}

func lastID(res sql.Result) (uint64, error) {
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

/*──────────────────────────── slug check ──────────────────────────────────*/

// SlugCheck is the admin slug-check response.
type SlugCheck struct {
	Slug      string `json:"slug"`
	Available bool   `json:"available"`
	Suggested string `json:"suggested,omitempty"`
}

// CheckSlug normalises slug and reports whether it is free for typ.  When
// taken, the first free "-N" suffix is suggested.
func (s *Service) CheckSlug(ctx context.Context, typ, slug string, exclude uint64) (*SlugCheck, error) {
	table, ok := slugTables[typ]
	if !ok {
		return nil, fmt.Errorf("%w: unknown type %q", ErrNotFound, typ)
	}
	db, err := s.db(ctx)
	if err != nil {
		return nil, err
	}

	norm := routing.MakeSlug(slug)
	out := &SlugCheck{Slug: norm}

	err = ensureSlugFree(ctx, db, table, norm, exclude)
	switch {
	case err == nil:
		out.Available = true
		return out, nil
	case !errors.Is(err, ErrSlugTaken):
		return nil, err
	}

	for i := 2; i < 100; i++ {
		cand := fmt.Sprintf("%s-%d", norm, i)
		err := ensureSlugFree(ctx, db, table, cand, exclude)
		if err == nil {
			out.Suggested = cand
			break
		}
		if !errors.Is(err, ErrSlugTaken) {
			return nil, err
		}
	}
	return out, nil
}
