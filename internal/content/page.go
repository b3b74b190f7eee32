package content

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/yanizio/agrocms/internal/cache"
)

const pageCols = `id, slug, title, title_ar, body, body_ar, published, created_at, updated_at`

// PageBySlug returns a published static page or ErrNotFound.
func (s *Service) PageBySlug(ctx context.Context, slug string) (*Page, error) {
	return cache.Fetch(ctx, s.cache, "pages:slug:"+slug, ttlStatic, []string{TagPages},
		func(ctx context.Context) (*Page, error) {
			db, err := s.db(ctx)
			if err != nil {
				return nil, err
			}
			var p Page
			if err := db.GetContext(ctx, &p, `SELECT `+pageCols+` FROM page
        WHERE slug = ? AND published = 1`, slug); err != nil {
				return nil, notFound(err, "page by slug")
			}
			return &p, nil
		})
}

// PublishedPages lists published pages for footer navigation.
func (s *Service) PublishedPages(ctx context.Context) ([]Page, error) {
	return cache.Fetch(ctx, s.cache, "pages:nav", ttlStatic, []string{TagPages},
		func(ctx context.Context) ([]Page, error) {
			db, err := s.db(ctx)
			if err != nil {
				return nil, err
			}
			var out []Page
			if err := db.SelectContext(ctx, &out, `SELECT `+pageCols+` FROM page
        WHERE published = 1 ORDER BY title`); err != nil {
				return nil, fmt.Errorf("published pages: %w", err)
			}
			return out, nil
		})
}

// Pages lists every page for the admin API.
func (s *Service) Pages(ctx context.Context) ([]Page, error) {
	db, err := s.db(ctx)
	if err != nil {
		return nil, err
	}
	var out []Page
	if err := db.SelectContext(ctx, &out, `SELECT `+pageCols+` FROM page ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	return out, nil
}

// Page returns one page by id.
func (s *Service) Page(ctx context.Context, id uint64) (*Page, error) {
	db, err := s.db(ctx)
	if err != nil {
		return nil, err
	}
	return getPage(ctx, db, id)
}

func getPage(ctx context.Context, q sqlx.QueryerContext, id uint64) (*Page, error) {
	var p Page
	if err := sqlx.GetContext(ctx, q, &p, `SELECT `+pageCols+` FROM page WHERE id = ?`, id); err != nil {
		return nil, notFound(err, "page")
	}
	return &p, nil
}

// CreatePage inserts a static page.
func (s *Service) CreatePage(ctx context.Context, in PageInput) (*Page, error) {
	slug, err := resolveSlug(in.Slug, in.Title)
	if err != nil {
		return nil, err
	}
	db, err := s.db(ctx)
	if err != nil {
		return nil, err
	}
	if err := ensureSlugFree(ctx, db, "page", slug, 0); err != nil {
		return nil, err
	}
	res, err := db.ExecContext(ctx, `INSERT INTO page
        (slug, title, title_ar, body, body_ar, published) VALUES (?, ?, ?, ?, ?, ?)`,
		slug, in.Title, in.TitleAr, in.Body, in.BodyAr, in.Published)
	if err != nil {
		return nil, writeErr(err, "insert page")
	}
	id, err := lastID(res)
	if err != nil {
		return nil, err
	}
	s.invalidate([]string{TagPages}, "/pages/"+slug)
	return getPage(ctx, db, id)
}

// UpdatePage replaces a static page.
func (s *Service) UpdatePage(ctx context.Context, id uint64, in PageInput) (*Page, error) {
	slug, err := resolveSlug(in.Slug, in.Title)
	if err != nil {
		return nil, err
	}
	db, err := s.db(ctx)
	if err != nil {
		return nil, err
	}
	old, err := getPage(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if err := ensureSlugFree(ctx, db, "page", slug, id); err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, `UPDATE page SET
        slug = ?, title = ?, title_ar = ?, body = ?, body_ar = ?, published = ?
        WHERE id = ?`,
		slug, in.Title, in.TitleAr, in.Body, in.BodyAr, in.Published, id); err != nil {
		return nil, writeErr(err, "update page")
	}
	s.invalidate([]string{TagPages}, "/pages/"+old.Slug, "/pages/"+slug)
	return getPage(ctx, db, id)
}

// DeletePage removes a static page.
func (s *Service) DeletePage(ctx context.Context, id uint64) error {
	db, err := s.db(ctx)
	if err != nil {
		return err
	}
	old, err := getPage(ctx, db, id)
	if err != nil {
		return err
	}
	if err := deleteByID(ctx, db, "page", id); err != nil {
		return err
	}
	s.invalidate([]string{TagPages}, "/pages/"+old.Slug)
	return nil
}
