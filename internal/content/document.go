package content

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/yanizio/agrocms/internal/cache"
)

const documentCols = `id, slug, title, title_ar, file_path, content_type, size_bytes, downloads,
        created_at, updated_at`

// Documents returns every downloadable document.  The download counter in
// this list lags by up to the TTL; counting a download never invalidates.
func (s *Service) Documents(ctx context.Context) ([]Document, error) {
	return cache.Fetch(ctx, s.cache, "documents:all", ttlTree, []string{TagDocuments},
		func(ctx context.Context) ([]Document, error) {
			db, err := s.db(ctx)
			if err != nil {
				return nil, err
			}
			var out []Document
			if err := db.SelectContext(ctx, &out,
				`SELECT `+documentCols+` FROM document ORDER BY title, id`); err != nil {
				return nil, fmt.Errorf("list documents: %w", err)
			}
			return out, nil
		})
}

// DocumentBySlug returns the document with slug or ErrNotFound.
func (s *Service) DocumentBySlug(ctx context.Context, slug string) (*Document, error) {
	db, err := s.db(ctx)
	if err != nil {
		return nil, err
	}
	var d Document
	if err := db.GetContext(ctx, &d,
		`SELECT `+documentCols+` FROM document WHERE slug = ?`, slug); err != nil {
		return nil, notFound(err, "document by slug")
	}
	return &d, nil
}

// CountDownload increments the download counter of document id.
func (s *Service) CountDownload(ctx context.Context, id uint64) error {
	db, err := s.db(ctx)
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx,
		`UPDATE document SET downloads = downloads + 1 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("count download: %w", err)
	}
	return nil
}

// Document returns one document by id.
func (s *Service) Document(ctx context.Context, id uint64) (*Document, error) {
	db, err := s.db(ctx)
	if err != nil {
		return nil, err
	}
	return getDocument(ctx, db, id)
}

func getDocument(ctx context.Context, q sqlx.QueryerContext, id uint64) (*Document, error) {
	var d Document
	if err := sqlx.GetContext(ctx, q, &d,
		`SELECT `+documentCols+` FROM document WHERE id = ?`, id); err != nil {
		return nil, notFound(err, "document")
	}
	return &d, nil
}

// CreateDocument inserts a document record for an already-uploaded file.
func (s *Service) CreateDocument(ctx context.Context, in DocumentInput) (*Document, error) {
	slug, err := resolveSlug(in.Slug, in.Title)
	if err != nil {
		return nil, err
	}
	db, err := s.db(ctx)
	if err != nil {
		return nil, err
	}
	if err := ensureSlugFree(ctx, db, "document", slug, 0); err != nil {
		return nil, err
	}
	res, err := db.ExecContext(ctx, `INSERT INTO document
        (slug, title, title_ar, file_path, content_type, size_bytes) VALUES (?, ?, ?, ?, ?, ?)`,
		slug, in.Title, in.TitleAr, in.FilePath, in.ContentType, in.SizeBytes)
	if err != nil {
		return nil, writeErr(err, "insert document")
	}
	id, err := lastID(res)
	if err != nil {
		return nil, err
	}
	s.invalidate([]string{TagDocuments})
	return getDocument(ctx, db, id)
}

// UpdateDocument replaces a document record.
func (s *Service) UpdateDocument(ctx context.Context, id uint64, in DocumentInput) (*Document, error) {
	slug, err := resolveSlug(in.Slug, in.Title)
	if err != nil {
		return nil, err
	}
	db, err := s.db(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := getDocument(ctx, db, id); err != nil {
		return nil, err
	}
	if err := ensureSlugFree(ctx, db, "document", slug, id); err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, `UPDATE document SET
        slug = ?, title = ?, title_ar = ?, file_path = ?, content_type = ?, size_bytes = ?
        WHERE id = ?`,
		slug, in.Title, in.TitleAr, in.FilePath, in.ContentType, in.SizeBytes, id); err != nil {
		return nil, writeErr(err, "update document")
	}
	s.invalidate([]string{TagDocuments})
	return getDocument(ctx, db, id)
}

// DeleteDocument removes a document record and returns its file path.
func (s *Service) DeleteDocument(ctx context.Context, id uint64) (string, error) {
	db, err := s.db(ctx)
	if err != nil {
		return "", err
	}
	d, err := getDocument(ctx, db, id)
	if err != nil {
		return "", err
	}
	if err := deleteByID(ctx, db, "document", id); err != nil {
		return "", err
	}
	s.invalidate([]string{TagDocuments})
	return d.FilePath, nil
}
