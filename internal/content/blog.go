package content

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/yanizio/agrocms/internal/cache"
)

const postCols = `id, slug, title, title_ar, excerpt, excerpt_ar, body, body_ar, cover_image,
        published, published_at, created_at, updated_at`

// PostsPerPage is the public blog index page size.
const PostsPerPage = 9

// MaxPostPage bounds the public index; deeper pages are ErrNotFound.
const MaxPostPage = 1000

// livePost is the public visibility predicate.
const livePost = `published = 1 AND (published_at IS NULL OR published_at <= ?)`

/*──────────────────────────── public reads ────────────────────────────────*/

// LatestPosts returns the n most recent live posts.
func (s *Service) LatestPosts(ctx context.Context, n int) ([]Post, error) {
	key := "blog:latest:" + strconv.Itoa(n)
	return cache.Fetch(ctx, s.cache, key, ttlBlog, []string{TagBlog},
		func(ctx context.Context) ([]Post, error) {
			db, err := s.db(ctx)
			if err != nil {
				return nil, err
			}
			var out []Post
			q := `SELECT ` + postCols + ` FROM blog_post WHERE ` + livePost + `
        ORDER BY published_at DESC, id DESC LIMIT ?`
			if err := db.SelectContext(ctx, &out, q, s.now(), n); err != nil {
				return nil, fmt.Errorf("latest posts: %w", err)
			}
			return out, nil
		})
}

// PublishedPosts returns one page (1-based) of the public blog index.  A
// page outside 1..MaxPostPage, or past the last post, is ErrNotFound.
func (s *Service) PublishedPosts(ctx context.Context, page int) (*PostPage, error) {
	if page < 1 || page > MaxPostPage {
		return nil, ErrNotFound
	}
	key := "blog:page:" + strconv.Itoa(page)
	return cache.Fetch(ctx, s.cache, key, ttlBlog, []string{TagBlog},
		func(ctx context.Context) (*PostPage, error) {
			db, err := s.db(ctx)
			if err != nil {
				return nil, err
			}
			var rows []Post
			q := `SELECT ` + postCols + ` FROM blog_post WHERE ` + livePost + `
        ORDER BY published_at DESC, id DESC LIMIT ? OFFSET ?`
			// One extra row tells us whether a next page exists.
			if err := db.SelectContext(ctx, &rows, q,
				s.now(), PostsPerPage+1, (page-1)*PostsPerPage); err != nil {
				return nil, fmt.Errorf("posts page: %w", err)
			}
			if page > 1 && len(rows) == 0 {
				return nil, ErrNotFound
			}
			out := &PostPage{Page: page}
			if len(rows) > PostsPerPage {
				out.HasNext = true
				rows = rows[:PostsPerPage]
			}
			out.Posts = rows
			return out, nil
		})
}

// PostBySlug returns a live post or ErrNotFound.
func (s *Service) PostBySlug(ctx context.Context, slug string) (*Post, error) {
	return cache.Fetch(ctx, s.cache, "blog:slug:"+slug, ttlList, []string{TagBlog},
		func(ctx context.Context) (*Post, error) {
			db, err := s.db(ctx)
			if err != nil {
				return nil, err
			}
			var p Post
			q := `SELECT ` + postCols + ` FROM blog_post WHERE slug = ? AND ` + livePost
			if err := db.GetContext(ctx, &p, q, slug, s.now()); err != nil {
				return nil, notFound(err, "post by slug")
			}
			return &p, nil
		})
}

/*──────────────────────────── admin ───────────────────────────────────────*/

// Posts lists every post, drafts included.
func (s *Service) Posts(ctx context.Context) ([]Post, error) {
	db, err := s.db(ctx)
	if err != nil {
		return nil, err
	}
	var out []Post
	if err := db.SelectContext(ctx, &out,
		`SELECT `+postCols+` FROM blog_post ORDER BY created_at DESC, id DESC`); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return out, nil
}

// Post returns one post by id.
func (s *Service) Post(ctx context.Context, id uint64) (*Post, error) {
	db, err := s.db(ctx)
	if err != nil {
		return nil, err
	}
	return getPost(ctx, db, id)
}

func getPost(ctx context.Context, q sqlx.QueryerContext, id uint64) (*Post, error) {
	var p Post
	if err := sqlx.GetContext(ctx, q, &p,
		`SELECT `+postCols+` FROM blog_post WHERE id = ?`, id); err != nil {
		return nil, notFound(err, "post")
	}
	return &p, nil
}

// publishedAt keeps an existing timestamp, honours an explicit one, and
// stamps now on first publish.
func publishedAt(in PostInput, prev *time.Time, now time.Time) *time.Time {
	switch {
	case in.PublishedAt != nil:
		return in.PublishedAt
	case prev != nil:
		return prev
	case in.Published:
		return &now
	}
	return nil
}

// CreatePost inserts a blog post.
func (s *Service) CreatePost(ctx context.Context, in PostInput) (*Post, error) {
	slug, err := resolveSlug(in.Slug, in.Title)
	if err != nil {
		return nil, err
	}
	db, err := s.db(ctx)
	if err != nil {
		return nil, err
	}
	if err := ensureSlugFree(ctx, db, "blog_post", slug, 0); err != nil {
		return nil, err
	}

	res, err := db.ExecContext(ctx, `INSERT INTO blog_post
        (slug, title, title_ar, excerpt, excerpt_ar, body, body_ar, cover_image, published, published_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		slug, in.Title, in.TitleAr, in.Excerpt, in.ExcerptAr, in.Body, in.BodyAr,
		in.CoverImage, in.Published, publishedAt(in, nil, s.now()))
	if err != nil {
		return nil, writeErr(err, "insert post")
	}
	id, err := lastID(res)
	if err != nil {
		return nil, err
	}

	s.invalidate([]string{TagBlog}, "/", "/blog")
	return getPost(ctx, db, id)
}

// UpdatePost replaces a blog post.
func (s *Service) UpdatePost(ctx context.Context, id uint64, in PostInput) (*Post, error) {
	slug, err := resolveSlug(in.Slug, in.Title)
	if err != nil {
		return nil, err
	}
	db, err := s.db(ctx)
	if err != nil {
		return nil, err
	}
	old, err := getPost(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if err := ensureSlugFree(ctx, db, "blog_post", slug, id); err != nil {
		return nil, err
	}

	_, err = db.ExecContext(ctx, `UPDATE blog_post SET
        slug = ?, title = ?, title_ar = ?, excerpt = ?, excerpt_ar = ?, body = ?, body_ar = ?,
        cover_image = ?, published = ?, published_at = ?
        WHERE id = ?`,
		slug, in.Title, in.TitleAr, in.Excerpt, in.ExcerptAr, in.Body, in.BodyAr,
		in.CoverImage, in.Published, publishedAt(in, old.PublishedAt, s.now()), id)
	if err != nil {
		return nil, writeErr(err, "update post")
	}

	s.invalidate([]string{TagBlog}, "/", "/blog", "/blog/"+old.Slug, "/blog/"+slug)
	return getPost(ctx, db, id)
}

// DeletePost removes a blog post.
func (s *Service) DeletePost(ctx context.Context, id uint64) error {
	db, err := s.db(ctx)
	if err != nil {
		return err
	}
	old, err := getPost(ctx, db, id)
	if err != nil {
		return err
	}
	if err := deleteByID(ctx, db, "blog_post", id); err != nil {
		return err
	}
	s.invalidate([]string{TagBlog}, "/", "/blog", "/blog/"+old.Slug)
	return nil
}
