package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/jmoiron/sqlx"

	"github.com/yanizio/agrocms/internal/cache"
)

const categoryCols = `id, parent_id, slug, name, name_ar, description, description_ar,
        image, position, published, created_at, updated_at`

// CategoryView is the public category page: the category, its published
// sub-categories, and its published products.
type CategoryView struct {
	Category *Category
	Children []*Category
	Products []Product
}

/*──────────────────────────── public reads ────────────────────────────────*/

// CategoryTree returns published top-level categories with their published
// children attached.  Children of an unpublished parent are hidden.
func (s *Service) CategoryTree(ctx context.Context) ([]*Category, error) {
	return cache.Fetch(ctx, s.cache, "categories:tree", ttlTree, []string{TagCategories},
		func(ctx context.Context) ([]*Category, error) {
			db, err := s.db(ctx)
			if err != nil {
				return nil, err
			}
			var rows []*Category
			q := `SELECT ` + categoryCols + ` FROM category
        WHERE published = 1 ORDER BY position, id`
			if err := db.SelectContext(ctx, &rows, q); err != nil {
				return nil, fmt.Errorf("category tree: %w", err)
			}
			return buildTree(rows), nil
		})
}

// buildTree links flat rows into roots + children.  Rows whose parent is
// absent from the set (unpublished or deleted) are dropped.
func buildTree(rows []*Category) []*Category {
	byID := make(map[uint64]*Category, len(rows))
	for _, c := range rows {
		c.Children = nil
		byID[c.ID] = c
	}

	var roots []*Category
	for _, c := range rows {
		if c.ParentID == nil {
			roots = append(roots, c)
			continue
		}
		if p, ok := byID[*c.ParentID]; ok {
			p.Children = append(p.Children, c)
		}
	}

	var prune func([]*Category) []*Category
	prune = func(list []*Category) []*Category {
		sort.SliceStable(list, func(i, j int) bool { return list[i].Position < list[j].Position })
		for _, c := range list {
			c.Children = prune(c.Children)
		}
		return list
	}
	return prune(roots)
}

// CategoryBySlug returns the public category view or ErrNotFound.
func (s *Service) CategoryBySlug(ctx context.Context, slug string) (*CategoryView, error) {
	return cache.Fetch(ctx, s.cache, "categories:slug:"+slug, ttlList,
		[]string{TagCategories, TagProducts},
		func(ctx context.Context) (*CategoryView, error) {
			db, err := s.db(ctx)
			if err != nil {
				return nil, err
			}
			var c Category
			q := `SELECT ` + categoryCols + ` FROM category
        WHERE slug = ? AND published = 1`
			if err := db.GetContext(ctx, &c, q, slug); err != nil {
				return nil, notFound(err, "category by slug")
			}

			view := &CategoryView{Category: &c}
			q = `SELECT ` + categoryCols + ` FROM category
        WHERE parent_id = ? AND published = 1 ORDER BY position, id`
			if err := db.SelectContext(ctx, &view.Children, q, c.ID); err != nil {
				return nil, fmt.Errorf("category children: %w", err)
			}
			q = `SELECT ` + productCols + ` FROM product
        WHERE category_id = ? AND published = 1 ORDER BY position, id`
			if err := db.SelectContext(ctx, &view.Products, q, c.ID); err != nil {
				return nil, fmt.Errorf("category products: %w", err)
			}
			return view, nil
		})
}

/*──────────────────────────── admin ───────────────────────────────────────*/

// Categories lists every category for the admin API.
func (s *Service) Categories(ctx context.Context) ([]Category, error) {
	db, err := s.db(ctx)
	if err != nil {
		return nil, err
	}
	var out []Category
	q := `SELECT ` + categoryCols + ` FROM category ORDER BY parent_id IS NOT NULL, position, id`
	if err := db.SelectContext(ctx, &out, q); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return out, nil
}

// Category returns one category by id.
func (s *Service) Category(ctx context.Context, id uint64) (*Category, error) {
	db, err := s.db(ctx)
	if err != nil {
		return nil, err
	}
	return getCategory(ctx, db, id)
}

func getCategory(ctx context.Context, q sqlx.QueryerContext, id uint64) (*Category, error) {
	var c Category
	if err := sqlx.GetContext(ctx, q, &c,
		`SELECT `+categoryCols+` FROM category WHERE id = ?`, id); err != nil {
		return nil, notFound(err, "category")
	}
	return &c, nil
}

// checkParent verifies parent exists and that attaching self under it does
// not create a cycle.  self is 0 on create.
func checkParent(ctx context.Context, q sqlx.QueryerContext, parent *uint64, self uint64) error {
	if parent == nil {
		return nil
	}
	seen := map[uint64]bool{}
	cur := *parent
	for {
		if cur == self || seen[cur] {
			return ErrInvalidParent
		}
		seen[cur] = true

		var next *uint64
		err := sqlx.GetContext(ctx, q, &next, `SELECT parent_id FROM category WHERE id = ?`, cur)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrInvalidParent
			}
			return fmt.Errorf("category parent lookup: %w", err)
		}
		if next == nil || self == 0 {
			return nil
		}
		cur = *next
	}
}

// CreateCategory inserts a category.
func (s *Service) CreateCategory(ctx context.Context, in CategoryInput) (*Category, error) {
	slug, err := resolveSlug(in.Slug, in.Name)
	if err != nil {
		return nil, err
	}
	db, err := s.db(ctx)
	if err != nil {
		return nil, err
	}
	if err := ensureSlugFree(ctx, db, "category", slug, 0); err != nil {
		return nil, err
	}
	if err := checkParent(ctx, db, in.ParentID, 0); err != nil {
		return nil, err
	}

	res, err := db.ExecContext(ctx, `INSERT INTO category
        (parent_id, slug, name, name_ar, description, description_ar, image, position, published)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ParentID, slug, in.Name, in.NameAr, in.Description, in.DescriptionAr,
		in.Image, in.Position, in.Published)
	if err != nil {
		return nil, writeErr(err, "insert category")
	}
	id, err := lastID(res)
	if err != nil {
		return nil, err
	}

	s.invalidate([]string{TagCategories}, "/", "/products")
	return getCategory(ctx, db, id)
}

// UpdateCategory replaces a category.
func (s *Service) UpdateCategory(ctx context.Context, id uint64, in CategoryInput) (*Category, error) {
	slug, err := resolveSlug(in.Slug, in.Name)
	if err != nil {
		return nil, err
	}
	db, err := s.db(ctx)
	if err != nil {
		return nil, err
	}
	old, err := getCategory(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if err := ensureSlugFree(ctx, db, "category", slug, id); err != nil {
		return nil, err
	}
	if err := checkParent(ctx, db, in.ParentID, id); err != nil {
		return nil, err
	}

	_, err = db.ExecContext(ctx, `UPDATE category SET
        parent_id = ?, slug = ?, name = ?, name_ar = ?, description = ?, description_ar = ?,
        image = ?, position = ?, published = ?
        WHERE id = ?`,
		in.ParentID, slug, in.Name, in.NameAr, in.Description, in.DescriptionAr,
		in.Image, in.Position, in.Published, id)
	if err != nil {
		return nil, writeErr(err, "update category")
	}

	s.invalidate([]string{TagCategories}, "/", "/products",
		"/categories/"+old.Slug, "/categories/"+slug)
	return getCategory(ctx, db, id)
}

// DeleteCategory removes a category that has neither sub-categories nor
// products.  Otherwise ErrHasChildren and nothing is deleted.
func (s *Service) DeleteCategory(ctx context.Context, id uint64) error {
	db, err := s.db(ctx)
	if err != nil {
		return err
	}
	old, err := getCategory(ctx, db, id)
	if err != nil {
		return err
	}

	var n int
	if err := db.GetContext(ctx, &n, `SELECT
        (SELECT COUNT(*) FROM category WHERE parent_id = ?) +
        (SELECT COUNT(*) FROM product  WHERE category_id = ?)`, id, id); err != nil {
		return fmt.Errorf("category children: %w", err)
	}
	if n > 0 {
		return ErrHasChildren
	}

	if err := deleteByID(ctx, db, "category", id); err != nil {
		return err
	}
	s.invalidate([]string{TagCategories}, "/", "/products", "/categories/"+old.Slug)
	return nil
}
