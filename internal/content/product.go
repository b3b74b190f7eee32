package content

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/yanizio/agrocms/internal/cache"
	"github.com/yanizio/agrocms/internal/database"
)

const productCols = `id, category_id, slug, name, name_ar, summary, summary_ar, description,
        description_ar, image, composition, usage_info, position, published, created_at, updated_at`

const sectionCols = `id, product_id, position, title, title_ar, body, body_ar`

// ProductView is the public product page.
type ProductView struct {
	Product  *Product
	Category *Category
}

/*──────────────────────────── public reads ────────────────────────────────*/

// Products lists published products, optionally restricted to the category
// with slug categorySlug.  An unknown category yields an empty list.
func (s *Service) Products(ctx context.Context, categorySlug string) ([]Product, error) {
	return cache.Fetch(ctx, s.cache, "products:list:"+categorySlug, ttlList,
		[]string{TagProducts, TagCategories},
		func(ctx context.Context) ([]Product, error) {
			db, err := s.db(ctx)
			if err != nil {
				return nil, err
			}
			var out []Product
			if categorySlug == "" {
				q := `SELECT ` + productCols + ` FROM product
        WHERE published = 1 ORDER BY position, id`
				err = db.SelectContext(ctx, &out, q)
			} else {
				q := `SELECT ` + prefixed("p.", productCols) + ` FROM product p
        JOIN category c ON c.id = p.category_id
        WHERE p.published = 1 AND c.published = 1 AND c.slug = ?
        ORDER BY p.position, p.id`
				err = db.SelectContext(ctx, &out, q, categorySlug)
			}
			if err != nil {
				return nil, fmt.Errorf("list products: %w", err)
			}
			return out, nil
		})
}

// ProductBySlug returns a published product with its ordered sections and
// category, or ErrNotFound.
func (s *Service) ProductBySlug(ctx context.Context, slug string) (*ProductView, error) {
	return cache.Fetch(ctx, s.cache, "products:slug:"+slug, ttlList,
		[]string{TagProducts, TagCategories},
		func(ctx context.Context) (*ProductView, error) {
			db, err := s.db(ctx)
			if err != nil {
				return nil, err
			}
			var p Product
			q := `SELECT ` + productCols + ` FROM product WHERE slug = ? AND published = 1`
			if err := db.GetContext(ctx, &p, q, slug); err != nil {
				return nil, notFound(err, "product by slug")
			}
			if p.Sections, err = sections(ctx, db, p.ID); err != nil {
				return nil, err
			}
			c, err := getCategory(ctx, db, p.CategoryID)
			if err != nil {
				return nil, err
			}
			return &ProductView{Product: &p, Category: c}, nil
		})
}

func sections(ctx context.Context, q sqlx.QueryerContext, productID uint64) ([]Section, error) {
	var out []Section
	if err := sqlx.SelectContext(ctx, q, &out, `SELECT `+sectionCols+` FROM product_section
        WHERE product_id = ? ORDER BY position, id`, productID); err != nil {
		return nil, fmt.Errorf("product sections: %w", err)
	}
	return out, nil
}

/*──────────────────────────── admin ───────────────────────────────────────*/

// AdminProducts lists every product, optionally for one category id.
func (s *Service) AdminProducts(ctx context.Context, categoryID uint64) ([]Product, error) {
	db, err := s.db(ctx)
	if err != nil {
		return nil, err
	}
	var out []Product
	if categoryID == 0 {
		err = db.SelectContext(ctx, &out,
			`SELECT `+productCols+` FROM product ORDER BY category_id, position, id`)
	} else {
		err = db.SelectContext(ctx, &out,
			`SELECT `+productCols+` FROM product WHERE category_id = ? ORDER BY position, id`,
			categoryID)
	}
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return out, nil
}

// Product returns one product with sections.
func (s *Service) Product(ctx context.Context, id uint64) (*Product, error) {
	db, err := s.db(ctx)
	if err != nil {
		return nil, err
	}
	return getProduct(ctx, db, id)
}

func getProduct(ctx context.Context, q sqlx.QueryerContext, id uint64) (*Product, error) {
	var p Product
	if err := sqlx.GetContext(ctx, q, &p,
		`SELECT `+productCols+` FROM product WHERE id = ?`, id); err != nil {
		return nil, notFound(err, "product")
	}
	var err error
	if p.Sections, err = sections(ctx, q, id); err != nil {
		return nil, err
	}
	return &p, nil
}

func categoryExists(ctx context.Context, q sqlx.QueryerContext, id uint64) error {
	var n int
	if err := sqlx.GetContext(ctx, q, &n, `SELECT COUNT(*) FROM category WHERE id = ?`, id); err != nil {
		return fmt.Errorf("category lookup: %w", err)
	}
	if n == 0 {
		return ErrInvalidParent
	}
	return nil
}

// CreateProduct inserts a product and its sections in one transaction.
func (s *Service) CreateProduct(ctx context.Context, in ProductInput) (*Product, error) {
	slug, err := resolveSlug(in.Slug, in.Name)
	if err != nil {
		return nil, err
	}
	db, err := s.db(ctx)
	if err != nil {
		return nil, err
	}
	if err := ensureSlugFree(ctx, db, "product", slug, 0); err != nil {
		return nil, err
	}
	if err := categoryExists(ctx, db, in.CategoryID); err != nil {
		return nil, err
	}

	var id uint64
	err = database.WithTx(ctx, db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `INSERT INTO product
        (category_id, slug, name, name_ar, summary, summary_ar, description, description_ar,
         image, composition, usage_info, position, published)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			in.CategoryID, slug, in.Name, in.NameAr, in.Summary, in.SummaryAr,
			in.Description, in.DescriptionAr, in.Image,
			Composition(in.Composition), Usage(in.Usage), in.Position, in.Published)
		if err != nil {
			return writeErr(err, "insert product")
		}
		if id, err = lastID(res); err != nil {
			return err
		}
		return insertSections(ctx, tx, id, in.Sections)
	})
	if err != nil {
		return nil, err
	}

	s.invalidate([]string{TagProducts}, "/", "/products")
	return getProduct(ctx, db, id)
}

// UpdateProduct replaces a product row and all of its sections in one
// transaction.
func (s *Service) UpdateProduct(ctx context.Context, id uint64, in ProductInput) (*Product, error) {
	slug, err := resolveSlug(in.Slug, in.Name)
	if err != nil {
		return nil, err
	}
	db, err := s.db(ctx)
	if err != nil {
		return nil, err
	}
	old, err := getProduct(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if err := ensureSlugFree(ctx, db, "product", slug, id); err != nil {
		return nil, err
	}
	if err := categoryExists(ctx, db, in.CategoryID); err != nil {
		return nil, err
	}

	err = database.WithTx(ctx, db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `UPDATE product SET
        category_id = ?, slug = ?, name = ?, name_ar = ?, summary = ?, summary_ar = ?,
        description = ?, description_ar = ?, image = ?, composition = ?, usage_info = ?,
        position = ?, published = ?
        WHERE id = ?`,
			in.CategoryID, slug, in.Name, in.NameAr, in.Summary, in.SummaryAr,
			in.Description, in.DescriptionAr, in.Image,
			Composition(in.Composition), Usage(in.Usage), in.Position, in.Published, id); err != nil {
			return writeErr(err, "update product")
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM product_section WHERE product_id = ?`, id); err != nil {
			return fmt.Errorf("clear sections: %w", err)
		}
		return insertSections(ctx, tx, id, in.Sections)
	})
	if err != nil {
		return nil, err
	}

	s.invalidate([]string{TagProducts}, "/", "/products",
		"/products/"+old.Slug, "/products/"+slug)
	return getProduct(ctx, db, id)
}

func insertSections(ctx context.Context, tx *sqlx.Tx, productID uint64, in []SectionInput) error {
	for i, sec := range in {
		if _, err := tx.ExecContext(ctx, `INSERT INTO product_section
        (product_id, position, title, title_ar, body, body_ar)
        VALUES (?, ?, ?, ?, ?, ?)`,
			productID, i, sec.Title, sec.TitleAr, sec.Body, sec.BodyAr); err != nil {
			return fmt.Errorf("insert section %d: %w", i, err)
		}
	}
	return nil
}

// DeleteProduct removes a product; its sections cascade.
func (s *Service) DeleteProduct(ctx context.Context, id uint64) error {
	db, err := s.db(ctx)
	if err != nil {
		return err
	}
	var slug string
	if err := db.GetContext(ctx, &slug, `SELECT slug FROM product WHERE id = ?`, id); err != nil {
		return notFound(err, "product")
	}
	if err := deleteByID(ctx, db, "product", id); err != nil {
		return err
	}
	s.invalidate([]string{TagProducts}, "/", "/products", "/products/"+slug)
	return nil
}
