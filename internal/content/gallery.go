package content

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/yanizio/agrocms/internal/cache"
)

const (
	certificateCols = `id, title, title_ar, issuer, image, position, created_at, updated_at`
	awardCols       = `id, title, title_ar, description, description_ar, year, image, position,
        created_at, updated_at`
)

// Gallery pages render on the home page, so every mutation also drops "/".

/*──────────────────────────── certificates ────────────────────────────────*/

// Certificates returns the ordered certificate gallery.
func (s *Service) Certificates(ctx context.Context) ([]Certificate, error) {
	return cache.Fetch(ctx, s.cache, "certificates:all", ttlStatic, []string{TagCertificates},
		func(ctx context.Context) ([]Certificate, error) {
			db, err := s.db(ctx)
			if err != nil {
				return nil, err
			}
			var out []Certificate
			if err := db.SelectContext(ctx, &out,
				`SELECT `+certificateCols+` FROM certificate ORDER BY position, id`); err != nil {
				return nil, fmt.Errorf("list certificates: %w", err)
			}
			return out, nil
		})
}

// Certificate returns one certificate by id.
func (s *Service) Certificate(ctx context.Context, id uint64) (*Certificate, error) {
	db, err := s.db(ctx)
	if err != nil {
		return nil, err
	}
	return getCertificate(ctx, db, id)
}

func getCertificate(ctx context.Context, q sqlx.QueryerContext, id uint64) (*Certificate, error) {
	var c Certificate
	if err := sqlx.GetContext(ctx, q, &c,
		`SELECT `+certificateCols+` FROM certificate WHERE id = ?`, id); err != nil {
		return nil, notFound(err, "certificate")
	}
	return &c, nil
}

// CreateCertificate inserts a certificate.
func (s *Service) CreateCertificate(ctx context.Context, in CertificateInput) (*Certificate, error) {
	db, err := s.db(ctx)
	if err != nil {
		return nil, err
	}
	res, err := db.ExecContext(ctx, `INSERT INTO certificate
        (title, title_ar, issuer, image, position) VALUES (?, ?, ?, ?, ?)`,
		in.Title, in.TitleAr, in.Issuer, in.Image, in.Position)
	if err != nil {
		return nil, writeErr(err, "insert certificate")
	}
	id, err := lastID(res)
	if err != nil {
		return nil, err
	}
	s.invalidate([]string{TagCertificates}, "/")
	return getCertificate(ctx, db, id)
}

// UpdateCertificate replaces a certificate.
func (s *Service) UpdateCertificate(ctx context.Context, id uint64, in CertificateInput) (*Certificate, error) {
	db, err := s.db(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := getCertificate(ctx, db, id); err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, `UPDATE certificate SET
        title = ?, title_ar = ?, issuer = ?, image = ?, position = ? WHERE id = ?`,
		in.Title, in.TitleAr, in.Issuer, in.Image, in.Position, id); err != nil {
		return nil, writeErr(err, "update certificate")
	}
	s.invalidate([]string{TagCertificates}, "/")
	return getCertificate(ctx, db, id)
}

// DeleteCertificate removes a certificate.
func (s *Service) DeleteCertificate(ctx context.Context, id uint64) error {
	db, err := s.db(ctx)
	if err != nil {
		return err
	}
	if err := deleteByID(ctx, db, "certificate", id); err != nil {
		return err
	}
	s.invalidate([]string{TagCertificates}, "/")
	return nil
}

/*──────────────────────────── awards ──────────────────────────────────────*/

// Awards returns the ordered award gallery.
func (s *Service) Awards(ctx context.Context) ([]Award, error) {
	return cache.Fetch(ctx, s.cache, "awards:all", ttlStatic, []string{TagAwards},
		func(ctx context.Context) ([]Award, error) {
			db, err := s.db(ctx)
			if err != nil {
				return nil, err
			}
			var out []Award
			if err := db.SelectContext(ctx, &out,
				`SELECT `+awardCols+` FROM award ORDER BY position, year DESC, id`); err != nil {
				return nil, fmt.Errorf("list awards: %w", err)
			}
			return out, nil
		})
}

// Award returns one award by id.
func (s *Service) Award(ctx context.Context, id uint64) (*Award, error) {
	db, err := s.db(ctx)
	if err != nil {
		return nil, err
	}
	return getAward(ctx, db, id)
}

func getAward(ctx context.Context, q sqlx.QueryerContext, id uint64) (*Award, error) {
	var a Award
	if err := sqlx.GetContext(ctx, q, &a, `SELECT `+awardCols+` FROM award WHERE id = ?`, id); err != nil {
		return nil, notFound(err, "award")
	}
	return &a, nil
}

// CreateAward inserts an award.
func (s *Service) CreateAward(ctx context.Context, in AwardInput) (*Award, error) {
	db, err := s.db(ctx)
	if err != nil {
		return nil, err
	}
	res, err := db.ExecContext(ctx, `INSERT INTO award
        (title, title_ar, description, description_ar, year, image, position)
        VALUES (?, ?, ?, ?, ?, ?, ?)`,
		in.Title, in.TitleAr, in.Description, in.DescriptionAr, in.Year, in.Image, in.Position)
	if err != nil {
		return nil, writeErr(err, "insert award")
	}
	id, err := lastID(res)
	if err != nil {
		return nil, err
	}
	s.invalidate([]string{TagAwards}, "/")
	return getAward(ctx, db, id)
}

// UpdateAward replaces an award.
func (s *Service) UpdateAward(ctx context.Context, id uint64, in AwardInput) (*Award, error) {
	db, err := s.db(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := getAward(ctx, db, id); err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, `UPDATE award SET
        title = ?, title_ar = ?, description = ?, description_ar = ?, year = ?, image = ?,
        position = ? WHERE id = ?`,
		in.Title, in.TitleAr, in.Description, in.DescriptionAr, in.Year, in.Image,
		in.Position, id); err != nil {
		return nil, writeErr(err, "update award")
	}
	s.invalidate([]string{TagAwards}, "/")
	return getAward(ctx, db, id)
}

// DeleteAward removes an award.
func (s *Service) DeleteAward(ctx context.Context, id uint64) error {
	db, err := s.db(ctx)
	if err != nil {
		return err
	}
	if err := deleteByID(ctx, db, "award", id); err != nil {
		return err
	}
	s.invalidate([]string{TagAwards}, "/")
	return nil
}
