package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/yanizio/agrocms/internal/cache"
	"github.com/yanizio/agrocms/internal/database"
)

const (
	companyCols = `id, name, name_ar, tagline, tagline_ar, about, about_ar, email, phone, whatsapp,
        facebook, instagram, linkedin, logo, updated_at`
	headquarterCols = `id, name, name_ar, address, address_ar, phone, email, map_url, latitude,
        longitude, is_primary, position, created_at, updated_at`
)

// companyID is the singleton row key.
const companyID = 1

/*──────────────────────────── company ─────────────────────────────────────*/

// Company returns the singleton company record.  Before the first admin
// save it is an empty record with ID 1.
func (s *Service) Company(ctx context.Context) (*Company, error) {
	return cache.Fetch(ctx, s.cache, "company:data", ttlStatic, []string{TagCompany},
		func(ctx context.Context) (*Company, error) {
			db, err := s.db(ctx)
			if err != nil {
				return nil, err
			}
			var c Company
			err = db.GetContext(ctx, &c, `SELECT `+companyCols+` FROM company_data WHERE id = ?`, companyID)
			switch {
			case errors.Is(err, sql.ErrNoRows):
				return &Company{ID: companyID}, nil
			case err != nil:
				return nil, fmt.Errorf("company: %w", err)
			}
			return &c, nil
		})
}

// UpdateCompany upserts the singleton.  The layout shows company data on
// every page, so every rendered page is dropped via the tag.
func (s *Service) UpdateCompany(ctx context.Context, in CompanyInput) (*Company, error) {
	db, err := s.db(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, `INSERT INTO company_data
        (id, name, name_ar, tagline, tagline_ar, about, about_ar, email, phone, whatsapp,
         facebook, instagram, linkedin, logo)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON DUPLICATE KEY UPDATE
         name = VALUES(name), name_ar = VALUES(name_ar), tagline = VALUES(tagline),
         tagline_ar = VALUES(tagline_ar), about = VALUES(about), about_ar = VALUES(about_ar),
         email = VALUES(email), phone = VALUES(phone), whatsapp = VALUES(whatsapp),
         facebook = VALUES(facebook), instagram = VALUES(instagram),
         linkedin = VALUES(linkedin), logo = VALUES(logo)`,
		companyID, in.Name, in.NameAr, in.Tagline, in.TaglineAr, in.About, in.AboutAr,
		in.Email, in.Phone, in.WhatsApp, in.Facebook, in.Instagram, in.LinkedIn, in.Logo); err != nil {
		return nil, fmt.Errorf("upsert company: %w", err)
	}
	s.invalidate([]string{TagCompany}, "/")

	var c Company
	if err := db.GetContext(ctx, &c, `SELECT `+companyCols+` FROM company_data WHERE id = ?`, companyID); err != nil {
		return nil, notFound(err, "company")
	}
	return &c, nil
}

/*──────────────────────────── headquarters ────────────────────────────────*/

// Headquarters returns offices, primary first.
func (s *Service) Headquarters(ctx context.Context) ([]Headquarter, error) {
	return cache.Fetch(ctx, s.cache, "headquarters:all", ttlStatic, []string{TagHeadquarters},
		func(ctx context.Context) ([]Headquarter, error) {
			db, err := s.db(ctx)
			if err != nil {
				return nil, err
			}
			var out []Headquarter
			if err := db.SelectContext(ctx, &out, `SELECT `+headquarterCols+` FROM headquarter
        ORDER BY is_primary DESC, position, id`); err != nil {
				return nil, fmt.Errorf("list headquarters: %w", err)
			}
			return out, nil
		})
}

// Headquarter returns one office by id.
func (s *Service) Headquarter(ctx context.Context, id uint64) (*Headquarter, error) {
	db, err := s.db(ctx)
	if err != nil {
		return nil, err
	}
	return getHeadquarter(ctx, db, id)
}

func getHeadquarter(ctx context.Context, q sqlx.QueryerContext, id uint64) (*Headquarter, error) {
	var h Headquarter
	if err := sqlx.GetContext(ctx, q, &h,
		`SELECT `+headquarterCols+` FROM headquarter WHERE id = ?`, id); err != nil {
		return nil, notFound(err, "headquarter")
	}
	return &h, nil
}

func coords(in HeadquarterInput) (lat, lng decimal.Decimal, err error) {
	if in.Latitude != "" {
		if lat, err = decimal.NewFromString(in.Latitude); err != nil {
			return lat, lng, fmt.Errorf("latitude: %w", err)
		}
	}
	if in.Longitude != "" {
		if lng, err = decimal.NewFromString(in.Longitude); err != nil {
			return lat, lng, fmt.Errorf("longitude: %w", err)
		}
	}
	return lat.Round(6), lng.Round(6), nil
}

// CreateHeadquarter inserts an office.  Marking it primary clears the flag
// on every other office in the same transaction.
func (s *Service) CreateHeadquarter(ctx context.Context, in HeadquarterInput) (*Headquarter, error) {
	lat, lng, err := coords(in)
	if err != nil {
		return nil, err
	}
	db, err := s.db(ctx)
	if err != nil {
		return nil, err
	}

	var id uint64
	err = database.WithTx(ctx, db, func(tx *sqlx.Tx) error {
		if in.IsPrimary {
			if _, err := tx.ExecContext(ctx, `UPDATE headquarter SET is_primary = 0`); err != nil {
				return fmt.Errorf("clear primary: %w", err)
			}
		}
		res, err := tx.ExecContext(ctx, `INSERT INTO headquarter
        (name, name_ar, address, address_ar, phone, email, map_url, latitude, longitude,
         is_primary, position)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			in.Name, in.NameAr, in.Address, in.AddressAr, in.Phone, in.Email, in.MapURL,
			lat, lng, in.IsPrimary, in.Position)
		if err != nil {
			return writeErr(err, "insert headquarter")
		}
		id, err = lastID(res)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.invalidate([]string{TagHeadquarters}, "/contact")
	return getHeadquarter(ctx, db, id)
}

// UpdateHeadquarter replaces an office.
func (s *Service) UpdateHeadquarter(ctx context.Context, id uint64, in HeadquarterInput) (*Headquarter, error) {
	lat, lng, err := coords(in)
	if err != nil {
		return nil, err
	}
	db, err := s.db(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := getHeadquarter(ctx, db, id); err != nil {
		return nil, err
	}

	err = database.WithTx(ctx, db, func(tx *sqlx.Tx) error {
		if in.IsPrimary {
			if _, err := tx.ExecContext(ctx,
				`UPDATE headquarter SET is_primary = 0 WHERE id <> ?`, id); err != nil {
				return fmt.Errorf("clear primary: %w", err)
			}
		}
		_, err := tx.ExecContext(ctx, `UPDATE headquarter SET
        name = ?, name_ar = ?, address = ?, address_ar = ?, phone = ?, email = ?, map_url = ?,
        latitude = ?, longitude = ?, is_primary = ?, position = ?
        WHERE id = ?`,
			in.Name, in.NameAr, in.Address, in.AddressAr, in.Phone, in.Email, in.MapURL,
			lat, lng, in.IsPrimary, in.Position, id)
		if err != nil {
			return writeErr(err, "update headquarter")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidate([]string{TagHeadquarters}, "/contact")
	return getHeadquarter(ctx, db, id)
}

// DeleteHeadquarter removes an office.
func (s *Service) DeleteHeadquarter(ctx context.Context, id uint64) error {
	db, err := s.db(ctx)
	if err != nil {
		return err
	}
	if err := deleteByID(ctx, db, "headquarter", id); err != nil {
		return err
	}
	s.invalidate([]string{TagHeadquarters}, "/contact")
	return nil
}
