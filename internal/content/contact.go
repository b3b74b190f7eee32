package content

import (
	"context"
	"fmt"
)

const contactCols = `id, name, email, phone, company, subject, message, is_read, ip, country,
        user_agent, created_at, updated_at`

// CreateContact stores one contact-form submission.  Contact data is never
// cached, so nothing is invalidated.
func (s *Service) CreateContact(ctx context.Context, in ContactInput, meta ContactMeta) (uint64, error) {
	db, err := s.db(ctx)
	if err != nil {
		return 0, err
	}
	res, err := db.ExecContext(ctx, `INSERT INTO contact_submission
        (name, email, phone, company, subject, message, ip, country, user_agent)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.Name, in.Email, in.Phone, in.Company, in.Subject, in.Message,
		meta.IP, meta.Country, truncate(meta.UserAgent, 255))
	if err != nil {
		return 0, fmt.Errorf("insert contact: %w", err)
	}
	return lastID(res)
}

// Contacts lists submissions newest first; unreadOnly filters is_read = 0.
func (s *Service) Contacts(ctx context.Context, unreadOnly bool) ([]Contact, error) {
	db, err := s.db(ctx)
	if err != nil {
		return nil, err
	}
	q := `SELECT ` + contactCols + ` FROM contact_submission`
	if unreadOnly {
		q += ` WHERE is_read = 0`
	}
	q += ` ORDER BY created_at DESC, id DESC`

	var out []Contact
	if err := db.SelectContext(ctx, &out, q); err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return out, nil
}

// MarkContactRead sets or clears the read flag.
func (s *Service) MarkContactRead(ctx context.Context, id uint64, read bool) error {
	db, err := s.db(ctx)
	if err != nil {
		return err
	}
	var n int
	if err := db.GetContext(ctx, &n, `SELECT COUNT(*) FROM contact_submission WHERE id = ?`, id); err != nil {
		return fmt.Errorf("contact lookup: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	if _, err := db.ExecContext(ctx,
		`UPDATE contact_submission SET is_read = ? WHERE id = ?`, read, id); err != nil {
		return fmt.Errorf("mark contact: %w", err)
	}
	return nil
}

// DeleteContact removes a submission.
func (s *Service) DeleteContact(ctx context.Context, id uint64) error {
	db, err := s.db(ctx)
	if err != nil {
		return err
	}
	return deleteByID(ctx, db, "contact_submission", id)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	// back off to a rune boundary
	for n > 0 && s[n]&0xC0 == 0x80 {
		n--
	}
	return s[:n]
}
